package classify

import (
	"regexp"
	"strings"

	"github.com/alicydosanjos/Bot-Email/internal/category"
	"github.com/alicydosanjos/Bot-Email/internal/textproc"
)

var nonWordRegex = regexp.MustCompile(`[^a-z0-9]+`)

// foldForMatch lowercases, strips accents, and collapses everything that
// is not a letter or digit to single spaces, padded so keyword phrases
// match on word boundaries.
func foldForMatch(text string) string {
	return " " + strings.TrimSpace(nonWordRegex.ReplaceAllString(textproc.Fold(text), " ")) + " "
}

// classifyByRules is the untrained fallback: scan the categories from the
// most specific intent to the least and return the first with a keyword
// hit. Nothing matching falls back to greeting.
func (c *Classifier) classifyByRules(text string) Result {
	folded := foldForMatch(text)

	for _, cat := range c.cats.ByPriorityDesc() {
		matches := 0
		for _, kw := range c.cats.Definition(cat).Keywords {
			if strings.Contains(folded, " "+kw+" ") {
				matches++
			}
		}
		if matches > 0 {
			conf := 0.5 + 0.1*float64(matches)
			if conf > 0.9 {
				conf = 0.9
			}
			return Result{Category: cat, Confidence: conf}
		}
	}

	return Result{Category: category.Greeting, Confidence: 0}
}
