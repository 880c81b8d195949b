package textproc

import (
	"regexp"
	"strings"

	"github.com/kljensen/snowball"
)

var tokenRegex = regexp.MustCompile(`[a-z0-9]+`)

// accentReplacer folds the Latin accented characters that appear in
// Portuguese (and most western-European) email text to their base letters.
var accentReplacer = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a", "ä", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"í", "i", "ì", "i", "î", "i", "ï", "i",
	"ó", "o", "ò", "o", "ô", "o", "õ", "o", "ö", "o",
	"ú", "u", "ù", "u", "û", "u", "ü", "u",
	"ç", "c", "ñ", "n",
	"Á", "a", "À", "a", "Â", "a", "Ã", "a", "Ä", "a",
	"É", "e", "È", "e", "Ê", "e", "Ë", "e",
	"Í", "i", "Ì", "i", "Î", "i", "Ï", "i",
	"Ó", "o", "Ò", "o", "Ô", "o", "Õ", "o", "Ö", "o",
	"Ú", "u", "Ù", "u", "Û", "u", "Ü", "u",
	"Ç", "c", "Ñ", "n",
)

// Fold lowercases text and strips diacritics.
func Fold(text string) string {
	return strings.ToLower(accentReplacer.Replace(text))
}

// Normalizer turns raw email text into a clean token sequence.
// It is a pure function holder: Normalize has no side effects and
// never fails, degenerate input yields an empty slice.
type Normalizer struct {
	MinWordLength   int
	RemoveStopwords bool
	Stem            bool
	Language        string // snowball language name, e.g. "portuguese"
}

// NewNormalizer builds a normalizer with the given settings. Zero
// minLength and empty language fall back to the standard defaults.
func NewNormalizer(minLength int, removeStopwords, stem bool, language string) *Normalizer {
	if minLength <= 0 {
		minLength = 3
	}
	if language == "" {
		language = "portuguese"
	}
	return &Normalizer{
		MinWordLength:   minLength,
		RemoveStopwords: removeStopwords,
		Stem:            stem,
		Language:        language,
	}
}

// Normalize lowercases, strips accents and punctuation, tokenizes, drops
// short tokens and stopwords, and optionally reduces tokens to a root form.
func (n *Normalizer) Normalize(text string) []string {
	raw := tokenRegex.FindAllString(Fold(text), -1)
	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if len(tok) < n.MinWordLength {
			continue
		}
		if n.RemoveStopwords && isStopword(tok) {
			continue
		}
		if n.Stem {
			if stemmed, err := snowball.Stem(tok, n.Language, false); err == nil && stemmed != "" {
				tok = stemmed
			}
		}
		tokens = append(tokens, tok)
	}
	return tokens
}
