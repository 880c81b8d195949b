package classify

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/alicydosanjos/Bot-Email/internal/category"
	"github.com/alicydosanjos/Bot-Email/internal/textproc"
)

// Example is one labeled training row.
type Example struct {
	Text  string
	Label string
}

// Result is the outcome of classifying one email.
type Result struct {
	Category   category.Category
	Confidence float64
	FromModel  bool // false when produced by the keyword-rule fallback
}

// Options configure the classifier and its feature extraction.
type Options struct {
	Algorithm       Algorithm
	MaxFeatures     int
	TestSize        float64
	RandomState     int64
	MinWordLength   int
	RemoveStopwords bool
	Stem            bool
	Language        string
	MinExamples     int
}

func DefaultOptions() Options {
	return Options{
		Algorithm:       NaiveBayes,
		MaxFeatures:     5000,
		TestSize:        0.2,
		RandomState:     42,
		MinWordLength:   3,
		RemoveStopwords: true,
		Stem:            true,
		Language:        "portuguese",
		MinExamples:     10,
	}
}

// Classifier maps email text to one of the six fixed categories. It is a
// two-state machine: untrained (keyword-rule fallback) and trained
// (vectorize + predict). Training failures never disturb the current
// state.
type Classifier struct {
	opts Options
	cats *category.Set

	vec     *Vectorizer
	model   model
	trained bool
}

func New(cats *category.Set, opts Options) *Classifier {
	if opts.MaxFeatures <= 0 {
		opts.MaxFeatures = 5000
	}
	if opts.TestSize <= 0 || opts.TestSize >= 1 {
		opts.TestSize = 0.2
	}
	if opts.MinExamples < 4 {
		opts.MinExamples = 10
	}
	if opts.Algorithm == "" {
		opts.Algorithm = NaiveBayes
	}
	return &Classifier{opts: opts, cats: cats}
}

func (c *Classifier) Trained() bool { return c.trained }

func (c *Classifier) Algorithm() Algorithm { return c.opts.Algorithm }

func (c *Classifier) newNormalizer() *textproc.Normalizer {
	return textproc.NewNormalizer(c.opts.MinWordLength, c.opts.RemoveStopwords, c.opts.Stem, c.opts.Language)
}

// Classify always returns one of the six categories and never fails.
func (c *Classifier) Classify(text string) Result {
	if !c.trained {
		return c.classifyByRules(text)
	}

	class, conf := c.model.predict(c.vec.Transform(text))
	all := category.All()
	if class < 0 || class >= len(all) {
		// A prediction outside the closed set is a programming bug in the
		// model; degrade to the rule fallback instead of failing.
		return c.classifyByRules(text)
	}
	return Result{Category: all[class], Confidence: conf, FromModel: true}
}

// Train fits the vectorizer and model on a seeded train/test split and
// returns the evaluation report. Rows with labels outside the closed
// category set are skipped and counted. On validation failure the
// previously trained model (if any) is left intact.
func (c *Classifier) Train(examples []Example) (*Report, error) {
	type row struct {
		text  string
		class int
	}

	rows := make([]row, 0, len(examples))
	skipped := 0
	distinct := make(map[int]struct{})
	for _, ex := range examples {
		cat, ok := category.Parse(ex.Label)
		if !ok {
			skipped++
			continue
		}
		class := category.Index(cat)
		rows = append(rows, row{text: ex.Text, class: class})
		distinct[class] = struct{}{}
	}

	if len(rows) < c.opts.MinExamples {
		return nil, &ValidationError{
			Reason: fmt.Sprintf("need at least %d labeled examples, got %d", c.opts.MinExamples, len(rows)),
		}
	}
	if len(distinct) < 2 {
		return nil, &ValidationError{
			Reason: "need examples from at least 2 distinct categories",
		}
	}

	rng := rand.New(rand.NewSource(c.opts.RandomState))
	rng.Shuffle(len(rows), func(i, j int) {
		rows[i], rows[j] = rows[j], rows[i]
	})

	nTest := int(math.Round(float64(len(rows)) * c.opts.TestSize))
	if nTest < 1 {
		nTest = 1
	}
	if nTest > len(rows)-2 {
		nTest = len(rows) - 2
	}
	train := rows[:len(rows)-nTest]
	test := rows[len(rows)-nTest:]

	corpus := make([]string, len(train))
	y := make([]int, len(train))
	for i, r := range train {
		corpus[i] = r.text
		y[i] = r.class
	}

	classes := len(category.All())
	vec := NewVectorizer(c.newNormalizer(), c.opts.MaxFeatures, true)
	vec.Fit(corpus)

	x := make([][]float64, len(train))
	for i, r := range train {
		x[i] = vec.Transform(r.text)
	}

	m := newModel(c.opts.Algorithm)
	m.fit(x, y, classes, rng)

	report := &Report{
		Algorithm:   c.opts.Algorithm,
		Confusion:   newConfusion(classes),
		SkippedRows: skipped,
		TrainCount:  len(train),
		TestCount:   len(test),
	}
	correct := 0
	for _, r := range test {
		predicted, _ := m.predict(vec.Transform(r.text))
		report.Confusion[r.class][predicted]++
		if predicted == r.class {
			correct++
		}
	}
	if len(test) > 0 {
		report.Accuracy = float64(correct) / float64(len(test))
	}
	report.computeMetrics()

	// Commit only after a fully successful fit/evaluate cycle.
	c.vec = vec
	c.model = m
	c.trained = true
	return report, nil
}
