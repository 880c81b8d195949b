// Package bot is the facade orchestrating classification, sentiment,
// keyword extraction, and response generation. It owns the single
// classifier instance for the process lifetime; model-replacing
// operations (train/load) take the write lock while classification
// takes the read lock, so a model swap never interleaves with a read.
package bot

import (
	"sync"

	"github.com/alicydosanjos/Bot-Email/internal/category"
	"github.com/alicydosanjos/Bot-Email/internal/classify"
	"github.com/alicydosanjos/Bot-Email/internal/config"
	"github.com/alicydosanjos/Bot-Email/internal/responder"
	"github.com/alicydosanjos/Bot-Email/internal/textproc"
)

// Analysis is the combined result for one email.
type Analysis struct {
	Category     category.Category `json:"category"`
	CategoryName string            `json:"category_name"`
	Icon         string            `json:"icon"`
	Confidence   float64           `json:"confidence"`
	FromModel    bool              `json:"from_model"`
	Sentiment    textproc.Label    `json:"sentiment"`
	Keywords     []string          `json:"keywords"`
	Response     string            `json:"response"`
}

type Bot struct {
	mu         sync.RWMutex
	classifier *classify.Classifier

	cats        *category.Set
	keywords    *textproc.KeywordExtractor
	sentiment   *textproc.SentimentScorer
	responder   *responder.Responder
	maxKeywords int
}

// New builds the facade from configuration and the category set.
func New(cfg *config.Config, cats *category.Set) (*Bot, error) {
	alg, ok := classify.ParseAlgorithm(cfg.Model.Algorithm)
	if !ok {
		alg = classify.NaiveBayes
	}
	opts := classify.Options{
		Algorithm:       alg,
		MaxFeatures:     cfg.Model.MaxFeatures,
		TestSize:        cfg.Model.TestSize,
		RandomState:     cfg.Model.RandomState,
		MinWordLength:   cfg.Model.MinWordLength,
		RemoveStopwords: cfg.Model.EnableStopwords,
		Stem:            cfg.Model.EnableLemmatization,
		Language:        cfg.Model.Language,
		MinExamples:     cfg.Model.MinExamples,
	}

	resp, err := responder.New(cats, cfg.Responder.DefaultRecipient)
	if err != nil {
		return nil, err
	}

	return &Bot{
		classifier:  classify.New(cats, opts),
		cats:        cats,
		keywords:    textproc.NewKeywordExtractor(cfg.Model.MinWordLength, cfg.Model.EnableStopwords),
		sentiment:   textproc.NewSentimentScorer(cfg.Model.MinWordLength, cfg.Analysis.SentimentThreshold),
		responder:   resp,
		maxKeywords: cfg.Analysis.MaxKeywords,
	}, nil
}

// Categories returns the read-only category set.
func (b *Bot) Categories() *category.Set { return b.cats }

func (b *Bot) Trained() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.classifier.Trained()
}

// ClassifyEmail returns the category for an email text.
func (b *Bot) ClassifyEmail(text string) classify.Result {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.classifier.Classify(text)
}

// AnalyzeSentiment scores the polarity of an email text.
func (b *Bot) AnalyzeSentiment(text string) textproc.Label {
	return b.sentiment.Score(text)
}

// ExtractKeywords returns the most relevant tokens of an email text.
func (b *Bot) ExtractKeywords(text string) []string {
	return b.keywords.Extract(text, b.maxKeywords)
}

// GenerateResponse drafts a reply for an already-classified email.
func (b *Bot) GenerateResponse(text string, cat category.Category, recipientName string) string {
	return b.responder.Generate(text, cat, recipientName)
}

// Analyze runs the full pipeline for one email: classify, score
// sentiment, extract keywords, and draft a reply.
func (b *Bot) Analyze(text, recipientName string) Analysis {
	result := b.ClassifyEmail(text)
	def := b.cats.Definition(result.Category)
	return Analysis{
		Category:     result.Category,
		CategoryName: def.Name,
		Icon:         def.Icon,
		Confidence:   result.Confidence,
		FromModel:    result.FromModel,
		Sentiment:    b.AnalyzeSentiment(text),
		Keywords:     b.ExtractKeywords(text),
		Response:     b.GenerateResponse(text, result.Category, recipientName),
	}
}

// TrainModel trains the classifier on labeled examples and swaps in the
// new model atomically with respect to concurrent classification.
func (b *Bot) TrainModel(examples []classify.Example) (*classify.Report, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.classifier.Train(examples)
}

// SaveModel persists the trained model to path.
func (b *Bot) SaveModel(path string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.classifier.Save(path)
}

// LoadModel restores a persisted model, replacing the current one.
func (b *Bot) LoadModel(path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.classifier.Load(path)
}
