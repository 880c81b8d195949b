package classify

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const snapshotVersion = 1

type normalizerState struct {
	MinWordLength   int    `json:"min_word_length"`
	RemoveStopwords bool   `json:"remove_stopwords"`
	Stem            bool   `json:"stem"`
	Language        string `json:"language"`
}

// snapshot bundles the fitted vectorizer and model so they persist and
// restore as one atomic unit: a loaded classifier reproduces the exact
// predictions of the saved one.
type snapshot struct {
	Version    int             `json:"version"`
	Algorithm  Algorithm       `json:"algorithm"`
	Normalizer normalizerState `json:"normalizer"`
	Vectorizer vectorizerState `json:"vectorizer"`

	NaiveBayes *naiveBayes         `json:"naive_bayes,omitempty"`
	Logistic   *logisticRegression `json:"logistic_regression,omitempty"`
	SVM        *linearSVM          `json:"linear_svm,omitempty"`
	Forest     *randomForest       `json:"random_forest,omitempty"`
}

// Save writes the trained model to path. The write goes to a temporary
// file in the same directory and is renamed into place, so a crash
// mid-save never leaves a half-written model.
func (c *Classifier) Save(path string) error {
	if !c.trained {
		return fmt.Errorf("no trained model to save")
	}

	snap := snapshot{
		Version:   snapshotVersion,
		Algorithm: c.opts.Algorithm,
		Normalizer: normalizerState{
			MinWordLength:   c.opts.MinWordLength,
			RemoveStopwords: c.opts.RemoveStopwords,
			Stem:            c.opts.Stem,
			Language:        c.opts.Language,
		},
		Vectorizer: c.vec.state(),
	}
	switch m := c.model.(type) {
	case *naiveBayes:
		snap.NaiveBayes = m
	case *logisticRegression:
		snap.Logistic = m
	case *linearSVM:
		snap.SVM = m
	case *randomForest:
		snap.Forest = m
	default:
		return fmt.Errorf("unknown model type %T", c.model)
	}

	data, err := json.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("failed to serialize model: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".model-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temporary model file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write model file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write model file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace model file: %w", err)
	}
	return nil
}

// Load restores a previously saved model, transitioning the classifier
// directly to the trained state. Returns ErrModelNotFound when no file
// exists and ErrModelCorrupt when the content is unreadable.
func (c *Classifier) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrModelNotFound, path)
		}
		return fmt.Errorf("failed to read model file: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w: %v", ErrModelCorrupt, err)
	}
	if snap.Version != snapshotVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrModelCorrupt, snap.Version)
	}

	var m model
	switch snap.Algorithm {
	case NaiveBayes:
		if snap.NaiveBayes != nil {
			m = snap.NaiveBayes
		}
	case LogisticRegression:
		if snap.Logistic != nil {
			m = snap.Logistic
		}
	case LinearSVM:
		if snap.SVM != nil {
			m = snap.SVM
		}
	case RandomForest:
		if snap.Forest != nil {
			m = snap.Forest
		}
	default:
		return fmt.Errorf("%w: unknown algorithm %q", ErrModelCorrupt, snap.Algorithm)
	}
	if m == nil || len(snap.Vectorizer.Terms) == 0 {
		return fmt.Errorf("%w: missing model parameters", ErrModelCorrupt)
	}

	// The snapshot's normalizer settings override the configured ones so
	// predictions match the saved model regardless of config drift.
	c.opts.Algorithm = snap.Algorithm
	c.opts.MinWordLength = snap.Normalizer.MinWordLength
	c.opts.RemoveStopwords = snap.Normalizer.RemoveStopwords
	c.opts.Stem = snap.Normalizer.Stem
	c.opts.Language = snap.Normalizer.Language

	c.vec = restoreVectorizer(c.newNormalizer(), snap.Vectorizer)
	c.model = m
	c.trained = true
	return nil
}
