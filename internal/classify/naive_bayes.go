package classify

import (
	"math"
	"math/rand"
)

// naiveBayes is a multinomial Naive Bayes model over TF-IDF weights,
// computed in log space with Laplace smoothing to avoid underflow.
type naiveBayes struct {
	ClassLogPrior  []float64   `json:"class_log_prior"`
	FeatureLogProb [][]float64 `json:"feature_log_prob"` // [class][feature]
}

const nbAlpha = 1.0

func (m *naiveBayes) fit(x [][]float64, y []int, classes int, _ *rand.Rand) {
	if len(x) == 0 {
		return
	}
	features := len(x[0])

	counts := make([]float64, classes)
	featureSums := make([][]float64, classes)
	for c := range featureSums {
		featureSums[c] = make([]float64, features)
	}
	for i, xi := range x {
		c := y[i]
		counts[c]++
		for j, v := range xi {
			featureSums[c][j] += v
		}
	}

	m.ClassLogPrior = make([]float64, classes)
	m.FeatureLogProb = make([][]float64, classes)
	total := float64(len(x))
	for c := 0; c < classes; c++ {
		// Unseen classes keep a vanishing prior instead of -Inf.
		prior := (counts[c] + 1e-10) / (total + 1e-10*float64(classes))
		m.ClassLogPrior[c] = math.Log(prior)

		var classTotal float64
		for _, v := range featureSums[c] {
			classTotal += v
		}
		denom := classTotal + nbAlpha*float64(features)

		m.FeatureLogProb[c] = make([]float64, features)
		for j, v := range featureSums[c] {
			m.FeatureLogProb[c][j] = math.Log((v + nbAlpha) / denom)
		}
	}
}

func (m *naiveBayes) predict(x []float64) (int, float64) {
	scores := make([]float64, len(m.ClassLogPrior))
	for c := range scores {
		scores[c] = m.ClassLogPrior[c]
		probs := m.FeatureLogProb[c]
		for j, v := range x {
			if v != 0 {
				scores[c] += v * probs[j]
			}
		}
	}
	best := argmax(scores)
	return best, softmaxConfidence(scores, best)
}
