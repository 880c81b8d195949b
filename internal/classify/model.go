package classify

import (
	"math"
	"math/rand"
)

// Algorithm selects the statistical model family used after training.
type Algorithm string

const (
	NaiveBayes         Algorithm = "naive_bayes"
	LogisticRegression Algorithm = "logistic_regression"
	RandomForest       Algorithm = "random_forest"
	LinearSVM          Algorithm = "linear_svm"
)

// ParseAlgorithm validates an algorithm name from configuration.
func ParseAlgorithm(s string) (Algorithm, bool) {
	switch Algorithm(s) {
	case NaiveBayes, LogisticRegression, RandomForest, LinearSVM:
		return Algorithm(s), true
	}
	return "", false
}

// model is the family-agnostic fit/predict contract. predict returns the
// class index and a confidence estimate in [0, 1].
type model interface {
	fit(x [][]float64, y []int, classes int, rng *rand.Rand)
	predict(x []float64) (int, float64)
}

func newModel(alg Algorithm) model {
	switch alg {
	case LogisticRegression:
		return &logisticRegression{}
	case RandomForest:
		return &randomForest{}
	case LinearSVM:
		return &linearSVM{}
	default:
		return &naiveBayes{}
	}
}

// softmaxConfidence turns raw class scores into the winner's probability.
func softmaxConfidence(scores []float64, best int) float64 {
	maxScore := scores[best]
	var sum float64
	for _, s := range scores {
		sum += math.Exp(s - maxScore)
	}
	if sum == 0 {
		return 0
	}
	return 1 / sum
}

func argmax(scores []float64) int {
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	return best
}

func dot(w, x []float64) float64 {
	var sum float64
	for i := range x {
		sum += w[i] * x[i]
	}
	return sum
}
