package classify

import (
	"math"
	"math/rand"
)

// logisticRegression is a multinomial (softmax) model trained by SGD.
type logisticRegression struct {
	Weights [][]float64 `json:"weights"` // [class][feature]
	Bias    []float64   `json:"bias"`
}

const (
	lrEpochs       = 200
	lrLearningRate = 0.1
)

func (m *logisticRegression) fit(x [][]float64, y []int, classes int, rng *rand.Rand) {
	if len(x) == 0 {
		return
	}
	features := len(x[0])

	m.Weights = make([][]float64, classes)
	for c := range m.Weights {
		m.Weights[c] = make([]float64, features)
	}
	m.Bias = make([]float64, classes)

	order := make([]int, len(x))
	for i := range order {
		order[i] = i
	}

	probs := make([]float64, classes)
	for epoch := 0; epoch < lrEpochs; epoch++ {
		rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
		for _, i := range order {
			m.softmax(x[i], probs)
			for c := 0; c < classes; c++ {
				grad := probs[c]
				if c == y[i] {
					grad -= 1
				}
				if grad == 0 {
					continue
				}
				step := lrLearningRate * grad
				m.Bias[c] -= step
				w := m.Weights[c]
				for j, v := range x[i] {
					if v != 0 {
						w[j] -= step * v
					}
				}
			}
		}
	}
}

func (m *logisticRegression) softmax(x []float64, out []float64) {
	maxScore := math.Inf(-1)
	for c := range out {
		out[c] = dot(m.Weights[c], x) + m.Bias[c]
		if out[c] > maxScore {
			maxScore = out[c]
		}
	}
	var sum float64
	for c := range out {
		out[c] = math.Exp(out[c] - maxScore)
		sum += out[c]
	}
	for c := range out {
		out[c] /= sum
	}
}

func (m *logisticRegression) predict(x []float64) (int, float64) {
	probs := make([]float64, len(m.Weights))
	m.softmax(x, probs)
	best := argmax(probs)
	return best, probs[best]
}
