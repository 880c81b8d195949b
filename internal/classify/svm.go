package classify

import "math/rand"

// linearSVM trains one-vs-rest linear classifiers with hinge loss and L2
// regularization via SGD.
type linearSVM struct {
	Weights [][]float64 `json:"weights"` // [class][feature]
	Bias    []float64   `json:"bias"`
}

const (
	svmEpochs       = 200
	svmLearningRate = 0.01
	svmLambda       = 1e-4
)

func (m *linearSVM) fit(x [][]float64, y []int, classes int, rng *rand.Rand) {
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

	for epoch := 0; epoch < svmEpochs; epoch++ {
		rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
		for _, i := range order {
			for c := 0; c < classes; c++ {
				target := -1.0
				if y[i] == c {
					target = 1.0
				}
				w := m.Weights[c]
				margin := target * (dot(w, x[i]) + m.Bias[c])

				decay := 1 - svmLearningRate*svmLambda
				for j := range w {
					w[j] *= decay
				}
				if margin < 1 {
					for j, v := range x[i] {
						if v != 0 {
							w[j] += svmLearningRate * target * v
						}
					}
					m.Bias[c] += svmLearningRate * target
				}
			}
		}
	}
}

func (m *linearSVM) predict(x []float64) (int, float64) {
	scores := make([]float64, len(m.Weights))
	for c := range scores {
		scores[c] = dot(m.Weights[c], x) + m.Bias[c]
	}
	best := argmax(scores)
	return best, softmaxConfidence(scores, best)
}
