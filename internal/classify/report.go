package classify

import (
	"fmt"
	"strings"

	"github.com/alicydosanjos/Bot-Email/internal/category"
)

// ClassMetrics holds per-category evaluation figures.
type ClassMetrics struct {
	Category  category.Category `json:"category"`
	Precision float64           `json:"precision"`
	Recall    float64           `json:"recall"`
	F1        float64           `json:"f1"`
	Support   int               `json:"support"`
}

// Report is the outcome of one training run. The confusion matrix rows
// (actual) and columns (predicted) follow category.All() order.
type Report struct {
	Algorithm   Algorithm      `json:"algorithm"`
	Accuracy    float64        `json:"accuracy"`
	Confusion   [][]int        `json:"confusion_matrix"`
	PerClass    []ClassMetrics `json:"per_class"`
	SkippedRows int            `json:"skipped_rows"`
	TrainCount  int            `json:"train_count"`
	TestCount   int            `json:"test_count"`
}

func newConfusion(classes int) [][]int {
	m := make([][]int, classes)
	for i := range m {
		m[i] = make([]int, classes)
	}
	return m
}

func (r *Report) computeMetrics() {
	all := category.All()
	r.PerClass = make([]ClassMetrics, len(all))
	for i, cat := range all {
		tp := r.Confusion[i][i]
		support, predicted := 0, 0
		for j := range all {
			support += r.Confusion[i][j]
			predicted += r.Confusion[j][i]
		}

		var precision, recall, f1 float64
		if predicted > 0 {
			precision = float64(tp) / float64(predicted)
		}
		if support > 0 {
			recall = float64(tp) / float64(support)
		}
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}
		r.PerClass[i] = ClassMetrics{
			Category:  cat,
			Precision: precision,
			Recall:    recall,
			F1:        f1,
			Support:   support,
		}
	}
}

// String renders the per-class report and confusion matrix as text for
// CLI output.
func (r *Report) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%-12s %10s %10s %10s %10s\n", "", "precision", "recall", "f1-score", "support")
	for _, m := range r.PerClass {
		fmt.Fprintf(&b, "%-12s %10.2f %10.2f %10.2f %10d\n",
			m.Category, m.Precision, m.Recall, m.F1, m.Support)
	}
	fmt.Fprintf(&b, "\n%-12s %43.2f %10d\n", "accuracy", r.Accuracy, r.TestCount)
	if r.SkippedRows > 0 {
		fmt.Fprintf(&b, "\nskipped %d rows with unrecognized labels\n", r.SkippedRows)
	}

	b.WriteString("\nconfusion matrix (rows: actual, columns: predicted)\n")
	all := category.All()
	b.WriteString(fmt.Sprintf("%-12s", ""))
	for _, cat := range all {
		fmt.Fprintf(&b, " %10s", shorten(string(cat)))
	}
	b.WriteString("\n")
	for i, cat := range all {
		fmt.Fprintf(&b, "%-12s", cat)
		for j := range all {
			fmt.Fprintf(&b, " %10d", r.Confusion[i][j])
		}
		b.WriteString("\n")
	}
	return b.String()
}

func shorten(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
