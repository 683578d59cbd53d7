package veracity

import (
	"fmt"
	"strings"
)

// ConfusionMatrix counts predictions; rows are actual classes, columns are
// predicted classes, both in label order.
type ConfusionMatrix [2][2]int

// ClassMetrics holds precision, recall and F1 for one class.
type ClassMetrics struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Evaluation holds held-out metrics for a fitted model.
type Evaluation struct {
	Samples     int
	Accuracy    float64
	Confusion   ConfusionMatrix
	PerClass    [2]ClassMetrics
	MacroAvg    ClassMetrics
	WeightedAvg ClassMetrics
}

// reportNames label the rows of the classification report.
var reportNames = [2]string{"Real (0)", "Fake (1)"}

// Evaluate compares predictions against the truth. Ratios with a zero
// denominator are reported as 0.
func Evaluate(actual, predicted []Label) Evaluation {
	var e Evaluation
	n := len(actual)
	if len(predicted) < n {
		n = len(predicted)
	}
	e.Samples = n
	if n == 0 {
		return e
	}

	correct := 0
	for i := 0; i < n; i++ {
		e.Confusion[actual[i]][predicted[i]]++
		if actual[i] == predicted[i] {
			correct++
		}
	}
	e.Accuracy = float64(correct) / float64(n)

	for k := 0; k < 2; k++ {
		tp := e.Confusion[k][k]
		predictedK := e.Confusion[0][k] + e.Confusion[1][k]
		actualK := e.Confusion[k][0] + e.Confusion[k][1]

		m := ClassMetrics{
			Precision: ratio(tp, predictedK),
			Recall:    ratio(tp, actualK),
			Support:   actualK,
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		e.PerClass[k] = m

		e.MacroAvg.Precision += m.Precision / 2
		e.MacroAvg.Recall += m.Recall / 2
		e.MacroAvg.F1 += m.F1 / 2

		w := float64(actualK) / float64(n)
		e.WeightedAvg.Precision += m.Precision * w
		e.WeightedAvg.Recall += m.Recall * w
		e.WeightedAvg.F1 += m.F1 * w
	}
	e.MacroAvg.Support = n
	e.WeightedAvg.Support = n
	return e
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

// Report renders the evaluation as a fixed-width classification report.
func (e Evaluation) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Accuracy: %.4f\n", e.Accuracy)
	fmt.Fprintf(&b, "Confusion Matrix:\n[[%d %d]\n [%d %d]]\n",
		e.Confusion[0][0], e.Confusion[0][1], e.Confusion[1][0], e.Confusion[1][1])
	fmt.Fprintf(&b, "Classification Report:\n%14s %10s %10s %10s %10s\n\n", "", "precision", "recall", "f1-score", "support")
	for k, m := range e.PerClass {
		fmt.Fprintf(&b, "%14s %10.2f %10.2f %10.2f %10d\n", reportNames[k], m.Precision, m.Recall, m.F1, m.Support)
	}
	fmt.Fprintf(&b, "\n%14s %10s %10s %10.2f %10d\n", "accuracy", "", "", e.Accuracy, e.Samples)
	fmt.Fprintf(&b, "%14s %10.2f %10.2f %10.2f %10d\n", "macro avg", e.MacroAvg.Precision, e.MacroAvg.Recall, e.MacroAvg.F1, e.MacroAvg.Support)
	fmt.Fprintf(&b, "%14s %10.2f %10.2f %10.2f %10d\n", "weighted avg", e.WeightedAvg.Precision, e.WeightedAvg.Recall, e.WeightedAvg.F1, e.WeightedAvg.Support)
	return b.String()
}
