package veracity

import (
	"math"
	"strings"
	"testing"
)

func TestEvaluate(t *testing.T) {
	actual := []Label{Genuine, Genuine, Genuine, Fake, Fake}
	predicted := []Label{Genuine, Genuine, Fake, Fake, Genuine}

	e := Evaluate(actual, predicted)
	if e.Samples != 5 {
		t.Errorf("Samples = %d, want 5", e.Samples)
	}
	if want := (ConfusionMatrix{{2, 1}, {1, 1}}); e.Confusion != want {
		t.Errorf("Confusion = %v, want %v", e.Confusion, want)
	}

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"accuracy", e.Accuracy, 0.6},
		{"genuine precision", e.PerClass[Genuine].Precision, 2.0 / 3.0},
		{"genuine recall", e.PerClass[Genuine].Recall, 2.0 / 3.0},
		{"fake precision", e.PerClass[Fake].Precision, 0.5},
		{"fake recall", e.PerClass[Fake].Recall, 0.5},
		{"fake f1", e.PerClass[Fake].F1, 0.5},
		{"macro f1", e.MacroAvg.F1, (2.0/3.0 + 0.5) / 2},
		{"weighted f1", e.WeightedAvg.F1, (2.0/3.0)*0.6 + 0.5*0.4},
	}
	for _, tt := range tests {
		if math.Abs(tt.got-tt.want) > 1e-12 {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
	if e.PerClass[Genuine].Support != 3 || e.PerClass[Fake].Support != 2 {
		t.Errorf("supports = %d/%d, want 3/2", e.PerClass[Genuine].Support, e.PerClass[Fake].Support)
	}
}

func TestEvaluateZeroDivision(t *testing.T) {
	// Nothing is ever predicted fake.
	e := Evaluate([]Label{Genuine, Fake}, []Label{Genuine, Genuine})
	if e.PerClass[Fake].Precision != 0 || e.PerClass[Fake].F1 != 0 {
		t.Errorf("undefined ratios should be 0, got %+v", e.PerClass[Fake])
	}

	empty := Evaluate(nil, nil)
	if empty.Samples != 0 || empty.Accuracy != 0 {
		t.Errorf("empty evaluation = %+v", empty)
	}
}

func TestReport(t *testing.T) {
	e := Evaluate([]Label{Genuine, Fake, Fake}, []Label{Genuine, Fake, Genuine})
	report := e.Report()
	for _, want := range []string{"Accuracy: 0.6667", "[[1 0]\n [1 1]]", "Real (0)", "Fake (1)", "macro avg", "weighted avg"} {
		if !strings.Contains(report, want) {
			t.Errorf("report is missing %q:\n%s", want, report)
		}
	}
}
