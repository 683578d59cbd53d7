package veracity

import (
	"errors"
	"testing"
)

func TestInferLabelKind(t *testing.T) {
	tests := []struct {
		values []string
		want   LabelKind
		desc   string
	}{
		{[]string{"CG", "OR", "CG"}, StringLabels, "Marker strings"},
		{[]string{"True", "false", "TRUE"}, BoolLabels, "Boolean literals"},
		{[]string{"1", "0", "1.0"}, NumericLabels, "Numbers"},
		{[]string{"1", "", "0"}, NumericLabels, "Numbers with a missing cell"},
		{[]string{"True", "", "False"}, StringLabels, "Booleans with a missing cell"},
		{[]string{"yes", "1"}, StringLabels, "Mixed"},
		{[]string{"", "NA"}, StringLabels, "All missing"},
		{nil, StringLabels, "Empty column"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := InferLabelKind(tt.values); got != tt.want {
				t.Errorf("InferLabelKind(%q) = %s, want %s", tt.values, got, tt.want)
			}
		})
	}
}

func TestNormalizeLabels(t *testing.T) {
	tests := []struct {
		kind   LabelKind
		marker string
		raw    string
		want   Label
		desc   string
	}{
		{StringLabels, "CG", "CG", Fake, "Exact marker"},
		{StringLabels, "CG", " cg ", Fake, "Case and whitespace insensitive"},
		{StringLabels, "CG", "OR", Genuine, "Other string"},
		{StringLabels, "CG", "", Genuine, "Missing"},
		{StringLabels, "CG", "NaN", Genuine, "NA literal"},
		{BoolLabels, "true", "True", Fake, "Bool marker"},
		{BoolLabels, "True", "False", Genuine, "Bool other"},
		{BoolLabels, "false", "FALSE", Fake, "Bool false marker"},
		{NumericLabels, "1", "1.0", Fake, "Numeric coerced"},
		{NumericLabels, "1", "0", Genuine, "Numeric other"},
		{NumericLabels, "1", "", Genuine, "Numeric missing"},
		{NumericLabels, "1", "one", Genuine, "Unparseable numeric"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			rule, err := NewLabelRule(tt.kind, tt.marker)
			if err != nil {
				t.Fatalf("NewLabelRule: %v", err)
			}
			if got := rule.Normalize(tt.raw); got != tt.want {
				t.Errorf("Normalize(%q) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestBadLabelMarker(t *testing.T) {
	for _, tt := range []struct {
		kind   LabelKind
		marker string
	}{
		{BoolLabels, "CG"},
		{NumericLabels, "CG"},
	} {
		if _, err := NewLabelRule(tt.kind, tt.marker); !errors.Is(err, ErrBadLabelMarker) {
			t.Errorf("NewLabelRule(%s, %q) error = %v, want ErrBadLabelMarker", tt.kind, tt.marker, err)
		}
	}
	if _, err := NewLabelRule(StringLabels, "anything"); err != nil {
		t.Errorf("string markers always coerce: %v", err)
	}
}

func TestNormalizeAll(t *testing.T) {
	rule, _ := NewLabelRule(StringLabels, "CG")
	labels, counts := rule.NormalizeAll([]string{"CG", "OR", "OR", "", "cg"})
	want := []Label{Fake, Genuine, Genuine, Genuine, Fake}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("label %d = %s, want %s", i, labels[i], want[i])
		}
	}
	if counts != [2]int{3, 2} {
		t.Errorf("counts = %v, want [3 2]", counts)
	}
}
