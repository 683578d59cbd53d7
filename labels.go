package veracity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadLabelMarker means the configured fake marker cannot be compared
// against the label column.
var ErrBadLabelMarker = errors.New("fake label marker does not match the label column type")

// LabelKind is the inferred type of a label column.
type LabelKind int

const (
	StringLabels LabelKind = iota
	BoolLabels
	NumericLabels
)

func (k LabelKind) String() string {
	switch k {
	case BoolLabels:
		return "bool"
	case NumericLabels:
		return "numeric"
	default:
		return "string"
	}
}

// boolLiterals are the spellings a dataframe reader turns into booleans.
var boolLiterals = map[string]bool{
	"True": true, "TRUE": true, "true": true,
	"False": false, "FALSE": false, "false": false,
}

// InferLabelKind types a column from its raw cells. A column is boolean only
// when every cell is a boolean literal; numeric when every non-missing cell
// parses as a number; string otherwise.
func InferLabelKind(values []string) LabelKind {
	if len(values) == 0 {
		return StringLabels
	}

	allBool, allNumeric, anyValue := true, true, false
	for _, raw := range values {
		v := strings.TrimSpace(raw)
		if _, ok := boolLiterals[v]; !ok {
			allBool = false
		}
		if isMissing(v) {
			continue
		}
		anyValue = true
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			allNumeric = false
		}
	}
	switch {
	case allBool:
		return BoolLabels
	case allNumeric && anyValue:
		return NumericLabels
	default:
		return StringLabels
	}
}

// LabelRule maps raw label cells to Genuine or Fake by comparing against the
// fake marker in a type-aware way.
type LabelRule struct {
	Kind   LabelKind
	Marker string

	boolMarker    bool
	numericMarker float64
}

// NewLabelRule coerces the marker to the column kind.
func NewLabelRule(kind LabelKind, marker string) (LabelRule, error) {
	rule := LabelRule{Kind: kind, Marker: marker}
	m := strings.TrimSpace(marker)
	switch kind {
	case BoolLabels:
		b, err := strconv.ParseBool(m)
		if err != nil {
			return rule, fmt.Errorf("%w: %q is not a boolean", ErrBadLabelMarker, marker)
		}
		rule.boolMarker = b
	case NumericLabels:
		f, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return rule, fmt.Errorf("%w: %q is not a number", ErrBadLabelMarker, marker)
		}
		rule.numericMarker = f
	}
	return rule, nil
}

// Normalize returns the binary label of one raw cell. Missing cells and
// values that cannot be coerced to the column kind are Genuine.
func (r LabelRule) Normalize(raw string) Label {
	v := strings.TrimSpace(raw)
	switch r.Kind {
	case BoolLabels:
		if b, ok := boolLiterals[v]; ok && b == r.boolMarker {
			return Fake
		}
	case NumericLabels:
		if isMissing(v) {
			return Genuine
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil && f == r.numericMarker {
			return Fake
		}
	default:
		if isMissing(raw) {
			return Genuine
		}
		if strings.EqualFold(v, strings.TrimSpace(r.Marker)) {
			return Fake
		}
	}
	return Genuine
}

// NormalizeAll applies the rule to every cell and counts each class.
func (r LabelRule) NormalizeAll(raw []string) ([]Label, [2]int) {
	var counts [2]int
	labels := make([]Label, len(raw))
	for i, v := range raw {
		labels[i] = r.Normalize(v)
		counts[labels[i]]++
	}
	return labels, counts
}
