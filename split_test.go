package veracity

import (
	"errors"
	"reflect"
	"sort"
	"testing"
)

func labelsOf(nGenuine, nFake int) []Label {
	var out []Label
	for i := 0; i < nGenuine; i++ {
		out = append(out, Genuine)
	}
	for i := 0; i < nFake; i++ {
		out = append(out, Fake)
	}
	return out
}

func countClasses(labels []Label, idx []int) [2]int {
	var c [2]int
	for _, i := range idx {
		c[labels[i]]++
	}
	return c
}

func TestStratifiedSplit(t *testing.T) {
	tests := []struct {
		genuine, fake int
		testSize      float64
		wantTest      int
		wantTestFake  int
		desc          string
	}{
		{50, 50, 0.2, 20, 10, "Balanced"},
		{80, 20, 0.2, 20, 4, "Imbalanced"},
		{7, 3, 0.2, 2, 1, "Largest remainder"},
		{9, 2, 0.2, 3, 1, "Rounded up test size"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			labels := labelsOf(tt.genuine, tt.fake)
			s, err := StratifiedSplit(labels, tt.testSize, 42)
			if err != nil {
				t.Fatalf("StratifiedSplit: %v", err)
			}
			if !s.Stratified || s.Fallback != "" {
				t.Errorf("expected a stratified split, got fallback %q", s.Fallback)
			}
			if len(s.Test) != tt.wantTest || len(s.Train) != len(labels)-tt.wantTest {
				t.Errorf("sizes train=%d test=%d, want test=%d", len(s.Train), len(s.Test), tt.wantTest)
			}
			if got := countClasses(labels, s.Test)[Fake]; got != tt.wantTestFake {
				t.Errorf("test set holds %d fake, want %d", got, tt.wantTestFake)
			}
			trainCounts := countClasses(labels, s.Train)
			if trainCounts[Genuine] == 0 || trainCounts[Fake] == 0 {
				t.Errorf("train set lost a class: %v", trainCounts)
			}
			assertPartition(t, len(labels), s)
		})
	}
}

func assertPartition(t *testing.T, n int, s Split) {
	t.Helper()
	if !sort.IntsAreSorted(s.Train) || !sort.IntsAreSorted(s.Test) {
		t.Error("indices should be sorted")
	}
	seen := make(map[int]bool, n)
	for _, i := range append(append([]int(nil), s.Train...), s.Test...) {
		if seen[i] {
			t.Fatalf("index %d appears twice", i)
		}
		seen[i] = true
	}
	if len(seen) != n {
		t.Errorf("split covers %d of %d records", len(seen), n)
	}
}

func TestSplitDeterministic(t *testing.T) {
	labels := labelsOf(30, 12)
	a, _ := StratifiedSplit(labels, 0.2, 42)
	b, _ := StratifiedSplit(labels, 0.2, 42)
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different splits")
	}
}

func TestSplitFallback(t *testing.T) {
	tests := []struct {
		labels []Label
		desc   string
	}{
		{labelsOf(9, 1), "Singleton class"},
		{labelsOf(2, 2), "Test set smaller than class count"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			s, err := StratifiedSplit(tt.labels, 0.2, 42)
			if err != nil {
				t.Fatalf("StratifiedSplit: %v", err)
			}
			if s.Stratified || s.Fallback == "" {
				t.Errorf("expected a recorded fallback, got %+v", s)
			}
			assertPartition(t, len(tt.labels), s)

			again, _ := StratifiedSplit(tt.labels, 0.2, 42)
			if !reflect.DeepEqual(s, again) {
				t.Error("fallback split is not deterministic")
			}
		})
	}
}

func TestSplitErrors(t *testing.T) {
	if _, err := StratifiedSplit(labelsOf(1, 0), 0.2, 42); !errors.Is(err, ErrNoRecords) {
		t.Errorf("expected ErrNoRecords for one record, got %v", err)
	}
	if _, err := StratifiedSplit(nil, 0.2, 42); !errors.Is(err, ErrNoRecords) {
		t.Errorf("expected ErrNoRecords for no records, got %v", err)
	}
	for _, size := range []float64{0, 1, -0.5, 1.5} {
		if _, err := StratifiedSplit(labelsOf(5, 5), size, 42); err == nil {
			t.Errorf("expected error for test size %v", size)
		}
	}
}
