package veracity

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Split holds record indices for the train and test partitions.
type Split struct {
	Train      []int
	Test       []int
	Stratified bool
	// Fallback explains why stratification was abandoned, if it was.
	Fallback string
}

// StratifiedSplit partitions record indices so each class keeps roughly its
// share in both halves. When that is impossible it falls back to a plain
// seeded shuffle and records the reason in Split.Fallback. Both paths are
// fully determined by seed.
func StratifiedSplit(labels []Label, testSize float64, seed int64) (Split, error) {
	n := len(labels)
	if testSize <= 0 || testSize >= 1 {
		return Split{}, fmt.Errorf("test size must be in (0, 1), got %g", testSize)
	}
	nTest := int(math.Ceil(testSize * float64(n)))
	nTrain := n - nTest
	if nTest < 1 || nTrain < 1 {
		return Split{}, fmt.Errorf("%w: %d records cannot be split into train and test sets", ErrNoRecords, n)
	}

	byClass := make(map[Label][]int)
	for i, label := range labels {
		byClass[label] = append(byClass[label], i)
	}
	classes := make([]Label, 0, len(byClass))
	for label := range byClass {
		classes = append(classes, label)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })

	rng := rand.New(rand.NewSource(seed))

	if reason := stratifyInfeasible(byClass, classes, nTrain, nTest); reason != "" {
		perm := rng.Perm(n)
		s := Split{
			Test:     append([]int(nil), perm[:nTest]...),
			Train:    append([]int(nil), perm[nTest:]...),
			Fallback: reason,
		}
		sort.Ints(s.Test)
		sort.Ints(s.Train)
		return s, nil
	}

	alloc := allocateTest(byClass, classes, n, nTest)
	s := Split{Stratified: true}
	for _, label := range classes {
		members := append([]int(nil), byClass[label]...)
		rng.Shuffle(len(members), func(i, j int) {
			members[i], members[j] = members[j], members[i]
		})
		k := alloc[label]
		s.Test = append(s.Test, members[:k]...)
		s.Train = append(s.Train, members[k:]...)
	}
	sort.Ints(s.Test)
	sort.Ints(s.Train)
	return s, nil
}

func stratifyInfeasible(byClass map[Label][]int, classes []Label, nTrain, nTest int) string {
	for _, label := range classes {
		if len(byClass[label]) < 2 {
			return fmt.Sprintf("class %s has only %d member(s); at least 2 are needed to stratify", label, len(byClass[label]))
		}
	}
	if nTest < len(classes) {
		return fmt.Sprintf("test set of %d cannot hold all %d classes", nTest, len(classes))
	}
	if nTrain < len(classes) {
		return fmt.Sprintf("train set of %d cannot hold all %d classes", nTrain, len(classes))
	}
	return ""
}

// allocateTest gives each class its proportional share of the test set,
// handing out leftover slots by largest remainder, then larger class, then
// lower label.
func allocateTest(byClass map[Label][]int, classes []Label, n, nTest int) map[Label]int {
	type share struct {
		label     Label
		size      int
		remainder float64
	}

	alloc := make(map[Label]int, len(classes))
	shares := make([]share, 0, len(classes))
	given := 0
	for _, label := range classes {
		size := len(byClass[label])
		exact := float64(nTest) * float64(size) / float64(n)
		k := int(math.Floor(exact))
		alloc[label] = k
		given += k
		shares = append(shares, share{label: label, size: size, remainder: exact - float64(k)})
	}
	sort.SliceStable(shares, func(i, j int) bool {
		if shares[i].remainder != shares[j].remainder {
			return shares[i].remainder > shares[j].remainder
		}
		if shares[i].size != shares[j].size {
			return shares[i].size > shares[j].size
		}
		return shares[i].label < shares[j].label
	})
	for i := 0; given < nTest; i = (i + 1) % len(shares) {
		if alloc[shares[i].label] < shares[i].size-1 {
			alloc[shares[i].label]++
			given++
		}
	}
	return alloc
}
