package veracity

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// A Token represents an individual token of text such as a word or punctuation
// symbol.
type Token struct {
	Text  string // The token's actual content.
	Start int    // Start position in the sanitized text
	End   int    // End position in the sanitized text
}

// Label is the normalized binary class of a comment.
type Label int

const (
	Genuine Label = 0
	Fake    Label = 1
)

// classNames are stored in every artifact, in index order.
var classNames = []string{"genuine", "fake"}

// String returns the verdict name of the label.
func (l Label) String() string {
	if l == Fake {
		return "fake"
	}
	return "genuine"
}

// Probabilities holds [p_genuine, p_fake].
type Probabilities [2]float64

// Genuine returns the probability of the genuine class.
func (p Probabilities) Genuine() float64 { return p[Genuine] }

// Fake returns the probability of the fake class.
func (p Probabilities) Fake() float64 { return p[Fake] }

// Decide picks the winning class. Fake wins only when strictly more likely, so
// an exact tie resolves to Genuine.
func (p Probabilities) Decide() Label {
	if p[Fake] > p[Genuine] {
		return Fake
	}
	return Genuine
}

// Confidence returns the winning class probability as a percentage rounded to
// one decimal place.
func (p Probabilities) Confidence() float64 {
	return math.Round(p[p.Decide()]*1000) / 10
}

// FeatureVector is a sparse TF-IDF vector. Indices are strictly ascending.
type FeatureVector struct {
	Dim     int
	Indices []int
	Values  []float64
}

// Dot returns the inner product with a dense weight slice of length Dim.
func (f FeatureVector) Dot(w []float64) float64 {
	var sum float64
	for i, idx := range f.Indices {
		sum += w[idx] * f.Values[i]
	}
	return sum
}

// Norm returns the Euclidean norm of the vector.
func (f FeatureVector) Norm() float64 {
	var sum float64
	for _, v := range f.Values {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// NonZero reports how many dimensions carry weight.
func (f FeatureVector) NonZero() int {
	return len(f.Indices)
}

// Dense expands the vector into a gonum vector.
func (f FeatureVector) Dense() *mat.VecDense {
	if f.Dim == 0 {
		return nil
	}
	v := mat.NewVecDense(f.Dim, nil)
	for i, idx := range f.Indices {
		v.SetVec(idx, f.Values[i])
	}
	return v
}

// SentimentLabel is the coarse polarity class.
type SentimentLabel string

const (
	Positive SentimentLabel = "positive"
	Neutral  SentimentLabel = "neutral"
	Negative SentimentLabel = "negative"
)

// Sentiment is the advisory polarity result for one text.
type Sentiment struct {
	Score float64        // -1.0 (negative) to 1.0 (positive)
	Label SentimentLabel // Derived from Score
}

// Analysis is the combined result of classifying one comment.
type Analysis struct {
	Verdict       Label
	Confidence    float64 // Winning class probability, percent, one decimal
	Probabilities Probabilities
	Sentiment     Sentiment
}
