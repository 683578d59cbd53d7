package veracity

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// Class weighting schemes.
const (
	BalancedClassWeight = "balanced"
	NoClassWeight       = "none"
)

// ClassifierConfig configures logistic regression training.
type ClassifierConfig struct {
	C                 float64 // Inverse regularization strength
	ClassWeight       string  // BalancedClassWeight or NoClassWeight
	MaxIterations     int     // Upper bound on L-BFGS major iterations
	GradientTolerance float64 // Stop once the gradient norm falls below this
}

// DefaultClassifierConfig returns C=1 with balanced class weights.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		C:                 1.0,
		ClassWeight:       BalancedClassWeight,
		MaxIterations:     1000,
		GradientTolerance: 1e-6,
	}
}

// FitSummary describes how the optimizer finished.
type FitSummary struct {
	Iterations   int
	Evaluations  int
	Loss         float64
	Status       string
	ClassWeights [2]float64
}

// LogisticRegression is an L2-regularized binary logistic regression model.
// Once fitted it is read-only and safe for concurrent use.
type LogisticRegression struct {
	config  ClassifierConfig
	weights *mat.VecDense
	bias    float64
}

// NewLogisticRegression creates an unfitted classifier.
func NewLogisticRegression(config ClassifierConfig) *LogisticRegression {
	return &LogisticRegression{config: config}
}

// Fitted reports whether the model has parameters.
func (lr *LogisticRegression) Fitted() bool {
	return lr.weights != nil
}

// Weights returns a copy of the per-feature weights.
func (lr *LogisticRegression) Weights() []float64 {
	if lr.weights == nil {
		return nil
	}
	out := mat.NewVecDense(lr.weights.Len(), nil)
	out.CopyVec(lr.weights)
	return out.RawVector().Data
}

// Bias returns the intercept.
func (lr *LogisticRegression) Bias() float64 {
	return lr.bias
}

// classWeights returns per-class loss multipliers. Balanced weights are
// n / (k * count) over the k classes present.
func classWeights(y []Label, scheme string) [2]float64 {
	w := [2]float64{1, 1}
	if scheme != BalancedClassWeight {
		return w
	}
	var counts [2]int
	for _, label := range y {
		counts[label]++
	}
	present := 0
	for _, c := range counts {
		if c > 0 {
			present++
		}
	}
	for k, c := range counts {
		if c > 0 {
			w[k] = float64(len(y)) / float64(present*c)
		}
	}
	return w
}

// Fit minimizes ½(‖w‖²+b²) + C·Σ cw·log(1+exp(-ỹ(w·x+b))) with L-BFGS,
// starting from zero. The intercept is regularized too, so the solution
// stays finite even when y holds a single class.
func (lr *LogisticRegression) Fit(x []FeatureVector, y []Label) (FitSummary, error) {
	if len(x) == 0 {
		return FitSummary{}, errors.New("no training samples")
	}
	if len(x) != len(y) {
		return FitSummary{}, fmt.Errorf("got %d samples but %d labels", len(x), len(y))
	}
	dim := x[0].Dim
	if dim == 0 {
		return FitSummary{}, ErrEmptyVocabulary
	}
	for i, fv := range x {
		if fv.Dim != dim {
			return FitSummary{}, fmt.Errorf("sample %d has %d dimensions, expected %d", i, fv.Dim, dim)
		}
		if y[i] != Genuine && y[i] != Fake {
			return FitSummary{}, fmt.Errorf("sample %d has invalid label %d", i, y[i])
		}
	}
	if lr.config.C <= 0 {
		return FitSummary{}, fmt.Errorf("C must be positive, got %g", lr.config.C)
	}

	cw := classWeights(y, lr.config.ClassWeight)
	sign := make([]float64, len(y))
	scale := make([]float64, len(y))
	for i, label := range y {
		sign[i] = -1
		if label == Fake {
			sign[i] = 1
		}
		scale[i] = lr.config.C * cw[label]
	}

	// params[:dim] are the weights, params[dim] the bias.
	problem := optimize.Problem{
		Func: func(params []float64) float64 {
			w, b := params[:dim], params[dim]
			loss := 0.5 * (floats.Dot(w, w) + b*b)
			for i, fv := range x {
				loss += scale[i] * logLoss(sign[i]*(fv.Dot(w)+b))
			}
			return loss
		},
		Grad: func(grad, params []float64) {
			w, b := params[:dim], params[dim]
			copy(grad, params)
			for i, fv := range x {
				m := sign[i] * (fv.Dot(w) + b)
				g := -scale[i] * sign[i] * sigmoid(-m)
				for j, idx := range fv.Indices {
					grad[idx] += g * fv.Values[j]
				}
				grad[dim] += g
			}
		},
	}

	settings := &optimize.Settings{
		GradientThreshold: lr.config.GradientTolerance,
		MajorIterations:   lr.config.MaxIterations,
	}
	result, err := optimize.Minimize(problem, make([]float64, dim+1), settings, &optimize.LBFGS{})
	if result == nil || result.X == nil {
		if err == nil {
			err = errors.New("optimizer returned no result")
		}
		return FitSummary{}, fmt.Errorf("fit logistic regression: %w", err)
	}
	// A line search that stalls at the optimum still leaves a usable point.
	if err != nil && !isFinite(result.X) {
		return FitSummary{}, fmt.Errorf("fit logistic regression: %w", err)
	}

	lr.weights = mat.NewVecDense(dim, append([]float64(nil), result.X[:dim]...))
	lr.bias = result.X[dim]

	status := result.Status.String()
	if err != nil {
		status = fmt.Sprintf("%s (%v)", status, err)
	}
	return FitSummary{
		Iterations:   result.Stats.MajorIterations,
		Evaluations:  result.Stats.FuncEvaluations,
		Loss:         result.F,
		Status:       status,
		ClassWeights: cw,
	}, nil
}

// decision returns w·x + b.
func (lr *LogisticRegression) decision(x FeatureVector) float64 {
	sum := lr.bias
	for i, idx := range x.Indices {
		sum += lr.weights.AtVec(idx) * x.Values[i]
	}
	return sum
}

// PredictProba returns [p_genuine, p_fake] for one feature vector.
func (lr *LogisticRegression) PredictProba(x FeatureVector) (Probabilities, error) {
	if !lr.Fitted() {
		return Probabilities{}, ErrNotFitted
	}
	if x.Dim != lr.weights.Len() {
		return Probabilities{}, fmt.Errorf("feature vector has %d dimensions, model expects %d", x.Dim, lr.weights.Len())
	}
	pFake := sigmoid(lr.decision(x))
	return Probabilities{1 - pFake, pFake}, nil
}

// Predict returns the winning label for one feature vector.
func (lr *LogisticRegression) Predict(x FeatureVector) (Label, error) {
	p, err := lr.PredictProba(x)
	if err != nil {
		return Genuine, err
	}
	return p.Decide(), nil
}

// logisticFromState rebuilds a fitted model from persisted parameters.
func logisticFromState(weights []float64, bias float64) *LogisticRegression {
	return &LogisticRegression{
		config:  DefaultClassifierConfig(),
		weights: mat.NewVecDense(len(weights), append([]float64(nil), weights...)),
		bias:    bias,
	}
}

// sigmoid computes 1/(1+exp(-z)) without overflow.
func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// logLoss computes log(1+exp(-m)) without overflow.
func logLoss(m float64) float64 {
	if m > 0 {
		return math.Log1p(math.Exp(-m))
	}
	return -m + math.Log1p(math.Exp(m))
}

func isFinite(xs []float64) bool {
	for _, v := range xs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
