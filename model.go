package veracity

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"
)

// ArtifactSchemaVersion is bumped whenever the persisted layout or the
// vocabulary-build procedure changes.
const ArtifactSchemaVersion = 1

// ErrIncompatibleArtifact means a persisted artifact cannot be served by this
// build.
var ErrIncompatibleArtifact = errors.New("incompatible artifact")

// Artifact is the persisted form of a fitted Model.
type Artifact struct {
	SchemaVersion int
	CreatedAt     time.Time
	RunID         string
	Extractor     ExtractorState
	Classifier    ClassifierState
}

// ExtractorState is the frozen feature space.
type ExtractorState struct {
	MaxFeatures int
	NGramMin    int
	NGramMax    int
	StopWords   []string
	Terms       []string // Vocabulary in index order
	IDF         []float64
}

// ClassifierState holds the linear model parameters.
type ClassifierState struct {
	Weights []float64
	Bias    float64
	Classes []string
}

// A Model pairs a fitted Vectorizer with a fitted classifier. It is
// immutable and safe for concurrent use.
type Model struct {
	Name      string
	RunID     string
	CreatedAt time.Time

	vectorizer *Vectorizer
	classifier *LogisticRegression
}

// NewModel bundles fitted components into a Model.
func NewModel(name string, vectorizer *Vectorizer, classifier *LogisticRegression) (*Model, error) {
	if vectorizer == nil || !vectorizer.Fitted() || classifier == nil || !classifier.Fitted() {
		return nil, ErrNotFitted
	}
	if vectorizer.Dim() != len(classifier.Weights()) {
		return nil, fmt.Errorf("%w: vocabulary has %d terms but classifier has %d weights",
			ErrIncompatibleArtifact, vectorizer.Dim(), len(classifier.Weights()))
	}
	return &Model{
		Name:       name,
		CreatedAt:  time.Now().UTC(),
		vectorizer: vectorizer,
		classifier: classifier,
	}, nil
}

// Vectorizer returns the model's feature extractor.
func (m *Model) Vectorizer() *Vectorizer {
	return m.vectorizer
}

// Dim returns the size of the feature space.
func (m *Model) Dim() int {
	if m.vectorizer == nil {
		return 0
	}
	return m.vectorizer.Dim()
}

// PredictProba returns [p_genuine, p_fake] for text.
func (m *Model) PredictProba(text string) (Probabilities, error) {
	if m == nil || m.vectorizer == nil || m.classifier == nil {
		return Probabilities{}, ErrNotFitted
	}
	return m.classifier.PredictProba(m.vectorizer.Transform(text))
}

// Classify returns the decided label together with both probabilities.
func (m *Model) Classify(text string) (Label, Probabilities, error) {
	p, err := m.PredictProba(text)
	if err != nil {
		return Genuine, p, err
	}
	return p.Decide(), p, nil
}

// TermWeight is one vocabulary term's share of the fake-class decision value.
type TermWeight struct {
	Term   string
	Weight float64
}

// Contributions returns up to n terms of text ordered by the magnitude of
// their contribution to w·x. Together with the bias they sum to the decision
// value. n <= 0 returns every present term.
func (m *Model) Contributions(text string, n int) ([]TermWeight, error) {
	if m == nil || m.vectorizer == nil || m.classifier == nil || !m.classifier.Fitted() {
		return nil, ErrNotFitted
	}
	x := m.vectorizer.Transform(text)
	if x.NonZero() == 0 {
		return nil, nil
	}
	w := m.classifier.weights
	if x.Dim != w.Len() {
		return nil, fmt.Errorf("feature vector has %d dimensions, model expects %d", x.Dim, w.Len())
	}

	contrib := mat.NewVecDense(x.Dim, nil)
	contrib.MulElemVec(x.Dense(), w)

	out := make([]TermWeight, 0, x.NonZero())
	for _, idx := range x.Indices {
		out = append(out, TermWeight{Term: m.vectorizer.terms[idx], Weight: contrib.AtVec(idx)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Weight) > math.Abs(out[j].Weight)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// Artifact returns the persisted form of the model.
func (m *Model) Artifact() Artifact {
	cfg := m.vectorizer.Config()
	return Artifact{
		SchemaVersion: ArtifactSchemaVersion,
		CreatedAt:     m.CreatedAt,
		RunID:         m.RunID,
		Extractor: ExtractorState{
			MaxFeatures: cfg.MaxFeatures,
			NGramMin:    cfg.NGramMin,
			NGramMax:    cfg.NGramMax,
			StopWords:   cfg.StopWords,
			Terms:       m.vectorizer.Terms(),
			IDF:         m.vectorizer.IDF(),
		},
		Classifier: ClassifierState{
			Weights: m.classifier.Weights(),
			Bias:    m.classifier.Bias(),
			Classes: append([]string(nil), classNames...),
		},
	}
}

// Validate checks that the artifact describes a feature space and model this
// build can serve.
func (a Artifact) Validate() error {
	if a.SchemaVersion != ArtifactSchemaVersion {
		return fmt.Errorf("%w: schema version %d, expected %d", ErrIncompatibleArtifact, a.SchemaVersion, ArtifactSchemaVersion)
	}
	x := a.Extractor
	if x.NGramMin < 1 || x.NGramMax < x.NGramMin {
		return fmt.Errorf("%w: invalid n-gram range (%d, %d)", ErrIncompatibleArtifact, x.NGramMin, x.NGramMax)
	}
	if len(x.Terms) == 0 {
		return fmt.Errorf("%w: empty vocabulary", ErrIncompatibleArtifact)
	}
	if x.MaxFeatures > 0 && len(x.Terms) > x.MaxFeatures {
		return fmt.Errorf("%w: %d terms exceed max features %d", ErrIncompatibleArtifact, len(x.Terms), x.MaxFeatures)
	}
	if len(x.IDF) != len(x.Terms) {
		return fmt.Errorf("%w: %d IDF weights for %d terms", ErrIncompatibleArtifact, len(x.IDF), len(x.Terms))
	}
	c := a.Classifier
	if len(c.Weights) != len(x.Terms) {
		return fmt.Errorf("%w: %d classifier weights for %d terms", ErrIncompatibleArtifact, len(c.Weights), len(x.Terms))
	}
	if len(c.Classes) != len(classNames) || c.Classes[0] != classNames[0] || c.Classes[1] != classNames[1] {
		return fmt.Errorf("%w: unexpected classes %v", ErrIncompatibleArtifact, c.Classes)
	}
	if !isFinite(x.IDF) || !isFinite(c.Weights) || !isFinite([]float64{c.Bias}) {
		return fmt.Errorf("%w: non-finite parameters", ErrIncompatibleArtifact)
	}
	return nil
}

// ModelFromArtifact validates an artifact and rebuilds the Model.
func ModelFromArtifact(name string, a Artifact) (*Model, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	vectorizer, err := vectorizerFromState(VectorizerConfig{
		MaxFeatures: a.Extractor.MaxFeatures,
		NGramMin:    a.Extractor.NGramMin,
		NGramMax:    a.Extractor.NGramMax,
		StopWords:   a.Extractor.StopWords,
	}, a.Extractor.Terms, a.Extractor.IDF)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIncompatibleArtifact, err)
	}
	return &Model{
		Name:       name,
		RunID:      a.RunID,
		CreatedAt:  a.CreatedAt,
		vectorizer: vectorizer,
		classifier: logisticFromState(a.Classifier.Weights, a.Classifier.Bias),
	}, nil
}

// ModelFromReader decodes a gob-encoded artifact.
func ModelFromReader(name string, r io.Reader) (*Model, error) {
	var a Artifact
	if err := gob.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	return ModelFromArtifact(name, a)
}

// ModelFromDisk loads a Model from the artifact at path.
func ModelFromDisk(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ModelFromReader(filepath.Base(path), f)
}

// Write saves the Model to path. The artifact is written to a temporary file
// in the same directory and renamed over path, so readers see either the old
// artifact or the new one and never a partial file.
func (m *Model) Write(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("create artifact directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temporary artifact: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := gob.NewEncoder(tmp).Encode(m.Artifact()); err != nil {
		tmp.Close()
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace artifact: %w", err)
	}
	return nil
}
