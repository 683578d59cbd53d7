package veracity

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	// ErrUnavailable means no usable artifact was loaded at startup.
	ErrUnavailable = errors.New("model is not available")
	// ErrInvalidInput means the request text is missing, empty or not a string.
	ErrInvalidInput = errors.New("text must be a non-empty string")
	// ErrInternal is the only error reported for unexpected failures.
	ErrInternal = errors.New("internal error during analysis")
)

// smokeText is classified once after loading to prove the artifact works.
const smokeText = "test comment"

// ServiceStatus describes the outcome of startup.
type ServiceStatus struct {
	Ready        bool
	ArtifactPath string
	Detail       string
	LoadedAt     time.Time
	Vocabulary   int
}

// Service classifies comments with a model loaded once at startup. A service
// whose model failed to load or failed the smoke test stays unavailable for
// the life of the process. Service is safe for concurrent use.
type Service struct {
	model  *Model
	scorer *SentimentScorer
	status ServiceStatus
	log    *logrus.Entry
}

// OpenService loads the artifact at path. It never fails; problems leave the
// service unavailable and are described by Status.
func OpenService(path string, scorer *SentimentScorer, log *logrus.Entry) *Service {
	if log == nil {
		log = discardLogger()
	}
	model, err := ModelFromDisk(path)
	if err != nil {
		s := &Service{scorer: scorer, log: log}
		s.status = ServiceStatus{ArtifactPath: path, Detail: fmt.Sprintf("load artifact: %v", err)}
		log.WithError(err).WithField("path", path).Error("model artifact could not be loaded")
		return s
	}
	s := newService(model, scorer, log)
	s.status.ArtifactPath = path
	return s
}

// NewService wraps an in-memory model. The smoke test still applies.
func NewService(model *Model, scorer *SentimentScorer, log *logrus.Entry) *Service {
	if log == nil {
		log = discardLogger()
	}
	return newService(model, scorer, log)
}

func newService(model *Model, scorer *SentimentScorer, log *logrus.Entry) *Service {
	s := &Service{scorer: scorer, log: log}
	if model == nil {
		s.status.Detail = "no model"
		return s
	}
	if err := smokeTest(model); err != nil {
		s.status.Detail = fmt.Sprintf("smoke test failed: %v", err)
		log.WithError(err).Error("model failed the smoke test")
		return s
	}
	s.model = model
	s.status = ServiceStatus{
		Ready:      true,
		Detail:     "ok",
		LoadedAt:   time.Now().UTC(),
		Vocabulary: model.Dim(),
	}
	log.WithFields(logrus.Fields{
		"vocabulary": model.Dim(),
		"run_id":     model.RunID,
	}).Info("model loaded")
	return s
}

func smokeTest(model *Model) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	p, err := model.PredictProba(smokeText)
	if err != nil {
		return err
	}
	if math.IsNaN(p[0]) || math.IsNaN(p[1]) {
		return errors.New("prediction is not a number")
	}
	return nil
}

// Status returns the startup outcome.
func (s *Service) Status() ServiceStatus {
	return s.status
}

// Ready reports whether requests can be classified.
func (s *Service) Ready() bool {
	return s.status.Ready
}

// ClassifyValue classifies v, which must be a non-empty string.
func (s *Service) ClassifyValue(v interface{}) (Analysis, error) {
	if !s.Ready() {
		return Analysis{}, ErrUnavailable
	}
	text, ok := v.(string)
	if !ok {
		return Analysis{}, ErrInvalidInput
	}
	return s.Classify(text)
}

// Classify returns the verdict, confidence and sentiment for text.
func (s *Service) Classify(text string) (result Analysis, err error) {
	if !s.Ready() {
		return Analysis{}, ErrUnavailable
	}
	if strings.TrimSpace(text) == "" {
		return Analysis{}, ErrInvalidInput
	}

	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("panic", r).Error("classification panicked")
			result, err = Analysis{}, ErrInternal
		}
	}()

	label, p, err := s.model.Classify(text)
	if err != nil {
		s.log.WithError(err).Error("classification failed")
		return Analysis{}, ErrInternal
	}
	if s.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		if terms, err := s.model.Contributions(text, 5); err == nil {
			s.log.WithField("terms", terms).Debug("top contributing terms")
		}
	}
	return Analysis{
		Verdict:       label,
		Confidence:    p.Confidence(),
		Probabilities: p,
		Sentiment:     s.scorer.Score(text),
	}, nil
}
