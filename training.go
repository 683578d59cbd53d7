package veracity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Stage names a step of the training pipeline.
type Stage string

// Pipeline stages, in execution order.
const (
	StageLoad      Stage = "load"
	StageValidate  Stage = "validate"
	StageNormalize Stage = "normalize"
	StageSplit     Stage = "split"
	StageFit       Stage = "fit"
	StageEvaluate  Stage = "evaluate"
	StagePersist   Stage = "persist"
)

// StageError reports which pipeline stage failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}

// TrainingConfig contains configuration for a training run
type TrainingConfig struct {
	CorpusPath   string
	TextColumn   string
	LabelColumn  string
	FakeLabel    string
	ArtifactPath string
	TestSize     float64
	Seed         int64
	Vectorizer   VectorizerConfig
	Classifier   ClassifierConfig
}

// DefaultTrainingConfig returns a default training configuration
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		CorpusPath:   "fake reviews dataset.csv",
		TextColumn:   "text_",
		LabelColumn:  "label",
		FakeLabel:    "CG",
		ArtifactPath: "models/fake_comment_classifier.gob",
		TestSize:     0.2,
		Seed:         42,
		Vectorizer:   DefaultVectorizerConfig(),
		Classifier:   DefaultClassifierConfig(),
	}
}

// TrainingReport summarizes a training run for the operator.
type TrainingReport struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration

	Corpus       string
	Rows         int
	Dropped      int
	Used         int
	LabelKind    LabelKind
	ClassCounts  [2]int
	TrainSize    int
	TestSize     int
	Stratified   bool
	Fallback     string
	Vocabulary   int
	Fit          FitSummary
	Evaluation   Evaluation
	ArtifactPath string
	Warnings     []string
}

func (r *TrainingReport) warn(log *logrus.Entry, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	r.Warnings = append(r.Warnings, msg)
	log.Warn(msg)
}

// Trainer runs the training pipeline.
type Trainer struct {
	config TrainingConfig
	log    *logrus.Entry
}

// NewTrainer creates a new trainer with the given configuration. A nil logger
// discards output.
func NewTrainer(config TrainingConfig, log *logrus.Entry) *Trainer {
	if log == nil {
		log = discardLogger()
	}
	return &Trainer{config: config, log: log}
}

func discardLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// Run loads the configured corpus and trains, evaluates and persists a model.
// Any returned error is a *StageError.
func (t *Trainer) Run(ctx context.Context) (*TrainingReport, error) {
	log := t.log.WithField("stage", StageLoad)
	log.WithField("path", t.config.CorpusPath).Info("loading corpus")

	corpus, err := LoadCorpus(t.config.CorpusPath, t.config.TextColumn, t.config.LabelColumn)
	if err != nil {
		return nil, stageErr(StageLoad, err)
	}
	log.WithField("rows", corpus.Len()).Info("corpus loaded")

	_, report, err := t.Train(ctx, corpus)
	return report, err
}

// Train fits a model on an already loaded corpus. When ArtifactPath is set the
// model is written there; otherwise it is only returned.
func (t *Trainer) Train(ctx context.Context, corpus *Corpus) (*Model, *TrainingReport, error) {
	report := &TrainingReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Corpus:    corpus.Source,
		Rows:      corpus.Len(),
	}
	log := t.log.WithField("run_id", report.RunID)

	finish := func() {
		report.FinishedAt = time.Now().UTC()
		report.Duration = report.FinishedAt.Sub(report.StartedAt)
	}
	defer finish()

	// Validate
	if err := ctx.Err(); err != nil {
		return nil, report, stageErr(StageValidate, err)
	}
	report.Dropped = corpus.Clean()
	report.Used = corpus.Len()
	log.WithFields(logrus.Fields{
		"stage":   StageValidate,
		"dropped": report.Dropped,
		"used":    report.Used,
	}).Info("dropped records with missing text")
	if report.Used == 0 {
		return nil, report, stageErr(StageValidate, ErrNoRecords)
	}

	// Normalize
	if err := ctx.Err(); err != nil {
		return nil, report, stageErr(StageNormalize, err)
	}
	raw := corpus.RawLabels()
	report.LabelKind = InferLabelKind(raw)
	rule, err := NewLabelRule(report.LabelKind, t.config.FakeLabel)
	if err != nil {
		return nil, report, stageErr(StageNormalize, err)
	}
	labels, counts := rule.NormalizeAll(raw)
	report.ClassCounts = counts
	log.WithFields(logrus.Fields{
		"stage":   StageNormalize,
		"kind":    report.LabelKind,
		"genuine": counts[Genuine],
		"fake":    counts[Fake],
	}).Info("label distribution")
	if counts[Genuine] == 0 || counts[Fake] == 0 {
		report.warn(log, "only one class present after normalization (genuine=%d, fake=%d); the model will be degenerate",
			counts[Genuine], counts[Fake])
	}

	// Split
	if err := ctx.Err(); err != nil {
		return nil, report, stageErr(StageSplit, err)
	}
	split, err := StratifiedSplit(labels, t.config.TestSize, t.config.Seed)
	if err != nil {
		return nil, report, stageErr(StageSplit, err)
	}
	report.TrainSize = len(split.Train)
	report.TestSize = len(split.Test)
	report.Stratified = split.Stratified
	report.Fallback = split.Fallback
	if !split.Stratified {
		report.warn(log, "stratified split not possible, using a plain split: %s", split.Fallback)
	}
	log.WithFields(logrus.Fields{
		"stage": StageSplit,
		"train": report.TrainSize,
		"test":  report.TestSize,
	}).Info("split corpus")

	texts := corpus.Texts()
	trainTexts, trainLabels := pick(texts, labels, split.Train)
	testTexts, testLabels := pick(texts, labels, split.Test)

	// Fit
	if err := ctx.Err(); err != nil {
		return nil, report, stageErr(StageFit, err)
	}
	model, summary, err := t.fit(trainTexts, trainLabels)
	if err != nil {
		return nil, report, stageErr(StageFit, err)
	}
	model.RunID = report.RunID
	report.Vocabulary = model.Dim()
	report.Fit = summary
	log.WithFields(logrus.Fields{
		"stage":      StageFit,
		"vocabulary": report.Vocabulary,
		"iterations": summary.Iterations,
		"loss":       summary.Loss,
		"status":     summary.Status,
	}).Info("model fitted")

	// Evaluate
	if err := ctx.Err(); err != nil {
		return nil, report, stageErr(StageEvaluate, err)
	}
	predicted := make([]Label, len(testTexts))
	for i, text := range testTexts {
		label, _, err := model.Classify(text)
		if err != nil {
			return nil, report, stageErr(StageEvaluate, err)
		}
		predicted[i] = label
	}
	report.Evaluation = Evaluate(testLabels, predicted)
	log.WithFields(logrus.Fields{
		"stage":    StageEvaluate,
		"accuracy": report.Evaluation.Accuracy,
		"macro_f1": report.Evaluation.MacroAvg.F1,
	}).Info("model evaluated")

	// Persist
	if t.config.ArtifactPath == "" {
		return model, report, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, report, stageErr(StagePersist, err)
	}
	if err := model.Write(t.config.ArtifactPath); err != nil {
		return nil, report, stageErr(StagePersist, err)
	}
	report.ArtifactPath = t.config.ArtifactPath
	log.WithFields(logrus.Fields{
		"stage": StagePersist,
		"path":  report.ArtifactPath,
	}).Info("artifact written")

	return model, report, nil
}

// fit trains the vectorizer and classifier together on the training split.
func (t *Trainer) fit(texts []string, labels []Label) (*Model, FitSummary, error) {
	vectorizer, err := NewVectorizer(t.config.Vectorizer)
	if err != nil {
		return nil, FitSummary{}, err
	}
	if err := vectorizer.Fit(texts); err != nil {
		return nil, FitSummary{}, err
	}

	classifier := NewLogisticRegression(t.config.Classifier)
	summary, err := classifier.Fit(vectorizer.TransformAll(texts), labels)
	if err != nil {
		return nil, summary, err
	}

	model, err := NewModel("veracity", vectorizer, classifier)
	if err != nil {
		return nil, summary, err
	}
	return model, summary, nil
}

func pick(texts []string, labels []Label, idx []int) ([]string, []Label) {
	ts := make([]string, len(idx))
	ls := make([]Label, len(idx))
	for i, j := range idx {
		ts[i] = texts[j]
		ls[i] = labels[j]
	}
	return ts, ls
}

// IsStage reports whether err is a StageError from the given stage.
func IsStage(err error, stage Stage) bool {
	var se *StageError
	return errors.As(err, &se) && se.Stage == stage
}
