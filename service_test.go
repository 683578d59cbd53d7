package veracity

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestServiceClassify(t *testing.T) {
	scorer := newTestScorer(t)
	svc := NewService(trainTestModel(t), scorer, nil)
	if !svc.Ready() {
		t.Fatalf("service not ready: %s", svc.Status().Detail)
	}
	if svc.Status().Vocabulary == 0 || svc.Status().LoadedAt.IsZero() {
		t.Errorf("incomplete status %+v", svc.Status())
	}

	tests := []struct {
		text      string
		verdict   Label
		sentiment SentimentLabel
	}{
		{"Amazing, flawless and superb!", Fake, Positive},
		{"Shipping was delayed and the battery died.", Genuine, Neutral},
		{"sturdy packaging", Genuine, Positive},
	}
	for _, tt := range tests {
		a, err := svc.Classify(tt.text)
		if err != nil {
			t.Fatalf("Classify(%q): %v", tt.text, err)
		}
		if a.Verdict != tt.verdict {
			t.Errorf("Classify(%q).Verdict = %s, want %s", tt.text, a.Verdict, tt.verdict)
		}
		if a.Confidence < 50 || a.Confidence > 100 {
			t.Errorf("Classify(%q).Confidence = %v", tt.text, a.Confidence)
		}
		if a.Confidence != a.Probabilities.Confidence() {
			t.Errorf("confidence %v does not match probabilities %v", a.Confidence, a.Probabilities)
		}
		if a.Sentiment.Label != tt.sentiment {
			t.Errorf("Classify(%q).Sentiment = %+v, want %s", tt.text, a.Sentiment, tt.sentiment)
		}
	}
}

func TestServiceInvalidInput(t *testing.T) {
	svc := NewService(trainTestModel(t), nil, nil)

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := svc.Classify(text); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Classify(%q) error = %v, want ErrInvalidInput", text, err)
		}
	}
	for _, v := range []interface{}{nil, 42, true, []string{"text"}} {
		if _, err := svc.ClassifyValue(v); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ClassifyValue(%v) error = %v, want ErrInvalidInput", v, err)
		}
	}

	a, err := svc.ClassifyValue("amazing superb")
	if err != nil {
		t.Fatal(err)
	}
	if a.Sentiment != NeutralSentiment() {
		t.Errorf("nil scorer should yield neutral sentiment, got %+v", a.Sentiment)
	}
}

func TestServiceUnavailable(t *testing.T) {
	dir := t.TempDir()
	corrupt := filepath.Join(dir, "corrupt.gob")
	if err := os.WriteFile(corrupt, []byte("not a model"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		svc    *Service
		detail string
		desc   string
	}{
		{OpenService(filepath.Join(dir, "missing.gob"), nil, nil), "load artifact", "Missing artifact"},
		{OpenService(corrupt, nil, nil), "load artifact", "Corrupt artifact"},
		{NewService(nil, nil, nil), "no model", "No model"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if tt.svc.Ready() {
				t.Fatal("service should be unavailable")
			}
			if !strings.Contains(tt.svc.Status().Detail, tt.detail) {
				t.Errorf("Detail = %q, want it to mention %q", tt.svc.Status().Detail, tt.detail)
			}
			// Unavailability wins over input validation.
			for _, text := range []string{"hello", ""} {
				if _, err := tt.svc.Classify(text); !errors.Is(err, ErrUnavailable) {
					t.Errorf("Classify(%q) error = %v, want ErrUnavailable", text, err)
				}
			}
			if _, err := tt.svc.ClassifyValue(42); !errors.Is(err, ErrUnavailable) {
				t.Errorf("ClassifyValue error = %v, want ErrUnavailable", err)
			}
		})
	}
}

func TestServiceSmokeTest(t *testing.T) {
	good := trainTestModel(t)

	// A classifier with the wrong number of weights cannot score anything.
	mismatched := &Model{vectorizer: good.Vectorizer(), classifier: logisticFromState([]float64{1, 2}, 0)}
	svc := NewService(mismatched, nil, nil)
	if svc.Ready() || !strings.Contains(svc.Status().Detail, "smoke test") {
		t.Errorf("expected smoke test failure, got %+v", svc.Status())
	}

	// A panic during the smoke test is contained.
	broken, err := vectorizerFromState(plainConfig(), []string{"test"}, []float64{})
	if err != nil {
		t.Fatal(err)
	}
	svc = NewService(&Model{vectorizer: broken, classifier: logisticFromState([]float64{1}, 0)}, nil, nil)
	if svc.Ready() {
		t.Error("expected panicking model to be rejected")
	}
}

func TestServiceInternalError(t *testing.T) {
	broken, err := vectorizerFromState(plainConfig(), []string{"alpha"}, []float64{})
	if err != nil {
		t.Fatal(err)
	}
	svc := &Service{
		model:  &Model{vectorizer: broken, classifier: logisticFromState([]float64{1}, 0)},
		status: ServiceStatus{Ready: true},
		log:    discardLogger(),
	}
	_, err = svc.Classify("alpha")
	if !errors.Is(err, ErrInternal) {
		t.Errorf("expected ErrInternal, got %v", err)
	}
	if strings.Contains(err.Error(), "index") {
		t.Errorf("internal details leaked: %v", err)
	}
}

func TestServiceConcurrent(t *testing.T) {
	svc := NewService(trainTestModel(t), newTestScorer(t), nil)
	want, err := svc.Classify("flawless superb battery")
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := svc.Classify("flawless superb battery")
			if err != nil {
				errs <- err
				return
			}
			if got != want {
				errs <- errors.New("concurrent result differs")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestServiceUnicodeInput(t *testing.T) {
	svc := NewService(trainTestModel(t), newTestScorer(t), nil)

	for _, text := range []string{
		"ȺȺȺȺ'll love it",
		"GROẞ'S superb flawless",
		"Crème brûlée was amazing",
		"bad\xffbyte \xfe'll",
		"日本語のレビュー",
	} {
		a, err := svc.Classify(text)
		if err != nil {
			t.Errorf("Classify(%q): %v", text, err)
			continue
		}
		if a.Verdict != Genuine && a.Verdict != Fake {
			t.Errorf("Classify(%q) returned verdict %v", text, a.Verdict)
		}
		if a.Confidence < 50 || a.Confidence > 100 {
			t.Errorf("Classify(%q).Confidence = %v", text, a.Confidence)
		}
	}
}

func TestServiceDebugContributions(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	svc := NewService(trainTestModel(t), nil, logrus.NewEntry(logger))

	if _, err := svc.Classify("amazing superb"); err != nil {
		t.Fatal(err)
	}
	var terms []TermWeight
	for _, e := range hook.AllEntries() {
		if e.Message == "top contributing terms" {
			terms, _ = e.Data["terms"].([]TermWeight)
		}
	}
	if len(terms) == 0 || len(terms) > 5 {
		t.Errorf("expected up to five logged terms, got %v", terms)
	}
}
