package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/tsawler/veracity"
	"github.com/tsawler/veracity/internal/config"
	"github.com/tsawler/veracity/internal/logging"
	"github.com/tsawler/veracity/internal/runlog"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()

	corpusFlag := flag.String("corpus", cfg.Training.CorpusPath, "Path to the labeled CSV or TSV corpus")
	textFlag := flag.String("text-column", cfg.Training.TextColumn, "Column holding the comment text")
	labelFlag := flag.String("label-column", cfg.Training.LabelColumn, "Column holding the label")
	fakeFlag := flag.String("fake-label", cfg.Training.FakeLabel, "Label value that marks a fake comment")
	outFlag := flag.String("out", cfg.Training.ArtifactPath, "Where to write the model artifact")
	testSizeFlag := flag.Float64("test-size", cfg.Training.TestSize, "Fraction of records held out for evaluation")
	seedFlag := flag.Int64("seed", cfg.Training.Seed, "Seed for the train/test split")
	featuresFlag := flag.Int("max-features", cfg.Training.MaxFeatures, "Vocabulary size cap")
	cFlag := flag.Float64("c", cfg.Training.C, "Inverse regularization strength")
	balancedFlag := flag.Bool("balanced", cfg.Training.Balanced, "Weight classes inversely to their frequency")
	iterFlag := flag.Int("max-iterations", cfg.Training.MaxIterations, "Optimizer iteration cap")
	dbFlag := flag.String("report-db", cfg.Training.ReportDB, "Optional SQLite database recording training runs")
	flag.Parse()

	log := logging.New(cfg.Log.Level, cfg.Log.Format, "veracity-train")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tc := veracity.DefaultTrainingConfig()
	tc.CorpusPath = *corpusFlag
	tc.TextColumn = *textFlag
	tc.LabelColumn = *labelFlag
	tc.FakeLabel = *fakeFlag
	tc.ArtifactPath = *outFlag
	tc.TestSize = *testSizeFlag
	tc.Seed = *seedFlag
	tc.Vectorizer.MaxFeatures = *featuresFlag
	tc.Classifier.C = *cFlag
	tc.Classifier.MaxIterations = *iterFlag
	if !*balancedFlag {
		tc.Classifier.ClassWeight = veracity.NoClassWeight
	}

	report, err := veracity.NewTrainer(tc, log).Run(ctx)
	if err != nil {
		var se *veracity.StageError
		if errors.As(err, &se) {
			log.WithField("stage", se.Stage).WithError(se.Err).Error("training failed")
		} else {
			log.WithError(err).Error("training failed")
		}
		os.Exit(1)
	}

	fmt.Println("--- Model Evaluation ---")
	fmt.Print(report.Evaluation.Report())
	for _, w := range report.Warnings {
		fmt.Printf("Warning: %s\n", w)
	}
	fmt.Printf("Model saved to %s\n", report.ArtifactPath)

	if *dbFlag != "" {
		db, err := runlog.Open(*dbFlag)
		if err != nil {
			log.WithError(err).Warn("training run not recorded")
			return
		}
		defer db.Close()
		if err := runlog.Record(db, runlog.FromReport(report)); err != nil {
			log.WithError(err).Warn("training run not recorded")
			return
		}
		log.WithField("db", *dbFlag).Info("training run recorded")
	}
}
