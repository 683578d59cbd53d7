package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/tsawler/veracity"
	"github.com/tsawler/veracity/internal/config"
	"github.com/tsawler/veracity/internal/logging"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()

	addrFlag := flag.String("addr", cfg.Server.Addr, "Address to listen on")
	modelFlag := flag.String("model", cfg.Server.ArtifactPath, "Path to the model artifact")
	lexiconFlag := flag.String("lexicon", cfg.Server.LexiconPath, "Optional external sentiment lexicon (JSON)")
	flag.Parse()

	log := logging.New(cfg.Log.Level, cfg.Log.Format, "veracity-serve")

	scorer, err := veracity.NewSentimentScorerWithExternal(*lexiconFlag)
	if err != nil {
		// Sentiment is advisory; a nil scorer reports neutral.
		log.WithError(err).Warn("sentiment scorer unavailable, sentiment will default to neutral")
		scorer = nil
	}

	svc := veracity.OpenService(*modelFlag, scorer, log)
	status := svc.Status()
	log.WithFields(logrus.Fields{
		"model_loaded": status.Ready,
		"artifact":     status.ArtifactPath,
		"detail":       status.Detail,
		"vocabulary":   status.Vocabulary,
	}).Info("startup diagnostics")
	if !status.Ready {
		log.Warn("run veracity-train first to produce a model artifact; analysis requests will get 503")
	}

	srv := &http.Server{
		Addr:              *addrFlag,
		Handler:           veracity.NewHandler(svc, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", *addrFlag)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, done := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("graceful shutdown failed")
		}
	}
}
