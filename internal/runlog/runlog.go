// Package runlog keeps an append-only SQLite ledger of training runs.
package runlog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tsawler/veracity"
)

const migrationsSQL = `
CREATE TABLE IF NOT EXISTS training_runs (
	id            TEXT PRIMARY KEY,
	started_at    TIMESTAMP NOT NULL,
	finished_at   TIMESTAMP NOT NULL,
	corpus        TEXT NOT NULL,
	artifact_path TEXT NOT NULL,
	rows_total    INTEGER NOT NULL,
	rows_dropped  INTEGER NOT NULL,
	genuine       INTEGER NOT NULL,
	fake          INTEGER NOT NULL,
	train_size    INTEGER NOT NULL,
	test_size     INTEGER NOT NULL,
	stratified    INTEGER NOT NULL,
	vocabulary    INTEGER NOT NULL,
	accuracy      REAL NOT NULL,
	macro_f1      REAL NOT NULL,
	confusion     TEXT NOT NULL,
	warnings      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_training_runs_started ON training_runs(started_at);
`

// Run is one ledger row.
type Run struct {
	ID           string
	StartedAt    time.Time
	FinishedAt   time.Time
	Corpus       string
	ArtifactPath string
	Rows         int
	Dropped      int
	Genuine      int
	Fake         int
	TrainSize    int
	TestSize     int
	Stratified   bool
	Vocabulary   int
	Accuracy     float64
	MacroF1      float64
	Confusion    veracity.ConfusionMatrix
	Warnings     []string
}

// FromReport converts a training report into a ledger row.
func FromReport(r *veracity.TrainingReport) Run {
	return Run{
		ID:           r.RunID,
		StartedAt:    r.StartedAt,
		FinishedAt:   r.FinishedAt,
		Corpus:       r.Corpus,
		ArtifactPath: r.ArtifactPath,
		Rows:         r.Rows,
		Dropped:      r.Dropped,
		Genuine:      r.ClassCounts[veracity.Genuine],
		Fake:         r.ClassCounts[veracity.Fake],
		TrainSize:    r.TrainSize,
		TestSize:     r.TestSize,
		Stratified:   r.Stratified,
		Vocabulary:   r.Vocabulary,
		Accuracy:     r.Evaluation.Accuracy,
		MacroF1:      r.Evaluation.MacroAvg.F1,
		Confusion:    r.Evaluation.Confusion,
		Warnings:     r.Warnings,
	}
}

// Open opens the ledger database at dsn and applies migrations.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)
	if err := InitDB(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate ledger: %w", err)
	}
	return db, nil
}

// InitDB runs migrations on the given DB connection.
func InitDB(db *sql.DB) error {
	stmts := strings.Split(migrationsSQL, ";")
	for _, s := range stmts {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Record appends a run to the ledger.
func Record(db *sql.DB, run Run) error {
	if strings.TrimSpace(run.ID) == "" {
		return fmt.Errorf("run id must be non-empty")
	}
	confusion, err := json.Marshal(run.Confusion)
	if err != nil {
		return fmt.Errorf("encode confusion matrix: %w", err)
	}
	warnings := run.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	warningsJSON, err := json.Marshal(warnings)
	if err != nil {
		return fmt.Errorf("encode warnings: %w", err)
	}

	_, err = db.Exec(`INSERT INTO training_runs
		(id, started_at, finished_at, corpus, artifact_path, rows_total, rows_dropped,
		 genuine, fake, train_size, test_size, stratified, vocabulary, accuracy, macro_f1,
		 confusion, warnings)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC(), run.FinishedAt.UTC(), run.Corpus, run.ArtifactPath,
		run.Rows, run.Dropped, run.Genuine, run.Fake, run.TrainSize, run.TestSize,
		run.Stratified, run.Vocabulary, run.Accuracy, run.MacroF1,
		string(confusion), string(warningsJSON))
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func Recent(db *sql.DB, limit int) ([]Run, error) {
	rows, err := db.Query(`SELECT id, started_at, finished_at, corpus, artifact_path,
		rows_total, rows_dropped, genuine, fake, train_size, test_size, stratified,
		vocabulary, accuracy, macro_f1, confusion, warnings
		FROM training_runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run                 Run
			confusion, warnings string
		)
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &run.Corpus, &run.ArtifactPath,
			&run.Rows, &run.Dropped, &run.Genuine, &run.Fake, &run.TrainSize, &run.TestSize,
			&run.Stratified, &run.Vocabulary, &run.Accuracy, &run.MacroF1, &confusion, &warnings); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(confusion), &run.Confusion); err != nil {
			return nil, fmt.Errorf("decode confusion matrix: %w", err)
		}
		if err := json.Unmarshal([]byte(warnings), &run.Warnings); err != nil {
			return nil, fmt.Errorf("decode warnings: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
