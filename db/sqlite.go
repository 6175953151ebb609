package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"salarypredict/ml"
)

// Store keeps a history of prediction runs in SQLite. Input values are never
// stored.
type Store struct {
	database *sql.DB
}

// Open opens (or creates) the SQLite database at path and prepares the schema.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	database, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	database.SetMaxOpenConns(1)

	query := `
    CREATE TABLE IF NOT EXISTS predictions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        outcome VARCHAR(10),
        failed INTEGER NOT NULL DEFAULT 0,
        error TEXT,
        latency_ms REAL,
        created_at DATETIME NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions(created_at);
    `
	if _, err := database.Exec(query); err != nil {
		database.Close()
		return nil, err
	}
	return &Store{database: database}, nil
}

func (s *Store) Close() error {
	return s.database.Close()
}

// Record implements ml.HistorySink.
func (s *Store) Record(ctx context.Context, entry ml.HistoryEntry) error {
	at := entry.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err := s.database.ExecContext(ctx, `
        INSERT INTO predictions (outcome, failed, error, latency_ms, created_at)
        VALUES (?, ?, ?, ?, ?)`,
		string(entry.Outcome),
		entry.Failed,
		entry.Error,
		float64(entry.Latency)/float64(time.Millisecond),
		at,
	)
	return err
}

type Prediction struct {
	ID        int64     `json:"id"`
	Outcome   string    `json:"outcome,omitempty"`
	Failed    bool      `json:"failed"`
	Error     string    `json:"error,omitempty"`
	LatencyMs float64   `json:"latency_ms"`
	CreatedAt time.Time `json:"created_at"`
}

// Recent returns the latest runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Prediction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.database.QueryContext(ctx, `
        SELECT id, outcome, failed, error, latency_ms, created_at
        FROM predictions
        ORDER BY created_at DESC, id DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	predictions := make([]Prediction, 0)
	for rows.Next() {
		var p Prediction
		var outcome, errMsg sql.NullString
		var latency sql.NullFloat64
		if err := rows.Scan(&p.ID, &outcome, &p.Failed, &errMsg, &latency, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Outcome = outcome.String
		p.Error = errMsg.String
		p.LatencyMs = latency.Float64
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}

type Summary struct {
	Total    int            `json:"total"`
	Failed   int            `json:"failed"`
	Outcomes map[string]int `json:"outcomes"`
}

// Summary counts runs per outcome.
func (s *Store) Summary(ctx context.Context) (Summary, error) {
	summary := Summary{Outcomes: make(map[string]int)}
	rows, err := s.database.QueryContext(ctx, `
        SELECT outcome, failed, COUNT(*)
        FROM predictions
        GROUP BY outcome, failed`)
	if err != nil {
		return summary, err
	}
	defer rows.Close()

	for rows.Next() {
		var outcome sql.NullString
		var failed bool
		var count int
		if err := rows.Scan(&outcome, &failed, &count); err != nil {
			return summary, err
		}
		summary.Total += count
		if failed {
			summary.Failed += count
			continue
		}
		summary.Outcomes[outcome.String] += count
	}
	return summary, rows.Err()
}
