// Package knowledge persists analysis run history so quality can be
// compared across sessions. Backed by SQLite; a run's full report is kept
// as JSON alongside the summary columns used for trend queries.
package knowledge

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a run id has no stored report.
var ErrNotFound = errors.New("run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	activity       TEXT NOT NULL,
	created_at     TEXT NOT NULL,
	model          TEXT NOT NULL,
	student_count  INTEGER NOT NULL,
	overall_quality REAL NOT NULL,
	report_json    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
`

// Store is the run-history database.
type Store struct {
	db *sql.DB
}

// Open connects to the SQLite database at dsn, applies recommended
// pragmas and creates the schema.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// applyPragmas configures SQLite for single-user tool usage.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// RunSummary is one historical run without its full report payload.
type RunSummary struct {
	ID             string
	Activity       string
	CreatedAt      time.Time
	Model          string
	StudentCount   int
	OverallQuality float64
}

// SaveRun records a completed run and its report payload.
func (s *Store) SaveRun(ctx context.Context, sum RunSummary, report json.RawMessage) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, activity, created_at, model, student_count, overall_quality, report_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sum.ID, sum.Activity, sum.CreatedAt.UTC().Format(time.RFC3339Nano),
		sum.Model, sum.StudentCount, sum.OverallQuality, string(report))
	if err != nil {
		return fmt.Errorf("save run %s: %w", sum.ID, err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, activity, created_at, model, student_count, overall_quality
		FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var sum RunSummary
		var created string
		if err := rows.Scan(&sum.ID, &sum.Activity, &created, &sum.Model, &sum.StudentCount, &sum.OverallQuality); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		sum.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", created, err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Report returns the stored report payload for a run id.
func (s *Store) Report(ctx context.Context, id string) (json.RawMessage, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT report_json FROM runs WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load report %s: %w", id, err)
	}
	return json.RawMessage(raw), nil
}

// Trends summarizes quality across stored runs. Recent means the last
// five runs.
type Trends struct {
	RunCount  int
	AvgScore  float64
	RecentAvg float64
	Trend     string // improving, declining, stable or no_data
}

// Comparison relates one run's quality to the stored history.
type Comparison struct {
	CurrentScore  float64 `json:"current_score"`
	AverageScore  float64 `json:"average_score"`
	RecentAverage float64 `json:"recent_average"`
	Improvement   float64 `json:"improvement"`
	Trend         string  `json:"trend"`
	IsImproving   bool    `json:"is_improving"`
}

// Compare relates current against the trend history.
func (t Trends) Compare(current float64) Comparison {
	recent := t.RecentAvg
	if t.RunCount == 0 {
		recent = current
	}
	return Comparison{
		CurrentScore:  current,
		AverageScore:  t.AvgScore,
		RecentAverage: t.RecentAvg,
		Improvement:   current - recent,
		Trend:         t.Trend,
		IsImproving:   current > recent,
	}
}

// QualityTrends computes the trend summary over all stored runs, oldest
// to newest.
func (s *Store) QualityTrends(ctx context.Context) (Trends, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT overall_quality FROM runs ORDER BY created_at ASC`)
	if err != nil {
		return Trends{}, fmt.Errorf("query quality history: %w", err)
	}
	defer rows.Close()

	var scores []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return Trends{}, fmt.Errorf("scan quality score: %w", err)
		}
		scores = append(scores, v)
	}
	if err := rows.Err(); err != nil {
		return Trends{}, err
	}
	return computeTrends(scores), nil
}

func computeTrends(scores []float64) Trends {
	t := Trends{RunCount: len(scores), Trend: "no_data"}
	if len(scores) == 0 {
		return t
	}
	t.AvgScore = round2(mean(scores))

	recent := scores
	if len(scores) > 5 {
		recent = scores[len(scores)-5:]
	}
	t.RecentAvg = round2(mean(recent))

	if len(scores) > len(recent) {
		older := scores[:len(scores)-len(recent)]
		olderAvg := mean(older)
		recentAvg := mean(recent)
		switch {
		case recentAvg > olderAvg:
			t.Trend = "improving"
		case recentAvg < olderAvg:
			t.Trend = "declining"
		default:
			t.Trend = "stable"
		}
	} else {
		t.Trend = "stable"
	}
	return t
}

func mean(vs []float64) float64 {
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

// DefaultDBPath resolves the database file path in priority order:
// 1. EXITLENS_DB environment variable
// 2. $XDG_DATA_HOME/exitlens/exitlens.db
// 3. ~/.local/share/exitlens/exitlens.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("EXITLENS_DB"); p != "" {
		return p, ensureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "exitlens", "exitlens.db")
	return p, ensureDir(p)
}

// ensureDir creates the parent directory of path if it doesn't exist.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
