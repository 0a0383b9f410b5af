// Package storage keeps the ingest ledger: a local SQLite record of every
// ingest run, its counters, and the pages it dropped. The ledger is the
// audit trail for "why is this article not in the index".
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Drop reasons recorded per page.
const (
	DropNotArticle = "not_article"
	DropRedirect   = "redirect"
	DropEmptyText  = "empty_text"
	DropTooShort   = "too_short"
	DropBulkFailed = "bulk_failed"
)

// Run is one recorded ingest run.
type Run struct {
	ID         string
	Source     string
	StartedAt  time.Time
	FinishedAt *time.Time
	PagesRead  int
	Indexed    int
	Dropped    int
	Failed     int
	Error      string
}

// DroppedPage records one page excluded from the index and why.
type DroppedPage struct {
	RunID     string
	PageID    int64
	Title     string
	Reason    string
	CreatedAt time.Time
}

// Ledger is the SQLite-backed ingest ledger.
type Ledger struct {
	db *sql.DB
}

// OpenLedger opens or creates the ledger database at path, creating parent
// directories as needed.
func OpenLedger(path string) (*Ledger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize ledger schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP,
		pages_read INTEGER NOT NULL DEFAULT 0,
		indexed INTEGER NOT NULL DEFAULT 0,
		dropped INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);

	CREATE TABLE IF NOT EXISTS dropped_pages (
		run_id TEXT NOT NULL,
		page_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		reason TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_dropped_run_id ON dropped_pages(run_id);
	`
	_, err := db.Exec(schema)
	return err
}

// StartRun records the beginning of an ingest run over source and returns
// the run ID.
func (l *Ledger) StartRun(ctx context.Context, source string) (string, error) {
	id := uuid.NewString()
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (id, source, started_at) VALUES (?, ?, ?)`,
		id, source, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to record run start: %w", err)
	}
	return id, nil
}

// FinishRun records final counters for the run. A non-empty errMsg marks
// the run as failed.
func (l *Ledger) FinishRun(ctx context.Context, runID string, pagesRead, indexed, dropped, failed int, errMsg string) error {
	result, err := l.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, pages_read = ?, indexed = ?, dropped = ?, failed = ?, error = ?
		 WHERE id = ?`,
		time.Now().UTC(), pagesRead, indexed, dropped, failed, errMsg, runID,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("run not found: %s", runID)
	}
	return nil
}

// RecordDrops appends dropped pages for the run in one transaction.
func (l *Ledger) RecordDrops(ctx context.Context, runID string, pages []DroppedPage) error {
	if len(pages) == 0 {
		return nil
	}
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO dropped_pages (run_id, page_id, title, reason, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, p := range pages {
		if _, err := stmt.ExecContext(ctx, runID, p.PageID, p.Title, p.Reason, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetRun returns a run by ID.
func (l *Ledger) GetRun(ctx context.Context, id string) (*Run, error) {
	var run Run
	var finished sql.NullTime
	err := l.db.QueryRowContext(ctx,
		`SELECT id, source, started_at, finished_at, pages_read, indexed, dropped, failed, error
		 FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &run.Source, &run.StartedAt, &finished,
		&run.PagesRead, &run.Indexed, &run.Dropped, &run.Failed, &run.Error)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	if finished.Valid {
		run.FinishedAt = &finished.Time
	}
	return &run, nil
}

// ListRuns returns the most recent runs, newest first.
func (l *Ledger) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, source, started_at, finished_at, pages_read, indexed, dropped, failed, error
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var run Run
		var finished sql.NullTime
		if err := rows.Scan(&run.ID, &run.Source, &run.StartedAt, &finished,
			&run.PagesRead, &run.Indexed, &run.Dropped, &run.Failed, &run.Error); err != nil {
			return nil, err
		}
		if finished.Valid {
			run.FinishedAt = &finished.Time
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

// DroppedPages returns dropped pages for a run, up to limit.
func (l *Ledger) DroppedPages(ctx context.Context, runID string, limit int) ([]*DroppedPage, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT run_id, page_id, title, reason, created_at
		 FROM dropped_pages WHERE run_id = ? ORDER BY created_at LIMIT ?`,
		runID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*DroppedPage
	for rows.Next() {
		var p DroppedPage
		if err := rows.Scan(&p.RunID, &p.PageID, &p.Title, &p.Reason, &p.CreatedAt); err != nil {
			return nil, err
		}
		pages = append(pages, &p)
	}
	return pages, rows.Err()
}

// Close closes the ledger database.
func (l *Ledger) Close() error {
	return l.db.Close()
}
