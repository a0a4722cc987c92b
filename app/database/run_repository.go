package database

import (
	"fmt"

	"github.com/google/uuid"
)

// RunRepository archives completed runs and their digest items for
// inspection via the API. It is an audit trail, not a delivery queue.
type RunRepository struct {
	db *DB
}

func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

// StoreRun persists a run and its items in one transaction.
func (r *RunRepository) StoreRun(run Run, items []RunItem) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (id, started_at, finished_at, input_count, dropped_count, duplicate_count, digest_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt, run.FinishedAt, run.InputCount, run.DroppedCount, run.DuplicateCount, run.DigestCount)
	if err != nil {
		return fmt.Errorf("failed to store run: %w", err)
	}

	for _, item := range items {
		_, err = tx.Exec(`
			INSERT INTO run_items (id, run_id, position, url, title, source, category, published_at, summary)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, uuid.NewString(), run.ID, item.Position, item.URL, item.Title, item.Source, item.Category, item.PublishedAt, item.Summary)
		if err != nil {
			return fmt.Errorf("failed to store run item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	return nil
}

// GetRuns returns the most recent runs, newest first.
func (r *RunRepository) GetRuns(limit int) ([]Run, error) {
	rows, err := r.db.Query(`
		SELECT id, started_at, finished_at, input_count, dropped_count, duplicate_count, digest_count
		FROM runs
		ORDER BY finished_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		err := rows.Scan(&run.ID, &run.StartedAt, &run.FinishedAt,
			&run.InputCount, &run.DroppedCount, &run.DuplicateCount, &run.DigestCount)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run rows: %w", err)
	}

	return runs, nil
}

// GetRunItems returns a run's archived digest items in digest order.
func (r *RunRepository) GetRunItems(runID string) ([]RunItem, error) {
	rows, err := r.db.Query(`
		SELECT id, run_id, position, url, title, source, category, published_at, COALESCE(summary, '')
		FROM run_items
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run items: %w", err)
	}
	defer rows.Close()

	var items []RunItem
	for rows.Next() {
		var item RunItem
		err := rows.Scan(&item.ID, &item.RunID, &item.Position, &item.URL,
			&item.Title, &item.Source, &item.Category, &item.PublishedAt, &item.Summary)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run item rows: %w", err)
	}

	return items, nil
}
