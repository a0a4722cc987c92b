package database

import (
	"time"
)

// Run is one archived pipeline execution.
type Run struct {
	ID             string
	StartedAt      time.Time
	FinishedAt     time.Time
	InputCount     int
	DroppedCount   int
	DuplicateCount int
	DigestCount    int
}

// RunItem is one digest survivor as archived, in digest order.
type RunItem struct {
	ID          string
	RunID       string
	Position    int
	URL         string
	Title       string
	Source      string
	Category    string
	PublishedAt *time.Time
	Summary     string
}
