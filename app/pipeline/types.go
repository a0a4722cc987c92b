package pipeline

import (
	"time"
)

// RawItem is a single record as persisted by the collector, one file per
// run. Only url, title and source are required; every other field is
// optional and the pipeline tolerates its absence.
type RawItem struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at,omitempty"`

	// Text candidates captured during collection, used by the summary
	// strategy chain. Which ones are present depends on the source kind.
	FeedSummary     *string `json:"feed_summary,omitempty"`
	Abstract        *string `json:"abstract,omitempty"`
	MetaDescription *string `json:"meta_description,omitempty"`
	OGDescription   *string `json:"og_description,omitempty"`
	FirstParagraph  *string `json:"first_paragraph,omitempty"`
	RawText         *string `json:"raw_text,omitempty"`
}

// Item is the canonical record flowing through every stage. Optional text
// fields are pointers so "no summary available" stays distinguishable from
// an empty summary. Stages never mutate items in place; each stage returns
// a new collection.
type Item struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	Source string `json:"source"`

	PublishedAt *time.Time `json:"published_at,omitempty"`

	FeedSummary     *string `json:"feed_summary,omitempty"`
	Abstract        *string `json:"abstract,omitempty"`
	MetaDescription *string `json:"meta_description,omitempty"`
	OGDescription   *string `json:"og_description,omitempty"`
	FirstParagraph  *string `json:"first_paragraph,omitempty"`

	RawText  *string `json:"raw_text,omitempty"`
	Summary  *string `json:"summary,omitempty"`
	Category string  `json:"category,omitempty"`

	// NormalizedURL is derived for duplicate grouping only; it never
	// replaces URL in any rendering.
	NormalizedURL string `json:"normalized_url,omitempty"`
}

// DroppedItem records why a malformed input record was excluded from the
// run. One bad record never aborts the digest.
type DroppedItem struct {
	URL    string `json:"url,omitempty"`
	Title  string `json:"title,omitempty"`
	Source string `json:"source,omitempty"`
	Reason string `json:"reason"`
}

// Digest is the machine-readable output: a flat ordered item sequence plus
// the run metadata downstream automation needs.
type Digest struct {
	GeneratedAt time.Time `json:"generated_at"`
	TotalItems  int       `json:"total_items"`
	Items       []Item    `json:"items"`
}

func textOf(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
