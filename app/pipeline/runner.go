package pipeline

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/DiogoBispo/ai-news-intelligence-pipeline/app/config"
	"github.com/DiogoBispo/ai-news-intelligence-pipeline/app/snapshot"
)

// Result carries everything a run produced, for archiving and delivery.
type Result struct {
	Digest         *Digest
	Markdown       string
	Dropped        []DroppedItem
	InputCount     int
	DuplicateCount int
}

// Runner executes the stages in their fixed order — normalize, summarize,
// classify, deduplicate, assemble — threading a fresh collection through
// each stage and persisting a snapshot after every one.
type Runner struct {
	normalizer   *Normalizer
	summarizer   *Summarizer
	classifier   *Classifier
	deduplicator *Deduplicator
	assembler    *Assembler
	store        *snapshot.Store
}

func NewRunner(rules *config.Rules, sources *config.SourcesConfig, maxSummaryChars int, store *snapshot.Store) *Runner {
	return &Runner{
		normalizer:   NewNormalizer(),
		summarizer:   NewSummarizer(maxSummaryChars, sources.Kinds()),
		classifier:   NewClassifier(rules.Categories),
		deduplicator: NewDeduplicator(sources.TrustRanks()),
		assembler:    NewAssembler(rules.DisplayOrder),
		store:        store,
	}
}

// Run turns one raw collection into both digest renderings. Stage
// snapshots and final artifacts are written atomically; any failure leaves
// the previous run's output untouched.
func (r *Runner) Run(raw []RawItem, now time.Time) (*Result, error) {
	started := time.Now()

	items, dropped := r.normalizer.Run(raw)
	if err := r.store.WriteJSON(snapshot.StageNormalized, items); err != nil {
		return nil, err
	}

	items = r.summarizer.Run(items)
	if err := r.store.WriteJSON(snapshot.StageSummarized, items); err != nil {
		return nil, err
	}

	items = r.classifier.Run(items)
	if err := r.store.WriteJSON(snapshot.StageClassified, items); err != nil {
		return nil, err
	}

	beforeDedup := len(items)
	items = r.deduplicator.Run(items)
	if err := r.store.WriteJSON(snapshot.StageDeduped, items); err != nil {
		return nil, err
	}

	digest := r.assembler.Run(items, now)

	jsonOut, err := r.assembler.RenderJSON(digest)
	if err != nil {
		return nil, err
	}
	if err := r.store.WriteBytes(snapshot.DigestJSON, jsonOut); err != nil {
		return nil, err
	}

	markdown := r.assembler.RenderMarkdown(digest)
	if err := r.store.WriteBytes(snapshot.DigestMarkdown, []byte(markdown)); err != nil {
		return nil, err
	}

	slog.Info("Pipeline completed",
		"duration", time.Since(started).Round(time.Millisecond),
		"input", len(raw),
		"dropped", len(dropped),
		"duplicates", beforeDedup-len(items),
		"digest", digest.TotalItems)

	return &Result{
		Digest:         digest,
		Markdown:       markdown,
		Dropped:        dropped,
		InputCount:     len(raw),
		DuplicateCount: beforeDedup - len(items),
	}, nil
}

// LoadRawItems reads the collector's output file. A missing or unparseable
// file is fatal to the run: the caller must report it and leave the prior
// digest in place.
func LoadRawItems(path string) ([]RawItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read raw items %s: %w", path, err)
	}

	var raw []RawItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse raw items %s: %w", path, err)
	}

	return raw, nil
}
