// Package collector is the raw-collection collaborator: it fetches
// syndication feeds and HTML listing pages and persists one raw items
// file per run for the pipeline to consume. Fetch policy (timeouts,
// retries, concurrency) lives here, never in the pipeline.
package collector

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/DiogoBispo/ai-news-intelligence-pipeline/app/config"
	"github.com/DiogoBispo/ai-news-intelligence-pipeline/app/pipeline"
)

type Collector struct {
	fetcher        *Fetcher
	sources        []config.Source
	itemsPerSource int
	concurrency    int
	enrichPages    bool
}

func New(sources *config.SourcesConfig, fetcher *Fetcher, itemsPerSource, concurrency int, enrichPages bool) *Collector {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Collector{
		fetcher:        fetcher,
		sources:        sources.Sources,
		itemsPerSource: itemsPerSource,
		concurrency:    concurrency,
		enrichPages:    enrichPages,
	}
}

// Run collects all sources with a bounded worker pool. A failing source is
// logged and skipped; the result keeps source-list order so repeated runs
// over unchanged sites stay reproducible.
func (c *Collector) Run(ctx context.Context) []pipeline.RawItem {
	results := make([][]pipeline.RawItem, len(c.sources))

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < c.concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = c.collectSource(ctx, c.sources[idx])
			}
		}()
	}

	for idx := range c.sources {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	var all []pipeline.RawItem
	for _, items := range results {
		all = append(all, items...)
	}

	slog.Info("Collection completed", "sources", len(c.sources), "items", len(all))
	return all
}

func (c *Collector) collectSource(ctx context.Context, src config.Source) []pipeline.RawItem {
	started := time.Now()

	var items []pipeline.RawItem
	var err error

	switch src.Kind {
	case config.KindHTML:
		items, err = c.collectHTML(ctx, src)
	default:
		items, err = c.collectFeed(ctx, src)
	}

	if err != nil {
		slog.Error("Source failed", "source", src.Name, "duration", time.Since(started).Round(time.Millisecond), "error", err)
		return nil
	}

	if c.enrichPages {
		for i := range items {
			if !needsEnrichment(items[i]) {
				continue
			}
			if err := c.enrichItem(ctx, &items[i]); err != nil {
				slog.Warn("Page enrichment failed", "url", items[i].URL, "error", err)
			}
		}
	}

	slog.Info("Source collected", "source", src.Name, "items", len(items), "duration", time.Since(started).Round(time.Millisecond))
	return items
}

// needsEnrichment: pages are only fetched when the source gave us no text
// to summarize from.
func needsEnrichment(item pipeline.RawItem) bool {
	return item.FeedSummary == nil && item.Abstract == nil && item.RawText == nil
}
