package collector

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/DiogoBispo/ai-news-intelligence-pipeline/app/config"
	"github.com/DiogoBispo/ai-news-intelligence-pipeline/app/pipeline"
)

// collectFeed fetches and parses a syndication feed. Academic sources
// carry their description as an abstract so the summarizer's strategy
// chain can tell the two apart.
func (c *Collector) collectFeed(ctx context.Context, src config.Source) ([]pipeline.RawItem, error) {
	data, err := c.fetcher.Get(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", src.URL, err)
	}

	items := make([]pipeline.RawItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if len(items) >= c.itemsPerSource {
			break
		}

		title := strings.TrimSpace(entry.Title)
		link := strings.TrimSpace(entry.Link)
		if title == "" || link == "" {
			continue
		}

		item := pipeline.RawItem{
			URL:         link,
			Title:       title,
			Source:      src.Name,
			PublishedAt: publishedAt(entry),
		}

		rawDesc := entry.Description
		if rawDesc == "" {
			rawDesc = entry.Content
		}
		if desc := strings.TrimSpace(rawDesc); desc != "" {
			if src.Kind == config.KindAcademic {
				item.Abstract = &desc
			} else {
				item.FeedSummary = &desc
			}
		}

		items = append(items, item)
	}

	return items, nil
}

func publishedAt(entry *gofeed.Item) string {
	if entry.PublishedParsed != nil {
		return entry.PublishedParsed.UTC().Format(time.RFC3339)
	}
	if entry.UpdatedParsed != nil {
		return entry.UpdatedParsed.UTC().Format(time.RFC3339)
	}
	if entry.Published != "" {
		return entry.Published
	}
	return entry.Updated
}
