package collector

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/DiogoBispo/ai-news-intelligence-pipeline/app/config"
	"github.com/DiogoBispo/ai-news-intelligence-pipeline/app/pipeline"
)

// minParagraphRunes filters out bylines and picture captions when hunting
// for the first real paragraph of an article page.
const minParagraphRunes = 80

// collectHTML scrapes headline links from a listing page using the
// source's configured selector.
func (c *Collector) collectHTML(ctx context.Context, src config.Source) ([]pipeline.RawItem, error) {
	data, err := c.fetcher.Get(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing %s: %w", src.URL, err)
	}

	items := make([]pipeline.RawItem, 0, c.itemsPerSource)
	seen := make(map[string]bool)

	doc.Find(src.Selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		title := strings.TrimSpace(sel.Text())
		href, ok := sel.Attr("href")
		if !ok || title == "" {
			return true
		}

		link := resolveLink(strings.TrimSpace(href), src)
		if link == "" || seen[link] {
			return true
		}
		if src.LinkPrefix != "" && !strings.HasPrefix(link, src.LinkPrefix) {
			return true
		}

		seen[link] = true
		items = append(items, pipeline.RawItem{
			URL:    link,
			Title:  title,
			Source: src.Name,
		})

		return len(items) < c.itemsPerSource
	})

	return items, nil
}

func resolveLink(href string, src config.Source) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if src.BaseURL != "" && strings.HasPrefix(href, "/") {
		return strings.TrimSuffix(src.BaseURL, "/") + href
	}
	return ""
}

// enrichItem fetches the article page and records description candidates
// for the summarizer: meta description, Open Graph description, first
// readable paragraph. Enrichment failures leave the item as collected.
func (c *Collector) enrichItem(ctx context.Context, item *pipeline.RawItem) error {
	data, err := c.fetcher.Get(ctx, item.URL)
	if err != nil {
		return err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to parse page %s: %w", item.URL, err)
	}

	if content, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		if desc := strings.TrimSpace(content); desc != "" {
			item.MetaDescription = &desc
		}
	}

	if content, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		if desc := strings.TrimSpace(content); desc != "" {
			item.OGDescription = &desc
		}
	}

	if para := firstParagraph(data, item.URL, doc); para != "" {
		item.FirstParagraph = &para
	}

	return nil
}

// firstParagraph prefers readability extraction and falls back to a plain
// scan of <p> elements.
func firstParagraph(data []byte, pageURL string, doc *goquery.Document) string {
	parsed, _ := url.Parse(pageURL)

	if article, err := readability.FromReader(bytes.NewReader(data), parsed); err == nil {
		for _, line := range strings.Split(article.TextContent, "\n") {
			if para := strings.TrimSpace(line); utf8.RuneCountInString(para) >= minParagraphRunes {
				return para
			}
		}
	}

	var fallback string
	doc.Find("p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if para := strings.TrimSpace(sel.Text()); utf8.RuneCountInString(para) >= minParagraphRunes {
			fallback = para
			return false
		}
		return true
	})

	return fallback
}
