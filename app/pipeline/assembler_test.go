package pipeline

import (
	"strings"
	"testing"
	"time"
)

func testDisplayOrder() []string {
	return []string{"product_updates", "security_safety", "research_papers", "general_ai_news"}
}

func timePtr(t time.Time) *time.Time { return &t }

func TestAssemblerOrdersNewestFirst(t *testing.T) {
	a := NewAssembler(testDisplayOrder())

	items := []Item{
		{URL: "https://example.com/old", Title: "Old", PublishedAt: timePtr(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))},
		{URL: "https://example.com/undated-1", Title: "Undated first"},
		{URL: "https://example.com/new", Title: "New", PublishedAt: timePtr(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))},
		{URL: "https://example.com/undated-2", Title: "Undated second"},
	}

	digest := a.Run(items, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC))

	wantTitles := []string{"New", "Old", "Undated first", "Undated second"}
	if len(digest.Items) != len(wantTitles) {
		t.Fatalf("Expected %d items, got %d", len(wantTitles), len(digest.Items))
	}
	for i, want := range wantTitles {
		if digest.Items[i].Title != want {
			t.Errorf("Expected '%s' at position %d, got '%s'", want, i, digest.Items[i].Title)
		}
	}
	if digest.TotalItems != 4 {
		t.Errorf("Expected total 4, got %d", digest.TotalItems)
	}
}

func TestAssemblerTruncatesGeneratedAt(t *testing.T) {
	a := NewAssembler(testDisplayOrder())

	loc := time.FixedZone("UTC+2", 2*3600)
	digest := a.Run(nil, time.Date(2024, 3, 5, 12, 30, 45, 123456789, loc))

	want := time.Date(2024, 3, 5, 10, 30, 45, 0, time.UTC)
	if !digest.GeneratedAt.Equal(want) {
		t.Errorf("Expected %v, got %v", want, digest.GeneratedAt)
	}
	if digest.GeneratedAt.Location() != time.UTC {
		t.Errorf("Expected UTC, got %v", digest.GeneratedAt.Location())
	}
}

func TestAssemblerEmptyInput(t *testing.T) {
	a := NewAssembler(testDisplayOrder())

	digest := a.Run(nil, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC))

	if digest.TotalItems != 0 {
		t.Errorf("Expected 0 total items, got %d", digest.TotalItems)
	}
	if len(digest.Items) != 0 {
		t.Errorf("Expected no items, got %d", len(digest.Items))
	}

	markdown := a.RenderMarkdown(digest)
	if !strings.Contains(markdown, "Total items: **0**") {
		t.Errorf("Expected empty digest header, got:\n%s", markdown)
	}

	if _, err := a.RenderJSON(digest); err != nil {
		t.Errorf("Expected empty digest to render, got error: %v", err)
	}
}

func TestRenderMarkdown(t *testing.T) {
	a := NewAssembler(testDisplayOrder())

	summary := "A short summary."
	items := []Item{
		{
			URL:         "https://example.com/release",
			Title:       "New model released",
			Source:      "openai_news",
			Category:    "product_updates",
			PublishedAt: timePtr(time.Date(2024, 3, 2, 15, 0, 0, 0, time.UTC)),
			Summary:     &summary,
		},
		{
			URL:      "https://example.com/paper",
			Title:    "Benchmark study",
			Source:   "arxiv_cs_ai",
			Category: "research_papers",
		},
	}

	digest := a.Run(items, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC))
	markdown := a.RenderMarkdown(digest)

	if !strings.Contains(markdown, "# AI Digest — 2024-03-05 10:00 UTC") {
		t.Errorf("Expected digest heading, got:\n%s", markdown)
	}
	if !strings.Contains(markdown, "Total items: **2**") {
		t.Errorf("Expected item count line, got:\n%s", markdown)
	}
	if !strings.Contains(markdown, "## product_updates") {
		t.Error("Expected product_updates section")
	}
	if !strings.Contains(markdown, "- **New model released** (openai_news) — 2024-03-02") {
		t.Errorf("Expected item line with date, got:\n%s", markdown)
	}
	if !strings.Contains(markdown, "  - A short summary.") {
		t.Error("Expected summary line")
	}
	if !strings.Contains(markdown, "  - https://example.com/release") {
		t.Error("Expected URL line")
	}
	if !strings.Contains(markdown, "- **Benchmark study** (arxiv_cs_ai)\n") {
		t.Error("Expected undated item line without a date suffix")
	}

	// Sections follow configured display order.
	productIdx := strings.Index(markdown, "## product_updates")
	researchIdx := strings.Index(markdown, "## research_papers")
	if productIdx == -1 || researchIdx == -1 || productIdx > researchIdx {
		t.Errorf("Expected product_updates before research_papers, got:\n%s", markdown)
	}
}

func TestRenderMarkdownAppendsUnlistedCategories(t *testing.T) {
	a := NewAssembler([]string{"product_updates"})

	items := []Item{
		{URL: "https://example.com/a", Title: "A", Source: "s", Category: "product_updates"},
		{URL: "https://example.com/b", Title: "B", Source: "s", Category: "business_market"},
	}

	digest := a.Run(items, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC))
	markdown := a.RenderMarkdown(digest)

	if !strings.Contains(markdown, "## business_market") {
		t.Errorf("Expected unlisted category section appended, got:\n%s", markdown)
	}
	productIdx := strings.Index(markdown, "## product_updates")
	businessIdx := strings.Index(markdown, "## business_market")
	if productIdx > businessIdx {
		t.Error("Expected listed categories to come first")
	}
}

func TestAssemblerIdempotent(t *testing.T) {
	a := NewAssembler(testDisplayOrder())

	items := []Item{
		{URL: "https://example.com/a", Title: "A", Source: "s", Category: "product_updates",
			PublishedAt: timePtr(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))},
		{URL: "https://example.com/b", Title: "B", Source: "s", Category: "research_papers"},
	}
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

	first := a.Run(items, now)
	second := a.Run(items, now)

	firstJSON, err := a.RenderJSON(first)
	if err != nil {
		t.Fatalf("Unexpected render error: %v", err)
	}
	secondJSON, err := a.RenderJSON(second)
	if err != nil {
		t.Fatalf("Unexpected render error: %v", err)
	}

	if string(firstJSON) != string(secondJSON) {
		t.Error("Expected identical input and clock to produce identical JSON")
	}
	if a.RenderMarkdown(first) != a.RenderMarkdown(second) {
		t.Error("Expected identical input and clock to produce identical markdown")
	}
}
