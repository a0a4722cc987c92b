package pipeline

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestNormalizerDropsMissingFields(t *testing.T) {
	n := NewNormalizer()

	raw := []RawItem{
		{URL: "https://example.com/a", Title: "Valid item"},
		{URL: "", Title: "No URL", Source: "test_source"},
		{URL: "https://example.com/b", Title: "   ", Source: "test_source"},
		{URL: "   ", Title: "Whitespace URL"},
	}

	items, dropped := n.Run(raw)

	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}
	if items[0].URL != "https://example.com/a" {
		t.Errorf("Expected URL 'https://example.com/a', got '%s'", items[0].URL)
	}

	if len(dropped) != 3 {
		t.Fatalf("Expected 3 dropped records, got %d", len(dropped))
	}
	if dropped[0].Reason != "missing required field: url" {
		t.Errorf("Expected url drop reason, got '%s'", dropped[0].Reason)
	}
	if dropped[1].Reason != "missing required field: title" {
		t.Errorf("Expected title drop reason, got '%s'", dropped[1].Reason)
	}
	if dropped[0].Source != "test_source" {
		t.Errorf("Expected dropped record to keep its source, got '%s'", dropped[0].Source)
	}
}

func TestNormalizerParsesTimestamps(t *testing.T) {
	n := NewNormalizer()

	raw := []RawItem{
		{URL: "https://example.com/a", Title: "Dated", PublishedAt: "2024-01-02T03:04:05Z"},
		{URL: "https://example.com/b", Title: "Garbage date", PublishedAt: "not a date"},
		{URL: "https://example.com/c", Title: "No date"},
	}

	items, dropped := n.Run(raw)

	if len(dropped) != 0 {
		t.Fatalf("Expected no drops, got %d", len(dropped))
	}
	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(items))
	}

	if items[0].PublishedAt == nil {
		t.Fatal("Expected parsed timestamp on first item")
	}
	want := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if !items[0].PublishedAt.Equal(want) {
		t.Errorf("Expected %v, got %v", want, items[0].PublishedAt)
	}
	if items[0].PublishedAt.Location() != time.UTC {
		t.Errorf("Expected UTC timestamp, got %v", items[0].PublishedAt.Location())
	}

	if items[1].PublishedAt != nil {
		t.Error("Expected unparseable timestamp to stay absent, not an error")
	}
	if items[2].PublishedAt != nil {
		t.Error("Expected missing timestamp to stay absent")
	}
}

func TestNormalizerKeepsAbsentCandidates(t *testing.T) {
	n := NewNormalizer()

	raw := []RawItem{
		{
			URL:         "https://example.com/a",
			Title:       "Candidates",
			FeedSummary: strPtr("  a summary  "),
			Abstract:    strPtr("   "),
		},
	}

	items, _ := n.Run(raw)

	if items[0].FeedSummary == nil || *items[0].FeedSummary != "a summary" {
		t.Errorf("Expected trimmed feed summary, got %v", items[0].FeedSummary)
	}
	if items[0].Abstract != nil {
		t.Error("Expected blank abstract to become absent")
	}
	if items[0].MetaDescription != nil {
		t.Error("Expected missing meta description to stay absent")
	}
}

func TestRepairEncoding(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"clean text unchanged", "Nothing to fix here", "Nothing to fix here"},
		{"smart quote", "Itâ€™s here", "It’s here"},
		{"accented latin", "CafÃ© OlÃ©", "Café Olé"},
		{"em dash", "before â€” after", "before — after"},
		{"ellipsis", "waitâ€¦", "wait…"},
		{"valid utf8 kept", "naïve résumé — fine", "naïve résumé — fine"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RepairEncoding(tt.input)
			if got != tt.want {
				t.Errorf("Expected '%s', got '%s'", tt.want, got)
			}
		})
	}
}

func TestRepairEncodingNeverFails(t *testing.T) {
	// Unresolvable artifacts come back unchanged rather than erroring.
	input := "â\x01 broken beyond repair Ã"
	got := RepairEncoding(input)
	if got == "" {
		t.Error("Expected unresolvable text to be returned, got empty string")
	}
}
