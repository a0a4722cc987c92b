package pipeline

import (
	"testing"

	"github.com/DiogoBispo/ai-news-intelligence-pipeline/app/config"
)

func testRules() []config.CategoryRule {
	return []config.CategoryRule{
		{Category: "research_papers", Keywords: []string{"arxiv", "preprint", "benchmark", "dataset"}},
		{Category: "llm_agents_reasoning", Keywords: []string{"llm", "agent", "reasoning", "cot"}},
		{Category: "security_safety", Keywords: []string{"security", "safety", "prompt injection", "jailbreak"}},
		{Category: "product_updates", Keywords: []string{"release", "launch", "api", "platform"}},
		{Category: "business_market", Keywords: []string{"funding", "acquisition", "market"}},
	}
}

func TestClassifyRuleOrderEncodesPriority(t *testing.T) {
	c := NewClassifier(testRules())

	// Matches safety, release and benchmark; the earliest rule wins.
	item := Item{
		URL:    "https://deepmind.google/blog/new-benchmark",
		Title:  "DeepMind releases new safety benchmark paper",
		Source: "deepmind_google_blog",
	}

	if got := c.Classify(item); got != "research_papers" {
		t.Errorf("Expected 'research_papers', got '%s'", got)
	}
}

func TestClassifyDefaultCategory(t *testing.T) {
	c := NewClassifier(testRules())

	item := Item{
		URL:    "https://example.com/story",
		Title:  "Weekly roundup of interesting developments",
		Source: "example_news",
	}

	if got := c.Classify(item); got != config.DefaultCategory {
		t.Errorf("Expected default category '%s', got '%s'", config.DefaultCategory, got)
	}
}

func TestClassifySearchesAllTextFields(t *testing.T) {
	c := NewClassifier(testRules())

	tests := []struct {
		name string
		item Item
		want string
	}{
		{
			name: "keyword in summary",
			item: Item{URL: "https://example.com/a", Title: "Quiet title", Summary: strPtr("a new jailbreak technique")},
			want: "security_safety",
		},
		{
			name: "keyword in url",
			item: Item{URL: "https://arxiv.org/abs/2408.00001", Title: "Quiet title"},
			want: "research_papers",
		},
		{
			name: "keyword in source",
			item: Item{URL: "https://example.com/b", Title: "Quiet title", Source: "arxiv_cs_ai"},
			want: "research_papers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.item); got != tt.want {
				t.Errorf("Expected '%s', got '%s'", tt.want, got)
			}
		})
	}
}

func TestClassifyShortKeywordsRespectWordBoundaries(t *testing.T) {
	c := NewClassifier(testRules())

	// "cot" must not match inside "boycott".
	item := Item{
		URL:   "https://example.com/a",
		Title: "Consumers boycott new device",
	}
	if got := c.Classify(item); got == "llm_agents_reasoning" {
		t.Error("Expected short keyword not to match inside a longer word")
	}

	item = Item{
		URL:   "https://example.com/b",
		Title: "CoT prompting improves accuracy",
	}
	if got := c.Classify(item); got != "llm_agents_reasoning" {
		t.Errorf("Expected standalone short keyword to match, got '%s'", got)
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	c := NewClassifier(testRules())

	item := Item{
		URL:   "https://example.com/a",
		Title: "MAJOR PLATFORM RELEASE ANNOUNCED",
	}
	if got := c.Classify(item); got != "product_updates" {
		t.Errorf("Expected case-insensitive match, got '%s'", got)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := NewClassifier(testRules())

	item := Item{
		URL:     "https://example.com/a",
		Title:   "Agent benchmark results for the new API",
		RawText: strPtr("funding news and safety notes"),
	}

	first := c.Classify(item)
	for i := 0; i < 50; i++ {
		if got := c.Classify(item); got != first {
			t.Fatalf("Expected stable classification '%s', got '%s' on run %d", first, got, i)
		}
	}
}

func TestRunAssignsExactlyOneCategory(t *testing.T) {
	c := NewClassifier(testRules())

	items := []Item{
		{URL: "https://example.com/a", Title: "Agent reasoning deep dive"},
		{URL: "https://example.com/b", Title: "Nothing matches here"},
	}

	out := c.Run(items)
	for i, item := range out {
		if item.Category == "" {
			t.Errorf("Item %d has no category", i)
		}
	}
	if out[0].Category != "llm_agents_reasoning" {
		t.Errorf("Expected 'llm_agents_reasoning', got '%s'", out[0].Category)
	}
	if out[1].Category != config.DefaultCategory {
		t.Errorf("Expected default category, got '%s'", out[1].Category)
	}
}
