package config

// Source kinds determine which summary strategy chain applies and how the
// collector fetches the source.
const (
	KindFeed     = "feed"
	KindAcademic = "academic"
	KindHTML     = "html"
)

// DefaultCategory is assigned when no classification rule matches.
const DefaultCategory = "general_ai_news"

// Source describes one collection origin together with its trust rank.
// Lower rank means higher trust; sources missing from the table rank last.
type Source struct {
	Name       string `yaml:"name"`
	Kind       string `yaml:"kind"`
	Trust      int    `yaml:"trust"`
	URL        string `yaml:"url"`
	Selector   string `yaml:"selector"`    // CSS selector for headline links (html kind)
	BaseURL    string `yaml:"base_url"`    // prepended to relative hrefs (html kind)
	LinkPrefix string `yaml:"link_prefix"` // discard scraped links outside this prefix
}

// CategoryRule binds one category label to its keyword set. Rule order in
// the file encodes priority between overlapping categories.
type CategoryRule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// Rules is the full classification and ranking table consumed by the
// pipeline. Edited as data so new sources and categories require no code
// changes.
type Rules struct {
	Categories   []CategoryRule `yaml:"categories"`
	DisplayOrder []string       `yaml:"display_order"`
}

// SourcesConfig is the collector source list.
type SourcesConfig struct {
	Sources []Source `yaml:"sources"`
}

// Categories returns the closed category set, default included.
func Categories() []string {
	return []string{
		"product_updates",
		"security_safety",
		"llm_agents_reasoning",
		"research_papers",
		"business_market",
		"policy_society",
		DefaultCategory,
	}
}

// TrustRanks maps source name to trust rank for dedup tie-breaking.
// Sources with no trust set (zero) are left out and rank last.
func (s *SourcesConfig) TrustRanks() map[string]int {
	ranks := make(map[string]int, len(s.Sources))
	for _, src := range s.Sources {
		if src.Trust == 0 {
			continue
		}
		ranks[src.Name] = src.Trust
	}
	return ranks
}

// Kinds maps source name to its kind for summary strategy selection.
func (s *SourcesConfig) Kinds() map[string]string {
	kinds := make(map[string]string, len(s.Sources))
	for _, src := range s.Sources {
		kinds[src.Name] = src.Kind
	}
	return kinds
}
