package pipeline

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/DiogoBispo/ai-news-intelligence-pipeline/app/config"
)

// Classifier assigns exactly one category per item using ordered keyword
// rules: the first rule with any match wins, so rule order in the table
// encodes priority between overlapping categories.
type Classifier struct {
	rules []config.CategoryRule

	// word-boundary patterns for short keywords, so "ai" does not match
	// inside "said"
	boundary map[string]*regexp.Regexp
}

func NewClassifier(rules []config.CategoryRule) *Classifier {
	boundary := make(map[string]*regexp.Regexp)
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" || strings.Contains(kw, " ") {
				continue
			}
			if utf8.RuneCountInString(kw) <= 3 {
				boundary[kw] = regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`)
			}
		}
	}

	return &Classifier{
		rules:    rules,
		boundary: boundary,
	}
}

// Run returns a new collection where every item carries exactly one
// category from the closed set. Items matching no rule fall back to the
// default category; this is not an error.
func (c *Classifier) Run(items []Item) []Item {
	out := make([]Item, 0, len(items))

	for _, item := range items {
		classified := item
		classified.Category = c.Classify(item)
		out = append(out, classified)
	}

	return out
}

// Classify is a pure function of the item's text fields: identical input
// text always yields the identical category.
func (c *Classifier) Classify(item Item) string {
	search := c.searchText(item)

	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if c.matchKeyword(search, kw) {
				return rule.Category
			}
		}
	}

	return config.DefaultCategory
}

func (c *Classifier) searchText(item Item) string {
	parts := []string{
		item.Title,
		textOf(item.RawText),
		textOf(item.Summary),
		textOf(item.FeedSummary),
		textOf(item.Abstract),
		textOf(item.MetaDescription),
		textOf(item.OGDescription),
		textOf(item.FirstParagraph),
		item.Source,
		item.URL,
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func (c *Classifier) matchKeyword(search, keyword string) bool {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return false
	}

	if re, ok := c.boundary[kw]; ok {
		return re.MatchString(search)
	}

	return strings.Contains(search, kw)
}
