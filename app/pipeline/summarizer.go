package pipeline

import (
	"strings"

	"github.com/DiogoBispo/ai-news-intelligence-pipeline/app/config"
)

// strategy extracts one summary candidate from an item. Strategies share a
// single signature so a source kind is just an ordered fallback list.
type strategy func(Item) string

var (
	fromFeedSummary    = func(it Item) string { return textOf(it.FeedSummary) }
	fromAbstract       = func(it Item) string { return textOf(it.Abstract) }
	fromMetaDesc       = func(it Item) string { return textOf(it.MetaDescription) }
	fromOGDesc         = func(it Item) string { return textOf(it.OGDescription) }
	fromFirstParagraph = func(it Item) string { return textOf(it.FirstParagraph) }
	fromRawText        = func(it Item) string { return textOf(it.RawText) }
)

var strategyChains = map[string][]strategy{
	config.KindFeed:     {fromFeedSummary, fromRawText, fromMetaDesc, fromOGDesc, fromFirstParagraph},
	config.KindAcademic: {fromAbstract, fromRawText, fromMetaDesc, fromOGDesc, fromFirstParagraph},
	config.KindHTML:     {fromMetaDesc, fromOGDesc, fromFirstParagraph, fromRawText},
}

type Summarizer struct {
	maxChars    int
	sourceKinds map[string]string
}

func NewSummarizer(maxChars int, sourceKinds map[string]string) *Summarizer {
	return &Summarizer{
		maxChars:    maxChars,
		sourceKinds: sourceKinds,
	}
}

// Run derives a summary per item by trying the strategies for its source
// kind in order until one yields text. Items with no usable candidate keep
// an absent summary, never a fabricated one.
func (s *Summarizer) Run(items []Item) []Item {
	out := make([]Item, 0, len(items))

	for _, item := range items {
		enriched := item

		if text := s.pickText(item); text != "" {
			summary := Clip(text, s.maxChars)
			enriched.Summary = &summary
			if enriched.RawText == nil {
				enriched.RawText = &text
			}
		}

		out = append(out, enriched)
	}

	return out
}

// pickText returns the first non-empty candidate, whitespace-collapsed.
func (s *Summarizer) pickText(item Item) string {
	chain, ok := strategyChains[s.sourceKinds[item.Source]]
	if !ok {
		chain = strategyChains[config.KindHTML]
	}

	for _, pick := range chain {
		if text := collapseWhitespace(pick(item)); text != "" {
			return text
		}
	}

	return ""
}

// Clip shortens text to at most maxChars characters, cutting at the last
// word boundary before the limit and appending an ellipsis. Multi-byte
// characters are never split.
func Clip(text string, maxChars int) string {
	collapsed := collapseWhitespace(text)
	runes := []rune(collapsed)
	if len(runes) <= maxChars {
		return collapsed
	}

	cut := runes[:maxChars-1]
	for i := len(cut) - 1; i >= 0; i-- {
		if cut[i] == ' ' {
			cut = cut[:i]
			break
		}
	}

	return strings.TrimRight(string(cut), " ") + "…"
}

func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
