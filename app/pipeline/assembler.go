package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Assembler orders the surviving items and renders both digest formats.
// Both renderings are total overwrites of the previous output, so a run is
// idempotent given identical input and clock.
type Assembler struct {
	displayOrder []string
}

func NewAssembler(displayOrder []string) *Assembler {
	return &Assembler{displayOrder: displayOrder}
}

// Run produces the machine-readable digest: items with a known timestamp
// sorted newest first, undated items appended after in their deduplicated
// input order. The stable tail keeps diffs between runs reproducible.
func (a *Assembler) Run(items []Item, generatedAt time.Time) *Digest {
	ordered := make([]Item, len(items))
	copy(ordered, items)

	sort.SliceStable(ordered, func(i, j int) bool {
		ti, tj := ordered[i].PublishedAt, ordered[j].PublishedAt
		switch {
		case ti != nil && tj != nil:
			return ti.After(*tj)
		case ti != nil:
			return true
		default:
			return false
		}
	})

	return &Digest{
		GeneratedAt: generatedAt.UTC().Truncate(time.Second),
		TotalItems:  len(ordered),
		Items:       ordered,
	}
}

// RenderJSON marshals the digest for downstream automation.
func (a *Assembler) RenderJSON(digest *Digest) ([]byte, error) {
	data, err := json.MarshalIndent(digest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render digest JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// RenderMarkdown renders the human-readable digest, grouped by category in
// the configured display order.
func (a *Assembler) RenderMarkdown(digest *Digest) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# AI Digest — %s\n\n", digest.GeneratedAt.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&buf, "Total items: **%d**\n", digest.TotalItems)

	buckets := make(map[string][]Item)
	for _, item := range digest.Items {
		buckets[item.Category] = append(buckets[item.Category], item)
	}

	for _, category := range a.categoryOrder(digest.Items) {
		items, ok := buckets[category]
		if !ok {
			continue
		}

		fmt.Fprintf(&buf, "\n## %s\n\n", category)
		for _, item := range items {
			a.writeItem(&buf, item)
		}
	}

	return buf.String()
}

// categoryOrder is the display order plus any category carrying items but
// missing from it, appended in digest order.
func (a *Assembler) categoryOrder(items []Item) []string {
	order := make([]string, 0, len(a.displayOrder))
	listed := make(map[string]bool)
	for _, c := range a.displayOrder {
		order = append(order, c)
		listed[c] = true
	}

	for _, item := range items {
		if !listed[item.Category] {
			order = append(order, item.Category)
			listed[item.Category] = true
		}
	}

	return order
}

func (a *Assembler) writeItem(buf *bytes.Buffer, item Item) {
	fmt.Fprintf(buf, "- **%s** (%s)", item.Title, item.Source)
	if item.PublishedAt != nil {
		fmt.Fprintf(buf, " — %s", item.PublishedAt.Format("2006-01-02"))
	}
	buf.WriteString("\n")

	if item.Summary != nil {
		fmt.Fprintf(buf, "  - %s\n", *item.Summary)
	}
	fmt.Fprintf(buf, "  - %s\n", item.URL)
}
