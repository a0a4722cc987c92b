package pipeline

import (
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"strings"
	"unicode/utf8"
)

// trackingParams are query keys dropped during URL normalization beyond
// the utm* family.
var trackingParams = map[string]bool{
	"fbclid": true,
	"gclid":  true,
	"ref":    true,
}

// Deduplicator collapses records describing the same story into one
// representative. Normalized-URL equality is the sole duplicate key: items
// with different normalized URLs are never merged, however similar their
// titles.
type Deduplicator struct {
	trustRanks map[string]int
}

func NewDeduplicator(trustRanks map[string]int) *Deduplicator {
	return &Deduplicator{trustRanks: trustRanks}
}

// Run groups items by normalized URL and keeps one representative per
// group, fields unchanged. Items whose URL cannot be normalized are never
// grouped with anything and always survive.
func (d *Deduplicator) Run(items []Item) []Item {
	type group struct {
		best Item
		size int
	}

	order := make([]string, 0, len(items))
	groups := make(map[string]*group)

	for i, item := range items {
		candidate := item
		candidate.NormalizedURL = NormalizeURL(item.URL)

		key := candidate.NormalizedURL
		if key == "" {
			// unparseable or missing URL: singleton, favors recall
			key = fmt.Sprintf("\x00singleton:%d", i)
		}

		g, ok := groups[key]
		if !ok {
			groups[key] = &group{best: candidate, size: 1}
			order = append(order, key)
			continue
		}

		g.size++
		if d.better(candidate, g.best) {
			g.best = candidate
		}
	}

	out := make([]Item, 0, len(order))
	duplicates := 0
	for _, key := range order {
		g := groups[key]
		duplicates += g.size - 1
		out = append(out, g.best)
	}

	if duplicates > 0 {
		slog.Info("Collapsed duplicate coverage", "before", len(items), "after", len(out), "duplicates", duplicates)
	}

	return out
}

// better reports whether a should replace the current representative b.
// Ties on every rule resolve to input order: a arrived later, so it loses.
func (d *Deduplicator) better(a, b Item) bool {
	rankA, rankB := d.trustRank(a.Source), d.trustRank(b.Source)
	if rankA != rankB {
		return rankA < rankB
	}

	summaryA, summaryB := a.Summary != nil, b.Summary != nil
	if summaryA != summaryB {
		return summaryA
	}

	lenA := utf8.RuneCountInString(textOf(a.RawText))
	lenB := utf8.RuneCountInString(textOf(b.RawText))
	return lenA > lenB
}

func (d *Deduplicator) trustRank(source string) int {
	if rank, ok := d.trustRanks[source]; ok {
		return rank
	}
	return math.MaxInt
}

// NormalizeURL lowercases scheme and host, strips tracking query
// parameters, the fragment and any trailing slash. It returns "" when the
// URL is missing or unparseable.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	if strings.HasSuffix(u.Path, "/") && u.Path != "/" {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}

	if u.RawQuery != "" {
		query := u.Query()
		for key := range query {
			lower := strings.ToLower(key)
			if strings.HasPrefix(lower, "utm") || trackingParams[lower] {
				query.Del(key)
			}
		}
		u.RawQuery = query.Encode()
	}

	return u.String()
}
