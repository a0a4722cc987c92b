package pipeline

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/araddon/dateparse"
	"golang.org/x/text/encoding/charmap"
)

// encodingRepairs maps known mojibake sequences (UTF-8 read as
// Windows-1252 and re-encoded) to the characters they stand for. Longer
// sequences come first so they are not shadowed by their prefixes.
var encodingRepairs = []struct {
	corrupted string
	correct   string
}{
	{"â€œ", "“"},
	{"â€™", "’"},
	{"â€˜", "‘"},
	{"â€“", "–"},
	{"â€”", "—"},
	{"â€¦", "…"},
	{"â€", "”"},
	{"Ã©", "é"},
	{"Ã¨", "è"},
	{"Ã¡", "á"},
	{"Ã ", "à"},
	{"Ã£", "ã"},
	{"Ã§", "ç"},
	{"Ã³", "ó"},
	{"Ãº", "ú"},
	{"Ã­", "í"},
	{"Ã±", "ñ"},
	{"Ã¼", "ü"},
	{"Ã¶", "ö"},
	{"Ã¤", "ä"},
	{"Â ", " "},
}

type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Run coerces raw collected records into canonical items. Records missing
// a required field are dropped with a recorded reason; the run continues.
func (n *Normalizer) Run(raw []RawItem) ([]Item, []DroppedItem) {
	items := make([]Item, 0, len(raw))
	var dropped []DroppedItem

	for _, r := range raw {
		url := strings.TrimSpace(r.URL)
		title := strings.TrimSpace(r.Title)

		if url == "" {
			dropped = append(dropped, DroppedItem{Title: title, Source: r.Source, Reason: "missing required field: url"})
			continue
		}
		if title == "" {
			dropped = append(dropped, DroppedItem{URL: url, Source: r.Source, Reason: "missing required field: title"})
			continue
		}

		item := Item{
			URL:             url,
			Title:           RepairEncoding(title),
			Source:          strings.TrimSpace(r.Source),
			FeedSummary:     repairCandidate(r.FeedSummary),
			Abstract:        repairCandidate(r.Abstract),
			MetaDescription: repairCandidate(r.MetaDescription),
			OGDescription:   repairCandidate(r.OGDescription),
			FirstParagraph:  repairCandidate(r.FirstParagraph),
			RawText:         repairCandidate(r.RawText),
		}

		if ts := strings.TrimSpace(r.PublishedAt); ts != "" {
			if parsed, err := dateparse.ParseAny(ts); err == nil {
				utc := parsed.UTC()
				item.PublishedAt = &utc
			} else {
				slog.Debug("Unparseable timestamp kept as absent", "url", url, "published_at", ts)
			}
		}

		items = append(items, item)
	}

	if len(dropped) > 0 {
		slog.Warn("Dropped malformed input records", "dropped", len(dropped), "kept", len(items))
	}

	return items, dropped
}

// repairCandidate normalizes an optional text field, keeping the
// missing/empty distinction: fields absent or blank in the source stay nil.
func repairCandidate(p *string) *string {
	if p == nil {
		return nil
	}
	text := strings.TrimSpace(*p)
	if text == "" {
		return nil
	}
	repaired := RepairEncoding(text)
	return &repaired
}

// RepairEncoding fixes double-encoded text (UTF-8 bytes mis-decoded as
// Windows-1252). The fixed replacement table handles the common sequences;
// a guarded round-trip catches the rest. Unresolvable text is returned
// unchanged, never an error.
func RepairEncoding(text string) string {
	if !strings.Contains(text, "Ã") && !strings.Contains(text, "â") && !strings.Contains(text, "Â") {
		return text
	}

	repaired := text
	for _, r := range encodingRepairs {
		repaired = strings.ReplaceAll(repaired, r.corrupted, r.correct)
	}

	if roundTripped, ok := reverseMisdecode(repaired); ok {
		repaired = roundTripped
	}

	return repaired
}

// reverseMisdecode re-encodes the text as Windows-1252 and checks whether
// the resulting bytes form valid UTF-8 with fewer artifacts. Only then is
// the round trip trusted.
func reverseMisdecode(text string) (string, bool) {
	if artifactCount(text) == 0 {
		return text, false
	}

	encoded, err := charmap.Windows1252.NewEncoder().String(text)
	if err != nil {
		return text, false
	}
	if !utf8.ValidString(encoded) {
		return text, false
	}
	if artifactCount(encoded) >= artifactCount(text) {
		return text, false
	}

	return encoded, true
}

func artifactCount(text string) int {
	return strings.Count(text, "Ã") + strings.Count(text, "â") + strings.Count(text, "Â")
}
