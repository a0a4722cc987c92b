// Package snapshot persists stage output and digest artifacts under
// fixed, stable names so an overwrite-based sync always targets the same
// destination and earlier stages can be inspected without re-running.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Stage snapshot and artifact names. Fixed by contract: downstream
// automation addresses them by name.
const (
	RawItems        = "raw_items.json"
	StageNormalized = "items_normalized.json"
	StageSummarized = "items_summarized.json"
	StageClassified = "items_classified.json"
	StageDeduped    = "items_deduped.json"
	DigestMarkdown  = "digest.md"
	DigestJSON      = "digest.json"
)

type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the on-disk location of a named artifact.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// WriteJSON persists v as indented JSON under name. The write is atomic
// (temp file + rename), so a failed run never leaves a partial artifact
// and the previous day's output stays intact.
func (s *Store) WriteJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	return s.WriteBytes(name, append(data, '\n'))
}

// WriteBytes atomically writes raw content under name.
func (s *Store) WriteBytes(name string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file for %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), s.Path(name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}

	return nil
}

// ReadJSON loads a previously written snapshot into v.
func (s *Store) ReadJSON(name string, v any) error {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return fmt.Errorf("failed to read snapshot %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse snapshot %s: %w", name, err)
	}
	return nil
}

// ReadBytes returns a raw artifact, e.g. for serving over HTTP.
func (s *Store) ReadBytes(name string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", name, err)
	}
	return data, nil
}
