package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Load reads the persisted engine state from path. A missing or unparseable
// file is not fatal: the bot falls back to a fresh empty state and the next
// save overwrites whatever was there.
func Load(path string) *EngineState {
	b, err := os.ReadFile(path)
	if err != nil {
		return NewEngineState()
	}
	var s EngineState
	if err := json.Unmarshal(b, &s); err != nil {
		return NewEngineState()
	}
	if s.Positions == nil {
		s.Positions = map[string]*Position{}
	}
	if s.History == nil {
		s.History = []HistoryEntry{}
	}
	return &s
}

// Save writes the full state document to path atomically: the JSON is
// written to a temp file in the same directory and renamed over the target,
// so a reader never observes a partially-written file.
func Save(path string, s *EngineState) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("state: create dir: %w", err)
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("state: marshal: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("state: temp file: %w", err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(name)
		return fmt.Errorf("state: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return fmt.Errorf("state: close: %w", err)
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return fmt.Errorf("state: rename: %w", err)
	}
	return nil
}
