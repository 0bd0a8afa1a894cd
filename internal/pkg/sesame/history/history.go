// Package history keeps a JSON log of completed generations next to
// the output audio.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/metrics"
)

const fileName = "history.json"

type Entry struct {
	JobID      string          `json:"job_id"`
	Text       string          `json:"text"`
	ModelID    string          `json:"model_id"`
	Quality    int             `json:"quality"`
	OutputPath string          `json:"output_path"`
	Metrics    *metrics.Result `json:"metrics,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Log appends entries to the history file under dir.
type Log struct {
	path string
}

func NewLog(outputDir string) *Log {
	return &Log{path: filepath.Join(outputDir, fileName)}
}

// Load returns past entries, or an empty list when no history exists.
func (l *Log) Load() ([]Entry, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse history: %w", err)
	}
	return entries, nil
}

// Append adds entries and rewrites the file.
func (l *Log) Append(entries ...Entry) error {
	existing, err := l.Load()
	if err != nil {
		return err
	}
	existing = append(existing, entries...)

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("failed to create history dir: %w", err)
	}
	raw, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := os.WriteFile(l.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}
