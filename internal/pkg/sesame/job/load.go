package job

import (
	"encoding/json"
	"fmt"
	"os"
)

// Defaults fill batch entries that omit optional fields.
type Defaults struct {
	Quality int
	ModelID string
}

// batchEntry mirrors the external batch-file shape. Quality is a
// pointer so "omitted" and "zero" stay distinguishable.
type batchEntry struct {
	ID          string `json:"id,omitempty"`
	AudioFile   string `json:"audio_file"`
	ContextText string `json:"context_text,omitempty"`
	Text        string `json:"text"`
	Quality     *int   `json:"quality,omitempty"`
	ModelID     string `json:"model_id,omitempty"`
}

// LoadFile reads a JSON batch file (an array of job objects) into
// pending jobs. Ids default to the batch position so output paths stay
// deterministic across reruns. A malformed file is a startup error;
// per-entry field problems surface later through Validate.
func LoadFile(path string, defaults Defaults) ([]Job, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var entries []batchEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("batch file must be a JSON array of jobs: %w", err)
	}

	if defaults.Quality == 0 {
		defaults.Quality = DefaultQuality
	}

	jobs := make([]Job, len(entries))
	for i, e := range entries {
		j := Job{
			ID:          e.ID,
			AudioFile:   e.AudioFile,
			ContextText: e.ContextText,
			Text:        e.Text,
			Quality:     defaults.Quality,
			ModelID:     e.ModelID,
			Status:      StatusPending,
		}
		if e.Quality != nil {
			j.Quality = *e.Quality
		}
		if j.ID == "" {
			j.ID = fmt.Sprintf("job-%03d", i+1)
		}
		if j.ModelID == "" {
			j.ModelID = defaults.ModelID
		}
		jobs[i] = j
	}
	return jobs, nil
}
