package job_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/job"
)

func writeRef(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("not really audio"), 0o644))
	return path
}

func TestStatusMachine(t *testing.T) {
	t.Parallel()

	j := job.Job{ID: "job-001", Status: job.StatusPending}

	require.NoError(t, j.Start())
	assert.Equal(t, job.StatusRunning, j.Status)

	require.NoError(t, j.Succeed("/out/job-001.wav"))
	assert.Equal(t, job.StatusSucceeded, j.Status)
	assert.Equal(t, "/out/job-001.wav", j.OutputPath)
	assert.True(t, j.Terminal())

	// Terminal states never revert.
	assert.Error(t, j.Start())
	assert.Error(t, j.Fail(errors.New("late")))
}

func TestFailFromPending(t *testing.T) {
	t.Parallel()

	j := job.Job{ID: "job-001", Status: job.StatusPending}
	require.NoError(t, j.Fail(errors.New("bad input")))
	assert.Equal(t, job.StatusFailed, j.Status)
	assert.Equal(t, "bad input", j.ErrorMessage)
	assert.Error(t, j.Start())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	ref := writeRef(t, "voice.wav")

	tests := []struct {
		name    string
		j       job.Job
		wantErr string
	}{
		{"valid", job.Job{AudioFile: ref, Text: "hi", Quality: 5}, ""},
		{"empty text", job.Job{AudioFile: ref, Text: "", Quality: 5}, "text"},
		{"quality low", job.Job{AudioFile: ref, Text: "hi", Quality: 0}, "quality"},
		{"quality high", job.Job{AudioFile: ref, Text: "hi", Quality: 11}, "quality"},
		{"missing file", job.Job{AudioFile: "/nope/voice.wav", Text: "hi", Quality: 5}, "not found"},
		{"empty file", job.Job{AudioFile: "", Text: "hi", Quality: 5}, "audio_file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.j.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, job.ErrValidation)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateRejectsUnsupportedFormat(t *testing.T) {
	t.Parallel()

	ref := writeRef(t, "voice.ogg")
	j := job.Job{AudioFile: ref, Text: "hi", Quality: 5}

	err := j.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, job.ErrValidation)
	assert.Contains(t, err.Error(), "unsupported audio format")
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "jobs.json")
	body := `[
  {"audio_file": "ref1.wav", "context_text": "hello", "text": "first", "quality": 8},
  {"audio_file": "ref2.wav", "text": "second"},
  {"id": "custom", "audio_file": "ref3.wav", "text": "third", "model_id": "cvssp/sesame-ft"}
]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	jobs, err := job.LoadFile(path, job.Defaults{Quality: 5, ModelID: "sesame/csm-1b"})
	require.NoError(t, err)
	require.Len(t, jobs, 3)

	assert.Equal(t, "job-001", jobs[0].ID)
	assert.Equal(t, 8, jobs[0].Quality)
	assert.Equal(t, "hello", jobs[0].ContextText)
	assert.Equal(t, "sesame/csm-1b", jobs[0].ModelID)
	assert.Equal(t, job.StatusPending, jobs[0].Status)

	assert.Equal(t, "job-002", jobs[1].ID)
	assert.Equal(t, 5, jobs[1].Quality)

	assert.Equal(t, "custom", jobs[2].ID)
	assert.Equal(t, "cvssp/sesame-ft", jobs[2].ModelID)
}

func TestLoadFileMalformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "jobs.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not": "an array"}`), 0o644))

	_, err := job.LoadFile(path, job.Defaults{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSON array")
}

func TestLoadFileMissing(t *testing.T) {
	t.Parallel()

	_, err := job.LoadFile("/does/not/exist.json", job.Defaults{})
	require.Error(t, err)
}
