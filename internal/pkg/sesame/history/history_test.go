package history_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/history"
	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/metrics"
)

func TestLoadEmptyWhenMissing(t *testing.T) {
	t.Parallel()

	log := history.NewLog(t.TempDir())
	entries, err := log.Load()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAppendAndLoad(t *testing.T) {
	t.Parallel()

	log := history.NewLog(t.TempDir())
	first := history.Entry{
		JobID:      "job-001",
		Text:       "hello",
		ModelID:    "sesame/csm-1b",
		Quality:    5,
		OutputPath: "/out/job-001.wav",
		Metrics:    &metrics.Result{Overall: 0.9, Pitch: 0.8, Spectral: 0.95, MFCC: 0.9},
		CreatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, log.Append(first))
	require.NoError(t, log.Append(history.Entry{JobID: "job-002"}))

	entries, err := log.Load()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first, entries[0])
	assert.Equal(t, "job-002", entries[1].JobID)
}
