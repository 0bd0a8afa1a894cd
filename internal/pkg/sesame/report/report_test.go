package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/job"
	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/metrics"
	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/report"
)

func TestRenderIncludesEveryJob(t *testing.T) {
	t.Parallel()

	jobs := []job.Job{
		{
			ID:         "job-001",
			Status:     job.StatusSucceeded,
			OutputPath: "/out/job-001.wav",
			Metrics:    &metrics.Result{Overall: 0.912},
		},
		{
			ID:           "job-002",
			Status:       job.StatusFailed,
			ErrorMessage: "validation error: audio file not found: ref.wav",
		},
	}

	out := report.Render(jobs)

	assert.Contains(t, out, "job-001")
	assert.Contains(t, out, "/out/job-001.wav")
	assert.Contains(t, out, "0.912")
	assert.Contains(t, out, "job-002")
	assert.Contains(t, out, "not found")
	assert.Contains(t, out, "2 job(s) processed, 1 succeeded, 1 failed")
}

func TestRenderEmpty(t *testing.T) {
	t.Parallel()

	out := report.Render(nil)
	assert.Contains(t, out, "0 job(s) processed")
}
