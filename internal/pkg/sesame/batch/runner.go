// Package batch executes cloning jobs against a model gateway,
// isolating per-job failures and always producing one result per job.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/audio"
	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/gateway"
	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/job"
	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/metrics"
	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/textnorm"
)

var (
	// ErrModel classifies inference failures, including per-job timeouts.
	ErrModel = errors.New("model error")
	// ErrIO classifies file read/write failures around a job.
	ErrIO = errors.New("io error")
)

type Config struct {
	// Gateway performs inference. Wrap with gateway.Limit before
	// passing when calls must be serialized.
	Gateway gateway.Gateway

	// OutputDir receives one <job-id>.wav per succeeded job.
	OutputDir string

	// ComputeMetrics scores each succeeded job against its reference.
	ComputeMetrics bool

	// JobTimeout bounds a single synthesis call. Zero means no limit.
	JobTimeout time.Duration

	Logger zerolog.Logger
}

type Runner struct {
	cfg Config
}

func NewRunner(cfg Config) (*Runner, error) {
	if cfg.Gateway == nil {
		return nil, errors.New("batch: gateway is required")
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("batch: output directory is required")
	}
	return &Runner{cfg: cfg}, nil
}

// OutputPath derives the deterministic output file for a job id, so
// rerunning a batch overwrites rather than duplicates.
func (r *Runner) OutputPath(jobID string) string {
	return filepath.Join(r.cfg.OutputDir, jobID+".wav")
}

// Run processes jobs in order, mutating them in place and returning
// the same slice. Every input job ends terminal; no failure aborts the
// batch. Metrics scoring for a finished job overlaps with the next
// job's inference.
func (r *Runner) Run(ctx context.Context, jobs []job.Job) []job.Job {
	log := r.cfg.Logger
	log.Info().Int("jobs", len(jobs)).Msg("Starting batch")

	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		wrapped := fmt.Errorf("%w: failed to create output directory: %v", ErrIO, err)
		for i := range jobs {
			_ = jobs[i].Fail(wrapped)
		}
		return jobs
	}

	var scorers errgroup.Group
	for i := range jobs {
		j := &jobs[i]
		log.Info().Str("job", j.ID).Int("n", i+1).Int("total", len(jobs)).Msg("Processing job")

		if err := j.Validate(); err != nil {
			_ = j.Fail(err)
			log.Warn().Str("job", j.ID).Err(err).Msg("Job rejected")
			continue
		}
		if err := j.Start(); err != nil {
			_ = j.Fail(err)
			continue
		}

		ref, gen, err := r.runJob(ctx, j)
		if err != nil {
			_ = j.Fail(err)
			log.Warn().Str("job", j.ID).Err(err).Msg("Job failed")
			continue
		}

		outputPath := r.OutputPath(j.ID)
		if err := gen.SaveWAV(outputPath); err != nil {
			_ = j.Fail(fmt.Errorf("%w: failed to write output: %v", ErrIO, err))
			continue
		}
		_ = j.Succeed(outputPath)
		log.Info().Str("job", j.ID).Str("output", outputPath).Msg("Job succeeded")

		if r.cfg.ComputeMetrics {
			// Scoring is CPU bound and may overlap the next job's
			// inference. Each goroutine writes a distinct job.
			target := j
			scorers.Go(func() error {
				result := metrics.Score(ref, gen)
				target.Metrics = &result
				return nil
			})
		}
	}
	_ = scorers.Wait()

	succeeded := 0
	for i := range jobs {
		if jobs[i].Status == job.StatusSucceeded {
			succeeded++
		}
	}
	log.Info().Int("succeeded", succeeded).Int("failed", len(jobs)-succeeded).Msg("Batch completed")
	return jobs
}

// runJob loads the reference and synthesizes the target text,
// returning both clips for scoring.
func (r *Runner) runJob(ctx context.Context, j *job.Job) (ref, gen *audio.Clip, err error) {
	ref, err = audio.Load(j.AudioFile)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to load reference: %v", ErrIO, err)
	}

	jobCtx := ctx
	if r.cfg.JobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, r.cfg.JobTimeout)
		defer cancel()
	}

	gen, err = r.cfg.Gateway.Synthesize(jobCtx, gateway.Request{
		Reference:   ref,
		ContextText: textnorm.Clean(j.ContextText),
		Text:        textnorm.Clean(j.Text),
		Quality:     j.Quality,
		ModelID:     j.ModelID,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, nil, fmt.Errorf("%w: job timed out after %s", ErrModel, r.cfg.JobTimeout)
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrModel, err)
	}
	if gen == nil || len(gen.Samples) == 0 {
		return nil, nil, fmt.Errorf("%w: gateway returned empty audio", ErrModel)
	}
	return ref, gen, nil
}
