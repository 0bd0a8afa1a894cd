// Package job defines cloning jobs, their status machine, and batch
// file ingestion.
package job

import (
	"errors"
	"fmt"
	"os"

	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/audio"
	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/metrics"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

const (
	MinQuality = 1
	MaxQuality = 10

	DefaultQuality = 5
)

// ErrValidation classifies job-field failures caught before any model
// call. Wrapped errors carry the field detail.
var ErrValidation = errors.New("validation error")

var errInvalidTransition = errors.New("invalid status transition")

// Job is one cloning request. Status only moves forward:
// pending -> running -> succeeded|failed.
type Job struct {
	ID           string          `json:"id"`
	AudioFile    string          `json:"audio_file"`
	ContextText  string          `json:"context_text,omitempty"`
	Text         string          `json:"text"`
	Quality      int             `json:"quality"`
	ModelID      string          `json:"model_id"`
	Status       Status          `json:"status"`
	OutputPath   string          `json:"output_path,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
	Metrics      *metrics.Result `json:"metrics,omitempty"`
}

func validTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusRunning || to == StatusFailed
	case StatusRunning:
		return to == StatusSucceeded || to == StatusFailed
	default:
		return false
	}
}

func (j *Job) transition(to Status) error {
	if !validTransition(j.Status, to) {
		return fmt.Errorf("%w: %s -> %s", errInvalidTransition, j.Status, to)
	}
	j.Status = to
	return nil
}

// Start marks the job running.
func (j *Job) Start() error {
	return j.transition(StatusRunning)
}

// Succeed records the output path and terminates the job.
func (j *Job) Succeed(outputPath string) error {
	if err := j.transition(StatusSucceeded); err != nil {
		return err
	}
	j.OutputPath = outputPath
	j.ErrorMessage = ""
	return nil
}

// Fail records the error and terminates the job. Failing is allowed
// straight from pending (validation rejects) or from running.
func (j *Job) Fail(cause error) error {
	if err := j.transition(StatusFailed); err != nil {
		return err
	}
	if cause != nil {
		j.ErrorMessage = cause.Error()
	}
	return nil
}

// Terminal reports whether the job has finished either way.
func (j *Job) Terminal() bool {
	return j.Status == StatusSucceeded || j.Status == StatusFailed
}

// Validate checks the fields a job needs before any model call. The
// returned error wraps ErrValidation.
func (j *Job) Validate() error {
	if j.Text == "" {
		return fmt.Errorf("%w: text must not be empty", ErrValidation)
	}
	if j.Quality < MinQuality || j.Quality > MaxQuality {
		return fmt.Errorf("%w: quality %d outside [%d,%d]", ErrValidation, j.Quality, MinQuality, MaxQuality)
	}
	if j.AudioFile == "" {
		return fmt.Errorf("%w: audio_file must not be empty", ErrValidation)
	}
	if _, err := os.Stat(j.AudioFile); err != nil {
		return fmt.Errorf("%w: audio file not found: %s", ErrValidation, j.AudioFile)
	}
	if !audio.SupportedFormat(j.AudioFile) {
		return fmt.Errorf("%w: unsupported audio format: %s", ErrValidation, j.AudioFile)
	}
	return nil
}
