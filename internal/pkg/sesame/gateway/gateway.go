// Package gateway defines the opaque speech-synthesis backend contract
// and the registry backends attach themselves to.
package gateway

import (
	"context"

	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/audio"
)

// Request carries one cloning invocation. Quality is an opaque 1-10
// knob whose semantics belong to the backend.
type Request struct {
	Reference   *audio.Clip
	ContextText string
	Text        string
	Quality     int
	ModelID     string
}

type Gateway interface {
	Synthesize(ctx context.Context, req Request) (*audio.Clip, error)
	Info() Info
	Close() error
}

type Info struct {
	Name       string
	ModelID    string
	SampleRate int
}

// Config is passed to backend factories at open time.
type Config struct {
	ModelID  string
	CacheDir string
	Backend  string

	// ServiceURL and Token apply to remote backends only.
	ServiceURL string
	Token      string
}
