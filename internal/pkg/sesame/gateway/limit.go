package gateway

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"

	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/audio"
)

// Limit wraps a gateway so at most width synthesize calls run at once.
// Inference is accelerator-memory bound, so width is typically 1 or the
// number of devices.
func Limit(gw Gateway, width int) Gateway {
	if width < 1 {
		width = 1
	}
	return &limited{
		inner: gw,
		sem:   semaphore.NewWeighted(int64(width)),
	}
}

type limited struct {
	inner Gateway
	sem   *semaphore.Weighted
}

func (l *limited) Synthesize(ctx context.Context, req Request) (*audio.Clip, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for inference slot: %w", err)
	}
	defer l.sem.Release(1)
	return l.inner.Synthesize(ctx, req)
}

func (l *limited) Info() Info {
	return l.inner.Info()
}

func (l *limited) Close() error {
	return l.inner.Close()
}
