package gateway_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/audio"
	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/gateway"
)

type countingGateway struct {
	active  atomic.Int32
	maxSeen atomic.Int32
}

func (g *countingGateway) Synthesize(ctx context.Context, req gateway.Request) (*audio.Clip, error) {
	cur := g.active.Add(1)
	defer g.active.Add(-1)
	for {
		seen := g.maxSeen.Load()
		if cur <= seen || g.maxSeen.CompareAndSwap(seen, cur) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	return audio.NewClip(make([]float32, 256)), nil
}

func (g *countingGateway) Info() gateway.Info { return gateway.Info{Name: "counting"} }
func (g *countingGateway) Close() error       { return nil }

func TestLimitSerializesSynthesize(t *testing.T) {
	t.Parallel()

	inner := &countingGateway{}
	gw := gateway.Limit(inner, 1)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := gw.Synthesize(context.Background(), gateway.Request{Text: "hi"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), inner.maxSeen.Load())
}

func TestLimitRespectsContext(t *testing.T) {
	t.Parallel()

	gw := gateway.Limit(&countingGateway{}, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A cancelled context must not hang waiting on the slot forever;
	// the wrapped call may still win the race and succeed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = gw.Synthesize(ctx, gateway.Request{Text: "hi"})
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Synthesize did not return after cancellation")
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	t.Parallel()

	_, err := gateway.Open("no-such-backend", gateway.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown backend")
}

func TestRegisterAndOpen(t *testing.T) {
	gateway.Register("fake", func(cfg gateway.Config) (gateway.Gateway, error) {
		return &countingGateway{}, nil
	})

	assert.True(t, gateway.IsRegistered("fake"))
	assert.Contains(t, gateway.Backends(), "fake")

	gw, err := gateway.Open("fake", gateway.Config{ModelID: "m"})
	require.NoError(t, err)
	require.NoError(t, gw.Close())
}
