package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/audio"
	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/gateway"
)

func wavBytes(t *testing.T, samples []float32, rate int) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resp.wav")
	require.NoError(t, audio.NewClipWithSampleRate(samples, rate).SaveWAV(path))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	return raw
}

func newService(t *testing.T, clone http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/v1/clone", clone)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSynthesizeRoundTrip(t *testing.T) {
	resp := wavBytes(t, make([]float32, 2400), 24000)

	var seen struct {
		Text    string `json:"text"`
		Quality int    `json:"quality"`
		ModelID string `json:"model_id"`
	}
	srv := newService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&seen))
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "audio/wav")
		_, _ = w.Write(resp)
	})

	gw, err := gateway.Open("httpapi", gateway.Config{
		ServiceURL: srv.URL,
		Token:      "tok-123",
		ModelID:    "sesame/csm-1b",
	})
	require.NoError(t, err)
	defer gw.Close()

	ref := audio.NewClipWithSampleRate([]float32{0.1, -0.1, 0.2}, 16000)
	clip, err := gw.Synthesize(context.Background(), gateway.Request{
		Reference: ref,
		Text:      "hello there",
		Quality:   7,
		ModelID:   "sesame/csm-1b",
	})
	require.NoError(t, err)

	assert.Equal(t, 24000, clip.SampleRate)
	assert.Len(t, clip.Samples, 2400)
	assert.Equal(t, "hello there", seen.Text)
	assert.Equal(t, 7, seen.Quality)
	assert.Equal(t, "sesame/csm-1b", seen.ModelID)
}

func TestSynthesizeServiceError(t *testing.T) {
	srv := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"detail":     "text too long",
			"error_code": "E_TEXT",
		})
	})

	gw, err := gateway.Open("httpapi", gateway.Config{ServiceURL: srv.URL})
	require.NoError(t, err)
	defer gw.Close()

	_, err = gw.Synthesize(context.Background(), gateway.Request{
		Reference: audio.NewClip([]float32{0.1}),
		Text:      "x",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "text too long")
	assert.Contains(t, err.Error(), "E_TEXT")
}

func TestSynthesizeRequiresReference(t *testing.T) {
	srv := newService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("clone endpoint must not be hit without a reference")
	})

	gw, err := gateway.Open("httpapi", gateway.Config{ServiceURL: srv.URL})
	require.NoError(t, err)
	defer gw.Close()

	_, err = gw.Synthesize(context.Background(), gateway.Request{Text: "x"})
	require.Error(t, err)
}

func TestOpenFailsWhenUnhealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := gateway.Open("httpapi", gateway.Config{ServiceURL: srv.URL})
	require.Error(t, err)
}
