// Package httpapi talks to a remote cloning service over HTTP. The
// reference clip travels as base64 WAV samples; the response body is a
// WAV stream.
package httpapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/audio"
	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/gateway"
	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/modelcat"
)

const (
	apiSynthesize = "/v1/clone"
	apiHealth     = "/health"

	headerContentType   = "Content-Type"
	headerAccept        = "Accept"
	headerAuthorization = "Authorization"
	contentTypeJSON     = "application/json"
	contentTypeWAV      = "audio/wav"

	defaultServiceURL = "http://localhost:8000"
	requestTimeout    = 5 * time.Minute
	healthTimeout     = 10 * time.Second
)

var ErrEmptyAudio = errors.New("received empty audio data")

func init() {
	gateway.Register("httpapi", NewGateway)
}

type cloneRequest struct {
	ReferenceWAV string `json:"reference_wav"`
	SampleRate   int    `json:"sample_rate"`
	ContextText  string `json:"context_text,omitempty"`
	Text         string `json:"text"`
	Quality      int    `json:"quality"`
	ModelID      string `json:"model_id"`
}

type errorResponse struct {
	Detail    string `json:"detail"`
	ErrorCode string `json:"error_code,omitempty"`
}

type Gateway struct {
	httpClient *http.Client
	baseURL    string
	token      string
	modelID    string
}

func NewGateway(cfg gateway.Config) (gateway.Gateway, error) {
	baseURL := cfg.ServiceURL
	if baseURL == "" {
		baseURL = defaultServiceURL
	}
	token := cfg.Token
	if token == "" {
		token = modelcat.ResolveToken()
	}
	modelID := cfg.ModelID
	if modelID == "" {
		modelID = modelcat.DefaultModelID
	}

	gw := &Gateway{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    baseURL,
		token:      token,
		modelID:    modelID,
	}

	if err := gw.checkHealth(); err != nil {
		return nil, err
	}
	return gw, nil
}

func (g *Gateway) checkHealth() error {
	ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+apiHealth, nil)
	if err != nil {
		return fmt.Errorf("failed to build health request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cloning service health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cloning service returned %s on health check", resp.Status)
	}
	return nil
}

func (g *Gateway) Synthesize(ctx context.Context, req gateway.Request) (*audio.Clip, error) {
	if req.Reference == nil || len(req.Reference.Samples) == 0 {
		return nil, fmt.Errorf("reference audio is required")
	}

	payload := cloneRequest{
		ReferenceWAV: encodeSamples(req.Reference.Samples),
		SampleRate:   req.Reference.SampleRate,
		ContextText:  req.ContextText,
		Text:         req.Text,
		Quality:      req.Quality,
		ModelID:      req.ModelID,
	}
	if payload.ModelID == "" {
		payload.ModelID = g.modelID
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal clone request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+apiSynthesize, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build clone request: %w", err)
	}
	httpReq.Header.Set(headerContentType, contentTypeJSON)
	httpReq.Header.Set(headerAccept, contentTypeWAV)
	if g.token != "" {
		httpReq.Header.Set(headerAuthorization, "Bearer "+g.token)
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("clone request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio response: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrEmptyAudio
	}

	clip, err := audio.DecodeWAV(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio response: %w", err)
	}
	return clip, nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)

	var svcErr errorResponse
	if err := json.Unmarshal(raw, &svcErr); err == nil && svcErr.Detail != "" {
		return fmt.Errorf("cloning service error (%s): %s (code: %s)",
			resp.Status, svcErr.Detail, svcErr.ErrorCode)
	}
	return fmt.Errorf("cloning service returned %s, body: %s", resp.Status, string(raw))
}

// encodeSamples packs float32 samples as PCM16 base64 for transport.
func encodeSamples(samples []float32) string {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(int16(s*math.MaxInt16)))
	}
	return base64.StdEncoding.EncodeToString(buf)
}

func (g *Gateway) Info() gateway.Info {
	return gateway.Info{
		Name:    "httpapi",
		ModelID: g.modelID,
	}
}

func (g *Gateway) Close() error {
	g.httpClient.CloseIdleConnections()
	return nil
}
