// Package csm runs a local ONNX export of the CSM cloning model: one
// session conditions on the reference audio, a second synthesizes the
// target text in the cloned voice.
package csm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/audio"
	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/gateway"
	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/modelcat"
)

const outputSampleRate = 24000

func init() {
	gateway.Register("csm", NewGateway)
}

type Gateway struct {
	encoder *ort.DynamicAdvancedSession
	synth   *ort.DynamicAdvancedSession
	modelID string
}

func NewGateway(cfg gateway.Config) (gateway.Gateway, error) {
	modelID := cfg.ModelID
	if modelID == "" {
		modelID = modelcat.DefaultModelID
	}

	modelDir := modelcat.CachePath(cfg.CacheDir, modelID)
	encoderPath := filepath.Join(modelDir, "encoder.onnx")
	synthPath := filepath.Join(modelDir, "model.onnx")
	for _, p := range []string{encoderPath, synthPath} {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("model %s is not cached under %s: %w", modelID, modelDir, err)
		}
	}

	ort.SetSharedLibraryPath(onnxRuntimeLibPath())
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX runtime: %w", err)
	}

	encoder, err := ort.NewDynamicAdvancedSession(
		encoderPath,
		[]string{"audio"},
		[]string{"embedding"},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create encoder session: %w", err)
	}

	synth, err := ort.NewDynamicAdvancedSession(
		synthPath,
		[]string{"text_ids", "context_ids", "style", "quality"},
		[]string{"waveform"},
		nil,
	)
	if err != nil {
		_ = encoder.Destroy()
		return nil, fmt.Errorf("failed to create synthesis session: %w", err)
	}

	return &Gateway{
		encoder: encoder,
		synth:   synth,
		modelID: modelID,
	}, nil
}

func (g *Gateway) Synthesize(ctx context.Context, req gateway.Request) (*audio.Clip, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Reference == nil || len(req.Reference.Samples) == 0 {
		return nil, fmt.Errorf("reference audio is required")
	}

	style, err := g.encodeReference(req.Reference)
	if err != nil {
		return nil, err
	}

	textIDs := encodeText(req.Text)
	if len(textIDs) == 0 {
		return nil, fmt.Errorf("failed to encode text")
	}
	contextIDs := encodeText(req.ContextText)
	if len(contextIDs) == 0 {
		// The synthesis graph requires a non-empty context sequence.
		contextIDs = []int64{0}
	}

	textTensor, err := ort.NewTensor(ort.NewShape(1, int64(len(textIDs))), textIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to create text_ids tensor: %w", err)
	}
	defer textTensor.Destroy()

	contextTensor, err := ort.NewTensor(ort.NewShape(1, int64(len(contextIDs))), contextIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to create context_ids tensor: %w", err)
	}
	defer contextTensor.Destroy()

	styleTensor, err := ort.NewTensor(ort.NewShape(1, int64(len(style))), style)
	if err != nil {
		return nil, fmt.Errorf("failed to create style tensor: %w", err)
	}
	defer styleTensor.Destroy()

	// Quality is forwarded verbatim; its semantics live in the graph.
	qualityTensor, err := ort.NewTensor(ort.NewShape(1), []int64{int64(req.Quality)})
	if err != nil {
		return nil, fmt.Errorf("failed to create quality tensor: %w", err)
	}
	defer qualityTensor.Destroy()

	inputs := []ort.Value{textTensor, contextTensor, styleTensor, qualityTensor}
	outputs := make([]ort.Value, 1)

	if err := g.synth.Run(inputs, outputs); err != nil {
		return nil, fmt.Errorf("failed to run inference: %w", err)
	}
	if outputs[0] == nil {
		return nil, fmt.Errorf("no output from model")
	}
	defer outputs[0].Destroy()

	waveform, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected output tensor type")
	}

	samples := append([]float32(nil), waveform.GetData()...)
	return audio.NewClipWithSampleRate(samples, outputSampleRate), nil
}

func (g *Gateway) encodeReference(ref *audio.Clip) ([]float32, error) {
	mono := ref.Resampled(outputSampleRate)

	audioTensor, err := ort.NewTensor(ort.NewShape(1, int64(len(mono.Samples))), mono.Samples)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio tensor: %w", err)
	}
	defer audioTensor.Destroy()

	outputs := make([]ort.Value, 1)
	if err := g.encoder.Run([]ort.Value{audioTensor}, outputs); err != nil {
		return nil, fmt.Errorf("failed to encode reference audio: %w", err)
	}
	if outputs[0] == nil {
		return nil, fmt.Errorf("no output from reference encoder")
	}
	defer outputs[0].Destroy()

	embedding, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected embedding tensor type")
	}
	return append([]float32(nil), embedding.GetData()...), nil
}

// encodeText maps text to the model's codepoint vocabulary.
func encodeText(text string) []int64 {
	runes := []rune(text)
	ids := make([]int64, 0, len(runes))
	for _, r := range runes {
		ids = append(ids, int64(r))
	}
	return ids
}

func (g *Gateway) Info() gateway.Info {
	return gateway.Info{
		Name:       "csm",
		ModelID:    g.modelID,
		SampleRate: outputSampleRate,
	}
}

func (g *Gateway) Close() error {
	if g.encoder != nil {
		if err := g.encoder.Destroy(); err != nil {
			return err
		}
	}
	if g.synth != nil {
		if err := g.synth.Destroy(); err != nil {
			return err
		}
	}
	if err := ort.DestroyEnvironment(); err != nil {
		return err
	}
	return nil
}
