// Package audio holds mono audio clips and WAV/MP3 file I/O.
package audio

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
)

const (
	DefaultSampleRate = 24000
	NumChannels       = 1
	BitsPerSample     = 16
)

// silenceRMS is the RMS floor below which a clip is treated as silent.
const silenceRMS = 1e-4

type Clip struct {
	Samples    []float32
	SampleRate int
}

func NewClip(samples []float32) *Clip {
	return &Clip{
		Samples:    samples,
		SampleRate: DefaultSampleRate,
	}
}

func NewClipWithSampleRate(samples []float32, sampleRate int) *Clip {
	return &Clip{
		Samples:    samples,
		SampleRate: sampleRate,
	}
}

func (c *Clip) Duration() float64 {
	if c.SampleRate == 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.SampleRate)
}

func (c *Clip) RMS() float64 {
	if len(c.Samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range c.Samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(c.Samples)))
}

func (c *Clip) Peak() float32 {
	var peak float32
	for _, s := range c.Samples {
		if a := float32(math.Abs(float64(s))); a > peak {
			peak = a
		}
	}
	return peak
}

// Silent reports whether the clip carries no usable signal.
func (c *Clip) Silent() bool {
	return len(c.Samples) == 0 || c.RMS() < silenceRMS
}

// Normalized returns a copy scaled so the peak amplitude is 1.0.
// Silent clips are returned unchanged.
func (c *Clip) Normalized() *Clip {
	peak := c.Peak()
	if peak == 0 {
		return &Clip{Samples: append([]float32(nil), c.Samples...), SampleRate: c.SampleRate}
	}
	out := make([]float32, len(c.Samples))
	for i, s := range c.Samples {
		out[i] = s / peak
	}
	return &Clip{Samples: out, SampleRate: c.SampleRate}
}

// Resampled returns the clip converted to the given rate via linear
// interpolation. Good enough for similarity analysis, not for playback.
func (c *Clip) Resampled(rate int) *Clip {
	if rate <= 0 || c.SampleRate == rate || len(c.Samples) == 0 {
		return &Clip{Samples: append([]float32(nil), c.Samples...), SampleRate: rate}
	}
	ratio := float64(c.SampleRate) / float64(rate)
	n := int(float64(len(c.Samples)) / ratio)
	if n < 1 {
		n = 1
	}
	out := make([]float32, n)
	for i := range out {
		pos := float64(i) * ratio
		j := int(pos)
		if j >= len(c.Samples)-1 {
			out[i] = c.Samples[len(c.Samples)-1]
			continue
		}
		frac := float32(pos - float64(j))
		out[i] = c.Samples[j]*(1-frac) + c.Samples[j+1]*frac
	}
	return &Clip{Samples: out, SampleRate: rate}
}

// SupportedFormat reports whether the file extension is a reference
// format the loader understands.
func SupportedFormat(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".mp3":
		return true
	default:
		return false
	}
}

// Load reads a reference audio file, dispatching on extension.
func Load(path string) (*Clip, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return LoadWAV(path)
	case ".mp3":
		return LoadMP3(path)
	default:
		return nil, fmt.Errorf("unsupported audio format: %s", filepath.Ext(path))
	}
}
