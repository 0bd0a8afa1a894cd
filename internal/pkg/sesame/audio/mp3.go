package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/hajimehoshi/go-mp3"
)

// LoadMP3 decodes an MP3 file and downmixes to mono. go-mp3 always
// emits 16-bit stereo frames regardless of the source channel count.
func LoadMP3(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode mp3: %w", err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("failed to read mp3 frames: %w", err)
	}

	const frameSize = 4 // 2 channels x int16
	numFrames := len(raw) / frameSize
	samples := make([]float32, numFrames)
	for i := 0; i < numFrames; i++ {
		left := int16(binary.LittleEndian.Uint16(raw[i*frameSize : i*frameSize+2]))
		right := int16(binary.LittleEndian.Uint16(raw[i*frameSize+2 : i*frameSize+4]))
		samples[i] = (float32(left) + float32(right)) / (2 * math.MaxInt16)
	}

	return &Clip{Samples: samples, SampleRate: dec.SampleRate()}, nil
}
