package metrics

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// Analysis parameters. All comparisons run at a fixed rate so clips
// recorded at different rates stay comparable.
const (
	analysisRate = 16000
	frameSize    = 1024
	hopSize      = 256
	numMelBands  = 40
	numCepstra   = 13
)

const logFloor = 1e-10

func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

// powerSpectrogram returns per-frame power spectra (frameSize/2+1 bins).
func powerSpectrogram(samples []float32) [][]float64 {
	if len(samples) < frameSize {
		return nil
	}

	fft := fourier.NewFFT(frameSize)
	window := hannWindow(frameSize)
	numFrames := 1 + (len(samples)-frameSize)/hopSize
	frames := make([][]float64, 0, numFrames)

	buf := make([]float64, frameSize)
	for f := 0; f < numFrames; f++ {
		off := f * hopSize
		for i := 0; i < frameSize; i++ {
			buf[i] = float64(samples[off+i]) * window[i]
		}
		coeffs := fft.Coefficients(nil, buf)
		power := make([]float64, len(coeffs))
		for i, c := range coeffs {
			re, im := real(c), imag(c)
			power[i] = re*re + im*im
		}
		frames = append(frames, power)
	}
	return frames
}

func hzToMel(hz float64) float64 {
	return 2595 * math.Log10(1+hz/700)
}

func melToHz(mel float64) float64 {
	return 700 * (math.Pow(10, mel/2595) - 1)
}

// melFilterbank builds numMelBands triangular filters over the
// [0, rate/2] range, each row spanning frameSize/2+1 FFT bins.
func melFilterbank(rate int) [][]float64 {
	numBins := frameSize/2 + 1
	maxMel := hzToMel(float64(rate) / 2)

	// Band edge frequencies, numMelBands+2 points.
	edges := make([]float64, numMelBands+2)
	for i := range edges {
		mel := maxMel * float64(i) / float64(numMelBands+1)
		edges[i] = melToHz(mel)
	}

	binHz := float64(rate) / float64(frameSize)
	filters := make([][]float64, numMelBands)
	for m := 0; m < numMelBands; m++ {
		lo, center, hi := edges[m], edges[m+1], edges[m+2]
		row := make([]float64, numBins)
		for b := 0; b < numBins; b++ {
			f := float64(b) * binHz
			switch {
			case f <= lo || f >= hi:
				// outside the triangle
			case f <= center:
				row[b] = (f - lo) / (center - lo)
			default:
				row[b] = (hi - f) / (hi - center)
			}
		}
		filters[m] = row
	}
	return filters
}

// logMelSpectrogram projects power spectra onto the mel filterbank and
// takes the log, yielding one numMelBands vector per frame.
func logMelSpectrogram(samples []float32, rate int) [][]float64 {
	power := powerSpectrogram(samples)
	if len(power) == 0 {
		return nil
	}
	filters := melFilterbank(rate)

	frames := make([][]float64, len(power))
	for i, spec := range power {
		mel := make([]float64, numMelBands)
		for m, row := range filters {
			mel[m] = math.Log10(math.Max(floats.Dot(row, spec), logFloor))
		}
		frames[i] = mel
	}
	return frames
}

// cosineSimilarity returns the cosine of the angle between two vectors,
// or 0 when either has no energy.
func cosineSimilarity(a, b []float64) float64 {
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return floats.Dot(a, b) / (na * nb)
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// resampleContour linearly interpolates a sequence to length n.
func resampleContour(seq []float64, n int) []float64 {
	if n <= 0 || len(seq) == 0 {
		return nil
	}
	if len(seq) == 1 || n == 1 {
		out := make([]float64, n)
		for i := range out {
			out[i] = seq[0]
		}
		return out
	}
	out := make([]float64, n)
	for i := range out {
		pos := float64(i) / float64(n-1) * float64(len(seq)-1)
		j := int(pos)
		if j >= len(seq)-1 {
			out[i] = seq[len(seq)-1]
			continue
		}
		frac := pos - float64(j)
		out[i] = seq[j]*(1-frac) + seq[j+1]*frac
	}
	return out
}
