package metrics

import "math"

// F0 search range, roughly C2..C7.
const (
	pitchMinHz = 65.0
	pitchMaxHz = 2093.0
)

// Frames whose normalized autocorrelation peak falls below this are
// treated as unvoiced and excluded from the contour.
const voicedClarityThreshold = 0.6

// Energy gate for unvoiced detection.
const voicedEnergyThreshold = 1e-4

// pitchContour extracts a framewise F0 contour via autocorrelation,
// keeping voiced frames only.
func pitchContour(samples []float32, rate int) []float64 {
	if len(samples) < frameSize {
		return nil
	}

	minLag := int(float64(rate) / pitchMaxHz)
	maxLag := int(float64(rate) / pitchMinHz)
	if maxLag >= frameSize {
		maxLag = frameSize - 1
	}
	if minLag < 2 {
		minLag = 2
	}

	numFrames := 1 + (len(samples)-frameSize)/hopSize
	contour := make([]float64, 0, numFrames)

	frame := make([]float64, frameSize)
	for f := 0; f < numFrames; f++ {
		off := f * hopSize

		var energy float64
		var mean float64
		for i := 0; i < frameSize; i++ {
			frame[i] = float64(samples[off+i])
			mean += frame[i]
		}
		mean /= frameSize
		for i := range frame {
			frame[i] -= mean
			energy += frame[i] * frame[i]
		}
		if energy/frameSize < voicedEnergyThreshold {
			continue
		}

		bestLag, bestVal := 0, 0.0
		for lag := minLag; lag <= maxLag; lag++ {
			var r float64
			for i := 0; i < frameSize-lag; i++ {
				r += frame[i] * frame[i+lag]
			}
			if r > bestVal {
				bestVal = r
				bestLag = lag
			}
		}
		if bestLag == 0 {
			continue
		}

		clarity := bestVal / energy
		if clarity < voicedClarityThreshold {
			continue
		}
		contour = append(contour, float64(rate)/float64(bestLag))
	}
	return contour
}

// pitchSimilarity compares voiced F0 contours after interpolating both
// to a common length; 1 means identical contours.
func pitchSimilarity(ref, gen []float32, rate int) float64 {
	refF0 := pitchContour(ref, rate)
	genF0 := pitchContour(gen, rate)
	if len(refF0) == 0 || len(genF0) == 0 {
		return 0
	}

	n := len(refF0)
	if len(genF0) < n {
		n = len(genF0)
	}
	refI := resampleContour(refF0, n)
	genI := resampleContour(genF0, n)

	var diffSum, refSum float64
	for i := 0; i < n; i++ {
		diffSum += math.Abs(refI[i] - genI[i])
		refSum += refI[i]
	}
	if refSum == 0 {
		return 0
	}

	dist := (diffSum / float64(n)) / (refSum / float64(n))
	return clampUnit(1 - dist)
}
