// Package metrics scores how closely a generated clip matches its
// reference voice. Three sub-scores (pitch contour, spectral envelope,
// MFCC timbre) combine into a weighted overall similarity in [0,1].
package metrics

import (
	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/audio"
)

// Sub-score weights for the overall similarity. These are fixed
// constants, not tunables.
const (
	WeightPitch    = 0.30
	WeightSpectral = 0.40
	WeightMFCC     = 0.30
)

type Result struct {
	Overall  float64 `json:"overall_similarity"`
	Pitch    float64 `json:"pitch_similarity"`
	Spectral float64 `json:"spectral_similarity"`
	MFCC     float64 `json:"mfcc_similarity"`
}

// Score compares a generated clip against its reference. Degenerate
// inputs (nil, empty or silent clips) score zero everywhere instead of
// failing, so batch scoring stays non-fatal.
func Score(ref, gen *audio.Clip) Result {
	if ref == nil || gen == nil || ref.Silent() || gen.Silent() {
		return Result{}
	}

	refNorm := ref.Normalized().Resampled(analysisRate)
	genNorm := gen.Normalized().Resampled(analysisRate)

	pitch := pitchSimilarity(refNorm.Samples, genNorm.Samples, analysisRate)
	spectral := spectralSimilarity(refNorm.Samples, genNorm.Samples, analysisRate)
	mfcc := mfccSimilarity(refNorm.Samples, genNorm.Samples, analysisRate)

	return Result{
		Overall:  WeightPitch*pitch + WeightSpectral*spectral + WeightMFCC*mfcc,
		Pitch:    pitch,
		Spectral: spectral,
		MFCC:     mfcc,
	}
}
