package metrics

// spectralSimilarity compares log-mel energy distributions frame by
// frame. Sequences of different length are truncated to the shorter
// one before flattening; cosine similarity does the comparison.
func spectralSimilarity(ref, gen []float32, rate int) float64 {
	refMel := logMelSpectrogram(ref, rate)
	genMel := logMelSpectrogram(gen, rate)
	if len(refMel) == 0 || len(genMel) == 0 {
		return 0
	}

	n := len(refMel)
	if len(genMel) < n {
		n = len(genMel)
	}

	refFlat := make([]float64, 0, n*numMelBands)
	genFlat := make([]float64, 0, n*numMelBands)
	for i := 0; i < n; i++ {
		refFlat = append(refFlat, refMel[i]...)
		genFlat = append(genFlat, genMel[i]...)
	}

	return clampUnit(cosineSimilarity(refFlat, genFlat))
}
