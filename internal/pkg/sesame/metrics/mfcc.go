package metrics

import "math"

// mfccFrames computes numCepstra cepstra per frame plus delta features,
// giving 2*numCepstra-dimensional frames.
func mfccFrames(samples []float32, rate int) [][]float64 {
	mel := logMelSpectrogram(samples, rate)
	if len(mel) == 0 {
		return nil
	}

	static := make([][]float64, len(mel))
	for i, bands := range mel {
		static[i] = dctII(bands, numCepstra)
	}
	deltas := deltaFeatures(static)

	frames := make([][]float64, len(static))
	for i := range static {
		frame := make([]float64, 0, 2*numCepstra)
		frame = append(frame, static[i]...)
		frame = append(frame, deltas[i]...)
		frames[i] = frame
	}
	return frames
}

// dctII projects a band vector onto its first k cosine basis functions.
func dctII(x []float64, k int) []float64 {
	n := len(x)
	out := make([]float64, k)
	for c := 0; c < k; c++ {
		var sum float64
		for i := 0; i < n; i++ {
			sum += x[i] * math.Cos(math.Pi*float64(c)*(float64(i)+0.5)/float64(n))
		}
		out[c] = sum
	}
	return out
}

// deltaFeatures is the first difference along time, padded at the edge.
func deltaFeatures(frames [][]float64) [][]float64 {
	out := make([][]float64, len(frames))
	for i := range frames {
		d := make([]float64, len(frames[i]))
		if i > 0 {
			for j := range d {
				d[j] = frames[i][j] - frames[i-1][j]
			}
		}
		out[i] = d
	}
	return out
}

// dtwPath aligns two feature sequences with dynamic time warping using
// cosine distance, and returns the index pairs of the optimal path.
func dtwPath(a, b [][]float64) [][2]int {
	n, m := len(a), len(b)
	const inf = math.MaxFloat64

	cost := make([][]float64, n+1)
	for i := range cost {
		cost[i] = make([]float64, m+1)
		for j := range cost[i] {
			cost[i][j] = inf
		}
	}
	cost[0][0] = 0

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			d := 1 - cosineSimilarity(a[i-1], b[j-1])
			best := cost[i-1][j-1]
			if cost[i-1][j] < best {
				best = cost[i-1][j]
			}
			if cost[i][j-1] < best {
				best = cost[i][j-1]
			}
			cost[i][j] = d + best
		}
	}

	// Backtrack from (n, m).
	path := make([][2]int, 0, n+m)
	i, j := n, m
	for i > 0 && j > 0 {
		path = append(path, [2]int{i - 1, j - 1})
		diag, up, left := cost[i-1][j-1], cost[i-1][j], cost[i][j-1]
		switch {
		case diag <= up && diag <= left:
			i--
			j--
		case up <= left:
			i--
		default:
			j--
		}
	}
	for i > 0 {
		path = append(path, [2]int{i - 1, 0})
		i--
	}
	for j > 0 {
		path = append(path, [2]int{0, j - 1})
		j--
	}

	// Reverse into time order.
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return path
}

// mfccSimilarity compares cepstral sequences after DTW alignment: the
// mean framewise cosine similarity along the warping path.
func mfccSimilarity(ref, gen []float32, rate int) float64 {
	refFrames := mfccFrames(ref, rate)
	genFrames := mfccFrames(gen, rate)
	if len(refFrames) == 0 || len(genFrames) == 0 {
		return 0
	}

	path := dtwPath(refFrames, genFrames)
	if len(path) == 0 {
		return 0
	}

	var sum float64
	for _, p := range path {
		sum += cosineSimilarity(refFrames[p[0]], genFrames[p[1]])
	}
	return clampUnit(sum / float64(len(path)))
}
