package index

import "math"

// NormalizeVector scales v to unit length so that dot products against
// other normalized vectors equal their cosine similarity. The input is
// left untouched; zero-length and all-zero inputs come back as zeros
// since they carry no direction.
func NormalizeVector(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}

	var sum float64
	for _, val := range v {
		sum += float64(val) * float64(val)
	}

	result := make([]float32, len(v))
	norm := math.Sqrt(sum)
	if norm == 0 {
		return result
	}

	inv := float32(1 / norm)
	for i, val := range v {
		result[i] = val * inv
	}
	return result
}
