package detection

import "math"

// cosineSimilarity returns the cosine of the angle between two vectors.
// Mismatched dimensions or a zero vector yield 0, never an error: such
// pairs simply cannot match.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
