package embedder

import "math"

// CosineSimilarity computes dot(a,b) / (|a|*|b|). Returns 0.0 when either
// norm is zero; that is a defined fallback, not a true cosine value.
func CosineSimilarity(a, b []float32) float64 {
	n := min(len(a), len(b))

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
