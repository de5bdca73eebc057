package face

import (
	"math"
)

// DefaultThreshold is the decision boundary applied to cosine similarity
// when no per-deployment override is configured. It gates both enrollment
// uniqueness and login matching.
const DefaultThreshold = 0.6

// Scorer computes bounded similarity between embeddings and applies the
// configured decision threshold.
type Scorer struct {
	threshold float64
}

func NewScorer(threshold float64) *Scorer {
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	return &Scorer{threshold: threshold}
}

func (s *Scorer) Threshold() float64 {
	return s.threshold
}

// Similarity returns the cosine similarity between two embeddings, in
// [-1, 1]. Degenerate input (nil, empty, or mismatched length) yields 0.0;
// it is never an error.
func (s *Scorer) Similarity(a, b []float64) float64 {
	return CosineSimilarity(a, b)
}

// IsMatch reports whether two embeddings belong to the same person at the
// configured threshold, along with the raw similarity.
func (s *Scorer) IsMatch(a, b []float64) (bool, float64) {
	sim := CosineSimilarity(a, b)
	return sim >= s.threshold, sim
}

// CosineSimilarity calculates the cosine similarity between two embedding
// vectors. Returns a value between -1.0 (opposite) and 1.0 (identical).
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
