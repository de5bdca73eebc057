package mock

import (
	"context"
	"crypto/sha256"
	"math"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
	"github.com/saturnino-fabrica-de-software/facegate/internal/provider"
)

// Provider implements provider.FaceProvider for tests and development.
// Embeddings are deterministic functions of the image bytes, so the same
// "photo" always produces the same identity.
type Provider struct{}

// New creates a mock provider instance
func New() *Provider {
	return &Provider{}
}

var _ provider.FaceProvider = (*Provider)(nil)

// DetectFaces simulates detection: images under 1KB count as face-free,
// which gives tests a cheap way to exercise the no-face path.
func (p *Provider) DetectFaces(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	if len(image) < 1000 {
		return []provider.DetectedFace{}, nil
	}

	return []provider.DetectedFace{
		{
			BoundingBox: provider.BoundingBox{
				X:      0.1,
				Y:      0.1,
				Width:  0.8,
				Height: 0.8,
			},
			Confidence: 0.99,
		},
	}, nil
}

// ExtractEmbedding generates a deterministic unit vector from the image hash
func (p *Provider) ExtractEmbedding(ctx context.Context, image []byte) ([]float64, error) {
	if len(image) < 1000 {
		return nil, domain.ErrNoFaceDetected
	}

	return generateEmbedding(image), nil
}

// generateEmbedding derives a normalized embedding from the sha256 of the image
func generateEmbedding(image []byte) []float64 {
	hash := sha256.Sum256(image)
	embedding := make([]float64, domain.EmbeddingDim)
	hashLen := len(hash)

	for i := 0; i < domain.EmbeddingDim; i++ {
		idx := i % hashLen
		embedding[i] = (float64(hash[idx])/255.0)*2 - 1
	}

	norm := 0.0
	for _, v := range embedding {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	for i := range embedding {
		embedding[i] /= norm
	}

	return embedding
}
