package face

import (
	"context"
	"fmt"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
	"github.com/saturnino-fabrica-de-software/facegate/internal/provider"
)

// Extractor turns raw image bytes into a face signature. It is a pure
// function of its input given a loaded provider: no side effects, no state.
type Extractor struct {
	provider provider.FaceProvider
}

func NewExtractor(p provider.FaceProvider) *Extractor {
	return &Extractor{provider: p}
}

// Extract detects faces and produces the embedding for the best one.
// "No face in the image" is a first-class outcome reported as
// domain.ErrNoFaceDetected; only provider failures surface as other errors.
func (e *Extractor) Extract(ctx context.Context, image []byte) ([]float64, error) {
	detected, err := e.provider.DetectFaces(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("detect faces: %w", err)
	}

	if len(detected) == 0 {
		return nil, domain.ErrNoFaceDetected
	}

	embedding, err := e.provider.ExtractEmbedding(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("extract embedding: %w", err)
	}

	if len(embedding) != domain.EmbeddingDim {
		return nil, domain.ErrInternal.WithError(
			fmt.Errorf("provider returned %d-dim embedding, want %d", len(embedding), domain.EmbeddingDim))
	}

	return embedding, nil
}
