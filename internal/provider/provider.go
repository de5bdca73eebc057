package provider

import "context"

// FaceProvider is the boundary to the pretrained identity-embedding model.
// Implementations must produce embeddings of domain.EmbeddingDim length;
// everything downstream (storage, scoring, uniqueness) assumes it.
type FaceProvider interface {
	// DetectFaces detects faces in the image and reports each detection.
	// Zero detections is a normal outcome, not an error.
	DetectFaces(ctx context.Context, image []byte) ([]DetectedFace, error)

	// ExtractEmbedding produces the identity embedding for the
	// highest-confidence face in the image.
	ExtractEmbedding(ctx context.Context, image []byte) ([]float64, error)
}

// DetectedFace represents a detected face in the image
type DetectedFace struct {
	BoundingBox BoundingBox `json:"bounding_box"`
	Confidence  float64     `json:"confidence"`
}

// BoundingBox represents the face area in the image
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
