package embedding

import "context"

// EmbeddingProvider maps text to a fixed-length vector.
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string) ([]float32, error)
	// Dimension is the vector length the provider produces, needed to
	// build placeholder vectors for filter-only index queries.
	Dimension() int
}
