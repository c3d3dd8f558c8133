package embedding

import "context"

// Embedder is one external embedding provider. Implementations return a
// fixed-dimension vector for the given text.
type Embedder interface {
	GetEmbedding(ctx context.Context, text string) ([]float32, error)
}
