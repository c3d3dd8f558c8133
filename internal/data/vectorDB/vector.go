package vectorDB

import (
	"context"

	"github.com/docpipe/ingestapi/internal/domain/docModel"
)

// ChunkStore persists chunks with their embedding vectors. Reprocessing a
// document is delete-then-insert: DeleteByDocument first, then one
// UpsertChunk per chunk in index order.
type ChunkStore interface {
	EnsureCollection(ctx context.Context) error
	UpsertChunk(ctx context.Context, chunk docModel.Chunk, vector []float32) error
	DeleteByDocument(ctx context.Context, documentId string) error
}
