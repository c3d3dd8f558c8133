package docModel

import "context"

// DocumentStore is the external document record collaborator. The pipeline
// only ever reads one record by id and writes status/metadata back, it never
// deletes documents.
type DocumentStore interface {
	GetDocument(ctx context.Context, id string) (Document, bool)
	SaveDocument(ctx context.Context, doc Document) error
	UpdateStatus(ctx context.Context, id string, status DocStatus, message string) error
}
