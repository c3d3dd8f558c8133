package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/docpipe/ingestapi/internal/chunker"
	"github.com/docpipe/ingestapi/internal/data/store"
	"github.com/docpipe/ingestapi/internal/domain/docModel"
)

type mockChunkStore struct {
	ops       []string
	upserts   int
	deleteErr error
	upsertErr func(call int) error
}

func (m *mockChunkStore) EnsureCollection(_ context.Context) error {
	m.ops = append(m.ops, "ensure")
	return nil
}

func (m *mockChunkStore) UpsertChunk(_ context.Context, chunk docModel.Chunk, vector []float32) error {
	m.ops = append(m.ops, fmt.Sprintf("upsert:%d", chunk.Index))
	call := m.upserts
	m.upserts++
	if m.upsertErr != nil {
		return m.upsertErr(call)
	}
	return nil
}

func (m *mockChunkStore) DeleteByDocument(_ context.Context, _ string) error {
	m.ops = append(m.ops, "delete")
	return m.deleteErr
}

type mockFetcher struct {
	data []byte
	err  error
}

func (m *mockFetcher) Fetch(_ context.Context, _ string) ([]byte, error) {
	return m.data, m.err
}

type mockExtractor struct {
	result *docModel.ExtractionResult
	err    error
}

func (m *mockExtractor) ExtractDocument(_ context.Context, _ []byte, _ docModel.DocType) (*docModel.ExtractionResult, error) {
	return m.result, m.err
}

type mockEmbedder struct {
	calls int
	fail  func(call int) error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	call := m.calls
	m.calls++
	if m.fail != nil {
		if err := m.fail(call); err != nil {
			return nil, err
		}
	}
	return make([]float32, 4), nil
}

func seededDocStore(t *testing.T, doc docModel.Document) *store.InMemoryDocumentStore {
	t.Helper()
	docs := store.InitInMemoryDocumentStore()
	if err := docs.SaveDocument(context.Background(), doc); err != nil {
		t.Fatalf("seeding document store: %v", err)
	}
	return docs
}

func testProcessor(docs docModel.DocumentStore, chunks *mockChunkStore, extracted *docModel.ExtractionResult, embedder *mockEmbedder) *Processor {
	p := NewProcessor(docs, chunks, &mockFetcher{data: []byte("raw")}, &mockExtractor{result: extracted}, embedder)
	return p
}

func TestProcessHappyPath(t *testing.T) {
	doc := docModel.Document{Id: "doc-1", Name: "notes.txt", SourceURL: "file:///tmp/notes.txt", Type: docModel.TXT, Status: docModel.StatusPending}
	docs := seededDocStore(t, doc)
	chunks := &mockChunkStore{}
	embedder := &mockEmbedder{}

	text := strings.Repeat("All of this text is perfectly ordinary prose. ", 10)
	extracted := &docModel.ExtractionResult{Text: text, Method: "plain-text", Quality: 0.91, Pages: 1}

	p := testProcessor(docs, chunks, extracted, embedder)
	result, err := p.Process(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	if result.ChunksCreated == 0 || result.ChunksFailed != 0 {
		t.Errorf("chunk stats = created %d / failed %d, want >0 / 0", result.ChunksCreated, result.ChunksFailed)
	}
	if result.ExtractionMethod != "plain-text" || result.TextLength != len(text) {
		t.Errorf("stats did not carry extraction data: %+v", result)
	}

	saved, _ := docs.GetDocument(context.Background(), "doc-1")
	if saved.Status != docModel.StatusCompleted {
		t.Errorf("document status = %s, want %s", saved.Status, docModel.StatusCompleted)
	}
	if saved.ExtractionMethod != "plain-text" || saved.ExtractionQuality != 0.91 {
		t.Errorf("document missing extraction outcome: %+v", saved)
	}
}

func TestProcessPurgesBeforeInserting(t *testing.T) {
	doc := docModel.Document{Id: "doc-2", SourceURL: "https://example.com/a.txt", Type: docModel.TXT}
	docs := seededDocStore(t, doc)
	chunks := &mockChunkStore{}

	extracted := &docModel.ExtractionResult{Text: strings.Repeat("Replacement content for an already ingested file. ", 5), Method: "plain-text", Pages: 1}

	p := testProcessor(docs, chunks, extracted, &mockEmbedder{})
	if _, err := p.Process(context.Background(), "doc-2"); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	deleteAt, firstUpsertAt := -1, -1
	for i, op := range chunks.ops {
		if op == "delete" && deleteAt == -1 {
			deleteAt = i
		}
		if strings.HasPrefix(op, "upsert") && firstUpsertAt == -1 {
			firstUpsertAt = i
		}
	}
	if deleteAt == -1 || firstUpsertAt == -1 || deleteAt > firstUpsertAt {
		t.Errorf("expected purge before first insert, got ops %v", chunks.ops)
	}
}

func TestProcessToleratesChunkFailuresBelowRatio(t *testing.T) {
	doc := docModel.Document{Id: "doc-3", SourceURL: "file:///tmp/big.txt", Type: docModel.TXT}
	docs := seededDocStore(t, doc)

	text := strings.TrimSpace(strings.Repeat("word ", 460))
	expected := chunker.Split("doc-3", text, chunker.DefaultOptions())
	if len(expected) < 3 {
		t.Fatalf("scenario needs at least 3 chunks, got %d", len(expected))
	}

	embedder := &mockEmbedder{fail: func(call int) error {
		if call == 1 {
			return docModel.NewProcessingError(docModel.CategoryEmbedding, "embedding failed after retry budget exhausted", nil)
		}
		return nil
	}}

	extracted := &docModel.ExtractionResult{Text: text, Method: "plain-text", Pages: 1}
	p := testProcessor(docs, &mockChunkStore{}, extracted, embedder)

	result, err := p.Process(context.Background(), "doc-3")
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if result.ChunksFailed != 1 || result.ChunksCreated != len(expected)-1 {
		t.Errorf("chunk stats = created %d / failed %d, want %d / 1", result.ChunksCreated, result.ChunksFailed, len(expected)-1)
	}

	saved, _ := docs.GetDocument(context.Background(), "doc-3")
	if saved.Status != docModel.StatusCompleted {
		t.Errorf("document status = %s, want %s", saved.Status, docModel.StatusCompleted)
	}
}

func TestProcessAbortsPastFailureRatio(t *testing.T) {
	doc := docModel.Document{Id: "doc-4", SourceURL: "file:///tmp/a.txt", Type: docModel.TXT}
	docs := seededDocStore(t, doc)

	embedder := &mockEmbedder{fail: func(int) error {
		return docModel.NewProcessingError(docModel.CategoryEmbedding, "embedding failed after retry budget exhausted", nil)
	}}

	extracted := &docModel.ExtractionResult{Text: strings.Repeat("Content that makes exactly one chunk here. ", 3), Method: "plain-text", Pages: 1}
	p := testProcessor(docs, &mockChunkStore{}, extracted, embedder)

	_, err := p.Process(context.Background(), "doc-4")
	if err == nil {
		t.Fatal("expected an error")
	}

	pe := docModel.AsProcessingError(err)
	if pe.Category != docModel.CategoryEmbedding {
		t.Errorf("error category = %s, want %s", pe.Category, docModel.CategoryEmbedding)
	}

	saved, _ := docs.GetDocument(context.Background(), "doc-4")
	if saved.Status != docModel.StatusFailed {
		t.Errorf("document status = %s, want %s", saved.Status, docModel.StatusFailed)
	}
}

func TestProcessRejectsUnknownDocument(t *testing.T) {
	p := testProcessor(store.InitInMemoryDocumentStore(), &mockChunkStore{}, nil, &mockEmbedder{})

	_, err := p.Process(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected an error")
	}
	if pe := docModel.AsProcessingError(err); pe.Category != docModel.CategoryValidation {
		t.Errorf("error category = %s, want %s", pe.Category, docModel.CategoryValidation)
	}
}

func TestProcessRejectsUnsupportedType(t *testing.T) {
	doc := docModel.Document{Id: "doc-5", SourceURL: "file:///tmp/a.bin", Type: docModel.ERR}
	docs := seededDocStore(t, doc)

	p := testProcessor(docs, &mockChunkStore{}, nil, &mockEmbedder{})
	_, err := p.Process(context.Background(), "doc-5")
	if err == nil {
		t.Fatal("expected an error")
	}
	if pe := docModel.AsProcessingError(err); pe.Category != docModel.CategoryValidation {
		t.Errorf("error category = %s, want %s", pe.Category, docModel.CategoryValidation)
	}

	saved, _ := docs.GetDocument(context.Background(), "doc-5")
	if saved.Status != docModel.StatusFailed {
		t.Errorf("document status = %s, want %s", saved.Status, docModel.StatusFailed)
	}
}

func TestProcessSurfacesExtractionFailure(t *testing.T) {
	doc := docModel.Document{Id: "doc-6", SourceURL: "file:///tmp/a.pdf", Type: docModel.PDF}
	docs := seededDocStore(t, doc)

	extractErr := docModel.NewProcessingError(docModel.CategoryExtraction, "all extraction strategies exhausted", errors.New("no strategy produced usable text"))
	p := NewProcessor(docs, &mockChunkStore{}, &mockFetcher{data: []byte("%PDF-")}, &mockExtractor{err: extractErr}, &mockEmbedder{})

	_, err := p.Process(context.Background(), "doc-6")
	if err == nil {
		t.Fatal("expected an error")
	}
	if pe := docModel.AsProcessingError(err); pe.Category != docModel.CategoryExtraction {
		t.Errorf("error category = %s, want %s", pe.Category, docModel.CategoryExtraction)
	}

	saved, _ := docs.GetDocument(context.Background(), "doc-6")
	if saved.Status != docModel.StatusFailed || saved.StatusMessage != "all extraction strategies exhausted" {
		t.Errorf("failure not recorded on document: %+v", saved)
	}
}
