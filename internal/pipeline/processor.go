package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/docpipe/ingestapi/internal/chunker"
	"github.com/docpipe/ingestapi/internal/config"
	"github.com/docpipe/ingestapi/internal/data/vectorDB"
	"github.com/docpipe/ingestapi/internal/domain/docModel"
	"github.com/docpipe/ingestapi/internal/fetcher"
	"github.com/docpipe/ingestapi/internal/metrics"
	"github.com/docpipe/ingestapi/pkg/logger_i"
)

// Extractor is what the processor needs from the extraction side: bytes in,
// normalized scored text out.
type Extractor interface {
	ExtractDocument(ctx context.Context, data []byte, docType docModel.DocType) (*docModel.ExtractionResult, error)
}

// Embedder is the retry-wrapped embedding entry point.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Processor drives one document through the full pipeline: fetch, extract,
// chunk, embed, persist. It owns the document status transitions; callers
// only ever see the final stats or a categorized error.
type Processor struct {
	documents docModel.DocumentStore
	chunks    vectorDB.ChunkStore
	files     fetcher.FileFetcher
	extractor Extractor
	embedder  Embedder

	chunkOpts    chunker.Options
	failureRatio float64
	logger       *logger_i.Logger
}

func NewProcessor(documents docModel.DocumentStore, chunks vectorDB.ChunkStore, files fetcher.FileFetcher, extractor Extractor, embedder Embedder) *Processor {
	return &Processor{
		documents:    documents,
		chunks:       chunks,
		files:        files,
		extractor:    extractor,
		embedder:     embedder,
		chunkOpts:    chunker.DefaultOptions(),
		failureRatio: config.ChunkFailureRatioLimit,
		logger:       logger_i.NewLogger("Processor"),
	}
}

// Process runs the pipeline for one stored document. Reprocessing is safe:
// existing chunks are purged before any new ones are written, so the vector
// store never holds a mix of old and new content for the same document.
func (p *Processor) Process(ctx context.Context, documentId string) (docModel.ProcessResult, error) {
	started := time.Now()
	var result docModel.ProcessResult

	doc, found := p.documents.GetDocument(ctx, documentId)
	if !found {
		return result, docModel.NewProcessingError(docModel.CategoryValidation,
			fmt.Sprintf("unknown document id %q", documentId), nil)
	}
	if err := validateDocument(doc); err != nil {
		return p.fail(ctx, doc.Id, result, started, err)
	}

	if err := p.documents.UpdateStatus(ctx, doc.Id, docModel.StatusProcessing, ""); err != nil {
		return p.fail(ctx, doc.Id, result, started,
			docModel.NewProcessingError(docModel.CategoryPersistence, "could not mark document as processing", err))
	}

	if err := p.chunks.DeleteByDocument(ctx, doc.Id); err != nil {
		return p.fail(ctx, doc.Id, result, started,
			docModel.NewProcessingError(docModel.CategoryPersistence, "could not purge existing chunks", err))
	}

	data, err := p.files.Fetch(ctx, doc.SourceURL)
	if err != nil {
		return p.fail(ctx, doc.Id, result, started, err)
	}

	if err := p.chunks.EnsureCollection(ctx); err != nil {
		return p.fail(ctx, doc.Id, result, started,
			docModel.NewProcessingError(docModel.CategoryPersistence, "vector collection unavailable", err))
	}

	extractStart := time.Now()
	extracted, err := p.extractor.ExtractDocument(ctx, data, doc.Type)
	result.ExtractionTime = time.Since(extractStart)
	metrics.CaptureStageMetrics("extraction", result.ExtractionTime)
	if err != nil {
		return p.fail(ctx, doc.Id, result, started, err)
	}

	result.TextLength = len(extracted.Text)
	result.Pages = extracted.Pages
	result.ExtractionMethod = extracted.Method
	result.ExtractionQuality = extracted.Quality
	if used, ok := extracted.Metadata["ocrUsed"].(bool); ok {
		result.OCRUsed = used
	}
	if hash, ok := extracted.Metadata["whisperHash"].(string); ok {
		result.WhisperHash = hash
	}

	chunkStart := time.Now()
	pieces := chunker.Split(doc.Id, extracted.Text, p.chunkOpts)
	result.ChunkingTime = time.Since(chunkStart)
	metrics.CaptureStageMetrics("chunking", result.ChunkingTime)
	if len(pieces) == 0 {
		return p.fail(ctx, doc.Id, result, started,
			docModel.NewProcessingError(docModel.CategoryExtraction, "document produced no usable chunks", nil))
	}

	var lastErr error
	for _, chunk := range pieces {
		if err := p.persistChunk(ctx, chunk, &result); err != nil {
			lastErr = err
			result.ChunksFailed++
			metrics.CountChunkFailed()
			p.logger.Warn("chunk failed", "documentId", doc.Id, "chunkIndex", chunk.Index, "error", err)

			if float64(result.ChunksFailed)/float64(len(pieces)) > p.failureRatio {
				return p.fail(ctx, doc.Id, result, started,
					wrapAbort(len(pieces), result.ChunksFailed, lastErr))
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return p.fail(ctx, doc.Id, result, started,
					docModel.NewProcessingError(docModel.CategoryTimeout, "processing cancelled", err))
			}
			continue
		}
		result.ChunksCreated++
		metrics.CountChunkPersisted()
	}

	if result.ChunksCreated == 0 {
		return p.fail(ctx, doc.Id, result, started,
			docModel.NewProcessingError(docModel.CategoryEmbedding, "no chunk could be embedded and persisted", lastErr))
	}

	doc.Status = docModel.StatusCompleted
	doc.StatusMessage = fmt.Sprintf("%d chunks persisted", result.ChunksCreated)
	doc.ExtractionMethod = result.ExtractionMethod
	doc.ExtractionQuality = result.ExtractionQuality
	if err := p.documents.SaveDocument(ctx, doc); err != nil {
		return p.fail(ctx, doc.Id, result, started,
			docModel.NewProcessingError(docModel.CategoryPersistence, "could not mark document as completed", err))
	}

	result.TotalTime = time.Since(started)
	metrics.CountDocumentProcessed(string(docModel.StatusCompleted))
	metrics.CaptureProcessingMetrics(string(docModel.StatusCompleted), result.TotalTime)
	p.logger.Info("document processed",
		"documentId", doc.Id,
		"chunksCreated", result.ChunksCreated,
		"chunksFailed", result.ChunksFailed,
		"method", result.ExtractionMethod,
		"quality", result.ExtractionQuality,
		"totalTime", result.TotalTime)

	return result, nil
}

// persistChunk embeds one chunk and writes it to the vector store. Embedding
// time is accounted here so the reported average covers only successful
// chunks.
func (p *Processor) persistChunk(ctx context.Context, chunk docModel.Chunk, result *docModel.ProcessResult) error {
	embedStart := time.Now()
	vector, err := p.embedder.Embed(ctx, chunk.Content)
	elapsed := time.Since(embedStart)
	metrics.CaptureStageMetrics("embedding", elapsed)
	if err != nil {
		return err
	}
	result.TotalEmbeddingTime += elapsed

	if err := p.chunks.UpsertChunk(ctx, chunk, vector); err != nil {
		return docModel.NewProcessingError(docModel.CategoryPersistence, "chunk upsert failed", err)
	}
	return nil
}

// fail records the terminal state on the document before surfacing the error.
// The status write is best effort; the original error wins either way.
func (p *Processor) fail(ctx context.Context, documentId string, result docModel.ProcessResult, started time.Time, err error) (docModel.ProcessResult, error) {
	pe := docModel.AsProcessingError(err)
	result.TotalTime = time.Since(started)

	if updateErr := p.documents.UpdateStatus(ctx, documentId, docModel.StatusFailed, pe.Message); updateErr != nil {
		p.logger.Error("could not record failure status", "documentId", documentId, "error", updateErr)
	}

	metrics.CountDocumentProcessed(string(docModel.StatusFailed))
	metrics.CaptureProcessingMetrics(string(docModel.StatusFailed), result.TotalTime)
	p.logger.Error("document processing failed",
		"documentId", documentId, "category", pe.Category, "error", pe)
	return result, pe
}

func validateDocument(doc docModel.Document) error {
	if doc.SourceURL == "" {
		return docModel.NewProcessingError(docModel.CategoryValidation, "document has no source URL", nil)
	}
	if !doc.Type.Supported() {
		return docModel.NewProcessingError(docModel.CategoryValidation,
			fmt.Sprintf("unsupported document type %q", doc.Type), nil)
	}
	return nil
}

// wrapAbort keeps the category of the underlying chunk error so a provider
// outage surfaces as embedding-provider, not as a generic failure.
func wrapAbort(total int, failed int, cause error) error {
	pe := docModel.AsProcessingError(cause)
	return docModel.NewProcessingError(pe.Category,
		fmt.Sprintf("aborted after %d of %d chunks failed", failed, total), cause)
}
