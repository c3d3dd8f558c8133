package embedding

import (
	"context"
	"errors"
	"time"

	"github.com/openai/openai-go"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/docpipe/ingestapi/internal/config"
	"github.com/docpipe/ingestapi/internal/domain/docModel"
	"github.com/docpipe/ingestapi/pkg/logger_i"
)

// Generator wraps a provider with the call policy the pipeline needs:
// input truncation, a per-call timeout, and exponential backoff across a
// bounded retry budget. Auth/rate-limit failures burn through the same
// budget but are logged under their own category so quota problems stand
// out from flaky-network noise.
type Generator struct {
	provider      Embedder
	maxAttempts   int
	callTimeout   time.Duration
	backoffBase   time.Duration
	maxInputChars int
	logger        *logger_i.Logger
}

func NewGenerator(provider Embedder) *Generator {
	return &Generator{
		provider:      provider,
		maxAttempts:   config.EmbedRetryLimit,
		callTimeout:   config.EmbedCallTimeout,
		backoffBase:   config.EmbedBackoffBase,
		maxInputChars: config.EmbeddingMaxInputChars,
		logger:        logger_i.NewLogger("EmbeddingGenerator"),
	}
}

func (g *Generator) Embed(ctx context.Context, text string) ([]float32, error) {
	text = truncate(text, g.maxInputChars)

	var lastErr error
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := g.backoffBase * (1 << attempt)
			select {
			case <-ctx.Done():
				return nil, docModel.NewProcessingError(docModel.CategoryEmbedding,
					"embedding cancelled", ctx.Err())
			case <-time.After(delay):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
		vector, err := g.provider.GetEmbedding(callCtx, text)
		cancel()

		if err == nil {
			if len(vector) == 0 {
				lastErr = errors.New("provider returned an empty vector")
				continue
			}
			return vector, nil
		}
		lastErr = err

		if isAuthOrRateLimit(err) {
			g.logger.Warn("embedding provider rejected the call", "category", "auth/rate-limit", "attempt", attempt+1, "error", err)
		} else {
			g.logger.Error("embedding call failed", "attempt", attempt+1, "error", err)
		}

		if ctx.Err() != nil {
			break
		}
	}

	return nil, docModel.NewProcessingError(docModel.CategoryEmbedding,
		"embedding failed after retry budget exhausted", lastErr)
}

// isAuthOrRateLimit recognizes definitive provider rejections (401/429 and
// their grpc equivalents) as opposed to transient transport failures.
func isAuthOrRateLimit(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403 || apiErr.StatusCode == 429
	}
	if s, ok := status.FromError(err); ok {
		switch s.Code() {
		case codes.Unauthenticated, codes.PermissionDenied, codes.ResourceExhausted:
			return true
		}
	}
	return false
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && text[cut]&0xC0 == 0x80 {
		cut-- //step back off a utf-8 continuation byte
	}
	return text[:cut]
}
