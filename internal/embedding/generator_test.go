package embedding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/openai/openai-go"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/docpipe/ingestapi/internal/domain/docModel"
	"github.com/docpipe/ingestapi/pkg/logger_i"
)

type scriptedProvider struct {
	calls     int
	failFirst int
	err       error
	lastInput string
}

func (p *scriptedProvider) GetEmbedding(_ context.Context, text string) ([]float32, error) {
	p.calls++
	p.lastInput = text
	if p.calls <= p.failFirst {
		if p.err != nil {
			return nil, p.err
		}
		return nil, errors.New("transient provider failure")
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func testGenerator(provider Embedder) *Generator {
	return &Generator{
		provider:      provider,
		maxAttempts:   3,
		callTimeout:   time.Second,
		backoffBase:   time.Millisecond,
		maxInputChars: 8000,
		logger:        logger_i.NewLogger("EmbeddingGeneratorTest"),
	}
}

func TestEmbedRetriesThenSucceeds(t *testing.T) {
	provider := &scriptedProvider{failFirst: 2}
	g := testGenerator(provider)

	vector, err := g.Embed(context.Background(), "chunk content")
	if err != nil {
		t.Fatalf("Embed returned error: %v", err)
	}
	if len(vector) != 3 {
		t.Errorf("vector length = %d, want 3", len(vector))
	}
	if provider.calls != 3 {
		t.Errorf("provider calls = %d, want 3", provider.calls)
	}
}

func TestEmbedExhaustsRetryBudget(t *testing.T) {
	provider := &scriptedProvider{failFirst: 100}
	g := testGenerator(provider)

	_, err := g.Embed(context.Background(), "chunk content")
	if err == nil {
		t.Fatal("expected an error")
	}
	if provider.calls != 3 {
		t.Errorf("provider calls = %d, want exactly the retry budget", provider.calls)
	}
	if pe := docModel.AsProcessingError(err); pe.Category != docModel.CategoryEmbedding {
		t.Errorf("error category = %s, want %s", pe.Category, docModel.CategoryEmbedding)
	}
}

func TestEmbedRejectsEmptyVectors(t *testing.T) {
	empty := &emptyProvider{}
	g := testGenerator(empty)

	_, err := g.Embed(context.Background(), "chunk content")
	if err == nil {
		t.Fatal("expected an error for an empty vector")
	}
	if empty.calls != 3 {
		t.Errorf("provider calls = %d, want the full budget", empty.calls)
	}
}

type emptyProvider struct{ calls int }

func (p *emptyProvider) GetEmbedding(_ context.Context, _ string) ([]float32, error) {
	p.calls++
	return []float32{}, nil
}

func TestEmbedTruncatesOversizedInput(t *testing.T) {
	provider := &scriptedProvider{}
	g := testGenerator(provider)
	g.maxInputChars = 100

	if _, err := g.Embed(context.Background(), strings.Repeat("x", 500)); err != nil {
		t.Fatalf("Embed returned error: %v", err)
	}
	if len(provider.lastInput) != 100 {
		t.Errorf("provider input length = %d, want 100", len(provider.lastInput))
	}
}

func TestTruncateRespectsRuneBoundaries(t *testing.T) {
	text := strings.Repeat("ä", 50) //2 bytes per rune

	got := truncate(text, 33)
	if !utf8.ValidString(got) {
		t.Errorf("truncate split a rune: %q", got)
	}
	if len(got) != 32 {
		t.Errorf("truncated length = %d, want 32", len(got))
	}
}

// providerStatusError builds the error shape the openai client returns for
// HTTP-level rejections. Error() formats from the request, so it must be set.
func providerStatusError(code int) *openai.Error {
	return &openai.Error{
		StatusCode: code,
		Request:    httptest.NewRequest(http.MethodPost, "https://api.example.com/v1/embeddings", nil),
	}
}

func TestIsAuthOrRateLimit(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"openai 401", providerStatusError(401), true},
		{"openai 429", providerStatusError(429), true},
		{"openai 500", providerStatusError(500), false},
		{"grpc quota exhausted", status.Error(codes.ResourceExhausted, "quota exceeded"), true},
		{"plain transport error", errors.New("connection reset"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isAuthOrRateLimit(tc.err); got != tc.want {
				t.Errorf("isAuthOrRateLimit() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEmbedAuthFailureBurnsFullBudget(t *testing.T) {
	provider := &scriptedProvider{failFirst: 100, err: providerStatusError(401)}
	g := testGenerator(provider)

	_, err := g.Embed(context.Background(), "chunk content")
	if err == nil {
		t.Fatal("expected an error")
	}
	if provider.calls != 3 {
		t.Errorf("provider calls = %d, want the full budget", provider.calls)
	}
	if pe := docModel.AsProcessingError(err); pe.Category != docModel.CategoryEmbedding {
		t.Errorf("error category = %s, want %s", pe.Category, docModel.CategoryEmbedding)
	}
}

func TestEmbedStopsOnCancelledContext(t *testing.T) {
	provider := &scriptedProvider{failFirst: 100}
	g := testGenerator(provider)
	g.backoffBase = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := g.Embed(ctx, "chunk content")
	if err == nil {
		t.Fatal("expected an error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancelled embed took %v, should not wait out the backoff", elapsed)
	}
}
