package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/docpipe/ingestapi/internal/config"
	"github.com/docpipe/ingestapi/internal/customHttpClient"
	"github.com/docpipe/ingestapi/internal/domain/docModel"
	"github.com/docpipe/ingestapi/pkg/logger_i"
)

// FileFetcher resolves a document's source URL to raw bytes.
type FileFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type Client struct {
	httpClient *http.Client
	maxBytes   int64
	logger     *logger_i.Logger
}

func New() *Client {
	return &Client{
		httpClient: customHttpClient.New(config.FetchTimeout),
		maxBytes:   config.MaxFileSizeBytes,
		logger:     logger_i.NewLogger("Fetcher"),
	}
}

// Fetch downloads http(s) URLs and reads anything else as a local path --
// the upload flow stages files on disk and stores the path as the source
// URL.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return c.download(ctx, url)
	}
	return c.readLocal(strings.TrimPrefix(url, "file://"))
}

func (c *Client) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, docModel.NewProcessingError(docModel.CategoryValidation, "malformed source URL", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, docModel.NewProcessingError(docModel.CategoryNetwork, "document download failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, docModel.NewProcessingError(docModel.CategoryNetwork,
			"document download failed", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, docModel.NewProcessingError(docModel.CategoryNetwork, "document download interrupted", err)
	}
	if int64(len(data)) > c.maxBytes {
		return nil, docModel.NewProcessingError(docModel.CategoryValidation,
			"document exceeds the maximum file size", fmt.Errorf("limit %d bytes", c.maxBytes))
	}

	c.logger.Debug("downloaded document", "url", url, "bytes", len(data))
	return data, nil
}

func (c *Client) readLocal(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, docModel.NewProcessingError(docModel.CategoryValidation, "document file not found", err)
	}
	if info.Size() > c.maxBytes {
		return nil, docModel.NewProcessingError(docModel.CategoryValidation,
			"document exceeds the maximum file size", fmt.Errorf("limit %d bytes", c.maxBytes))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, docModel.NewProcessingError(docModel.CategoryPersistence, "could not read staged document", err)
	}
	return data, nil
}
