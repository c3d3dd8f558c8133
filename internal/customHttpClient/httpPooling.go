package customHttpClient

import (
	"net/http"
	"time"

	"github.com/docpipe/ingestapi/internal/config"
)

// shared pooled transport for the outbound callers (file fetcher, OCR
// client) so repeated calls against the same hosts reuse connections
var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

func New(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: customTransport,
		Timeout:   timeout,
	}
}
