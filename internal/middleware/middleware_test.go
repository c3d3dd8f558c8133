package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/docpipe/ingestapi/internal/config"
	"github.com/docpipe/ingestapi/internal/metrics"
)

func TestWrapInjectsTraceId(t *testing.T) {
	var seenTrace string
	wrapped := Wrap(func(w http.ResponseWriter, r *http.Request) {
		seenTrace, _ = r.Context().Value(config.TRACE_ID_KEY).(string)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.1.0.1:5000"
	wrapped(httptest.NewRecorder(), req)

	if seenTrace == "" {
		t.Error("handler did not receive a generated trace id")
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.1.0.2:5000"
	req.Header.Set("X-Trace-Id", "client-supplied")
	wrapped(httptest.NewRecorder(), req)

	if seenTrace != "client-supplied" {
		t.Errorf("trace id = %q, want the client-supplied one", seenTrace)
	}
}

func TestWrapRateLimitsPerIP(t *testing.T) {
	wrapped := Wrap(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rejectedBefore := testutil.ToFloat64(metrics.HttpRequestsTotal.WithLabelValues("/health", "429"))

	limited := false
	for i := 0; i < config.BURST_RATE_LIMIT_PER_SECOND+3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.9.9.9:1234"
		wrapped(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited = true
		}
	}

	if !limited {
		t.Error("burst of requests from one IP was never rate limited")
	}

	// rejected requests show up in the per-path totals too
	rejectedAfter := testutil.ToFloat64(metrics.HttpRequestsTotal.WithLabelValues("/health", "429"))
	if rejectedAfter <= rejectedBefore {
		t.Errorf("429 responses were not counted: before %v, after %v", rejectedBefore, rejectedAfter)
	}

	// a different IP still gets through
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.9.9.10:1234"
	wrapped(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("fresh IP got status %d, want 200", rec.Code)
	}
}
