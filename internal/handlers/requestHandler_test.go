package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/docpipe/ingestapi/internal/api"
	"github.com/docpipe/ingestapi/internal/data/store"
	"github.com/docpipe/ingestapi/internal/domain/docModel"
	"github.com/docpipe/ingestapi/internal/domain/jobModel"
	"github.com/docpipe/ingestapi/internal/handlers"
	"github.com/docpipe/ingestapi/internal/job"
)

// the handler layer is a process-wide singleton, so the whole fixture is
// shared across tests in this package
var (
	documentStore *store.InMemoryDocumentStore
	jobService    *job.Service
	mockProc      = &mockProcessor{}
	testRouter    *chi.Mux
)

type mockProcessor struct {
	OnProcess func(ctx context.Context, documentId string) (docModel.ProcessResult, error)
}

func (m *mockProcessor) Process(ctx context.Context, documentId string) (docModel.ProcessResult, error) {
	if m.OnProcess != nil {
		return m.OnProcess(ctx, documentId)
	}
	return docModel.ProcessResult{}, errors.New("no behavior configured")
}

func TestMain(m *testing.M) {
	documentStore = store.InitInMemoryDocumentStore()
	jobService = job.InitJobService(job.ServiceConfig{
		JobChannel:        make(chan jobModel.Job, 16),
		DispatcherChannel: make(chan bool, 16),
		JobStore:          store.InitInMemoryJobStore(),
		DocumentStore:     documentStore,
	})
	handlers.InitJobHandler(jobService, mockProc)

	testRouter = chi.NewRouter()
	testRouter.Post("/documents/{id}/process", handlers.ProcessDocumentHandler)
	testRouter.Get("/documents/{id}", handlers.GetDocumentHandler)
	testRouter.Get("/status/{id}", handlers.GetStatusHandler)
	testRouter.Post("/ingest", handlers.PostIngestHandler)

	code := m.Run()
	os.RemoveAll("temporary_data")
	os.Exit(code)
}

func TestProcessDocumentHandlerReturnsStats(t *testing.T) {
	mockProc.OnProcess = func(_ context.Context, documentId string) (docModel.ProcessResult, error) {
		if documentId != "doc-ok" {
			t.Errorf("processor called with id %q", documentId)
		}
		return docModel.ProcessResult{ChunksCreated: 4, TextLength: 2048, ExtractionMethod: "native-pdf", Pages: 2}, nil
	}

	rec := httptest.NewRecorder()
	testRouter.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/documents/doc-ok/process", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	var resp api.ProcessResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.Success || resp.ChunksCreated != 4 || resp.ExtractionMethod != "native-pdf" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestProcessDocumentHandlerMapsErrorCategories(t *testing.T) {
	cases := []struct {
		category docModel.ErrorCategory
		wantCode int
	}{
		{docModel.CategoryValidation, http.StatusBadRequest},
		{docModel.CategoryExtraction, http.StatusUnprocessableEntity},
		{docModel.CategoryEmbedding, http.StatusBadGateway},
		{docModel.CategoryTimeout, http.StatusGatewayTimeout},
	}

	for _, tc := range cases {
		t.Run(string(tc.category), func(t *testing.T) {
			mockProc.OnProcess = func(_ context.Context, _ string) (docModel.ProcessResult, error) {
				return docModel.ProcessResult{}, docModel.NewProcessingError(tc.category, "processing failed", nil)
			}

			rec := httptest.NewRecorder()
			testRouter.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/documents/doc-x/process", nil))

			if rec.Code != tc.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantCode)
			}
			var resp api.ProcessErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if resp.Category != string(tc.category) {
				t.Errorf("category = %q, want %q", resp.Category, tc.category)
			}
		})
	}
}

func TestGetStatusHandlerUnknownJob(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status/no-such-job", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGetDocumentHandler(t *testing.T) {
	doc := docModel.Document{Id: "doc-get", Name: "manual.pdf", Type: docModel.PDF, Status: docModel.StatusCompleted}
	if err := documentStore.SaveDocument(context.Background(), doc); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	testRouter.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/documents/doc-get", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got docModel.Document
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if got.Name != "manual.pdf" || got.Status != docModel.StatusCompleted {
		t.Errorf("unexpected document: %+v", got)
	}

	rec = httptest.NewRecorder()
	testRouter.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/documents/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestPostIngestHandlerQueuesJob(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter.ServeHTTP(rec, multipartUpload(t, "quarterly report", "report.txt", "Plain text body for the upload."))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202, body %s", rec.Code, rec.Body.String())
	}

	var resp api.InitJobResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Id == "" || resp.StatusURL != "status/"+resp.Id {
		t.Errorf("unexpected init response: %+v", resp)
	}

	select {
	case queued := <-jobService.JobChannel:
		if queued.Id != resp.Id || queued.Status != jobModel.JobStatusQueued {
			t.Errorf("unexpected queued job: %+v", queued)
		}
		doc, found := documentStore.GetDocument(context.Background(), queued.DocumentId)
		if !found || doc.Status != docModel.StatusPending || doc.Type != docModel.TXT {
			t.Errorf("registered document wrong: %+v", doc)
		}
		if _, err := os.Stat(doc.SourceURL); err != nil {
			t.Errorf("staged file missing: %v", err)
		}
	default:
		t.Fatal("no job was queued")
	}
}

func TestPostIngestHandlerRejectsUnsupportedType(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter.ServeHTTP(rec, multipartUpload(t, "binary blob", "firmware.bin", "not ingestible"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPostIngestHandlerRequiresName(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter.ServeHTTP(rec, multipartUpload(t, "", "report.txt", "content"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func multipartUpload(t *testing.T, docName string, filename string, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if docName != "" {
		if err := writer.WriteField("document_name", docName); err != nil {
			t.Fatal(err)
		}
	}
	part, err := writer.CreateFormFile("document", filepath.Base(filename))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/ingest", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}
