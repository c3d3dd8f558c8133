package whisperOCR

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/docpipe/ingestapi/internal/config"
	"github.com/docpipe/ingestapi/internal/customHttpClient"
	"github.com/docpipe/ingestapi/internal/domain/docModel"
	"github.com/docpipe/ingestapi/pkg/logger_i"
)

type JobState string

const (
	StateSubmitted  JobState = "submitted"
	StateProcessing JobState = "processing"
	StateProcessed  JobState = "processed"
	StateFailed     JobState = "failed"
)

// Job is the transient handle of one remote OCR run; it only lives for the
// duration of a ProcessDocument call.
type Job struct {
	Hash    string   `json:"hash"`
	State   JobState `json:"state"`
	Message string   `json:"message,omitempty"`
}

type Result struct {
	Hash  string `json:"hash"`
	Text  string `json:"text"`
	Pages int    `json:"pages"`
}

// Client wraps the whisper-style async OCR API: submit returns a job hash
// immediately (acceptance, not completion), the job is then polled until it
// reaches a terminal state. There is no server-side cancel; cancellation
// just stops the poll loop.
type Client struct {
	baseURL      string
	apiKey       string
	httpClient   *http.Client
	pollInterval time.Duration
	maxPolls     int
	logger       *logger_i.Logger
}

// NewClient returns nil when no OCR endpoint is configured; callers treat a
// nil client as "no OCR available".
func NewClient() *Client {
	baseURL := config.WhisperBaseURL()
	if baseURL == "" {
		return nil
	}
	return &Client{
		baseURL:      baseURL,
		apiKey:       config.WhisperAPIKey(),
		httpClient:   customHttpClient.New(config.WhisperCallTimeout),
		pollInterval: config.WhisperPollInterval,
		maxPolls:     config.WhisperMaxPolls,
		logger:       logger_i.NewLogger("WhisperOCR"),
	}
}

// Submit uploads the document bytes and returns the job hash.
func (c *Client) Submit(ctx context.Context, data []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/jobs", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("X-Api-Key", c.apiKey)

	var job Job
	if err := c.do(req, &job); err != nil {
		return "", docModel.NewProcessingError(docModel.CategoryNetwork, "OCR submit failed", err)
	}
	c.logger.Debug("submitted OCR job", "hash", job.Hash)
	return job.Hash, nil
}

// Poll returns the current state of a submitted job.
func (c *Client) Poll(ctx context.Context, hash string) (Job, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/jobs/"+hash, nil)
	if err != nil {
		return Job{}, err
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	var job Job
	if err := c.do(req, &job); err != nil {
		return Job{}, docModel.NewProcessingError(docModel.CategoryNetwork, "OCR poll failed", err)
	}
	return job, nil
}

// Retrieve fetches the extracted text; only valid once the job is processed.
func (c *Client) Retrieve(ctx context.Context, hash string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/jobs/"+hash+"/result", nil)
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	var result Result
	if err := c.do(req, &result); err != nil {
		return Result{}, docModel.NewProcessingError(docModel.CategoryNetwork, "OCR retrieve failed", err)
	}
	result.Hash = hash
	return result, nil
}

// ProcessDocument drives the full submit → poll → retrieve cycle with a
// bounded number of polling attempts.
func (c *Client) ProcessDocument(ctx context.Context, data []byte) (Result, error) {
	hash, err := c.Submit(ctx, data)
	if err != nil {
		return Result{}, err
	}
	log := c.logger.With("hash", hash)

	for attempt := 1; attempt <= c.maxPolls; attempt++ {
		select {
		case <-ctx.Done():
			return Result{}, docModel.NewProcessingError(docModel.CategoryTimeout, "OCR polling cancelled", ctx.Err())
		case <-time.After(c.pollInterval):
		}

		job, err := c.Poll(ctx, hash)
		if err != nil {
			log.Error("poll attempt failed", "attempt", attempt, "error", err)
			continue
		}
		log.Debug("polled OCR job", "attempt", attempt, "state", job.State)

		switch job.State {
		case StateProcessed:
			return c.Retrieve(ctx, hash)
		case StateFailed:
			return Result{}, docModel.NewProcessingError(docModel.CategoryExtraction,
				"remote OCR failed", fmt.Errorf("remote message: %s", job.Message))
		}
	}

	return Result{}, docModel.NewProcessingError(docModel.CategoryTimeout,
		"OCR job did not finish within the polling budget",
		fmt.Errorf("job %s still non-terminal after %d polls", hash, c.maxPolls))
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
