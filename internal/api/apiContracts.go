package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id         string            `json:"id" example:"job_cz109"`
	DocumentId string            `json:"document_id" example:"doc_550"`
	Result     Result            `json:"result"`
	Error      *JobOutgoingError `json:"error,omitempty"`
	StartTime  time.Time         `json:"start_time"`
	EndTime    time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code     int    `json:"code" example:"400"`
	Category string `json:"category,omitempty" example:"extraction"`
	Message  string `json:"message" example:"Job not found"`
	Retry    bool   `json:"can_retry" example:"false"`
}

type Result struct {
	Status string       `json:"status"`
	Ingest *IngestStats `json:"ingest,omitempty"`
}

type IngestStats struct {
	ChunksCreated int `json:"chunks_created"`
	ChunksFailed  int `json:"chunks_failed"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

// ProcessResponse reports the outcome of a synchronous processing run.
type ProcessResponse struct {
	Success                bool    `json:"success"`
	ChunksCreated          int     `json:"chunks_created"`
	ChunksFailed           int     `json:"chunks_failed"`
	TextLength             int     `json:"text_length"`
	Pages                  int     `json:"pages"`
	ExtractionMethod       string  `json:"extraction_method"`
	ExtractionQuality      float64 `json:"extraction_quality"`
	OCRUsed                bool    `json:"ocr_used"`
	WhisperHash            string  `json:"whisper_hash,omitempty"`
	ProcessingTimeMs       int64   `json:"processing_time_ms"`
	ExtractionTimeMs       int64   `json:"extraction_time_ms"`
	ChunkingTimeMs         int64   `json:"chunking_time_ms"`
	AverageEmbeddingTimeMs float64 `json:"average_embedding_time_ms"`
	ProcessingRate         float64 `json:"processing_rate"`
	SuccessRate            float64 `json:"success_rate"`
}

type ProcessErrorResponse struct {
	Error            string    `json:"error"`
	Category         string    `json:"category" example:"extraction"`
	Details          string    `json:"details,omitempty"`
	ProcessingTimeMs int64     `json:"processing_time_ms"`
	Timestamp        time.Time `json:"timestamp"`
}

// requests---------------------

type JobStatusRequest struct {
	JobId string `json:"job_id" validate:"required"`
}

type IngestDocumentRequest struct {
	DocumentName string `json:"document_name" validate:"required"`
}
