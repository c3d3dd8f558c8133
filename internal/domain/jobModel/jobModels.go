package jobModel

import (
	"context"
	"time"
)

type JobStatus string
type InternalStatus string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	IngestInit    InternalStatus = "IngestInit"
	FetchCall     InternalStatus = "Fetch"
	ExtractCall   InternalStatus = "Extract"
	ChunkCall     InternalStatus = "Chunk"
	EmbedCall     InternalStatus = "Embed"
	PersistCall   InternalStatus = "Persist"
	Complete      InternalStatus = "Complete"
	ErrorStep     InternalStatus = "Error"
)

// Job tracks one async ingestion run. The document record itself lives in
// the document store, the job only references it.
type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	DocumentId  string         `json:"document_id"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`

	ChunksCreated int `json:"chunks_created,omitempty"`
	ChunksFailed  int `json:"chunks_failed,omitempty"`
}

type JobError struct {
	Code     int    `json:"code"`
	Category string `json:"category,omitempty"`
	Message  string `json:"message"`
	Retry    bool   `json:"retry"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}
