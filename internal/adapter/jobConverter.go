package adapter

import (
	"fmt"
	"time"

	"github.com/docpipe/ingestapi/internal/api"
	"github.com/docpipe/ingestapi/internal/domain/docModel"
	"github.com/docpipe/ingestapi/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id), //pass "status/job.Id"
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:     job.Error.Code,
			Category: job.Error.Category,
			Message:  job.Error.Message,
			Retry:    job.Error.Retry,
		}
	}

	result := api.Result{
		Status: string(job.Status),
		Ingest: toIngestStats(job),
	}

	return api.JobResponse{
		Id:         job.Id,
		DocumentId: job.DocumentId,
		StartTime:  job.CreatedTime,
		EndTime:    job.EndTime,
		Error:      errorPtr,
		Result:     result,
	}
}

func toIngestStats(job jobModel.Job) *api.IngestStats {
	if job.ChunksCreated == 0 && job.ChunksFailed == 0 {
		return nil
	}
	return &api.IngestStats{
		ChunksCreated: job.ChunksCreated,
		ChunksFailed:  job.ChunksFailed,
	}
}

func ToProcessResponse(result docModel.ProcessResult) api.ProcessResponse {
	return api.ProcessResponse{
		Success:                true,
		ChunksCreated:          result.ChunksCreated,
		ChunksFailed:           result.ChunksFailed,
		TextLength:             result.TextLength,
		Pages:                  result.Pages,
		ExtractionMethod:       result.ExtractionMethod,
		ExtractionQuality:      result.ExtractionQuality,
		OCRUsed:                result.OCRUsed,
		WhisperHash:            result.WhisperHash,
		ProcessingTimeMs:       result.TotalTime.Milliseconds(),
		ExtractionTimeMs:       result.ExtractionTime.Milliseconds(),
		ChunkingTimeMs:         result.ChunkingTime.Milliseconds(),
		AverageEmbeddingTimeMs: result.AverageEmbeddingTimeMs(),
		ProcessingRate:         result.ProcessingRate(),
		SuccessRate:            result.SuccessRate(),
	}
}

func ToProcessErrorResponse(pe *docModel.ProcessingError, elapsed time.Duration) api.ProcessErrorResponse {
	return api.ProcessErrorResponse{
		Error:            pe.Message,
		Category:         string(pe.Category),
		Details:          pe.Detail(),
		ProcessingTimeMs: elapsed.Milliseconds(),
		Timestamp:        time.Now(),
	}
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:         id,
		DocumentId: "",
		StartTime:  time.Time{},
		EndTime:    time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
