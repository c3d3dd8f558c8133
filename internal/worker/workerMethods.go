package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/docpipe/ingestapi/internal/config"
	"github.com/docpipe/ingestapi/internal/domain/docModel"
	jobmodel "github.com/docpipe/ingestapi/internal/domain/jobModel"
	"github.com/docpipe/ingestapi/internal/metrics"
)

func executeJob(job jobmodel.Job) {
	start := time.Now()
	defer func() {
		metrics.CaptureStageMetrics("job", time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, config.ProcessingTimeout)
	defer cancel()
	logger.With("trace Id ", job.TraceId)
	logger.Debug("Processing job:", "job Id:", job.Id)

	job.CurrentStep = jobmodel.FetchCall
	saveJobState(ctx, job, jobmodel.JobStatusRunning)

	result, err := _processor.Process(ctx, job.DocumentId)
	job.ChunksCreated = result.ChunksCreated
	job.ChunksFailed = result.ChunksFailed
	job.EndTime = time.Now()

	if err != nil {
		pe := docModel.AsProcessingError(err)
		job.CurrentStep = jobmodel.ErrorStep
		job.Error = jobmodel.JobError{
			Code:     pe.HTTPCode(),
			Category: string(pe.Category),
			Message:  pe.Message,
			Retry:    canRetry(pe.Category),
		}
		saveJobState(ctx, job, jobmodel.JobStatusError)
		return
	}

	job.CurrentStep = jobmodel.Complete
	saveJobState(ctx, job, jobmodel.JobStatusComplete)
}

// canRetry marks failures that can succeed on a later attempt without any
// change to the document itself.
func canRetry(category docModel.ErrorCategory) bool {
	switch category {
	case docModel.CategoryNetwork, docModel.CategoryEmbedding, docModel.CategoryTimeout:
		return true
	}
	return false
}

func removeWorker(reason string) {

	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker ", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()

}

func saveJobState(ctx context.Context, job jobmodel.Job, jobStatus jobmodel.JobStatus) {
	job.Status = jobStatus
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to update status in Redis", "err", err)
	}
}
