package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/docpipe/ingestapi/internal/config"
	"github.com/docpipe/ingestapi/internal/domain/docModel"
	"github.com/docpipe/ingestapi/internal/domain/jobModel"
	"github.com/docpipe/ingestapi/internal/job"
	"github.com/docpipe/ingestapi/internal/metrics"
	"github.com/docpipe/ingestapi/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

// DocumentProcessor is the synchronous pipeline entry point the handlers call
// for the blocking trigger endpoint.
type DocumentProcessor interface {
	Process(ctx context.Context, documentId string) (docModel.ProcessResult, error)
}

type JobHandler struct {
	service   *job.Service
	processor DocumentProcessor
}

func InitJobHandler(jobService *job.Service, processor DocumentProcessor) {
	once.Do(func() {
		handlerInstance = &JobHandler{service: jobService, processor: processor}

		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Starting job handler")
	})
}

func CreateNewJob(newJob newJobData) {
	logJH.With("traceId", newJob.traceId, "job id", newJob.id)
	logJH.Info("To create new job")
	handlerInstance.pushToJobChannel(newJob)
}

func GetJobStatus(id string, traceId string) (result jobModel.Job, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

func GetDocument(id string, traceId string) (docModel.Document, bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.DocumentStore.GetDocument(ctxC, id)
	}
	return docModel.Document{}, false
}

func RegisterDocument(ctx context.Context, doc docModel.Document) error {
	return handlerInstance.service.DocumentStore.SaveDocument(ctx, doc)
}

func ProcessDocument(ctx context.Context, documentId string) (docModel.ProcessResult, error) {
	return handlerInstance.processor.Process(ctx, documentId)
}

// private methods
func (h *JobHandler) pushToJobChannel(newJob newJobData) {

	_job := jobModel.Job{}
	_job.Id = newJob.id
	_job.DocumentId = newJob.documentId
	_job.CreatedTime = time.Now()
	_job.TraceId = newJob.traceId
	_job.Status = jobModel.JobStatusQueued
	_job.CurrentStep = jobModel.IngestInit

	//metrics
	metrics.IncrementJobsInQueue()

	h.service.JobChannel <- _job //this is a blocking send to prevent the system from being overwhelmed
	logJH.Info("Created new job")

	//ingestion involves external calls (OCR polling, embedding) that can take
	//minutes, so every queued document also nudges the dispatcher; the pool
	//sheds idle workers on its own
	accurateCount := atomic.AddInt64(&h.service.RequestCount, 1) //after sending a request increment counter
	logJH.Debug("Request count ", accurateCount)
	metrics.StartDispatcherSignalCount() //metrics
	h.service.DispatcherChannel <- true
}
