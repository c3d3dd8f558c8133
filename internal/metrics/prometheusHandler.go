package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var countJobsInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "count_jobs_in_queue",
	Help: "Number of ingest jobs in queue",
})

var dispatcherSignalCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "dispatcher_signal_count",
	Help: "How often the dispatcher has signaled to start worker",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_worker_count",
	Help: "Number of active workers",
})

var documentsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "documents_processed_total",
	Help: "Documents processed by final status",
}, []string{"status"})

var chunksPersisted = promauto.NewCounter(prometheus.CounterOpts{
	Name: "chunks_persisted_total",
	Help: "Chunks embedded and written to the vector store",
})

var chunksFailed = promauto.NewCounter(prometheus.CounterOpts{
	Name: "chunks_failed_total",
	Help: "Chunks that failed embedding or persistence",
})

var stageLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "pipeline_stage_latency_seconds",
	Help:    "Latency of pipeline stages and external calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10, 30, 60},
}, []string{"stage"})

var processingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "document_processing_duration_seconds",
	Help:    "Total time spent processing one document.",
	Buckets: []float64{.5, 1, 2, 5, 10, 30, 60, 120, 300},
}, []string{"status"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func IncrementJobsInQueue() {
	countJobsInQueue.Inc()
}

func DecrementJobsInQueue() {
	countJobsInQueue.Dec()
}

func StartDispatcherSignalCount() {
	dispatcherSignalCount.Inc()
}

func IncrementActiveWorkerCount() {
	activeWorkerCount.Inc()
}

func DecrementActiveWorkerCount() {
	activeWorkerCount.Dec()
}

func CountDocumentProcessed(status string) {
	documentsProcessed.WithLabelValues(status).Inc()
}

func CountChunkPersisted() {
	chunksPersisted.Inc()
}

func CountChunkFailed() {
	chunksFailed.Inc()
}

func CaptureStageMetrics(stage string, timeElapsed time.Duration) {
	stageLatency.WithLabelValues(stage).Observe(timeElapsed.Seconds())
}

func CaptureProcessingMetrics(status string, timeElapsed time.Duration) {
	processingDuration.WithLabelValues(status).Observe(timeElapsed.Seconds())
}
