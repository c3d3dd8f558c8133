// @title           Document Ingestion API
// @version         1.0
// @description     This API handles asynchronous document ingestion: extraction, chunking, embedding and vector persistence.
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/docpipe/ingestapi/internal/config"
	"github.com/docpipe/ingestapi/internal/data/store"
	"github.com/docpipe/ingestapi/internal/data/vectorDB"
	"github.com/docpipe/ingestapi/internal/data/vectorDB/qdrantDB"
	jobmodel "github.com/docpipe/ingestapi/internal/domain/jobModel"
	"github.com/docpipe/ingestapi/internal/embedding"
	"github.com/docpipe/ingestapi/internal/embedding/googleEmbedding"
	"github.com/docpipe/ingestapi/internal/embedding/openaiEmbedding"
	"github.com/docpipe/ingestapi/internal/extraction"
	"github.com/docpipe/ingestapi/internal/fetcher"
	"github.com/docpipe/ingestapi/internal/handlers"
	"github.com/docpipe/ingestapi/internal/job"
	"github.com/docpipe/ingestapi/internal/pipeline"
	"github.com/docpipe/ingestapi/internal/server"
	"github.com/docpipe/ingestapi/internal/whisperOCR"
	"github.com/docpipe/ingestapi/internal/worker"
	"github.com/docpipe/ingestapi/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service with redis stores, in-memory fallbacks when offline
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
	}
	logger.Info("Starting job service")

	if jobStore := store.GetRedisJobStore(serviceContext); jobStore != nil {
		serviceConfig.JobStore = jobStore
	} else {
		logger.Error("Redis job store is offline, using in-memory store")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
	}
	if documentStore := store.GetRedisDocumentStore(serviceContext); documentStore != nil {
		serviceConfig.DocumentStore = documentStore
	} else {
		logger.Error("Redis document store is offline, using in-memory store")
		serviceConfig.DocumentStore = store.InitInMemoryDocumentStore()
	}
	service := job.InitJobService(serviceConfig)

	var chunkStore vectorDB.ChunkStore
	if holder := qdrantDB.GetQuadrantClient(serviceContext); holder != nil {
		chunkStore = holder
	}
	embeddingService := buildEmbeddingProvider(serviceContext, logger)

	if chunkStore == nil || embeddingService == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "ChunkStore", chunkStore != nil, "EmbeddingService", embeddingService != nil)
		return
	}

	//remote OCR is optional, a nil client just removes the strategy
	ocrStrategy := extraction.NewWhisperStrategy(whisperOCR.NewClient())
	orchestrator := extraction.NewOrchestrator(
		extraction.DefaultStrategies(ocrStrategy),
		config.QualityAcceptThreshold,
		config.QualityFloorThreshold,
	)

	processor := pipeline.NewProcessor(
		serviceConfig.DocumentStore,
		chunkStore,
		fetcher.New(),
		orchestrator,
		embedding.NewGenerator(embeddingService),
	)

	handlers.InitJobHandler(service, processor)

	//init worker pool
	worker.InitServices(service, processor)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}

func buildEmbeddingProvider(ctx context.Context, logger *logger_i.Logger) embedding.Embedder {
	provider := config.EmbeddingProvider()
	logger.Info("Selected embedding provider", "provider", provider)

	if provider == config.EmbeddingProviderOpenAI {
		return openaiEmbedding.GetOpenAIEmbeddingClient(config.OpenAIEmbeddingModel, config.OpenAIAPIKey())
	}
	return googleEmbedding.GetGoogleEmbeddingClient(ctx, config.GoogleEmbeddingModel, config.GoogleEmbeddingAPIKey())
}
