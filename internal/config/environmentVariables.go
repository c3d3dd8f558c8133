package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	NoAuthBypass = true //set false once an auth token is provisioned

	//embedding providers
	EmbeddingProviderGoogle  = "google"
	EmbeddingProviderOpenAI  = "openai"
	DefaultEmbeddingProvider = EmbeddingProviderGoogle

	EmbeddingOutputDimensionality int32 = 1536
	GoogleEmbeddingModel                = "gemini-embedding-001"
	OpenAIEmbeddingModel                = "text-embedding-3-small"

	//the provider rejects oversized inputs, so chunk text is truncated before the call
	EmbeddingMaxInputChars = 8000
	EmbedRetryLimit        = 3
	EmbedCallTimeout       = 15 * time.Second
	EmbedBackoffBase       = 500 * time.Millisecond

	//extraction quality thresholds - heuristic, tune per corpus
	QualityAcceptThreshold = 0.7
	QualityFloorThreshold  = 0.3

	//text bounds
	MinTextLength  = 20
	MinChunkLength = 50

	//chunking defaults
	DefaultChunkSize       = 1000
	DefaultChunkOverlap    = 150
	MaxChunksPerDocument   = 5000
	ChunkFailureRatioLimit = 0.5

	//remote OCR (whisper-style async job API)
	WhisperPollInterval = 5 * time.Second
	WhisperMaxPolls     = 12
	WhisperCallTimeout  = 30 * time.Second

	//file fetching
	MaxFileSizeBytes = 32 << 20 //32mb, same cap as the upload handler
	FetchTimeout     = 60 * time.Second

	//qdrant chunk store
	ChunkCollectionName     = "document-chunks"
	QdrantHost              = "localhost"
	QdrantGrpcPort          = 6334
	QdrantUseTLS            = false
	QdrantPoolSize          = 1
	QdrantConnectionTimeout = 30 * time.Second

	//worker pool
	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//document processing gets a generous ceiling - OCR polling alone can take a minute
	ProcessingTimeout = 5 * time.Minute

	//serverTimeouts - writes must outlive a full synchronous processing run
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = ProcessingTimeout + 30*time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	RedisPassword = ""

	//redis has 16 DB we can use
	RedisJobStore      = 0
	RedisDocumentStore = 1

	RedisJobStoreTTL      = 24 * time.Hour
	RedisDocumentStoreTTL time.Duration = 0 //documents never expire
)

//secrets and endpoints come from the environment, never from this file

func GoogleEmbeddingAPIKey() string {
	return os.Getenv("GOOGLE_EMBEDDING_API_KEY")
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

func WhisperBaseURL() string {
	return os.Getenv("WHISPER_API_URL")
}

func WhisperAPIKey() string {
	return os.Getenv("WHISPER_API_KEY")
}

func AuthToken() string {
	return os.Getenv("API_AUTH_TOKEN")
}

func EmbeddingProvider() string {
	if p := os.Getenv("EMBEDDING_PROVIDER"); p != "" {
		return p
	}
	return DefaultEmbeddingProvider
}

// WhisperFirst flips remote OCR from terminal fallback to the primary
// extraction path.
func WhisperFirst() bool {
	return os.Getenv("WHISPER_FIRST") == "true"
}
