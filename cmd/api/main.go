// @title           Corpus RAG API
// @version         1.0
// @description     This API handles asynchronous corpus ingestion and retrieval-augmented chat.
// @termsOfService  http://swagger.io/terms/

// @contact.name    API Support
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

	"github.com/nurra/corpus-api/internal/config"
	"github.com/nurra/corpus-api/internal/data/store"
	jobmodel "github.com/nurra/corpus-api/internal/domain/jobModel"
	"github.com/nurra/corpus-api/internal/handlers"
	"github.com/nurra/corpus-api/internal/job"
	"github.com/nurra/corpus-api/internal/mcpserver"
	"github.com/nurra/corpus-api/internal/rag"
	"github.com/nurra/corpus-api/internal/rag/embedding"
	"github.com/nurra/corpus-api/internal/rag/embedding/googleEmbedding"
	"github.com/nurra/corpus-api/internal/rag/embedding/openaiEmbedding"
	"github.com/nurra/corpus-api/internal/rag/fallback"
	"github.com/nurra/corpus-api/internal/rag/llm"
	"github.com/nurra/corpus-api/internal/rag/llm/gemini"
	"github.com/nurra/corpus-api/internal/rag/llm/openaiLLM"
	"github.com/nurra/corpus-api/internal/rag/vectorDB"
	"github.com/nurra/corpus-api/internal/rag/vectorDB/memoryDB"
	"github.com/nurra/corpus-api/internal/rag/vectorDB/pgvectorDB"
	"github.com/nurra/corpus-api/internal/rag/vectorDB/qdrantDB"
	"github.com/nurra/corpus-api/internal/server"
	"github.com/nurra/corpus-api/internal/worker"
	"github.com/nurra/corpus-api/pkg/logger_i"
)

var (
	listenAddr        string
	enableMCP         bool
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.BoolVar(&enableMCP, "mcp", false, "serve corpus tools over MCP stdio instead of HTTP")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and job store
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
	}
	logger.Info("Starting job service")

	if redisJobStore := store.GetRedisJobStore(serviceContext); redisJobStore != nil {
		serviceConfig.JobStore = redisJobStore
	} else {
		logger.Error("Redis job store is offline, using in-memory store")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
	}
	service := job.InitJobService(serviceConfig)

	corpusStore := initVectorStore(serviceContext, logger)
	embeddingService, llmProvider := initProviders(serviceContext, logger)

	if corpusStore == nil || embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "VectorStore", corpusStore != nil, "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil)
		return
	}

	resolver := initFallbackResolver(serviceContext, logger)
	ragService := rag.NewService(corpusStore, llmProvider, embeddingService, resolver)

	handlers.InitJobHandler(service)
	if rawSourceStore := store.GetRedisRawSourceStore(serviceContext); rawSourceStore != nil {
		handlers.InitCorpusHandlers(ragService, rawSourceStore)
	} else {
		handlers.InitCorpusHandlers(ragService, nil)
	}

	if enableMCP {
		if err := mcpserver.Run(serviceContext, ragService); err != nil {
			logger.Error("MCP server stopped", "error", err)
		}
		return
	}

	//init worker pool
	worker.InitServices(service, ragService)
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

func initVectorStore(ctx context.Context, logger *logger_i.Logger) vectorDB.CorpusStore {
	backend := os.Getenv("VECTOR_BACKEND")
	if backend == "" {
		backend = config.DefaultVectorBackend
	}

	switch backend {
	case config.VectorBackendQdrant:
		s, err := qdrantDB.NewStore(ctx)
		if err != nil {
			logger.Error("Qdrant store unavailable", "error", err)
			return nil
		}
		return s
	case config.VectorBackendPgvector:
		dsn := os.Getenv("POSTGRES_DSN")
		if dsn == "" {
			dsn = config.PostgresDSN
		}
		s, err := pgvectorDB.NewStore(ctx, dsn)
		if err != nil {
			logger.Error("Pgvector store unavailable", "error", err)
			return nil
		}
		return s
	case config.VectorBackendMemory:
		logger.Warn("Using in-memory vector store - corpus is lost on restart")
		return memoryDB.NewStore()
	default:
		logger.Error("Unknown vector backend", "backend", backend)
		return nil
	}
}

func initProviders(ctx context.Context, logger *logger_i.Logger) (embedding.Embedder, llm.Provider) {
	provider := os.Getenv("LLM_PROVIDER")
	if provider == "" {
		provider = config.DefaultLLMProvider
	}

	switch provider {
	case config.LLMProviderGemini:
		apiKey := os.Getenv("GEMINI_API_KEY")
		embedder, err := googleEmbedding.NewClient(ctx, apiKey)
		if err != nil {
			logger.Error("Gemini embedding client failed", "error", err)
			return nil, nil
		}
		llmClient, err := gemini.NewClient(ctx, apiKey)
		if err != nil {
			logger.Error("Gemini client failed", "error", err)
			return nil, nil
		}
		return embedder, llmClient
	case config.LLMProviderOpenAI:
		apiKey := os.Getenv("OPENAI_API_KEY")
		embedder, err := openaiEmbedding.NewClient(apiKey)
		if err != nil {
			logger.Error("OpenAI embedding client failed", "error", err)
			return nil, nil
		}
		llmClient, err := openaiLLM.NewClient(apiKey)
		if err != nil {
			logger.Error("OpenAI client failed", "error", err)
			return nil, nil
		}
		return embedder, llmClient
	default:
		logger.Error("Unknown llm provider", "provider", provider)
		return nil, nil
	}
}

func initFallbackResolver(ctx context.Context, logger *logger_i.Logger) *fallback.Resolver {
	rawSourceStore := store.GetRedisRawSourceStore(ctx)
	if rawSourceStore == nil {
		logger.Error("Raw source store offline, retrieval fallback disabled")
		return fallback.NewResolver(nil, config.FallbackSourceNames)
	}
	return fallback.NewResolver(rawSourceStore, config.FallbackSourceNames)
}
