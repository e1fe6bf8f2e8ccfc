package rag

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/nurra/corpus-api/internal/config"
	"github.com/nurra/corpus-api/internal/domain/corpusModels"
	"github.com/nurra/corpus-api/internal/domain/jobModel"
	"github.com/nurra/corpus-api/internal/metrics"
	"github.com/nurra/corpus-api/internal/rag/embedding"
	"github.com/nurra/corpus-api/internal/rag/fallback"
	"github.com/nurra/corpus-api/internal/rag/ingest"
	"github.com/nurra/corpus-api/internal/rag/llm"
	"github.com/nurra/corpus-api/internal/rag/vectorDB"
	"github.com/nurra/corpus-api/pkg/logger_i"
)

/*
ARCHITECTURE NOTE: OPAQUE INTERFACE PATTERN
---------------------------------------------------------

1. Service (Interface):
  - The PUBLIC contract. Workers and handlers only see behavior.

2. service (Private Struct):
  - The PRIVATE implementation holding the state (store, embedder,
    llm provider, fallback resolver). Lowercase so external packages
    cannot reach the dependencies directly.

3. Pointer Receiver (*service):
  - Methods on (*service) satisfy the Service interface implicitly.

4. Dependency Injection (NewService):
  - Links the private struct to the public interface so tests can swap
    real backends for mocks without touching callers.
*/

// Service is everything the worker pool and the sync corpus handlers call.
// The async job operations take and return the job; the corpus operations are
// synchronous and used directly by handlers.
type Service interface {
	ProcessRequest(ctx context.Context, job jobModel.Job) jobModel.Job
	IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job

	RetrieveContext(ctx context.Context, query string) ContextResult
	SearchCorpus(ctx context.Context, query string, threshold float64, limit int) ([]corpusModels.SearchResult, error)
	Stats(ctx context.Context) (corpusModels.CorpusStats, error)
	ClearCorpus(ctx context.Context) error
}

type service struct {
	store       vectorDB.CorpusStore
	llmProvider llm.Provider
	embedder    embedding.Embedder
	fallback    *fallback.Resolver
	logger      *logger_i.Logger
}

// NewService constructor
func NewService(store vectorDB.CorpusStore, llm llm.Provider, em embedding.Embedder, fb *fallback.Resolver) Service {
	return &service{
		store:       store,
		llmProvider: llm,
		embedder:    em,
		fallback:    fb,
		logger:      logger_i.NewLogger("RAG Service :"),
	}
}

func (s *service) ProcessRequest(ctx context.Context, jobt jobModel.Job) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", jobt.TraceId, "JobId", jobt.Id)

	processContext, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	jobt.CurrentStep = jobModel.RetrievalCall

	// Retrieval never fails the request; a degraded result just means the
	// answer will not be grounded on the corpus.
	ctxResult := s.executeRetrievalStep(processContext, inMethodLogger, &jobt)

	answer, err := s.executeLLMStep(processContext, inMethodLogger, &jobt, ctxResult)
	if err != nil {
		return s.jobError(jobt, err, "LLM_GENERATION_FAILURE", true)
	}

	jobt.JobPayload.Sources = ctxResult.Sources
	jobt.JobPayload.Grounded = ctxResult.Grounded()
	jobt.JobPayload.DegradedReason = string(ctxResult.Reason)
	return returnOutput(jobt, answer)
}

// RetrieveContext walks the query-time state machine: embed the query, search
// the corpus, fall back to a stored raw source when the search comes up empty.
// Every leg degrades instead of failing.
func (s *service) RetrieveContext(ctx context.Context, query string) ContextResult {
	vector, err := s.embedder.GetEmbedding(ctx, query)
	if err != nil {
		if embedding.IsQuotaExceeded(err) {
			s.logger.Warn("Embedding quota exceeded, skipping retrieval")
			return ContextResult{Reason: ReasonQuotaExceeded}
		}
		s.logger.Error("Embedding query failed", "error", err)
		return ContextResult{Reason: ReasonEmbeddingFailed}
	}

	results, err := s.store.Search(ctx, vector, config.SimilarityThreshold, config.SearchLimit)
	if err != nil {
		s.logger.Error("Vector search failed", "error", err)
		return ContextResult{Reason: ReasonSearchFailed}
	}

	if len(results) > 0 {
		return ContextResult{
			Text:    joinResults(results),
			Sources: sourceNames(results),
		}
	}

	if excerpt, ok := s.fallback.Resolve(ctx); ok {
		s.logger.Debug("Search empty, answering from raw source excerpt")
		return ContextResult{Text: excerpt}
	}
	return ContextResult{Reason: ReasonNoMatches}
}

func (s *service) SearchCorpus(ctx context.Context, query string, threshold float64, limit int) ([]corpusModels.SearchResult, error) {
	vector, err := s.embedder.GetEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return s.store.Search(ctx, vector, threshold, limit)
}

// Stats reports both counts from the chunk table; one stored row is one chunk.
func (s *service) Stats(ctx context.Context) (corpusModels.CorpusStats, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return corpusModels.CorpusStats{}, fmt.Errorf("counting chunks: %w", err)
	}
	return corpusModels.CorpusStats{TotalDocuments: n, TotalChunks: n}, nil
}

func (s *service) ClearCorpus(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clearing corpus: %w", err)
	}
	s.logger.Info("Corpus cleared")
	return nil
}

func (s *service) IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	inMethodLogger := s.logger.With("traceId", job.TraceId, "JobId", job.Id)

	content := job.JobPayload.IngestContent
	if content == "" && job.JobPayload.IngestURL != "" {
		job = logOutput(job, jobModel.IngestInit, inMethodLogger)
		extracted, err := ingest.ExtractFile(job.JobPayload.IngestURL)
		if err != nil {
			return s.jobError(job, err, "EXTRACTION_FAILURE", false)
		}
		content = extracted
	}

	job = logOutput(job, jobModel.IngestNormalize, inMethodLogger)
	metadata := job.JobPayload.IngestMetadata
	if job.JobPayload.IngestFileName != "" {
		metadata = metadata.Clone()
		metadata["source"] = job.JobPayload.IngestFileName
	}

	chunks, err := s.executeChunkEmbeddingStep(ctx, inMethodLogger, &job, content, metadata)
	if err != nil {
		if errors.Is(err, ingest.ErrEmptyContent) {
			return s.jobError(job, err, "VALIDATION_FAILURE", false)
		}
		if embedding.IsQuotaExceeded(err) {
			return s.jobError(job, err, "EMBEDDING_QUOTA_EXCEEDED", true)
		}
		return s.jobError(job, err, "EMBEDDING_FAILURE", true)
	}

	if err := s.executeStoreWriteStep(ctx, inMethodLogger, &job, chunks); err != nil {
		return s.jobError(job, err, "STORE_WRITE_FAILURE", true)
	}
	metrics.AddChunksWritten(len(chunks))

	if job.JobPayload.IngestURL != "" {
		if err := os.Remove(job.JobPayload.IngestURL); err != nil {
			inMethodLogger.Error("Error removing uploaded file", "error", err)
		}
	}

	job.JobPayload.ChunksProcessed = len(chunks)
	job.Status = jobModel.JobStatusComplete
	job.CurrentStep = jobModel.Complete
	return job
}

func joinResults(results []corpusModels.SearchResult) string {
	out := ""
	for i, r := range results {
		if i > 0 {
			out += "\n\n"
		}
		out += r.Content
	}
	return out
}

func sourceNames(results []corpusModels.SearchResult) []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range results {
		name, ok := r.Metadata["source"].(string)
		if !ok || name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
