package rag

import (
	"context"
	"net/http"
	"time"

	"github.com/nurra/corpus-api/internal/config"
	"github.com/nurra/corpus-api/internal/domain/corpusModels"
	"github.com/nurra/corpus-api/internal/domain/jobModel"
	"github.com/nurra/corpus-api/internal/metrics"
	"github.com/nurra/corpus-api/internal/rag/ingest"
	"github.com/nurra/corpus-api/internal/rag/vectorDB"
	"github.com/nurra/corpus-api/pkg/logger_i"
)

func returnOutput(job jobModel.Job, ans string) jobModel.Job {
	job.JobPayload.Answer = ans
	job.CurrentStep = jobModel.Complete
	job.Status = jobModel.JobStatusComplete
	return job
}

func logOutput(job jobModel.Job, status jobModel.InternalStatus, log *logger_i.Logger) jobModel.Job {
	job.CurrentStep = status
	log.Debug("ProcessRequest", "Current Status", job.CurrentStep)
	return job
}

func (s *service) jobError(job jobModel.Job, err error, message string, canRetry bool) jobModel.Job {
	s.logger.Error(message, "error", err)

	job.Error = jobModel.JobError{
		Code:    http.StatusInternalServerError,
		Message: message,
		Retry:   canRetry,
	}
	job.Status = jobModel.JobStatusError
	return job
}

func (s *service) executeRetrievalStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job) ContextResult {
	*job = logOutput(*job, jobModel.RetrievalCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("retrieval", time.Since(start)) }()

	return s.RetrieveContext(ctx, job.JobPayload.Question)
}

func (s *service) executeLLMStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, ctxResult ContextResult) (string, error) {
	*job = logOutput(*job, jobModel.LLMCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	systemPrompt := config.SystemPromptTemplate
	if ctxResult.Grounded() {
		systemPrompt += "\n\nRelevant source material (use only if relevant to the question):\n" + ctxResult.Text
	}
	return s.llmProvider.Generate(ctx, systemPrompt, job.JobPayload.Question)
}

func (s *service) executeChunkEmbeddingStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, content string, metadata corpusModels.Metadata) ([]corpusModels.DocumentChunk, error) {
	*job = logOutput(*job, jobModel.IngestEmbedding, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("chunk_embedding", time.Since(start)) }()

	return ingest.ProcessDocument(ctx, content, metadata, s.embedder)
}

func (s *service) executeStoreWriteStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, chunks []corpusModels.DocumentChunk) error {
	*job = logOutput(*job, jobModel.IngestStoreWrite, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("store_write", time.Since(start)) }()

	return vectorDB.InsertMany(ctx, s.store, chunks)
}
