package jobModel

import (
	"context"
	"time"

	"github.com/nurra/corpus-api/internal/domain/corpusModels"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	UserQueryInit    InternalStatus = "Init"
	RetrievalCall    InternalStatus = "Retrieval"
	LLMCall          InternalStatus = "LLM"
	VectorSearchCall InternalStatus = "VectorSearch"
	EmbeddingAPICall InternalStatus = "EmbeddingAPI"
	FallbackCall     InternalStatus = "Fallback"

	IngestInit       InternalStatus = "IngestInit"
	IngestNormalize  InternalStatus = "IngestNormalize"
	IngestEmbedding  InternalStatus = "IngestEmbedding"
	IngestStoreWrite InternalStatus = "IngestStoreWrite"
	Error            InternalStatus = "Error"

	Complete InternalStatus = "Complete"

	JobTypeQuery  JobType = "Query"
	JobTypeIngest JobType = "Ingest"
)

type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	Question string   `json:"question,omitempty"`
	Answer   string   `json:"answer,omitempty"`
	Sources  []string `json:"sources,omitempty"`

	// Grounded reports whether the answer was backed by retrieved context;
	// DegradedReason carries the retrieval state machine's reason when it was not.
	Grounded       bool   `json:"grounded,omitempty"`
	DegradedReason string `json:"degraded_reason,omitempty"`

	IngestContent   string                `json:"ingest_content,omitempty"`
	IngestMetadata  corpusModels.Metadata `json:"ingest_metadata,omitempty"`
	IngestFileName  string                `json:"ingest_file_name,omitempty"`
	IngestURL       string                `json:"ingest_url,omitempty"`
	ChunksProcessed int                   `json:"chunks_processed,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}
