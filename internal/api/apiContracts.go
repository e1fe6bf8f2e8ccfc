package api

import (
	"time"

	"github.com/nurra/corpus-api/internal/domain/corpusModels"
)

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type RAGResponse struct {
	Question       string   `json:"question,omitempty"`
	Answer         string   `json:"answer,omitempty"`
	Sources        []string `json:"sources,omitempty"`
	Grounded       bool     `json:"grounded"`
	DegradedReason string   `json:"degraded_reason,omitempty"`

	ChunksProcessed int `json:"chunks_processed,omitempty"`
}

type Result struct {
	Status              string       `json:"status"`
	RAGExternalResponse *RAGResponse `json:"rag_response,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

type StatsResponse struct {
	TotalDocuments int `json:"totalDocuments" example:"42"`
	TotalChunks    int `json:"totalChunks" example:"42"`
}

type SearchResponse struct {
	Query   string                      `json:"query"`
	Results []corpusModels.SearchResult `json:"results"`
}

// requests---------------------

type ChatRequest struct {
	Message string `json:"message" validate:"required" `
}

type IngestRequest struct {
	Content  string                `json:"content" validate:"required"`
	Metadata corpusModels.Metadata `json:"metadata,omitempty"`
}

type JobStatusRequest struct {
	JobId string `json:"job_id" validate:"required"`
}

type PutSourceRequest struct {
	Content string `json:"content" validate:"required"`
}
