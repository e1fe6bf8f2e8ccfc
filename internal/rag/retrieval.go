package rag

// DegradedReason tells why a query is being answered without corpus context.
// Retrieval never fails the request; the reason is surfaced on the job payload
// so callers can see which leg of the pipeline gave up.
type DegradedReason string

const (
	ReasonEmbeddingFailed DegradedReason = "embedding_failed"
	ReasonQuotaExceeded   DegradedReason = "quota_exceeded"
	ReasonSearchFailed    DegradedReason = "search_failed"
	ReasonNoMatches       DegradedReason = "no_matches"
)

// ContextResult is the outcome of the retrieval state machine. Either Text is
// non-empty and the answer can be grounded on it, or Reason says why not.
type ContextResult struct {
	Text    string
	Sources []string
	Reason  DegradedReason
}

func (c ContextResult) Grounded() bool {
	return c.Text != ""
}
