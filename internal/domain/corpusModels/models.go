package corpusModels

// Metadata is the open key-value bag attached to every stored chunk. Values are
// limited to JSON-compatible kinds; the well-known keys below are always present
// on chunks produced by the ingestion pipeline.
type Metadata map[string]any

const (
	MetaChunkIndex  = "chunk_index"
	MetaTotalChunks = "total_chunks"
)

// Clone returns a shallow copy so pipelines never mutate caller-owned maps.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m)+2)
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Int reads an integer value, tolerating the float64 that JSON decoding
// produces for numbers.
func (m Metadata) Int(key string) (int, bool) {
	switch v := m[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// DocumentChunk is the unit of ingestible text. Immutable once stored; removed
// only by a corpus-wide clear.
type DocumentChunk struct {
	Content   string    `json:"content"`
	Embedding []float32 `json:"embedding"`
	Metadata  Metadata  `json:"metadata"`
}

// SearchResult is a transient retrieval hit. Similarity is 1 - cosine distance.
type SearchResult struct {
	ID         string   `json:"id"`
	Content    string   `json:"content"`
	Similarity float64  `json:"similarity"`
	Metadata   Metadata `json:"metadata,omitempty"`
}

// CorpusStats reports corpus size. One stored row is one chunk, so the two
// counts are currently identical.
type CorpusStats struct {
	TotalDocuments int `json:"totalDocuments"`
	TotalChunks    int `json:"totalChunks"`
}
