package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nurra/corpus-api/internal/config"
	"github.com/nurra/corpus-api/internal/rag"
	"github.com/nurra/corpus-api/pkg/logger_i"
)

const version = "1.0.0"

// Server exposes the corpus over MCP so agent tooling can query it directly
// without going through the async job flow.
type Server struct {
	ragService rag.Service
	server     *mcp.Server
	logger     *logger_i.Logger
}

func NewServer(ragService rag.Service) *Server {
	impl := &mcp.Implementation{
		Name:    "corpus-api",
		Version: version,
	}

	s := &Server{
		ragService: ragService,
		server:     mcp.NewServer(impl, nil),
		logger:     logger_i.NewLogger("MCP Server"),
	}
	s.registerTools()
	return s
}

// Run serves the corpus tools over stdio until ctx is cancelled.
func Run(ctx context.Context, ragService rag.Service) error {
	s := NewServer(ragService)
	s.logger.Info("Serving corpus tools over MCP stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

type searchInput struct {
	Query     string  `json:"query" jsonschema:"the query text to search the corpus with"`
	Threshold float64 `json:"threshold,omitempty" jsonschema:"minimum cosine similarity in [0,1] (default 0.78)"`
	Limit     int     `json:"limit,omitempty" jsonschema:"maximum number of results (default 5)"`
}

type searchResultOutput struct {
	ID         string  `json:"id"`
	Content    string  `json:"content"`
	Similarity float64 `json:"similarity"`
	Source     string  `json:"source,omitempty"`
}

type searchOutput struct {
	Results []searchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

type statsInput struct{}

type statsOutput struct {
	TotalDocuments int `json:"total_documents"`
	TotalChunks    int `json:"total_chunks"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "corpus_search",
		Description: "Search the document corpus by semantic similarity",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "corpus_stats",
		Description: "Report how many documents and chunks the corpus holds",
	}, s.handleStats)
}

func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input searchInput,
) (*mcp.CallToolResult, searchOutput, error) {
	threshold := input.Threshold
	if threshold <= 0 {
		threshold = config.SimilarityThreshold
	}
	limit := input.Limit
	if limit <= 0 {
		limit = config.SearchLimit
	}

	results, err := s.ragService.SearchCorpus(ctx, input.Query, threshold, limit)
	if err != nil {
		return nil, searchOutput{}, err
	}

	output := searchOutput{
		Results: make([]searchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		source, _ := results[i].Metadata["source"].(string)
		output.Results[i] = searchResultOutput{
			ID:         results[i].ID,
			Content:    results[i].Content,
			Similarity: results[i].Similarity,
			Source:     source,
		}
	}
	return nil, output, nil
}

func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ statsInput,
) (*mcp.CallToolResult, statsOutput, error) {
	stats, err := s.ragService.Stats(ctx)
	if err != nil {
		return nil, statsOutput{}, err
	}
	return nil, statsOutput{
		TotalDocuments: stats.TotalDocuments,
		TotalChunks:    stats.TotalChunks,
	}, nil
}
