package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/nurra/corpus-api/internal/adapter/utils"
	"github.com/nurra/corpus-api/internal/api"
	"github.com/nurra/corpus-api/internal/config"
	"github.com/nurra/corpus-api/internal/rag"
	"github.com/nurra/corpus-api/pkg/logger_i"
)

var (
	logCH *logger_i.Logger

	corpusService   rag.Service
	rawSourceWriter RawSourcePutter
)

// RawSourcePutter stores named raw sources the retrieval fallback reads from.
type RawSourcePutter interface {
	Put(ctx context.Context, name string, content string) error
}

// InitCorpusHandlers wires the synchronous corpus endpoints. The raw source
// writer may be nil when no raw source store is available; the put-source
// endpoint then reports the store as unavailable.
func InitCorpusHandlers(service rag.Service, writer RawSourcePutter) {
	corpusService = service
	rawSourceWriter = writer
}

// GetStatsHandler godoc
// @Summary      Corpus statistics
// @Description  Reports the number of stored documents and chunks. One stored row is one chunk.
// @Tags         Corpus
// @Produce      json
// @Success      200  {object}  api.StatsResponse
// @Failure      500  {object}  api.JobResponse "Store unavailable"
// @Router       /corpus/stats [get]
func GetStatsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	stats, err := corpusService.Stats(r.Context())
	if err != nil {
		logCH.Error("Stats failed", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Store unavailable")
		return
	}
	writeJsonResponse(w, http.StatusOK, api.StatsResponse{
		TotalDocuments: stats.TotalDocuments,
		TotalChunks:    stats.TotalChunks,
	})
}

// GetSearchHandler godoc
// @Summary      Search the corpus directly
// @Description  Embeds the query and returns chunks with similarity above the threshold, independent of the chat flow.
// @Tags         Corpus
// @Produce      json
// @Param        q          query     string   true   "Query text"
// @Param        threshold  query     number   false  "Minimum similarity (default 0.78)"
// @Param        limit      query     integer  false  "Maximum results (default 5)"
// @Success      200  {object}  api.SearchResponse
// @Failure      400  {object}  api.JobResponse "Missing query"
// @Failure      500  {object}  api.JobResponse "Search failed"
// @Router       /corpus/search [get]
func GetSearchHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "q is required")
		return
	}

	threshold := config.SimilarityThreshold
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 || parsed > 1 {
			WriteErrorResponse(w, http.StatusBadRequest, "", "threshold must be a number in [0,1]")
			return
		}
		threshold = parsed
	}

	limit := config.SearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			WriteErrorResponse(w, http.StatusBadRequest, "", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	results, err := corpusService.SearchCorpus(r.Context(), query, threshold, limit)
	if err != nil {
		logCH.Error("Search failed", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Search failed")
		return
	}
	writeJsonResponse(w, http.StatusOK, api.SearchResponse{Query: query, Results: results})
}

// PostClearCorpusHandler godoc
// @Summary      Clear the corpus
// @Description  Unconditionally deletes every stored chunk. Irreversible.
// @Tags         Corpus
// @Produce      json
// @Success      204  "Corpus cleared"
// @Failure      500  {object}  api.JobResponse "Clear failed"
// @Router       /corpus/clear [post]
func PostClearCorpusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	if err := corpusService.ClearCorpus(r.Context()); err != nil {
		logCH.Error("Clear failed", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Clear failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PutSourceHandler godoc
// @Summary      Store a raw fallback source
// @Description  Stores a named raw text source the retrieval fallback can excerpt when vector search finds nothing.
// @Tags         Corpus
// @Accept       json
// @Produce      json
// @Param        name     path      string                true  "Source name, e.g. primary-corpus.txt"
// @Param        request  body      api.PutSourceRequest  true  "Raw source content"
// @Success      204  "Source stored"
// @Failure      400  {object}  api.JobResponse "Missing content"
// @Failure      503  {object}  api.JobResponse "Raw source store unavailable"
// @Router       /corpus/sources/{name} [put]
func PutSourceHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	name := utils.GetChiURLParam(r, "name")
	if name == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "source name is required")
		return
	}
	if rawSourceWriter == nil {
		WriteErrorResponse(w, http.StatusServiceUnavailable, name, "Raw source store unavailable")
		return
	}

	var requestData api.PutSourceRequest
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logCH.Error("Couldn't close the PutSource handler reader :", err)
		}
	}(r.Body)

	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || requestData.Content == "" {
		WriteErrorResponse(w, http.StatusBadRequest, name, "content is required")
		return
	}

	if err := rawSourceWriter.Put(r.Context(), name, requestData.Content); err != nil {
		logCH.Error("Storing raw source failed", "name", name, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, name, "Storage error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
