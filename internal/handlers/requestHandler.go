package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nurra/corpus-api/internal/adapter"
	"github.com/nurra/corpus-api/internal/adapter/utils"
	"github.com/nurra/corpus-api/internal/api"
	"github.com/nurra/corpus-api/internal/domain/corpusModels"
	"github.com/nurra/corpus-api/pkg/logger_i"
)

var logRH *logger_i.Logger

// carries everything a queued job needs; keeps jobHandler decoupled from the
// http request shape
type newJobData struct {
	id               string
	message          string
	traceId          string
	isDocumentIngest bool
	documentName     string
	documentSource   string
	ingestContent    string
	ingestMetadata   corpusModels.Metadata
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// ChatHandler godoc
// @Summary      Start a new chat job
// @Description  Accepts a message, initializes a background processing job, and returns a job ID to track status.
// @Tags         Messaging
// @Accept       json
// @Produce      json
// @Param        request  body      api.ChatRequest      true  "Chat Message"
// @Success      202      {object}  api.InitJobResponse  "Job successfully created"
// @Failure      400      {object}  api.JobResponse      "Invalid request data"
// @Router       /chat [post]
func ChatHandler(w http.ResponseWriter, request *http.Request) {

	if validateContext(request.Context()) {

		var requestData api.ChatRequest
		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logRH.Error("Couldn't close the Chat handler reader :", err)
			}
		}(request.Body)
		if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || requestData.Message == "" {
			logRH.Warn("Bad Chat Request: ", "error:", err, "request data:", requestData)
			WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
			return
		}

		newData := newJobData{
			id:      utils.GetNewUUID(),
			message: requestData.Message,
			traceId: traceIdFrom(request.Context()),
		}
		CreateNewJob(newData)
		writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newData.id))
		return
	}
	logRH.Warn("Invalid Context by request ", request.RemoteAddr)
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a specific job using its ID.
// @Tags         Job Status
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Job ID "
// @Success      200  {object}  api.JobResponse   "Successful retrieval of job status"
// @Failure      404  {object}  api.JobResponse   "Job not found (returns Error object within JobResponse)"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		//use chi get the url id
		idString := utils.GetChiURLParam(r, "id")
		result, isFound := validateId(idString, traceIdFrom(r.Context()))

		logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
	}
}

// PostIngestHandler queues a document for ingestion. A JSON body carries the
// raw content inline; a multipart body uploads a file that is staged to a
// temporary directory and extracted by the worker.
// @Summary      Ingest a document into the corpus
// @Description  Accepts raw content as JSON or a file via multipart/form-data and queues an ingestion job.
// @Tags         Ingestion
// @Accept       json
// @Accept       multipart/form-data
// @Produce      json
// @Param        request  body      api.IngestRequest  false  "Raw document content and optional metadata"
// @Success      202  {object}  api.InitJobResponse "Job successfully created"
// @Failure      400  {object}  api.JobResponse "Bad Request - Missing fields or file too large"
// @Failure      500  {object}  api.JobResponse "Internal Server Error - Storage or Write Error"
// @Router       /ingest [post]
func PostIngestHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			ingestUploadedFile(w, r)
			return
		}
		ingestRawContent(w, r)
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

func ingestRawContent(w http.ResponseWriter, r *http.Request) {
	var requestData api.IngestRequest
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logRH.Error("Couldn't close the Ingest handler reader :", err)
		}
	}(r.Body)

	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || requestData.Content == "" {
		logRH.Warn("Bad Ingest Request: ", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "content is required")
		return
	}

	newData := newJobData{
		id:               utils.GetNewUUID(),
		traceId:          traceIdFrom(r.Context()),
		isDocumentIngest: true,
		ingestContent:    requestData.Content,
		ingestMetadata:   requestData.Metadata,
	}
	CreateNewJob(newData)
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newData.id))
}

func ingestUploadedFile(w http.ResponseWriter, r *http.Request) {
	targetDir, errString := getTargetDirectory()
	if errString != "" {
		logRH.Error("Couldn't get target directory :", "err", errString)
		WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
		return
	}

	const maxUploadSize = 32 << 20 //32mb
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}

	docName := r.FormValue("document_name")
	if docName == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "document_name is required")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, docName, "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), fileMetadata.Filename)
	tempFilePath := filepath.Join(targetDir, filename)
	destinationFileWriter, err := os.Create(tempFilePath)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, docName, "Storage error")
		return
	}
	defer destinationFileWriter.Close()

	if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, docName, "Write error")
		return
	}

	newData := newJobData{
		id:               utils.GetNewUUID(),
		traceId:          traceIdFrom(r.Context()),
		isDocumentIngest: true,
		documentName:     docName,
		documentSource:   tempFilePath,
	}
	CreateNewJob(newData)
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newData.id))
}
