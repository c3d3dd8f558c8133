package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/docpipe/ingestapi/internal/adapter"
	"github.com/docpipe/ingestapi/internal/adapter/utils"
	"github.com/docpipe/ingestapi/internal/config"
	"github.com/docpipe/ingestapi/internal/domain/docModel"
	"github.com/docpipe/ingestapi/pkg/logger_i"
)

var logRH *logger_i.Logger

type newJobData struct {
	id         string
	documentId string
	traceId    string
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	return
}

// ProcessDocumentHandler godoc
// @Summary      Process a stored document synchronously
// @Description  Runs the full fetch-extract-chunk-embed-persist pipeline for a registered document and returns the processing stats.
// @Tags         Processing
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  api.ProcessResponse       "Processing stats"
// @Failure      400  {object}  api.ProcessErrorResponse  "Validation or corruption failure"
// @Failure      422  {object}  api.ProcessErrorResponse  "All extraction strategies exhausted"
// @Failure      502  {object}  api.ProcessErrorResponse  "Upstream provider failure"
// @Failure      504  {object}  api.ProcessErrorResponse  "Processing or OCR polling timed out"
// @Router       /documents/{id}/process [post]
func ProcessDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		idString := utils.GetChiURLParam(r, "id")
		if idString == "" {
			WriteErrorResponse(w, http.StatusBadRequest, "", "document id is required")
			return
		}

		ctx, cancel := contextWithProcessingDeadline(r)
		defer cancel()

		start := time.Now()
		result, err := ProcessDocument(ctx, idString)
		if err != nil {
			pe := docModel.AsProcessingError(err)
			logRH.Warn("Processing failed", "documentId", idString, "category", pe.Category)
			writeJsonResponse(w, pe.HTTPCode(), adapter.ToProcessErrorResponse(pe, time.Since(start)))
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToProcessResponse(result))
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a specific ingestion job using its ID.
// @Tags         Job Status
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Job ID "
// @Success      200  {object}  api.JobResponse   "The current status of the job"
// @Failure      404  {object}  api.JobResponse   "Job not found (returns Error object within JobResponse)"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		//use chi get the url id
		idString := utils.GetChiURLParam(r, "id")
		traceId, _ := r.Context().Value(config.TRACE_ID_KEY).(string)
		result, isFound := validateId(idString, traceId)

		logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
	}
}

// GetDocumentHandler godoc
// @Summary      Get a document record
// @Description  Returns the stored document with its status, extraction method and quality.
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  docModel.Document  "The document record"
// @Failure      404  {object}  api.JobResponse    "Document not found"
// @Router       /documents/{id} [get]
func GetDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		idString := utils.GetChiURLParam(r, "id")
		traceId, _ := r.Context().Value(config.TRACE_ID_KEY).(string)

		doc, isFound := GetDocument(idString, traceId)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Document not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, doc)
	}
}

// PostIngestHandler handles the uploading of documents for ingestion.
// @Summary      Upload a document for ingestion
// @Description  Receives a file via multipart/form-data, saves it to a temporary directory, registers the document and queues an ingestion job.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        document_name  formData  string  true  "The display name of the document"
// @Param        document       formData  file    true  "The PDF, DOCX, TXT or MD file to upload"
// @Success      202  {object}  api.InitJobResponse  "Accepted - returns job id and status URL"
// @Failure      400  {object}  api.JobResponse "Bad Request - Missing fields, unsupported type or file too large"
// @Failure      500  {object}  api.JobResponse "Internal Server Error - Storage or Write Error"
// @Router       /ingest [post]
func PostIngestHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		targetDir, errString := getTargetDirectory()
		if errString != "" {
			logRH.Error("Couldn't get target directory :", "err", errString)
			WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
			return
		}

		err := r.ParseMultipartForm(config.MaxFileSizeBytes)
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
			return
		}

		//process request
		docName := r.FormValue("document_name")
		if docName == "" {
			WriteErrorResponse(w, http.StatusBadRequest, "", "document_name is required")
			return
		}

		//get the document name the user uploads
		fileReader, fileMetadata, err := r.FormFile("document")
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, docName, "Could not retrieve file")
			return
		}
		defer fileReader.Close()

		docType := docModel.DocTypeFromString(filepath.Ext(fileMetadata.Filename))
		if !docType.Supported() {
			WriteErrorResponse(w, http.StatusBadRequest, docName, "Unsupported document type")
			return
		}

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

		registerAndQueue(r, w, docName, tempFilePath, docType)
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

func registerAndQueue(r *http.Request, w http.ResponseWriter, docName string, docPath string, docType docModel.DocType) {
	traceId, _ := r.Context().Value(config.TRACE_ID_KEY).(string)

	doc := docModel.Document{
		Id:          utils.GetNewUUID(),
		Name:        docName,
		SourceURL:   docPath,
		Type:        docType,
		Status:      docModel.StatusPending,
		CreatedTime: time.Now(),
	}
	if err := RegisterDocument(r.Context(), doc); err != nil {
		logRH.Error("Could not register document", "name", docName, "err", err)
		WriteErrorResponse(w, http.StatusInternalServerError, docName, "Storage error")
		return
	}

	newJob := newJobData{
		id:         utils.GetNewUUID(),
		documentId: doc.Id,
		traceId:    traceId,
	}
	CreateNewJob(newJob)
	res := adapter.ToInitJobResponse(newJob.id)
	writeJsonResponse(w, http.StatusAccepted, res)
}

// contextWithProcessingDeadline detaches the pipeline deadline from the
// request's own, which is governed by the server write timeout.
func contextWithProcessingDeadline(r *http.Request) (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(r.Context(), config.ProcessingTimeout)
}
