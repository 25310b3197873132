// Package server is the HTTP upload boundary for extraction and
// clause-explanation requests.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/clarify/internal/common"
	"github.com/joseph-ayodele/clarify/internal/extract"
	"github.com/joseph-ayodele/clarify/internal/pipeline"
	"github.com/joseph-ayodele/clarify/internal/store"
)

// DocumentProcessor is the pipeline surface the server depends on.
type DocumentProcessor interface {
	Extract(ctx context.Context, doc extract.UploadedDocument) (pipeline.ExtractOutput, error)
	Explain(ctx context.Context, doc extract.UploadedDocument, role, language string) (pipeline.ExplainOutput, error)
	Job(ctx context.Context, id uuid.UUID) (store.Job, error)
}

// Config holds boundary limits.
type Config struct {
	MaxFileBytes  int64
	MaxConcurrent int // cap on simultaneous extract/explain requests
}

type Server struct {
	proc   DocumentProcessor
	cfg    Config
	sem    chan struct{}
	logger *slog.Logger
}

func New(proc DocumentProcessor, cfg Config, logger *slog.Logger) *Server {
	if cfg.MaxFileBytes <= 0 {
		cfg.MaxFileBytes = 10 << 20
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		proc:   proc,
		cfg:    cfg,
		sem:    make(chan struct{}, cfg.MaxConcurrent),
		logger: logger,
	}
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/v1/extract", s.handleExtract)
	r.Post("/v1/explain", s.handleExplain)
	r.Get("/v1/jobs/{id}", s.handleJob)
	return r
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	doc, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	release, err := s.acquire(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer release()

	out, err := s.proc.Extract(r.Context(), doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, extractionEnvelope{
		Text: out.Result.Text,
		Metadata: extractionMetadata{
			FileType:         string(out.Format),
			FileSize:         doc.Size(),
			ExtractionMethod: string(out.Result.Method),
			Confidence:       out.Result.Confidence,
			Pages:            out.Result.Pages,
		},
	})
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	doc, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	role := r.FormValue("role")
	language := r.FormValue("language")

	release, err := s.acquire(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer release()

	out, err := s.proc.Explain(r.Context(), doc, role, language)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := explainResponse{
		JobID:    out.JobID.String(),
		Verified: out.Outcome.Verified,
		Attempts: out.Outcome.Attempts,
		Clauses:  out.Outcome.Explanations,
		Metadata: extractionMetadata{
			FileSize:         doc.Size(),
			ExtractionMethod: string(out.Extraction.Method),
			Confidence:       out.Extraction.Confidence,
			Pages:            out.Extraction.Pages,
		},
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorEnvelope{Error: errorBody{
			Code: "INVALID_ID", Message: "job id must be a UUID",
		}})
		return
	}
	job, err := s.proc.Job(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorEnvelope{Error: errorBody{
			Code: "NOT_FOUND", Message: "no job with that id",
		}})
		return
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobResponse{
		ID:          job.ID.String(),
		Filename:    job.Filename,
		Format:      string(job.Format),
		Method:      string(job.Method),
		Confidence:  job.Confidence,
		Pages:       job.Pages,
		ClauseCount: job.ClauseCount,
		Status:      string(job.Status),
		Error:       job.Error,
	})
}

// readUpload parses the multipart "file" part without reading content
// past the size limit: oversized uploads fail before any processing.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (extract.UploadedDocument, error) {
	// Multipart framing overhead on top of the payload budget.
	const formSlack = 1 << 20

	if r.ContentLength > s.cfg.MaxFileBytes+formSlack {
		return extract.UploadedDocument{}, fmt.Errorf("%w: request body is %d bytes (max file size %d)",
			common.ErrFileTooLarge, r.ContentLength, s.cfg.MaxFileBytes)
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxFileBytes+formSlack)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return extract.UploadedDocument{}, fmt.Errorf("%w: request body exceeds %d bytes",
				common.ErrFileTooLarge, s.cfg.MaxFileBytes)
		}
		return extract.UploadedDocument{}, common.NewAppError("BAD_UPLOAD", `multipart field "file" is required`, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxFileBytes+1))
	if err != nil {
		return extract.UploadedDocument{}, common.NewAppError("BAD_UPLOAD", "reading upload failed", err)
	}
	if int64(len(data)) > s.cfg.MaxFileBytes {
		return extract.UploadedDocument{}, fmt.Errorf("%w: file exceeds %d bytes",
			common.ErrFileTooLarge, s.cfg.MaxFileBytes)
	}
	return extract.UploadedDocument{Filename: header.Filename, Data: data}, nil
}

// acquire bounds concurrent OCR/generation work per process.
func (s *Server) acquire(ctx context.Context) (func(), error) {
	select {
	case s.sem <- struct{}{}:
		return func() { <-s.sem }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := common.HTTPStatus(err)
	var appErr *common.AppError
	code := codeForStatus(status)
	if errors.As(err, &appErr) {
		code = appErr.Code
		if status == http.StatusInternalServerError {
			status = http.StatusBadRequest
		}
	}
	s.logger.Error("http.request_failed",
		"req_id", middleware.GetReqID(r.Context()),
		"path", r.URL.Path,
		"status", status,
		"error", err,
	)
	writeJSON(w, status, errorEnvelope{Error: errorBody{
		Code:    code,
		Message: common.UserMessage(err),
		Detail:  err.Error(),
	}})
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusRequestEntityTooLarge:
		return "FILE_TOO_LARGE"
	case http.StatusUnsupportedMediaType:
		return "UNSUPPORTED_FORMAT"
	case http.StatusUnprocessableEntity:
		return "EMPTY_EXTRACTION"
	case http.StatusBadGateway:
		return "UPSTREAM_FAILED"
	default:
		return "INTERNAL"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
