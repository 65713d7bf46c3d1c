package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/medigraph/medigraph-api/internal/database"
	"github.com/medigraph/medigraph-api/internal/database/models"
)

// QuestionAnswerer is the question-answering use case the HTTP layer fronts.
type QuestionAnswerer interface {
	Answer(ctx context.Context, question string, topK int) (string, []string, error)
}

// Ingestor is the dataset ingestion use case.
type Ingestor interface {
	IngestFile(ctx context.Context, path string) (int, error)
}

// Server holds the dependencies for the HTTP API server.
type Server struct {
	answerer  QuestionAnswerer
	ingestor  Ingestor
	feedback  database.FeedbackRepository
	uploadDir string
}

// NewServer initializes a new API server with the required dependencies.
func NewServer(answerer QuestionAnswerer, ingestor Ingestor, feedback database.FeedbackRepository, uploadDir string) *Server {
	return &Server{
		answerer:  answerer,
		ingestor:  ingestor,
		feedback:  feedback,
		uploadDir: uploadDir,
	}
}

// RegisterRoutes registers all API endpoints with a new ServeMux.
func (s *Server) RegisterRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Go 1.22+ supports HTTP method routing directly in ServeMux
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/ask", s.handleAsk)
	mux.HandleFunc("POST /api/feedback", s.handleFeedback)
	mux.HandleFunc("GET /api/admin/feedback", s.handleListFeedback)
	mux.HandleFunc("POST /api/admin/ingest", s.handleIngest)
	mux.HandleFunc("POST /api/admin/upload_and_ingest", s.handleUploadAndIngest)

	return mux
}

type QueryRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k,omitempty"`
}

type QueryResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

type IngestResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request payload"})
		return
	}
	if req.Question == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "question field is required"})
		return
	}

	answer, sources, err := s.answerer.Answer(r.Context(), req.Question, req.TopK)
	if err != nil {
		log.Printf("[Server] Failed to answer question: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: err.Error()})
		return
	}

	if sources == nil {
		sources = []string{}
	}
	writeJSON(w, http.StatusOK, QueryResponse{Answer: answer, Sources: sources})
}

// handleIngest ingests a dataset already present on the server filesystem.
// The path arrives as a form field, matching the upload variant's encoding.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "failed to parse form"})
		return
	}

	filePath := r.FormValue("file_path")
	if filePath == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "file_path form field required"})
		return
	}

	if _, err := os.Stat(filePath); err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: "file not found on server"})
		return
	}

	s.runIngestion(w, r, filePath)
}

// handleUploadAndIngest saves the uploaded dataset to the staging directory
// and ingests it.
func (s *Server) handleUploadAndIngest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil { // limit 32MB in memory
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "failed to parse form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "missing 'file' parameter"})
		return
	}
	defer func() { _ = file.Close() }()

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		log.Printf("[Server] Failed to create upload dir: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "failed to stage upload"})
		return
	}

	destPath := filepath.Join(s.uploadDir, filepath.Base(header.Filename))
	dest, err := os.Create(destPath)
	if err != nil {
		log.Printf("[Server] Failed to create staging file: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "failed to stage upload"})
		return
	}
	if _, err := io.Copy(dest, file); err != nil {
		_ = dest.Close()
		log.Printf("[Server] Failed to write staging file: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "failed to stage upload"})
		return
	}
	if err := dest.Close(); err != nil {
		log.Printf("[Server] Failed to close staging file: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "failed to stage upload"})
		return
	}

	log.Printf("[Server] Staged upload %s (%d bytes)", destPath, header.Size)
	s.runIngestion(w, r, destPath)
}

func (s *Server) runIngestion(w http.ResponseWriter, r *http.Request, path string) {
	count, err := s.ingestor.IngestFile(r.Context(), path)
	if err != nil {
		log.Printf("[Server] Ingestion failed for %s: %v", path, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, IngestResponse{
		Success: true,
		Message: fmt.Sprintf("Ingested %d rows.", count),
	})
}

type FeedbackRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Rating   *int   `json:"rating,omitempty"`
	Comment  string `json:"comment,omitempty"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request payload"})
		return
	}
	if req.Question == "" || req.Answer == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "question and answer fields are required"})
		return
	}

	_, err := s.feedback.CreateFeedback(r.Context(), &models.Feedback{
		Question: req.Question,
		Answer:   req.Answer,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		log.Printf("[Server] Failed to record feedback: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	fbs, err := s.feedback.ListFeedback(r.Context(), limit)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		log.Printf("[Server] Failed to list feedback: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: err.Error()})
		return
	}
	if fbs == nil {
		fbs = []*models.Feedback{}
	}

	writeJSON(w, http.StatusOK, fbs)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[Server] Failed to encode response: %v", err)
	}
}
