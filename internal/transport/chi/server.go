// Package chi implements the HTTP JSON API.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/campuskit/askdesk/internal/domain"
	healthuc "github.com/campuskit/askdesk/internal/usecase/health"
	pipelineuc "github.com/campuskit/askdesk/internal/usecase/pipeline"
)

// Server exposes the question-answering pipeline over HTTP.
type Server struct {
	pipeline *pipelineuc.Service
	health   *healthuc.Service
	logger   *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(pipeline *pipelineuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	return &Server{pipeline: pipeline, health: health, logger: logger}
}

// Routes mounts the API endpoints on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/v1/answers", s.AnswerQuestion)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

type conversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type answerRequest struct {
	Question        string             `json:"question"`
	UserID          string             `json:"user_id,omitempty"`
	History         []conversationTurn `json:"conversation_history,omitempty"`
	IncludeEvidence bool               `json:"include_evidence,omitempty"`
}

type answerResponse struct {
	Answer   string   `json:"answer"`
	UserID   string   `json:"user_id,omitempty"`
	Evidence []string `json:"evidence,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AnswerQuestion handles POST /v1/answers.
func (s *Server) AnswerQuestion(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	history := make([]domain.Turn, 0, len(req.History))
	for _, t := range req.History {
		role := domain.RoleAssistant
		if t.Role == string(domain.RoleUser) {
			role = domain.RoleUser
		}
		history = append(history, domain.NewTurn(role, t.Content))
	}

	answer, err := s.pipeline.Answer(r.Context(), &pipelineuc.Request{
		Question:        req.Question,
		UserID:          req.UserID,
		History:         history,
		IncludeEvidence: req.IncludeEvidence,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, answerResponse{
		Answer:   answer.Text(),
		UserID:   req.UserID,
		Evidence: answer.Evidence(),
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrEmptyQuestion) {
		writeError(w, http.StatusBadRequest, "validation_failed", domain.ErrEmptyQuestion.Error())
		return
	}

	// The pipeline degrades internally; anything surfacing here is a defect.
	s.logger.Error("unexpected pipeline error", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, answerResponse{
		Answer: pipelineuc.InternalErrorMessage,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
