package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"

	"bias-assessment-service/internal/app"
	"bias-assessment-service/internal/assessment"
	"bias-assessment-service/internal/domain"
	"bias-assessment-service/internal/metrics"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// Handler serves the REST endpoints.
type Handler struct {
	service         *app.AssessmentService
	logger          *zap.Logger
	metrics         *metrics.Metrics
	exposeAnswerKey bool
}

func NewHandler(service *app.AssessmentService, logger *zap.Logger, m *metrics.Metrics, exposeAnswerKey bool) *Handler {
	return &Handler{service: service, logger: logger, metrics: m, exposeAnswerKey: exposeAnswerKey}
}

type errorResponse struct {
	Message string                  `json:"message"`
	Errors  []domain.FieldViolation `json:"errors,omitempty"`
}

type sessionResponse struct {
	SessionID string `json:"sessionId"`
}

// submitRequest mirrors the submission body. Score fields are accepted for
// compatibility and ignored.
type submitRequest struct {
	SessionID      string          `json:"sessionId"`
	Answers        []json.Number   `json:"answers"`
	TotalScore     *float64        `json:"totalScore,omitempty"`
	CategoryScores json.RawMessage `json:"categoryScores,omitempty"`
	CompletedAt    string          `json:"completedAt,omitempty"`
}

func (h *Handler) Questions(w http.ResponseWriter, r *http.Request) {
	if h.exposeAnswerKey {
		questions, err := h.service.Questions(r.Context())
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, questions)
		return
	}
	questions, err := h.service.PublicQuestions(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *Handler) Resources(w http.ResponseWriter, r *http.Request) {
	resources, err := h.service.Resources(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resources)
}

func (h *Handler) ResourceTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.service.ResourceTypes(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if types == nil {
		types = []domain.ResourceTypeCount{}
	}
	writeJSON(w, http.StatusOK, types)
}

func (h *Handler) NewSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusCreated, sessionResponse{SessionID: h.service.NewSessionID()})
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "request body too large or unreadable"})
		return
	}
	violations, err := validateSubmitBody(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "request body must be valid JSON"})
		return
	}
	if len(violations) > 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "validation failed", Errors: violations})
		return
	}

	var req submitRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "request body must be valid JSON"})
		return
	}
	answers, violations := answerSet(req.Answers)
	if len(violations) > 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "validation failed", Errors: violations})
		return
	}

	saved, err := h.service.Submit(r.Context(), app.Submission{
		SessionID:   req.SessionID,
		Answers:     answers,
		CompletedAt: req.CompletedAt,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.recordSubmission(saved)
	writeJSON(w, http.StatusOK, saved)
}

// answerSet converts schema-checked numbers to option indexes. JSON integers
// written with a fractional zero, such as 1.0, are accepted.
func answerSet(raw []json.Number) (domain.AnswerSet, []domain.FieldViolation) {
	out := make(domain.AnswerSet, len(raw))
	var violations []domain.FieldViolation
	for i, n := range raw {
		f, err := n.Float64()
		if err != nil || f != math.Trunc(f) || f < 0 || f > math.MaxInt32 {
			violations = append(violations, domain.FieldViolation{
				Field:   fmt.Sprintf("answers[%d]", i),
				Message: "must be a non-negative integer",
			})
			continue
		}
		out[i] = int(f)
	}
	return out, violations
}

func (h *Handler) Result(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Result(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) recordSubmission(saved domain.AssessmentResult) {
	tier := assessment.Interpret(saved.TotalScore).VisualTier
	h.metrics.ObserveSubmission(tier)
	h.logger.Info("assessment submitted",
		zap.String("session_id", saved.SessionID),
		zap.Int64("result_id", saved.ID),
		zap.Int("total_score", saved.TotalScore),
		zap.String("tier", string(tier)),
	)
}

// fail maps service errors onto status codes.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "validation failed", Errors: verr.Violations})
	case errors.Is(err, domain.ErrResultNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "result not found"})
	default:
		h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
