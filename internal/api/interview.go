package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/interviewsim/backend/internal/domain"
	"github.com/interviewsim/backend/internal/identity"
	"github.com/interviewsim/backend/internal/parse"
)

// RegisterRoutes mounts the interview API endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/submit_interview", h.SubmitInterview)
	r.Post("/generate_question", h.GenerateQuestion)
	r.Post("/evaluate_answer", h.EvaluateAnswer)
	r.Get("/interview_results", h.ListResults)
	r.Get("/interview_results/{id}", h.GetResult)
}

type submitRequest struct {
	Transcript    string `json:"transcript"`
	CandidateCode string `json:"candidateCode"`
}

type submitResponse struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// SubmitInterview scores a completed interview from the submitted transcript
// and candidate code.
func (h *Handler) SubmitInterview(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	candidateID := identity.CandidateIDFromContext(r.Context())
	sess := h.registry.Get(candidateID)

	result, err := h.svc.Submit(r.Context(), sess, candidateID, req.Transcript, req.CandidateCode)
	if err != nil {
		slog.Error("failed to score interview", "candidate_id", candidateID, "error", err)
		Error(w, http.StatusInternalServerError, "Failed to generate score and feedback. Please try again.")
		return
	}

	JSON(w, http.StatusOK, submitResponse{Score: result.Score, Feedback: result.Feedback})
}

type generateQuestionRequest struct {
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
}

// GenerateQuestion produces a standalone interview question for the given
// topic and difficulty.
func (h *Handler) GenerateQuestion(w http.ResponseWriter, r *http.Request) {
	var req generateQuestionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	q, err := h.svc.GenerateQuestion(r.Context(), req.Topic, req.Difficulty)
	if err != nil {
		var malformed *parse.MalformedError
		if errors.As(err, &malformed) {
			slog.Warn("question generation produced malformed output", "error", err)
			Error(w, http.StatusInternalServerError, "Failed to generate question. Please try again.")
			return
		}
		slog.Error("failed to generate question", "error", err)
		Error(w, http.StatusInternalServerError, "Failed to generate question. Please try again.")
		return
	}

	JSON(w, http.StatusOK, q)
}

type evaluateRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Solution string `json:"solution"`
}

// EvaluateAnswer grades one answer against a reference solution.
func (h *Handler) EvaluateAnswer(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" || req.Answer == "" {
		Error(w, http.StatusBadRequest, "question and answer are required")
		return
	}

	scored, err := h.svc.EvaluateAnswer(r.Context(), req.Question, req.Answer, req.Solution)
	if err != nil {
		slog.Error("failed to evaluate answer", "error", err)
		Error(w, http.StatusInternalServerError, "Failed to evaluate answer. Please try again.")
		return
	}

	JSON(w, http.StatusOK, submitResponse{Score: scored.Score, Feedback: scored.Feedback})
}

// maxListLimit bounds the results page size regardless of the query param.
const maxListLimit = 200

// ListResults returns recent archived interview results.
func (h *Handler) ListResults(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	results, err := h.repo.ListResults(r.Context(), limit)
	if err != nil {
		slog.Error("failed to list interview results", "error", err)
		Error(w, http.StatusInternalServerError, "failed to list results")
		return
	}
	if results == nil {
		results = []*domain.Result{}
	}

	JSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

// GetResult returns one archived interview result.
func (h *Handler) GetResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.repo.GetResult(r.Context(), id)
	if err != nil {
		slog.Error("failed to load interview result", "result_id", id, "error", err)
		Error(w, http.StatusInternalServerError, "failed to load result")
		return
	}
	if result == nil {
		Error(w, http.StatusNotFound, "result not found")
		return
	}

	JSON(w, http.StatusOK, result)
}
