package submissions

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gitlab.com/codechallenge.net/internal/core/ports/primary"
	"gitlab.com/codechallenge.net/internal/core/services/submission"
	"gitlab.com/codechallenge.net/internal/handlers"
	"gitlab.com/codechallenge.net/internal/handlers/response"
)

// SubmissionHandler handles submission API requests
type SubmissionHandler struct {
	submissionService submission.ISubmissionService
	logger            primary.Logger
}

func NewSubmissionHandler(submissionService submission.ISubmissionService, logger primary.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
		logger:            logger,
	}
}

// RegisterRoutes registers the API routes for SubmissionHandler
func (h *SubmissionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/submissions", h.Submit).Methods(http.MethodPost)
	router.HandleFunc("/api/submissions", h.ListSubmissions).Methods(http.MethodGet)
	router.HandleFunc("/api/submissions/{submissionId}", h.GetSubmission).Methods(http.MethodGet)
}

// Submit judges a submission synchronously and returns its result view
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submission.SubmitInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		response.WriteError(w, response.ErrorMessage{Message: "invalid request body", StatusCode: http.StatusBadRequest})
		return
	}

	result, err := h.submissionService.Submit(r.Context(), req)
	if err != nil {
		h.logger.Error("Failed to process submission", "challengeId", req.ChallengeID, "userId", req.UserID, "error", err)
		response.WriteError(w, response.FromError(err))
		return
	}

	handlers.ResponseWithJson(w, http.StatusCreated, result)
}

func (h *SubmissionHandler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["submissionId"])
	if err != nil {
		handlers.ResponseError(w, "invalid submission id", http.StatusBadRequest)
		return
	}

	sub, err := h.submissionService.GetSubmission(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get submission", "submissionId", id, "error", err)
		response.WriteError(w, response.FromError(err))
		return
	}

	handlers.ResponseWithJson(w, http.StatusOK, sub)
}

// ListSubmissions returns a user's newest submissions on a challenge
func (h *SubmissionHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			handlers.ResponseError(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	subs, err := h.submissionService.ListSubmissions(r.Context(), q.Get("userId"), q.Get("challengeId"), limit)
	if err != nil {
		h.logger.Error("Failed to list submissions", "userId", q.Get("userId"), "challengeId", q.Get("challengeId"), "error", err)
		response.WriteError(w, response.FromError(err))
		return
	}

	handlers.ResponseWithJson(w, http.StatusOK, subs)
}
