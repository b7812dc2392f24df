package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abokiste/abokiste/internal/api/models"
	"github.com/abokiste/abokiste/internal/api/response"
	"github.com/abokiste/abokiste/internal/catalog"
	"github.com/abokiste/abokiste/internal/feedback"
)

// FeedbackHandler handles abo box feedback endpoints.
type FeedbackHandler struct {
	feedbackService *feedback.Service
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(feedbackService *feedback.Service) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// CreateFeedback handles POST /v1/aboboxes/{aboBoxId}/feedback.
func (h *FeedbackHandler) CreateFeedback(w http.ResponseWriter, r *http.Request) {
	aboBoxID := chi.URLParam(r, "aboBoxId")
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	var req models.FeedbackCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	f, err := h.feedbackService.Create(r.Context(), userID, aboBoxID, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, feedback.ErrInvalidRating):
			response.BadRequest(w, r, "rating must be between 1 and 5", []models.FieldError{
				{Field: "rating", Message: "must be between 1 and 5"},
			})
		case errors.Is(err, catalog.ErrAboBoxNotFound):
			response.NotFound(w, r, "abo box")
		case errors.Is(err, feedback.ErrDuplicateFeedback):
			response.Conflict(w, r, "you have already rated this abo box")
		default:
			response.InternalError(w, r, "internal server error")
		}
		return
	}

	response.Created(w, r, "", toFeedback(f))
}

// ListFeedback handles GET /v1/aboboxes/{aboBoxId}/feedback.
func (h *FeedbackHandler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	aboBoxID := chi.URLParam(r, "aboBoxId")

	entries, err := h.feedbackService.ListByAboBox(r.Context(), aboBoxID)
	if err != nil {
		if errors.Is(err, catalog.ErrAboBoxNotFound) {
			response.NotFound(w, r, "abo box")
			return
		}
		response.InternalError(w, r, "internal server error")
		return
	}

	out := make([]models.Feedback, len(entries))
	for i := range entries {
		out[i] = toFeedback(&entries[i])
	}
	response.JSON(w, r, http.StatusOK, out)
}
