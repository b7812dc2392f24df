package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abokiste/abokiste/internal/api/models"
	"github.com/abokiste/abokiste/internal/api/response"
	"github.com/abokiste/abokiste/internal/recommend"
	"github.com/abokiste/abokiste/internal/user"
)

// UserHandler handles user account and recommendation endpoints.
type UserHandler struct {
	userService      *user.Service
	recommendService *recommend.Service
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *user.Service, recommendService *recommend.Service) *UserHandler {
	return &UserHandler{
		userService:      userService,
		recommendService: recommendService,
	}
}

// ListUsers handles GET /v1/users - list all accounts (admin only).
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		response.InternalError(w, r, "internal server error")
		return
	}

	out := make([]models.User, len(users))
	for i := range users {
		out[i] = toUser(&users[i])
	}
	response.JSON(w, r, http.StatusOK, out)
}

// GetUser handles GET /v1/users/{userId} - fetch a single account.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !canAccessUser(r.Context(), userID) {
		response.NotFound(w, r, "user")
		return
	}

	u, err := h.userService.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(w, r, "user")
			return
		}
		response.InternalError(w, r, "internal server error")
		return
	}

	response.JSON(w, r, http.StatusOK, toUser(u))
}

// UpdateUser handles PUT /v1/users/{userId} - partial account update.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !canAccessUser(r.Context(), userID) {
		response.NotFound(w, r, "user")
		return
	}

	var req models.UserUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	u, err := h.userService.Update(r.Context(), userID, &req)
	if err != nil {
		var validationErr *user.ValidationError
		switch {
		case errors.As(err, &validationErr):
			response.BadRequest(w, r, "validation error", validationErr.Errors)
		case errors.Is(err, user.ErrUserNotFound):
			response.NotFound(w, r, "user")
		case errors.Is(err, user.ErrEmailTaken):
			response.Conflict(w, r, "email address already registered")
		default:
			response.InternalError(w, r, "internal server error")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, toUser(u))
}

// DeleteUser handles DELETE /v1/users/{userId} - remove an account.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !canAccessUser(r.Context(), userID) {
		response.NotFound(w, r, "user")
		return
	}

	if err := h.userService.Delete(r.Context(), userID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(w, r, "user")
			return
		}
		response.InternalError(w, r, "internal server error")
		return
	}

	response.NoContent(w, r)
}

// UpdatePreferences handles PUT /v1/users/{userId}/preferences - merge
// category preferences into the user's existing list.
func (h *UserHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !canAccessUser(r.Context(), userID) {
		response.NotFound(w, r, "user")
		return
	}

	var req models.PreferencesUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if len(req.Preferences) == 0 {
		response.BadRequest(w, r, "preferences is required", nil)
		return
	}

	preferences, err := h.userService.UpdatePreferences(r.Context(), userID, req.Preferences)
	if err != nil {
		var validationErr *user.ValidationError
		switch {
		case errors.As(err, &validationErr):
			response.BadRequest(w, r, "validation error", validationErr.Errors)
		case errors.Is(err, user.ErrUserNotFound):
			response.NotFound(w, r, "user")
		case errors.Is(err, user.ErrNotRegularUser):
			response.Conflict(w, r, "only regular users have preferences")
		default:
			response.InternalError(w, r, "internal server error")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, toPreferences(preferences))
}

// DeletePreferences handles DELETE /v1/users/{userId}/preferences.
func (h *UserHandler) DeletePreferences(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !canAccessUser(r.Context(), userID) {
		response.NotFound(w, r, "user")
		return
	}

	if err := h.userService.DeletePreferences(r.Context(), userID); err != nil {
		switch {
		case errors.Is(err, user.ErrUserNotFound):
			response.NotFound(w, r, "user")
		case errors.Is(err, user.ErrNotRegularUser):
			response.Conflict(w, r, "only regular users have preferences")
		default:
			response.InternalError(w, r, "internal server error")
		}
		return
	}

	response.NoContent(w, r)
}

// Recommend handles GET /v1/users/abobox/{userId} - rank all abo boxes
// against the user's category preferences, best match first.
func (h *UserHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !canAccessUser(r.Context(), userID) {
		response.NotFound(w, r, "user")
		return
	}

	ranked, err := h.recommendService.Recommend(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(w, r, "user")
			return
		}
		response.InternalError(w, r, "internal server error")
		return
	}

	response.JSON(w, r, http.StatusOK, toRecommendation(userID, ranked))
}
