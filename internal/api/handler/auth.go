package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/abokiste/abokiste/internal/api/models"
	"github.com/abokiste/abokiste/internal/api/response"
	"github.com/abokiste/abokiste/internal/auth"
	"github.com/abokiste/abokiste/internal/user"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *auth.Service
	userService *user.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *auth.Service, userService *user.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

// Register handles POST /v1/auth/register - create a new account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	u, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		var validationErr *user.ValidationError
		switch {
		case errors.As(err, &validationErr):
			response.BadRequest(w, r, "validation error", validationErr.Errors)
		case errors.Is(err, user.ErrEmailTaken):
			response.Conflict(w, r, "email address already registered")
		default:
			response.InternalError(w, r, "registration failed")
		}
		return
	}

	response.Created(w, r, "/v1/users/"+u.ID, models.RegisterResponse{UserID: u.ID})
}

// Login handles POST /v1/auth/login - authenticate with email and password.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if req.Email == "" || req.Password == "" {
		var fieldErrors []models.FieldError
		if req.Email == "" {
			fieldErrors = append(fieldErrors, models.FieldError{Field: "email", Message: "is required"})
		}
		if req.Password == "" {
			fieldErrors = append(fieldErrors, models.FieldError{Field: "password", Message: "is required"})
		}
		response.BadRequest(w, r, "validation error", fieldErrors)
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			response.Unauthorized(w, r, "invalid email or password")
			return
		}
		response.InternalError(w, r, "authentication failed")
		return
	}

	response.JSON(w, r, http.StatusOK, models.LoginResponse{
		Status:    "success",
		Token:     result.Token,
		ExpiresAt: models.Timestamp(result.ExpiresAt),
		User:      toUser(result.User),
	})
}
