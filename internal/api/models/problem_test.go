package models_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abokiste/abokiste/internal/api/models"
)

func TestNewProblem(t *testing.T) {
	p := models.NewProblem(
		models.ProblemTypeValidation,
		"Validation error",
		http.StatusBadRequest,
		"req_test123",
	)

	assert.Equal(t, models.ProblemTypeValidation, p.Type)
	assert.Equal(t, "Validation error", p.Title)
	assert.Equal(t, http.StatusBadRequest, p.Status)
	assert.Equal(t, "req_test123", p.TraceID)
	assert.Empty(t, p.Detail)
	assert.Empty(t, p.Instance)
	assert.Nil(t, p.Errors)
}

func TestProblem_Builders(t *testing.T) {
	fieldErrors := []models.FieldError{
		{Field: "stockLevel", Message: "must not be negative", Code: "OUT_OF_RANGE"},
		{Field: "supplierId", Message: "required", Code: "REQUIRED"},
	}

	p := models.NewProblem(
		models.ProblemTypeValidation,
		"Validation error",
		http.StatusBadRequest,
		"req_test123",
	).
		WithDetail("stockLevel must not be negative").
		WithInstance("/v1/products").
		WithErrors(fieldErrors)

	assert.Equal(t, "stockLevel must not be negative", p.Detail)
	assert.Equal(t, "/v1/products", p.Instance)
	require.Len(t, p.Errors, 2)
	assert.Equal(t, "stockLevel", p.Errors[0].Field)
	assert.Equal(t, "must not be negative", p.Errors[0].Message)
	assert.Equal(t, "OUT_OF_RANGE", p.Errors[0].Code)
}

func TestProblem_Write(t *testing.T) {
	p := models.NewBadRequest("req_test123", "invalid input", []models.FieldError{
		{Field: "email", Message: "invalid format"},
	})
	p.Instance = "/v1/users/register"

	w := httptest.NewRecorder()
	p.Write(w)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	assert.Equal(t, "req_test123", w.Header().Get("X-Request-Id"))

	var result models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	assert.Equal(t, models.ProblemTypeValidation, result.Type)
	assert.Equal(t, "Validation error", result.Title)
	assert.Equal(t, http.StatusBadRequest, result.Status)
	assert.Equal(t, "invalid input", result.Detail)
	assert.Equal(t, "/v1/users/register", result.Instance)
	assert.Equal(t, "req_test123", result.TraceID)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "email", result.Errors[0].Field)
}

func TestProblemConstructors(t *testing.T) {
	tests := []struct {
		name       string
		problem    *models.Problem
		wantType   string
		wantTitle  string
		wantStatus int
		wantDetail string
	}{
		{
			name:       "bad request",
			problem:    models.NewBadRequest("req_123", "invalid data", nil),
			wantType:   models.ProblemTypeValidation,
			wantTitle:  "Validation error",
			wantStatus: http.StatusBadRequest,
			wantDetail: "invalid data",
		},
		{
			name:       "unauthorized",
			problem:    models.NewUnauthorized("req_123", "token expired"),
			wantType:   models.ProblemTypeUnauthorized,
			wantTitle:  "Unauthorized",
			wantStatus: http.StatusUnauthorized,
			wantDetail: "token expired",
		},
		{
			name:       "forbidden",
			problem:    models.NewForbidden("req_123", "supplier role required"),
			wantType:   models.ProblemTypeForbidden,
			wantTitle:  "Forbidden",
			wantStatus: http.StatusForbidden,
			wantDetail: "supplier role required",
		},
		{
			name:       "not found",
			problem:    models.NewNotFound("req_123", "abobox not found"),
			wantType:   models.ProblemTypeNotFound,
			wantTitle:  "Not found",
			wantStatus: http.StatusNotFound,
			wantDetail: "abobox not found",
		},
		{
			name:       "conflict",
			problem:    models.NewConflict("req_123", "email already registered"),
			wantType:   models.ProblemTypeConflict,
			wantTitle:  "Conflict",
			wantStatus: http.StatusConflict,
			wantDetail: "email already registered",
		},
		{
			name:       "too many requests",
			problem:    models.NewTooManyRequests("req_123", "rate limit exceeded"),
			wantType:   models.ProblemTypeTooManyRequests,
			wantTitle:  "Too many requests",
			wantStatus: http.StatusTooManyRequests,
			wantDetail: "rate limit exceeded",
		},
		{
			name:       "internal error",
			problem:    models.NewInternalError("req_123", "database error"),
			wantType:   models.ProblemTypeInternal,
			wantTitle:  "Internal server error",
			wantStatus: http.StatusInternalServerError,
			wantDetail: "database error",
		},
		{
			name:       "service unavailable",
			problem:    models.NewServiceUnavailable("req_123", "upstream unavailable"),
			wantType:   models.ProblemTypeUnavailable,
			wantTitle:  "Service unavailable",
			wantStatus: http.StatusServiceUnavailable,
			wantDetail: "upstream unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.problem.Type)
			assert.Equal(t, tt.wantTitle, tt.problem.Title)
			assert.Equal(t, tt.wantStatus, tt.problem.Status)
			assert.Equal(t, tt.wantDetail, tt.problem.Detail)
			assert.Equal(t, "req_123", tt.problem.TraceID)
		})
	}
}
