package response_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abokiste/abokiste/internal/api/middleware"
	"github.com/abokiste/abokiste/internal/api/models"
	"github.com/abokiste/abokiste/internal/api/response"
)

// tracedRequest runs a request through the RequestID middleware so the
// context carries a request id, the way handlers see it in production.
func tracedRequest(t *testing.T, method, path string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	req := httptest.NewRequest(method, path, http.NoBody)

	var traced *http.Request
	middleware.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		traced = r
	})).ServeHTTP(httptest.NewRecorder(), req)

	return traced, httptest.NewRecorder()
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) models.Problem {
	t.Helper()

	var problem models.Problem
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&problem))
	return problem
}

func TestJSON(t *testing.T) {
	req, rec := tracedRequest(t, http.MethodGet, "/v1/products")

	response.JSON(rec, req, http.StatusOK, map[string]string{"name": "Herbal Tea"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	requestID := rec.Header().Get("X-Request-Id")
	assert.NotEmpty(t, requestID)
	assert.Contains(t, requestID, "req_")
}

func TestJSON_WithoutRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/products", http.NoBody)
	rec := httptest.NewRecorder()

	response.JSON(rec, req, http.StatusOK, map[string]string{"name": "Herbal Tea"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Request-Id"))
}

func TestJSON_NilData(t *testing.T) {
	req, rec := tracedRequest(t, http.MethodGet, "/v1/products")

	response.JSON(rec, req, http.StatusOK, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func TestCreated(t *testing.T) {
	req, rec := tracedRequest(t, http.MethodPost, "/v1/orders")

	response.Created(rec, req, "/v1/orders/ord_abc123", map[string]string{"id": "ord_abc123"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/v1/orders/ord_abc123", rec.Header().Get("Location"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestAccepted(t *testing.T) {
	req, rec := tracedRequest(t, http.MethodPost, "/v1/suppliers/sup_1/reports")

	response.Accepted(rec, req, "/v1/suppliers/sup_1/reports/rep_1", map[string]string{"status": "pending"})

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "/v1/suppliers/sup_1/reports/rep_1", rec.Header().Get("Location"))
}

func TestNoContent(t *testing.T) {
	req, rec := tracedRequest(t, http.MethodDelete, "/v1/products/prd_1")

	response.NoContent(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	assert.Zero(t, rec.Body.Len())
}

func TestBadRequest(t *testing.T) {
	req, rec := tracedRequest(t, http.MethodPost, "/v1/products")

	response.BadRequest(rec, req, "validation failed", []models.FieldError{
		{Field: "name", Message: "is required"},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	problem := decodeProblem(t, rec)
	assert.NotEmpty(t, problem.TraceID)
	assert.Equal(t, "/v1/products", problem.Instance)
	require.Len(t, problem.Errors, 1)
	assert.Equal(t, "name", problem.Errors[0].Field)
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name       string
		respond    func(w http.ResponseWriter, r *http.Request)
		wantStatus int
		wantType   string
	}{
		{
			name: "unauthorized",
			respond: func(w http.ResponseWriter, r *http.Request) {
				response.Unauthorized(w, r, "invalid token")
			},
			wantStatus: http.StatusUnauthorized,
			wantType:   models.ProblemTypeUnauthorized,
		},
		{
			name: "forbidden",
			respond: func(w http.ResponseWriter, r *http.Request) {
				response.Forbidden(w, r, "admin role required")
			},
			wantStatus: http.StatusForbidden,
			wantType:   models.ProblemTypeForbidden,
		},
		{
			name: "not found",
			respond: func(w http.ResponseWriter, r *http.Request) {
				response.NotFound(w, r, "abobox not found")
			},
			wantStatus: http.StatusNotFound,
			wantType:   models.ProblemTypeNotFound,
		},
		{
			name: "conflict",
			respond: func(w http.ResponseWriter, r *http.Request) {
				response.Conflict(w, r, "email already registered")
			},
			wantStatus: http.StatusConflict,
			wantType:   models.ProblemTypeConflict,
		},
		{
			name: "internal error",
			respond: func(w http.ResponseWriter, r *http.Request) {
				response.InternalError(w, r, "something went wrong")
			},
			wantStatus: http.StatusInternalServerError,
			wantType:   models.ProblemTypeInternal,
		},
		{
			name: "service unavailable",
			respond: func(w http.ResponseWriter, r *http.Request) {
				response.ServiceUnavailable(w, r, "procurement webhook unreachable")
			},
			wantStatus: http.StatusServiceUnavailable,
			wantType:   models.ProblemTypeUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := tracedRequest(t, http.MethodGet, "/v1/aboboxes/box_1")

			tt.respond(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

			problem := decodeProblem(t, rec)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, "/v1/aboboxes/box_1", problem.Instance)
			assert.NotEmpty(t, problem.TraceID)
		})
	}
}

func TestTooManyRequests_WithInfo(t *testing.T) {
	req, rec := tracedRequest(t, http.MethodGet, "/v1/users/abobox/usr_1")

	response.TooManyRequestsWithInfo(rec, req, "rate limit exceeded", &response.RateLimitInfo{
		Limit:      100,
		Remaining:  0,
		ResetAt:    1704067200,
		RetryAfter: 60,
	})

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "100", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "1704067200", rec.Header().Get("X-RateLimit-Reset"))
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	problem := decodeProblem(t, rec)
	assert.Equal(t, http.StatusTooManyRequests, problem.Status)
}

func TestTooManyRequests_WithoutInfo(t *testing.T) {
	req, rec := tracedRequest(t, http.MethodGet, "/v1/users/abobox/usr_1")

	response.TooManyRequests(rec, req, "rate limit exceeded")

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	assert.Empty(t, rec.Header().Get("Retry-After"))
}

func TestRequestIDPropagation(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/products", http.NoBody)
	req.Header.Set("X-Request-Id", "req_from_client")

	var traced *http.Request
	middleware.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		traced = r
	})).ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, "req_from_client", middleware.GetRequestID(traced.Context()))

	rec := httptest.NewRecorder()
	response.JSON(rec, traced, http.StatusOK, map[string]string{"status": "ok"})

	assert.Equal(t, "req_from_client", rec.Header().Get("X-Request-Id"))
}

func TestGetRequestID_EmptyContext(t *testing.T) {
	assert.Empty(t, middleware.GetRequestID(context.Background()))
}
