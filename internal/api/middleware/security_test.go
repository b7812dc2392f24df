package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abokiste/abokiste/internal/api/middleware"
)

func secureRequest(t *testing.T, handler http.Handler, proto string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/v1/suppliers", http.NoBody)
	if proto != "" {
		req.Header.Set("X-Forwarded-Proto", proto)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestSecurityHeaders(t *testing.T) {
	handler := middleware.SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := secureRequest(t, handler, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	want := map[string]string{
		"X-Content-Type-Options":    "nosniff",
		"X-Frame-Options":           "DENY",
		"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
		"Content-Security-Policy":   "default-src 'none'; frame-ancestors 'none'",
		"Referrer-Policy":           "strict-origin-when-cross-origin",
		"Permissions-Policy":        "geolocation=(), camera=(), microphone=()",
	}
	for header, value := range want {
		assert.Equal(t, value, rec.Header().Get(header), header)
	}
}

func TestSecurityHeaders_PreservesHandlerHeaders(t *testing.T) {
	handler := middleware.SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Inventory-Cycle", "weekly")
		w.WriteHeader(http.StatusOK)
	}))

	rec := secureRequest(t, handler, "")
	assert.Equal(t, "weekly", rec.Header().Get("X-Inventory-Cycle"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestRequireTLS(t *testing.T) {
	tests := []struct {
		name       string
		requireTLS string
		proto      string
		wantStatus int
	}{
		{
			name:       "disabled allows plain http",
			requireTLS: "",
			proto:      "http",
			wantStatus: http.StatusOK,
		},
		{
			name:       "enabled rejects plain http",
			requireTLS: "true",
			proto:      "http",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "enabled allows https",
			requireTLS: "true",
			proto:      "https",
			wantStatus: http.StatusOK,
		},
		{
			// Direct connections and local dev carry no proxy header.
			name:       "enabled allows missing header",
			requireTLS: "true",
			proto:      "",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("REQUIRE_TLS", tt.requireTLS)

			handler := middleware.RequireTLS(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			rec := secureRequest(t, handler, tt.proto)
			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusForbidden {
				assert.Contains(t, rec.Body.String(), "TLS required")
				assert.Contains(t, rec.Body.String(), "This endpoint requires HTTPS")
			}
		})
	}
}
