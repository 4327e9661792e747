package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"pet-clinic-billing/internal/middleware"
	"pet-clinic-billing/internal/platform/logger"
	"pet-clinic-billing/internal/ports/auth"
)

type stubVerifier struct{}

func (stubVerifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if token != "t-1" {
		return auth.Claims{}, assert.AnError
	}
	return auth.Claims{UserID: "user-from-token"}, nil
}

func whoAmI(w http.ResponseWriter, r *http.Request) {
	c, ok := middleware.GetClaims(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	_, _ = w.Write([]byte(c.UserID))
}

func TestAuthContext(t *testing.T) {
	tests := []struct {
		name     string
		verifier auth.AuthVerifier
		headers  map[string]string
		status   int
		body     string
	}{
		{name: "dev header", headers: map[string]string{"X-Debug-User-ID": "u1"}, status: http.StatusOK, body: "u1"},
		{name: "dev without header", status: http.StatusUnauthorized},
		{name: "bearer ok", verifier: stubVerifier{}, headers: map[string]string{"Authorization": "Bearer t-1"}, status: http.StatusOK, body: "user-from-token"},
		{name: "bearer rejected", verifier: stubVerifier{}, headers: map[string]string{"Authorization": "Bearer nope"}, status: http.StatusUnauthorized},
		{name: "debug header ignored with verifier", verifier: stubVerifier{}, headers: map[string]string{"X-Debug-User-ID": "u1"}, status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := middleware.AuthContext(tt.verifier)(http.HandlerFunc(whoAmI))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(zap.New(core)))
	r.Get("/teapot", func(w http.ResponseWriter, r *http.Request) {
		logger.Get(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "inside handler", entries[0].Message)
	assert.NotEmpty(t, entries[0].ContextMap()["request_id"])

	fields := entries[1].ContextMap()
	assert.Equal(t, "http request", entries[1].Message)
	assert.Equal(t, "/teapot", fields["path"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
}
