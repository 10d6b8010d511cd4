package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if subject, ok := Subject(r.Context()); ok {
			w.Header().Set("X-Subject", subject)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuth(t *testing.T) {
	const secret = "s3cret"
	handler := Auth(secret)(okHandler())

	valid, err := IssueToken(secret, "ops", time.Minute)
	require.NoError(t, err)
	expired, err := IssueToken(secret, "ops", -time.Minute)
	require.NoError(t, err)
	foreign, err := IssueToken("other", "ops", time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		header string
		want   int
	}{
		{"get passes without token", http.MethodGet, "/orders/1", "", http.StatusNoContent},
		{"health passes", http.MethodPost, "/health", "", http.StatusNoContent},
		{"post without token", http.MethodPost, "/orders", "", http.StatusUnauthorized},
		{"malformed header", http.MethodPost, "/orders", "Token " + valid, http.StatusUnauthorized},
		{"expired token", http.MethodPost, "/orders", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong secret", http.MethodPost, "/orders", "Bearer " + foreign, http.StatusUnauthorized},
		{"valid token", http.MethodPost, "/orders", "Bearer " + valid, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestAuth_PutsSubjectInContext(t *testing.T) {
	token, err := IssueToken("k", "alice", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/orders/1/items/2", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	Auth("k")(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, "alice", rec.Header().Get("X-Subject"))
}

func TestRateLimit(t *testing.T) {
	handler := RateLimit(1)(okHandler())

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, first.Code)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
}

func TestRateLimit_Disabled(t *testing.T) {
	handler := RateLimit(0)(okHandler())
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := RequestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/orders", nil))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.ErrorLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(500), fields["status"])
	assert.Equal(t, int64(4), fields["bytes"])
	assert.Equal(t, "/orders", fields["path"])
}
