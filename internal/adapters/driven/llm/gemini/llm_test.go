package gemini

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albertobertheau/lola-agent-app/internal/core/domain"
	"github.com/albertobertheau/lola-agent-app/internal/core/ports/driven"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *CompletionService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewCompletionService(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)
	return svc
}

func TestGenerate_ReturnsCandidateText(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-pro-latest:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"hola "},{"text":"mundo"}]}}]}`))
	})

	out, err := svc.Generate(context.Background(), "saluda", driven.GenerateOptions{})

	require.NoError(t, err)
	assert.Equal(t, "hola mundo", out)
}

func TestGenerate_QuotaErrorWrapsRateLimited(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"429 status", `{"error":{"code":429,"message":"too many requests","status":"RESOURCE_EXHAUSTED"}}`, http.StatusTooManyRequests},
		{"resource exhausted", `{"error":{"code":400,"message":"x","status":"RESOURCE_EXHAUSTED"}}`, http.StatusBadRequest},
		{"quota message", `{"error":{"code":403,"message":"Quota exceeded for requests","status":"PERMISSION_DENIED"}}`, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				w.Write([]byte(tt.body))
			})

			_, err := svc.Generate(context.Background(), "x", driven.GenerateOptions{})

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrRateLimited)
		})
	}
}

func TestGenerate_NonJSON429IsRateLimited(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("<html><body>Too Many Requests</body></html>"))
	})

	_, err := svc.Generate(context.Background(), "x", driven.GenerateOptions{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestGenerate_NonQuotaErrorIsNotRateLimited(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"invalid argument","status":"INVALID_ARGUMENT"}}`))
	})

	_, err := svc.Generate(context.Background(), "x", driven.GenerateOptions{})

	require.Error(t, err)
	assert.False(t, domain.IsRateLimited(err))
}

func TestGenerate_NoCandidates(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := svc.Generate(context.Background(), "x", driven.GenerateOptions{})

	require.Error(t, err)
}

func TestNewCompletionService_RequiresAPIKey(t *testing.T) {
	_, err := NewCompletionService(Config{})
	require.Error(t, err)
}
