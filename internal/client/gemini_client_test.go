package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGeminiTestServer(t *testing.T, status int, body string, gotPrompt *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-test:generateContent"), r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		if gotPrompt != nil {
			var req struct {
				Contents []struct {
					Parts []struct {
						Text string `json:"text"`
					} `json:"parts"`
				} `json:"contents"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Len(t, req.Contents, 1)
			require.Len(t, req.Contents[0].Parts, 1)
			*gotPrompt = req.Contents[0].Parts[0].Text
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGeminiClientGenerate(t *testing.T) {
	var prompt string
	srv := newGeminiTestServer(t, http.StatusOK,
		`{"candidates":[{"content":{"role":"model","parts":[{"text":"Gravity pulls things down."}]}}]}`, &prompt)

	c := NewGeminiClient(srv.URL+"/", "gemini-test", 5, nil)
	text, err := c.Generate(context.Background(), GenerateRequest{APIKey: "test-key", Prompt: "Explain gravity"})

	require.NoError(t, err)
	assert.Equal(t, "Gravity pulls things down.", text)
	assert.Equal(t, "Explain gravity", prompt)
}

func TestGeminiClientNoCandidates(t *testing.T) {
	srv := newGeminiTestServer(t, http.StatusOK, `{"candidates":[]}`, nil)

	text, err := NewGeminiClient(srv.URL+"/", "gemini-test", 5, nil).Generate(context.Background(), GenerateRequest{APIKey: "test-key", Prompt: "p"})

	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestGeminiClientErrorClasses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{
			name:   "resource exhausted",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"code":429,"message":"quota","status":"RESOURCE_EXHAUSTED"}}`,
			want:   ErrRateLimited,
		},
		{
			name:   "permission denied",
			status: http.StatusForbidden,
			body:   `{"error":{"code":403,"message":"denied","status":"PERMISSION_DENIED"}}`,
			want:   ErrUnauthorized,
		},
		{
			name:   "invalid key",
			status: http.StatusBadRequest,
			body:   `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT","details":[{"reason":"API_KEY_INVALID"}]}}`,
			want:   ErrUnauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newGeminiTestServer(t, tt.status, tt.body, nil)

			_, err := NewGeminiClient(srv.URL+"/", "gemini-test", 5, nil).Generate(context.Background(), GenerateRequest{APIKey: "test-key", Prompt: "p"})

			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGeminiClientOtherFailure(t *testing.T) {
	srv := newGeminiTestServer(t, http.StatusInternalServerError,
		`{"error":{"code":500,"message":"internal","status":"INTERNAL"}}`, nil)

	_, err := NewGeminiClient(srv.URL+"/", "gemini-test", 5, nil).Generate(context.Background(), GenerateRequest{APIKey: "test-key", Prompt: "p"})

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRateLimited)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestGeminiClientDefaultModel(t *testing.T) {
	c := NewGeminiClient("", "", 5, nil)
	assert.Equal(t, DefaultGeminiModel, c.Model)
	assert.Equal(t, "gemini", c.Name())
}
