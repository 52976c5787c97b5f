package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"pantry-chef/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) config.LLMConfig {
	return config.LLMConfig{
		APIKey:    "sk-test",
		Model:     "gpt-4o-mini",
		BaseURL:   baseURL,
		MaxTokens: 512,
		Timeout:   5 * time.Second,
	}
}

func TestNewProvider_NoKeyMeansNoProvider(t *testing.T) {
	assert.Nil(t, NewProvider(config.LLMConfig{}))
	assert.NotNil(t, NewProvider(testConfig("http://localhost")))
}

func TestComplete_SendsChatCompletion(t *testing.T) {
	var got chatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"gpt-4o-mini-2024","choices":[{"message":{"role":"assistant","content":"  {\"title\":\"X\"}  "}}],"usage":{"total_tokens":42}}`))
	}))
	defer ts.Close()

	c := NewClient(testConfig(ts.URL))
	resp, err := c.Complete(context.Background(), &Request{System: "sys", User: "usr", Temperature: 0.5})
	require.NoError(t, err)

	assert.Equal(t, `{"title":"X"}`, resp.Content)
	assert.Equal(t, "gpt-4o-mini-2024", resp.Model)
	assert.Equal(t, 42, resp.Usage.TotalTokens)

	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "sys", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "usr", got.Messages[1].Content)
	assert.Equal(t, 0.5, got.Temperature)
	assert.Equal(t, 512, got.MaxTokens)
	assert.Equal(t, "gpt-4o-mini", got.Model)
}

func TestComplete_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		errPart string
	}{
		{
			name:    "non-2xx status with api error body",
			status:  http.StatusUnauthorized,
			body:    `{"error":{"message":"bad key","type":"auth"}}`,
			errPart: "status 401: bad key",
		},
		{
			name:    "no choices",
			status:  http.StatusOK,
			body:    `{"choices":[]}`,
			errPart: "no choices",
		},
		{
			name:    "empty content",
			status:  http.StatusOK,
			body:    `{"choices":[{"message":{"content":"   "}}]}`,
			errPart: "empty content",
		},
		{
			name:    "malformed envelope",
			status:  http.StatusOK,
			body:    `not json`,
			errPart: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			_, err := NewClient(testConfig(ts.URL)).Complete(context.Background(), &Request{User: "x"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestComplete_DoesNotRetry(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	_, err := NewClient(testConfig(ts.URL)).Complete(context.Background(), &Request{User: "x"})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
