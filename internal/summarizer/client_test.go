package summarizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSummarize(t *testing.T) {
	var gotReq messagesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, apiVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_01ABC",
			"model": "claude-3-5-haiku-20241022",
			"content": [{"type": "text", "text": "A productive week."}],
			"usage": {"input_tokens": 321, "output_tokens": 77}
		}`))
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, zap.NewNop())

	summary, err := client.Summarize(context.Background(), "summarize this")
	require.NoError(t, err)

	assert.Equal(t, defaultModel, gotReq.Model)
	assert.Equal(t, defaultMaxTokens, gotReq.MaxTokens)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)

	assert.Equal(t, "A productive week.", summary.Text)
	assert.Equal(t, "msg_01ABC", summary.Usage.RequestID)
	assert.Equal(t, "claude-3-5-haiku-20241022", summary.Usage.Model)
	assert.Equal(t, int64(321), summary.Usage.InputTokens)
	assert.Equal(t, int64(77), summary.Usage.OutputTokens)
}

func TestSummarize_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"type": "rate_limit_error"}}`))
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, zap.NewNop())

	_, err := client.Summarize(context.Background(), "summarize this")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}
