package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/company-insight/internal/domain/analysis"
)

func newServer(t *testing.T, status int, body string, got *openai.ChatCompletionRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if got != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerate(t *testing.T) {
	var req openai.ChatCompletionRequest
	srv := newServer(t, http.StatusOK,
		`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"## Outlook"}}]}`, &req)

	c := NewClient("test-key", "", srv.URL+"/v1")
	text, err := c.Generate(context.Background(), "future please", "analyst persona")
	require.NoError(t, err)
	assert.Equal(t, "## Outlook", text)

	assert.Equal(t, DefaultModel, req.Model)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
	assert.Equal(t, "analyst persona", req.Messages[0].Content)
	assert.Equal(t, "future please", req.Messages[1].Content)
	assert.Equal(t, maxTokens, req.MaxTokens)
}

func TestGenerate_ReasoningModelUsesCompletionTokens(t *testing.T) {
	var req openai.ChatCompletionRequest
	srv := newServer(t, http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`, &req)

	_, err := NewClient("test-key", "o3-mini", srv.URL+"/v1").Generate(context.Background(), "p", "s")
	require.NoError(t, err)
	assert.Equal(t, maxTokens, req.MaxCompletionTokens)
	assert.Zero(t, req.MaxTokens)
}

func TestGenerate_NoChoices(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"choices":[]}`, nil)

	text, err := NewClient("test-key", "", srv.URL+"/v1").Generate(context.Background(), "p", "s")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestGenerate_QuotaExceeded(t *testing.T) {
	srv := newServer(t, http.StatusTooManyRequests,
		`{"error":{"message":"You exceeded your current quota","type":"insufficient_quota","code":"insufficient_quota"}}`, nil)

	_, err := NewClient("test-key", "", srv.URL+"/v1").Generate(context.Background(), "p", "s")
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
}

func TestIsReasoningModel(t *testing.T) {
	assert.True(t, isReasoningModel("o1-preview"))
	assert.True(t, isReasoningModel("gpt-5-mini"))
	assert.False(t, isReasoningModel("gpt-4o"))
}
