package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/company-insight/internal/domain/analysis"
)

func newGeminiServer(t *testing.T, status int, body string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-2.5-flash:generateContent"), r.URL.Path)
		if seen != nil {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerate_ReturnsText(t *testing.T) {
	var req map[string]any
	srv := newGeminiServer(t, http.StatusOK,
		`{"candidates":[{"content":{"role":"model","parts":[{"text":"**Milestone:** 2011 founding."}]}}]}`, &req)

	c := NewClient("test-key", "", srv.URL)
	assert.Equal(t, DefaultModel, c.Model())

	text, err := c.Generate(context.Background(), "history please", "be an analyst")
	require.NoError(t, err)
	assert.Equal(t, "**Milestone:** 2011 founding.", text)

	raw, _ := json.Marshal(req)
	assert.Contains(t, string(raw), "history please")
	assert.Contains(t, string(raw), "be an analyst")
	assert.Contains(t, req, "systemInstruction")
}

func TestGenerate_NoCandidates(t *testing.T) {
	srv := newGeminiServer(t, http.StatusOK, `{"candidates":[]}`, nil)

	text, err := NewClient("test-key", "gemini-2.5-flash", srv.URL).Generate(context.Background(), "p", "s")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestGenerate_QuotaExceeded(t *testing.T) {
	srv := newGeminiServer(t, http.StatusTooManyRequests,
		`{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED"}}`, nil)

	_, err := NewClient("test-key", "", srv.URL).Generate(context.Background(), "p", "s")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
}

func TestGenerate_ServerError(t *testing.T) {
	srv := newGeminiServer(t, http.StatusInternalServerError,
		`{"error":{"code":500,"message":"internal","status":"INTERNAL"}}`, nil)

	_, err := NewClient("test-key", "", srv.URL).Generate(context.Background(), "p", "s")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrQuotaExceeded)
}

func TestGenerate_MissingKeyFailsPerCall(t *testing.T) {
	c := NewClient("", "", "")
	_, err := c.Generate(context.Background(), "p", "s")
	assert.ErrorContains(t, err, "API key")
}
