package reply

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReply(t *testing.T) {
	var gotReq apiRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, apiVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := apiResponse{
			Content: []apiContentBlock{
				{Type: "text", Text: "Hi! Thanks for reaching out. "},
				{Type: "text", Text: "You can join right on the site."},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	g := New("test-key", "test-model", 512, "be nice", WithAPIURL(srv.URL))

	draft, err := g.GenerateReply(context.Background(), "How do I join?")
	require.NoError(t, err)
	assert.Equal(t, "Hi! Thanks for reaching out. You can join right on the site.", draft)

	assert.Equal(t, "test-model", gotReq.Model)
	assert.Equal(t, 512, gotReq.MaxTokens)
	assert.Equal(t, "be nice", gotReq.System)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Equal(t, "How do I join?", gotReq.Messages[0].Content)
}

func TestGenerateReplyAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"type": "rate_limit_error", "message": "slow down"}}`))
	}))
	defer srv.Close()

	g := New("k", "", 0, "", WithAPIURL(srv.URL))

	_, err := g.GenerateReply(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slow down")
}

func TestGenerateReplyEmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(apiResponse{})
	}))
	defer srv.Close()

	g := New("k", "", 0, "", WithAPIURL(srv.URL))

	_, err := g.GenerateReply(context.Background(), "hello")
	assert.Error(t, err)
}

func TestLoadSystemPrompt(t *testing.T) {
	got, err := LoadSystemPrompt("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSystemPrompt, got)

	dir := t.TempDir()
	path := filepath.Join(dir, "prompt.txt")
	require.NoError(t, os.WriteFile(path, []byte("  custom persona\n"), 0o644))

	got, err = LoadSystemPrompt(path)
	require.NoError(t, err)
	assert.Equal(t, "custom persona", got)

	_, err = LoadSystemPrompt(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}
