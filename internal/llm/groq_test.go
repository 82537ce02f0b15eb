package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-fitness-coach/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGroqClient(t *testing.T, handler http.HandlerFunc) *groqClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewGroqClient(&config.Config{GroqAPIKey: "groq_key"}).(*groqClient)
	c.apiURL = srv.URL
	return c
}

func TestGroqClient_GenerateContent(t *testing.T) {
	var got groqRequest
	c := newTestGroqClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer groq_key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"choices":[{"message":{"content":"{\"ok\":true}"}}],"usage":{"prompt_tokens":12,"completion_tokens":5,"total_tokens":17}}`))
	})

	resp, err := c.GenerateContent(context.Background(), Request{Prompt: "hi", JSON: true})
	require.NoError(t, err)

	assert.Equal(t, `{"ok":true}`, resp.Content)
	assert.Equal(t, 12, resp.Usage.PromptTokens)
	assert.Equal(t, 5, resp.Usage.CompletionTokens)
	assert.Equal(t, groqModel, resp.Usage.Model)
	assert.Equal(t, "json_object", got.ResponseFormat["type"])
	assert.Equal(t, "hi", got.Messages[0].Content)
}

func TestGroqClient_FreeTextOmitsResponseFormat(t *testing.T) {
	var raw map[string]any
	c := newTestGroqClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		w.Write([]byte(`{"choices":[{"message":{"content":"Keep your back straight."}}]}`))
	})

	resp, err := c.GenerateContent(context.Background(), Request{Prompt: "squat"})
	require.NoError(t, err)
	assert.Equal(t, "Keep your back straight.", resp.Content)
	assert.NotContains(t, raw, "response_format")
}

func TestGroqClient_Errors(t *testing.T) {
	t.Run("StatusError", func(t *testing.T) {
		c := newTestGroqClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		})
		_, err := c.GenerateContent(context.Background(), Request{Prompt: "hi"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status=429")
	})

	t.Run("NoChoices", func(t *testing.T) {
		c := newTestGroqClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[]}`))
		})
		_, err := c.GenerateContent(context.Background(), Request{Prompt: "hi"})
		assert.EqualError(t, err, "no content generated")
	})
}

func TestNewClient_UnknownProvider(t *testing.T) {
	_, err := NewClient(context.Background(), &config.Config{LLMProvider: "carrier-pigeon"})
	assert.Error(t, err)
}

func TestNewClient_Groq(t *testing.T) {
	c, err := NewClient(context.Background(), &config.Config{LLMProvider: config.ProviderGroq, GroqAPIKey: "k"})
	require.NoError(t, err)
	assert.NoError(t, c.Close())
}
