package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sakhi-app/core/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DisabledWithoutKey(t *testing.T) {
	for _, cfg := range []config.AIConfig{
		{Provider: ProviderAnthropic},
		{Provider: ProviderNone, APIKey: "k"},
		{Provider: "", APIKey: "k"},
	} {
		c := New(cfg, nil)
		assert.False(t, c.Enabled())
		_, err := c.Complete(context.Background(), "s", "p")
		assert.ErrorIs(t, err, ErrNotConfigured)
	}
}

func TestNew_BuildsJetifyModels(t *testing.T) {
	c := New(config.AIConfig{Provider: "Anthropic", APIKey: "k"}, nil)
	assert.True(t, c.Enabled())
	assert.NotNil(t, c.model)

	c = New(config.AIConfig{Provider: "openai", APIKey: "k", Endpoint: "https://proxy.example.com"}, nil)
	assert.True(t, c.Enabled())
	assert.NotNil(t, c.model)
}

func TestComplete_OpenAICompatible(t *testing.T) {
	var got struct {
		Model     string        `json:"model"`
		Messages  []chatMessage `json:"messages"`
		MaxTokens int           `json:"max_tokens"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Drink water.  "}}]}`))
	}))
	defer srv.Close()

	c := New(config.AIConfig{
		Provider:  "openai_compatible",
		APIKey:    "secret",
		Endpoint:  srv.URL + "/v1/",
		Model:     "local-model",
		MaxTokens: 123,
	}, nil)
	out, err := c.Complete(context.Background(), "You are Sakhi.", "Hi")
	require.NoError(t, err)
	assert.Equal(t, "Drink water.", out)

	assert.Equal(t, "local-model", got.Model)
	assert.Equal(t, 123, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "Hi", got.Messages[1].Content)
}

func TestComplete_OpenAICompatibleErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("Authorization") {
		case "Bearer slow":
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"late"}}]}`))
		case "Bearer empty":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[]}`))
		default:
			http.Error(w, `{"error":{"message":"bad key"}}`, http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	c := New(config.AIConfig{Provider: ProviderOpenAICompatible, APIKey: "nope", Endpoint: srv.URL}, nil)
	_, err := c.Complete(context.Background(), "", "x")
	assert.Error(t, err)

	c = New(config.AIConfig{Provider: ProviderOpenAICompatible, APIKey: "empty", Endpoint: srv.URL}, nil)
	_, err = c.Complete(context.Background(), "", "x")
	assert.ErrorIs(t, err, ErrEmptyResponse)

	c = New(config.AIConfig{Provider: ProviderOpenAICompatible, APIKey: "slow", Endpoint: srv.URL, Timeout: 50 * time.Millisecond}, nil)
	_, err = c.Complete(context.Background(), "", "x")
	assert.Error(t, err)
}

func TestUnmarshalJSON(t *testing.T) {
	var out struct {
		Insights []string `json:"insights"`
	}
	require.NoError(t, UnmarshalJSON("```json\n{\"insights\":[\"a\"]}\n```", &out))
	assert.Equal(t, []string{"a"}, out.Insights)

	require.NoError(t, UnmarshalJSON(`Here you go: {"insights":["b"]} Hope this helps`, &out))
	assert.Equal(t, []string{"b"}, out.Insights)

	assert.ErrorIs(t, UnmarshalJSON("no json at all", &out), ErrInvalidJSON)
}

func TestNormalizeEndpoints(t *testing.T) {
	assert.Equal(t, "https://api.openai.com", normalizeOpenAICompatibleEndpoint(""))
	assert.Equal(t, "http://h:1", normalizeOpenAICompatibleEndpoint("http://h:1/v1/"))
	assert.Equal(t, "https://proxy/v1", normalizeOpenAIBaseURL("https://proxy"))
	assert.Equal(t, "https://proxy/v1", normalizeOpenAIBaseURL("https://proxy/v1/"))
	assert.Equal(t, "", normalizeOpenAIBaseURL(""))
}
