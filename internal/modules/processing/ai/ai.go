// Package ai wraps the hosted completion endpoint used by the chat assistant,
// cycle insights and the llm translation provider.
//
//   - ai.go       : Completer interface and Client
//   - provider.go : jetify language models (anthropic, openai) and the
//     openai-compatible chat completions call
//   - json.go     : lenient JSON extraction from model output
package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sakhi-app/core/internal/config"
	jetapi "go.jetify.com/ai/api"
	"go.uber.org/zap"
)

const (
	ProviderAnthropic        = "anthropic"
	ProviderOpenAI           = "openai"
	ProviderOpenAICompatible = "openai-compatible"
	ProviderNone             = "none"

	defaultAnthropicModel = "claude-haiku-4-5-20251001"
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultMaxTokens      = 800
	defaultTimeout        = 30 * time.Second
)

var (
	ErrNotConfigured = errors.New("ai provider is not configured")
	ErrEmptyResponse = errors.New("empty response from AI")
)

// Completer turns a system prompt plus a user prompt into free text.
type Completer interface {
	Enabled() bool
	Complete(ctx context.Context, systemPrompt, prompt string) (string, error)
}

// Client is the configured Completer.
type Client struct {
	provider  string
	apiKey    string
	endpoint  string
	modelID   string
	maxTokens int
	timeout   time.Duration

	model jetapi.LanguageModel
	http  *resty.Client
	log   *zap.Logger
}

// New builds a Client from config. A missing key or provider "none" yields
// a disabled client whose Complete always returns ErrNotConfigured.
func New(cfg config.AIConfig, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{
		provider:  normalizeProviderType(cfg.Provider),
		apiKey:    strings.TrimSpace(cfg.APIKey),
		endpoint:  strings.TrimSpace(cfg.Endpoint),
		modelID:   strings.TrimSpace(cfg.Model),
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		log:       log.Named("ai"),
	}
	if c.maxTokens <= 0 {
		c.maxTokens = defaultMaxTokens
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	c.http = resty.New().SetTimeout(c.timeout)

	if !c.Enabled() {
		c.log.Info("ai provider disabled, canned fallbacks will be used")
		return c
	}
	if c.provider != ProviderOpenAICompatible {
		c.model = buildLanguageModel(c.provider, c.apiKey, c.endpoint, c.modelID)
	}
	return c
}

// Enabled reports whether a provider and key are configured.
func (c *Client) Enabled() bool {
	if c == nil || c.apiKey == "" {
		return false
	}
	switch c.provider {
	case ProviderAnthropic, ProviderOpenAI, ProviderOpenAICompatible:
		return true
	default:
		return false
	}
}

// Complete sends one exchange under the configured timeout.
func (c *Client) Complete(ctx context.Context, systemPrompt, prompt string) (string, error) {
	if !c.Enabled() {
		return "", ErrNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	var (
		text string
		err  error
	)
	if c.provider == ProviderOpenAICompatible {
		text, err = c.chatCompletions(ctx, systemPrompt, prompt)
	} else {
		text, err = c.generate(ctx, systemPrompt, prompt)
	}
	if err != nil {
		c.log.Warn("completion failed", zap.String("provider", c.provider), zap.Duration("took", time.Since(start)), zap.Error(err))
		return "", err
	}
	c.log.Debug("completion finished", zap.String("provider", c.provider), zap.Duration("took", time.Since(start)))
	return strings.TrimSpace(text), nil
}
