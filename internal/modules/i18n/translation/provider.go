package translation

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sakhi-app/core/internal/config"
	"github.com/sakhi-app/core/internal/modules/processing/ai"
)

const defaultGoogleEndpoint = "https://translation.googleapis.com/language/translate/v2"

// Provider performs one remote translation.
type Provider interface {
	Name() string
	Translate(ctx context.Context, text, src, dst string) (string, error)
}

// NewProvider picks the remote provider named in cfg. It returns nil when
// translation is disabled or unconfigured.
func NewProvider(cfg config.TranslationConfig, completer ai.Completer) Provider {
	switch cfg.Provider {
	case ProviderGoogle:
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil
		}
		return NewGoogleProvider(cfg.APIKey, cfg.Endpoint, cfg.Timeout)
	case ProviderLLM:
		if completer == nil || !completer.Enabled() {
			return nil
		}
		return NewLLMProvider(completer)
	default:
		return nil
	}
}

// GoogleProvider calls the Cloud Translation v2 REST API.
type GoogleProvider struct {
	apiKey   string
	endpoint string
	http     *resty.Client
}

func NewGoogleProvider(apiKey, endpoint string, timeout time.Duration) *GoogleProvider {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = defaultGoogleEndpoint
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GoogleProvider{
		apiKey:   apiKey,
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     resty.New().SetTimeout(timeout),
	}
}

func (p *GoogleProvider) Name() string { return ProviderGoogle }

type googleResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

func (p *GoogleProvider) Translate(ctx context.Context, text, src, dst string) (string, error) {
	var out googleResponse
	r, err := p.http.R().SetContext(ctx).
		SetQueryParam("key", p.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"q":      text,
			"source": src,
			"target": dst,
			"format": "text",
		}).
		SetResult(&out).
		Post(p.endpoint)
	if err != nil {
		return "", err
	}
	if r.IsError() {
		return "", fmt.Errorf("google translate error: %s; body: %s", r.Status(), r.String())
	}
	if len(out.Data.Translations) == 0 {
		return "", errEmptyTranslation
	}
	translated := html.UnescapeString(out.Data.Translations[0].TranslatedText)
	if strings.TrimSpace(translated) == "" {
		return "", errEmptyTranslation
	}
	return translated, nil
}

// LLMProvider prompts the configured completion endpoint.
type LLMProvider struct{ completer ai.Completer }

func NewLLMProvider(completer ai.Completer) *LLMProvider { return &LLMProvider{completer: completer} }

func (p *LLMProvider) Name() string { return ProviderLLM }

var languageNames = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"ta": "Tamil",
	"kn": "Kannada",
}

func languageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

const llmSystemPrompt = "You are a professional translator for a women's health community app. " +
	"Translate faithfully and keep the tone warm. Reply with JSON only: {\"translation\": \"...\"}."

func (p *LLMProvider) Translate(ctx context.Context, text, src, dst string) (string, error) {
	prompt := fmt.Sprintf("Translate the following text from %s to %s.\n\n%s",
		languageName(src), languageName(dst), text)
	raw, err := p.completer.Complete(ctx, llmSystemPrompt, prompt)
	if err != nil {
		return "", err
	}
	var out struct {
		Translation string `json:"translation"`
	}
	if err := ai.UnmarshalJSON(raw, &out); err != nil {
		// some models ignore the format and answer with the bare translation
		if plain := strings.TrimSpace(raw); plain != "" && !strings.HasPrefix(plain, "{") {
			return plain, nil
		}
		return "", err
	}
	if strings.TrimSpace(out.Translation) == "" {
		return "", errEmptyTranslation
	}
	return out.Translation, nil
}
