package provider

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"voicescribe/internal/app/api"
	"voicescribe/internal/app/api/gemini"
	"voicescribe/internal/app/api/openai"
	"voicescribe/internal/app/api/openai/whisper"
	apperrors "voicescribe/internal/app/errors"
)

// Provider names accepted in configuration.
const (
	Groq   = "groq"
	OpenAI = "openai"
	Gemini = "gemini"
)

// Config selects and configures the upstream speech-to-text provider.
type Config struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
	Language string
	Prompt   string
	Timeout  time.Duration
}

// Info describes a provider's defaults.
type Info struct {
	Name         string
	DefaultModel string
	BaseURL      string
}

var registry = map[string]Info{
	Groq:   {Name: Groq, DefaultModel: "whisper-large-v3", BaseURL: openai.GroqBaseURL},
	OpenAI: {Name: OpenAI, DefaultModel: "whisper-1", BaseURL: "https://api.openai.com/v1"},
	Gemini: {Name: Gemini, DefaultModel: gemini.DefaultModel},
}

// ListProviders returns the supported provider names in sorted order.
func ListProviders() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetProviderInfo returns defaults for a provider name.
func GetProviderInfo(name string) (Info, error) {
	info, ok := registry[strings.ToLower(name)]
	if !ok {
		return Info{}, apperrors.Wrapf(apperrors.ErrInvalidConfig, "unknown provider type: %s", name)
	}
	return info, nil
}

// DefaultModel returns the model a provider uses when cfg leaves it empty.
func DefaultModel(cfg Config) string {
	if cfg.Model != "" {
		return cfg.Model
	}
	info, err := GetProviderInfo(cfg.Provider)
	if err != nil {
		return ""
	}
	return info.DefaultModel
}

// New builds the transcriber named by cfg.Provider.
func New(ctx context.Context, cfg Config) (api.Transcriber, error) {
	info, err := GetProviderInfo(cfg.Provider)
	if err != nil {
		return nil, err
	}
	if cfg.APIKey == "" {
		return nil, apperrors.Wrapf(apperrors.ErrMissingAPIKey, "%s provider", info.Name)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = info.BaseURL
	}
	model := DefaultModel(cfg)

	switch info.Name {
	case Groq, OpenAI:
		client := openai.NewClient(cfg.APIKey, baseURL, cfg.Timeout)
		var opts []whisper.Option
		if cfg.Language != "" {
			opts = append(opts, whisper.WithLanguage(cfg.Language))
		}
		if cfg.Prompt != "" {
			opts = append(opts, whisper.WithPrompt(cfg.Prompt))
		}
		return whisper.NewRemoteTranscriber(client, info.Name, model, opts...), nil
	case Gemini:
		return gemini.New(ctx, gemini.Config{
			APIKey:  cfg.APIKey,
			Model:   model,
			BaseURL: baseURL,
		})
	default:
		return nil, fmt.Errorf("provider %s has no constructor", info.Name)
	}
}
