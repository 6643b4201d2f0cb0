// Package config loads voicescribe settings from the environment, an
// optional .env file and an optional YAML file.
package config

import (
	"strings"
	"time"

	"voicescribe/internal/app/api/provider"
	"voicescribe/internal/app/blob"
)

const (
	DefaultPort              = "5000"
	DefaultEnvironment       = "development"
	DefaultProvider          = provider.Groq
	DefaultTranscribeTimeout = 120 * time.Second
	DefaultDatabaseURL       = "sqlite://data/voicescribe.db"
	DefaultUploadDir         = "uploads"
	DefaultBlobBackend       = "local"
	DefaultMaxUploadBytes    = 25 << 20
	DefaultReadTimeout       = 60 * time.Second
	DefaultIdleTimeout       = 120 * time.Second
	DefaultShutdownTimeout   = 15 * time.Second

	// MaxHistoryLimit caps ?limit on history listings.
	MaxHistoryLimit = 1000
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Transcribe TranscribeConfig `yaml:"transcribe"`
	Storage    StorageConfig    `yaml:"storage"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	Environment     string        `yaml:"environment"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type TranscribeConfig struct {
	Provider     string        `yaml:"provider"`
	GroqAPIKey   string        `yaml:"groq_api_key"`
	OpenAIAPIKey string        `yaml:"openai_api_key"`
	GeminiAPIKey string        `yaml:"gemini_api_key"`
	BaseURL      string        `yaml:"base_url"`
	Model        string        `yaml:"model"`
	Language     string        `yaml:"language"`
	Prompt       string        `yaml:"prompt"`
	Timeout      time.Duration `yaml:"timeout"`
}

type StorageConfig struct {
	DatabaseURL    string           `yaml:"database_url"`
	HistoryLimit   int              `yaml:"history_limit"`
	UploadDir      string           `yaml:"upload_dir"`
	BlobBackend    string           `yaml:"blob_backend"`
	MaxUploadBytes int64            `yaml:"max_upload_bytes"`
	Minio          blob.MinioConfig `yaml:"minio"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            DefaultPort,
			Environment:     DefaultEnvironment,
			ReadTimeout:     DefaultReadTimeout,
			IdleTimeout:     DefaultIdleTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Transcribe: TranscribeConfig{
			Provider: DefaultProvider,
			Timeout:  DefaultTranscribeTimeout,
		},
		Storage: StorageConfig{
			DatabaseURL:    DefaultDatabaseURL,
			UploadDir:      DefaultUploadDir,
			BlobBackend:    DefaultBlobBackend,
			MaxUploadBytes: DefaultMaxUploadBytes,
		},
	}
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// IsDevelopment selects human-friendly logging and gin debug mode.
func (s ServerConfig) IsDevelopment() bool {
	return strings.EqualFold(s.Environment, "development") || strings.EqualFold(s.Environment, "dev")
}

// WriteTimeout leaves room for the slowest upstream call.
func (s ServerConfig) WriteTimeout(transcribeTimeout time.Duration) time.Duration {
	return transcribeTimeout + 30*time.Second
}

// APIKey returns the credential of the selected provider.
func (t TranscribeConfig) APIKey() string {
	switch strings.ToLower(t.Provider) {
	case provider.OpenAI:
		return t.OpenAIAPIKey
	case provider.Gemini:
		return t.GeminiAPIKey
	default:
		return t.GroqAPIKey
	}
}

// ProviderConfig converts to the provider factory's settings.
func (t TranscribeConfig) ProviderConfig() provider.Config {
	return provider.Config{
		Provider: strings.ToLower(t.Provider),
		APIKey:   t.APIKey(),
		BaseURL:  t.BaseURL,
		Model:    t.Model,
		Language: t.Language,
		Prompt:   t.Prompt,
		Timeout:  t.Timeout,
	}
}
