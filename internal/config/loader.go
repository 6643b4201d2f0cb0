package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileEnv names the environment variable pointing at a YAML file.
const ConfigFileEnv = "VOICESCRIBE_CONFIG"

// Loader builds a Config from defaults, an optional YAML file and the
// environment, in that order of precedence (environment wins). Tests set
// Lookup and ReadFile to avoid touching the process.
type Loader struct {
	Lookup   func(string) (string, bool)
	ReadFile func(string) ([]byte, error)
	// File overrides the VOICESCRIBE_CONFIG lookup.
	File string
}

// Load returns a validated configuration.
func (l Loader) Load() (Config, error) {
	if l.Lookup == nil {
		l.Lookup = os.LookupEnv
	}
	if l.ReadFile == nil {
		l.ReadFile = os.ReadFile
	}

	cfg := Default()

	file := l.File
	if file == "" {
		file, _ = l.Lookup(ConfigFileEnv)
	}
	if file = strings.TrimSpace(file); file != "" {
		if err := l.applyYAML(file, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := l.applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (l Loader) applyYAML(path string, cfg *Config) error {
	data, err := l.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}
	return nil
}

func (l Loader) applyEnv(cfg *Config) error {
	overrideString(l.Lookup, "HOST", &cfg.Server.Host)
	overrideString(l.Lookup, "PORT", &cfg.Server.Port)
	overrideString(l.Lookup, "ENVIRONMENT", &cfg.Server.Environment)

	overrideString(l.Lookup, "TRANSCRIBE_PROVIDER", &cfg.Transcribe.Provider)
	overrideString(l.Lookup, "GROQ_API_KEY", &cfg.Transcribe.GroqAPIKey)
	overrideString(l.Lookup, "OPENAI_API_KEY", &cfg.Transcribe.OpenAIAPIKey)
	overrideString(l.Lookup, "GEMINI_API_KEY", &cfg.Transcribe.GeminiAPIKey)
	overrideString(l.Lookup, "TRANSCRIBE_BASE_URL", &cfg.Transcribe.BaseURL)
	overrideString(l.Lookup, "TRANSCRIBE_MODEL", &cfg.Transcribe.Model)
	overrideString(l.Lookup, "TRANSCRIBE_LANGUAGE", &cfg.Transcribe.Language)
	overrideString(l.Lookup, "TRANSCRIBE_PROMPT", &cfg.Transcribe.Prompt)

	overrideString(l.Lookup, "DATABASE_URL", &cfg.Storage.DatabaseURL)
	overrideString(l.Lookup, "UPLOAD_DIR", &cfg.Storage.UploadDir)
	overrideString(l.Lookup, "BLOB_BACKEND", &cfg.Storage.BlobBackend)
	overrideString(l.Lookup, "MINIO_ENDPOINT", &cfg.Storage.Minio.Endpoint)
	overrideString(l.Lookup, "MINIO_ACCESS_KEY", &cfg.Storage.Minio.AccessKey)
	overrideString(l.Lookup, "MINIO_SECRET_KEY", &cfg.Storage.Minio.SecretKey)
	overrideString(l.Lookup, "MINIO_BUCKET", &cfg.Storage.Minio.Bucket)

	if err := overrideDuration(l.Lookup, "TRANSCRIBE_TIMEOUT", &cfg.Transcribe.Timeout); err != nil {
		return err
	}
	if err := overrideDuration(l.Lookup, "SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout); err != nil {
		return err
	}
	if err := overrideInt(l.Lookup, "HISTORY_LIMIT", &cfg.Storage.HistoryLimit); err != nil {
		return err
	}
	if err := overrideInt64(l.Lookup, "MAX_UPLOAD_BYTES", &cfg.Storage.MaxUploadBytes); err != nil {
		return err
	}
	return overrideBool(l.Lookup, "MINIO_USE_SSL", &cfg.Storage.Minio.UseSSL)
}

func overrideString(lookup func(string) (string, bool), key string, target *string) {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		*target = strings.TrimSpace(value)
	}
}

func overrideDuration(lookup func(string) (string, bool), key string, target *time.Duration) error {
	value, ok := lookup(key)
	if !ok || strings.TrimSpace(value) == "" {
		return nil
	}
	value = strings.TrimSpace(value)
	// Bare integers are seconds.
	if secs, err := strconv.Atoi(value); err == nil {
		*target = time.Duration(secs) * time.Second
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*target = d
	return nil
}

func overrideInt(lookup func(string) (string, bool), key string, target *int) error {
	value, ok := lookup(key)
	if !ok || strings.TrimSpace(value) == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*target = n
	return nil
}

func overrideInt64(lookup func(string) (string, bool), key string, target *int64) error {
	value, ok := lookup(key)
	if !ok || strings.TrimSpace(value) == "" {
		return nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*target = n
	return nil
}

func overrideBool(lookup func(string) (string, bool), key string, target *bool) error {
	value, ok := lookup(key)
	if !ok || strings.TrimSpace(value) == "" {
		return nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*target = b
	return nil
}
