package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"voicescribe/internal/app/api/provider"
	apperrors "voicescribe/internal/app/errors"
)

// Validate checks the whole configuration. API keys are not required here:
// commands that never call the provider (history, export) run without one.
func (c Config) Validate() error {
	if err := ValidatePort(c.Server.Port, "server"); err != nil {
		return err
	}
	if _, err := provider.GetProviderInfo(c.Transcribe.Provider); err != nil {
		return err
	}
	if err := ValidateTimeout(c.Transcribe.Timeout, "transcribe"); err != nil {
		return err
	}
	if c.Transcribe.BaseURL != "" {
		if err := ValidateURL(c.Transcribe.BaseURL, "transcribe base"); err != nil {
			return err
		}
	}
	if err := ValidateUploadLimit(c.Storage.MaxUploadBytes); err != nil {
		return err
	}
	if c.Storage.HistoryLimit < 0 {
		return apperrors.Wrapf(apperrors.ErrInvalidConfig, "HISTORY_LIMIT cannot be negative")
	}
	if strings.TrimSpace(c.Storage.DatabaseURL) == "" {
		return apperrors.Wrapf(apperrors.ErrInvalidConfig, "DATABASE_URL is required")
	}

	switch strings.ToLower(c.Storage.BlobBackend) {
	case "local":
		if strings.TrimSpace(c.Storage.UploadDir) == "" {
			return apperrors.Wrapf(apperrors.ErrInvalidConfig, "UPLOAD_DIR is required for the local blob backend")
		}
	case "minio":
		m := c.Storage.Minio
		if m.Endpoint == "" || m.Bucket == "" {
			return apperrors.Wrapf(apperrors.ErrInvalidConfig, "MINIO_ENDPOINT and MINIO_BUCKET are required for the minio blob backend")
		}
	default:
		return apperrors.Wrapf(apperrors.ErrInvalidConfig, "unknown BLOB_BACKEND %q", c.Storage.BlobBackend)
	}
	return nil
}

// RequireAPIKey fails fast when the selected provider has no credential.
func (c Config) RequireAPIKey() error {
	if c.Transcribe.APIKey() == "" {
		return apperrors.Wrapf(apperrors.ErrMissingAPIKey,
			"set the API key for provider %q (GROQ_API_KEY, OPENAI_API_KEY or GEMINI_API_KEY)", c.Transcribe.Provider)
	}
	return nil
}

// CheckAPIKeyFormat reports a key that does not look like the provider's.
// Custom base URLs may accept anything, so callers only warn on it.
func (c Config) CheckAPIKeyFormat() error {
	return ValidateAPIKey(c.Transcribe.APIKey(), strings.ToLower(c.Transcribe.Provider))
}

// ValidateTimeout validates timeout duration
func ValidateTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s timeout must be positive", name)
	}
	if timeout > 30*time.Minute {
		return fmt.Errorf("%s timeout too large (max 30 minutes)", name)
	}
	return nil
}

// ValidateAPIKey validates API key format
func ValidateAPIKey(apiKey string, providerName string) error {
	if apiKey == "" {
		return fmt.Errorf("%s API key is required", providerName)
	}

	switch providerName {
	case provider.OpenAI:
		if !strings.HasPrefix(apiKey, "sk-") {
			return fmt.Errorf("invalid OpenAI API key format: must start with 'sk-'")
		}
	case provider.Groq:
		if !strings.HasPrefix(apiKey, "gsk_") {
			return fmt.Errorf("invalid Groq API key format: must start with 'gsk_'")
		}
	case provider.Gemini:
		if !strings.HasPrefix(apiKey, "AIza") {
			return fmt.Errorf("invalid Gemini API key format: must start with 'AIza'")
		}
	}
	if len(apiKey) < 20 {
		return fmt.Errorf("invalid %s API key format: too short", providerName)
	}
	return nil
}

// ValidateURL validates URL format
func ValidateURL(raw string, name string) error {
	if raw == "" {
		return fmt.Errorf("%s URL is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s URL must be an absolute http:// or https:// URL", name)
	}
	return nil
}

// ValidatePort validates port number
func ValidatePort(port string, name string) error {
	if port == "" {
		return fmt.Errorf("%s port is required", name)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("%s port invalid: %q", name, port)
	}
	return nil
}

// ValidateUploadLimit bounds MAX_UPLOAD_BYTES.
func ValidateUploadLimit(n int64) error {
	if n <= 0 {
		return fmt.Errorf("max upload size must be positive")
	}
	if n > 1<<30 {
		return fmt.Errorf("max upload size too large (max 1 GiB)")
	}
	return nil
}
