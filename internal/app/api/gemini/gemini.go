// Package gemini transcribes audio with Google Gemini's multimodal models.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"

	"voicescribe/internal/app/api"
	"voicescribe/internal/app/audio"
)

// DefaultModel is used when neither the call nor the config names a model.
const DefaultModel = "gemini-2.0-flash"

const providerName = "gemini"

const instruction = "Transcribe the speech in this audio verbatim. " +
	"Reply with the transcript only. If there is no speech, reply with an empty message."

// Config configures the Gemini transcriber.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Transcriber sends the whole recording inline with a transcription prompt.
type Transcriber struct {
	models       *genai.Models
	defaultModel string
}

// New creates a Gemini client.
func New(ctx context.Context, cfg Config) (*Transcriber, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Transcriber{
		models:       client.Models,
		defaultModel: model,
	}, nil
}

// Transcribe implements api.Transcriber.
func (t *Transcriber) Transcribe(ctx context.Context, r io.Reader, filename, model string) (string, error) {
	if model == "" {
		model = t.defaultModel
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read audio: %w", err)
	}

	mimeType := audio.Detect(data)
	if !audio.IsAudio(mimeType) {
		mimeType = audio.TypeByExtension(filename)
	}
	if !audio.IsAudio(mimeType) {
		mimeType = "audio/webm"
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(instruction),
			genai.NewPartFromBytes(data, mimeType),
		}, genai.RoleUser),
	}

	resp, err := t.models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return "", handleAPIError(err)
	}

	return strings.TrimSpace(resp.Text()), nil
}

func handleAPIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code > 0 {
		return &api.ExternalServiceError{
			Provider:   providerName,
			StatusCode: apiErr.Code,
			Message:    apiErr.Message,
		}
	}
	return &api.UpstreamError{Provider: providerName, Err: err}
}
