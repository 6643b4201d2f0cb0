package whisper

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"

	"voicescribe/internal/app/api"
)

// RemoteTranscriber implements remote transcription against any
// OpenAI-compatible /audio/transcriptions endpoint (OpenAI, Groq).
type RemoteTranscriber struct {
	client       *openai.Client
	provider     string
	defaultModel string
	language     string
	prompt       string
}

// Option customizes a RemoteTranscriber.
type Option func(*RemoteTranscriber)

// WithLanguage sets an ISO-639-1 language hint.
func WithLanguage(language string) Option {
	return func(rt *RemoteTranscriber) { rt.language = language }
}

// WithPrompt sets a context prompt sent with every request.
func WithPrompt(prompt string) Option {
	return func(rt *RemoteTranscriber) { rt.prompt = prompt }
}

// NewRemoteTranscriber creates a new RemoteTranscriber instance. provider
// names the upstream in errors and logs; defaultModel is used when a call
// passes an empty model.
func NewRemoteTranscriber(client *openai.Client, provider, defaultModel string, opts ...Option) *RemoteTranscriber {
	if defaultModel == "" {
		defaultModel = openai.Whisper1
	}
	rt := &RemoteTranscriber{
		client:       client,
		provider:     provider,
		defaultModel: defaultModel,
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Transcribe streams audio to the provider and returns the recognized text.
func (rt *RemoteTranscriber) Transcribe(ctx context.Context, audio io.Reader, filename, model string) (string, error) {
	if model == "" {
		model = rt.defaultModel
	}

	req := openai.AudioRequest{
		Model:    model,
		FilePath: filename,
		Reader:   audio,
		Language: rt.language,
		Prompt:   rt.prompt,
	}
	resp, err := rt.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", rt.handleAPIError(err)
	}

	return resp.Text, nil
}

// handleAPIError maps go-openai errors onto the api error types.
func (rt *RemoteTranscriber) handleAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return &api.ExternalServiceError{
			Provider:   rt.provider,
			StatusCode: apiErr.HTTPStatusCode,
			Message:    apiErr.Message,
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		message := strings.TrimSpace(string(reqErr.Body))
		if message == "" && reqErr.Err != nil {
			message = reqErr.Err.Error()
		}
		if message == "" {
			message = reqErr.HTTPStatus
		}
		return &api.ExternalServiceError{
			Provider:   rt.provider,
			StatusCode: reqErr.HTTPStatusCode,
			Message:    message,
		}
	}

	return &api.UpstreamError{Provider: rt.provider, Err: err}
}
