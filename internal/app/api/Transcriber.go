package api

import (
	"context"
	"io"
)

// Transcriber converts an audio stream to text through an external
// speech-to-text provider. One call is one upstream request; implementations
// never retry.
//
// An empty string with a nil error is a valid result (silence). Failures are
// returned as *ExternalServiceError when the provider answered with an error
// status, or *UpstreamError otherwise.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename, model string) (string, error)
}

// TranscriberFunc adapts a function to the Transcriber interface.
type TranscriberFunc func(ctx context.Context, audio io.Reader, filename, model string) (string, error)

// Transcribe calls f.
func (f TranscriberFunc) Transcribe(ctx context.Context, audio io.Reader, filename, model string) (string, error) {
	return f(ctx, audio, filename, model)
}
