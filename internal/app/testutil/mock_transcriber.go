package testutil

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockTranscriber is a testify mock for api.Transcriber.
type MockTranscriber struct {
	mock.Mock
}

func (m *MockTranscriber) Transcribe(ctx context.Context, audio io.Reader, filename, model string) (string, error) {
	args := m.Called(ctx, audio, filename, model)
	return args.String(0), args.Error(1)
}

// TranscriptionCall records one call to a FakeTranscriber.
type TranscriptionCall struct {
	Filename string
	Model    string
	Payload  []byte
	At       time.Time
}

// FakeTranscriber reads the whole payload, records the call and returns a
// canned answer. Latency makes it wait, honouring ctx.
type FakeTranscriber struct {
	mu sync.Mutex

	Text    string
	Err     error
	Latency time.Duration
	// Respond, when set, overrides Text and Err.
	Respond func(payload []byte) (string, error)

	Calls []TranscriptionCall
}

func NewFakeTranscriber(text string) *FakeTranscriber {
	return &FakeTranscriber{Text: text}
}

func (f *FakeTranscriber) Transcribe(ctx context.Context, audio io.Reader, filename, model string) (string, error) {
	payload, err := io.ReadAll(audio)
	if err != nil {
		return "", err
	}

	f.mu.Lock()
	f.Calls = append(f.Calls, TranscriptionCall{Filename: filename, Model: model, Payload: payload, At: time.Now()})
	latency, respond, text, ferr := f.Latency, f.Respond, f.Text, f.Err
	f.mu.Unlock()

	if latency > 0 {
		select {
		case <-time.After(latency):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if respond != nil {
		return respond(payload)
	}
	return text, ferr
}

// CallCount returns how many times Transcribe ran.
func (f *FakeTranscriber) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

// LastCall returns the most recent call.
func (f *FakeTranscriber) LastCall() TranscriptionCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Calls) == 0 {
		return TranscriptionCall{}
	}
	return f.Calls[len(f.Calls)-1]
}
