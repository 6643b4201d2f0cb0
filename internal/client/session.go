package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	apierrors "voicescribe/internal/api/errors"
	"voicescribe/internal/app/audio"
	apperrors "voicescribe/internal/app/errors"
	"voicescribe/internal/app/model"
)

// State is the position of a Session in its capture cycle.
type State int

const (
	Idle State = iota
	Recording
	Captured
	Transcribing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Captured:
		return "captured"
	case Transcribing:
		return "transcribing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// RecordingFilename is the upload name used for microphone captures.
const RecordingFilename = "recording.webm"

// ErrInvalidTransition is returned when an action is not allowed in the
// current state. The session is left unchanged.
var ErrInvalidTransition = errors.New("invalid session transition")

// API is the part of Client a Session needs.
type API interface {
	Transcribe(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
	History(ctx context.Context, limit int) ([]model.Transcript, error)
}

// Capture is audio waiting to be transcribed.
type Capture struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Session drives one user's capture cycle:
// Idle -> Recording -> Captured -> Transcribing -> Idle. A selected file
// enters Captured directly. Failures never add a state; they are kept as an
// annotation next to the current one until cleared or superseded.
type Session struct {
	api          API
	historyLimit int

	mu      sync.Mutex
	state   State
	capture *Capture
	text    string
	history []model.Transcript
	err     error
}

// NewSession starts Idle. historyLimit <= 0 uses the server default.
func NewSession(api API, historyLimit int) *Session {
	return &Session{api: api, historyLimit: historyLimit}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Text is the most recent transcription.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// History is the list fetched by the last Refresh.
func (s *Session) History() []model.Transcript {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Transcript(nil), s.history...)
}

// Err is the current error annotation, or nil.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = nil
}

// Notice is the user-facing text for the error annotation.
func (s *Session) Notice() string {
	return Describe(s.Err())
}

// StartRecording clears the previous result and begins capturing.
func (s *Session) StartRecording() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Idle {
		return s.invalid("start recording")
	}
	s.text = ""
	s.err = nil
	s.state = Recording
	return nil
}

// StopRecording stores the captured audio. An empty content type is taken
// as audio/webm, which is what browsers record.
func (s *Session) StopRecording(data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Recording {
		return s.invalid("stop recording")
	}
	if contentType == "" {
		contentType = "audio/webm"
	}
	s.capture = &Capture{Filename: RecordingFilename, ContentType: contentType, Data: data}
	s.state = Captured
	return nil
}

// SelectFile replaces any pending capture with a chosen file. Non-audio
// files are refused here and annotated without changing state.
func (s *Session) SelectFile(c Capture) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Idle && s.state != Captured {
		return s.invalid("select file")
	}
	mediaType, ok := audio.Classify(c.ContentType, c.Data)
	if !ok {
		s.err = apperrors.Rejected("Invalid file type. Please upload audio.")
		return s.err
	}
	c.ContentType = mediaType
	s.err = nil
	s.capture = &c
	s.state = Captured
	return nil
}

// Transcribe sends the pending capture. On success the session returns to
// Idle with the new text and a refreshed history. On failure it stays
// Captured so the same audio can be retried.
func (s *Session) Transcribe(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.state != Captured || s.capture == nil {
		err := s.invalid("transcribe")
		s.mu.Unlock()
		return "", err
	}
	c := *s.capture
	s.err = nil
	s.state = Transcribing
	s.mu.Unlock()

	text, err := s.api.Transcribe(ctx, c.Filename, c.ContentType, bytes.NewReader(c.Data))

	s.mu.Lock()
	if err != nil {
		s.err = err
		s.state = Captured
		s.mu.Unlock()
		return "", err
	}
	s.text = text
	s.capture = nil
	s.state = Idle
	s.mu.Unlock()

	// A failed refresh keeps the previous list; the transcription stands.
	_ = s.Refresh(ctx)
	return text, nil
}

// Refresh reloads the history list. Errors are returned but not annotated.
func (s *Session) Refresh(ctx context.Context) error {
	records, err := s.api.History(ctx, s.historyLimit)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.history = records
	s.mu.Unlock()
	return nil
}

func (s *Session) invalid(action string) error {
	return fmt.Errorf("%w: cannot %s while %s", ErrInvalidTransition, action, s.state)
}

// Describe turns a client error into a short message for people.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var rejected *apperrors.Error
	if errors.Is(err, apperrors.ErrInputRejected) && errors.As(err, &rejected) {
		return rejected.Reason()
	}
	if errors.Is(err, ErrUnreachable) {
		return "Cannot connect to server."
	}
	var resp *ResponseError
	if errors.As(err, &resp) {
		if resp.Rejected() {
			return resp.Message
		}
		if resp.Kind == apierrors.KindUpstream {
			return "Transcription service failed. Try again."
		}
	}
	return "Processing failed. Try again."
}
