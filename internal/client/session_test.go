package client

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "voicescribe/internal/api/errors"
	apperrors "voicescribe/internal/app/errors"
	"voicescribe/internal/app/model"
)

type mockAPI struct {
	mock.Mock
}

func newMockAPI(t *testing.T) *mockAPI {
	m := &mockAPI{}
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *mockAPI) Transcribe(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	data, _ := io.ReadAll(r)
	args := m.Called(filename, contentType, string(data))
	return args.String(0), args.Error(1)
}

func (m *mockAPI) History(ctx context.Context, limit int) ([]model.Transcript, error) {
	args := m.Called(limit)
	records, _ := args.Get(0).([]model.Transcript)
	return records, args.Error(1)
}

func TestSession_RecordAndTranscribe(t *testing.T) {
	api := newMockAPI(t)
	history := []model.Transcript{{ID: 1, Text: "hello"}}
	api.On("Transcribe", RecordingFilename, "audio/webm", "captured").Return("hello", nil).Once()
	api.On("History", 20).Return(history, nil).Once()

	s := NewSession(api, 20)
	assert.Equal(t, Idle, s.State())

	require.NoError(t, s.StartRecording())
	assert.Equal(t, Recording, s.State())

	require.NoError(t, s.StopRecording([]byte("captured"), ""))
	assert.Equal(t, Captured, s.State())

	text, err := s.Transcribe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, Idle, s.State())
	assert.Equal(t, "hello", s.Text())
	assert.Equal(t, history, s.History())
	assert.NoError(t, s.Err())
}

func TestSession_InvalidTransitions(t *testing.T) {
	s := NewSession(newMockAPI(t), 0)

	assert.ErrorIs(t, s.StopRecording(nil, ""), ErrInvalidTransition)
	_, err := s.Transcribe(context.Background())
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, s.StartRecording())
	assert.ErrorIs(t, s.StartRecording(), ErrInvalidTransition)
	assert.ErrorIs(t, s.SelectFile(Capture{Filename: "a.mp3", ContentType: "audio/mpeg"}), ErrInvalidTransition)
	assert.Equal(t, Recording, s.State())
	assert.NoError(t, s.Err())
}

func TestSession_SelectFileRejectsNonAudio(t *testing.T) {
	s := NewSession(newMockAPI(t), 0)

	err := s.SelectFile(Capture{Filename: "notes.txt", ContentType: "text/plain", Data: []byte("hi")})

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInputRejected))
	assert.Equal(t, Idle, s.State())
	assert.Equal(t, "Invalid file type. Please upload audio.", s.Notice())

	s.ClearError()
	assert.Empty(t, s.Notice())

	require.NoError(t, s.SelectFile(Capture{Filename: "memo.mp3", ContentType: "audio/mpeg", Data: []byte("id3")}))
	assert.Equal(t, Captured, s.State())
	assert.NoError(t, s.Err())
}

func TestSession_FailureStaysCapturedWithAnnotation(t *testing.T) {
	api := newMockAPI(t)
	upstream := &ResponseError{StatusCode: 502, Kind: apierrors.KindUpstream, Message: "provider down"}
	api.On("Transcribe", "memo.mp3", "audio/mpeg", "id3").Return("", upstream).Once()
	api.On("Transcribe", "memo.mp3", "audio/mpeg", "id3").Return("second try", nil).Once()
	api.On("History", 0).Return(nil, errors.New("history unavailable")).Once()

	s := NewSession(api, 0)
	require.NoError(t, s.SelectFile(Capture{Filename: "memo.mp3", ContentType: "audio/mpeg", Data: []byte("id3")}))

	_, err := s.Transcribe(context.Background())
	require.Error(t, err)
	assert.Equal(t, Captured, s.State())
	assert.Equal(t, "Transcription service failed. Try again.", s.Notice())

	text, err := s.Transcribe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second try", text)
	assert.Equal(t, Idle, s.State())
	assert.NoError(t, s.Err())
	assert.Empty(t, s.History())
}

func TestSession_StartRecordingClearsPreviousResult(t *testing.T) {
	api := newMockAPI(t)
	api.On("Transcribe", RecordingFilename, "audio/ogg", "x").Return("old", nil).Once()
	api.On("History", 0).Return([]model.Transcript{}, nil).Once()

	s := NewSession(api, 0)
	require.NoError(t, s.StartRecording())
	require.NoError(t, s.StopRecording([]byte("x"), "audio/ogg"))
	_, err := s.Transcribe(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.StartRecording())
	assert.Empty(t, s.Text())
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"local rejection", apperrors.Rejected("Invalid file type. Please upload audio."), "Invalid file type. Please upload audio."},
		{"unreachable", ErrUnreachable, "Cannot connect to server."},
		{"server rejection", &ResponseError{StatusCode: 400, Kind: apierrors.KindBadRequest, Message: "No audio file uploaded"}, "No audio file uploaded"},
		{"upstream", &ResponseError{StatusCode: 502, Kind: apierrors.KindUpstream, Message: "x"}, "Transcription service failed. Try again."},
		{"internal", &ResponseError{StatusCode: 500, Kind: apierrors.KindInternal, Message: "x"}, "Processing failed. Try again."},
		{"other", errors.New("boom"), "Processing failed. Try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(tt.err))
		})
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "transcribing", Transcribing.String())
	assert.Equal(t, "state(9)", State(9).String())
}
