package pipeline

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"voicescribe/internal/app/api"
	apperrors "voicescribe/internal/app/errors"
	"voicescribe/internal/app/metrics"
	"voicescribe/internal/app/repository/memory"
	fakes "voicescribe/internal/app/testutil"
)

type harness struct {
	pipeline    *Pipeline
	blobs       *fakes.MemoryBlobStore
	transcriber *fakes.FakeTranscriber
	history     *memory.History
	metrics     *metrics.Metrics
}

func newHarness(t *testing.T, text string) *harness {
	t.Helper()
	h := &harness{
		blobs:       fakes.NewMemoryBlobStore(),
		transcriber: fakes.NewFakeTranscriber(text),
		history:     memory.New(),
		metrics:     metrics.New(),
	}
	h.pipeline = New(Config{Provider: "groq", Model: "whisper-large-v3"}, h.blobs, h.transcriber, h.history, nil, h.metrics)
	return h
}

func webmUpload(payload []byte) Upload {
	return Upload{
		Body:        bytes.NewReader(payload),
		Filename:    "recording.webm",
		ContentType: "audio/webm;codecs=opus",
		RequestID:   "req-1",
	}
}

func TestRun_Success(t *testing.T) {
	h := newHarness(t, "hello world")

	res, err := h.pipeline.Run(context.Background(), webmUpload([]byte("some audio bytes")))
	require.NoError(t, err)

	assert.Equal(t, "hello world", res.Text)
	assert.Equal(t, StateDone, res.State)
	assert.True(t, res.Persisted)
	require.NotNil(t, res.Record)
	assert.Equal(t, "hello world", res.Record.Text)
	assert.Equal(t, "audio/webm", res.MediaType)

	call := h.transcriber.LastCall()
	assert.Equal(t, "some audio bytes", string(call.Payload))
	assert.Equal(t, "recording.webm", call.Filename)
	assert.Equal(t, "whisper-large-v3", call.Model)

	assert.Zero(t, h.blobs.Len(), "blob deleted after success")
	assert.Zero(t, h.blobs.OpenReaders(), "blob reader closed")

	records, _ := h.history.ListRecent(context.Background(), 0)
	require.Len(t, records, 1)
	assert.Equal(t, res.Record.ID, records[0].ID)

	n, err := testutil.GatherAndCount(h.metrics.Registry(), "voicescribe_pipeline_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRun_Silence(t *testing.T) {
	h := newHarness(t, "")

	up := Upload{Body: bytes.NewReader(fakes.SilenceWebM), Filename: "silence.webm", ContentType: "audio/webm"}
	res, err := h.pipeline.Run(context.Background(), up)
	require.NoError(t, err)

	assert.Equal(t, "", res.Text)
	assert.True(t, res.Persisted)

	records, _ := h.history.ListRecent(context.Background(), 0)
	require.Len(t, records, 1)
	assert.Equal(t, "", records[0].Text)
}

func TestRun_NoDeduplication(t *testing.T) {
	h := newHarness(t, "same")
	payload := []byte("identical bytes")

	first, err := h.pipeline.Run(context.Background(), webmUpload(payload))
	require.NoError(t, err)
	second, err := h.pipeline.Run(context.Background(), webmUpload(payload))
	require.NoError(t, err)

	assert.Equal(t, first.Blob.SHA256, second.Blob.SHA256)
	assert.NotEqual(t, first.Record.ID, second.Record.ID)
	assert.Equal(t, 2, h.transcriber.CallCount())

	records, _ := h.history.ListRecent(context.Background(), 0)
	assert.Len(t, records, 2)
	assert.Equal(t, second.Record.ID, records[0].ID, "last appended is listed first")
}

func TestRun_RejectedInput(t *testing.T) {
	tests := []struct {
		name   string
		upload Upload
	}{
		{"missing body", Upload{Filename: "a.webm", ContentType: "audio/webm"}},
		{"declared text", Upload{Body: bytes.NewReader(fakes.PlainText), Filename: "notes.txt", ContentType: "text/plain"}},
		{"sniffed text", Upload{Body: bytes.NewReader(fakes.PlainText), Filename: "notes", ContentType: "application/octet-stream"}},
		{"declared image", Upload{Body: bytes.NewReader([]byte("x")), Filename: "a.png", ContentType: "image/png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, "never")

			res, err := h.pipeline.Run(context.Background(), tt.upload)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrInputRejected))
			assert.Equal(t, StateRejectedInput, res.State)
			assert.Zero(t, h.transcriber.CallCount(), "client never called")
			assert.Zero(t, h.blobs.Len())
		})
	}
}

func TestRun_SniffsGenericUploads(t *testing.T) {
	h := newHarness(t, "wav ok")

	up := Upload{Body: bytes.NewReader(fakes.WAVHeader), Filename: "clip", ContentType: "application/octet-stream"}
	res, err := h.pipeline.Run(context.Background(), up)
	require.NoError(t, err)
	assert.Equal(t, "audio/wav", res.MediaType)
	assert.Equal(t, "clip.wav", h.transcriber.LastCall().Filename)
	assert.Equal(t, string(fakes.WAVHeader), string(h.transcriber.LastCall().Payload))
}

func TestRun_UpstreamFailure(t *testing.T) {
	h := newHarness(t, "")
	h.transcriber.Err = &api.ExternalServiceError{Provider: "groq", StatusCode: http.StatusTooManyRequests, Message: "rate limited"}

	res, err := h.pipeline.Run(context.Background(), webmUpload([]byte("audio")))
	require.Error(t, err)

	assert.Equal(t, StateUpstreamFailed, res.State)
	assert.True(t, errors.Is(err, apperrors.ErrUpstream))
	var ext *api.ExternalServiceError
	require.True(t, errors.As(err, &ext))
	assert.Equal(t, http.StatusTooManyRequests, ext.StatusCode)

	assert.Zero(t, h.blobs.Len(), "blob deleted after upstream failure")
	assert.Zero(t, h.blobs.OpenReaders())
	records, _ := h.history.ListRecent(context.Background(), 0)
	assert.Empty(t, records, "nothing persisted")
}

func TestRun_PlainErrorsBecomeUpstream(t *testing.T) {
	h := newHarness(t, "")
	h.transcriber.Err = errors.New("connection refused")

	_, err := h.pipeline.Run(context.Background(), webmUpload([]byte("audio")))

	var up *api.UpstreamError
	require.True(t, errors.As(err, &up))
	assert.Equal(t, "groq", up.Provider)
	assert.True(t, errors.Is(err, apperrors.ErrUpstream))
}

func TestRun_Timeout(t *testing.T) {
	h := newHarness(t, "too slow")
	h.transcriber.Latency = time.Second
	h.pipeline.cfg.Timeout = 20 * time.Millisecond

	start := time.Now()
	res, err := h.pipeline.Run(context.Background(), webmUpload([]byte("audio")))

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, StateUpstreamFailed, res.State)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.True(t, errors.Is(err, apperrors.ErrUpstream))
	assert.Zero(t, h.blobs.Len())
}

func TestRun_PersistenceFailureStillReturnsText(t *testing.T) {
	blobs := fakes.NewMemoryBlobStore()
	history := &fakes.MockHistoryStore{}
	history.On("Append", mock.Anything, "kept anyway").Return(nil, errors.New("database is locked"))
	logger, logs := fakes.NewObservedLogger()

	p := New(Config{Provider: "groq"}, blobs, fakes.NewFakeTranscriber("kept anyway"), history, logger, nil)

	res, err := p.Run(context.Background(), webmUpload([]byte("audio")))
	require.NoError(t, err)

	assert.Equal(t, "kept anyway", res.Text)
	assert.False(t, res.Persisted)
	assert.Nil(t, res.Record)
	assert.Equal(t, StatePersistFailed, res.State)
	assert.True(t, res.State.Succeeded())
	assert.Zero(t, blobs.Len())

	entries := logs.FilterMessage("transcript not persisted").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])
	history.AssertExpectations(t)
}

func TestRun_CleanupFailureIsOnlyLogged(t *testing.T) {
	h := newHarness(t, "fine")
	h.blobs.DeleteErr = errors.New("permission denied")
	logger, logs := fakes.NewObservedLogger()
	h.pipeline.logger = logger

	res, err := h.pipeline.Run(context.Background(), webmUpload([]byte("audio")))
	require.NoError(t, err)
	assert.Equal(t, "fine", res.Text)
	assert.Equal(t, StateDone, res.State)

	assert.Equal(t, 1, logs.FilterMessage("failed to delete uploaded blob").Len())
}

func TestRun_StoreFailure(t *testing.T) {
	h := newHarness(t, "never")
	h.blobs.StoreErr = errors.New("disk full")

	res, err := h.pipeline.Run(context.Background(), webmUpload([]byte("audio")))
	require.Error(t, err)
	assert.Equal(t, StateFailed, res.State)
	assert.False(t, errors.Is(err, apperrors.ErrInputRejected))
	assert.False(t, errors.Is(err, apperrors.ErrUpstream))
	assert.Zero(t, h.transcriber.CallCount())
}

func TestRun_CancelledRequestStillCleansUp(t *testing.T) {
	h := newHarness(t, "late")
	h.transcriber.Latency = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	res, err := h.pipeline.Run(ctx, webmUpload([]byte("audio")))
	require.Error(t, err)
	assert.Equal(t, StateUpstreamFailed, res.State)
	assert.Zero(t, h.blobs.Len())
}

func TestState(t *testing.T) {
	for _, s := range []State{StateReceivedUpload, StateTranscribing, StatePersisting} {
		assert.False(t, s.Terminal(), s)
		assert.False(t, s.Succeeded(), s)
	}
	for _, s := range []State{StateDone, StatePersistFailed} {
		assert.True(t, s.Terminal(), s)
		assert.True(t, s.Succeeded(), s)
	}
	for _, s := range []State{StateRejectedInput, StateUpstreamFailed, StateFailed} {
		assert.True(t, s.Terminal(), s)
		assert.False(t, s.Succeeded(), s)
	}
}

func TestProviderFilename(t *testing.T) {
	assert.Equal(t, "memo.ogg", providerFilename("memo.ogg", "audio/ogg"))
	assert.Equal(t, "memo.wav", providerFilename("memo", "audio/wav"))
	assert.Equal(t, "audio.webm", providerFilename("", "audio/webm"))
	assert.Equal(t, "audio.webm", providerFilename("", "audio/x-unknown"))
}
