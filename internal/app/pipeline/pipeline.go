// Package pipeline runs one upload through receive, transcribe, persist and
// cleanup.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"voicescribe/internal/app/api"
	"voicescribe/internal/app/audio"
	"voicescribe/internal/app/blob"
	apperrors "voicescribe/internal/app/errors"
	"voicescribe/internal/app/metrics"
	"voicescribe/internal/app/model"
	"voicescribe/internal/app/repository"
)

// Upload is one received audio payload.
type Upload struct {
	Body        io.Reader
	Filename    string
	ContentType string
	RequestID   string
}

// Result is what a run produced. It is returned on failure too, with State
// naming the terminal state reached.
type Result struct {
	Text      string
	Record    *model.Transcript
	Persisted bool
	State     State
	MediaType string
	Blob      *blob.Handle
}

// Config tunes a Pipeline.
type Config struct {
	// Provider labels logs and metrics.
	Provider string
	// Model is passed to the transcriber; empty selects its default.
	Model string
	// Timeout bounds the provider call. Zero disables it.
	Timeout time.Duration
}

// Pipeline is safe for concurrent use; every run owns its blob.
type Pipeline struct {
	cfg         Config
	blobs       blob.Store
	transcriber api.Transcriber
	history     repository.HistoryStore
	logger      *zap.Logger
	metrics     *metrics.Metrics
	now         func() time.Time
}

func New(cfg Config, blobs blob.Store, transcriber api.Transcriber, history repository.HistoryStore, logger *zap.Logger, m *metrics.Metrics) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		cfg:         cfg,
		blobs:       blobs,
		transcriber: transcriber,
		history:     history,
		logger:      logger,
		metrics:     m,
		now:         time.Now,
	}
}

// Run executes the pipeline for up.
//
// Only input rejections (apperrors.ErrInputRejected) and provider failures
// (apperrors.ErrUpstream) are returned as errors alongside a failed State.
// A failed history write is logged and reported through Result.Persisted.
// The stored blob is deleted before Run returns, whatever the outcome.
func (p *Pipeline) Run(ctx context.Context, up Upload) (res *Result, err error) {
	log := p.logger.With(zap.String("request_id", up.RequestID), zap.String("filename", up.Filename))
	res = &Result{State: StateReceivedUpload}

	defer func() {
		p.metrics.PipelineFinished(string(res.State))
		if err != nil {
			log.Warn("transcribe pipeline failed", zap.String("state", string(res.State)), zap.Error(err))
		}
	}()

	if up.Body == nil {
		res.State = StateRejectedInput
		return res, apperrors.Rejected("no audio file provided")
	}

	mediaType, ok, body, err := audio.ClassifyReader(up.ContentType, up.Body)
	if err != nil {
		res.State = StateFailed
		return res, fmt.Errorf("failed to read upload: %w", err)
	}
	res.MediaType = mediaType
	if !ok {
		res.State = StateRejectedInput
		return res, apperrors.Rejected(fmt.Sprintf("unsupported media type %q: expected audio", mediaType))
	}

	handle, err := p.blobs.Store(ctx, body, up.Filename, mediaType)
	if err != nil {
		res.State = StateFailed
		return res, fmt.Errorf("failed to store upload: %w", err)
	}
	res.Blob = handle
	log.Debug("upload stored",
		zap.String("key", handle.Key),
		zap.String("media_type", mediaType),
		zap.Int64("size", handle.Size),
		zap.String("sha256", handle.SHA256),
	)
	defer p.cleanup(ctx, handle, log)

	res.State = StateTranscribing
	text, err := p.transcribe(ctx, handle, mediaType)
	if err != nil {
		res.State = StateUpstreamFailed
		return res, err
	}
	res.Text = text

	res.State = StatePersisting
	// The transcript is already paid for; keep it even if the caller hung up.
	rec, perr := p.history.Append(context.WithoutCancel(ctx), text)
	if perr != nil {
		p.metrics.PersistenceFailed()
		log.Error("transcript not persisted",
			zap.Error(apperrors.Wrap(perr, apperrors.ErrPersistence.Error())),
			zap.Int("text_length", len(text)),
		)
		res.State = StatePersistFailed
		return res, nil
	}

	res.Record = rec
	res.Persisted = true
	res.State = StateDone
	log.Info("transcription completed",
		zap.Int64("transcript_id", rec.ID),
		zap.Int("text_length", len(text)),
	)
	return res, nil
}

// transcribe opens the blob, calls the provider and closes the blob on every
// path.
func (p *Pipeline) transcribe(ctx context.Context, h *blob.Handle, mediaType string) (string, error) {
	rc, err := p.blobs.Open(ctx, h)
	if err != nil {
		return "", &api.UpstreamError{Provider: p.cfg.Provider, Err: fmt.Errorf("open stored upload: %w", err)}
	}
	defer rc.Close()

	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	start := p.now()
	text, err := p.transcriber.Transcribe(ctx, rc, providerFilename(h.OriginalName, mediaType), p.cfg.Model)
	p.metrics.UpstreamCall(p.cfg.Provider, p.now().Sub(start), err)
	if err != nil {
		if !errors.Is(err, apperrors.ErrUpstream) {
			err = &api.UpstreamError{Provider: p.cfg.Provider, Err: err}
		}
		return "", err
	}
	return text, nil
}

func (p *Pipeline) cleanup(ctx context.Context, h *blob.Handle, log *zap.Logger) {
	if err := p.blobs.Delete(context.WithoutCancel(ctx), h); err != nil {
		p.metrics.CleanupFailed()
		log.Warn("failed to delete uploaded blob",
			zap.String("key", h.Key),
			zap.Error(apperrors.Wrap(err, apperrors.ErrCleanup.Error())),
		)
	}
}

// providerFilename makes sure the name sent upstream carries an extension,
// which OpenAI-compatible endpoints use to pick a decoder.
func providerFilename(original, mediaType string) string {
	name := filepath.Base(original)
	if name == "." || name == "/" || name == "" {
		name = "audio"
	}
	if filepath.Ext(name) != "" {
		return name
	}
	if mt := mimetype.Lookup(mediaType); mt != nil && mt.Extension() != "" {
		return name + mt.Extension()
	}
	return name + ".webm"
}
