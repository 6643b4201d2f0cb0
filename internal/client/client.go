// Package client talks to a running voicescribe server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	apierrors "voicescribe/internal/api/errors"
	"voicescribe/internal/api/v1/dto"
	"voicescribe/internal/app/audio"
	"voicescribe/internal/app/common"
	apperrors "voicescribe/internal/app/errors"
	"voicescribe/internal/app/model"
)

// AudioField is the multipart field the server reads the upload from.
const AudioField = "audio"

// DefaultTimeout bounds a whole request including the upstream transcription.
const DefaultTimeout = 3 * time.Minute

// ErrUnreachable reports a network-level failure: the server was never
// reached or the connection dropped before a response arrived.
var ErrUnreachable = errors.New("cannot connect to server")

// ResponseError is a non-2xx answer from the server.
type ResponseError struct {
	StatusCode int
	Kind       apierrors.ErrorKind
	Message    string
	RequestID  string
}

func (e *ResponseError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server returned %d (%s): %s", e.StatusCode, e.Kind, e.Message)
}

// Rejected reports whether the server refused the input itself rather than
// failing to process it.
func (e *ResponseError) Rejected() bool {
	switch e.Kind {
	case apierrors.KindBadRequest, apierrors.KindValidation, apierrors.KindPayloadTooLarge:
		return true
	}
	return false
}

// Client is an HTTP client for the /api endpoints.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *zap.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = common.OrNop(logger)
	}
}

// New creates a client for the server at baseURL, e.g. http://localhost:5000.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q: must be an absolute http:// or https:// URL", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Transcribe uploads one audio payload and returns the recognized text.
// Payloads outside the audio family are rejected locally with an
// ErrInputRejected error and never sent.
func (c *Client) Transcribe(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	mediaType, ok, body, err := audio.ClassifyReader(contentType, r)
	if err != nil {
		return "", fmt.Errorf("failed to read audio: %w", err)
	}
	if !ok {
		return "", apperrors.Rejected(fmt.Sprintf("invalid file type %q: please upload audio", mediaType))
	}

	payload, formType, err := multipartAudio(filename, mediaType, body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/api/transcribe", nil), payload)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", formType)

	var out dto.TranscribeResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.Text, nil
}

// History lists stored transcripts newest first. limit <= 0 uses the server
// default.
func (c *Client) History(ctx context.Context, limit int) ([]model.Transcript, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/api/history", query), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var out []dto.TranscriptResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}

	records := make([]model.Transcript, 0, len(out))
	for _, item := range out {
		records = append(records, model.Transcript{ID: item.ID, Text: item.Text, CreatedAt: item.CreatedAt})
	}
	return records, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = query.Encode()
	return u.String()
}

func (c *Client) do(req *http.Request, out interface{}) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Debug("request failed", zap.String("url", req.URL.String()), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", ErrUnreachable, err)
	}

	c.logger.Debug("request completed",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, data)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(status int, data []byte) error {
	var body apierrors.APIError
	if err := json.Unmarshal(data, &body); err != nil || body.Message == "" {
		return &ResponseError{StatusCode: status, Message: strings.TrimSpace(string(data))}
	}
	return &ResponseError{
		StatusCode: status,
		Kind:       body.Kind,
		Message:    body.Message,
		RequestID:  body.RequestID,
	}
}

func multipartAudio(filename, mediaType string, r io.Reader) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	// CreateFormFile would label the part application/octet-stream.
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, AudioField, filename))
	header.Set("Content-Type", mediaType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, "", fmt.Errorf("failed to copy audio content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}
