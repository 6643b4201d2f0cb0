// Package audio classifies uploaded media by MIME family. No decoding or
// format validation happens here.
package audio

import (
	"bytes"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// SniffLen is how many leading bytes Detect needs.
const SniffLen = 3072

const (
	octetStream = "application/octet-stream"
	// MediaRecorder in Chromium and Firefox labels audio-only captures as
	// video/webm when no codec hint is given.
	videoWebM = "video/webm"
)

// BaseType strips parameters and lowercases a media type. Unparseable values
// are returned lowercased and trimmed.
func BaseType(contentType string) string {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(contentType)
	}
	return strings.ToLower(mediaType)
}

// IsAudio reports whether contentType belongs to the accepted audio family.
func IsAudio(contentType string) bool {
	base := BaseType(contentType)
	return strings.HasPrefix(base, "audio/") || base == videoWebM
}

// Detect sniffs the media type from the leading bytes of a payload.
func Detect(head []byte) string {
	return BaseType(mimetype.Detect(head).String())
}

// Classify resolves the effective media type for an upload. A declared audio
// type wins; an empty or generic declaration falls back to sniffing head.
func Classify(declared string, head []byte) (string, bool) {
	base := BaseType(declared)
	if IsAudio(base) {
		return base, true
	}
	if base != "" && base != octetStream {
		return base, false
	}
	detected := Detect(head)
	return detected, IsAudio(detected)
}

// ClassifyReader peeks at r and returns the classification together with a
// reader that replays the peeked bytes.
func ClassifyReader(declared string, r io.Reader) (string, bool, io.Reader, error) {
	head := make([]byte, SniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", false, nil, err
	}
	head = head[:n]
	mediaType, ok := Classify(declared, head)
	return mediaType, ok, io.MultiReader(bytes.NewReader(head), r), nil
}

// TypeByExtension guesses the media type from a file name.
func TypeByExtension(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".webm":
		return "audio/webm"
	case ".ogg", ".oga", ".opus":
		return "audio/ogg"
	case ".m4a":
		return "audio/mp4"
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".flac":
		return "audio/flac"
	case ".txt":
		return "text/plain"
	}
	return BaseType(mime.TypeByExtension(filepath.Ext(name)))
}
