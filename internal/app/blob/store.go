// Package blob holds uploaded audio for the lifetime of a single request.
package blob

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store is transient storage for in-flight uploads. Implementations never
// share names between calls, so concurrent requests need no locking.
type Store interface {
	// Store copies r into a freshly named object.
	Store(ctx context.Context, r io.Reader, suggestedName, contentType string) (*Handle, error)
	// Open returns a reader for a stored object. The caller closes it.
	Open(ctx context.Context, h *Handle) (io.ReadCloser, error)
	// Delete removes a stored object.
	Delete(ctx context.Context, h *Handle) error
}

// Handle identifies one stored upload.
type Handle struct {
	Key          string
	OriginalName string
	ContentType  string
	Size         int64
	SHA256       string
	StoredAt     time.Time
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

const maxNameLen = 64

// UniqueName builds a collision-resistant storage name from the upload's
// original name: <unix-nanos>-<random>-<sanitized name>.
func UniqueName(now time.Time, suggestedName string) string {
	base := filepath.Base(strings.ReplaceAll(suggestedName, "\\", "/"))
	base = unsafeName.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		base = "audio"
	}
	if len(base) > maxNameLen {
		ext := filepath.Ext(base)
		if len(ext) > 10 {
			ext = ""
		}
		base = base[:maxNameLen-len(ext)] + ext
	}
	return fmt.Sprintf("%d-%s-%s", now.UnixNano(), uuid.New().String()[:8], base)
}
