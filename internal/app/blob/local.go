package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	apperrors "voicescribe/internal/app/errors"
	"voicescribe/internal/app/utils"
)

// LocalStore keeps uploads as files in a single directory.
type LocalStore struct {
	dir     string
	once    sync.Once
	initErr error
	now     func() time.Time
}

// NewLocalStore creates a store rooted at dir. The directory is created on
// first use.
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{
		dir: dir,
		now: time.Now,
	}
}

// Dir returns the directory uploads are written to.
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) ensureDir() error {
	s.once.Do(func() {
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			s.initErr = fmt.Errorf("failed to create upload directory %s: %w", s.dir, err)
		}
	})
	return s.initErr
}

// Store writes r to a new file in the upload directory.
func (s *LocalStore) Store(ctx context.Context, r io.Reader, suggestedName, contentType string) (*Handle, error) {
	if err := s.ensureDir(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := UniqueName(s.now(), suggestedName)
	path := filepath.Join(s.dir, key)

	// O_EXCL: a name collision is a bug, never an overwrite.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob file: %w", err)
	}

	hr := utils.NewHashingReader(r)
	if _, err := io.Copy(f, hr); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to write blob file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to close blob file: %w", err)
	}

	return &Handle{
		Key:          key,
		OriginalName: suggestedName,
		ContentType:  contentType,
		Size:         hr.Size(),
		SHA256:       hr.Sum(),
		StoredAt:     s.now(),
	}, nil
}

// Open opens the stored file for reading.
func (s *LocalStore) Open(ctx context.Context, h *Handle) (io.ReadCloser, error) {
	f, err := os.Open(s.Path(h))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.Wrapf(apperrors.ErrBlobNotFound, "open %s", h.Key)
		}
		return nil, fmt.Errorf("failed to open blob file: %w", err)
	}
	return f, nil
}

// Delete removes the stored file.
func (s *LocalStore) Delete(ctx context.Context, h *Handle) error {
	if err := os.Remove(s.Path(h)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperrors.Wrapf(apperrors.ErrBlobNotFound, "delete %s", h.Key)
		}
		return fmt.Errorf("failed to delete blob file: %w", err)
	}
	return nil
}

// Path returns the on-disk location of h.
func (s *LocalStore) Path(h *Handle) string {
	return filepath.Join(s.dir, filepath.Base(h.Key))
}
