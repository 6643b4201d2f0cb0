package testutil

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"voicescribe/internal/app/blob"
	apperrors "voicescribe/internal/app/errors"
	"voicescribe/internal/app/utils"
)

// MemoryBlobStore is an in-memory blob.Store that tracks open readers and
// can be told to fail.
type MemoryBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	open    int

	StoreErr  error
	OpenErr   error
	DeleteErr error
}

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{objects: make(map[string][]byte)}
}

func (s *MemoryBlobStore) Store(ctx context.Context, r io.Reader, suggestedName, contentType string) (*blob.Handle, error) {
	if s.StoreErr != nil {
		return nil, s.StoreErr
	}
	hr := utils.NewHashingReader(r)
	data, err := io.ReadAll(hr)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	key := blob.UniqueName(now, suggestedName)

	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()

	return &blob.Handle{
		Key:          key,
		OriginalName: suggestedName,
		ContentType:  contentType,
		Size:         hr.Size(),
		SHA256:       hr.Sum(),
		StoredAt:     now,
	}, nil
}

func (s *MemoryBlobStore) Open(ctx context.Context, h *blob.Handle) (io.ReadCloser, error) {
	if s.OpenErr != nil {
		return nil, s.OpenErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[h.Key]
	if !ok {
		return nil, apperrors.ErrBlobNotFound
	}
	s.open++
	return &trackedReader{Reader: bytes.NewReader(data), store: s}, nil
}

func (s *MemoryBlobStore) Delete(ctx context.Context, h *blob.Handle) error {
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[h.Key]; !ok {
		return apperrors.ErrBlobNotFound
	}
	delete(s.objects, h.Key)
	return nil
}

// Len returns the number of stored objects.
func (s *MemoryBlobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// Exists reports whether h is still stored.
func (s *MemoryBlobStore) Exists(h *blob.Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[h.Key]
	return ok
}

// OpenReaders returns readers handed out by Open and not yet closed.
func (s *MemoryBlobStore) OpenReaders() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

type trackedReader struct {
	*bytes.Reader
	store  *MemoryBlobStore
	closed bool
}

func (r *trackedReader) Close() error {
	if r.closed {
		return errors.New("reader closed twice")
	}
	r.closed = true
	r.store.mu.Lock()
	r.store.open--
	r.store.mu.Unlock()
	return nil
}
