package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
)

// HashingReader hashes and counts everything read through it.
type HashingReader struct {
	r    io.Reader
	hash hash.Hash
	n    int64
}

// NewHashingReader wraps r with a SHA256 digest.
func NewHashingReader(r io.Reader) *HashingReader {
	h := sha256.New()
	return &HashingReader{
		r:    io.TeeReader(r, h),
		hash: h,
	}
}

func (h *HashingReader) Read(p []byte) (int, error) {
	n, err := h.r.Read(p)
	h.n += int64(n)
	return n, err
}

// Sum returns the hex digest of the bytes read so far.
func (h *HashingReader) Sum() string {
	return hex.EncodeToString(h.hash.Sum(nil))
}

// Size returns the number of bytes read so far.
func (h *HashingReader) Size() int64 {
	return h.n
}
