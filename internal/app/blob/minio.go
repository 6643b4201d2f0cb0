package blob

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	apperrors "voicescribe/internal/app/errors"
	"voicescribe/internal/app/utils"
)

// MinioConfig holds connection settings for an S3-compatible bucket.
type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
	Prefix    string `yaml:"prefix"`
}

// MinioStore keeps uploads as objects in a MinIO/S3 bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
	prefix string
	now    func() time.Time
}

// NewMinioStore connects to MinIO and makes sure the bucket exists.
func NewMinioStore(ctx context.Context, cfg MinioConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "uploads/"
	}

	return &MinioStore{
		client: client,
		bucket: cfg.Bucket,
		prefix: prefix,
		now:    time.Now,
	}, nil
}

// Store uploads r as a new object.
func (s *MinioStore) Store(ctx context.Context, r io.Reader, suggestedName, contentType string) (*Handle, error) {
	key := s.prefix + UniqueName(s.now(), suggestedName)

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	hr := utils.NewHashingReader(r)
	_, err := s.client.PutObject(ctx, s.bucket, key, hr, -1, minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"original-name": suggestedName,
			"uploaded-at":   s.now().Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload blob to MinIO: %w", err)
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

// Open streams the object back.
func (s *MinioStore) Open(ctx context.Context, h *Handle) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, h.Key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get blob from MinIO: %w", err)
	}
	// GetObject is lazy; Stat surfaces a missing key before the caller reads.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, apperrors.Wrapf(apperrors.ErrBlobNotFound, "open %s", h.Key)
		}
		return nil, fmt.Errorf("failed to stat blob in MinIO: %w", err)
	}
	return obj, nil
}

// Delete removes the object.
func (s *MinioStore) Delete(ctx context.Context, h *Handle) error {
	if err := s.client.RemoveObject(ctx, s.bucket, h.Key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete blob from MinIO: %w", err)
	}
	return nil
}
