// Package uploader copies run artifact directories to object storage.
package uploader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"xmltrip/internal/config"
)

// Uploader pushes a local run directory to remote storage and returns its location.
type Uploader interface {
	Enabled() bool
	UploadDir(ctx context.Context, dir string) (string, error)
}

type NoopUploader struct{}

func (n NoopUploader) Enabled() bool {
	return false
}

func (n NoopUploader) UploadDir(ctx context.Context, dir string) (string, error) {
	return "", nil
}

// New picks the configured backend. S3 wins when both are enabled.
func New(storage config.StorageConfig) (Uploader, error) {
	switch {
	case storage.S3.Enabled:
		return NewS3(storage.S3)
	case storage.GCS.Enabled:
		return NewGCS(storage.GCS)
	default:
		return NoopUploader{}, nil
	}
}

// putFunc stores the local file at path under key.
type putFunc func(ctx context.Context, path, key string) error

// bucketUploader uploads run directories into one bucket through put.
type bucketUploader struct {
	scheme string
	bucket string
	prefix string
	put    putFunc
}

func (u *bucketUploader) Enabled() bool {
	return true
}

// UploadDir uploads dir and returns its location as <scheme>://<bucket>/<prefix>/<run>/.
func (u *bucketUploader) UploadDir(ctx context.Context, dir string) (string, error) {
	keyPrefix, err := uploadFiles(ctx, dir, u.prefix, u.put)
	if err != nil {
		return "", fmt.Errorf("%s upload %s: %w", u.scheme, filepath.Base(dir), err)
	}
	return fmt.Sprintf("%s://%s/%s", u.scheme, u.bucket, keyPrefix), nil
}

// uploadFiles uploads the regular files directly under dir to
// <prefix>/<base(dir)>/<name> and returns the object key prefix.
func uploadFiles(ctx context.Context, dir, prefix string, put putFunc) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	base := filepath.Base(dir)
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if err := put(ctx, filepath.Join(dir, entry.Name()), prefix+base+"/"+entry.Name()); err != nil {
			return "", err
		}
	}
	return prefix + base + "/", nil
}
