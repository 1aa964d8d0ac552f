package uploader

import (
	"context"
	"io"
	"os"
	"strings"

	"xmltrip/internal/config"
	"xmltrip/internal/util"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// NewGCS returns an uploader that writes each run file as a GCS object.
// A disabled config yields a NoopUploader.
func NewGCS(cfg config.GCSConfig) (Uploader, error) {
	if !cfg.Enabled {
		return NoopUploader{}, nil
	}
	var opts []option.ClientOption
	if path := strings.TrimSpace(cfg.CredentialsFile); path != "" {
		opts = append(opts, option.WithCredentialsFile(path))
	}
	client, err := storage.NewClient(context.Background(), opts...)
	if err != nil {
		return nil, err
	}
	return &bucketUploader{
		scheme: "gs",
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		put:    gcsPut(client.Bucket(cfg.Bucket)),
	}, nil
}

// gcsPut writes each file in a single request; run artifacts are small.
func gcsPut(bucket *storage.BucketHandle) putFunc {
	return func(ctx context.Context, path, key string) error {
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer util.CloseWithErr(file, "gcs upload file")

		writer := bucket.Object(key).NewWriter(ctx)
		writer.ChunkSize = 0
		if _, err := io.Copy(writer, file); err != nil {
			_ = writer.Close()
			return err
		}
		return writer.Close()
	}
}
