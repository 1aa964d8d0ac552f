package uploader

import (
	"context"
	"os"

	"xmltrip/internal/config"
	"xmltrip/internal/util"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// NewS3 returns an uploader that stores each run file with PutObject.
// A disabled config yields a NoopUploader.
func NewS3(cfg config.S3Config) (Uploader, error) {
	if !cfg.Enabled {
		return NoopUploader{}, nil
	}
	client, err := newS3Client(cfg)
	if err != nil {
		return nil, err
	}
	return &bucketUploader{
		scheme: "s3",
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		put:    s3Put(client, cfg.Bucket),
	}, nil
}

// newS3Client builds a client for AWS or, when Endpoint is set, an
// S3-compatible server. Checksums are only sent where the API requires
// them since many compatible servers reject aws-chunked trailers.
func newS3Client(cfg config.S3Config) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken)))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		}
	}), nil
}

func s3Put(client *s3.Client, bucket string) putFunc {
	return func(ctx context.Context, path, key string) error {
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer util.CloseWithErr(file, "s3 upload file")

		info, err := file.Stat()
		if err != nil {
			return err
		}
		_, err = client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(bucket),
			Key:           aws.String(key),
			Body:          file,
			ContentLength: aws.Int64(info.Size()),
		})
		return err
	}
}
