package storage

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"enhanced-seatmap/internal/infra"
	"enhanced-seatmap/internal/pkg/config"
)

// S3Store writes objects to one bucket of an S3-compatible store.
type S3Store struct {
	client *minio.Client
	bucket string
	region string
	logger *slog.Logger
}

func NewS3Store(cfg config.StorageConfig, logger *slog.Logger) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, infra.WrapAdapterErr(logger, infra.KindStorage, "failed to create object store client", err)
	}
	return &S3Store{client: client, bucket: cfg.Bucket, region: cfg.Region, logger: logger}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *S3Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return infra.WrapAdapterErr(s.logger, infra.KindStorage, "failed to check bucket "+s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return infra.WrapAdapterErr(s.logger, infra.KindStorage, "failed to create bucket "+s.bucket, err)
	}
	s.logger.Info("Created bucket", slog.String("bucket", s.bucket))
	return nil
}

func (s *S3Store) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return infra.WrapAdapterErr(s.logger, infra.KindStorage, "failed to put object "+key, err)
	}
	return nil
}
