package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"rental-listings/internal/config"
)

// MinioStore writes objects to an S3-compatible bucket
type MinioStore struct {
	client  *minio.Client
	bucket  string
	breaker *CircuitBreaker
	log     *zap.Logger
}

// NewMinioStore connects to the bucket described by cfg. A missing bucket is
// logged, not fatal: hosted stores often forbid bucket creation.
func NewMinioStore(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (*MinioStore, error) {
	u, err := endpointURL(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(u.Host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: u.Scheme == "https",
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", u.Host, err)
	}

	s := &MinioStore{
		client:  client,
		bucket:  cfg.Bucket,
		breaker: NewCircuitBreaker(cfg.BreakerThreshold, cfg.BreakerReset(), log),
		log:     log,
	}

	if err := s.ensureBucketExists(ctx); err != nil {
		log.Warn("Failed to ensure bucket exists", zap.String("bucket", s.bucket), zap.Error(err))
	}

	return s, nil
}

func (s *MinioStore) ensureBucketExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if exists {
		s.log.Info("Bucket already exists", zap.String("bucket", s.bucket))
		return nil
	}

	s.log.Info("Creating bucket", zap.String("bucket", s.bucket))
	return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
}

// Put writes data under key. Without Upsert an existing object is left alone
// and ErrObjectExists is returned.
func (s *MinioStore) Put(ctx context.Context, key string, data []byte, opts PutOptions) (*Object, error) {
	if !s.breaker.CanProceed() {
		return nil, ErrUnavailable
	}

	if !opts.Upsert {
		_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
		if err == nil {
			return nil, ErrObjectExists
		}
		if minio.ToErrorResponse(err).Code != "NoSuchKey" {
			s.breaker.RecordFailure()
			return nil, fmt.Errorf("failed to stat object %s: %w", key, err)
		}
	}

	info, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: opts.ContentType,
	})
	if err != nil {
		s.breaker.RecordFailure()
		s.log.Error("Failed to upload object",
			zap.String("bucket", s.bucket),
			zap.String("key", key),
			zap.Error(err))
		return nil, fmt.Errorf("failed to upload object %s to bucket %s: %w", key, s.bucket, err)
	}
	s.breaker.RecordSuccess()

	s.log.Info("Object uploaded",
		zap.String("bucket", s.bucket),
		zap.String("key", info.Key),
		zap.String("etag", info.ETag),
		zap.Int64("size", info.Size))

	if info.Key == "" {
		return &Object{}, nil
	}
	return &Object{Key: s.bucket + "/" + info.Key}, nil
}
