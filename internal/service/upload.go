package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rental-listings/internal/datauri"
	"rental-listings/internal/storage"
)

// ObjectStore is where uploaded image bytes end up
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, opts storage.PutOptions) (*storage.Object, error)
}

// URLResolver maps a stored object key to its public URL
type URLResolver interface {
	For(key string) string
}

// UploadService stores data URI images and hands back their public URL
type UploadService struct {
	store  ObjectStore
	urls   URLResolver
	newKey func() string
	log    *zap.Logger
}

func NewUploadService(store ObjectStore, urls URLResolver, log *zap.Logger) *UploadService {
	return &UploadService{
		store:  store,
		urls:   urls,
		newKey: uuid.NewString,
		log:    log,
	}
}

// Upload decodes image, writes it under a fresh key and returns its public URL
func (s *UploadService) Upload(ctx context.Context, image string) (string, error) {
	if image == "" {
		return "", ErrNoImageProvided
	}

	payload, err := datauri.Parse(image)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidImageData, err)
	}

	key := s.newKey() + "." + payload.Extension()

	obj, err := s.store.Put(ctx, key, payload.Data, storage.PutOptions{
		ContentType: payload.MediaType,
		Upsert:      true,
	})
	if err != nil {
		s.log.Error("Failed to store image",
			zap.String("key", key),
			zap.String("content_type", payload.MediaType),
			zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrStorageWriteFailed, err)
	}
	if obj == nil || obj.Key == "" {
		s.log.Error("Object store returned no key", zap.String("key", key))
		return "", ErrStorageWriteFailed
	}

	url := s.urls.For(obj.Key)

	s.log.Info("Image uploaded",
		zap.String("key", obj.Key),
		zap.String("content_type", payload.MediaType),
		zap.Int("size", len(payload.Data)))

	return url, nil
}
