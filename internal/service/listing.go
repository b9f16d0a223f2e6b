package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"rental-listings/internal/listing"
	"rental-listings/internal/models"
)

// ListingStore persists listings
type ListingStore interface {
	CreateListing(ctx context.Context, l *models.Listing) error
	ListListings(ctx context.Context) ([]models.Listing, error)
}

// ListingCache caches the listing grid
type ListingCache interface {
	GetListings(ctx context.Context) ([]models.Listing, bool, error)
	SetListings(ctx context.Context, listings []models.Listing) error
	Invalidate(ctx context.Context) error
}

// EventPublisher announces stored listings
type EventPublisher interface {
	ListingCreated(ctx context.Context, l *models.Listing) error
}

// ListingService creates and lists rental listings
type ListingService struct {
	store  ListingStore
	cache  ListingCache
	events EventPublisher
	log    *zap.Logger

	// generation counts stored listings. A grid read from the store is only
	// written to the cache if no listing was created since the read began.
	fillMu     sync.Mutex
	generation uint64
}

func NewListingService(store ListingStore, log *zap.Logger) *ListingService {
	return &ListingService{store: store, log: log}
}

// WithCache enables the read-through grid cache
func (s *ListingService) WithCache(c ListingCache) *ListingService {
	s.cache = c
	return s
}

// WithEvents enables listing events
func (s *ListingService) WithEvents(p EventPublisher) *ListingService {
	s.events = p
	return s
}

// Create validates in and stores it as a new listing
func (s *ListingService) Create(ctx context.Context, in listing.Input) (*models.Listing, error) {
	if err := listing.Validate(in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidListing, err)
	}

	l := in.Listing()
	if err := s.store.CreateListing(ctx, l); err != nil {
		s.log.Error("Failed to create listing", zap.String("title", l.Title), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}

	s.log.Info("Listing created", zap.String("id", l.ID), zap.Bool("has_image", l.Image != ""))

	s.fillMu.Lock()
	s.generation++
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.log.Warn("Failed to invalidate listing cache", zap.Error(err))
		}
	}
	s.fillMu.Unlock()

	if s.events != nil {
		if err := s.events.ListingCreated(ctx, l); err != nil {
			s.log.Warn("Failed to publish listing event", zap.String("id", l.ID), zap.Error(err))
		}
	}

	return l, nil
}

// List returns every listing, newest first
func (s *ListingService) List(ctx context.Context) ([]models.Listing, error) {
	if s.cache != nil {
		listings, ok, err := s.cache.GetListings(ctx)
		if err != nil {
			s.log.Warn("Listing cache read failed", zap.Error(err))
		} else if ok {
			return listings, nil
		}
	}

	gen := s.currentGeneration()
	listings, err := s.store.ListListings(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.fill(ctx, gen, listings); err != nil {
			s.log.Warn("Listing cache write failed", zap.Error(err))
		}
	}
	return listings, nil
}

// WarmCache reloads the grid from the store into the cache and returns the
// number of listings read. Without a cache it does nothing.
func (s *ListingService) WarmCache(ctx context.Context) (int, error) {
	if s.cache == nil {
		return 0, nil
	}

	gen := s.currentGeneration()
	listings, err := s.store.ListListings(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.fill(ctx, gen, listings); err != nil {
		return 0, err
	}
	return len(listings), nil
}

func (s *ListingService) currentGeneration() uint64 {
	s.fillMu.Lock()
	defer s.fillMu.Unlock()
	return s.generation
}

// fill caches listings read at generation gen. A snapshot older than the
// last Create is dropped so it cannot overwrite the invalidation.
func (s *ListingService) fill(ctx context.Context, gen uint64, listings []models.Listing) error {
	s.fillMu.Lock()
	defer s.fillMu.Unlock()

	if s.generation != gen {
		s.log.Debug("Skipping stale listing cache fill",
			zap.Uint64("read_generation", gen),
			zap.Uint64("generation", s.generation))
		return nil
	}
	return s.cache.SetListings(ctx, listings)
}
