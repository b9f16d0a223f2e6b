package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"rental-listings/internal/listing"
	"rental-listings/internal/models"
)

type MockListingStore struct {
	mock.Mock
}

func (m *MockListingStore) CreateListing(ctx context.Context, l *models.Listing) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockListingStore) ListListings(ctx context.Context) ([]models.Listing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Listing), args.Error(1)
}

type MockListingCache struct {
	mock.Mock
}

func (m *MockListingCache) GetListings(ctx context.Context) ([]models.Listing, bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]models.Listing), args.Bool(1), args.Error(2)
}

func (m *MockListingCache) SetListings(ctx context.Context, listings []models.Listing) error {
	return m.Called(ctx, listings).Error(0)
}

func (m *MockListingCache) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) ListingCreated(ctx context.Context, l *models.Listing) error {
	return m.Called(ctx, l).Error(0)
}

func loft() listing.Input {
	return listing.Input{
		Image:       "",
		Title:       "Loft",
		Description: "Nice",
		Price:       100,
		Guests:      2,
		Beds:        1,
		Baths:       1,
	}
}

func TestListingCreate(t *testing.T) {
	store := new(MockListingStore)
	cache := new(MockListingCache)
	events := new(MockEventPublisher)
	svc := NewListingService(store, zap.NewNop()).WithCache(cache).WithEvents(events)

	now := time.Now()
	store.On("CreateListing", mock.Anything, mock.AnythingOfType("*models.Listing")).
		Run(func(args mock.Arguments) {
			l := args.Get(1).(*models.Listing)
			l.ID = "generated-id"
			l.CreatedAt, l.UpdatedAt = now, now
		}).
		Return(nil).Once()
	cache.On("Invalidate", mock.Anything).Return(nil).Once()
	events.On("ListingCreated", mock.Anything, mock.AnythingOfType("*models.Listing")).Return(nil).Once()

	got, err := svc.Create(context.Background(), loft())
	require.NoError(t, err)

	assert.Equal(t, "generated-id", got.ID)
	assert.Equal(t, "Loft", got.Title)
	assert.Equal(t, "Nice", got.Description)
	assert.Equal(t, "", got.Image)
	assert.Equal(t, 100, got.Price)
	assert.Equal(t, 2, got.Guests)
	assert.Equal(t, 1, got.Beds)
	assert.Equal(t, 1, got.Baths)
	assert.Equal(t, now, got.CreatedAt)

	store.AssertExpectations(t)
	cache.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestListingCreate_SideEffectFailuresDoNotFail(t *testing.T) {
	store := new(MockListingStore)
	cache := new(MockListingCache)
	events := new(MockEventPublisher)
	svc := NewListingService(store, zap.NewNop()).WithCache(cache).WithEvents(events)

	store.On("CreateListing", mock.Anything, mock.Anything).Return(nil)
	cache.On("Invalidate", mock.Anything).Return(errors.New("redis down"))
	events.On("ListingCreated", mock.Anything, mock.Anything).Return(errors.New("nats down"))

	_, err := svc.Create(context.Background(), loft())
	assert.NoError(t, err)
}

func TestListingCreate_Invalid(t *testing.T) {
	store := new(MockListingStore)
	svc := NewListingService(store, zap.NewNop())

	in := loft()
	in.Title = "  "
	in.Price = 0

	_, err := svc.Create(context.Background(), in)
	require.ErrorIs(t, err, ErrInvalidListing)

	var verrs listing.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "title")
	assert.Contains(t, verrs, "price")
	store.AssertNotCalled(t, "CreateListing", mock.Anything, mock.Anything)
}

func TestListingCreate_StoreFailure(t *testing.T) {
	store := new(MockListingStore)
	svc := NewListingService(store, zap.NewNop())
	store.On("CreateListing", mock.Anything, mock.Anything).Return(errors.New("duplicate key"))

	got, err := svc.Create(context.Background(), loft())
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrPersistenceFailed)
}

func TestListingList_ReadThroughCache(t *testing.T) {
	store := new(MockListingStore)
	cache := new(MockListingCache)
	svc := NewListingService(store, zap.NewNop()).WithCache(cache)

	rows := []models.Listing{{ID: "a", Title: "Loft"}}

	cache.On("GetListings", mock.Anything).Return(nil, false, nil).Once()
	store.On("ListListings", mock.Anything).Return(rows, nil).Once()
	cache.On("SetListings", mock.Anything, rows).Return(nil).Once()

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rows, got)

	cache.On("GetListings", mock.Anything).Return(rows, true, nil).Once()
	got, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rows, got)

	store.AssertNumberOfCalls(t, "ListListings", 1)
	cache.AssertExpectations(t)
}

func TestListingList_WithoutCache(t *testing.T) {
	store := new(MockListingStore)
	svc := NewListingService(store, zap.NewNop())
	store.On("ListListings", mock.Anything).Return(nil, errors.New("boom"))

	_, err := svc.List(context.Background())
	assert.EqualError(t, err, "boom")
}

func TestListingWarmCache(t *testing.T) {
	store := new(MockListingStore)
	cache := new(MockListingCache)
	svc := NewListingService(store, zap.NewNop()).WithCache(cache)

	rows := []models.Listing{{ID: "a"}, {ID: "b"}}
	store.On("ListListings", mock.Anything).Return(rows, nil).Once()
	cache.On("SetListings", mock.Anything, rows).Return(nil).Once()

	n, err := svc.WarmCache(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	cache.AssertNotCalled(t, "GetListings", mock.Anything)

	n, err = NewListingService(store, zap.NewNop()).WarmCache(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	store.AssertNumberOfCalls(t, "ListListings", 1)
}

// memStore is a listing store whose onList hook runs after the grid is read
// and before it is returned
type memStore struct {
	mu     sync.Mutex
	rows   []models.Listing
	onList func()
}

func (s *memStore) CreateListing(_ context.Context, l *models.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = fmt.Sprintf("id-%d", len(s.rows)+1)
	s.rows = append([]models.Listing{*l}, s.rows...)
	return nil
}

func (s *memStore) ListListings(context.Context) ([]models.Listing, error) {
	s.mu.Lock()
	rows := slices.Clone(s.rows)
	s.mu.Unlock()

	if hook := s.onList; hook != nil {
		s.onList = nil
		hook()
	}
	return rows, nil
}

type memCache struct {
	mu   sync.Mutex
	rows []models.Listing
	ok   bool
}

func (c *memCache) GetListings(context.Context) ([]models.Listing, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rows, c.ok, nil
}

func (c *memCache) SetListings(_ context.Context, rows []models.Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows, c.ok = rows, true
	return nil
}

func (c *memCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows, c.ok = nil, false
	return nil
}

func TestListingList_CreateDuringReadIsNotHiddenByCache(t *testing.T) {
	store := &memStore{}
	cache := &memCache{}
	svc := NewListingService(store, zap.NewNop()).WithCache(cache)
	ctx := context.Background()

	store.onList = func() {
		_, err := svc.Create(ctx, loft())
		require.NoError(t, err)
	}

	got, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Loft", got[0].Title)

	// the second read filled the cache
	cached, ok, _ := cache.GetListings(ctx)
	assert.True(t, ok)
	assert.Len(t, cached, 1)
}

func TestListingWarmCache_CreateDuringReadIsNotHiddenByCache(t *testing.T) {
	store := &memStore{}
	cache := &memCache{}
	svc := NewListingService(store, zap.NewNop()).WithCache(cache)
	ctx := context.Background()

	store.onList = func() {
		_, err := svc.Create(ctx, loft())
		require.NoError(t, err)
	}

	n, err := svc.WarmCache(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, ok, _ := cache.GetListings(ctx)
	assert.False(t, ok)

	got, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
