package spots

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/zvrva/securespot/internal/apperrors"
	"github.com/zvrva/securespot/internal/domain"
	"github.com/zvrva/securespot/internal/geo"
)

type MockParkingSpotRepository struct {
	mock.Mock
}

func (m *MockParkingSpotRepository) ListAvailable(ctx context.Context) ([]domain.ParkingSpot, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ParkingSpot), args.Error(1)
}

func (m *MockParkingSpotRepository) GetByID(ctx context.Context, id int64) (*domain.ParkingSpot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParkingSpot), args.Error(1)
}

func (m *MockParkingSpotRepository) SetReserved(ctx context.Context, id int64, reserved bool) error {
	args := m.Called(ctx, id, reserved)
	return args.Error(0)
}

func (m *MockParkingSpotRepository) Create(ctx context.Context, spot *domain.ParkingSpot) error {
	args := m.Called(ctx, spot)
	return args.Error(0)
}

func (m *MockParkingSpotRepository) Deactivate(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetAvailableSpots(ctx context.Context) ([]domain.ParkingSpot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ParkingSpot), args.Error(1)
}

func (m *MockCache) SetAvailableSpots(ctx context.Context, spots []domain.ParkingSpot) error {
	args := m.Called(ctx, spots)
	return args.Error(0)
}

func TestSpotService_ListAvailable_CacheMiss(t *testing.T) {
	mockRepo := &MockParkingSpotRepository{}
	mockCache := &MockCache{}
	service := NewSpotService(mockRepo, mockCache)
	ctx := context.Background()

	spots := []domain.ParkingSpot{{ID: 1, RateCents: 500}, {ID: 2, RateCents: 900}}
	mockCache.On("GetAvailableSpots", ctx).Return(nil, nil).Once()
	mockRepo.On("ListAvailable", ctx).Return(spots, nil).Once()
	mockCache.On("SetAvailableSpots", ctx, spots).Return(nil).Once()

	got, err := service.ListAvailable(ctx)

	assert.NoError(t, err)
	assert.Equal(t, spots, got)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestSpotService_ListAvailable_CacheHit(t *testing.T) {
	mockRepo := &MockParkingSpotRepository{}
	mockCache := &MockCache{}
	service := NewSpotService(mockRepo, mockCache)
	ctx := context.Background()

	cached := []domain.ParkingSpot{{ID: 1, RateCents: 500}}
	mockCache.On("GetAvailableSpots", ctx).Return(cached, nil).Once()

	got, err := service.ListAvailable(ctx)

	assert.NoError(t, err)
	assert.Equal(t, cached, got)
	mockRepo.AssertNotCalled(t, "ListAvailable")
}

func TestSpotService_ListAvailable_RepoError(t *testing.T) {
	mockRepo := &MockParkingSpotRepository{}
	mockCache := &MockCache{}
	service := NewSpotService(mockRepo, mockCache)
	ctx := context.Background()

	mockCache.On("GetAvailableSpots", ctx).Return(nil, nil).Once()
	mockRepo.On("ListAvailable", ctx).Return([]domain.ParkingSpot(nil), errors.New("db down")).Once()

	got, err := service.ListAvailable(ctx)

	assert.Error(t, err)
	assert.Nil(t, got)
	mockCache.AssertNotCalled(t, "SetAvailableSpots")
}

func TestSpotService_ListAvailableWithin_FiltersByRadius(t *testing.T) {
	mockRepo := &MockParkingSpotRepository{}
	service := NewSpotService(mockRepo, nil)
	ctx := context.Background()

	// one degree of latitude is roughly 111.19 km
	spots := []domain.ParkingSpot{
		{ID: 1, Lat: 0, Lng: 0},
		{ID: 2, Lat: 1, Lng: 0},
		{ID: 3, Lat: 2, Lng: 0},
	}
	mockRepo.On("ListAvailable", ctx).Return(spots, nil).Times(3)

	testCases := []struct {
		dist     float64
		expected int
	}{
		{dist: 1, expected: 1},
		{dist: 120, expected: 2},
		{dist: 250, expected: 3},
	}

	for _, tc := range testCases {
		got, err := service.ListAvailableWithin(ctx, 0, 0, tc.dist, geo.UnitKilometers)
		assert.NoError(t, err)
		assert.Len(t, got, tc.expected)
	}
}

func TestSpotService_ListAvailableWithin_MilesUnit(t *testing.T) {
	mockRepo := &MockParkingSpotRepository{}
	service := NewSpotService(mockRepo, nil)
	ctx := context.Background()

	spots := []domain.ParkingSpot{
		{ID: 1, Lat: 0, Lng: 0},
		{ID: 2, Lat: 1, Lng: 0},
	}
	mockRepo.On("ListAvailable", ctx).Return(spots, nil).Once()

	// 111.19 km is about 69.1 miles, so a 70 mile radius covers both
	got, err := service.ListAvailableWithin(ctx, 0, 0, 70, geo.UnitMiles)

	assert.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSpotService_ListAvailableWithin_InvalidCoordinates(t *testing.T) {
	mockRepo := &MockParkingSpotRepository{}
	service := NewSpotService(mockRepo, nil)
	ctx := context.Background()

	testCases := []struct {
		name           string
		lat, lng, dist float64
	}{
		{name: "lat too high", lat: 91, lng: 0, dist: 1},
		{name: "lat too low", lat: -91, lng: 0, dist: 1},
		{name: "lng too high", lat: 0, lng: 181, dist: 1},
		{name: "lng at antimeridian low edge", lat: 0, lng: -180, dist: 1},
		{name: "negative distance", lat: 0, lng: 0, dist: -5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := service.ListAvailableWithin(ctx, tc.lat, tc.lng, tc.dist, geo.UnitKilometers)
			assert.Nil(t, got)
			var validation *apperrors.ValidationError
			assert.ErrorAs(t, err, &validation)
		})
	}
	mockRepo.AssertNotCalled(t, "ListAvailable")
}
