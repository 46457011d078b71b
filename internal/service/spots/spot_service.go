package spots

import (
	"context"

	"github.com/zvrva/securespot/internal/apperrors"
	"github.com/zvrva/securespot/internal/domain"
	"github.com/zvrva/securespot/internal/geo"
	"github.com/zvrva/securespot/internal/repository"
)

type SpotUseCase interface {
	ListAvailable(ctx context.Context) ([]domain.ParkingSpot, error)
	ListAvailableWithin(ctx context.Context, lat, lng, dist float64, unit geo.Unit) ([]domain.ParkingSpot, error)
}

type Cache interface {
	GetAvailableSpots(ctx context.Context) ([]domain.ParkingSpot, error)
	SetAvailableSpots(ctx context.Context, spots []domain.ParkingSpot) error
}

type SpotService struct {
	repo  repository.ParkingSpotRepository
	cache Cache
}

func NewSpotService(repo repository.ParkingSpotRepository, cache Cache) *SpotService {
	return &SpotService{repo: repo, cache: cache}
}

func (s *SpotService) ListAvailable(ctx context.Context) ([]domain.ParkingSpot, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetAvailableSpots(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	spots, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetAvailableSpots(ctx, spots)
	}
	return spots, nil
}

func (s *SpotService) ListAvailableWithin(ctx context.Context, lat, lng, dist float64, unit geo.Unit) ([]domain.ParkingSpot, error) {
	if lat < -90 || lat > 90 {
		return nil, apperrors.NewValidation("lat", "must be within [-90, 90]")
	}
	if lng <= -180 || lng > 180 {
		return nil, apperrors.NewValidation("lng", "must be within (-180, 180]")
	}
	if dist < 0 {
		return nil, apperrors.NewValidation("dist", "must not be negative")
	}

	spots, err := s.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	within := make([]domain.ParkingSpot, 0)
	for _, spot := range spots {
		if geo.Distance(lat, lng, spot.Lat, spot.Lng, unit) <= dist {
			within = append(within, spot)
		}
	}
	return within, nil
}

var _ SpotUseCase = (*SpotService)(nil)
