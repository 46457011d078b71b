package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zvrva/securespot/internal/domain"
)

type ParkingSpotRepository interface {
	ListAvailable(ctx context.Context) ([]domain.ParkingSpot, error)
	GetByID(ctx context.Context, id int64) (*domain.ParkingSpot, error)
	SetReserved(ctx context.Context, id int64, reserved bool) error
	Create(ctx context.Context, spot *domain.ParkingSpot) error
	Deactivate(ctx context.Context, id int64) error
}

type PGParkingSpotRepository struct {
	db *pgxpool.Pool
}

func NewParkingSpotRepository(db *pgxpool.Pool) ParkingSpotRepository {
	return &PGParkingSpotRepository{db: db}
}

const spotColumns = `id, lat, lng, rate_cents, reserved, active, created_at, updated_at`

func (r *PGParkingSpotRepository) ListAvailable(ctx context.Context) ([]domain.ParkingSpot, error) {
	rows, err := r.db.Query(ctx, `SELECT `+spotColumns+` FROM parking_spots WHERE reserved=false AND active=true ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	spots := make([]domain.ParkingSpot, 0)
	for rows.Next() {
		var s domain.ParkingSpot
		if err := rows.Scan(&s.ID, &s.Lat, &s.Lng, &s.RateCents, &s.Reserved, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		spots = append(spots, s)
	}
	return spots, rows.Err()
}

func (r *PGParkingSpotRepository) GetByID(ctx context.Context, id int64) (*domain.ParkingSpot, error) {
	row := r.db.QueryRow(ctx, `SELECT `+spotColumns+` FROM parking_spots WHERE id=$1`, id)
	var s domain.ParkingSpot
	if err := row.Scan(&s.ID, &s.Lat, &s.Lng, &s.RateCents, &s.Reserved, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGParkingSpotRepository) SetReserved(ctx context.Context, id int64, reserved bool) error {
	cmd, err := r.db.Exec(ctx, `UPDATE parking_spots SET reserved=$1, updated_at=now() WHERE id=$2`, reserved, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGParkingSpotRepository) Create(ctx context.Context, spot *domain.ParkingSpot) error {
	return r.db.QueryRow(ctx, `INSERT INTO parking_spots (lat, lng, rate_cents, reserved, active)
		VALUES ($1, $2, $3, false, true)
		RETURNING id, reserved, active, created_at, updated_at`,
		spot.Lat, spot.Lng, spot.RateCents).
		Scan(&spot.ID, &spot.Reserved, &spot.Active, &spot.CreatedAt, &spot.UpdatedAt)
}

// Deactivate takes a spot out of the rentable pool. Spots are never hard
// deleted because historical reservations reference them.
func (r *PGParkingSpotRepository) Deactivate(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `UPDATE parking_spots SET active=false, updated_at=now() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var _ ParkingSpotRepository = (*PGParkingSpotRepository)(nil)
