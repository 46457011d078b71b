package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zvrva/securespot/internal/domain"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.Reservation) error
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetOwnedByUser(ctx context.Context, id, userID int64) (*domain.Reservation, error)
	GetOwnedByEmail(ctx context.Context, id int64, email string) (*domain.Reservation, error)
	UpdateEndTime(ctx context.Context, id int64, endTime time.Time) (*domain.Reservation, error)
	MarkPaid(ctx context.Context, id int64) error
	SetPaymentRef(ctx context.Context, id int64, ref string) error
	Delete(ctx context.Context, id int64) error
	ListByUser(ctx context.Context, userID int64, paid bool) ([]domain.Reservation, error)
	ListByEmail(ctx context.Context, email string, paid bool) ([]domain.Reservation, error)
}

type PGReservationRepository struct {
	db *pgxpool.Pool
}

func NewReservationRepository(db *pgxpool.Pool) ReservationRepository {
	return &PGReservationRepository{db: db}
}

const reservationColumns = `id, user_id, email, parking_spot_id, rate_cents, start_time, end_time, paid, payment_ref, created_at, updated_at`

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var r domain.Reservation
	if err := row.Scan(&r.ID, &r.UserID, &r.Email, &r.ParkingSpotID, &r.RateCents, &r.StartTime, &r.EndTime, &r.Paid, &r.PaymentRef, &r.CreatedAt, &r.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (r *PGReservationRepository) Create(ctx context.Context, reservation *domain.Reservation) error {
	return r.db.QueryRow(ctx, `INSERT INTO reservations (user_id, email, parking_spot_id, rate_cents, start_time, end_time, paid, payment_ref)
		VALUES ($1, $2, $3, $4, $5, $6, false, '')
		RETURNING id, paid, created_at, updated_at`,
		reservation.UserID, reservation.Email, reservation.ParkingSpotID, reservation.RateCents, reservation.StartTime, reservation.EndTime).
		Scan(&reservation.ID, &reservation.Paid, &reservation.CreatedAt, &reservation.UpdatedAt)
}

func (r *PGReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	return scanReservation(r.db.QueryRow(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id=$1`, id))
}

func (r *PGReservationRepository) GetOwnedByUser(ctx context.Context, id, userID int64) (*domain.Reservation, error) {
	return scanReservation(r.db.QueryRow(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id=$1 AND user_id=$2`, id, userID))
}

func (r *PGReservationRepository) GetOwnedByEmail(ctx context.Context, id int64, email string) (*domain.Reservation, error) {
	return scanReservation(r.db.QueryRow(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id=$1 AND email=$2`, id, email))
}

func (r *PGReservationRepository) UpdateEndTime(ctx context.Context, id int64, endTime time.Time) (*domain.Reservation, error) {
	return scanReservation(r.db.QueryRow(ctx, `UPDATE reservations SET end_time=$1, updated_at=now() WHERE id=$2 RETURNING `+reservationColumns, endTime, id))
}

func (r *PGReservationRepository) MarkPaid(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `UPDATE reservations SET paid=true, updated_at=now() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGReservationRepository) SetPaymentRef(ctx context.Context, id int64, ref string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE reservations SET payment_ref=$1, updated_at=now() WHERE id=$2`, ref, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGReservationRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM reservations WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGReservationRepository) ListByUser(ctx context.Context, userID int64, paid bool) ([]domain.Reservation, error) {
	rows, err := r.db.Query(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE user_id=$1 AND paid=$2 ORDER BY start_time DESC`, userID, paid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

func (r *PGReservationRepository) ListByEmail(ctx context.Context, email string, paid bool) ([]domain.Reservation, error) {
	rows, err := r.db.Query(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE email=$1 AND user_id IS NULL AND paid=$2 ORDER BY start_time DESC`, email, paid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

func collectReservations(rows pgx.Rows) ([]domain.Reservation, error) {
	reservations := make([]domain.Reservation, 0)
	for rows.Next() {
		var r domain.Reservation
		if err := rows.Scan(&r.ID, &r.UserID, &r.Email, &r.ParkingSpotID, &r.RateCents, &r.StartTime, &r.EndTime, &r.Paid, &r.PaymentRef, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		reservations = append(reservations, r)
	}
	return reservations, rows.Err()
}

var _ ReservationRepository = (*PGReservationRepository)(nil)
