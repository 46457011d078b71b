package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGScheduler stores queued tasks in the release_tasks table. Claiming uses
// FOR UPDATE SKIP LOCKED so multiple workers never run the same task twice.
type PGScheduler struct {
	db *pgxpool.Pool
}

func NewPGScheduler(db *pgxpool.Pool) *PGScheduler {
	return &PGScheduler{db: db}
}

func (s *PGScheduler) Schedule(ctx context.Context, runAt time.Time, parkingSpotID, reservationID int64) (string, error) {
	handle := uuid.NewString()
	_, err := s.db.Exec(ctx, `INSERT INTO release_tasks (handle, parking_spot_id, reservation_id, run_at)
		VALUES ($1, $2, $3, $4)`, handle, parkingSpotID, reservationID, runAt)
	if err != nil {
		return "", err
	}
	return handle, nil
}

func (s *PGScheduler) ScheduleAfter(ctx context.Context, delay time.Duration, parkingSpotID, reservationID int64) (string, error) {
	return s.Schedule(ctx, time.Now().UTC().Add(delay), parkingSpotID, reservationID)
}

func (s *PGScheduler) Cancel(ctx context.Context, handle string) bool {
	cmd, err := s.db.Exec(ctx, `DELETE FROM release_tasks WHERE handle=$1`, handle)
	if err != nil {
		log.Printf("cancel release task %s: %v", handle, err)
		return false
	}
	return cmd.RowsAffected() > 0
}

// ClaimDue removes and returns up to limit tasks whose run_at has passed.
// A claimed task cannot be put back; the worker must run it to completion.
func (s *PGScheduler) ClaimDue(ctx context.Context, now time.Time, limit int) ([]Task, error) {
	rows, err := s.db.Query(ctx, `DELETE FROM release_tasks
		WHERE handle IN (
			SELECT handle FROM release_tasks
			WHERE run_at <= $1
			ORDER BY run_at
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING handle, parking_spot_id, reservation_id, run_at`, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]Task, 0)
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.Handle, &t.ParkingSpotID, &t.ReservationID, &t.RunAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

var _ Scheduler = (*PGScheduler)(nil)
