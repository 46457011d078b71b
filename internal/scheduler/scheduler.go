// Package scheduler queues deferred release tasks. A task is a (parking spot,
// reservation) pair with a run_at timestamp; the worker claims due tasks and
// runs the settle operation. Cancellation is best-effort: a task that the
// worker already claimed cannot be aborted, and correctness relies on the
// settle operation being idempotent rather than on cancellation succeeding.
package scheduler

import (
	"context"
	"time"
)

type Task struct {
	Handle        string
	ParkingSpotID int64
	ReservationID int64
	RunAt         time.Time
}

// Scheduler is injected into the reservation lifecycle controller so tests
// can substitute a fake.
type Scheduler interface {
	// Schedule queues a release task to run at runAt and returns its handle.
	Schedule(ctx context.Context, runAt time.Time, parkingSpotID, reservationID int64) (string, error)
	// ScheduleAfter queues a release task to run after delay.
	ScheduleAfter(ctx context.Context, delay time.Duration, parkingSpotID, reservationID int64) (string, error)
	// Cancel removes a still-queued task. It reports whether the task was
	// actually removed; false means the task was already claimed or gone.
	Cancel(ctx context.Context, handle string) bool
}
