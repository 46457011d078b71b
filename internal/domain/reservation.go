package domain

import "time"

// Reservation is a time-bounded claim on a parking spot. UserID is nil for
// guest reservations; Email is always set so notification mail can be sent
// without a join. RateCents is copied from the spot at creation time and is
// never updated afterwards, so later price changes cannot affect an in-flight
// reservation.
type Reservation struct {
	ID            int64
	UserID        *int64
	Email         string
	ParkingSpotID int64
	RateCents     int64
	StartTime     time.Time
	EndTime       time.Time
	Paid          bool
	PaymentRef    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DurationMinutes rounds the reservation window to whole minutes, half up.
func (r *Reservation) DurationMinutes() int64 {
	secs := int64(r.EndTime.Sub(r.StartTime).Seconds())
	return (secs + 30) / 60
}
