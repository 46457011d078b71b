package domain

import "time"

// ParkingSpot is the rentable unit of inventory. Latitude is bounded by
// [-90,90] and longitude by (-180,180]; the hourly rate is stored in cents.
// Spots with reservation history are deactivated instead of deleted.
type ParkingSpot struct {
	ID        int64
	Lat       float64
	Lng       float64
	RateCents int64
	Reserved  bool
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *ParkingSpot) Status() string {
	if s.Reserved {
		return "reserved"
	}
	return "available"
}
