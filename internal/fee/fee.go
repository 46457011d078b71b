package fee

import (
	"fmt"

	"github.com/zvrva/securespot/internal/domain"
)

// Cents returns the total reservation fee in cents for a duration at an
// hourly rate, rounded half up. The quote shown to the user and the amount
// actually charged both come through here so the two can never diverge.
func Cents(durationMinutes, rateCents int64) int64 {
	return (durationMinutes*rateCents + 30) / 60
}

// ForReservation computes the fee for a reservation's full window.
func ForReservation(r *domain.Reservation) int64 {
	return Cents(r.DurationMinutes(), r.RateCents)
}

// FormatCents renders a cent amount as a decimal string, e.g. 1000 -> "10.00".
func FormatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
