package email

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/zvrva/securespot/internal/fee"
	"github.com/zvrva/securespot/internal/kafka"
)

// Sender turns reservation events into notification mail. Delivery goes to
// the log for now; the SMTP relay is configured per environment.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.ReservationEvent) error {
	subject, body := render(event)
	if subject == "" {
		log.Printf("email: skipping unknown event type %q", event.Type)
		return nil
	}
	log.Printf("email to %s: %s\n%s", event.Email, subject, body)
	return nil
}

func render(event kafka.ReservationEvent) (subject, body string) {
	switch event.Type {
	case kafka.EventReservationConfirmed:
		return "Reservation Confirmation", fmt.Sprintf(
			"Your parking spot reservation is confirmed.\n\nParking Spot: %d\nReservation: %d\nStart: %s\nEnd: %s\nHourly Rate: %s",
			event.ParkingSpotID, event.ReservationID, formatTime(event.StartTime), formatTime(event.EndTime), fee.FormatCents(event.RateCents))
	case kafka.EventReservationAmended:
		return "Reservation Amendment Confirmation", fmt.Sprintf(
			"Your reservation has been amended.\n\nParking Spot: %d\nReservation: %d\nStart: %s\nNew End: %s\nHourly Rate: %s\nCard on file: **** %s",
			event.ParkingSpotID, event.ReservationID, formatTime(event.StartTime), formatTime(event.EndTime), fee.FormatCents(event.RateCents), event.CardLast4)
	case kafka.EventReservationEnded:
		return "Your Reservation Has Ended", fmt.Sprintf(
			"Your reservation has ended and the spot has been released.\n\nParking Spot: %d\nReservation: %d\nTotal Charge: %s\nCard charged: **** %s",
			event.ParkingSpotID, event.ReservationID, fee.FormatCents(event.FeeCents), event.CardLast4)
	}
	return "", ""
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04 MST")
}
