package reservation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/zvrva/securespot/internal/apperrors"
	"github.com/zvrva/securespot/internal/domain"
	"github.com/zvrva/securespot/internal/fee"
	"github.com/zvrva/securespot/internal/kafka"
	"github.com/zvrva/securespot/internal/payments"
	"github.com/zvrva/securespot/internal/repository"
	"github.com/zvrva/securespot/internal/scheduler"
)

type ReservationUseCase interface {
	Create(ctx context.Context, input CreateReservationInput) (*domain.Reservation, error)
	Get(ctx context.Context, id int64, requester domain.Requester) (*domain.Reservation, error)
	Amend(ctx context.Context, id int64, requester domain.Requester, newEndTime time.Time) (*domain.Reservation, error)
	Cancel(ctx context.Context, id int64, requester domain.Requester) error
	ListActive(ctx context.Context, requester domain.Requester) ([]domain.Reservation, error)
	ListSettled(ctx context.Context, requester domain.Requester) ([]domain.Reservation, error)
	Settle(ctx context.Context, parkingSpotID, reservationID int64) error
	CreatePaymentSetup(ctx context.Context, reservationID int64, email string) (*payments.SetupIntent, error)
	ConfirmPaymentSetup(ctx context.Context, reservationID int64, email string) error
}

// TaskIndex is the eventually consistent reservation-id to task-handle
// mapping plus the availability cache invalidation hook. Index staleness is
// tolerated everywhere: the settle operation re-checks persisted state.
type TaskIndex interface {
	SetTaskHandle(ctx context.Context, reservationID int64, handle string) error
	GetTaskHandle(ctx context.Context, reservationID int64) (string, error)
	DeleteTaskHandle(ctx context.Context, reservationID int64) error
	InvalidateSpots(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateReservationInput struct {
	ParkingSpotID   int64
	Requester       domain.Requester
	DurationMinutes int
}

type Service struct {
	reservations repository.ReservationRepository
	spots        repository.ParkingSpotRepository
	users        repository.UserRepository
	sched        scheduler.Scheduler
	index        TaskIndex
	producer     Producer
	processor    payments.Processor
	topic        string
}

func NewService(
	reservations repository.ReservationRepository,
	spots repository.ParkingSpotRepository,
	users repository.UserRepository,
	sched scheduler.Scheduler,
	index TaskIndex,
	producer Producer,
	processor payments.Processor,
	notificationsTopic string,
) *Service {
	return &Service{
		reservations: reservations,
		spots:        spots,
		users:        users,
		sched:        sched,
		index:        index,
		producer:     producer,
		processor:    processor,
		topic:        notificationsTopic,
	}
}

func (s *Service) Create(ctx context.Context, input CreateReservationInput) (*domain.Reservation, error) {
	if input.DurationMinutes <= 0 {
		return nil, apperrors.NewValidation("reservation_length", "must be a positive number of minutes")
	}

	spot, err := s.spots.GetByID(ctx, input.ParkingSpotID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &apperrors.NotFoundError{Resource: "parking spot"}
		}
		return nil, err
	}

	// availability first: a client should learn "already booked" before
	// "use your account" when both apply
	if !spot.Active {
		return nil, &apperrors.ConflictError{Reason: "this parking spot is currently not commercially available"}
	}
	if spot.Reserved {
		return nil, &apperrors.ConflictError{Reason: "this parking spot is already reserved"}
	}

	var userID *int64
	var email string
	switch r := input.Requester.(type) {
	case domain.Account:
		userID = &r.UserID
		email = r.Email
	case domain.Guest:
		exists, err := s.users.ExistsByEmail(ctx, r.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, &apperrors.ConflictError{Reason: "this email is assigned to an existing account, please sign in to reserve your spot"}
		}
		email = r.Email
	default:
		return nil, fmt.Errorf("unknown requester type %T", input.Requester)
	}

	startTime := time.Now().UTC().Truncate(time.Minute)
	endTime := startTime.Add(time.Duration(input.DurationMinutes) * time.Minute)

	res := &domain.Reservation{
		UserID:        userID,
		Email:         email,
		ParkingSpotID: spot.ID,
		RateCents:     spot.RateCents,
		StartTime:     startTime,
		EndTime:       endTime,
	}
	if err := s.reservations.Create(ctx, res); err != nil {
		return nil, err
	}

	if err := s.spots.SetReserved(ctx, spot.ID, true); err != nil {
		return nil, err
	}
	s.invalidateSpots(ctx)

	handle, err := s.sched.Schedule(ctx, endTime, spot.ID, res.ID)
	if err != nil {
		// a reservation without a queued release task never auto-releases
		return nil, &apperrors.SchedulingError{Op: "release task", Err: err}
	}
	if err := s.index.SetTaskHandle(ctx, res.ID, handle); err != nil {
		log.Printf("record task handle for reservation %d: %v", res.ID, err)
	}

	s.publish(ctx, kafka.EventReservationConfirmed, res, 0, "")
	return res, nil
}

func (s *Service) Get(ctx context.Context, id int64, requester domain.Requester) (*domain.Reservation, error) {
	switch r := requester.(type) {
	case domain.Account:
		return s.owned(ctx, id, requester)
	case domain.Guest:
		res, err := s.reservations.GetOwnedByEmail(ctx, id, r.Email)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, &apperrors.NotFoundError{Resource: "reservation"}
			}
			return nil, err
		}
		if res.UserID != nil {
			return nil, &apperrors.UnauthorizedError{Reason: "this reservation belongs to an authenticated account, please sign in to review it"}
		}
		return res, nil
	default:
		return nil, fmt.Errorf("unknown requester type %T", requester)
	}
}

func (s *Service) Amend(ctx context.Context, id int64, requester domain.Requester, newEndTime time.Time) (*domain.Reservation, error) {
	res, err := s.owned(ctx, id, requester)
	if err != nil {
		return nil, err
	}

	newEndTime = newEndTime.UTC().Truncate(time.Minute)
	if !newEndTime.After(res.StartTime) {
		return nil, apperrors.NewValidation("end_time", "must be strictly later than the start time")
	}

	updated, err := s.reservations.UpdateEndTime(ctx, id, newEndTime)
	if err != nil {
		return nil, err
	}

	// best-effort: the old task may already have been claimed, in which case
	// its settle run will observe the new state and no-op
	if handle, err := s.index.GetTaskHandle(ctx, id); err != nil {
		log.Printf("look up task handle for reservation %d: %v", id, err)
	} else if handle != "" && !s.sched.Cancel(ctx, handle) {
		log.Printf("release task %s for reservation %d was not cancelable", handle, id)
	}

	newHandle, err := s.sched.Schedule(ctx, newEndTime, updated.ParkingSpotID, updated.ID)
	if err != nil {
		return nil, &apperrors.SchedulingError{Op: "release task", Err: err}
	}
	if err := s.index.SetTaskHandle(ctx, updated.ID, newHandle); err != nil {
		log.Printf("record task handle for reservation %d: %v", updated.ID, err)
	}

	// skip the amendment mail when the reservation is effectively over; the
	// expiration mail arrives moments later anyway
	if time.Until(newEndTime) > time.Minute {
		s.publish(ctx, kafka.EventReservationAmended, updated, 0, s.cardLast4(ctx, updated))
	}

	return updated, nil
}

func (s *Service) Cancel(ctx context.Context, id int64, requester domain.Requester) error {
	res, err := s.owned(ctx, id, requester)
	if err != nil {
		return err
	}

	if err := s.spots.SetReserved(ctx, res.ParkingSpotID, false); err != nil {
		return err
	}
	s.invalidateSpots(ctx)

	if err := s.reservations.Delete(ctx, res.ID); err != nil {
		return err
	}

	// the queued release task is left alone; it no-ops once the rows are gone
	if err := s.index.DeleteTaskHandle(ctx, res.ID); err != nil {
		log.Printf("drop task handle for reservation %d: %v", res.ID, err)
	}
	return nil
}

func (s *Service) ListActive(ctx context.Context, requester domain.Requester) ([]domain.Reservation, error) {
	return s.list(ctx, requester, false)
}

func (s *Service) ListSettled(ctx context.Context, requester domain.Requester) ([]domain.Reservation, error) {
	return s.list(ctx, requester, true)
}

// Settle is the deferred release task body. It can fire late, fire after the
// reservation was canceled, or fire twice around an amendment, so every step
// re-checks persisted state and the whole operation is idempotent.
func (s *Service) Settle(ctx context.Context, parkingSpotID, reservationID int64) error {
	spot, err := s.spots.GetByID(ctx, parkingSpotID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	if !spot.Reserved && res.Paid {
		// a prior firing already settled this reservation
		return nil
	}

	feeCents := fee.ForReservation(res)
	if !res.Paid {
		if err := s.charge(ctx, res, feeCents); err != nil {
			// availability beats billing: log and release the spot anyway,
			// the charge gets reconciled out of band
			log.Printf("charge reservation %d: %v", res.ID, err)
		} else {
			if err := s.reservations.MarkPaid(ctx, res.ID); err != nil {
				log.Printf("mark reservation %d paid: %v", res.ID, err)
			} else {
				res.Paid = true
			}
		}
	}

	if err := s.spots.SetReserved(ctx, spot.ID, false); err != nil {
		return err
	}
	s.invalidateSpots(ctx)

	if err := s.index.DeleteTaskHandle(ctx, res.ID); err != nil {
		log.Printf("drop task handle for reservation %d: %v", res.ID, err)
	}

	s.publish(ctx, kafka.EventReservationEnded, res, feeCents, s.cardLast4(ctx, res))
	return nil
}

func (s *Service) CreatePaymentSetup(ctx context.Context, reservationID int64, email string) (*payments.SetupIntent, error) {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &apperrors.NotFoundError{Resource: "reservation"}
		}
		return nil, err
	}
	if res.Email != email {
		return nil, &apperrors.UnauthorizedError{Reason: "the provided email and reservation id do not match"}
	}

	intent, err := s.processor.CreateSetup(ctx, fee.ForReservation(res), email)
	if err != nil {
		return nil, err
	}
	if err := s.reservations.SetPaymentRef(ctx, res.ID, intent.ID); err != nil {
		return nil, err
	}
	return intent, nil
}

func (s *Service) ConfirmPaymentSetup(ctx context.Context, reservationID int64, email string) error {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &apperrors.NotFoundError{Resource: "reservation"}
		}
		return err
	}
	if res.Email != email {
		return &apperrors.UnauthorizedError{Reason: "the provided email and reservation id do not match"}
	}
	if res.PaymentRef == "" {
		return &apperrors.ConflictError{Reason: "no payment setup exists for this reservation"}
	}
	return s.processor.ConfirmSetup(ctx, res.PaymentRef)
}

func (s *Service) owned(ctx context.Context, id int64, requester domain.Requester) (*domain.Reservation, error) {
	var res *domain.Reservation
	var err error
	switch r := requester.(type) {
	case domain.Account:
		res, err = s.reservations.GetOwnedByUser(ctx, id, r.UserID)
	case domain.Guest:
		res, err = s.reservations.GetOwnedByEmail(ctx, id, r.Email)
	default:
		return nil, fmt.Errorf("unknown requester type %T", requester)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &apperrors.NotFoundError{Resource: "reservation"}
		}
		return nil, err
	}
	return res, nil
}

func (s *Service) list(ctx context.Context, requester domain.Requester, paid bool) ([]domain.Reservation, error) {
	switch r := requester.(type) {
	case domain.Account:
		return s.reservations.ListByUser(ctx, r.UserID, paid)
	case domain.Guest:
		return s.reservations.ListByEmail(ctx, r.Email, paid)
	default:
		return nil, fmt.Errorf("unknown requester type %T", requester)
	}
}

func (s *Service) charge(ctx context.Context, res *domain.Reservation, amountCents int64) error {
	if s.processor == nil {
		return errors.New("no payment processor configured")
	}
	if res.PaymentRef == "" {
		return errors.New("no payment setup on reservation")
	}
	return s.processor.Charge(ctx, res.PaymentRef, amountCents)
}

func (s *Service) cardLast4(ctx context.Context, res *domain.Reservation) string {
	if s.processor == nil || res.PaymentRef == "" {
		return ""
	}
	last4, err := s.processor.PaymentMethodLast4(ctx, res.PaymentRef)
	if err != nil {
		log.Printf("look up payment method for reservation %d: %v", res.ID, err)
		return ""
	}
	return last4
}

func (s *Service) publish(ctx context.Context, eventType string, res *domain.Reservation, feeCents int64, last4 string) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event := kafka.ReservationEvent{
		Type:          eventType,
		ReservationID: res.ID,
		ParkingSpotID: res.ParkingSpotID,
		Email:         res.Email,
		RateCents:     res.RateCents,
		FeeCents:      feeCents,
		CardLast4:     last4,
		StartTime:     res.StartTime,
		EndTime:       res.EndTime,
	}
	if err := s.producer.Publish(ctx, s.topic, fmt.Sprintf("%d", res.ID), event); err != nil {
		log.Printf("publish %s event for reservation %d: %v", eventType, res.ID, err)
	}
}

func (s *Service) invalidateSpots(ctx context.Context) {
	if s.index == nil {
		return
	}
	if err := s.index.InvalidateSpots(ctx); err != nil {
		log.Printf("invalidate spot cache: %v", err)
	}
}

var _ ReservationUseCase = (*Service)(nil)
