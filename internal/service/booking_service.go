package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mgoncalves/experia-marketplace/internal/listing"
	"github.com/mgoncalves/experia-marketplace/internal/model"
	"github.com/mgoncalves/experia-marketplace/internal/repository"
	"github.com/mgoncalves/experia-marketplace/internal/validation"
)

var (
	// ErrCapacityConflict: the requested participants no longer fit the
	// remaining spots. Distinct from a validation failure because it is
	// retryable — capacity may free up.
	ErrCapacityConflict = errors.New("booking: capacity conflict")

	// ErrInvalidTransition: the guarded lifecycle forbids the requested
	// status change.
	ErrInvalidTransition = errors.New("booking: invalid status transition")
)

// BookingService owns the booking lifecycle and capacity accounting.
// Creation runs inside one transaction with a row lock on the experience so
// concurrent requests cannot both observe spare capacity.
type BookingService struct {
	db            *gorm.DB
	bookings      repository.BookingRepository
	notifications *NotificationService

	now func() time.Time
}

func NewBookingService(db *gorm.DB, bookings repository.BookingRepository, notifications *NotificationService) *BookingService {
	return &BookingService{
		db:            db,
		bookings:      bookings,
		notifications: notifications,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

type CreateBookingInput struct {
	UserID       uint
	ExperienceID uint
	Participants int
	ScheduledAt  time.Time
	Notes        string
}

// Create reserves participant spots on an experience. The total is derived
// from the experience price at this moment and never changes afterwards,
// regardless of later price edits.
func (s *BookingService) Create(ctx context.Context, input CreateBookingInput) (*model.Booking, error) {
	booking := &model.Booking{
		Reference:    uuid.New(),
		UserID:       input.UserID,
		ExperienceID: input.ExperienceID,
		Status:       model.BookingPending,
		Participants: input.Participants,
		ScheduledAt:  input.ScheduledAt,
		Notes:        input.Notes,
	}

	errs := validation.Struct(booking)
	if errs == nil {
		errs = validation.Errors{}
	}
	if !input.ScheduledAt.IsZero() && !input.ScheduledAt.After(s.now()) {
		errs.Add("scheduled_at", "must be in the future")
	}
	if errs.Any() {
		return nil, errs
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		// Row lock on the experience keeps the capacity check atomic.
		// The sqlite test database is single-writer and has no FOR UPDATE.
		if tx.Dialector.Name() == "postgres" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var exp model.Experience
		if err := q.First(&exp, "id = ?", input.ExperienceID).Error; err != nil {
			return err
		}

		if exp.Status != model.ExperienceActive {
			errs.Add("experience", "is not available")
			return errs
		}
		if exp.Capacity != nil {
			var used int64
			err := tx.Model(&model.Booking{}).
				Where("experience_id = ? AND status = ?", exp.ID, model.BookingConfirmed).
				Select("COALESCE(SUM(participants), 0)").
				Scan(&used).Error
			if err != nil {
				return err
			}
			remaining := int64(*exp.Capacity) - used
			if remaining <= 0 {
				errs.Add("experience", "is not available")
				return errs
			}
			if int64(input.Participants) > remaining {
				return fmt.Errorf("%w: %d requested, %d remaining", ErrCapacityConflict, input.Participants, remaining)
			}
		}

		if exp.PriceCents != nil {
			total := *exp.PriceCents * int64(input.Participants)
			booking.TotalCents = &total
		}
		booking.TotalCurrency = strings.ToUpper(exp.Currency())

		return tx.Create(booking).Error
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// Confirm moves a pending booking to confirmed, stamps confirmed_at and
// notifies the booking owner.
func (s *BookingService) Confirm(ctx context.Context, id uint) (*model.Booking, error) {
	now := s.now()
	b, err := s.transition(ctx, id, model.BookingConfirmed, &now, nil)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, b, model.NotificationBookingConfirmed, "Your booking is confirmed")
	return b, nil
}

// Cancel moves a pending or confirmed booking to cancelled, stamps
// cancelled_at and notifies the booking owner.
func (s *BookingService) Cancel(ctx context.Context, id uint) (*model.Booking, error) {
	now := s.now()
	b, err := s.transition(ctx, id, model.BookingCancelled, nil, &now)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, b, model.NotificationBookingCancelled, "Your booking was cancelled")
	return b, nil
}

// Complete marks a confirmed booking as completed.
func (s *BookingService) Complete(ctx context.Context, id uint) (*model.Booking, error) {
	return s.transition(ctx, id, model.BookingCompleted, nil, nil)
}

// MarkNoShow marks a confirmed booking as a no-show.
func (s *BookingService) MarkNoShow(ctx context.Context, id uint) (*model.Booking, error) {
	return s.transition(ctx, id, model.BookingNoShow, nil, nil)
}

// Refund marks a cancelled or completed booking as refunded.
func (s *BookingService) Refund(ctx context.Context, id uint) (*model.Booking, error) {
	return s.transition(ctx, id, model.BookingRefunded, nil, nil)
}

func (s *BookingService) transition(
	ctx context.Context,
	id uint,
	next model.BookingStatus,
	confirmedAt, cancelledAt *time.Time,
) (*model.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, next)
	}
	if err := s.bookings.UpdateStatus(ctx, id, next, confirmedAt, cancelledAt); err != nil {
		return nil, err
	}
	b.Status = next
	if confirmedAt != nil {
		b.ConfirmedAt = confirmedAt
	}
	if cancelledAt != nil {
		b.CancelledAt = cancelledAt
	}
	return b, nil
}

func (s *BookingService) notify(ctx context.Context, b *model.Booking, notifType, title string) {
	if s.notifications == nil {
		return
	}
	// Best-effort: the transition already succeeded.
	_, _ = s.notifications.Create(ctx, CreateNotificationInput{
		UserID: b.UserID,
		Type:   notifType,
		Title:  title,
		Target: &model.TargetRef{Kind: model.TargetExperience, ID: b.ExperienceID},
	})
}

// CanCancel is the advisory eligibility query used by callers to show or
// hide the cancel action.
func (s *BookingService) CanCancel(ctx context.Context, id uint) (bool, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return b.CanCancel(s.now()), nil
}

// AvailableSpots recomputes remaining capacity from confirmed bookings.
// nil means the experience has no capacity bound.
func (s *BookingService) AvailableSpots(ctx context.Context, exp *model.Experience) (*int64, error) {
	if exp.Capacity == nil {
		return nil, nil
	}
	used, err := s.bookings.SumConfirmedParticipants(ctx, exp.ID)
	if err != nil {
		return nil, err
	}
	remaining := int64(*exp.Capacity) - used
	return &remaining, nil
}

// Available reports whether the experience accepts bookings right now.
func (s *BookingService) Available(ctx context.Context, exp *model.Experience) (bool, error) {
	if exp.Status != model.ExperienceActive {
		return false, nil
	}
	spots, err := s.AvailableSpots(ctx, exp)
	if err != nil {
		return false, err
	}
	return spots == nil || *spots > 0, nil
}

func (s *BookingService) ListForUser(ctx context.Context, userID uint, page, pageSize int) (listing.Page[model.Booking], error) {
	limit, offset := listing.Window(page, pageSize)
	items, total, err := s.bookings.ListForUser(ctx, userID, limit, offset)
	if err != nil {
		return listing.Page[model.Booking]{}, err
	}
	return listing.NewPage(items, page, pageSize, total), nil
}

func (s *BookingService) ListUpcoming(ctx context.Context, userID uint) ([]model.Booking, error) {
	return s.bookings.ListUpcoming(ctx, userID, s.now())
}

func (s *BookingService) ListPast(ctx context.Context, userID uint) ([]model.Booking, error) {
	return s.bookings.ListPast(ctx, userID, s.now())
}

func (s *BookingService) ListToday(ctx context.Context, userID uint) ([]model.Booking, error) {
	return s.bookings.ListToday(ctx, userID, s.now())
}
