package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mgoncalves/experia-marketplace/internal/model"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id uint) (*model.Booking, error)
	GetByReference(ctx context.Context, ref uuid.UUID) (*model.Booking, error)
	// UpdateStatus moves a booking to status, stamping the transition
	// timestamps that are non-nil.
	UpdateStatus(ctx context.Context, id uint, status model.BookingStatus, confirmedAt, cancelledAt *time.Time) error
	// SumConfirmedParticipants aggregates committed spots on an experience.
	SumConfirmedParticipants(ctx context.Context, experienceID uint) (int64, error)
	// ListForUser returns a user's bookings, newest first, with total count.
	ListForUser(ctx context.Context, userID uint, limit, offset int) ([]model.Booking, int64, error)
	// ListForExperience returns an experience's bookings, newest first, with total count.
	ListForExperience(ctx context.Context, experienceID uint, limit, offset int) ([]model.Booking, int64, error)
	// ListUpcoming returns confirmed bookings scheduled after now, soonest first.
	ListUpcoming(ctx context.Context, userID uint, now time.Time) ([]model.Booking, error)
	// ListPast returns bookings scheduled before now, most recent first.
	ListPast(ctx context.Context, userID uint, now time.Time) ([]model.Booking, error)
	// ListToday returns bookings scheduled inside now's calendar day, soonest first.
	ListToday(ctx context.Context, userID uint, now time.Time) ([]model.Booking, error)
}

type GormBookingRepository struct {
	db *gorm.DB
}

func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *GormBookingRepository) GetByID(ctx context.Context, id uint) (*model.Booking, error) {
	var b model.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBookingRepository) GetByReference(ctx context.Context, ref uuid.UUID) (*model.Booking, error) {
	var b model.Booking
	if err := r.db.WithContext(ctx).First(&b, "reference = ?", ref).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBookingRepository) UpdateStatus(
	ctx context.Context,
	id uint,
	status model.BookingStatus,
	confirmedAt, cancelledAt *time.Time,
) error {
	update := map[string]any{
		"status": status,
	}
	if confirmedAt != nil {
		update["confirmed_at"] = *confirmedAt
	}
	if cancelledAt != nil {
		update["cancelled_at"] = *cancelledAt
	}
	return r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("id = ?", id).
		Updates(update).
		Error
}

func (r *GormBookingRepository) SumConfirmedParticipants(ctx context.Context, experienceID uint) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("experience_id = ? AND status = ?", experienceID, model.BookingConfirmed).
		Select("COALESCE(SUM(participants), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	return sum, nil
}

func (r *GormBookingRepository) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]model.Booking, int64, error) {
	return r.list(ctx, "user_id = ?", userID, limit, offset)
}

func (r *GormBookingRepository) ListForExperience(ctx context.Context, experienceID uint, limit, offset int) ([]model.Booking, int64, error) {
	return r.list(ctx, "experience_id = ?", experienceID, limit, offset)
}

func (r *GormBookingRepository) list(ctx context.Context, cond string, arg uint, limit, offset int) ([]model.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Booking{}).Where(cond, arg)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	var bookings []model.Booking
	if err := q.Order("created_at DESC").Find(&bookings).Error; err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *GormBookingRepository) ListUpcoming(ctx context.Context, userID uint, now time.Time) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND scheduled_at > ?", userID, model.BookingConfirmed, now).
		Order("scheduled_at ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *GormBookingRepository) ListPast(ctx context.Context, userID uint, now time.Time) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND scheduled_at < ?", userID, now).
		Order("scheduled_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *GormBookingRepository) ListToday(ctx context.Context, userID uint, now time.Time) ([]model.Booking, error) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)

	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND scheduled_at >= ? AND scheduled_at < ?", userID, start, end).
		Order("scheduled_at ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
