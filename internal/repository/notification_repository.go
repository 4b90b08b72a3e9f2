package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mgoncalves/experia-marketplace/internal/model"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	GetByID(ctx context.Context, id uint) (*model.Notification, error)
	// ListForUser returns a user's notifications, newest first, with total
	// count. unreadOnly narrows to rows without a read timestamp.
	ListForUser(ctx context.Context, userID uint, unreadOnly bool, limit, offset int) ([]model.Notification, int64, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	// MarkRead stamps the read timestamp; already-read rows are untouched.
	MarkRead(ctx context.Context, id uint, at time.Time) error
	// MarkUnread clears the read timestamp.
	MarkUnread(ctx context.Context, id uint) error
	// MarkAllRead stamps every currently-unread row for the user and returns
	// how many were affected.
	MarkAllRead(ctx context.Context, userID uint, at time.Time) (int64, error)
}

type GormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *GormNotificationRepository) GetByID(ctx context.Context, id uint) (*model.Notification, error) {
	var n model.Notification
	if err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *GormNotificationRepository) ListForUser(
	ctx context.Context,
	userID uint,
	unreadOnly bool,
	limit, offset int,
) ([]model.Notification, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read_at IS NULL")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	var notifications []model.Notification
	if err := q.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (r *GormNotificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormNotificationRepository) MarkRead(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ? AND read_at IS NULL", id).
		Update("read_at", at).
		Error
}

func (r *GormNotificationRepository) MarkUnread(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ?", id).
		Update("read_at", nil).
		Error
}

func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, userID uint, at time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", at)
	return tx.RowsAffected, tx.Error
}
