package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mgoncalves/experia-marketplace/internal/model"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	GetByID(ctx context.Context, id uint) (*model.Review, error)
	// UpdateStatus moves a review through moderation; reportedAt is stamped
	// when non-nil (flagging).
	UpdateStatus(ctx context.Context, id uint, status model.ReviewStatus, reportedAt *time.Time) error
	// IncrementHelpful bumps the helpful counter atomically.
	IncrementHelpful(ctx context.Context, id uint) error
	// ListForTarget returns a target's reviews, newest first, with total count.
	ListForTarget(ctx context.Context, ref model.TargetRef, onlyApproved bool, limit, offset int) ([]model.Review, int64, error)
	// ApprovedStats aggregates approved reviews for a target: average rating
	// (0 when none) and count.
	ApprovedStats(ctx context.Context, ref model.TargetRef) (float64, int64, error)
}

type GormReviewRepository struct {
	db *gorm.DB
}

func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

func (r *GormReviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *GormReviewRepository) GetByID(ctx context.Context, id uint) (*model.Review, error) {
	var rev model.Review
	if err := r.db.WithContext(ctx).First(&rev, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rev, nil
}

func (r *GormReviewRepository) UpdateStatus(ctx context.Context, id uint, status model.ReviewStatus, reportedAt *time.Time) error {
	update := map[string]any{
		"status": status,
	}
	if reportedAt != nil {
		update["reported_at"] = *reportedAt
	}
	return r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("id = ?", id).
		Updates(update).
		Error
}

func (r *GormReviewRepository) IncrementHelpful(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("id = ?", id).
		Update("helpful_count", gorm.Expr("helpful_count + 1")).
		Error
}

func (r *GormReviewRepository) ListForTarget(
	ctx context.Context,
	ref model.TargetRef,
	onlyApproved bool,
	limit, offset int,
) ([]model.Review, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("reviewable_kind = ? AND reviewable_id = ?", ref.Kind, ref.ID)
	if onlyApproved {
		q = q.Where("status = ?", model.ReviewApproved)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	var reviews []model.Review
	if err := q.Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *GormReviewRepository) ApprovedStats(ctx context.Context, ref model.TargetRef) (float64, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("reviewable_kind = ? AND reviewable_id = ? AND status = ?", ref.Kind, ref.ID, model.ReviewApproved)

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, 0, err
	}
	if count == 0 {
		return 0, 0, nil
	}

	var avg float64
	if err := q.Select("AVG(rating)").Scan(&avg).Error; err != nil {
		return 0, 0, err
	}
	return avg, count, nil
}
