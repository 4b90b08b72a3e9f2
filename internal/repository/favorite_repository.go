package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/mgoncalves/experia-marketplace/internal/model"
)

type FavoriteRepository interface {
	Create(ctx context.Context, favorite *model.Favorite) error
	// Delete removes the (user, target) bookmark if present.
	Delete(ctx context.Context, userID uint, ref model.TargetRef) error
	// Exists reports whether the (user, target) pair is bookmarked.
	Exists(ctx context.Context, userID uint, ref model.TargetRef) (bool, error)
	// ListForUser returns a user's bookmarks, newest first, with total count.
	// kind narrows to one target kind when non-empty.
	ListForUser(ctx context.Context, userID uint, kind model.TargetKind, limit, offset int) ([]model.Favorite, int64, error)
	// CountForTarget counts bookmarks pointing at a target.
	CountForTarget(ctx context.Context, ref model.TargetRef) (int64, error)
}

type GormFavoriteRepository struct {
	db *gorm.DB
}

func NewGormFavoriteRepository(db *gorm.DB) *GormFavoriteRepository {
	return &GormFavoriteRepository{db: db}
}

func (r *GormFavoriteRepository) Create(ctx context.Context, favorite *model.Favorite) error {
	return r.db.WithContext(ctx).Create(favorite).Error
}

func (r *GormFavoriteRepository) Delete(ctx context.Context, userID uint, ref model.TargetRef) error {
	return r.db.WithContext(ctx).
		Delete(&model.Favorite{}, "user_id = ? AND favoritable_kind = ? AND favoritable_id = ?", userID, ref.Kind, ref.ID).
		Error
}

func (r *GormFavoriteRepository) Exists(ctx context.Context, userID uint, ref model.TargetRef) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Favorite{}).
		Where("user_id = ? AND favoritable_kind = ? AND favoritable_id = ?", userID, ref.Kind, ref.ID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormFavoriteRepository) ListForUser(
	ctx context.Context,
	userID uint,
	kind model.TargetKind,
	limit, offset int,
) ([]model.Favorite, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Favorite{}).Where("user_id = ?", userID)
	if kind != "" {
		q = q.Where("favoritable_kind = ?", kind)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	var favorites []model.Favorite
	if err := q.Order("created_at DESC").Find(&favorites).Error; err != nil {
		return nil, 0, err
	}
	return favorites, total, nil
}

func (r *GormFavoriteRepository) CountForTarget(ctx context.Context, ref model.TargetRef) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Favorite{}).
		Where("favoritable_kind = ? AND favoritable_id = ?", ref.Kind, ref.ID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
