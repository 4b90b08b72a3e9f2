package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mgoncalves/experia-marketplace/internal/model"
)

// ExperienceFilter narrows experience listings. Nil/zero fields are ignored.
type ExperienceFilter struct {
	BrandID       *uint
	CategoryID    *uint
	Status        *model.ExperienceStatus
	Featured      *bool
	City          string
	Query         string // matches title or description
	MinPriceCents *int64
	MaxPriceCents *int64
	StartsAfter   *time.Time
}

type ExperienceRepository interface {
	Create(ctx context.Context, experience *model.Experience) error
	GetByID(ctx context.Context, id uint) (*model.Experience, error)
	GetBySlug(ctx context.Context, slug string) (*model.Experience, error)
	Update(ctx context.Context, experience *model.Experience) error
	UpdateStatus(ctx context.Context, id uint, status model.ExperienceStatus) error
	// List experiences matching the filter with total count. Ordered by
	// schedule start when StartsAfter is set, newest first otherwise.
	List(ctx context.Context, filter ExperienceFilter, limit, offset int) ([]model.Experience, int64, error)
	// Delete removes the experience together with its polymorphic children
	// (reviews, favorites, taggings) and bookings in one transaction.
	Delete(ctx context.Context, id uint) error
}

type GormExperienceRepository struct {
	db *gorm.DB
}

func NewGormExperienceRepository(db *gorm.DB) *GormExperienceRepository {
	return &GormExperienceRepository{db: db}
}

func (r *GormExperienceRepository) Create(ctx context.Context, experience *model.Experience) error {
	return r.db.WithContext(ctx).Create(experience).Error
}

func (r *GormExperienceRepository) GetByID(ctx context.Context, id uint) (*model.Experience, error) {
	var e model.Experience
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *GormExperienceRepository) GetBySlug(ctx context.Context, slug string) (*model.Experience, error) {
	var e model.Experience
	if err := r.db.WithContext(ctx).First(&e, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *GormExperienceRepository) Update(ctx context.Context, experience *model.Experience) error {
	return r.db.WithContext(ctx).Save(experience).Error
}

func (r *GormExperienceRepository) UpdateStatus(ctx context.Context, id uint, status model.ExperienceStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.Experience{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}

func (r *GormExperienceRepository) List(ctx context.Context, filter ExperienceFilter, limit, offset int) ([]model.Experience, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Experience{})

	if filter.BrandID != nil {
		q = q.Where("brand_id = ?", *filter.BrandID)
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.Featured != nil {
		q = q.Where("featured = ?", *filter.Featured)
	}
	if filter.City != "" {
		q = q.Where("city = ?", filter.City)
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		q = q.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}
	if filter.MinPriceCents != nil {
		q = q.Where("price_cents >= ?", *filter.MinPriceCents)
	}
	if filter.MaxPriceCents != nil {
		q = q.Where("price_cents <= ?", *filter.MaxPriceCents)
	}
	if filter.StartsAfter != nil {
		q = q.Where("starts_at > ?", *filter.StartsAfter)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	order := "created_at DESC"
	if filter.StartsAfter != nil {
		order = "starts_at ASC"
	}

	var experiences []model.Experience
	if err := q.Order(order).Find(&experiences).Error; err != nil {
		return nil, 0, err
	}
	return experiences, total, nil
}

func (r *GormExperienceRepository) Delete(ctx context.Context, id uint) error {
	// Polymorphic rows carry no foreign key, so they are removed explicitly
	// alongside the owned bookings.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.Review{}, "reviewable_kind = ? AND reviewable_id = ?", model.TargetExperience, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Favorite{}, "favoritable_kind = ? AND favoritable_id = ?", model.TargetExperience, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Tagging{}, "taggable_kind = ? AND taggable_id = ?", model.TargetExperience, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Booking{}, "experience_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Experience{}, "id = ?", id).Error
	})
}
