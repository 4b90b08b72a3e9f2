package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mgoncalves/experia-marketplace/internal/model"
)

// BrandFilter narrows brand listings. Nil/zero fields are ignored.
type BrandFilter struct {
	Status   *model.BrandStatus
	Verified *bool
	City     string
	Query    string // matches name or description
}

type BrandRepository interface {
	Create(ctx context.Context, brand *model.Brand) error
	GetByID(ctx context.Context, id uint) (*model.Brand, error)
	GetBySlug(ctx context.Context, slug string) (*model.Brand, error)
	Update(ctx context.Context, brand *model.Brand) error
	// List brands matching the filter, newest first, with total count.
	List(ctx context.Context, filter BrandFilter, limit, offset int) ([]model.Brand, int64, error)
	// Stamp the verification flag and timestamp.
	SetVerified(ctx context.Context, id uint, at time.Time) error
	UpdateStatus(ctx context.Context, id uint, status model.BrandStatus) error
}

type GormBrandRepository struct {
	db *gorm.DB
}

func NewGormBrandRepository(db *gorm.DB) *GormBrandRepository {
	return &GormBrandRepository{db: db}
}

func (r *GormBrandRepository) Create(ctx context.Context, brand *model.Brand) error {
	return r.db.WithContext(ctx).Create(brand).Error
}

func (r *GormBrandRepository) GetByID(ctx context.Context, id uint) (*model.Brand, error) {
	var b model.Brand
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBrandRepository) GetBySlug(ctx context.Context, slug string) (*model.Brand, error) {
	var b model.Brand
	if err := r.db.WithContext(ctx).First(&b, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBrandRepository) Update(ctx context.Context, brand *model.Brand) error {
	return r.db.WithContext(ctx).Save(brand).Error
}

func (r *GormBrandRepository) List(ctx context.Context, filter BrandFilter, limit, offset int) ([]model.Brand, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Brand{})

	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.Verified != nil {
		q = q.Where("verified = ?", *filter.Verified)
	}
	if filter.City != "" {
		q = q.Where("city = ?", filter.City)
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		q = q.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	var brands []model.Brand
	if err := q.Order("created_at DESC").Find(&brands).Error; err != nil {
		return nil, 0, err
	}
	return brands, total, nil
}

func (r *GormBrandRepository) SetVerified(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Brand{}).
		Where("id = ?", id).
		Updates(map[string]any{"verified": true, "verified_at": at}).
		Error
}

func (r *GormBrandRepository) UpdateStatus(ctx context.Context, id uint, status model.BrandStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.Brand{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}
