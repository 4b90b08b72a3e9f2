package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/mgoncalves/experia-marketplace/internal/model"
)

type TagRepository interface {
	Create(ctx context.Context, tag *model.Tag) error
	GetByID(ctx context.Context, id uint) (*model.Tag, error)
	GetByName(ctx context.Context, name string) (*model.Tag, error)
	GetBySlug(ctx context.Context, slug string) (*model.Tag, error)
	// ListOrdered returns every tag alphabetically.
	ListOrdered(ctx context.Context) ([]model.Tag, error)
	// ListPopular returns tags by descending usage.
	ListPopular(ctx context.Context, limit int) ([]model.Tag, error)
	// UsageCount counts taggings carrying the tag.
	UsageCount(ctx context.Context, tagID uint) (int64, error)
	CreateTagging(ctx context.Context, tagging *model.Tagging) error
	DeleteTagging(ctx context.Context, tagID uint, ref model.TargetRef) error
	// ListForTarget returns the tags attached to a target, alphabetically.
	ListForTarget(ctx context.Context, ref model.TargetRef) ([]model.Tag, error)
}

type GormTagRepository struct {
	db *gorm.DB
}

func NewGormTagRepository(db *gorm.DB) *GormTagRepository {
	return &GormTagRepository{db: db}
}

func (r *GormTagRepository) Create(ctx context.Context, tag *model.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

func (r *GormTagRepository) GetByID(ctx context.Context, id uint) (*model.Tag, error) {
	var t model.Tag
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormTagRepository) GetByName(ctx context.Context, name string) (*model.Tag, error) {
	var t model.Tag
	if err := r.db.WithContext(ctx).First(&t, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormTagRepository) GetBySlug(ctx context.Context, slug string) (*model.Tag, error) {
	var t model.Tag
	if err := r.db.WithContext(ctx).First(&t, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormTagRepository) ListOrdered(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *GormTagRepository) ListPopular(ctx context.Context, limit int) ([]model.Tag, error) {
	if limit <= 0 {
		limit = 20
	}
	var tags []model.Tag
	err := r.db.WithContext(ctx).
		Table("tags").
		Select("tags.*").
		Joins("LEFT JOIN taggings ON taggings.tag_id = tags.id").
		Group("tags.id").
		Order("COUNT(taggings.id) DESC").
		Limit(limit).
		Scan(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *GormTagRepository) UsageCount(ctx context.Context, tagID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Tagging{}).
		Where("tag_id = ?", tagID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormTagRepository) CreateTagging(ctx context.Context, tagging *model.Tagging) error {
	return r.db.WithContext(ctx).Create(tagging).Error
}

func (r *GormTagRepository) DeleteTagging(ctx context.Context, tagID uint, ref model.TargetRef) error {
	return r.db.WithContext(ctx).
		Delete(&model.Tagging{}, "tag_id = ? AND taggable_kind = ? AND taggable_id = ?", tagID, ref.Kind, ref.ID).
		Error
}

func (r *GormTagRepository) ListForTarget(ctx context.Context, ref model.TargetRef) ([]model.Tag, error) {
	var tags []model.Tag
	err := r.db.WithContext(ctx).
		Table("tags").
		Select("tags.*").
		Joins("JOIN taggings ON taggings.tag_id = tags.id").
		Where("taggings.taggable_kind = ? AND taggings.taggable_id = ?", ref.Kind, ref.ID).
		Order("tags.name ASC").
		Scan(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}
