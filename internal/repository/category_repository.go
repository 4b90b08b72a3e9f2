package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/mgoncalves/experia-marketplace/internal/model"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id uint) (*model.Category, error)
	GetBySlug(ctx context.Context, slug string) (*model.Category, error)
	// Roots returns active top-level categories in display order.
	Roots(ctx context.Context) ([]model.Category, error)
	// ChildrenOf returns direct children in display order.
	ChildrenOf(ctx context.Context, id uint) ([]model.Category, error)
	// Ancestors walks parent references to the root, root-first.
	Ancestors(ctx context.Context, id uint) ([]model.Category, error)
	// Descendants collects the full subtree depth-first, each node once.
	Descendants(ctx context.Context, id uint) ([]model.Category, error)
	// SetParent re-roots a category; nil parentID detaches it.
	SetParent(ctx context.Context, id uint, parentID *uint) error
	Delete(ctx context.Context, id uint) error
}

type GormCategoryRepository struct {
	db *gorm.DB
}

func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *GormCategoryRepository) GetByID(ctx context.Context, id uint) (*model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormCategoryRepository) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).First(&c, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormCategoryRepository) Roots(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).
		Where("parent_id IS NULL AND active = ?", true).
		Order("position ASC, name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *GormCategoryRepository) ChildrenOf(ctx context.Context, id uint) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).
		Where("parent_id = ?", id).
		Order("position ASC, name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *GormCategoryRepository) Ancestors(ctx context.Context, id uint) ([]model.Category, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ancestors := []model.Category{}
	for current.ParentID != nil {
		parent, err := r.GetByID(ctx, *current.ParentID)
		if err != nil {
			return nil, err
		}
		ancestors = append([]model.Category{*parent}, ancestors...)
		current = parent
	}
	return ancestors, nil
}

func (r *GormCategoryRepository) Descendants(ctx context.Context, id uint) ([]model.Category, error) {
	children, err := r.ChildrenOf(ctx, id)
	if err != nil {
		return nil, err
	}

	descendants := []model.Category{}
	for _, child := range children {
		descendants = append(descendants, child)
		sub, err := r.Descendants(ctx, child.ID)
		if err != nil {
			return nil, err
		}
		descendants = append(descendants, sub...)
	}
	return descendants, nil
}

func (r *GormCategoryRepository) SetParent(ctx context.Context, id uint, parentID *uint) error {
	return r.db.WithContext(ctx).
		Model(&model.Category{}).
		Where("id = ?", id).
		Update("parent_id", parentID).
		Error
}

func (r *GormCategoryRepository) Delete(ctx context.Context, id uint) error {
	// Children and experiences keep their rows with the reference nullified.
	// Done explicitly rather than trusting engine-level cascade defaults.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Category{}).Where("parent_id = ?", id).Update("parent_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Experience{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Category{}, "id = ?", id).Error
	})
}
