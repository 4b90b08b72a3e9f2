package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/mgoncalves/experia-marketplace/internal/model"
)

type UserRepository interface {
	// Create a new account.
	Create(ctx context.Context, user *model.User) error
	// Fetch an account by ID.
	GetByID(ctx context.Context, id uint) (*model.User, error)
	// Fetch an account by its (normalized) email address.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// Fetch the profile attached to an account, if any.
	GetProfile(ctx context.Context, userID uint) (*model.Profile, error)
	// Create or update the profile attached to an account.
	UpsertProfile(ctx context.Context, profile *model.Profile) error
}

// GORM implementation.
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *GormUserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, "email_address = ?", email).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) GetProfile(ctx context.Context, userID uint) (*model.Profile, error) {
	var p model.Profile
	if err := r.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormUserRepository) UpsertProfile(ctx context.Context, profile *model.Profile) error {
	var existing model.Profile
	tx := r.db.WithContext(ctx).First(&existing, "user_id = ?", profile.UserID)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return r.db.WithContext(ctx).Create(profile).Error
		}
		return tx.Error
	}
	profile.ID = existing.ID
	profile.CreatedAt = existing.CreatedAt
	return r.db.WithContext(ctx).Save(profile).Error
}
