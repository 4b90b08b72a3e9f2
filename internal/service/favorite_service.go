package service

import (
	"context"

	"github.com/mgoncalves/experia-marketplace/internal/listing"
	"github.com/mgoncalves/experia-marketplace/internal/model"
	"github.com/mgoncalves/experia-marketplace/internal/repository"
	"github.com/mgoncalves/experia-marketplace/internal/validation"
)

// FavoriteService manages user bookmarks and tells the target's owner about
// new ones through the notification hook.
type FavoriteService struct {
	favorites     repository.FavoriteRepository
	brands        repository.BrandRepository
	experiences   repository.ExperienceRepository
	notifications *NotificationService
}

func NewFavoriteService(
	favorites repository.FavoriteRepository,
	brands repository.BrandRepository,
	experiences repository.ExperienceRepository,
	notifications *NotificationService,
) *FavoriteService {
	return &FavoriteService{
		favorites:     favorites,
		brands:        brands,
		experiences:   experiences,
		notifications: notifications,
	}
}

// Add bookmarks a target for the user, once per pair, and notifies the
// target's owner unless they bookmarked their own entity.
func (s *FavoriteService) Add(ctx context.Context, userID uint, ref model.TargetRef) (*model.Favorite, error) {
	if !ref.Kind.Favoritable() {
		errs := validation.Errors{}
		errs.Add("favoritable_kind", "is not a favoritable kind")
		return nil, errs
	}

	favorite := &model.Favorite{
		UserID:          userID,
		FavoritableKind: ref.Kind,
		FavoritableID:   ref.ID,
	}
	if err := duplicateKey(s.favorites.Create(ctx, favorite), "favoritable", "is already a favorite"); err != nil {
		return nil, err
	}

	s.notifyOwner(ctx, userID, ref)
	return favorite, nil
}

func (s *FavoriteService) notifyOwner(ctx context.Context, actorID uint, ref model.TargetRef) {
	if s.notifications == nil {
		return
	}
	ownerID, err := s.ownerOf(ctx, ref)
	if err != nil || ownerID == actorID {
		return
	}
	// Best-effort: the favorite is already durable.
	_, _ = s.notifications.Create(ctx, CreateNotificationInput{
		UserID: ownerID,
		Type:   model.NotificationFavoriteAdded,
		Title:  "Someone favorited your " + string(ref.Kind),
		Target: &ref,
	})
}

// ownerOf resolves the owning user for each favoritable kind.
func (s *FavoriteService) ownerOf(ctx context.Context, ref model.TargetRef) (uint, error) {
	switch ref.Kind {
	case model.TargetBrand:
		brand, err := s.brands.GetByID(ctx, ref.ID)
		if err != nil {
			return 0, err
		}
		return brand.UserID, nil
	case model.TargetExperience:
		exp, err := s.experiences.GetByID(ctx, ref.ID)
		if err != nil {
			return 0, err
		}
		brand, err := s.brands.GetByID(ctx, exp.BrandID)
		if err != nil {
			return 0, err
		}
		return brand.UserID, nil
	}
	return 0, nil
}

// Remove drops the bookmark; removing an absent one is a no-op.
func (s *FavoriteService) Remove(ctx context.Context, userID uint, ref model.TargetRef) error {
	return s.favorites.Delete(ctx, userID, ref)
}

func (s *FavoriteService) Exists(ctx context.Context, userID uint, ref model.TargetRef) (bool, error) {
	return s.favorites.Exists(ctx, userID, ref)
}

func (s *FavoriteService) ListForUser(ctx context.Context, userID uint, kind model.TargetKind, page, pageSize int) (listing.Page[model.Favorite], error) {
	limit, offset := listing.Window(page, pageSize)
	items, total, err := s.favorites.ListForUser(ctx, userID, kind, limit, offset)
	if err != nil {
		return listing.Page[model.Favorite]{}, err
	}
	return listing.NewPage(items, page, pageSize, total), nil
}

func (s *FavoriteService) CountForTarget(ctx context.Context, ref model.TargetRef) (int64, error) {
	return s.favorites.CountForTarget(ctx, ref)
}
