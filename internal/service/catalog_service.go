package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/mgoncalves/experia-marketplace/internal/listing"
	"github.com/mgoncalves/experia-marketplace/internal/model"
	"github.com/mgoncalves/experia-marketplace/internal/repository"
	"github.com/mgoncalves/experia-marketplace/internal/validation"
)

// ErrCategoryCycle: the requested parent would make the category its own
// ancestor.
var ErrCategoryCycle = errors.New("category: parent assignment creates a cycle")

// CatalogService publishes brands, categories, experiences and tags.
// Slugs are derived from names when absent; uniqueness is enforced by the
// storage layer and surfaces as a field-scoped validation failure.
type CatalogService struct {
	brands      repository.BrandRepository
	categories  repository.CategoryRepository
	experiences repository.ExperienceRepository
	tags        repository.TagRepository

	now func() time.Time
}

func NewCatalogService(
	brands repository.BrandRepository,
	categories repository.CategoryRepository,
	experiences repository.ExperienceRepository,
	tags repository.TagRepository,
) *CatalogService {
	return &CatalogService{
		brands:      brands,
		categories:  categories,
		experiences: experiences,
		tags:        tags,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Slugify is the lossy name-to-slug transform. Idempotent: a already-slugged
// value maps to itself.
func Slugify(name string) string {
	return slug.Make(name)
}

// duplicateKey converts a storage-level uniqueness violation into a
// field-scoped validation failure; other errors pass through.
func duplicateKey(err error, field, message string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		errs := validation.Errors{}
		errs.Add(field, message)
		return errs
	}
	return err
}

// CreateBrand normalizes contact fields, derives the slug from the name when
// absent and persists the brand in draft status unless one is set.
func (s *CatalogService) CreateBrand(ctx context.Context, brand *model.Brand) error {
	brand.Email = strings.ToLower(strings.TrimSpace(brand.Email))
	brand.Website = strings.ToLower(strings.TrimSpace(brand.Website))
	if brand.Slug == "" {
		brand.Slug = Slugify(brand.Name)
	} else {
		brand.Slug = Slugify(brand.Slug)
	}

	if errs := validation.Struct(brand); errs != nil {
		return errs
	}
	return duplicateKey(s.brands.Create(ctx, brand), "slug", "has already been taken")
}

// VerifyBrand stamps the verification flag and notifies nobody: the caller
// decides whether a brand_verified notification should go out.
func (s *CatalogService) VerifyBrand(ctx context.Context, id uint) error {
	return s.brands.SetVerified(ctx, id, s.now())
}

func (s *CatalogService) ListBrands(ctx context.Context, filter repository.BrandFilter, page, pageSize int) (listing.Page[model.Brand], error) {
	limit, offset := listing.Window(page, pageSize)
	items, total, err := s.brands.List(ctx, filter, limit, offset)
	if err != nil {
		return listing.Page[model.Brand]{}, err
	}
	return listing.NewPage(items, page, pageSize, total), nil
}

// CreateCategory derives the slug from the name when absent.
func (s *CatalogService) CreateCategory(ctx context.Context, category *model.Category) error {
	if category.Slug == "" {
		category.Slug = Slugify(category.Name)
	} else {
		category.Slug = Slugify(category.Slug)
	}

	if errs := validation.Struct(category); errs != nil {
		return errs
	}
	return duplicateKey(s.categories.Create(ctx, category), "slug", "has already been taken")
}

// ChangeCategoryParent re-roots a category after checking that the new parent
// chain does not pass through the category itself.
func (s *CatalogService) ChangeCategoryParent(ctx context.Context, id uint, parentID *uint) error {
	if parentID != nil {
		if *parentID == id {
			return ErrCategoryCycle
		}
		// Walk to the root from the proposed parent.
		current := *parentID
		for {
			parent, err := s.categories.GetByID(ctx, current)
			if err != nil {
				return err
			}
			if parent.ParentID == nil {
				break
			}
			if *parent.ParentID == id {
				return ErrCategoryCycle
			}
			current = *parent.ParentID
		}
	}
	return s.categories.SetParent(ctx, id, parentID)
}

func (s *CatalogService) CategoryAncestors(ctx context.Context, id uint) ([]model.Category, error) {
	return s.categories.Ancestors(ctx, id)
}

func (s *CatalogService) CategoryDescendants(ctx context.Context, id uint) ([]model.Category, error) {
	return s.categories.Descendants(ctx, id)
}

// CreateExperience derives the slug from the title when absent and applies
// the currency default.
func (s *CatalogService) CreateExperience(ctx context.Context, experience *model.Experience) error {
	if experience.Slug == "" {
		experience.Slug = Slugify(experience.Title)
	} else {
		experience.Slug = Slugify(experience.Slug)
	}
	if experience.PriceCurrency == "" {
		experience.PriceCurrency = model.DefaultCurrency
	} else {
		experience.PriceCurrency = strings.ToUpper(experience.PriceCurrency)
	}

	if errs := validation.Struct(experience); errs != nil {
		return errs
	}
	return duplicateKey(s.experiences.Create(ctx, experience), "slug", "has already been taken")
}

func (s *CatalogService) ListExperiences(ctx context.Context, filter repository.ExperienceFilter, page, pageSize int) (listing.Page[model.Experience], error) {
	limit, offset := listing.Window(page, pageSize)
	items, total, err := s.experiences.List(ctx, filter, limit, offset)
	if err != nil {
		return listing.Page[model.Experience]{}, err
	}
	return listing.NewPage(items, page, pageSize, total), nil
}

// FindOrCreateTag normalizes the name (trimmed, lower-cased) and returns the
// existing tag or creates it with a derived slug.
func (s *CatalogService) FindOrCreateTag(ctx context.Context, name string) (*model.Tag, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	tag, err := s.tags.GetByName(ctx, name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag = &model.Tag{Name: name, Slug: Slugify(name)}
	if errs := validation.Struct(tag); errs != nil {
		return nil, errs
	}
	if err := s.tags.Create(ctx, tag); err != nil {
		// Lost a race on the unique name: someone created it first.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.tags.GetByName(ctx, name)
		}
		return nil, err
	}
	return tag, nil
}

// TagTarget attaches a tag to a taggable target, once per pair.
func (s *CatalogService) TagTarget(ctx context.Context, tagID uint, ref model.TargetRef) error {
	if !ref.Kind.Taggable() {
		errs := validation.Errors{}
		errs.Add("taggable_kind", "is not a taggable kind")
		return errs
	}
	tagging := &model.Tagging{TagID: tagID, TaggableKind: ref.Kind, TaggableID: ref.ID}
	return duplicateKey(s.tags.CreateTagging(ctx, tagging), "tag", "has already been added")
}

func (s *CatalogService) UntagTarget(ctx context.Context, tagID uint, ref model.TargetRef) error {
	return s.tags.DeleteTagging(ctx, tagID, ref)
}

func (s *CatalogService) TagsFor(ctx context.Context, ref model.TargetRef) ([]model.Tag, error) {
	return s.tags.ListForTarget(ctx, ref)
}
