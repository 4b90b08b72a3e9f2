package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mgoncalves/experia-marketplace/internal/model"
	"github.com/mgoncalves/experia-marketplace/internal/repository"
	"gorm.io/gorm"
)

func newCatalogService(t *testing.T) (*CatalogService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewCatalogService(
		repository.NewGormBrandRepository(db),
		repository.NewGormCategoryRepository(db),
		repository.NewGormExperienceRepository(db),
		repository.NewGormTagRepository(db),
	)
	return svc, db
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Porto Food Tours":  "porto-food-tours",
		"Douro  Wine Walk":  "douro-wine-walk",
		"porto-food-tours":  "porto-food-tours",
		"Café & Pastéis!":   "cafe-and-pasteis",
		"  Trimmed Name  ":  "trimmed-name",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCreateBrand_NormalizesAndDerivesSlug(t *testing.T) {
	svc, db := newCatalogService(t)
	owner := seedUser(t, db, "owner@example.com")
	ctx := context.Background()

	brand := &model.Brand{
		UserID:  owner.ID,
		Name:    "Porto Food Tours",
		Email:   "  Hello@PortoFood.PT ",
		Website: "HTTPS://PortoFood.PT",
	}
	if err := svc.CreateBrand(ctx, brand); err != nil {
		t.Fatalf("create brand: %v", err)
	}
	if brand.Slug != "porto-food-tours" {
		t.Errorf("slug = %q", brand.Slug)
	}
	if brand.Email != "hello@portofood.pt" {
		t.Errorf("email = %q", brand.Email)
	}
	if brand.Website != "https://portofood.pt" {
		t.Errorf("website = %q", brand.Website)
	}
	if brand.Status != model.BrandDraft {
		t.Errorf("status = %s, want draft", brand.Status)
	}

	// Same name again collides on the slug.
	dup := &model.Brand{UserID: owner.ID, Name: "Porto Food Tours"}
	err := svc.CreateBrand(ctx, dup)
	wantFieldError(t, err, "slug")
}

func TestCreateBrand_ValidationFailures(t *testing.T) {
	svc, db := newCatalogService(t)
	owner := seedUser(t, db, "owner@example.com")
	ctx := context.Background()

	err := svc.CreateBrand(ctx, &model.Brand{UserID: owner.ID, Name: "", Slug: "x"})
	wantFieldError(t, err, "name")

	err = svc.CreateBrand(ctx, &model.Brand{UserID: owner.ID, Name: "Bad Mail", Email: "nope"})
	wantFieldError(t, err, "email")

	err = svc.CreateBrand(ctx, &model.Brand{UserID: owner.ID, Name: "Bad Site", Website: "not a url"})
	wantFieldError(t, err, "website")
}

func TestCategoryTree(t *testing.T) {
	svc, db := newCatalogService(t)
	ctx := context.Background()

	root := seedCategory(t, db, "Outdoors", nil)
	mid := seedCategory(t, db, "Water Sports", &root.ID)
	leaf := seedCategory(t, db, "Kayaking", &mid.ID)

	ancestors, err := svc.CategoryAncestors(ctx, leaf.ID)
	if err != nil {
		t.Fatalf("ancestors: %v", err)
	}
	if len(ancestors) != 2 || ancestors[0].ID != root.ID || ancestors[1].ID != mid.ID {
		t.Fatalf("ancestors of leaf: got %v", ancestors)
	}

	descendants, err := svc.CategoryDescendants(ctx, root.ID)
	if err != nil {
		t.Fatalf("descendants: %v", err)
	}
	if len(descendants) != 2 {
		t.Fatalf("descendants of root: got %d, want 2", len(descendants))
	}

	// Re-rooting the leaf directly under the root is fine.
	if err := svc.ChangeCategoryParent(ctx, leaf.ID, &root.ID); err != nil {
		t.Fatalf("reparent: %v", err)
	}

	// A category cannot be its own parent.
	if err := svc.ChangeCategoryParent(ctx, mid.ID, &mid.ID); !errors.Is(err, ErrCategoryCycle) {
		t.Fatalf("self parent: got %v", err)
	}

	// Nor an ancestor of its proposed parent.
	if err := svc.ChangeCategoryParent(ctx, root.ID, &mid.ID); !errors.Is(err, ErrCategoryCycle) {
		t.Fatalf("cycle through child: got %v", err)
	}

	// Detaching to a root is always allowed.
	if err := svc.ChangeCategoryParent(ctx, mid.ID, nil); err != nil {
		t.Fatalf("detach: %v", err)
	}
}

func TestCreateExperience_CurrencyDefault(t *testing.T) {
	svc, db := newCatalogService(t)
	owner := seedUser(t, db, "owner@example.com")
	brand := seedBrand(t, db, owner.ID, "Brand")
	ctx := context.Background()

	exp := &model.Experience{BrandID: brand.ID, Title: "Douro Wine Walk"}
	if err := svc.CreateExperience(ctx, exp); err != nil {
		t.Fatalf("create experience: %v", err)
	}
	if exp.Slug != "douro-wine-walk" {
		t.Errorf("slug = %q", exp.Slug)
	}
	if exp.PriceCurrency != "EUR" {
		t.Errorf("currency = %q, want EUR", exp.PriceCurrency)
	}

	usd := &model.Experience{BrandID: brand.ID, Title: "City Run", PriceCurrency: "usd"}
	if err := svc.CreateExperience(ctx, usd); err != nil {
		t.Fatalf("create experience: %v", err)
	}
	if usd.PriceCurrency != "USD" {
		t.Errorf("currency = %q, want USD", usd.PriceCurrency)
	}

	negative := int64(-100)
	err := svc.CreateExperience(ctx, &model.Experience{BrandID: brand.ID, Title: "Bad Price", PriceCents: &negative})
	wantFieldError(t, err, "price_cents")
}

func TestFindOrCreateTag(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	first, err := svc.FindOrCreateTag(ctx, "  Wine Tasting ")
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}
	if first.Name != "wine tasting" || first.Slug != "wine-tasting" {
		t.Fatalf("tag normalized to %q/%q", first.Name, first.Slug)
	}

	second, err := svc.FindOrCreateTag(ctx, "WINE TASTING")
	if err != nil {
		t.Fatalf("find tag: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected the same tag, got %d and %d", first.ID, second.ID)
	}
}

func TestTagTarget(t *testing.T) {
	svc, db := newCatalogService(t)
	owner := seedUser(t, db, "owner@example.com")
	brand := seedBrand(t, db, owner.ID, "Brand")
	exp := seedExperience(t, db, brand.ID, "Walk", 5000, 0)
	ctx := context.Background()

	tag, err := svc.FindOrCreateTag(ctx, "outdoors")
	if err != nil {
		t.Fatalf("tag: %v", err)
	}

	ref := model.TargetRef{Kind: model.TargetExperience, ID: exp.ID}
	if err := svc.TagTarget(ctx, tag.ID, ref); err != nil {
		t.Fatalf("tag target: %v", err)
	}

	// Once per pair.
	err = svc.TagTarget(ctx, tag.ID, ref)
	wantFieldError(t, err, "tag")

	// Users are not taggable.
	err = svc.TagTarget(ctx, tag.ID, model.TargetRef{Kind: model.TargetKind("user"), ID: owner.ID})
	wantFieldError(t, err, "taggable_kind")

	tags, err := svc.TagsFor(ctx, ref)
	if err != nil || len(tags) != 1 || tags[0].ID != tag.ID {
		t.Fatalf("tags for target: %v (%v)", tags, err)
	}

	if err := svc.UntagTarget(ctx, tag.ID, ref); err != nil {
		t.Fatalf("untag: %v", err)
	}
	tags, err = svc.TagsFor(ctx, ref)
	if err != nil || len(tags) != 0 {
		t.Fatalf("expected no tags after untag, got %v (%v)", tags, err)
	}
}
