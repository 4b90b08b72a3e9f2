package repository

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mgoncalves/experia-marketplace/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func mustCreate(t *testing.T, db *gorm.DB, value any) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("create %T: %v", value, err)
	}
}

func TestCategoryDelete_NullifiesReferences(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()

	user := &model.User{EmailAddress: "owner@example.com", PasswordDigest: "x"}
	mustCreate(t, db, user)
	brand := &model.Brand{UserID: user.ID, Name: "Brand", Slug: "brand"}
	mustCreate(t, db, brand)

	parent := &model.Category{Name: "Outdoors", Slug: "outdoors", Active: true}
	mustCreate(t, db, parent)
	child := &model.Category{Name: "Hiking", Slug: "hiking", ParentID: &parent.ID, Active: true}
	mustCreate(t, db, child)
	exp := &model.Experience{BrandID: brand.ID, Title: "Walk", Slug: "walk", CategoryID: &parent.ID}
	mustCreate(t, db, exp)

	if err := repo.Delete(ctx, parent.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// The child survives as a new root.
	var reloadedChild model.Category
	if err := db.First(&reloadedChild, child.ID).Error; err != nil {
		t.Fatalf("reload child: %v", err)
	}
	if reloadedChild.ParentID != nil {
		t.Fatalf("child still points at parent %d", *reloadedChild.ParentID)
	}
	if !reloadedChild.Root() {
		t.Fatalf("expected child to be a root now")
	}

	// The experience survives uncategorized.
	var reloadedExp model.Experience
	if err := db.First(&reloadedExp, exp.ID).Error; err != nil {
		t.Fatalf("reload experience: %v", err)
	}
	if reloadedExp.CategoryID != nil {
		t.Fatalf("experience still categorized as %d", *reloadedExp.CategoryID)
	}

	if err := db.First(&model.Category{}, parent.ID).Error; err != gorm.ErrRecordNotFound {
		t.Fatalf("expected parent gone, got %v", err)
	}
}

func TestExperienceDelete_RemovesDependents(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormExperienceRepository(db)
	ctx := context.Background()

	user := &model.User{EmailAddress: "owner@example.com", PasswordDigest: "x"}
	mustCreate(t, db, user)
	brand := &model.Brand{UserID: user.ID, Name: "Brand", Slug: "brand"}
	mustCreate(t, db, brand)
	exp := &model.Experience{BrandID: brand.ID, Title: "Walk", Slug: "walk"}
	mustCreate(t, db, exp)
	other := &model.Experience{BrandID: brand.ID, Title: "Run", Slug: "run"}
	mustCreate(t, db, other)

	tag := &model.Tag{Name: "outdoors", Slug: "outdoors"}
	mustCreate(t, db, tag)

	mustCreate(t, db, &model.Review{
		UserID: user.ID, ReviewableKind: model.TargetExperience, ReviewableID: exp.ID,
		Rating: 5, Content: "Plenty of content to clear the minimum.",
	})
	mustCreate(t, db, &model.Favorite{UserID: user.ID, FavoritableKind: model.TargetExperience, FavoritableID: exp.ID})
	mustCreate(t, db, &model.Tagging{TagID: tag.ID, TaggableKind: model.TargetExperience, TaggableID: exp.ID})
	mustCreate(t, db, &model.Tagging{TagID: tag.ID, TaggableKind: model.TargetExperience, TaggableID: other.ID})

	if err := repo.Delete(ctx, exp.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	for table, q := range map[string]*gorm.DB{
		"reviews":   db.Model(&model.Review{}).Where("reviewable_kind = ? AND reviewable_id = ?", model.TargetExperience, exp.ID),
		"favorites": db.Model(&model.Favorite{}).Where("favoritable_kind = ? AND favoritable_id = ?", model.TargetExperience, exp.ID),
		"taggings":  db.Model(&model.Tagging{}).Where("taggable_kind = ? AND taggable_id = ?", model.TargetExperience, exp.ID),
	} {
		var count int64
		if err := q.Count(&count).Error; err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if count != 0 {
			t.Errorf("%s left behind %d rows", table, count)
		}
	}

	// The sibling keeps its tagging.
	var siblingTags int64
	if err := db.Model(&model.Tagging{}).
		Where("taggable_kind = ? AND taggable_id = ?", model.TargetExperience, other.ID).
		Count(&siblingTags).Error; err != nil {
		t.Fatalf("count sibling taggings: %v", err)
	}
	if siblingTags != 1 {
		t.Fatalf("sibling taggings = %d, want 1", siblingTags)
	}
}

func TestTagListPopular(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormTagRepository(db)
	ctx := context.Background()

	user := &model.User{EmailAddress: "owner@example.com", PasswordDigest: "x"}
	mustCreate(t, db, user)
	brand := &model.Brand{UserID: user.ID, Name: "Brand", Slug: "brand"}
	mustCreate(t, db, brand)

	popular := &model.Tag{Name: "outdoors", Slug: "outdoors"}
	niche := &model.Tag{Name: "kayaking", Slug: "kayaking"}
	unused := &model.Tag{Name: "winter", Slug: "winter"}
	for _, tag := range []*model.Tag{popular, niche, unused} {
		mustCreate(t, db, tag)
	}

	for i := 0; i < 3; i++ {
		exp := &model.Experience{BrandID: brand.ID, Title: "Walk", Slug: fmt.Sprintf("walk-%d", i)}
		mustCreate(t, db, exp)
		mustCreate(t, db, &model.Tagging{TagID: popular.ID, TaggableKind: model.TargetExperience, TaggableID: exp.ID})
		if i == 0 {
			mustCreate(t, db, &model.Tagging{TagID: niche.ID, TaggableKind: model.TargetExperience, TaggableID: exp.ID})
		}
	}

	tags, err := repo.ListPopular(ctx, 2)
	if err != nil {
		t.Fatalf("popular: %v", err)
	}
	if len(tags) != 2 || tags[0].ID != popular.ID || tags[1].ID != niche.ID {
		t.Fatalf("popular order: %v", tags)
	}

	count, err := repo.UsageCount(ctx, popular.ID)
	if err != nil || count != 3 {
		t.Fatalf("usage: %d (%v)", count, err)
	}
	count, err = repo.UsageCount(ctx, unused.ID)
	if err != nil || count != 0 {
		t.Fatalf("unused usage: %d (%v)", count, err)
	}
}
