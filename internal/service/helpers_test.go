package service

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mgoncalves/experia-marketplace/internal/model"
	"github.com/mgoncalves/experia-marketplace/internal/validation"
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

func seedUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	u := &model.User{EmailAddress: email, PasswordDigest: "x"}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

func seedBrand(t *testing.T, db *gorm.DB, userID uint, name string) *model.Brand {
	t.Helper()
	b := &model.Brand{
		UserID: userID,
		Name:   name,
		Slug:   Slugify(name),
		Status: model.BrandActive,
	}
	if err := db.Create(b).Error; err != nil {
		t.Fatalf("seed brand %s: %v", name, err)
	}
	return b
}

func seedExperience(t *testing.T, db *gorm.DB, brandID uint, title string, priceCents int64, capacity int) *model.Experience {
	t.Helper()
	e := &model.Experience{
		BrandID:       brandID,
		Title:         title,
		Slug:          Slugify(title),
		PriceCents:    &priceCents,
		PriceCurrency: "EUR",
		Status:        model.ExperienceActive,
	}
	if capacity > 0 {
		e.Capacity = &capacity
	}
	if err := db.Create(e).Error; err != nil {
		t.Fatalf("seed experience %s: %v", title, err)
	}
	return e
}

func seedCategory(t *testing.T, db *gorm.DB, name string, parentID *uint) *model.Category {
	t.Helper()
	c := &model.Category{
		Name:     name,
		Slug:     Slugify(name),
		ParentID: parentID,
		Active:   true,
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("seed category %s: %v", name, err)
	}
	return c
}

// fixedClock pins a service's notion of now.
func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// wantFieldError asserts err is a validation error set carrying a message on
// the field.
func wantFieldError(t *testing.T, err error, field string) {
	t.Helper()
	errs, ok := err.(validation.Errors)
	if !ok {
		t.Fatalf("expected validation.Errors, got %T: %v", err, err)
	}
	if len(errs.On(field)) == 0 {
		t.Fatalf("expected an error on %q, got %v", field, errs)
	}
}

// recordingDispatcher captures dispatched notifications for assertions.
type recordingDispatcher struct {
	sent []*model.Notification
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, n *model.Notification) error {
	d.sent = append(d.sent, n)
	return nil
}
