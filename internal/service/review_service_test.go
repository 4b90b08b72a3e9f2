package service

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/mgoncalves/experia-marketplace/internal/model"
	"github.com/mgoncalves/experia-marketplace/internal/repository"
)

func newReviewFixture(t *testing.T) (*ReviewService, *recordingDispatcher, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	dispatcher := &recordingDispatcher{}
	notifications := NewNotificationService(repository.NewGormNotificationRepository(db), dispatcher)
	svc := NewReviewService(repository.NewGormReviewRepository(db), notifications)
	return svc, dispatcher, db
}

func TestReviewCreate_OncePerUserAndTarget(t *testing.T) {
	svc, _, db := newReviewFixture(t)
	ctx := context.Background()

	author := seedUser(t, db, "author@example.com")
	other := seedUser(t, db, "other@example.com")
	brand := seedBrand(t, db, seedUser(t, db, "owner@example.com").ID, "Brand")
	exp := seedExperience(t, db, brand.ID, "Walk", 5000, 0)

	target := model.TargetRef{Kind: model.TargetExperience, ID: exp.ID}

	review, err := svc.Create(ctx, CreateReviewInput{
		UserID:  author.ID,
		Target:  target,
		Rating:  5,
		Title:   "Wonderful",
		Content: "Best walk we did in Porto, hands down.",
	})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}
	if review.Status != model.ReviewPending {
		t.Fatalf("status = %s, want pending", review.Status)
	}

	// Second review by the same author on the same target is rejected.
	_, err = svc.Create(ctx, CreateReviewInput{
		UserID:  author.ID,
		Target:  target,
		Rating:  4,
		Content: "Changed my mind about the rating.",
	})
	wantFieldError(t, err, "user")

	// Another author may still review the same target.
	if _, err := svc.Create(ctx, CreateReviewInput{
		UserID:  other.ID,
		Target:  target,
		Rating:  4,
		Content: "Good but slightly long for the price.",
	}); err != nil {
		t.Fatalf("second author: %v", err)
	}

	// And the same author may review a different target.
	if _, err := svc.Create(ctx, CreateReviewInput{
		UserID:  author.ID,
		Target:  model.TargetRef{Kind: model.TargetBrand, ID: brand.ID},
		Rating:  5,
		Content: "Brand runs a tight operation overall.",
	}); err != nil {
		t.Fatalf("same author, other target: %v", err)
	}
}

func TestReviewCreate_Validation(t *testing.T) {
	svc, _, db := newReviewFixture(t)
	ctx := context.Background()

	author := seedUser(t, db, "author@example.com")
	brand := seedBrand(t, db, author.ID, "Brand")
	target := model.TargetRef{Kind: model.TargetBrand, ID: brand.ID}

	_, err := svc.Create(ctx, CreateReviewInput{
		UserID: author.ID, Target: target, Rating: 6,
		Content: "Rating is out of the allowed range.",
	})
	wantFieldError(t, err, "rating")

	_, err = svc.Create(ctx, CreateReviewInput{
		UserID: author.ID, Target: target, Rating: 0,
		Content: "Rating below the allowed range.",
	})
	wantFieldError(t, err, "rating")

	_, err = svc.Create(ctx, CreateReviewInput{
		UserID: author.ID, Target: target, Rating: 3, Content: "too short",
	})
	wantFieldError(t, err, "content")

	_, err = svc.Create(ctx, CreateReviewInput{
		UserID: author.ID,
		Target: model.TargetRef{Kind: model.TargetKind("user"), ID: author.ID},
		Rating: 3, Content: "Users cannot be reviewed at all.",
	})
	wantFieldError(t, err, "reviewable_kind")
}

func TestReviewModeration(t *testing.T) {
	svc, dispatcher, db := newReviewFixture(t)
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	svc.now = fixedClock(now)
	ctx := context.Background()

	author := seedUser(t, db, "author@example.com")
	brand := seedBrand(t, db, author.ID, "Brand")
	target := model.TargetRef{Kind: model.TargetBrand, ID: brand.ID}

	review, err := svc.Create(ctx, CreateReviewInput{
		UserID: author.ID, Target: target, Rating: 4,
		Content: "Solid experience from start to finish.",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Approve(ctx, review.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if len(dispatcher.sent) != 1 || dispatcher.sent[0].Type != model.NotificationReviewApproved {
		t.Fatalf("expected a review_approved notification, got %v", dispatcher.sent)
	}
	if dispatcher.sent[0].UserID != author.ID {
		t.Fatalf("notification went to user %d, want %d", dispatcher.sent[0].UserID, author.ID)
	}

	if err := svc.Flag(ctx, review.ID); err != nil {
		t.Fatalf("flag: %v", err)
	}
	var reloaded model.Review
	if err := db.First(&reloaded, review.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != model.ReviewFlagged {
		t.Fatalf("status = %s, want flagged", reloaded.Status)
	}
	if reloaded.ReportedAt == nil || !reloaded.ReportedAt.Equal(now) {
		t.Fatalf("reported_at = %v, want %v", reloaded.ReportedAt, now)
	}

	if err := svc.MarkHelpful(ctx, review.ID); err != nil {
		t.Fatalf("helpful: %v", err)
	}
	if err := svc.MarkHelpful(ctx, review.ID); err != nil {
		t.Fatalf("helpful: %v", err)
	}
	if err := db.First(&reloaded, review.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.HelpfulCount != 2 {
		t.Fatalf("helpful_count = %d, want 2", reloaded.HelpfulCount)
	}
}

func TestReviewAverageRating(t *testing.T) {
	svc, _, db := newReviewFixture(t)
	ctx := context.Background()

	brand := seedBrand(t, db, seedUser(t, db, "owner@example.com").ID, "Brand")
	exp := seedExperience(t, db, brand.ID, "Walk", 5000, 0)
	target := model.TargetRef{Kind: model.TargetExperience, ID: exp.ID}

	avg, count, err := svc.AverageRating(ctx, target)
	if err != nil || avg != 0 || count != 0 {
		t.Fatalf("empty target: avg=%v count=%d err=%v", avg, count, err)
	}

	ratings := []int{5, 4, 4}
	var ids []uint
	for i, rating := range ratings {
		u := seedUser(t, db, "reviewer"+string(rune('a'+i))+"@example.com")
		review, err := svc.Create(ctx, CreateReviewInput{
			UserID: u.ID, Target: target, Rating: rating,
			Content: "Plenty of content to clear the minimum.",
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, review.ID)
	}

	// Only approved reviews count.
	avg, count, err = svc.AverageRating(ctx, target)
	if err != nil || count != 0 {
		t.Fatalf("pending only: avg=%v count=%d err=%v", avg, count, err)
	}

	if err := svc.Approve(ctx, ids[0]); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := svc.Approve(ctx, ids[1]); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := svc.Reject(ctx, ids[2]); err != nil {
		t.Fatalf("reject: %v", err)
	}

	avg, count, err = svc.AverageRating(ctx, target)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if count != 2 || avg != 4.5 {
		t.Fatalf("avg=%v count=%d, want 4.5 over 2", avg, count)
	}
}
