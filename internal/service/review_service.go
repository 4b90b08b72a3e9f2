package service

import (
	"context"
	"math"
	"time"

	"github.com/mgoncalves/experia-marketplace/internal/listing"
	"github.com/mgoncalves/experia-marketplace/internal/model"
	"github.com/mgoncalves/experia-marketplace/internal/repository"
	"github.com/mgoncalves/experia-marketplace/internal/validation"
)

// ReviewService handles review creation and moderation. Ratings feed the
// target's cached-on-read average; nothing is stored on the target itself.
type ReviewService struct {
	reviews       repository.ReviewRepository
	notifications *NotificationService

	now func() time.Time
}

func NewReviewService(reviews repository.ReviewRepository, notifications *NotificationService) *ReviewService {
	return &ReviewService{
		reviews:       reviews,
		notifications: notifications,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

type CreateReviewInput struct {
	UserID  uint
	Target  model.TargetRef
	Rating  int
	Title   string
	Content string
}

// Create persists a pending review, one per (user, target) pair.
func (s *ReviewService) Create(ctx context.Context, input CreateReviewInput) (*model.Review, error) {
	review := &model.Review{
		UserID:         input.UserID,
		ReviewableKind: input.Target.Kind,
		ReviewableID:   input.Target.ID,
		Rating:         input.Rating,
		Title:          input.Title,
		Content:        input.Content,
		Status:         model.ReviewPending,
	}

	errs := validation.Struct(review)
	if errs == nil {
		errs = validation.Errors{}
	}
	if !input.Target.Kind.Reviewable() {
		errs.Add("reviewable_kind", "is not a reviewable kind")
	}
	if errs.Any() {
		return nil, errs
	}

	if err := duplicateKey(s.reviews.Create(ctx, review), "user", "has already reviewed this item"); err != nil {
		return nil, err
	}
	return review, nil
}

// Approve publishes the review and notifies its author.
func (s *ReviewService) Approve(ctx context.Context, id uint) error {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.reviews.UpdateStatus(ctx, id, model.ReviewApproved, nil); err != nil {
		return err
	}
	if s.notifications != nil {
		_, _ = s.notifications.Create(ctx, CreateNotificationInput{
			UserID: review.UserID,
			Type:   model.NotificationReviewApproved,
			Title:  "Your review was approved",
			Target: &model.TargetRef{Kind: review.ReviewableKind, ID: review.ReviewableID},
		})
	}
	return nil
}

func (s *ReviewService) Reject(ctx context.Context, id uint) error {
	return s.reviews.UpdateStatus(ctx, id, model.ReviewRejected, nil)
}

// Flag marks the review for moderator attention and stamps reported_at.
func (s *ReviewService) Flag(ctx context.Context, id uint) error {
	now := s.now()
	return s.reviews.UpdateStatus(ctx, id, model.ReviewFlagged, &now)
}

func (s *ReviewService) MarkHelpful(ctx context.Context, id uint) error {
	return s.reviews.IncrementHelpful(ctx, id)
}

// AverageRating recomputes the approved-review average for a target on every
// call, rounded to one decimal. Zero with zero count when none exist.
func (s *ReviewService) AverageRating(ctx context.Context, ref model.TargetRef) (float64, int64, error) {
	avg, count, err := s.reviews.ApprovedStats(ctx, ref)
	if err != nil {
		return 0, 0, err
	}
	return math.Round(avg*10) / 10, count, nil
}

func (s *ReviewService) ListForTarget(ctx context.Context, ref model.TargetRef, onlyApproved bool, page, pageSize int) (listing.Page[model.Review], error) {
	limit, offset := listing.Window(page, pageSize)
	items, total, err := s.reviews.ListForTarget(ctx, ref, onlyApproved, limit, offset)
	if err != nil {
		return listing.Page[model.Review]{}, err
	}
	return listing.NewPage(items, page, pageSize, total), nil
}
