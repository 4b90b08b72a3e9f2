package service

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"github.com/mgoncalves/experia-marketplace/internal/listing"
	"github.com/mgoncalves/experia-marketplace/internal/model"
	"github.com/mgoncalves/experia-marketplace/internal/repository"
	"github.com/mgoncalves/experia-marketplace/internal/validation"
)

// NotificationService creates allow-listed notifications and manages their
// read state.
type NotificationService struct {
	notifications repository.NotificationRepository
	dispatcher    Dispatcher

	now func() time.Time
}

func NewNotificationService(notifications repository.NotificationRepository, dispatcher Dispatcher) *NotificationService {
	if dispatcher == nil {
		dispatcher = NopDispatcher{}
	}
	return &NotificationService{
		notifications: notifications,
		dispatcher:    dispatcher,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

type CreateNotificationInput struct {
	UserID uint
	Type   string
	Title  string
	Body   string
	Target *model.TargetRef
	Data   datatypes.JSON
}

// Create validates the input against the fixed type vocabulary, persists the
// notification and hands it to the dispatcher.
func (s *NotificationService) Create(ctx context.Context, input CreateNotificationInput) (*model.Notification, error) {
	n := &model.Notification{
		UserID: input.UserID,
		Type:   input.Type,
		Title:  input.Title,
		Body:   input.Body,
		Data:   input.Data,
	}
	if input.Target != nil {
		kind := input.Target.Kind
		id := input.Target.ID
		n.NotifiableKind = &kind
		n.NotifiableID = &id
	}

	errs := validation.Struct(n)
	if errs == nil {
		errs = validation.Errors{}
	}
	if input.Type == "" {
		errs.Add("notification_type", "is required")
	} else if !model.KnownNotificationType(input.Type) {
		errs.Add("notification_type", "is not in the allowed set")
	}
	if input.Target != nil && !input.Target.Kind.Notifiable() {
		errs.Add("notifiable_kind", "is not a notifiable kind")
	}
	if errs.Any() {
		return nil, errs
	}

	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, err
	}
	if err := s.dispatcher.Dispatch(ctx, n); err != nil {
		// The row is already durable; delivery is best-effort here.
		return n, err
	}
	return n, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id uint) error {
	return s.notifications.MarkRead(ctx, id, s.now())
}

func (s *NotificationService) MarkUnread(ctx context.Context, id uint) error {
	return s.notifications.MarkUnread(ctx, id)
}

// MarkAllRead stamps every unread notification for the user, returning how
// many were stamped. Already-read rows keep their original timestamp.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	return s.notifications.MarkAllRead(ctx, userID, s.now())
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uint) (int64, error) {
	return s.notifications.CountUnread(ctx, userID)
}

func (s *NotificationService) ListForUser(ctx context.Context, userID uint, unreadOnly bool, page, pageSize int) (listing.Page[model.Notification], error) {
	limit, offset := listing.Window(page, pageSize)
	items, total, err := s.notifications.ListForUser(ctx, userID, unreadOnly, limit, offset)
	if err != nil {
		return listing.Page[model.Notification]{}, err
	}
	return listing.NewPage(items, page, pageSize, total), nil
}
