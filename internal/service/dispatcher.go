package service

import (
	"context"

	"github.com/mgoncalves/experia-marketplace/internal/model"
)

// Dispatcher hands a stored notification to an external delivery channel
// (push, email). Delivery is outside this layer; implementations receive the
// row after it is persisted. Delivery failures do not roll the row back.
type Dispatcher interface {
	Dispatch(ctx context.Context, notification *model.Notification) error
}

// NopDispatcher drops everything. Used until a real dispatcher is wired in.
type NopDispatcher struct{}

func (NopDispatcher) Dispatch(ctx context.Context, notification *model.Notification) error {
	return nil
}
