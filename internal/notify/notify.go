package notify

import "context"

// Notifier broadcasts that a user's persisted cart changed. Deliveries are
// fire-and-forget: a failed publish never fails the mutation that caused it.
type Notifier interface {
	CartChanged(ctx context.Context, userID int64) error
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) CartChanged(context.Context, int64) error { return nil }
