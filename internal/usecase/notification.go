package usecase

import (
	"context"
	"log/slog"
	"time"

	"parking-engine/internal/domain/booking"

	"github.com/google/uuid"
)

type NotificationCategory string

const (
	CategoryBookingCreated NotificationCategory = "booking_created"
	CategoryCheckedIn      NotificationCategory = "checked_in"
	CategoryCheckedOut     NotificationCategory = "checked_out"
	CategoryCancelled      NotificationCategory = "cancelled"
	CategoryExpired        NotificationCategory = "expired"
)

func (c NotificationCategory) String() string {
	return string(c)
}

type Notification struct {
	UserID     uuid.UUID            `json:"user_id"`
	BookingID  uuid.UUID            `json:"booking_id"`
	Ticket     string               `json:"ticket"`
	Category   NotificationCategory `json:"category"`
	Message    string               `json:"message"`
	OccurredAt time.Time            `json:"occurred_at"`
}

// NotificationSink receives lifecycle events after their transaction commits.
// A delivery error never undoes the transition.
type NotificationSink interface {
	Notify(ctx context.Context, n Notification) error
}

func newNotification(b *booking.Booking, category NotificationCategory, message string, now time.Time) Notification {
	return Notification{
		UserID:     b.UserID(),
		BookingID:  b.ID(),
		Ticket:     b.Ticket(),
		Category:   category,
		Message:    message,
		OccurredAt: now,
	}
}

func notify(ctx context.Context, sink NotificationSink, logger *slog.Logger, n Notification) {
	if sink == nil {
		return
	}
	if err := sink.Notify(ctx, n); err != nil {
		logger.Warn("notification delivery failed",
			slog.String("ticket", n.Ticket),
			slog.String("category", n.Category.String()),
			slog.String("error", err.Error()))
	}
}
