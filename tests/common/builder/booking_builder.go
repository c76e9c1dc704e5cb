//go:build unit || e2e

package builder

import (
	"time"

	"parking-engine/internal/domain/booking"
	reqdto "parking-engine/internal/handler/dto/request"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingBuilder struct {
	Ticket    string
	UserID    uuid.UUID
	VehicleID uuid.UUID
	SlotID    uuid.UUID
	Now       time.Time
	Deadline  *time.Time
	Prepaid   decimal.Decimal
}

// NewBookingBuilder describes a reservation made at now with a 30 minute
// check-in window and one hour prepaid at 20 per hour.
func NewBookingBuilder(now time.Time) *BookingBuilder {
	deadline := now.Add(30 * time.Minute)
	return &BookingBuilder{
		Ticket:    booking.GenerateTicket("", now),
		UserID:    uuid.New(),
		VehicleID: uuid.New(),
		SlotID:    uuid.New(),
		Now:       now,
		Deadline:  &deadline,
		Prepaid:   decimal.NewFromInt(20),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	return booking.NewBooking(booking.NewParams{
		Ticket:          b.Ticket,
		UserID:          b.UserID,
		VehicleID:       b.VehicleID,
		SlotID:          b.SlotID,
		Now:             b.Now,
		CheckinDeadline: b.Deadline,
		PrepaidAmount:   b.Prepaid,
	})
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		VehicleID: b.VehicleID,
		SlotID:    b.SlotID,
	}
}
