package memstore

import (
	"context"
	"slices"
	"strings"
	"time"

	"parking-engine/internal/domain/booking"
	"parking-engine/internal/infra"

	"github.com/google/uuid"
)

type bookingRepo struct {
	tx *memTx
}

func (r *bookingRepo) Create(_ context.Context, b *booking.Booking) error {
	if err := r.tx.writable("create booking"); err != nil {
		return err
	}
	var constraint string
	r.tx.bookings.each(func(existing *booking.Booking) {
		switch {
		case constraint != "":
		case existing.Ticket() == b.Ticket():
			constraint = infra.ConstraintBookingTicket
		case existing.Status().IsOpen() && existing.VehicleID() == b.VehicleID():
			constraint = infra.ConstraintBookingOpenVehicle
		case existing.Status().IsOpen() && existing.SlotID() == b.SlotID():
			constraint = infra.ConstraintBookingOpenSlot
		}
	})
	if constraint != "" {
		return r.tx.duplicate(constraint, "booking violates "+constraint)
	}
	r.tx.bookings.put(b.ID(), b.Clone())
	return nil
}

func (r *bookingRepo) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, ok := r.tx.bookings.get(id)
	if !ok {
		return nil, r.tx.notFound("booking not found")
	}
	return b.Clone(), nil
}

func (r *bookingRepo) FindByTicket(_ context.Context, ticket string) (*booking.Booking, error) {
	var found *booking.Booking
	r.tx.bookings.each(func(b *booking.Booking) {
		if b.Ticket() == ticket {
			found = b
		}
	})
	if found == nil {
		return nil, r.tx.notFound("booking not found")
	}
	return found.Clone(), nil
}

func (r *bookingRepo) FindOpenByVehicle(_ context.Context, vehicleID uuid.UUID) (*booking.Booking, error) {
	var found *booking.Booking
	r.tx.bookings.each(func(b *booking.Booking) {
		if b.VehicleID() == vehicleID && b.Status().IsOpen() {
			found = b
		}
	})
	if found == nil {
		return nil, r.tx.notFound("no open booking for vehicle")
	}
	return found.Clone(), nil
}

func (r *bookingRepo) ListOpenBySlot(_ context.Context, slotID uuid.UUID) ([]*booking.Booking, error) {
	return r.collect(func(b *booking.Booking) bool {
		return b.SlotID() == slotID && b.Status().IsOpen()
	}, byCreatedAt), nil
}

func (r *bookingRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*booking.Booking, error) {
	return r.collect(func(b *booking.Booking) bool {
		return b.UserID() == userID
	}, func(a, b *booking.Booking) int {
		return -byCreatedAt(a, b)
	}), nil
}

func (r *bookingRepo) ListOverdue(_ context.Context, now time.Time, limit int) ([]*booking.Booking, error) {
	out := r.collect(func(b *booking.Booking) bool {
		return b.Status() == booking.StatusPending && b.DeadlinePassed(now)
	}, func(a, b *booking.Booking) int {
		return a.CheckinDeadline().Compare(*b.CheckinDeadline())
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *bookingRepo) Update(_ context.Context, b *booking.Booking, expected booking.Status) (bool, error) {
	if err := r.tx.writable("update booking"); err != nil {
		return false, err
	}
	current, ok := r.tx.bookings.get(b.ID())
	if !ok {
		return false, r.tx.notFound("booking not found")
	}
	if current.Status() != expected {
		return false, nil
	}
	r.tx.bookings.put(b.ID(), b.Clone())
	return true, nil
}

func (r *bookingRepo) collect(match func(*booking.Booking) bool, cmp func(a, b *booking.Booking) int) []*booking.Booking {
	var out []*booking.Booking
	r.tx.bookings.each(func(b *booking.Booking) {
		if match(b) {
			out = append(out, b.Clone())
		}
	})
	slices.SortFunc(out, cmp)
	return out
}

func byCreatedAt(a, b *booking.Booking) int {
	if c := a.CreatedAt().Compare(b.CreatedAt()); c != 0 {
		return c
	}
	return strings.Compare(a.Ticket(), b.Ticket())
}
