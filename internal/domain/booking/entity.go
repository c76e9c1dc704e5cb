package booking

import (
	"time"

	"parking-engine/internal/domain/pricing"
	"parking-engine/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Booking struct {
	id              uuid.UUID
	ticket          string
	userID          uuid.UUID
	vehicleID       uuid.UUID
	slotID          uuid.UUID
	status          Status
	entryTime       time.Time
	checkinDeadline *time.Time
	checkinTime     *time.Time
	checkoutTime    *time.Time
	durationHours   decimal.Decimal
	baseAmount      decimal.Decimal
	surgeAmount     decimal.Decimal
	totalAmount     decimal.Decimal
	prepaidAmount   decimal.Decimal
	refundedAmount  decimal.Decimal
	paymentStatus   PaymentStatus
	forfeited       bool
	createdAt       time.Time
	updatedAt       time.Time
}

type NewParams struct {
	Ticket          string
	UserID          uuid.UUID
	VehicleID       uuid.UUID
	SlotID          uuid.UUID
	Now             time.Time
	CheckinDeadline *time.Time
	PrepaidAmount   decimal.Decimal
}

// NewBooking creates a pending booking.
func NewBooking(p NewParams) (*Booking, error) {
	if p.Ticket == "" {
		return nil, errs.Reason(errs.ErrInvalidInput, "ticket number is required")
	}
	if p.UserID == uuid.Nil || p.VehicleID == uuid.Nil || p.SlotID == uuid.Nil {
		return nil, errs.Reason(errs.ErrInvalidInput, "user, vehicle and slot are required")
	}
	if p.PrepaidAmount.IsNegative() {
		return nil, errs.Reason(errs.ErrInvalidInput, "prepaid amount must not be negative")
	}
	if p.CheckinDeadline != nil && !p.CheckinDeadline.After(p.Now) {
		return nil, errs.Reason(errs.ErrInvalidInput, "check-in deadline must be in the future")
	}
	return &Booking{
		id:              uuid.New(),
		ticket:          p.Ticket,
		userID:          p.UserID,
		vehicleID:       p.VehicleID,
		slotID:          p.SlotID,
		status:          StatusPending,
		entryTime:       p.Now,
		checkinDeadline: p.CheckinDeadline,
		prepaidAmount:   p.PrepaidAmount,
		paymentStatus:   PaymentStatusPending,
		createdAt:       p.Now,
		updatedAt:       p.Now,
	}, nil
}

// ReconstructParams carries every persisted column of a booking.
type ReconstructParams struct {
	ID              uuid.UUID
	Ticket          string
	UserID          uuid.UUID
	VehicleID       uuid.UUID
	SlotID          uuid.UUID
	Status          Status
	EntryTime       time.Time
	CheckinDeadline *time.Time
	CheckinTime     *time.Time
	CheckoutTime    *time.Time
	DurationHours   decimal.Decimal
	BaseAmount      decimal.Decimal
	SurgeAmount     decimal.Decimal
	TotalAmount     decimal.Decimal
	PrepaidAmount   decimal.Decimal
	RefundedAmount  decimal.Decimal
	PaymentStatus   PaymentStatus
	Forfeited       bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func ReconstructBooking(p ReconstructParams) *Booking {
	return &Booking{
		id:              p.ID,
		ticket:          p.Ticket,
		userID:          p.UserID,
		vehicleID:       p.VehicleID,
		slotID:          p.SlotID,
		status:          p.Status,
		entryTime:       p.EntryTime,
		checkinDeadline: p.CheckinDeadline,
		checkinTime:     p.CheckinTime,
		checkoutTime:    p.CheckoutTime,
		durationHours:   p.DurationHours,
		baseAmount:      p.BaseAmount,
		surgeAmount:     p.SurgeAmount,
		totalAmount:     p.TotalAmount,
		prepaidAmount:   p.PrepaidAmount,
		refundedAmount:  p.RefundedAmount,
		paymentStatus:   p.PaymentStatus,
		forfeited:       p.Forfeited,
		createdAt:       p.CreatedAt,
		updatedAt:       p.UpdatedAt,
	}
}

// Clone returns an independent copy, used by stores that keep snapshots.
func (b *Booking) Clone() *Booking {
	cp := *b
	return &cp
}

func (b *Booking) apply(ev Event, now time.Time) error {
	to, err := Transition(b.status, ev)
	if err != nil {
		return err
	}
	b.status = to
	b.updatedAt = now
	return nil
}

// DeadlinePassed reports whether now is strictly after the check-in deadline.
// Bookings without a deadline never pass it.
func (b *Booking) DeadlinePassed(now time.Time) bool {
	return b.checkinDeadline != nil && now.After(*b.checkinDeadline)
}

func (b *Booking) CheckIn(now time.Time) error {
	if b.status == StatusPending && b.DeadlinePassed(now) {
		return errs.Reason(errs.ErrBookingExpired, "check-in deadline %s has passed", b.checkinDeadline.Format(time.RFC3339))
	}
	if err := b.apply(EventCheckIn, now); err != nil {
		return err
	}
	t := now
	b.checkinTime = &t
	return nil
}

// CheckOut completes the booking with the final charge.
func (b *Booking) CheckOut(now time.Time, charge pricing.Breakdown) error {
	if err := b.apply(EventCheckOut, now); err != nil {
		return err
	}
	t := now
	b.checkoutTime = &t
	b.durationHours = charge.DurationHours
	b.baseAmount = charge.BaseAmount
	b.surgeAmount = charge.SurgeAmount
	b.totalAmount = charge.TotalAmount
	b.paymentStatus = PaymentStatusPaid
	return nil
}

// Cancel cancels the booking, recording the amount refunded to the wallet.
// Only admins may cancel an active booking.
func (b *Booking) Cancel(now time.Time, byAdmin bool, refund decimal.Decimal) error {
	ev := EventCancel
	if byAdmin {
		ev = EventAdminCancel
	}
	if err := b.apply(ev, now); err != nil {
		return err
	}
	b.refundedAmount = refund
	return nil
}

// Expire forfeits a pending booking whose deadline has passed.
func (b *Booking) Expire(now time.Time) error {
	if b.status == StatusPending && !b.DeadlinePassed(now) {
		return errs.Reason(errs.ErrInvalidTransition, "check-in deadline has not passed")
	}
	if err := b.apply(EventExpire, now); err != nil {
		return err
	}
	b.forfeited = true
	return nil
}

// ParkedSince is the time billing starts: check-in when present, otherwise entry.
func (b *Booking) ParkedSince() time.Time {
	if b.checkinTime != nil {
		return *b.checkinTime
	}
	return b.entryTime
}

func (b *Booking) ID() uuid.UUID                   { return b.id }
func (b *Booking) Ticket() string                  { return b.ticket }
func (b *Booking) UserID() uuid.UUID               { return b.userID }
func (b *Booking) VehicleID() uuid.UUID            { return b.vehicleID }
func (b *Booking) SlotID() uuid.UUID               { return b.slotID }
func (b *Booking) Status() Status                  { return b.status }
func (b *Booking) EntryTime() time.Time            { return b.entryTime }
func (b *Booking) CheckinDeadline() *time.Time     { return b.checkinDeadline }
func (b *Booking) CheckinTime() *time.Time         { return b.checkinTime }
func (b *Booking) CheckoutTime() *time.Time        { return b.checkoutTime }
func (b *Booking) DurationHours() decimal.Decimal  { return b.durationHours }
func (b *Booking) BaseAmount() decimal.Decimal     { return b.baseAmount }
func (b *Booking) SurgeAmount() decimal.Decimal    { return b.surgeAmount }
func (b *Booking) TotalAmount() decimal.Decimal    { return b.totalAmount }
func (b *Booking) PrepaidAmount() decimal.Decimal  { return b.prepaidAmount }
func (b *Booking) RefundedAmount() decimal.Decimal { return b.refundedAmount }
func (b *Booking) PaymentStatus() PaymentStatus    { return b.paymentStatus }
func (b *Booking) Forfeited() bool                 { return b.forfeited }
func (b *Booking) CreatedAt() time.Time            { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time            { return b.updatedAt }
