package usecase

import (
	"context"
	"log/slog"
	"time"

	"parking-engine/internal/domain/booking"
	"parking-engine/internal/domain/pricing"
	"parking-engine/internal/domain/slot"
	"parking-engine/internal/domain/vehicle"
	"parking-engine/internal/domain/wallet"
	"parking-engine/internal/infra"
	"parking-engine/internal/pkg/clock"
	"parking-engine/internal/pkg/errs"
	"parking-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingMode string

const (
	// ModeWalkIn occupies the slot at creation after a minimum-balance check.
	ModeWalkIn BookingMode = "walk_in"
	// ModeReservation reserves the slot with a prepayment and a check-in deadline.
	ModeReservation BookingMode = "reservation"
)

type BookingSettings struct {
	Mode                   BookingMode
	CheckinWindow          time.Duration
	CancellationFeePercent decimal.Decimal
	MinBalanceHours        decimal.Decimal
	PrepayHours            decimal.Decimal
	TicketPrefix           string
}

func DefaultBookingSettings() BookingSettings {
	return BookingSettings{
		Mode:                   ModeReservation,
		CheckinWindow:          30 * time.Minute,
		CancellationFeePercent: decimal.NewFromInt(10),
		MinBalanceHours:        decimal.NewFromInt(2),
		PrepayHours:            decimal.NewFromInt(1),
		TicketPrefix:           booking.DefaultTicketPrefix,
	}
}

type CreateBookingParams struct {
	UserID    uuid.UUID
	VehicleID uuid.UUID
	SlotID    uuid.UUID
}

// Actor is the caller of an operation that depends on who asks.
type Actor struct {
	UserID uuid.UUID
	Admin  bool
}

type CheckoutResult struct {
	Booking        *booking.Booking
	Charge         pricing.Breakdown
	Charged        decimal.Decimal
	Refunded       decimal.Decimal
	LoyaltyAwarded int64
	Balance        decimal.Decimal
}

type ExpireOutcome string

const (
	ExpireOutcomeExpired        ExpireOutcome = "expired"
	ExpireOutcomeAlreadyExpired ExpireOutcome = "already_expired"
	ExpireOutcomeCheckedIn      ExpireOutcome = "checked_in"
)

type ExpireResult struct {
	Ticket  string
	Outcome ExpireOutcome
}

type BookingLifecycle interface {
	Create(ctx context.Context, params CreateBookingParams) (*booking.Booking, error)
	CheckIn(ctx context.Context, ticket string) (*booking.Booking, error)
	CheckInWithToken(ctx context.Context, payload []byte) (*booking.Booking, error)
	CheckOut(ctx context.Context, ticket string) (*CheckoutResult, error)
	Exit(ctx context.Context, ticket string) (*CheckoutResult, error)
	Cancel(ctx context.Context, ticket string, actor Actor) (*booking.Booking, error)
	Expire(ctx context.Context, ticket string) (ExpireResult, error)

	Get(ctx context.Context, ticket string) (*booking.Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*booking.Booking, error)
	Quote(ctx context.Context, ticket string) (pricing.Breakdown, error)
	IssueCheckinToken(ctx context.Context, ticket string) (booking.CheckinToken, error)
	ListOverdue(ctx context.Context, limit int) ([]*booking.Booking, error)
}

type bookingLifecycleImpl struct {
	uow      shared.UnitOfWork
	slots    SlotRegistry
	ledger   WalletLedger
	pricing  *pricing.Calculator
	sink     NotificationSink
	clock    clock.Clock
	logger   *slog.Logger
	settings BookingSettings
}

func NewBookingLifecycle(
	uow shared.UnitOfWork,
	slots SlotRegistry,
	ledger WalletLedger,
	calculator *pricing.Calculator,
	sink NotificationSink,
	clk clock.Clock,
	logger *slog.Logger,
	settings BookingSettings,
) BookingLifecycle {
	return &bookingLifecycleImpl{
		uow:      uow,
		slots:    slots,
		ledger:   ledger,
		pricing:  calculator,
		sink:     sink,
		clock:    clk,
		logger:   logger,
		settings: settings,
	}
}

func (l *bookingLifecycleImpl) Create(ctx context.Context, params CreateBookingParams) (*booking.Booking, error) {
	var created *booking.Booking
	err := l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := l.clock.Now()

		v, err := l.ownedVehicle(ctx, tx, params.UserID, params.VehicleID)
		if err != nil {
			return err
		}
		if err := l.ensureNoOpenBooking(ctx, tx, v); err != nil {
			return err
		}
		s, err := tx.Slots().FindByID(ctx, params.SlotID)
		if err != nil {
			return translateNotFound(err, errs.ErrSlotNotFound, "slot %s not found", params.SlotID)
		}
		if !s.Accepts(v.VehicleType()) {
			return errs.Reason(errs.ErrVehicleTypeMismatch, "slot %s takes %s, vehicle is %s", s.Number(), s.VehicleType(), v.VehicleType())
		}
		if !s.IsAvailable() {
			return errs.Reason(errs.ErrSlotUnavailable, "slot %s is %s", s.Number(), s.Status())
		}

		if l.settings.Mode == ModeWalkIn {
			created, err = l.createWalkIn(ctx, tx, params, s, now)
		} else {
			created, err = l.createReservation(ctx, tx, params, s, now)
		}
		return err
	})
	if err != nil {
		return nil, dbFailure(err)
	}

	l.logger.Info("booking created",
		slog.String("ticket", created.Ticket()),
		slog.String("user_id", created.UserID().String()),
		slog.String("slot_id", created.SlotID().String()),
		slog.String("status", created.Status().String()))

	notify(ctx, l.sink, l.logger, newNotification(created, CategoryBookingCreated,
		"Booking "+created.Ticket()+" created", created.CreatedAt()))
	if created.Status() == booking.StatusActive {
		notify(ctx, l.sink, l.logger, newNotification(created, CategoryCheckedIn,
			"Checked in with ticket "+created.Ticket(), created.UpdatedAt()))
	}
	return created, nil
}

func (l *bookingLifecycleImpl) createWalkIn(ctx context.Context, tx shared.Tx, params CreateBookingParams, s *slot.Slot, now time.Time) (*booking.Booking, error) {
	required := pricing.Estimate(s.PricePerHour(), l.settings.MinBalanceHours)
	acct, err := tx.Wallets().Find(ctx, params.UserID)
	if err != nil && !infra.IsKind(err, infra.KindNotFound) {
		return nil, err
	}
	if acct == nil || !acct.CanCover(required) {
		balance := decimal.Zero
		if acct != nil {
			balance = acct.Balance()
		}
		return nil, errs.Reason(errs.ErrInsufficientFunds, "balance %s is below the estimated minimum %s", balance.StringFixed(2), required.StringFixed(2))
	}

	if err := l.slots.Claim(ctx, tx, s.ID(), slot.StatusOccupied); err != nil {
		return nil, err
	}
	b, err := booking.NewBooking(booking.NewParams{
		Ticket:    booking.GenerateTicket(l.settings.TicketPrefix, now),
		UserID:    params.UserID,
		VehicleID: params.VehicleID,
		SlotID:    s.ID(),
		Now:       now,
	})
	if err != nil {
		return nil, err
	}
	if err := b.CheckIn(now); err != nil {
		return nil, err
	}
	if err := l.insert(ctx, tx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (l *bookingLifecycleImpl) createReservation(ctx context.Context, tx shared.Tx, params CreateBookingParams, s *slot.Slot, now time.Time) (*booking.Booking, error) {
	prepay := pricing.Estimate(s.PricePerHour(), l.settings.PrepayHours)
	deadline := now.Add(l.settings.CheckinWindow)

	if err := l.slots.Claim(ctx, tx, s.ID(), slot.StatusReserved); err != nil {
		return nil, err
	}
	b, err := booking.NewBooking(booking.NewParams{
		Ticket:          booking.GenerateTicket(l.settings.TicketPrefix, now),
		UserID:          params.UserID,
		VehicleID:       params.VehicleID,
		SlotID:          s.ID(),
		Now:             now,
		CheckinDeadline: &deadline,
		PrepaidAmount:   prepay,
	})
	if err != nil {
		return nil, err
	}
	if err := l.insert(ctx, tx, b); err != nil {
		return nil, err
	}
	if prepay.IsPositive() {
		if _, err := l.ledger.Debit(ctx, tx, params.UserID, prepay); err != nil {
			return nil, err
		}
		if _, err := l.ledger.Record(ctx, tx, b.ID(), params.UserID, prepay, wallet.PaymentKindPrepayment); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (l *bookingLifecycleImpl) CheckIn(ctx context.Context, ticket string) (*booking.Booking, error) {
	var checkedIn *booking.Booking
	err := l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := l.findByTicket(ctx, tx, ticket)
		if err != nil {
			return err
		}
		checkedIn, err = l.checkIn(ctx, tx, b)
		return err
	})
	if err != nil {
		return nil, dbFailure(err)
	}

	l.logger.Info("booking checked in", slog.String("ticket", checkedIn.Ticket()))
	notify(ctx, l.sink, l.logger, newNotification(checkedIn, CategoryCheckedIn,
		"Checked in with ticket "+checkedIn.Ticket(), checkedIn.UpdatedAt()))
	return checkedIn, nil
}

func (l *bookingLifecycleImpl) checkIn(ctx context.Context, tx shared.Tx, b *booking.Booking) (*booking.Booking, error) {
	if err := b.CheckIn(l.clock.Now()); err != nil {
		return nil, err
	}
	if err := l.update(ctx, tx, b, booking.StatusPending, booking.EventCheckIn); err != nil {
		return nil, err
	}
	if err := l.slots.Occupy(ctx, tx, b.SlotID()); err != nil {
		return nil, err
	}
	return b, nil
}

// CheckInWithToken resolves the booking by id and falls back to the ticket
// when the id is stale. The resolved ticket must match the token exactly.
func (l *bookingLifecycleImpl) CheckInWithToken(ctx context.Context, payload []byte) (*booking.Booking, error) {
	token, err := booking.ParseCheckinToken(payload)
	if err != nil {
		return nil, err
	}

	var checkedIn *booking.Booking
	err = l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b := l.findByTokenID(ctx, tx, token)
		if b == nil {
			var err error
			if b, err = l.findByTicket(ctx, tx, token.Ticket); err != nil {
				return err
			}
		}
		if b.Ticket() != token.Ticket {
			return errs.Reason(errs.ErrBookingNotFound, "token ticket %s does not match booking", token.Ticket)
		}
		var err error
		checkedIn, err = l.checkIn(ctx, tx, b)
		return err
	})
	if err != nil {
		return nil, dbFailure(err)
	}

	l.logger.Info("booking checked in with token", slog.String("ticket", checkedIn.Ticket()))
	notify(ctx, l.sink, l.logger, newNotification(checkedIn, CategoryCheckedIn,
		"Checked in with ticket "+checkedIn.Ticket(), checkedIn.UpdatedAt()))
	return checkedIn, nil
}

func (l *bookingLifecycleImpl) findByTokenID(ctx context.Context, tx shared.Tx, token booking.CheckinToken) *booking.Booking {
	id, err := uuid.Parse(token.BookingID)
	if err != nil {
		return nil
	}
	b, err := tx.Bookings().FindByID(ctx, id)
	if err != nil || b.Ticket() != token.Ticket {
		l.logger.Debug("token booking id is stale, falling back to ticket",
			slog.String("booking_id", token.BookingID),
			slog.String("ticket", token.Ticket))
		return nil
	}
	return b
}

// CheckOut settles an active booking. The remaining charge after the
// prepayment is debited, or the excess prepayment refunded, and the booking,
// slot, loyalty points and payment records change in one transaction.
func (l *bookingLifecycleImpl) CheckOut(ctx context.Context, ticket string) (*CheckoutResult, error) {
	var result *CheckoutResult
	err := l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := l.clock.Now()
		b, err := l.findByTicket(ctx, tx, ticket)
		if err != nil {
			return err
		}
		if _, err := booking.Transition(b.Status(), booking.EventCheckOut); err != nil {
			return err
		}
		s, err := tx.Slots().FindByID(ctx, b.SlotID())
		if err != nil {
			return translateNotFound(err, errs.ErrSlotNotFound, "slot %s not found", b.SlotID())
		}
		charge, err := l.pricing.Calculate(s.PricePerHour(), b.ParkedSince(), now)
		if err != nil {
			return err
		}

		result = &CheckoutResult{Charge: charge, Charged: decimal.Zero, Refunded: decimal.Zero}
		due := charge.TotalAmount.Sub(b.PrepaidAmount())
		switch {
		case due.IsPositive():
			if result.Balance, err = l.ledger.Debit(ctx, tx, b.UserID(), due); err != nil {
				return err
			}
			result.Charged = due
		case due.IsNegative():
			result.Refunded = due.Neg()
			if result.Balance, err = l.ledger.Credit(ctx, tx, b.UserID(), result.Refunded); err != nil {
				return err
			}
		}

		if err := b.CheckOut(now, charge); err != nil {
			return err
		}
		if err := l.update(ctx, tx, b, booking.StatusActive, booking.EventCheckOut); err != nil {
			return err
		}
		if err := l.slots.Release(ctx, tx, b.SlotID()); err != nil {
			return err
		}
		if result.LoyaltyAwarded, err = l.ledger.AwardLoyalty(ctx, tx, b.UserID(), charge.TotalAmount); err != nil {
			return err
		}
		if _, err := l.ledger.Record(ctx, tx, b.ID(), b.UserID(), result.Charged, wallet.PaymentKindSettlement); err != nil {
			return err
		}
		if result.Refunded.IsPositive() {
			if _, err := l.ledger.Record(ctx, tx, b.ID(), b.UserID(), result.Refunded, wallet.PaymentKindRefund); err != nil {
				return err
			}
		}
		if due.IsZero() {
			acct, err := tx.Wallets().Find(ctx, b.UserID())
			if err != nil {
				return err
			}
			result.Balance = acct.Balance()
		}
		result.Booking = b
		return nil
	})
	if err != nil {
		return nil, dbFailure(err)
	}

	b := result.Booking
	l.logger.Info("booking checked out",
		slog.String("ticket", b.Ticket()),
		slog.String("total", b.TotalAmount().StringFixed(2)),
		slog.String("charged", result.Charged.StringFixed(2)),
		slog.Int64("loyalty_points", result.LoyaltyAwarded))
	notify(ctx, l.sink, l.logger, newNotification(b, CategoryCheckedOut,
		"Checked out, total "+b.TotalAmount().StringFixed(2), b.UpdatedAt()))
	return result, nil
}

func (l *bookingLifecycleImpl) Exit(ctx context.Context, ticket string) (*CheckoutResult, error) {
	return l.CheckOut(ctx, ticket)
}

// Cancel releases the slot and refunds the prepayment minus the cancellation
// fee. Owners may cancel pending bookings; admins may also cancel active ones.
func (l *bookingLifecycleImpl) Cancel(ctx context.Context, ticket string, actor Actor) (*booking.Booking, error) {
	var cancelled *booking.Booking
	err := l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := l.findByTicket(ctx, tx, ticket)
		if err != nil {
			return err
		}
		if !actor.Admin && b.UserID() != actor.UserID {
			return errs.Reason(errs.ErrBookingNotFound, "booking %s not found", ticket)
		}

		expected := b.Status()
		refund := l.cancellationRefund(b.PrepaidAmount())
		if err := b.Cancel(l.clock.Now(), actor.Admin, refund); err != nil {
			return err
		}
		ev := booking.EventCancel
		if actor.Admin {
			ev = booking.EventAdminCancel
		}
		if err := l.update(ctx, tx, b, expected, ev); err != nil {
			return err
		}
		if err := l.slots.Release(ctx, tx, b.SlotID()); err != nil {
			return err
		}
		if refund.IsPositive() {
			if _, err := l.ledger.Credit(ctx, tx, b.UserID(), refund); err != nil {
				return err
			}
			if _, err := l.ledger.Record(ctx, tx, b.ID(), b.UserID(), refund, wallet.PaymentKindRefund); err != nil {
				return err
			}
		}
		cancelled = b
		return nil
	})
	if err != nil {
		return nil, dbFailure(err)
	}

	l.logger.Info("booking cancelled",
		slog.String("ticket", cancelled.Ticket()),
		slog.Bool("by_admin", actor.Admin),
		slog.String("refund", cancelled.RefundedAmount().StringFixed(2)))
	notify(ctx, l.sink, l.logger, newNotification(cancelled, CategoryCancelled,
		"Booking "+cancelled.Ticket()+" cancelled, refund "+cancelled.RefundedAmount().StringFixed(2), cancelled.UpdatedAt()))
	return cancelled, nil
}

func (l *bookingLifecycleImpl) cancellationRefund(prepaid decimal.Decimal) decimal.Decimal {
	if !prepaid.IsPositive() {
		return decimal.Zero
	}
	keep := decimal.NewFromInt(100).Sub(l.settings.CancellationFeePercent)
	return prepaid.Mul(keep).Div(decimal.NewFromInt(100)).Round(2)
}

// Expire forfeits an overdue pending booking. Expiring an already expired
// booking, or one that won the race to check in, is a no-op.
func (l *bookingLifecycleImpl) Expire(ctx context.Context, ticket string) (ExpireResult, error) {
	result := ExpireResult{Ticket: ticket}
	var expired *booking.Booking
	err := l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		expired = nil
		b, err := l.findByTicket(ctx, tx, ticket)
		if err != nil {
			return err
		}
		if outcome, done := expireNoop(b.Status()); done {
			result.Outcome = outcome
			return nil
		}
		if err := b.Expire(l.clock.Now()); err != nil {
			return err
		}
		ok, err := tx.Bookings().Update(ctx, b, booking.StatusPending)
		if err != nil {
			return err
		}
		if !ok {
			current, err := l.findByTicket(ctx, tx, ticket)
			if err != nil {
				return err
			}
			if outcome, done := expireNoop(current.Status()); done {
				result.Outcome = outcome
				return nil
			}
			_, err = booking.Transition(current.Status(), booking.EventExpire)
			return err
		}
		if err := l.slots.Release(ctx, tx, b.SlotID()); err != nil {
			return err
		}
		result.Outcome = ExpireOutcomeExpired
		expired = b
		return nil
	})
	if err != nil {
		return ExpireResult{Ticket: ticket}, dbFailure(err)
	}

	if expired != nil {
		l.logger.Info("booking expired",
			slog.String("ticket", expired.Ticket()),
			slog.String("forfeited", expired.PrepaidAmount().StringFixed(2)))
		notify(ctx, l.sink, l.logger, newNotification(expired, CategoryExpired,
			"Booking "+expired.Ticket()+" expired before check-in", expired.UpdatedAt()))
	}
	return result, nil
}

func expireNoop(status booking.Status) (ExpireOutcome, bool) {
	switch status {
	case booking.StatusExpired:
		return ExpireOutcomeAlreadyExpired, true
	case booking.StatusActive:
		return ExpireOutcomeCheckedIn, true
	default:
		return "", false
	}
}

func (l *bookingLifecycleImpl) Get(ctx context.Context, ticket string) (*booking.Booking, error) {
	var b *booking.Booking
	err := l.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		b, err = l.findByTicket(ctx, tx, ticket)
		return err
	})
	if err != nil {
		return nil, dbFailure(err)
	}
	return b, nil
}

func (l *bookingLifecycleImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*booking.Booking, error) {
	var bookings []*booking.Booking
	err := l.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		bookings, err = tx.Bookings().ListByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, dbFailure(err)
	}
	return bookings, nil
}

// Quote prices an open booking as if it ended now.
func (l *bookingLifecycleImpl) Quote(ctx context.Context, ticket string) (pricing.Breakdown, error) {
	var quote pricing.Breakdown
	err := l.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := l.findByTicket(ctx, tx, ticket)
		if err != nil {
			return err
		}
		if !b.Status().IsOpen() {
			return errs.Reason(errs.ErrBookingTerminal, "booking is already %s", b.Status())
		}
		s, err := tx.Slots().FindByID(ctx, b.SlotID())
		if err != nil {
			return translateNotFound(err, errs.ErrSlotNotFound, "slot %s not found", b.SlotID())
		}
		quote, err = l.pricing.Calculate(s.PricePerHour(), b.ParkedSince(), l.clock.Now())
		return err
	})
	if err != nil {
		return pricing.Breakdown{}, dbFailure(err)
	}
	return quote, nil
}

func (l *bookingLifecycleImpl) IssueCheckinToken(ctx context.Context, ticket string) (booking.CheckinToken, error) {
	var token booking.CheckinToken
	err := l.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := l.findByTicket(ctx, tx, ticket)
		if err != nil {
			return err
		}
		if b.Status() != booking.StatusPending {
			_, err := booking.Transition(b.Status(), booking.EventCheckIn)
			return err
		}
		v, err := tx.Vehicles().FindByID(ctx, b.VehicleID())
		if err != nil {
			return translateNotFound(err, errs.ErrVehicleNotFound, "vehicle %s not found", b.VehicleID())
		}
		s, err := tx.Slots().FindByID(ctx, b.SlotID())
		if err != nil {
			return translateNotFound(err, errs.ErrSlotNotFound, "slot %s not found", b.SlotID())
		}
		token = booking.NewCheckinToken(b, v.Plate(), s.Number())
		return nil
	})
	if err != nil {
		return booking.CheckinToken{}, dbFailure(err)
	}
	return token, nil
}

func (l *bookingLifecycleImpl) ListOverdue(ctx context.Context, limit int) ([]*booking.Booking, error) {
	var overdue []*booking.Booking
	err := l.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		overdue, err = tx.Bookings().ListOverdue(ctx, l.clock.Now(), limit)
		return err
	})
	if err != nil {
		return nil, dbFailure(err)
	}
	return overdue, nil
}

func (l *bookingLifecycleImpl) findByTicket(ctx context.Context, tx shared.Tx, ticket string) (*booking.Booking, error) {
	b, err := tx.Bookings().FindByTicket(ctx, ticket)
	if err != nil {
		return nil, translateNotFound(err, errs.ErrBookingNotFound, "booking %s not found", ticket)
	}
	return b, nil
}

func (l *bookingLifecycleImpl) ownedVehicle(ctx context.Context, tx shared.Tx, userID, vehicleID uuid.UUID) (*vehicle.Vehicle, error) {
	v, err := tx.Vehicles().FindByID(ctx, vehicleID)
	if err != nil {
		return nil, translateNotFound(err, errs.ErrVehicleNotFound, "vehicle %s not found", vehicleID)
	}
	if !v.OwnedBy(userID) {
		return nil, errs.Reason(errs.ErrVehicleNotFound, "vehicle %s not found", vehicleID)
	}
	return v, nil
}

func (l *bookingLifecycleImpl) ensureNoOpenBooking(ctx context.Context, tx shared.Tx, v *vehicle.Vehicle) error {
	open, err := tx.Bookings().FindOpenByVehicle(ctx, v.ID())
	switch {
	case err == nil:
		return errs.Reason(errs.ErrDuplicateActiveBooking, "vehicle %s already has %s booking %s", v.Plate(), open.Status(), open.Ticket())
	case infra.IsKind(err, infra.KindNotFound):
		return nil
	default:
		return err
	}
}

// insert maps unique violations of the open-booking indexes to the business
// errors a concurrent create would have produced.
func (l *bookingLifecycleImpl) insert(ctx context.Context, tx shared.Tx, b *booking.Booking) error {
	err := tx.Bookings().Create(ctx, b)
	switch {
	case err == nil:
		return nil
	case infra.IsConstraint(err, infra.ConstraintBookingOpenVehicle):
		return errs.Reason(errs.ErrDuplicateActiveBooking, "vehicle already has an open booking")
	case infra.IsConstraint(err, infra.ConstraintBookingOpenSlot):
		return errs.Reason(errs.ErrSlotUnavailable, "slot already has an open booking")
	default:
		return err
	}
}

// update writes b only if it is still in the expected status. When another
// caller moved it first, the error describes the state it lost to.
func (l *bookingLifecycleImpl) update(ctx context.Context, tx shared.Tx, b *booking.Booking, expected booking.Status, ev booking.Event) error {
	ok, err := tx.Bookings().Update(ctx, b, expected)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	current, err := tx.Bookings().FindByID(ctx, b.ID())
	if err != nil {
		return translateNotFound(err, errs.ErrBookingNotFound, "booking %s not found", b.Ticket())
	}
	if _, err := booking.Transition(current.Status(), ev); err != nil {
		return err
	}
	return errs.Reason(errs.ErrInvalidTransition, "booking %s changed concurrently", b.Ticket())
}
