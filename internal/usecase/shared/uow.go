package shared

import (
	"context"
	"time"

	"parking-engine/internal/domain/booking"
	"parking-engine/internal/domain/slot"
	"parking-engine/internal/domain/vehicle"
	"parking-engine/internal/domain/wallet"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Consistent view for multi-record reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Slots() SlotRepository
	Vehicles() VehicleRepository
	Bookings() BookingRepository
	Wallets() WalletRepository
	Payments() PaymentRepository
}

// Repositories return infra.RepositoryError: NOT_FOUND for missing records,
// DUPLICATE_KEY with the violated constraint name for unique violations.

type SlotRepository interface {
	Create(ctx context.Context, s *slot.Slot) error
	FindByID(ctx context.Context, id uuid.UUID) (*slot.Slot, error)
	// List returns slots ordered by floor, section and slot number.
	List(ctx context.Context, q SlotQuery) ([]*slot.Slot, error)
	// CompareAndSetStatus moves the slot to `to` only if its current status is
	// one of `from`. It reports whether the update happened.
	CompareAndSetStatus(ctx context.Context, id uuid.UUID, from []slot.Status, to slot.Status, now time.Time) (bool, error)
	Count(ctx context.Context) (int, error)
}

type VehicleRepository interface {
	Create(ctx context.Context, v *vehicle.Vehicle) error
	FindByID(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*vehicle.Vehicle, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	FindByTicket(ctx context.Context, ticket string) (*booking.Booking, error)
	// FindOpenByVehicle returns the vehicle's pending or active booking.
	FindOpenByVehicle(ctx context.Context, vehicleID uuid.UUID) (*booking.Booking, error)
	ListOpenBySlot(ctx context.Context, slotID uuid.UUID) ([]*booking.Booking, error)
	// ListByUser returns the user's bookings, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*booking.Booking, error)
	// ListOverdue returns pending bookings whose deadline is before now,
	// oldest deadline first.
	ListOverdue(ctx context.Context, now time.Time, limit int) ([]*booking.Booking, error)
	// Update persists b only if the stored status still equals expected. It
	// reports whether the write happened.
	Update(ctx context.Context, b *booking.Booking, expected booking.Status) (bool, error)
}

type WalletRepository interface {
	Create(ctx context.Context, a *wallet.Account) error
	Find(ctx context.Context, userID uuid.UUID) (*wallet.Account, error)
	// Debit subtracts amount only if the balance covers it; ok is false when
	// it does not.
	Debit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, now time.Time) (balance decimal.Decimal, ok bool, err error)
	Credit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, now time.Time) (decimal.Decimal, error)
	AddLoyalty(ctx context.Context, userID uuid.UUID, points int64, now time.Time) (int64, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *wallet.Payment) error
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*wallet.Payment, error)
}
