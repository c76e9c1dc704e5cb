package api

import (
	"context"

	"parking-engine/internal/domain/booking"
	"parking-engine/internal/domain/pricing"
	"parking-engine/internal/domain/slot"
	"parking-engine/internal/domain/vehicle"
	"parking-engine/internal/domain/wallet"
	"parking-engine/internal/usecase"
	"parking-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=ports.go -destination=../../../tests/mock/api/ports.go -package=apimock

type SlotService interface {
	FindAvailable(ctx context.Context, q shared.SlotQuery) ([]*slot.Slot, error)
	Stats(ctx context.Context) (slot.Stats, error)
	Recommend(ctx context.Context, vehicleType slot.VehicleType, pref usecase.Preference) (*slot.Slot, error)
	Initialize(ctx context.Context, layout slot.Layout) (int, error)
	SetMaintenance(ctx context.Context, slotID uuid.UUID, enabled bool) (*slot.Slot, error)
}

type VehicleService interface {
	Register(ctx context.Context, userID uuid.UUID, vehicleType slot.VehicleType, plate string) (*vehicle.Vehicle, error)
	List(ctx context.Context, userID uuid.UUID) ([]*vehicle.Vehicle, error)
}

type WalletService interface {
	Balance(ctx context.Context, userID uuid.UUID) (*wallet.Account, error)
	TopUp(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*wallet.Account, error)
	Payments(ctx context.Context, bookingID uuid.UUID) ([]*wallet.Payment, error)
}

type BookingService interface {
	Create(ctx context.Context, params usecase.CreateBookingParams) (*booking.Booking, error)
	CheckIn(ctx context.Context, ticket string) (*booking.Booking, error)
	CheckInWithToken(ctx context.Context, payload []byte) (*booking.Booking, error)
	CheckOut(ctx context.Context, ticket string) (*usecase.CheckoutResult, error)
	Cancel(ctx context.Context, ticket string, actor usecase.Actor) (*booking.Booking, error)
	Get(ctx context.Context, ticket string) (*booking.Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*booking.Booking, error)
	Quote(ctx context.Context, ticket string) (pricing.Breakdown, error)
	IssueCheckinToken(ctx context.Context, ticket string) (booking.CheckinToken, error)
}

type Sweeper interface {
	Sweep(ctx context.Context) (usecase.SweepReport, error)
}
