//go:build unit || e2e

// Package enginetest wires the parking engine over the in-memory store for
// use-case and handler tests.
package enginetest

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"parking-engine/internal/domain/booking"
	"parking-engine/internal/domain/pricing"
	"parking-engine/internal/domain/slot"
	"parking-engine/internal/domain/vehicle"
	"parking-engine/internal/domain/wallet"
	"parking-engine/internal/infra/memstore"
	"parking-engine/internal/pkg/clock"
	"parking-engine/internal/usecase"
	"parking-engine/internal/usecase/shared"
	"parking-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// Monday 2024-01-01 10:00 UTC, inside the default peak window.
var DefaultNow = time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)

type Engine struct {
	Clock    *clock.MockClock
	Logger   *slog.Logger
	UoW      shared.UnitOfWork
	Slots    usecase.SlotRegistry
	Wallets  usecase.WalletLedger
	Vehicles usecase.VehicleUseCase
	Bookings usecase.BookingLifecycle
	Sink     *RecordingSink
	Settings usecase.BookingSettings
}

func New(t *testing.T, opts ...func(*usecase.BookingSettings)) *Engine {
	t.Helper()

	settings := usecase.DefaultBookingSettings()
	for _, opt := range opts {
		opt(&settings)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := clock.NewMockClock(DefaultNow)
	uow := memstore.NewUoW(memstore.New(logger))
	sink := &RecordingSink{}

	slots := usecase.NewSlotRegistry(uow, clk, logger)
	wallets := usecase.NewWalletLedger(uow, clk, logger, decimal.NewFromInt(10))
	return &Engine{
		Clock:    clk,
		Logger:   logger,
		UoW:      uow,
		Slots:    slots,
		Wallets:  wallets,
		Vehicles: usecase.NewVehicleUseCase(uow, clk, logger),
		Bookings: usecase.NewBookingLifecycle(uow, slots, wallets, pricing.NewDefaultCalculator(), sink, clk, logger, settings),
		Sink:     sink,
		Settings: settings,
	}
}

func WalkIn(s *usecase.BookingSettings) {
	s.Mode = usecase.ModeWalkIn
}

// SeedSlot stores an available slot built from the default slot builder.
func (e *Engine) SeedSlot(t *testing.T, mutate ...func(*builder.SlotBuilder)) *slot.Slot {
	t.Helper()

	b := builder.NewSlotBuilder()
	b.CreatedAt = e.Clock.Now()
	for _, m := range mutate {
		b.With(m)
	}
	s, err := b.BuildDomain()
	require.NoError(t, err)

	err = e.UoW.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Slots().Create(ctx, s)
	})
	require.NoError(t, err)
	return s
}

// SeedSlots stores count car slots on floor 1 of section A.
func (e *Engine) SeedSlots(t *testing.T, count int) []*slot.Slot {
	t.Helper()
	out := make([]*slot.Slot, 0, count)
	for i := 1; i <= count; i++ {
		out = append(out, e.SeedSlot(t, func(b *builder.SlotBuilder) { b.Position = i }))
	}
	return out
}

func (e *Engine) SeedVehicle(t *testing.T, userID uuid.UUID, mutate ...func(*builder.VehicleBuilder)) *vehicle.Vehicle {
	t.Helper()

	b := builder.NewVehicleBuilder()
	b.UserID = userID
	for _, m := range mutate {
		b.With(m)
	}
	v, err := e.Vehicles.Register(context.Background(), b.UserID, b.VehicleType, b.Plate)
	require.NoError(t, err)
	return v
}

func (e *Engine) Fund(t *testing.T, userID uuid.UUID, amount string) {
	t.Helper()
	_, err := e.Wallets.TopUp(context.Background(), userID, decimal.RequireFromString(amount))
	require.NoError(t, err)
}

// Customer is a funded user with one registered car.
type Customer struct {
	UserID  uuid.UUID
	Vehicle *vehicle.Vehicle
}

func (e *Engine) Customer(t *testing.T, funds string) Customer {
	t.Helper()
	userID := uuid.New()
	if funds != "" {
		e.Fund(t, userID, funds)
	}
	return Customer{UserID: userID, Vehicle: e.SeedVehicle(t, userID)}
}

func (e *Engine) Book(t *testing.T, c Customer, s *slot.Slot) *booking.Booking {
	t.Helper()
	b, err := e.Bookings.Create(context.Background(), usecase.CreateBookingParams{
		UserID:    c.UserID,
		VehicleID: c.Vehicle.ID(),
		SlotID:    s.ID(),
	})
	require.NoError(t, err)
	return b
}

func (e *Engine) SlotStatus(t *testing.T, id uuid.UUID) slot.Status {
	t.Helper()
	s, err := e.Slots.Get(context.Background(), id)
	require.NoError(t, err)
	return s.Status()
}

func (e *Engine) Booking(t *testing.T, ticket string) *booking.Booking {
	t.Helper()
	b, err := e.Bookings.Get(context.Background(), ticket)
	require.NoError(t, err)
	return b
}

func (e *Engine) Balance(t *testing.T, userID uuid.UUID) *wallet.Account {
	t.Helper()
	acct, err := e.Wallets.Balance(context.Background(), userID)
	require.NoError(t, err)
	return acct
}

// RequireSlotInvariant checks that every claimed slot has exactly one open
// booking and every free slot has none.
func (e *Engine) RequireSlotInvariant(t *testing.T) {
	t.Helper()
	err := e.UoW.WithinReadOnly(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		slots, err := tx.Slots().List(ctx, shared.SlotQuery{})
		if err != nil {
			return err
		}
		for _, s := range slots {
			open, err := tx.Bookings().ListOpenBySlot(ctx, s.ID())
			if err != nil {
				return err
			}
			if s.Status().IsClaimed() {
				require.Len(t, open, 1, "slot %s is %s", s.Number(), s.Status())
			} else {
				require.Empty(t, open, "slot %s is %s", s.Number(), s.Status())
			}
		}
		return nil
	})
	require.NoError(t, err)
}

// RecordingSink keeps every notification it receives. Fail makes Notify
// return an error after recording.
type RecordingSink struct {
	mu    sync.Mutex
	items []usecase.Notification
	Fail  error
}

func (s *RecordingSink) Notify(_ context.Context, n usecase.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, n)
	return s.Fail
}

func (s *RecordingSink) Categories() []usecase.NotificationCategory {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]usecase.NotificationCategory, 0, len(s.items))
	for _, n := range s.items {
		out = append(out, n.Category)
	}
	return out
}

func (s *RecordingSink) Count(category usecase.NotificationCategory) int {
	n := 0
	for _, c := range s.Categories() {
		if c == category {
			n++
		}
	}
	return n
}
