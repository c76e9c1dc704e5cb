// Package memstore keeps the parking engine's records in process memory.
// Write transactions are serialized and staged, so a failed unit of work
// leaves no trace.
package memstore

import (
	"context"
	"log/slog"
	"sync"

	"parking-engine/internal/domain/booking"
	"parking-engine/internal/domain/slot"
	"parking-engine/internal/domain/vehicle"
	"parking-engine/internal/domain/wallet"
	"parking-engine/internal/infra"
	"parking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type Store struct {
	mu     sync.RWMutex
	logger *slog.Logger

	slots    map[uuid.UUID]*slot.Slot
	vehicles map[uuid.UUID]*vehicle.Vehicle
	bookings map[uuid.UUID]*booking.Booking
	wallets  map[uuid.UUID]*wallet.Account
	payments map[uuid.UUID]*wallet.Payment
}

func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		logger:   logger,
		slots:    make(map[uuid.UUID]*slot.Slot),
		vehicles: make(map[uuid.UUID]*vehicle.Vehicle),
		bookings: make(map[uuid.UUID]*booking.Booking),
		wallets:  make(map[uuid.UUID]*wallet.Account),
		payments: make(map[uuid.UUID]*wallet.Payment),
	}
}

// NewUoW exposes the store as a unit of work.
func NewUoW(s *Store) shared.UnitOfWork {
	return s
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.begin(false)
	if err := fn(ctx, tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

func (s *Store) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(ctx, s.begin(true))
}

func (s *Store) begin(readOnly bool) *memTx {
	tx := &memTx{store: s, readOnly: readOnly}
	tx.slots = newView(s.slots)
	tx.vehicles = newView(s.vehicles)
	tx.bookings = newView(s.bookings)
	tx.wallets = newView(s.wallets)
	tx.payments = newView(s.payments)
	return tx
}

type memTx struct {
	store    *Store
	readOnly bool

	slots    *view[*slot.Slot]
	vehicles *view[*vehicle.Vehicle]
	bookings *view[*booking.Booking]
	wallets  *view[*wallet.Account]
	payments *view[*wallet.Payment]
}

func (t *memTx) Slots() shared.SlotRepository       { return &slotRepo{tx: t} }
func (t *memTx) Vehicles() shared.VehicleRepository { return &vehicleRepo{tx: t} }
func (t *memTx) Bookings() shared.BookingRepository { return &bookingRepo{tx: t} }
func (t *memTx) Wallets() shared.WalletRepository   { return &walletRepo{tx: t} }
func (t *memTx) Payments() shared.PaymentRepository { return &paymentRepo{tx: t} }

func (t *memTx) writable(op string) error {
	if t.readOnly {
		return infra.WrapRepoErr(t.store.logger, infra.KindDBFailure, op+" in read-only transaction", nil)
	}
	return nil
}

func (t *memTx) commit() {
	t.slots.commit()
	t.vehicles.commit()
	t.bookings.commit()
	t.wallets.commit()
	t.payments.commit()
}

func (t *memTx) notFound(msg string) error {
	return infra.WrapRepoErr(t.store.logger, infra.KindNotFound, msg, nil)
}

func (t *memTx) duplicate(constraint, msg string) error {
	return infra.WrapConstraintErr(t.store.logger, infra.KindDuplicateKey, constraint, msg, nil)
}

// view overlays a transaction's staged rows on the committed table.
type view[V any] struct {
	base   map[uuid.UUID]V
	staged map[uuid.UUID]V
}

func newView[V any](base map[uuid.UUID]V) *view[V] {
	return &view[V]{base: base, staged: make(map[uuid.UUID]V)}
}

func (v *view[V]) get(id uuid.UUID) (V, bool) {
	if row, ok := v.staged[id]; ok {
		return row, true
	}
	row, ok := v.base[id]
	return row, ok
}

func (v *view[V]) put(id uuid.UUID, row V) {
	v.staged[id] = row
}

func (v *view[V]) each(fn func(V)) {
	for id, row := range v.base {
		if _, ok := v.staged[id]; ok {
			continue
		}
		fn(row)
	}
	for _, row := range v.staged {
		fn(row)
	}
}

func (v *view[V]) commit() {
	for id, row := range v.staged {
		v.base[id] = row
	}
}
