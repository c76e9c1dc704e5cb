package usecase

import (
	"context"
	"log/slog"

	"parking-engine/internal/domain/slot"
	"parking-engine/internal/pkg/clock"
	"parking-engine/internal/pkg/errs"
	"parking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type Preference string

const (
	PreferenceAny      Preference = ""
	PreferenceCovered  Preference = "covered"
	PreferenceEV       Preference = "ev_charging"
	PreferenceCheapest Preference = "cheapest"
)

func (p Preference) IsValid() bool {
	switch p {
	case PreferenceAny, PreferenceCovered, PreferenceEV, PreferenceCheapest:
		return true
	default:
		return false
	}
}

// SlotRegistry owns slot status. Claim, Occupy and Release run inside the
// caller's transaction so they commit or roll back with the booking change.
type SlotRegistry interface {
	FindAvailable(ctx context.Context, q shared.SlotQuery) ([]*slot.Slot, error)
	Get(ctx context.Context, id uuid.UUID) (*slot.Slot, error)
	Claim(ctx context.Context, tx shared.Tx, slotID uuid.UUID, to slot.Status) error
	Occupy(ctx context.Context, tx shared.Tx, slotID uuid.UUID) error
	Release(ctx context.Context, tx shared.Tx, slotID uuid.UUID) error
	Stats(ctx context.Context) (slot.Stats, error)
	Initialize(ctx context.Context, layout slot.Layout) (int, error)
	SetMaintenance(ctx context.Context, slotID uuid.UUID, enabled bool) (*slot.Slot, error)
	Recommend(ctx context.Context, vehicleType slot.VehicleType, pref Preference) (*slot.Slot, error)
}

type slotRegistryImpl struct {
	uow    shared.UnitOfWork
	clock  clock.Clock
	logger *slog.Logger
}

func NewSlotRegistry(uow shared.UnitOfWork, clk clock.Clock, logger *slog.Logger) SlotRegistry {
	return &slotRegistryImpl{
		uow:    uow,
		clock:  clk,
		logger: logger,
	}
}

func (r *slotRegistryImpl) FindAvailable(ctx context.Context, q shared.SlotQuery) ([]*slot.Slot, error) {
	available := slot.StatusAvailable
	q.Status = &available

	var slots []*slot.Slot
	err := r.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		slots, err = tx.Slots().List(ctx, q)
		return err
	})
	if err != nil {
		return nil, dbFailure(err)
	}
	return slots, nil
}

func (r *slotRegistryImpl) Get(ctx context.Context, id uuid.UUID) (*slot.Slot, error) {
	var s *slot.Slot
	err := r.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		s, err = tx.Slots().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, translateNotFound(err, errs.ErrSlotNotFound, "slot %s not found", id)
	}
	return s, nil
}

func (r *slotRegistryImpl) Claim(ctx context.Context, tx shared.Tx, slotID uuid.UUID, to slot.Status) error {
	if !to.IsClaimed() {
		return errs.Reason(errs.ErrInvalidInput, "slot can only be claimed as reserved or occupied, got %q", to)
	}
	return r.compareAndSet(ctx, tx, slotID, []slot.Status{slot.StatusAvailable}, to)
}

// Occupy moves a reserved slot to occupied at check-in.
func (r *slotRegistryImpl) Occupy(ctx context.Context, tx shared.Tx, slotID uuid.UUID) error {
	return r.compareAndSet(ctx, tx, slotID, []slot.Status{slot.StatusReserved}, slot.StatusOccupied)
}

func (r *slotRegistryImpl) compareAndSet(ctx context.Context, tx shared.Tx, slotID uuid.UUID, from []slot.Status, to slot.Status) error {
	ok, err := tx.Slots().CompareAndSetStatus(ctx, slotID, from, to, r.clock.Now())
	if err != nil {
		return translateNotFound(err, errs.ErrSlotNotFound, "slot %s not found", slotID)
	}
	if !ok {
		return errs.Reason(errs.ErrSlotUnavailable, "slot %s is not %s", slotID, from[0])
	}
	return nil
}

// Release frees a claimed slot. Releasing a slot that is already free is a no-op.
func (r *slotRegistryImpl) Release(ctx context.Context, tx shared.Tx, slotID uuid.UUID) error {
	ok, err := tx.Slots().CompareAndSetStatus(ctx, slotID,
		[]slot.Status{slot.StatusReserved, slot.StatusOccupied}, slot.StatusAvailable, r.clock.Now())
	if err != nil {
		return translateNotFound(err, errs.ErrSlotNotFound, "slot %s not found", slotID)
	}
	if !ok {
		r.logger.Debug("slot already released", slog.String("slot_id", slotID.String()))
	}
	return nil
}

func (r *slotRegistryImpl) Stats(ctx context.Context) (slot.Stats, error) {
	var slots []*slot.Slot
	err := r.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		slots, err = tx.Slots().List(ctx, shared.SlotQuery{})
		return err
	})
	if err != nil {
		return slot.Stats{}, dbFailure(err)
	}
	return slot.Summarize(slots), nil
}

// Initialize seeds the parking structure. Slots whose number already exists
// are left untouched, so seeding twice is harmless. It returns the number of
// slots created.
func (r *slotRegistryImpl) Initialize(ctx context.Context, layout slot.Layout) (int, error) {
	slots, err := layout.Build(r.clock.Now())
	if err != nil {
		return 0, errs.Reason(errs.ErrInvalidInput, "%s", err.Error())
	}

	var created int
	err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		created = 0
		existing, err := tx.Slots().List(ctx, shared.SlotQuery{})
		if err != nil {
			return err
		}
		taken := make(map[string]struct{}, len(existing))
		for _, s := range existing {
			taken[s.Number()] = struct{}{}
		}
		for _, s := range slots {
			if _, ok := taken[s.Number()]; ok {
				continue
			}
			if err := tx.Slots().Create(ctx, s); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, dbFailure(err)
	}

	r.logger.Info("parking structure initialized",
		slog.Int("created", created),
		slog.Int("layout_size", len(slots)))
	return created, nil
}

// SetMaintenance toggles a slot between available and maintenance. Claimed
// slots cannot be taken out of service.
func (r *slotRegistryImpl) SetMaintenance(ctx context.Context, slotID uuid.UUID, enabled bool) (*slot.Slot, error) {
	from, to := slot.StatusAvailable, slot.StatusMaintenance
	if !enabled {
		from, to = to, from
	}

	var updated *slot.Slot
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, err := tx.Slots().FindByID(ctx, slotID)
		if err != nil {
			return translateNotFound(err, errs.ErrSlotNotFound, "slot %s not found", slotID)
		}
		if current.Status() == to {
			updated = current
			return nil
		}
		if err := r.compareAndSet(ctx, tx, slotID, []slot.Status{from}, to); err != nil {
			return errs.Reason(errs.ErrSlotUnavailable, "slot %s is %s", current.Number(), current.Status())
		}
		updated, err = tx.Slots().FindByID(ctx, slotID)
		return err
	})
	if err != nil {
		return nil, dbFailure(err)
	}
	return updated, nil
}

// Recommend picks one available slot for the vehicle type, honouring the
// preference when a matching slot exists and falling back to the first slot
// in registry order otherwise.
func (r *slotRegistryImpl) Recommend(ctx context.Context, vehicleType slot.VehicleType, pref Preference) (*slot.Slot, error) {
	if !vehicleType.IsValid() {
		return nil, errs.Reason(errs.ErrInvalidInput, "unknown vehicle type %q", vehicleType)
	}
	if !pref.IsValid() {
		return nil, errs.Reason(errs.ErrInvalidInput, "unknown preference %q", pref)
	}

	candidates, err := r.FindAvailable(ctx, shared.SlotQuery{VehicleType: &vehicleType})
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, errs.Reason(errs.ErrSlotUnavailable, "no available slot for %s", vehicleType)
	}

	switch pref {
	case PreferenceCovered:
		if s := firstOfType(candidates, slot.TypeCovered); s != nil {
			return s, nil
		}
	case PreferenceEV:
		if s := firstOfType(candidates, slot.TypeEVCharging); s != nil {
			return s, nil
		}
	case PreferenceCheapest:
		best := candidates[0]
		for _, s := range candidates[1:] {
			if s.PricePerHour().LessThan(best.PricePerHour()) {
				best = s
			}
		}
		return best, nil
	}
	// candidates are ordered by floor first, so the default is also the lowest floor
	return candidates[0], nil
}

func firstOfType(slots []*slot.Slot, t slot.Type) *slot.Slot {
	for _, s := range slots {
		if s.Type() == t {
			return s
		}
	}
	return nil
}
