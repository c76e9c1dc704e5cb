package memstore

import (
	"context"
	"slices"
	"time"

	"parking-engine/internal/domain/slot"
	"parking-engine/internal/infra"
	"parking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type slotRepo struct {
	tx *memTx
}

func (r *slotRepo) Create(_ context.Context, s *slot.Slot) error {
	if err := r.tx.writable("create slot"); err != nil {
		return err
	}
	if _, ok := r.tx.slots.get(s.ID()); ok {
		return r.tx.duplicate(infra.ConstraintSlotNumber, "slot already exists")
	}
	taken := false
	r.tx.slots.each(func(existing *slot.Slot) {
		if existing.Number() == s.Number() {
			taken = true
		}
	})
	if taken {
		return r.tx.duplicate(infra.ConstraintSlotNumber, "slot number "+s.Number()+" already exists")
	}
	r.tx.slots.put(s.ID(), s)
	return nil
}

func (r *slotRepo) FindByID(_ context.Context, id uuid.UUID) (*slot.Slot, error) {
	s, ok := r.tx.slots.get(id)
	if !ok {
		return nil, r.tx.notFound("slot not found")
	}
	return s, nil
}

func (r *slotRepo) List(_ context.Context, q shared.SlotQuery) ([]*slot.Slot, error) {
	var out []*slot.Slot
	r.tx.slots.each(func(s *slot.Slot) {
		if q.Matches(s) {
			out = append(out, s)
		}
	})
	slices.SortFunc(out, func(a, b *slot.Slot) int {
		switch {
		case slot.Less(a, b):
			return -1
		case slot.Less(b, a):
			return 1
		default:
			return 0
		}
	})
	return out, nil
}

func (r *slotRepo) CompareAndSetStatus(_ context.Context, id uuid.UUID, from []slot.Status, to slot.Status, now time.Time) (bool, error) {
	if err := r.tx.writable("update slot status"); err != nil {
		return false, err
	}
	s, ok := r.tx.slots.get(id)
	if !ok {
		return false, r.tx.notFound("slot not found")
	}
	if !slices.Contains(from, s.Status()) {
		return false, nil
	}
	r.tx.slots.put(id, s.WithStatus(to, now))
	return true, nil
}

func (r *slotRepo) Count(_ context.Context) (int, error) {
	n := 0
	r.tx.slots.each(func(*slot.Slot) { n++ })
	return n, nil
}
