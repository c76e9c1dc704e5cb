package memstore

import (
	"context"
	"slices"
	"strings"

	"parking-engine/internal/domain/vehicle"
	"parking-engine/internal/infra"

	"github.com/google/uuid"
)

type vehicleRepo struct {
	tx *memTx
}

func (r *vehicleRepo) Create(_ context.Context, v *vehicle.Vehicle) error {
	if err := r.tx.writable("create vehicle"); err != nil {
		return err
	}
	taken := false
	r.tx.vehicles.each(func(existing *vehicle.Vehicle) {
		if existing.Plate() == v.Plate() {
			taken = true
		}
	})
	if taken {
		return r.tx.duplicate(infra.ConstraintVehiclePlate, "plate "+v.Plate()+" already registered")
	}
	r.tx.vehicles.put(v.ID(), v)
	return nil
}

func (r *vehicleRepo) FindByID(_ context.Context, id uuid.UUID) (*vehicle.Vehicle, error) {
	v, ok := r.tx.vehicles.get(id)
	if !ok {
		return nil, r.tx.notFound("vehicle not found")
	}
	return v, nil
}

func (r *vehicleRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*vehicle.Vehicle, error) {
	var out []*vehicle.Vehicle
	r.tx.vehicles.each(func(v *vehicle.Vehicle) {
		if v.OwnedBy(userID) {
			out = append(out, v)
		}
	})
	slices.SortFunc(out, func(a, b *vehicle.Vehicle) int {
		if c := a.CreatedAt().Compare(b.CreatedAt()); c != 0 {
			return c
		}
		return strings.Compare(a.Plate(), b.Plate())
	})
	return out, nil
}
