package shared

import (
	"parking-engine/internal/domain/slot"
)

// SlotQuery filters slot listings; nil fields match everything.
type SlotQuery struct {
	Status      *slot.Status
	VehicleType *slot.VehicleType
	Floor       *int
	Type        *slot.Type
}

func (q SlotQuery) Matches(s *slot.Slot) bool {
	if q.Status != nil && s.Status() != *q.Status {
		return false
	}
	if q.VehicleType != nil && s.VehicleType() != *q.VehicleType {
		return false
	}
	if q.Floor != nil && s.Floor() != *q.Floor {
		return false
	}
	if q.Type != nil && s.Type() != *q.Type {
		return false
	}
	return true
}
