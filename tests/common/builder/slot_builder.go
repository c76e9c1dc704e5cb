//go:build unit || e2e

package builder

import (
	"time"

	"parking-engine/internal/domain/slot"
	reqdto "parking-engine/internal/handler/dto/request"

	"github.com/shopspring/decimal"
)

type SlotBuilder struct {
	Floor       int
	Section     string
	Position    int
	Type        slot.Type
	VehicleType slot.VehicleType
	Price       decimal.Decimal
	Status      slot.Status
	CreatedAt   time.Time
}

func NewSlotBuilder() *SlotBuilder {
	return &SlotBuilder{
		Floor:       1,
		Section:     "A",
		Position:    1,
		Type:        slot.TypeRegular,
		VehicleType: slot.VehicleTypeCar,
		Price:       decimal.NewFromInt(20),
		Status:      slot.StatusAvailable,
		CreatedAt:   time.Now(),
	}
}

func (s *SlotBuilder) With(mutate func(*SlotBuilder)) *SlotBuilder {
	mutate(s)
	return s
}

// Build methods
func (s *SlotBuilder) BuildDomain() (*slot.Slot, error) {
	built, err := slot.NewSlot(s.Floor, s.Section, s.Position, s.Type, s.VehicleType, s.Price, s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if s.Status != slot.StatusAvailable {
		built = built.WithStatus(s.Status, s.CreatedAt)
	}
	return built, nil
}

func (s *SlotBuilder) BuildMaintenanceRequestDTO(enabled bool) reqdto.SetMaintenanceRequest {
	return reqdto.SetMaintenanceRequest{Enabled: &enabled}
}
