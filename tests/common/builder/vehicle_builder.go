//go:build unit || e2e

package builder

import (
	"time"

	"parking-engine/internal/domain/slot"
	"parking-engine/internal/domain/vehicle"
	reqdto "parking-engine/internal/handler/dto/request"

	"github.com/google/uuid"
)

type VehicleBuilder struct {
	UserID      uuid.UUID
	VehicleType slot.VehicleType
	Plate       string
	CreatedAt   time.Time
}

func NewVehicleBuilder() *VehicleBuilder {
	return &VehicleBuilder{
		UserID:      uuid.New(),
		VehicleType: slot.VehicleTypeCar,
		Plate:       "KA01AB" + uuid.NewString()[:4],
		CreatedAt:   time.Now(),
	}
}

func (v *VehicleBuilder) With(mutate func(*VehicleBuilder)) *VehicleBuilder {
	mutate(v)
	return v
}

// Build methods
func (v *VehicleBuilder) BuildDomain() (*vehicle.Vehicle, error) {
	return vehicle.NewVehicle(v.UserID, v.VehicleType, v.Plate, v.CreatedAt)
}

func (v *VehicleBuilder) BuildRegisterRequestDTO() reqdto.RegisterVehicleRequest {
	return reqdto.RegisterVehicleRequest{
		VehicleType: v.VehicleType.String(),
		Plate:       v.Plate,
	}
}
