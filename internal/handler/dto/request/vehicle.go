package request

import "parking-engine/internal/domain/slot"

type RegisterVehicleRequest struct {
	VehicleType string `json:"vehicle_type" binding:"required,oneof=car bike truck"`
	Plate       string `json:"plate" binding:"required,max=20"`
}

func (r *RegisterVehicleRequest) ToDomain() (slot.VehicleType, string) {
	return slot.VehicleType(r.VehicleType), r.Plate
}
