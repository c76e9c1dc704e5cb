package response

import "parking-engine/internal/domain/vehicle"

type VehicleResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	VehicleType string `json:"vehicle_type"`
	Plate       string `json:"plate"`
	CreatedAt   int64  `json:"created_at"`
}

func FromVehicle(v *vehicle.Vehicle) *VehicleResponse {
	return &VehicleResponse{
		ID:          v.ID().String(),
		UserID:      v.UserID().String(),
		VehicleType: v.VehicleType().String(),
		Plate:       v.Plate(),
		CreatedAt:   v.CreatedAt().Unix(),
	}
}

func FromVehicles(vs []*vehicle.Vehicle) []*VehicleResponse {
	res := make([]*VehicleResponse, len(vs))
	for i, v := range vs {
		res[i] = FromVehicle(v)
	}
	return res
}
