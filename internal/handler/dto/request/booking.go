package request

import (
	"parking-engine/internal/usecase"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	VehicleID uuid.UUID `json:"vehicle_id" binding:"required"`
	SlotID    uuid.UUID `json:"slot_id" binding:"required"`
}

func (r *CreateBookingRequest) ToParams(userID uuid.UUID) usecase.CreateBookingParams {
	return usecase.CreateBookingParams{
		UserID:    userID,
		VehicleID: r.VehicleID,
		SlotID:    r.SlotID,
	}
}
