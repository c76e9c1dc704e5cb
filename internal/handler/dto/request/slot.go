package request

import (
	"parking-engine/internal/domain/slot"
	"parking-engine/internal/usecase"
	"parking-engine/internal/usecase/shared"
)

type SlotSearchQuery struct {
	VehicleType string `form:"vehicle_type" binding:"omitempty,oneof=car bike truck"`
	SlotType    string `form:"slot_type" binding:"omitempty,oneof=regular covered ev_charging"`
	Floor       *int   `form:"floor" binding:"omitempty,min=0"`
}

func (q *SlotSearchQuery) ToQuery() shared.SlotQuery {
	var out shared.SlotQuery
	if q.VehicleType != "" {
		vt := slot.VehicleType(q.VehicleType)
		out.VehicleType = &vt
	}
	if q.SlotType != "" {
		st := slot.Type(q.SlotType)
		out.Type = &st
	}
	out.Floor = q.Floor
	return out
}

type RecommendQuery struct {
	VehicleType string `form:"vehicle_type" binding:"required,oneof=car bike truck"`
	Preference  string `form:"preference" binding:"omitempty,oneof=covered ev_charging cheapest"`
}

func (q *RecommendQuery) ToDomain() (slot.VehicleType, usecase.Preference) {
	return slot.VehicleType(q.VehicleType), usecase.Preference(q.Preference)
}

type SetMaintenanceRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}
