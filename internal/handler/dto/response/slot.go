package response

import "parking-engine/internal/domain/slot"

type SlotResponse struct {
	ID           string `json:"id"`
	SlotNumber   string `json:"slot_number"`
	Floor        int    `json:"floor"`
	Section      string `json:"section"`
	SlotType     string `json:"slot_type"`
	VehicleType  string `json:"vehicle_type"`
	PricePerHour string `json:"price_per_hour"`
	Status       string `json:"status"`
}

func FromSlot(s *slot.Slot) *SlotResponse {
	return &SlotResponse{
		ID:           s.ID().String(),
		SlotNumber:   s.Number(),
		Floor:        s.Floor(),
		Section:      s.Section(),
		SlotType:     s.Type().String(),
		VehicleType:  s.VehicleType().String(),
		PricePerHour: s.PricePerHour().StringFixed(2),
		Status:       s.Status().String(),
	}
}

func FromSlots(slots []*slot.Slot) []*SlotResponse {
	res := make([]*SlotResponse, len(slots))
	for i, s := range slots {
		res[i] = FromSlot(s)
	}
	return res
}

type FloorStatsResponse struct {
	Floor            int     `json:"floor"`
	Total            int     `json:"total"`
	Available        int     `json:"available"`
	Reserved         int     `json:"reserved"`
	Occupied         int     `json:"occupied"`
	OccupancyPercent float64 `json:"occupancy_percent"`
}

type SlotStatsResponse struct {
	Total       int                   `json:"total"`
	Available   int                   `json:"available"`
	Reserved    int                   `json:"reserved"`
	Occupied    int                   `json:"occupied"`
	Maintenance int                   `json:"maintenance"`
	Floors      []*FloorStatsResponse `json:"floors"`
}

func FromSlotStats(st slot.Stats) *SlotStatsResponse {
	floors := make([]*FloorStatsResponse, len(st.Floors))
	for i, f := range st.Floors {
		floors[i] = &FloorStatsResponse{
			Floor:            f.Floor,
			Total:            f.Total,
			Available:        f.Available,
			Reserved:         f.Reserved,
			Occupied:         f.Occupied,
			OccupancyPercent: f.OccupancyPercent(),
		}
	}
	return &SlotStatsResponse{
		Total:       st.Total,
		Available:   st.Available,
		Reserved:    st.Reserved,
		Occupied:    st.Occupied,
		Maintenance: st.Maintenance,
		Floors:      floors,
	}
}
