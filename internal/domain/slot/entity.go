package slot

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"parking-engine/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidSlot = errs.New("invalid slot attributes")
)

type Slot struct {
	id           uuid.UUID
	number       string
	floor        int
	section      string
	slotType     Type
	vehicleType  VehicleType
	pricePerHour decimal.Decimal
	status       Status
	createdAt    time.Time
	updatedAt    time.Time
}

// Number formats the presentable slot number, e.g. "A-101" for section A,
// floor 1, position 1.
func Number(section string, floor, position int) string {
	return fmt.Sprintf("%s-%d%02d", section, floor, position)
}

func NewSlot(floor int, section string, position int, slotType Type, vehicleType VehicleType, pricePerHour decimal.Decimal, now time.Time) (*Slot, error) {
	section = strings.ToUpper(strings.TrimSpace(section))
	if floor < 0 || section == "" || position <= 0 {
		return nil, errs.Reason(ErrInvalidSlot, "slot location floor=%d section=%q position=%d is invalid", floor, section, position)
	}
	if !slotType.IsValid() {
		return nil, errs.Reason(ErrInvalidSlot, "unknown slot type %q", slotType)
	}
	if !vehicleType.IsValid() {
		return nil, errs.Reason(ErrInvalidSlot, "unknown vehicle type %q", vehicleType)
	}
	if !pricePerHour.IsPositive() {
		return nil, errs.Reason(ErrInvalidSlot, "price per hour must be positive, got %s", pricePerHour)
	}
	return &Slot{
		id:           uuid.New(),
		number:       Number(section, floor, position),
		floor:        floor,
		section:      section,
		slotType:     slotType,
		vehicleType:  vehicleType,
		pricePerHour: pricePerHour,
		status:       StatusAvailable,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func ReconstructSlot(
	id uuid.UUID,
	number string,
	floor int,
	section string,
	slotType Type,
	vehicleType VehicleType,
	pricePerHour decimal.Decimal,
	status Status,
	createdAt, updatedAt time.Time,
) *Slot {
	return &Slot{
		id:           id,
		number:       number,
		floor:        floor,
		section:      section,
		slotType:     slotType,
		vehicleType:  vehicleType,
		pricePerHour: pricePerHour,
		status:       status,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// WithStatus returns a copy carrying the new status; persistence decides
// whether the change is allowed.
func (s *Slot) WithStatus(status Status, now time.Time) *Slot {
	cp := *s
	cp.status = status
	cp.updatedAt = now
	return &cp
}

func (s *Slot) Accepts(v VehicleType) bool {
	return s.vehicleType == v
}

func (s *Slot) IsAvailable() bool {
	return s.status == StatusAvailable
}

func (s *Slot) ID() uuid.UUID                 { return s.id }
func (s *Slot) Number() string                { return s.number }
func (s *Slot) Floor() int                    { return s.floor }
func (s *Slot) Section() string               { return s.section }
func (s *Slot) Type() Type                    { return s.slotType }
func (s *Slot) VehicleType() VehicleType      { return s.vehicleType }
func (s *Slot) PricePerHour() decimal.Decimal { return s.pricePerHour }
func (s *Slot) Status() Status                { return s.status }
func (s *Slot) CreatedAt() time.Time          { return s.createdAt }
func (s *Slot) UpdatedAt() time.Time          { return s.updatedAt }

// Less orders slots by floor, section, then slot number.
func Less(a, b *Slot) bool {
	if a.floor != b.floor {
		return a.floor < b.floor
	}
	if a.section != b.section {
		return a.section < b.section
	}
	return a.number < b.number
}

// Stats aggregates slot counts by status.
type Stats struct {
	Total       int
	Available   int
	Reserved    int
	Occupied    int
	Maintenance int
	Floors      []FloorStats
}

type FloorStats struct {
	Floor     int
	Total     int
	Available int
	Reserved  int
	Occupied  int
}

// OccupancyPercent counts reserved and occupied slots against the total.
func (f FloorStats) OccupancyPercent() float64 {
	if f.Total == 0 {
		return 0
	}
	return float64(f.Reserved+f.Occupied) * 100 / float64(f.Total)
}

// Summarize computes Stats over the given slots.
func Summarize(slots []*Slot) Stats {
	var st Stats
	floors := map[int]*FloorStats{}
	var order []int
	for _, s := range slots {
		st.Total++
		fs, ok := floors[s.floor]
		if !ok {
			fs = &FloorStats{Floor: s.floor}
			floors[s.floor] = fs
			order = append(order, s.floor)
		}
		fs.Total++
		switch s.status {
		case StatusAvailable:
			st.Available++
			fs.Available++
		case StatusReserved:
			st.Reserved++
			fs.Reserved++
		case StatusOccupied:
			st.Occupied++
			fs.Occupied++
		case StatusMaintenance:
			st.Maintenance++
		}
	}
	slices.Sort(order)
	for _, f := range order {
		st.Floors = append(st.Floors, *floors[f])
	}
	return st
}

