package slot

import (
	"time"

	"parking-engine/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var ErrInvalidLayout = errs.New("invalid parking layout")

// PositionRule describes the slot at one position within every section.
type PositionRule struct {
	Position    int
	VehicleType VehicleType
	Type        Type
}

// Layout describes a parking structure of Floors × Sections × positions.
type Layout struct {
	Floors      int
	Sections    []string
	Positions   []PositionRule
	Rates       map[VehicleType]decimal.Decimal
	Multipliers map[Type]decimal.Decimal
}

// DefaultLayout is three floors of three sections with ten positions each:
// 1-6 cars, 7-8 bikes, 9-10 trucks; position 2 is covered and 3 has EV charging.
func DefaultLayout() Layout {
	positions := make([]PositionRule, 0, 10)
	for n := 1; n <= 10; n++ {
		r := PositionRule{Position: n, VehicleType: VehicleTypeCar, Type: TypeRegular}
		switch {
		case n > 8:
			r.VehicleType = VehicleTypeTruck
		case n > 6:
			r.VehicleType = VehicleTypeBike
		}
		switch n {
		case 2:
			r.Type = TypeCovered
		case 3:
			r.Type = TypeEVCharging
		}
		positions = append(positions, r)
	}
	return Layout{
		Floors:    3,
		Sections:  []string{"A", "B", "C"},
		Positions: positions,
		Rates: map[VehicleType]decimal.Decimal{
			VehicleTypeCar:   decimal.NewFromInt(20),
			VehicleTypeBike:  decimal.NewFromInt(10),
			VehicleTypeTruck: decimal.NewFromInt(30),
		},
		Multipliers: map[Type]decimal.Decimal{
			TypeRegular:    decimal.NewFromInt(1),
			TypeCovered:    decimal.RequireFromString("1.2"),
			TypeEVCharging: decimal.RequireFromString("1.5"),
		},
	}
}

// Build materializes every slot of the layout, all available.
func (l Layout) Build(now time.Time) ([]*Slot, error) {
	if l.Floors <= 0 || len(l.Sections) == 0 || len(l.Positions) == 0 {
		return nil, errs.Reason(ErrInvalidLayout, "layout needs floors, sections and positions")
	}
	slots := make([]*Slot, 0, l.Floors*len(l.Sections)*len(l.Positions))
	for floor := 1; floor <= l.Floors; floor++ {
		for _, section := range l.Sections {
			for _, p := range l.Positions {
				rate, ok := l.Rates[p.VehicleType]
				if !ok {
					return nil, errs.Reason(ErrInvalidLayout, "no rate for vehicle type %q", p.VehicleType)
				}
				if m, ok := l.Multipliers[p.Type]; ok {
					rate = rate.Mul(m).Round(2)
				}
				s, err := NewSlot(floor, section, p.Position, p.Type, p.VehicleType, rate, now)
				if err != nil {
					return nil, err
				}
				slots = append(slots, s)
			}
		}
	}
	return slots, nil
}
