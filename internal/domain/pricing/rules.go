package pricing

import (
	"time"

	"parking-engine/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var ErrInvalidRules = errs.New("invalid pricing rules")

// Rules parameterizes the surcharge and discount policy. Hours are evaluated in
// Location.
type Rules struct {
	PeakPercent             decimal.Decimal
	WeekendPercent          decimal.Decimal
	NightMultiplier         decimal.Decimal
	LongStayHours           decimal.Decimal
	LongStayDiscountPercent decimal.Decimal
	PeakStartHour           int
	PeakEndHour             int
	NightStartHour          int
	NightEndHour            int
	Location                *time.Location
}

func DefaultRules() Rules {
	return Rules{
		PeakPercent:             decimal.NewFromInt(50),
		WeekendPercent:          decimal.NewFromInt(30),
		NightMultiplier:         decimal.NewFromInt(5),
		LongStayHours:           decimal.NewFromInt(5),
		LongStayDiscountPercent: decimal.NewFromInt(10),
		PeakStartHour:           9,
		PeakEndHour:             18,
		NightStartHour:          22,
		NightEndHour:            6,
		Location:                time.UTC,
	}
}

func (r Rules) Validate() error {
	for _, h := range []int{r.PeakStartHour, r.PeakEndHour, r.NightStartHour, r.NightEndHour} {
		if h < 0 || h > 24 {
			return errs.Reason(ErrInvalidRules, "hour %d is outside 0-24", h)
		}
	}
	if r.PeakPercent.IsNegative() || r.WeekendPercent.IsNegative() {
		return errs.Reason(ErrInvalidRules, "surcharge percentages must not be negative")
	}
	if !r.NightMultiplier.IsPositive() {
		return errs.Reason(ErrInvalidRules, "night multiplier must be positive")
	}
	if r.LongStayDiscountPercent.IsNegative() || r.LongStayDiscountPercent.GreaterThan(hundred) {
		return errs.Reason(ErrInvalidRules, "long stay discount must be within 0-100")
	}
	return nil
}

func (r Rules) location() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}

func (r Rules) isPeak(t time.Time) bool {
	h := t.In(r.location()).Hour()
	return h >= r.PeakStartHour && h < r.PeakEndHour
}

func (r Rules) isWeekend(t time.Time) bool {
	switch t.In(r.location()).Weekday() {
	case time.Saturday, time.Sunday:
		return true
	default:
		return false
	}
}

// the night window wraps midnight when it starts later than it ends
func (r Rules) isNight(t time.Time) bool {
	h := t.In(r.location()).Hour()
	if r.NightStartHour > r.NightEndHour {
		return h >= r.NightStartHour || h < r.NightEndHour
	}
	return h >= r.NightStartHour && h < r.NightEndHour
}
