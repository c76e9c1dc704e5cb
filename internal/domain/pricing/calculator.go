package pricing

import (
	"time"

	"parking-engine/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
	hour    = decimal.NewFromInt(int64(time.Hour))
)

// Breakdown is the itemized charge for a single stay.
type Breakdown struct {
	BaseRate      decimal.Decimal
	DurationHours decimal.Decimal
	BaseAmount    decimal.Decimal
	SurgeAmount   decimal.Decimal
	Discount      decimal.Decimal
	TotalAmount   decimal.Decimal
	IsPeak        bool
	IsWeekend     bool
	IsNight       bool
	IsLongStay    bool
}

type Calculator struct {
	rules Rules
}

func NewCalculator(rules Rules) (*Calculator, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{rules: rules}, nil
}

func NewDefaultCalculator() *Calculator {
	return &Calculator{rules: DefaultRules()}
}

func (c *Calculator) Rules() Rules { return c.rules }

// Calculate prices a stay from entry to exit at baseRate per hour.
//
// Stays shorter than an hour bill as one hour. Peak and weekend surcharges add
// to the base amount. The night rule replaces the running total with a flat
// multiple of the rate, and the long stay discount applies to whatever total
// the earlier rules produced; both recompute surge as total minus base rather
// than stacking on the earlier surcharges. The total never drops below one
// hour at baseRate.
func (c *Calculator) Calculate(baseRate decimal.Decimal, entry, exit time.Time) (Breakdown, error) {
	if !baseRate.IsPositive() {
		return Breakdown{}, errs.Reason(errs.ErrInvalidInput, "base rate must be positive, got %s", baseRate)
	}
	if exit.Before(entry) {
		return Breakdown{}, errs.Reason(errs.ErrInvalidInput, "exit %s is before entry %s", exit.Format(time.RFC3339), entry.Format(time.RFC3339))
	}

	duration := decimal.NewFromInt(int64(exit.Sub(entry))).Div(hour)
	if duration.LessThan(one) {
		duration = one
	}

	b := Breakdown{
		BaseRate:      baseRate,
		DurationHours: duration,
		IsPeak:        c.rules.isPeak(entry),
		IsWeekend:     c.rules.isWeekend(entry),
		IsNight:       c.rules.isNight(entry),
		IsLongStay:    duration.GreaterThan(c.rules.LongStayHours),
	}

	base := baseRate.Mul(duration)
	total := base
	surge := decimal.Zero

	if b.IsPeak {
		charge := base.Mul(c.rules.PeakPercent).Div(hundred)
		total = total.Add(charge)
		surge = surge.Add(charge)
	}
	if b.IsWeekend {
		charge := base.Mul(c.rules.WeekendPercent).Div(hundred)
		total = total.Add(charge)
		surge = surge.Add(charge)
	}
	if b.IsNight {
		total = baseRate.Mul(c.rules.NightMultiplier)
		surge = total.Sub(base)
	}
	discount := decimal.Zero
	if b.IsLongStay {
		discount = total.Mul(c.rules.LongStayDiscountPercent).Div(hundred)
		total = total.Sub(discount)
		surge = total.Sub(base)
	}
	if total.LessThan(baseRate) {
		total = baseRate
	}

	b.DurationHours = duration.Round(2)
	b.BaseAmount = base.Round(2)
	b.SurgeAmount = surge.Round(2)
	b.Discount = discount.Round(2)
	b.TotalAmount = total.Round(2)
	return b, nil
}

// Estimate is the charge for a fixed number of hours at baseRate with no
// surcharges, used for balance checks and prepayment.
func Estimate(baseRate, hours decimal.Decimal) decimal.Decimal {
	return baseRate.Mul(hours).Round(2)
}
