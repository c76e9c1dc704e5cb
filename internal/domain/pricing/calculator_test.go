//go:build unit

package pricing_test

import (
	"testing"
	"time"

	"parking-engine/internal/domain/pricing"
	"parking-engine/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-01-01 is a Monday.
func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.January, day, hour, minute, 0, 0, time.UTC)
}

type expected struct {
	duration string
	base     string
	surge    string
	total    string
	peak     bool
	weekend  bool
	night    bool
	longStay bool
}

func TestCalculate(t *testing.T) {
	calc := pricing.NewDefaultCalculator()

	cases := []struct {
		name  string
		rate  int64
		entry time.Time
		exit  time.Time
		want  expected
	}{
		{
			name:  "weekday peak adds fifty percent",
			rate:  20,
			entry: at(1, 10, 0),
			exit:  at(1, 11, 30),
			want:  expected{duration: "1.50", base: "30.00", surge: "15.00", total: "45.00", peak: true},
		},
		{
			name:  "night overrides total with flat multiple of the rate",
			rate:  20,
			entry: at(1, 23, 0),
			exit:  at(2, 0, 30),
			want:  expected{duration: "1.50", base: "30.00", surge: "70.00", total: "100.00", night: true},
		},
		{
			name:  "long stay discount applies to the peak running total",
			rate:  10,
			entry: at(1, 9, 0),
			exit:  at(1, 15, 0),
			want:  expected{duration: "6.00", base: "60.00", surge: "21.00", total: "81.00", peak: true, longStay: true},
		},
		{
			// 08:00 is outside the [9,18) peak window, so only the discount fires.
			name:  "long stay starting before peak window gets discount only",
			rate:  10,
			entry: at(1, 8, 0),
			exit:  at(1, 14, 0),
			want:  expected{duration: "6.00", base: "60.00", surge: "-6.00", total: "54.00", longStay: true},
		},
		{
			name:  "stay under an hour bills one hour",
			rate:  20,
			entry: at(1, 7, 0),
			exit:  at(1, 7, 10),
			want:  expected{duration: "1.00", base: "20.00", surge: "0.00", total: "20.00"},
		},
		{
			name:  "zero length stay bills one hour",
			rate:  30,
			entry: at(1, 7, 0),
			exit:  at(1, 7, 0),
			want:  expected{duration: "1.00", base: "30.00", surge: "0.00", total: "30.00"},
		},
		{
			name:  "weekend peak surcharges are additive",
			rate:  20,
			entry: at(6, 10, 0),
			exit:  at(6, 12, 0),
			want:  expected{duration: "2.00", base: "40.00", surge: "32.00", total: "72.00", peak: true, weekend: true},
		},
		{
			name:  "weekend night replaces weekend surcharge",
			rate:  20,
			entry: at(6, 22, 30),
			exit:  at(6, 23, 30),
			want:  expected{duration: "1.00", base: "20.00", surge: "80.00", total: "100.00", weekend: true, night: true},
		},
		{
			name:  "long night stay is discounted from the flat night total",
			rate:  10,
			entry: at(1, 22, 0),
			exit:  at(2, 6, 0),
			want:  expected{duration: "8.00", base: "80.00", surge: "-35.00", total: "45.00", night: true, longStay: true},
		},
		{
			name:  "peak window end is exclusive",
			rate:  20,
			entry: at(1, 18, 0),
			exit:  at(1, 19, 0),
			want:  expected{duration: "1.00", base: "20.00", surge: "0.00", total: "20.00"},
		},
		{
			name:  "exactly five hours is not a long stay",
			rate:  10,
			entry: at(1, 6, 0),
			exit:  at(1, 11, 0),
			want:  expected{duration: "5.00", base: "50.00", surge: "0.00", total: "50.00"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := calc.Calculate(decimal.NewFromInt(tc.rate), tc.entry, tc.exit)
			require.NoError(t, err)

			assert.Equal(t, tc.want.duration, got.DurationHours.StringFixed(2))
			assert.Equal(t, tc.want.base, got.BaseAmount.StringFixed(2))
			assert.Equal(t, tc.want.surge, got.SurgeAmount.StringFixed(2))
			assert.Equal(t, tc.want.total, got.TotalAmount.StringFixed(2))
			assert.Equal(t, tc.want.peak, got.IsPeak)
			assert.Equal(t, tc.want.weekend, got.IsWeekend)
			assert.Equal(t, tc.want.night, got.IsNight)
			assert.Equal(t, tc.want.longStay, got.IsLongStay)
			assert.True(t, got.TotalAmount.GreaterThanOrEqual(got.BaseRate), "total is floored at one hour")
		})
	}
}

func TestCalculateIsDeterministic(t *testing.T) {
	calc := pricing.NewDefaultCalculator()
	rate := decimal.NewFromInt(20)

	first, err := calc.Calculate(rate, at(3, 12, 15), at(3, 16, 40))
	require.NoError(t, err)
	for range 5 {
		again, err := calc.Calculate(rate, at(3, 12, 15), at(3, 16, 40))
		require.NoError(t, err)
		assert.True(t, first.TotalAmount.Equal(again.TotalAmount))
		assert.True(t, first.SurgeAmount.Equal(again.SurgeAmount))
	}
}

func TestCalculateRejectsInvalidInput(t *testing.T) {
	calc := pricing.NewDefaultCalculator()

	_, err := calc.Calculate(decimal.Zero, at(1, 10, 0), at(1, 11, 0))
	assert.Equal(t, errs.KindInvalidInput, errs.KindOf(err))

	_, err = calc.Calculate(decimal.NewFromInt(10), at(1, 11, 0), at(1, 10, 0))
	assert.Equal(t, errs.KindInvalidInput, errs.KindOf(err))
}

func TestRulesAreConfigurable(t *testing.T) {
	rules := pricing.DefaultRules()
	rules.PeakPercent = decimal.NewFromInt(100)
	rules.Location = time.FixedZone("UTC+9", 9*60*60)

	calc, err := pricing.NewCalculator(rules)
	require.NoError(t, err)

	// 01:00 UTC is 10:00 in UTC+9, inside the peak window.
	got, err := calc.Calculate(decimal.NewFromInt(10), at(1, 1, 0), at(1, 2, 0))
	require.NoError(t, err)
	assert.True(t, got.IsPeak)
	assert.Equal(t, "20.00", got.TotalAmount.StringFixed(2))

	rules.NightMultiplier = decimal.Zero
	_, err = pricing.NewCalculator(rules)
	assert.True(t, errs.Is(err, pricing.ErrInvalidRules))
}
