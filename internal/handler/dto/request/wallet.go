package request

import (
	"parking-engine/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// TopUpRequest carries the amount as a decimal string to avoid float rounding.
type TopUpRequest struct {
	Amount string `json:"amount" binding:"required,max=20"`
}

func (r *TopUpRequest) ToDomain() (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return decimal.Zero, errs.Reason(errs.ErrInvalidInput, "amount %q is not a number", r.Amount)
	}
	return amount, nil
}
