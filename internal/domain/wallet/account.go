package wallet

import (
	"time"

	"parking-engine/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Account struct {
	userID        uuid.UUID
	balance       decimal.Decimal
	loyaltyPoints int64
	createdAt     time.Time
	updatedAt     time.Time
}

func NewAccount(userID uuid.UUID, now time.Time) (*Account, error) {
	if userID == uuid.Nil {
		return nil, errs.Reason(errs.ErrInvalidInput, "wallet owner is required")
	}
	return &Account{
		userID:    userID,
		balance:   decimal.Zero,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructAccount(userID uuid.UUID, balance decimal.Decimal, loyaltyPoints int64, createdAt, updatedAt time.Time) *Account {
	return &Account{
		userID:        userID,
		balance:       balance,
		loyaltyPoints: loyaltyPoints,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (a *Account) Clone() *Account {
	cp := *a
	return &cp
}

// Debit withdraws amount, refusing to take the balance below zero.
func (a *Account) Debit(amount decimal.Decimal, now time.Time) error {
	if amount.IsNegative() {
		return errs.Reason(errs.ErrInvalidInput, "debit amount must not be negative")
	}
	if a.balance.LessThan(amount) {
		return errs.Reason(errs.ErrInsufficientFunds, "balance %s is less than %s", a.balance.StringFixed(2), amount.StringFixed(2))
	}
	a.balance = a.balance.Sub(amount)
	a.updatedAt = now
	return nil
}

func (a *Account) Credit(amount decimal.Decimal, now time.Time) error {
	if amount.IsNegative() {
		return errs.Reason(errs.ErrInvalidInput, "credit amount must not be negative")
	}
	a.balance = a.balance.Add(amount)
	a.updatedAt = now
	return nil
}

func (a *Account) AddLoyalty(points int64, now time.Time) error {
	if points < 0 {
		return errs.Reason(errs.ErrInvalidInput, "loyalty points must not be negative")
	}
	a.loyaltyPoints += points
	a.updatedAt = now
	return nil
}

// CanCover reports whether the balance covers amount.
func (a *Account) CanCover(amount decimal.Decimal) bool {
	return a.balance.GreaterThanOrEqual(amount)
}

func (a *Account) UserID() uuid.UUID        { return a.userID }
func (a *Account) Balance() decimal.Decimal { return a.balance }
func (a *Account) LoyaltyPoints() int64     { return a.loyaltyPoints }
func (a *Account) CreatedAt() time.Time     { return a.createdAt }
func (a *Account) UpdatedAt() time.Time     { return a.updatedAt }

// LoyaltyPoints converts a settled amount into points: one point per divisor
// currency units, rounded down.
func LoyaltyPoints(amount, divisor decimal.Decimal) int64 {
	if !divisor.IsPositive() || !amount.IsPositive() {
		return 0
	}
	return amount.Div(divisor).Floor().IntPart()
}
