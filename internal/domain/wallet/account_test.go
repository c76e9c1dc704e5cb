//go:build unit

package wallet_test

import (
	"regexp"
	"testing"
	"time"

	"parking-engine/internal/domain/wallet"
	"parking-engine/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccount(t *testing.T) {
	now := time.Now()

	t.Run("debit never takes balance below zero", func(t *testing.T) {
		acct, err := wallet.NewAccount(uuid.New(), now)
		require.NoError(t, err)
		require.NoError(t, acct.Credit(decimal.NewFromInt(50), now))

		require.NoError(t, acct.Debit(decimal.NewFromInt(50), now))
		assert.True(t, acct.Balance().IsZero())

		err = acct.Debit(decimal.RequireFromString("0.01"), now)
		assert.Equal(t, errs.KindInsufficientFunds, errs.KindOf(err))
		assert.True(t, acct.Balance().IsZero())
	})

	t.Run("negative amounts are rejected", func(t *testing.T) {
		acct, err := wallet.NewAccount(uuid.New(), now)
		require.NoError(t, err)

		assert.Equal(t, errs.KindInvalidInput, errs.KindOf(acct.Credit(decimal.NewFromInt(-1), now)))
		assert.Equal(t, errs.KindInvalidInput, errs.KindOf(acct.Debit(decimal.NewFromInt(-1), now)))
		assert.Equal(t, errs.KindInvalidInput, errs.KindOf(acct.AddLoyalty(-1, now)))
	})

	t.Run("owner is required", func(t *testing.T) {
		_, err := wallet.NewAccount(uuid.Nil, now)
		assert.Equal(t, errs.KindInvalidInput, errs.KindOf(err))
	})
}

func TestLoyaltyPoints(t *testing.T) {
	ten := decimal.NewFromInt(10)
	cases := []struct {
		amount string
		want   int64
	}{
		{"45.00", 4},
		{"100", 10},
		{"9.99", 0},
		{"81", 8},
		{"0", 0},
	}
	for _, tc := range cases {
		t.Run(tc.amount, func(t *testing.T) {
			assert.Equal(t, tc.want, wallet.LoyaltyPoints(decimal.RequireFromString(tc.amount), ten))
		})
	}
	assert.Zero(t, wallet.LoyaltyPoints(decimal.NewFromInt(100), decimal.Zero))
}

func TestPayment(t *testing.T) {
	now := time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)

	p, err := wallet.NewPayment(uuid.New(), uuid.New(), decimal.NewFromInt(45), wallet.PaymentKindSettlement, now)
	require.NoError(t, err)
	assert.Equal(t, wallet.MethodWallet, p.Method())
	assert.Regexp(t, regexp.MustCompile(`^WALLET20240101100000[0-9A-F]{8}$`), p.TransactionID())

	other, err := wallet.NewPayment(uuid.New(), uuid.New(), decimal.NewFromInt(45), wallet.PaymentKindSettlement, now)
	require.NoError(t, err)
	assert.NotEqual(t, p.TransactionID(), other.TransactionID())

	_, err = wallet.NewPayment(uuid.New(), uuid.New(), decimal.NewFromInt(1), "gift", now)
	assert.Equal(t, errs.KindInvalidInput, errs.KindOf(err))
}
