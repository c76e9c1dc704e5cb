package memstore

import (
	"context"
	"slices"
	"time"

	"parking-engine/internal/domain/wallet"
	"parking-engine/internal/infra"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type walletRepo struct {
	tx *memTx
}

func (r *walletRepo) Create(_ context.Context, a *wallet.Account) error {
	if err := r.tx.writable("create wallet"); err != nil {
		return err
	}
	if _, ok := r.tx.wallets.get(a.UserID()); ok {
		return r.tx.duplicate(infra.ConstraintWalletUser, "wallet already exists")
	}
	r.tx.wallets.put(a.UserID(), a.Clone())
	return nil
}

func (r *walletRepo) Find(_ context.Context, userID uuid.UUID) (*wallet.Account, error) {
	a, ok := r.tx.wallets.get(userID)
	if !ok {
		return nil, r.tx.notFound("wallet not found")
	}
	return a.Clone(), nil
}

func (r *walletRepo) Debit(_ context.Context, userID uuid.UUID, amount decimal.Decimal, now time.Time) (decimal.Decimal, bool, error) {
	if err := r.tx.writable("debit wallet"); err != nil {
		return decimal.Zero, false, err
	}
	a, ok := r.tx.wallets.get(userID)
	if !ok {
		return decimal.Zero, false, r.tx.notFound("wallet not found")
	}
	if !a.CanCover(amount) {
		return a.Balance(), false, nil
	}
	next := a.Clone()
	if err := next.Debit(amount, now); err != nil {
		return a.Balance(), false, err
	}
	r.tx.wallets.put(userID, next)
	return next.Balance(), true, nil
}

func (r *walletRepo) Credit(_ context.Context, userID uuid.UUID, amount decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	if err := r.tx.writable("credit wallet"); err != nil {
		return decimal.Zero, err
	}
	a, ok := r.tx.wallets.get(userID)
	if !ok {
		return decimal.Zero, r.tx.notFound("wallet not found")
	}
	next := a.Clone()
	if err := next.Credit(amount, now); err != nil {
		return a.Balance(), err
	}
	r.tx.wallets.put(userID, next)
	return next.Balance(), nil
}

func (r *walletRepo) AddLoyalty(_ context.Context, userID uuid.UUID, points int64, now time.Time) (int64, error) {
	if err := r.tx.writable("add loyalty"); err != nil {
		return 0, err
	}
	a, ok := r.tx.wallets.get(userID)
	if !ok {
		return 0, r.tx.notFound("wallet not found")
	}
	next := a.Clone()
	if err := next.AddLoyalty(points, now); err != nil {
		return a.LoyaltyPoints(), err
	}
	r.tx.wallets.put(userID, next)
	return next.LoyaltyPoints(), nil
}

type paymentRepo struct {
	tx *memTx
}

func (r *paymentRepo) Create(_ context.Context, p *wallet.Payment) error {
	if err := r.tx.writable("create payment"); err != nil {
		return err
	}
	taken := false
	r.tx.payments.each(func(existing *wallet.Payment) {
		if existing.TransactionID() == p.TransactionID() {
			taken = true
		}
	})
	if taken {
		return r.tx.duplicate(infra.ConstraintPaymentTransaction, "transaction id already used")
	}
	r.tx.payments.put(p.ID(), p)
	return nil
}

func (r *paymentRepo) ListByBooking(_ context.Context, bookingID uuid.UUID) ([]*wallet.Payment, error) {
	var out []*wallet.Payment
	r.tx.payments.each(func(p *wallet.Payment) {
		if p.BookingID() == bookingID {
			out = append(out, p)
		}
	})
	slices.SortFunc(out, wallet.ComparePayments)
	return out, nil
}
