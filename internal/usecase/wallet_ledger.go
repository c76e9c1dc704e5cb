package usecase

import (
	"context"
	"log/slog"

	"parking-engine/internal/domain/wallet"
	"parking-engine/internal/infra"
	"parking-engine/internal/pkg/clock"
	"parking-engine/internal/pkg/errs"
	"parking-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletLedger owns wallet balances, loyalty points and payment records.
// Methods taking a shared.Tx join the caller's transaction.
type WalletLedger interface {
	Balance(ctx context.Context, userID uuid.UUID) (*wallet.Account, error)
	Open(ctx context.Context, userID uuid.UUID) (*wallet.Account, error)
	TopUp(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*wallet.Account, error)
	Payments(ctx context.Context, bookingID uuid.UUID) ([]*wallet.Payment, error)

	Debit(ctx context.Context, tx shared.Tx, userID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
	Credit(ctx context.Context, tx shared.Tx, userID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
	AwardLoyalty(ctx context.Context, tx shared.Tx, userID uuid.UUID, amount decimal.Decimal) (int64, error)
	Record(ctx context.Context, tx shared.Tx, bookingID, userID uuid.UUID, amount decimal.Decimal, kind wallet.PaymentKind) (*wallet.Payment, error)
}

type walletLedgerImpl struct {
	uow            shared.UnitOfWork
	clock          clock.Clock
	logger         *slog.Logger
	loyaltyDivisor decimal.Decimal
}

func NewWalletLedger(uow shared.UnitOfWork, clk clock.Clock, logger *slog.Logger, loyaltyDivisor decimal.Decimal) WalletLedger {
	return &walletLedgerImpl{
		uow:            uow,
		clock:          clk,
		logger:         logger,
		loyaltyDivisor: loyaltyDivisor,
	}
}

func (l *walletLedgerImpl) Balance(ctx context.Context, userID uuid.UUID) (*wallet.Account, error) {
	var acct *wallet.Account
	err := l.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		acct, err = tx.Wallets().Find(ctx, userID)
		return err
	})
	if err != nil {
		return nil, translateNotFound(err, errs.ErrWalletNotFound, "no wallet for user %s", userID)
	}
	return acct, nil
}

// Open returns the user's wallet, creating an empty one on first use.
func (l *walletLedgerImpl) Open(ctx context.Context, userID uuid.UUID) (*wallet.Account, error) {
	var acct *wallet.Account
	err := l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		acct, err = l.ensure(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, dbFailure(err)
	}
	return acct, nil
}

func (l *walletLedgerImpl) TopUp(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*wallet.Account, error) {
	if !amount.IsPositive() {
		return nil, errs.Reason(errs.ErrInvalidInput, "top-up amount must be positive")
	}

	var acct *wallet.Account
	err := l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := l.ensure(ctx, tx, userID); err != nil {
			return err
		}
		if _, err := l.Credit(ctx, tx, userID, amount); err != nil {
			return err
		}
		var err error
		acct, err = tx.Wallets().Find(ctx, userID)
		return err
	})
	if err != nil {
		return nil, dbFailure(err)
	}

	l.logger.Info("wallet topped up",
		slog.String("user_id", userID.String()),
		slog.String("amount", amount.StringFixed(2)),
		slog.String("balance", acct.Balance().StringFixed(2)))
	return acct, nil
}

func (l *walletLedgerImpl) Payments(ctx context.Context, bookingID uuid.UUID) ([]*wallet.Payment, error) {
	var payments []*wallet.Payment
	err := l.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		payments, err = tx.Payments().ListByBooking(ctx, bookingID)
		return err
	})
	if err != nil {
		return nil, dbFailure(err)
	}
	return payments, nil
}

// Debit withdraws amount with a conditional update, so two concurrent debits
// can never both pass on a stale balance. A missing wallet has nothing to debit.
func (l *walletLedgerImpl) Debit(ctx context.Context, tx shared.Tx, userID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, errs.Reason(errs.ErrInvalidInput, "debit amount must not be negative")
	}
	balance, ok, err := tx.Wallets().Debit(ctx, userID, amount, l.clock.Now())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return decimal.Zero, errs.Reason(errs.ErrInsufficientFunds, "user %s has no wallet to pay %s", userID, amount.StringFixed(2))
		}
		return decimal.Zero, err
	}
	if !ok {
		return balance, errs.Reason(errs.ErrInsufficientFunds, "balance %s is less than %s", balance.StringFixed(2), amount.StringFixed(2))
	}
	return balance, nil
}

func (l *walletLedgerImpl) Credit(ctx context.Context, tx shared.Tx, userID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, errs.Reason(errs.ErrInvalidInput, "credit amount must not be negative")
	}
	if _, err := l.ensure(ctx, tx, userID); err != nil {
		return decimal.Zero, err
	}
	return tx.Wallets().Credit(ctx, userID, amount, l.clock.Now())
}

// AwardLoyalty converts a settled amount into loyalty points and adds them.
func (l *walletLedgerImpl) AwardLoyalty(ctx context.Context, tx shared.Tx, userID uuid.UUID, amount decimal.Decimal) (int64, error) {
	points := wallet.LoyaltyPoints(amount, l.loyaltyDivisor)
	if points == 0 {
		return 0, nil
	}
	if _, err := tx.Wallets().AddLoyalty(ctx, userID, points, l.clock.Now()); err != nil {
		return 0, err
	}
	return points, nil
}

func (l *walletLedgerImpl) Record(ctx context.Context, tx shared.Tx, bookingID, userID uuid.UUID, amount decimal.Decimal, kind wallet.PaymentKind) (*wallet.Payment, error) {
	p, err := wallet.NewPayment(bookingID, userID, amount, kind, l.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := tx.Payments().Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (l *walletLedgerImpl) ensure(ctx context.Context, tx shared.Tx, userID uuid.UUID) (*wallet.Account, error) {
	acct, err := tx.Wallets().Find(ctx, userID)
	if err == nil {
		return acct, nil
	}
	if !infra.IsKind(err, infra.KindNotFound) {
		return nil, err
	}
	acct, err = wallet.NewAccount(userID, l.clock.Now())
	if err != nil {
		return nil, err
	}
	err = tx.Wallets().Create(ctx, acct)
	switch {
	case err == nil:
		return acct, nil
	case infra.IsConstraint(err, infra.ConstraintWalletUser):
		// opened concurrently
		return tx.Wallets().Find(ctx, userID)
	default:
		return nil, err
	}
}
