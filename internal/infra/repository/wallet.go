package repository

import (
	"context"
	"log/slog"
	"time"

	"parking-engine/internal/domain/wallet"
	"parking-engine/internal/infra"
	"parking-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type WalletRepository struct {
	db     DBTX
	logger *slog.Logger
}

func NewWalletRepository(db DBTX, logger *slog.Logger) *WalletRepository {
	return &WalletRepository{
		db:     db,
		logger: logger,
	}
}

// Create reports an existing account as a duplicate without aborting the
// surrounding transaction.
func (r *WalletRepository) Create(ctx context.Context, a *wallet.Account) error {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO wallet_accounts (user_id, balance, loyalty_points, created_at, updated_at)
		VALUES ($1, $2::numeric, $3, $4, $5)
		ON CONFLICT (user_id) DO NOTHING`,
		a.UserID(), pgconv.Numeric(a.Balance()), a.LoyaltyPoints(), a.CreatedAt(), a.UpdatedAt())
	if err != nil {
		return translateErr(r.logger, "failed to create wallet", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapConstraintErr(r.logger, infra.KindDuplicateKey, infra.ConstraintWalletUser, "wallet already exists", nil)
	}
	return nil
}

func (r *WalletRepository) Find(ctx context.Context, userID uuid.UUID) (*wallet.Account, error) {
	a, err := scanAccount(r.db.QueryRow(ctx, `
		SELECT user_id, balance::text, loyalty_points, created_at, updated_at
		FROM wallet_accounts WHERE user_id = $1`, userID))
	if err != nil {
		return nil, translateErr(r.logger, "failed to find wallet", err)
	}
	return a, nil
}

// Debit is a single conditional update, so concurrent debits serialize on
// the row and none can overdraw.
func (r *WalletRepository) Debit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, now time.Time) (decimal.Decimal, bool, error) {
	var balance string
	err := r.db.QueryRow(ctx, `
		UPDATE wallet_accounts SET balance = balance - $2::numeric, updated_at = $3
		WHERE user_id = $1 AND balance >= $2::numeric
		RETURNING balance::text`,
		userID, pgconv.Numeric(amount), now).Scan(&balance)
	if err == nil {
		d, err := pgconv.Decimal(balance)
		if err != nil {
			return decimal.Zero, false, translateErr(r.logger, "failed to read wallet balance", err)
		}
		return d, true, nil
	}
	if !pgconv.IsNoRows(err) {
		return decimal.Zero, false, translateErr(r.logger, "failed to debit wallet", err)
	}

	// either no wallet or not enough money
	a, err := r.Find(ctx, userID)
	if err != nil {
		return decimal.Zero, false, err
	}
	return a.Balance(), false, nil
}

func (r *WalletRepository) Credit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	var balance string
	err := r.db.QueryRow(ctx, `
		UPDATE wallet_accounts SET balance = balance + $2::numeric, updated_at = $3
		WHERE user_id = $1
		RETURNING balance::text`,
		userID, pgconv.Numeric(amount), now).Scan(&balance)
	if err != nil {
		return decimal.Zero, translateErr(r.logger, "failed to credit wallet", err)
	}
	d, err := pgconv.Decimal(balance)
	if err != nil {
		return decimal.Zero, translateErr(r.logger, "failed to read wallet balance", err)
	}
	return d, nil
}

func (r *WalletRepository) AddLoyalty(ctx context.Context, userID uuid.UUID, points int64, now time.Time) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `
		UPDATE wallet_accounts SET loyalty_points = loyalty_points + $2, updated_at = $3
		WHERE user_id = $1
		RETURNING loyalty_points`,
		userID, points, now).Scan(&total)
	if err != nil {
		return 0, translateErr(r.logger, "failed to add loyalty points", err)
	}
	return total, nil
}

func scanAccount(row pgx.Row) (*wallet.Account, error) {
	var (
		userID               uuid.UUID
		balance              string
		points               int64
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&userID, &balance, &points, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	b, err := pgconv.Decimal(balance)
	if err != nil {
		return nil, err
	}
	return wallet.ReconstructAccount(userID, b, points, createdAt, updatedAt), nil
}

type PaymentRepository struct {
	db     DBTX
	logger *slog.Logger
}

func NewPaymentRepository(db DBTX, logger *slog.Logger) *PaymentRepository {
	return &PaymentRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, p *wallet.Payment) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO payments (id, booking_id, user_id, amount, kind, method, transaction_id, created_at)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8)`,
		p.ID(), p.BookingID(), p.UserID(), pgconv.Numeric(p.Amount()), p.Kind().String(),
		p.Method(), p.TransactionID(), p.CreatedAt())
	if err != nil {
		return translateErr(r.logger, "failed to record payment", err)
	}
	return nil
}

func (r *PaymentRepository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*wallet.Payment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, booking_id, user_id, amount::text, kind, method, transaction_id, created_at
		FROM payments
		WHERE booking_id = $1
		ORDER BY created_at,
			CASE kind WHEN 'prepayment' THEN 1 WHEN 'settlement' THEN 2 WHEN 'refund' THEN 3 ELSE 0 END`,
		bookingID)
	if err != nil {
		return nil, translateErr(r.logger, "failed to list payments", err)
	}
	payments, err := collect(rows, scanPayment)
	if err != nil {
		return nil, translateErr(r.logger, "failed to read payments", err)
	}
	return payments, nil
}

func scanPayment(row pgx.Row) (*wallet.Payment, error) {
	var (
		id, bookingID, userID       uuid.UUID
		amount, kind, method, txnID string
		createdAt                   time.Time
	)
	if err := row.Scan(&id, &bookingID, &userID, &amount, &kind, &method, &txnID, &createdAt); err != nil {
		return nil, err
	}
	a, err := pgconv.Decimal(amount)
	if err != nil {
		return nil, err
	}
	return wallet.ReconstructPayment(id, bookingID, userID, a, wallet.PaymentKind(kind), method, txnID, createdAt), nil
}
