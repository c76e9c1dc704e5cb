package wallet

import (
	"strings"
	"time"

	"parking-engine/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MethodWallet            = "wallet"
	TransactionPrefix       = "WALLET"
	transactionSuffixLength = 8
)

type PaymentKind string

const (
	PaymentKindPrepayment PaymentKind = "prepayment"
	PaymentKindSettlement PaymentKind = "settlement"
	PaymentKindRefund     PaymentKind = "refund"
)

func (k PaymentKind) String() string {
	return string(k)
}

func (k PaymentKind) IsValid() bool {
	switch k {
	case PaymentKindPrepayment, PaymentKindSettlement, PaymentKindRefund:
		return true
	default:
		return false
	}
}

// Payment is an append-only record of money moved for a booking.
type Payment struct {
	id            uuid.UUID
	bookingID     uuid.UUID
	userID        uuid.UUID
	amount        decimal.Decimal
	kind          PaymentKind
	method        string
	transactionID string
	createdAt     time.Time
}

func NewPayment(bookingID, userID uuid.UUID, amount decimal.Decimal, kind PaymentKind, now time.Time) (*Payment, error) {
	if !kind.IsValid() {
		return nil, errs.Reason(errs.ErrInvalidInput, "unknown payment kind %q", kind)
	}
	if amount.IsNegative() {
		return nil, errs.Reason(errs.ErrInvalidInput, "payment amount must not be negative")
	}
	id := uuid.New()
	return &Payment{
		id:            id,
		bookingID:     bookingID,
		userID:        userID,
		amount:        amount,
		kind:          kind,
		method:        MethodWallet,
		transactionID: TransactionID(now, id),
		createdAt:     now,
	}, nil
}

func ReconstructPayment(id, bookingID, userID uuid.UUID, amount decimal.Decimal, kind PaymentKind, method, transactionID string, createdAt time.Time) *Payment {
	return &Payment{
		id:            id,
		bookingID:     bookingID,
		userID:        userID,
		amount:        amount,
		kind:          kind,
		method:        method,
		transactionID: transactionID,
		createdAt:     createdAt,
	}
}

// TransactionID is WALLET + YYYYMMDDHHMMSS + the first hex digits of the
// payment id, unique per payment.
func TransactionID(now time.Time, id uuid.UUID) string {
	suffix := strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))[:transactionSuffixLength]
	return TransactionPrefix + now.UTC().Format("20060102150405") + suffix
}

func (p *Payment) ID() uuid.UUID           { return p.id }
func (p *Payment) BookingID() uuid.UUID    { return p.bookingID }
func (p *Payment) UserID() uuid.UUID       { return p.userID }
func (p *Payment) Amount() decimal.Decimal { return p.amount }
func (p *Payment) Kind() PaymentKind       { return p.kind }
func (p *Payment) Method() string          { return p.method }
func (p *Payment) TransactionID() string   { return p.transactionID }
func (p *Payment) CreatedAt() time.Time    { return p.createdAt }

// Sequence orders payment kinds recorded at the same instant: a refund is
// written after the settlement it follows.
func (k PaymentKind) Sequence() int {
	switch k {
	case PaymentKindPrepayment:
		return 1
	case PaymentKindSettlement:
		return 2
	case PaymentKindRefund:
		return 3
	default:
		return 0
	}
}

// ComparePayments orders payments by creation time, then kind sequence.
func ComparePayments(a, b *Payment) int {
	if c := a.createdAt.Compare(b.createdAt); c != 0 {
		return c
	}
	return a.kind.Sequence() - b.kind.Sequence()
}
