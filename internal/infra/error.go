package infra

import (
	"errors"
	"log/slog"

	"parking-engine/internal/pkg/errs"
)

type RepositoryErrorKind string

type RepositoryError struct {
	Kind       RepositoryErrorKind
	Constraint string // set for DUPLICATE_KEY and FOREIGN_KEY_VIOLATED
	msg        string
	err        error // wrapped low-level error
}

func (e RepositoryError) Error() string {
	prefix := string(e.Kind)
	if e.Constraint != "" {
		prefix += "(" + e.Constraint + ")"
	}
	if e.err != nil {
		return prefix + ": " + e.msg + ": " + e.err.Error()
	}
	return prefix + ": " + e.msg
}

func (e RepositoryError) Unwrap() error {
	return e.err
}

func WrapRepoErr(slogger *slog.Logger, kind RepositoryErrorKind, msg string, err error) error {
	return wrap(slogger, kind, "", msg, err)
}

func WrapConstraintErr(slogger *slog.Logger, kind RepositoryErrorKind, constraint, msg string, err error) error {
	return wrap(slogger, kind, constraint, msg, err)
}

func wrap(slogger *slog.Logger, kind RepositoryErrorKind, constraint, msg string, err error) error {
	if slogger == nil {
		slogger = slog.Default()
	}
	logArgs := []any{
		slog.String("kind", string(kind)),
	}
	if constraint != "" {
		logArgs = append(logArgs, slog.String("constraint", constraint))
	}
	if err != nil {
		logArgs = append(logArgs, slog.String("error", err.Error()))
	}

	if kind == KindDBFailure {
		slogger.Error("Repository error: "+msg, logArgs...)
	} else {
		slogger.Debug("Repository error: "+msg, logArgs...)
	}

	if err != nil {
		err = errs.Wrap(err, msg)
	}

	return RepositoryError{Kind: kind, Constraint: constraint, msg: msg, err: err}
}

func IsKind(err error, kind RepositoryErrorKind) bool {
	var e RepositoryError
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func IsConstraint(err error, constraint string) bool {
	var e RepositoryError
	if errors.As(err, &e) {
		return e.Constraint == constraint
	}
	return false
}

// Infrastructure-specific error kinds
const (
	KindNotFound           RepositoryErrorKind = "NOT_FOUND"
	KindDBFailure          RepositoryErrorKind = "DB_FAILURE"
	KindDuplicateKey       RepositoryErrorKind = "DUPLICATE_KEY"
	KindForeignKeyViolated RepositoryErrorKind = "FOREIGN_KEY_VIOLATED"
)

// Unique constraints the engine reacts to. Both stores report these names.
const (
	ConstraintVehiclePlate       = "vehicles_plate_key"
	ConstraintBookingTicket      = "bookings_ticket_number_key"
	ConstraintBookingOpenVehicle = "bookings_open_vehicle_idx"
	ConstraintBookingOpenSlot    = "bookings_open_slot_idx"
	ConstraintPaymentTransaction = "payments_transaction_id_key"
	ConstraintWalletUser         = "wallet_accounts_pkey"
	ConstraintSlotNumber         = "parking_slots_slot_number_key"
)
