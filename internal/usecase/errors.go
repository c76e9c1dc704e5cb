package usecase

import (
	"parking-engine/internal/infra"
	"parking-engine/internal/pkg/errs"
)

var (
	// Error markers for categorization
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// translateNotFound turns a repository NOT_FOUND into the given business error
// and marks anything else as a database failure.
func translateNotFound(err error, sentinel error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Reason(sentinel, format, args...)
	}
	return dbFailure(err)
}

func dbFailure(err error) error {
	if err == nil {
		return nil
	}
	if errs.KindOf(err).IsBusiness() {
		return err
	}
	return errs.Mark(err, ErrDatabaseOperationFailed)
}
