// Package repository implements the engine's repositories on PostgreSQL with
// hand-written pgx queries.
package repository

import (
	"context"
	"errors"
	"log/slog"

	"parking-engine/internal/infra"
	"parking-engine/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	pgErrCodeUniqueViolation     = "23505"
	pgErrCodeForeignKeyViolation = "23503"
)

// translateErr classifies a driver error as a RepositoryError.
func translateErr(logger *slog.Logger, msg string, err error) error {
	if pgconv.IsNoRows(err) {
		return infra.WrapRepoErr(logger, infra.KindNotFound, msg, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrCodeUniqueViolation:
			return infra.WrapConstraintErr(logger, infra.KindDuplicateKey, pgErr.ConstraintName, msg, err)
		case pgErrCodeForeignKeyViolation:
			return infra.WrapConstraintErr(logger, infra.KindForeignKeyViolated, pgErr.ConstraintName, msg, err)
		}
	}
	return infra.WrapRepoErr(logger, infra.KindDBFailure, msg, err)
}

func notFound(logger *slog.Logger, msg string) error {
	return infra.WrapRepoErr(logger, infra.KindNotFound, msg, nil)
}

// exists reports whether a row with id is present in table.
func exists(ctx context.Context, db DBTX, table string, id any) (bool, error) {
	var found bool
	err := db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM "+table+" WHERE id = $1)", id).Scan(&found)
	return found, err
}
