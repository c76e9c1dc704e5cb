package pgconv

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Money columns travel as text so no precision is lost between numeric and
// decimal.Decimal. Queries cast with $n::numeric on the way in and col::text
// on the way out.

func Numeric(d decimal.Decimal) string {
	return d.String()
}

func Decimal(text string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid numeric value %q: %w", text, err)
	}
	return d, nil
}

// Decimals parses several numeric columns in order, stopping at the first
// malformed value.
func Decimals(texts ...string) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, len(texts))
	for i, t := range texts {
		d, err := Decimal(t)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

// IsNoRows checks if the error is a "no rows" error from either sql or pgx
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}
