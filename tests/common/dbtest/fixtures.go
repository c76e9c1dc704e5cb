//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// DBLike is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CreateTestSlot inserts an available slot and returns its id.
func CreateTestSlot(t *testing.T, db DBLike, number, vehicleType, slotType string, floor int, price string) uuid.UUID {
	t.Helper()

	slotID := uuid.New()
	now := time.Now().UTC()
	_, err := db.Exec(context.Background(), `
		INSERT INTO parking_slots (id, slot_number, floor, section, slot_type, vehicle_type, price_per_hour, status, created_at, updated_at)
		VALUES ($1, $2, $3, 'A', $4, $5, $6::numeric, 'available', $7, $7)`,
		slotID, number, floor, slotType, vehicleType, price, now)
	require.NoError(t, err)
	return slotID
}

func SlotStatus(t *testing.T, db DBLike, slotID uuid.UUID) string {
	t.Helper()

	var status string
	err := db.QueryRow(context.Background(), "SELECT status FROM parking_slots WHERE id = $1", slotID).Scan(&status)
	require.NoError(t, err)
	return status
}

func WalletBalance(t *testing.T, db DBLike, userID uuid.UUID) decimal.Decimal {
	t.Helper()

	var balance string
	err := db.QueryRow(context.Background(), "SELECT balance::text FROM wallet_accounts WHERE user_id = $1", userID).Scan(&balance)
	require.NoError(t, err)
	return decimal.RequireFromString(balance)
}

func CountPayments(t *testing.T, db DBLike, ticket string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(), `
		SELECT count(*) FROM payments p JOIN bookings b ON b.id = p.booking_id
		WHERE b.ticket_number = $1`, ticket).Scan(&n)
	require.NoError(t, err)
	return n
}

// ShiftBooking moves every timestamp of a booking back by d, so tests can make
// it overdue or long-running without waiting.
func ShiftBooking(t *testing.T, db DBLike, ticket string, d time.Duration) {
	t.Helper()

	tag, err := db.Exec(context.Background(), `
		UPDATE bookings SET
			entry_time = entry_time - $2::interval,
			checkin_deadline = checkin_deadline - $2::interval,
			checkin_time = checkin_time - $2::interval,
			created_at = created_at - $2::interval
		WHERE ticket_number = $1`, ticket, fmt.Sprintf("%d seconds", int64(d.Seconds())))
	require.NoError(t, err)
	require.EqualValues(t, 1, tag.RowsAffected())
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables except the migration history
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('goose_db_version')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
