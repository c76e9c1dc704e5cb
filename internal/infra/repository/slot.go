package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"parking-engine/internal/domain/slot"
	"parking-engine/internal/pkg/pgconv"
	"parking-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const slotColumns = `id, slot_number, floor, section, slot_type, vehicle_type,
	price_per_hour::text, status, created_at, updated_at`

type SlotRepository struct {
	db     DBTX
	logger *slog.Logger
}

func NewSlotRepository(db DBTX, logger *slog.Logger) *SlotRepository {
	return &SlotRepository{
		db:     db,
		logger: logger,
	}
}

func (r *SlotRepository) Create(ctx context.Context, s *slot.Slot) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO parking_slots (id, slot_number, floor, section, slot_type, vehicle_type,
			price_per_hour, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8, $9, $10)`,
		s.ID(), s.Number(), s.Floor(), s.Section(), s.Type().String(), s.VehicleType().String(),
		pgconv.Numeric(s.PricePerHour()), s.Status().String(), s.CreatedAt(), s.UpdatedAt())
	if err != nil {
		return translateErr(r.logger, "failed to create slot", err)
	}
	return nil
}

func (r *SlotRepository) FindByID(ctx context.Context, id uuid.UUID) (*slot.Slot, error) {
	s, err := scanSlot(r.db.QueryRow(ctx, `SELECT `+slotColumns+` FROM parking_slots WHERE id = $1`, id))
	if err != nil {
		return nil, translateErr(r.logger, "failed to find slot", err)
	}
	return s, nil
}

func (r *SlotRepository) List(ctx context.Context, q shared.SlotQuery) ([]*slot.Slot, error) {
	var (
		where []string
		args  []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if q.Status != nil {
		add("status", q.Status.String())
	}
	if q.VehicleType != nil {
		add("vehicle_type", q.VehicleType.String())
	}
	if q.Floor != nil {
		add("floor", *q.Floor)
	}
	if q.Type != nil {
		add("slot_type", q.Type.String())
	}

	sql := `SELECT ` + slotColumns + ` FROM parking_slots`
	if len(where) > 0 {
		sql += ` WHERE ` + strings.Join(where, " AND ")
	}
	sql += ` ORDER BY floor, section, slot_number`

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, translateErr(r.logger, "failed to list slots", err)
	}
	slots, err := collect(rows, scanSlot)
	if err != nil {
		return nil, translateErr(r.logger, "failed to read slots", err)
	}
	return slots, nil
}

func (r *SlotRepository) CompareAndSetStatus(ctx context.Context, id uuid.UUID, from []slot.Status, to slot.Status, now time.Time) (bool, error) {
	expected := make([]string, len(from))
	for i, s := range from {
		expected[i] = s.String()
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE parking_slots SET status = $3, updated_at = $4
		WHERE id = $1 AND status = ANY($2)`,
		id, expected, to.String(), now)
	if err != nil {
		return false, translateErr(r.logger, "failed to update slot status", err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}
	found, err := exists(ctx, r.db, "parking_slots", id)
	if err != nil {
		return false, translateErr(r.logger, "failed to check slot", err)
	}
	if !found {
		return false, notFound(r.logger, "slot not found")
	}
	return false, nil
}

func (r *SlotRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM parking_slots`).Scan(&n); err != nil {
		return 0, translateErr(r.logger, "failed to count slots", err)
	}
	return n, nil
}

func scanSlot(row pgx.Row) (*slot.Slot, error) {
	var (
		id                                     uuid.UUID
		number, section, slotType, vehicleType string
		price, status                          string
		floor                                  int
		createdAt, updatedAt                   time.Time
	)
	if err := row.Scan(&id, &number, &floor, &section, &slotType, &vehicleType, &price, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	rate, err := pgconv.Decimal(price)
	if err != nil {
		return nil, err
	}
	return slot.ReconstructSlot(id, number, floor, section, slot.Type(slotType), slot.VehicleType(vehicleType),
		rate, slot.Status(status), createdAt, updatedAt), nil
}

// collect scans every row with scan and closes rows.
func collect[T any](rows pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
	defer rows.Close()
	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
