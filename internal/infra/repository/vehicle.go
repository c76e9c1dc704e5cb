package repository

import (
	"context"
	"log/slog"
	"time"

	"parking-engine/internal/domain/slot"
	"parking-engine/internal/domain/vehicle"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const vehicleColumns = `id, user_id, vehicle_type, plate, created_at`

type VehicleRepository struct {
	db     DBTX
	logger *slog.Logger
}

func NewVehicleRepository(db DBTX, logger *slog.Logger) *VehicleRepository {
	return &VehicleRepository{
		db:     db,
		logger: logger,
	}
}

func (r *VehicleRepository) Create(ctx context.Context, v *vehicle.Vehicle) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO vehicles (id, user_id, vehicle_type, plate, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		v.ID(), v.UserID(), v.VehicleType().String(), v.Plate(), v.CreatedAt())
	if err != nil {
		return translateErr(r.logger, "failed to create vehicle", err)
	}
	return nil
}

func (r *VehicleRepository) FindByID(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, error) {
	v, err := scanVehicle(r.db.QueryRow(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id))
	if err != nil {
		return nil, translateErr(r.logger, "failed to find vehicle", err)
	}
	return v, nil
}

func (r *VehicleRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*vehicle.Vehicle, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+vehicleColumns+` FROM vehicles
		WHERE user_id = $1
		ORDER BY created_at, plate`, userID)
	if err != nil {
		return nil, translateErr(r.logger, "failed to list vehicles", err)
	}
	vehicles, err := collect(rows, scanVehicle)
	if err != nil {
		return nil, translateErr(r.logger, "failed to read vehicles", err)
	}
	return vehicles, nil
}

func scanVehicle(row pgx.Row) (*vehicle.Vehicle, error) {
	var (
		id, userID         uuid.UUID
		vehicleType, plate string
		createdAt          time.Time
	)
	if err := row.Scan(&id, &userID, &vehicleType, &plate, &createdAt); err != nil {
		return nil, err
	}
	return vehicle.ReconstructVehicle(id, userID, slot.VehicleType(vehicleType), plate, createdAt), nil
}
