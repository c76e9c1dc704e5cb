package usecase

import (
	"context"
	"log/slog"

	"parking-engine/internal/domain/slot"
	"parking-engine/internal/domain/vehicle"
	"parking-engine/internal/infra"
	"parking-engine/internal/pkg/clock"
	"parking-engine/internal/pkg/errs"
	"parking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type VehicleUseCase interface {
	Register(ctx context.Context, userID uuid.UUID, vehicleType slot.VehicleType, plate string) (*vehicle.Vehicle, error)
	List(ctx context.Context, userID uuid.UUID) ([]*vehicle.Vehicle, error)
}

type vehicleUseCaseImpl struct {
	uow    shared.UnitOfWork
	clock  clock.Clock
	logger *slog.Logger
}

func NewVehicleUseCase(uow shared.UnitOfWork, clk clock.Clock, logger *slog.Logger) VehicleUseCase {
	return &vehicleUseCaseImpl{
		uow:    uow,
		clock:  clk,
		logger: logger,
	}
}

func (u *vehicleUseCaseImpl) Register(ctx context.Context, userID uuid.UUID, vehicleType slot.VehicleType, plate string) (*vehicle.Vehicle, error) {
	v, err := vehicle.NewVehicle(userID, vehicleType, plate, u.clock.Now())
	if err != nil {
		return nil, err
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Vehicles().Create(ctx, v)
	})
	if err != nil {
		if infra.IsConstraint(err, infra.ConstraintVehiclePlate) {
			return nil, errs.Reason(errs.ErrVehicleAlreadyRegistered, "plate %s is already registered", v.Plate())
		}
		return nil, dbFailure(err)
	}

	u.logger.Info("vehicle registered",
		slog.String("user_id", userID.String()),
		slog.String("plate", v.Plate()),
		slog.String("vehicle_type", vehicleType.String()))
	return v, nil
}

func (u *vehicleUseCaseImpl) List(ctx context.Context, userID uuid.UUID) ([]*vehicle.Vehicle, error) {
	var vehicles []*vehicle.Vehicle
	err := u.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		vehicles, err = tx.Vehicles().ListByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, dbFailure(err)
	}
	return vehicles, nil
}
