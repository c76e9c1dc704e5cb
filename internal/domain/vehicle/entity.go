package vehicle

import (
	"strings"
	"time"

	"parking-engine/internal/domain/slot"
	"parking-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

const MaxPlateLength = 20

var ErrInvalidPlate = errs.New("invalid plate")

type Vehicle struct {
	id          uuid.UUID
	userID      uuid.UUID
	vehicleType slot.VehicleType
	plate       string
	createdAt   time.Time
}

// NormalizePlate upper-cases the plate and strips spaces and dashes so that
// "ka 01-ab 1234" and "KA01AB1234" collide on the unique index.
func NormalizePlate(plate string) string {
	r := strings.NewReplacer(" ", "", "-", "")
	return strings.ToUpper(r.Replace(strings.TrimSpace(plate)))
}

func NewVehicle(userID uuid.UUID, vehicleType slot.VehicleType, plate string, now time.Time) (*Vehicle, error) {
	if userID == uuid.Nil {
		return nil, errs.Reason(errs.ErrInvalidInput, "vehicle owner is required")
	}
	if !vehicleType.IsValid() {
		return nil, errs.Reason(errs.ErrInvalidInput, "unknown vehicle type %q", vehicleType)
	}
	normalized := NormalizePlate(plate)
	if normalized == "" || len(normalized) > MaxPlateLength {
		return nil, errs.Mark(errs.Reason(ErrInvalidPlate, "plate %q must be 1-%d characters", plate, MaxPlateLength), errs.ErrInvalidInput)
	}
	return &Vehicle{
		id:          uuid.New(),
		userID:      userID,
		vehicleType: vehicleType,
		plate:       normalized,
		createdAt:   now,
	}, nil
}

func ReconstructVehicle(id, userID uuid.UUID, vehicleType slot.VehicleType, plate string, createdAt time.Time) *Vehicle {
	return &Vehicle{
		id:          id,
		userID:      userID,
		vehicleType: vehicleType,
		plate:       plate,
		createdAt:   createdAt,
	}
}

func (v *Vehicle) OwnedBy(userID uuid.UUID) bool {
	return v.userID == userID
}

func (v *Vehicle) ID() uuid.UUID                 { return v.id }
func (v *Vehicle) UserID() uuid.UUID             { return v.userID }
func (v *Vehicle) VehicleType() slot.VehicleType { return v.vehicleType }
func (v *Vehicle) Plate() string                 { return v.plate }
func (v *Vehicle) CreatedAt() time.Time          { return v.createdAt }
