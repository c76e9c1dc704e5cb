package slot

type Status string

const (
	StatusAvailable   Status = "available"
	StatusReserved    Status = "reserved"
	StatusOccupied    Status = "occupied"
	StatusMaintenance Status = "maintenance"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusReserved, StatusOccupied, StatusMaintenance:
		return true
	default:
		return false
	}
}

// IsClaimed reports whether a booking holds the slot.
func (s Status) IsClaimed() bool {
	return s == StatusReserved || s == StatusOccupied
}

type VehicleType string

const (
	VehicleTypeCar   VehicleType = "car"
	VehicleTypeBike  VehicleType = "bike"
	VehicleTypeTruck VehicleType = "truck"
)

func (v VehicleType) String() string {
	return string(v)
}

func (v VehicleType) IsValid() bool {
	switch v {
	case VehicleTypeCar, VehicleTypeBike, VehicleTypeTruck:
		return true
	default:
		return false
	}
}

type Type string

const (
	TypeRegular    Type = "regular"
	TypeCovered    Type = "covered"
	TypeEVCharging Type = "ev_charging"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case TypeRegular, TypeCovered, TypeEVCharging:
		return true
	default:
		return false
	}
}
