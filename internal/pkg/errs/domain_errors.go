package errs

// Kind is the stable, caller-facing classification of an engine error.
type Kind string

const (
	KindVehicleNotFound          Kind = "VEHICLE_NOT_FOUND"
	KindSlotNotFound             Kind = "SLOT_NOT_FOUND"
	KindSlotUnavailable          Kind = "SLOT_UNAVAILABLE"
	KindVehicleTypeMismatch      Kind = "VEHICLE_TYPE_MISMATCH"
	KindDuplicateActiveBooking   Kind = "DUPLICATE_ACTIVE_BOOKING"
	KindInsufficientFunds        Kind = "INSUFFICIENT_FUNDS"
	KindBookingNotFound          Kind = "BOOKING_NOT_FOUND"
	KindInvalidTransition        Kind = "INVALID_TRANSITION"
	KindBookingExpired           Kind = "BOOKING_EXPIRED"
	KindAlreadyCheckedIn         Kind = "ALREADY_CHECKED_IN"
	KindBookingTerminal          Kind = "BOOKING_TERMINAL"
	KindVehicleAlreadyRegistered Kind = "VEHICLE_ALREADY_REGISTERED"
	KindWalletNotFound           Kind = "WALLET_NOT_FOUND"
	KindInvalidInput             Kind = "INVALID_INPUT"
	KindInternal                 Kind = "INTERNAL"
)

// Domain-specific sentinel errors shared by the domain and usecase layers
var (
	// Vehicle errors
	ErrVehicleNotFound          = New("vehicle not found")
	ErrVehicleAlreadyRegistered = New("vehicle already registered")
	ErrVehicleTypeMismatch      = New("vehicle type mismatch")

	// Slot errors
	ErrSlotNotFound    = New("slot not found")
	ErrSlotUnavailable = New("slot unavailable")

	// Booking errors
	ErrBookingNotFound        = New("booking not found")
	ErrDuplicateActiveBooking = New("duplicate active booking")
	ErrInvalidTransition      = New("invalid booking transition")
	ErrBookingExpired         = New("booking expired")
	ErrAlreadyCheckedIn       = New("booking already checked in")
	ErrBookingTerminal        = New("booking is terminal")

	// Wallet errors
	ErrInsufficientFunds = New("insufficient funds")
	ErrWalletNotFound    = New("wallet not found")

	// Validation errors
	ErrInvalidInput = New("invalid input")
)

var kinds = []struct {
	sentinel error
	kind     Kind
}{
	{ErrVehicleNotFound, KindVehicleNotFound},
	{ErrVehicleAlreadyRegistered, KindVehicleAlreadyRegistered},
	{ErrVehicleTypeMismatch, KindVehicleTypeMismatch},
	{ErrSlotNotFound, KindSlotNotFound},
	{ErrSlotUnavailable, KindSlotUnavailable},
	{ErrBookingNotFound, KindBookingNotFound},
	{ErrDuplicateActiveBooking, KindDuplicateActiveBooking},
	{ErrInvalidTransition, KindInvalidTransition},
	{ErrBookingExpired, KindBookingExpired},
	{ErrAlreadyCheckedIn, KindAlreadyCheckedIn},
	{ErrBookingTerminal, KindBookingTerminal},
	{ErrInsufficientFunds, KindInsufficientFunds},
	{ErrWalletNotFound, KindWalletNotFound},
	{ErrInvalidInput, KindInvalidInput},
}

// KindOf returns the business kind of err, KindInternal for anything unclassified
// and "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if Is(err, k.sentinel) {
			return k.kind
		}
	}
	return KindInternal
}

func (k Kind) String() string {
	return string(k)
}

// IsBusiness reports whether k is an expected business condition rather than an
// infrastructure failure.
func (k Kind) IsBusiness() bool {
	return k != "" && k != KindInternal
}
