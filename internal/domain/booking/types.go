package booking

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusActive, StatusCompleted, StatusCancelled, StatusExpired:
		return true
	default:
		return false
	}
}

// IsOpen reports whether the booking still holds its slot.
func (s Status) IsOpen() bool {
	return s == StatusPending || s == StatusActive
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusExpired
}

// OpenStatuses are the statuses that hold a slot and count against a vehicle.
var OpenStatuses = []Status{StatusPending, StatusActive}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

func (p PaymentStatus) String() string {
	return string(p)
}

func (p PaymentStatus) IsValid() bool {
	return p == PaymentStatusPending || p == PaymentStatusPaid
}

type Event string

const (
	EventCheckIn     Event = "check_in"
	EventCheckOut    Event = "check_out"
	EventCancel      Event = "cancel"
	EventAdminCancel Event = "admin_cancel"
	EventExpire      Event = "expire"
)

func (e Event) String() string {
	return string(e)
}
