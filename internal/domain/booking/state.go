package booking

import (
	"parking-engine/internal/pkg/errs"
)

var transitions = map[Status]map[Event]Status{
	StatusPending: {
		EventCheckIn:     StatusActive,
		EventCancel:      StatusCancelled,
		EventAdminCancel: StatusCancelled,
		EventExpire:      StatusExpired,
	},
	StatusActive: {
		EventCheckOut:    StatusCompleted,
		EventAdminCancel: StatusCancelled,
	},
}

// Transition is the booking state machine. It returns the status reached by
// applying ev to from, or the business error describing why ev is not allowed.
func Transition(from Status, ev Event) (Status, error) {
	if to, ok := transitions[from][ev]; ok {
		return to, nil
	}
	switch {
	case from == StatusActive && ev == EventCheckIn:
		return from, errs.Reason(errs.ErrAlreadyCheckedIn, "booking is already checked in")
	case from == StatusExpired && ev == EventCheckIn:
		return from, errs.Reason(errs.ErrBookingExpired, "booking expired before check-in")
	case from.IsTerminal():
		return from, errs.Reason(errs.ErrBookingTerminal, "booking is already %s", from)
	default:
		return from, errs.Reason(errs.ErrInvalidTransition, "cannot %s a %s booking", ev, from)
	}
}

// Allowed reports whether ev is valid from the given status.
func Allowed(from Status, ev Event) bool {
	_, ok := transitions[from][ev]
	return ok
}
