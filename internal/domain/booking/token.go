package booking

import (
	"encoding/json"
	"slices"
	"strings"

	"parking-engine/internal/pkg/errs"
)

const TokenType = "parking_booking"

// CheckinToken is the payload a gate scanner presents at check-in.
type CheckinToken struct {
	Type      string `json:"type"`
	BookingID string `json:"booking_id"`
	Ticket    string `json:"ticket"`
	UserID    string `json:"user_id"`
	Vehicle   string `json:"vehicle"`
	Slot      string `json:"slot"`
}

func NewCheckinToken(b *Booking, plate, slotNumber string) CheckinToken {
	return CheckinToken{
		Type:      TokenType,
		BookingID: b.ID().String(),
		Ticket:    b.Ticket(),
		UserID:    b.UserID().String(),
		Vehicle:   plate,
		Slot:      slotNumber,
	}
}

func (t CheckinToken) Encode() ([]byte, error) {
	return json.Marshal(t)
}

func (t CheckinToken) Validate() error {
	if t.Type != TokenType {
		return errs.Reason(errs.ErrInvalidInput, "unsupported token type %q", t.Type)
	}
	missing := make([]string, 0, 5)
	for name, v := range map[string]string{
		"booking_id": t.BookingID,
		"ticket":     t.Ticket,
		"user_id":    t.UserID,
		"vehicle":    t.Vehicle,
		"slot":       t.Slot,
	} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return errs.Reason(errs.ErrInvalidInput, "token is missing fields %v", missing)
	}
	return nil
}

func ParseCheckinToken(data []byte) (CheckinToken, error) {
	var t CheckinToken
	if err := json.Unmarshal(data, &t); err != nil {
		return CheckinToken{}, errs.Reason(errs.ErrInvalidInput, "token is not valid JSON: %v", err)
	}
	if err := t.Validate(); err != nil {
		return CheckinToken{}, err
	}
	return t, nil
}
