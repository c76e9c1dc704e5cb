package response

import (
	"time"

	"parking-engine/internal/domain/booking"
	"parking-engine/internal/domain/pricing"
	"parking-engine/internal/usecase"
)

type BookingResponse struct {
	ID              string `json:"id"`
	TicketNumber    string `json:"ticket_number"`
	UserID          string `json:"user_id"`
	VehicleID       string `json:"vehicle_id"`
	SlotID          string `json:"slot_id"`
	Status          string `json:"status"`
	EntryTime       int64  `json:"entry_time"`
	CheckinDeadline *int64 `json:"checkin_deadline,omitempty"`
	CheckinTime     *int64 `json:"checkin_time,omitempty"`
	CheckoutTime    *int64 `json:"checkout_time,omitempty"`
	DurationHours   string `json:"duration_hours"`
	BaseAmount      string `json:"base_amount"`
	SurgeAmount     string `json:"surge_amount"`
	TotalAmount     string `json:"total_amount"`
	PrepaidAmount   string `json:"prepaid_amount"`
	RefundedAmount  string `json:"refunded_amount"`
	PaymentStatus   string `json:"payment_status"`
	Forfeited       bool   `json:"forfeited"`
	CreatedAt       int64  `json:"created_at"`
	UpdatedAt       int64  `json:"updated_at"`
}

func FromBooking(b *booking.Booking) *BookingResponse {
	return &BookingResponse{
		ID:              b.ID().String(),
		TicketNumber:    b.Ticket(),
		UserID:          b.UserID().String(),
		VehicleID:       b.VehicleID().String(),
		SlotID:          b.SlotID().String(),
		Status:          b.Status().String(),
		EntryTime:       b.EntryTime().Unix(),
		CheckinDeadline: unix(b.CheckinDeadline()),
		CheckinTime:     unix(b.CheckinTime()),
		CheckoutTime:    unix(b.CheckoutTime()),
		DurationHours:   b.DurationHours().StringFixed(2),
		BaseAmount:      b.BaseAmount().StringFixed(2),
		SurgeAmount:     b.SurgeAmount().StringFixed(2),
		TotalAmount:     b.TotalAmount().StringFixed(2),
		PrepaidAmount:   b.PrepaidAmount().StringFixed(2),
		RefundedAmount:  b.RefundedAmount().StringFixed(2),
		PaymentStatus:   b.PaymentStatus().String(),
		Forfeited:       b.Forfeited(),
		CreatedAt:       b.CreatedAt().Unix(),
		UpdatedAt:       b.UpdatedAt().Unix(),
	}
}

func FromBookings(bs []*booking.Booking) []*BookingResponse {
	res := make([]*BookingResponse, len(bs))
	for i, b := range bs {
		res[i] = FromBooking(b)
	}
	return res
}

type QuoteResponse struct {
	BaseRate      string `json:"base_rate"`
	DurationHours string `json:"duration_hours"`
	BaseAmount    string `json:"base_amount"`
	SurgeAmount   string `json:"surge_amount"`
	Discount      string `json:"discount"`
	TotalAmount   string `json:"total_amount"`
	IsPeak        bool   `json:"is_peak"`
	IsWeekend     bool   `json:"is_weekend"`
	IsNight       bool   `json:"is_night"`
	IsLongStay    bool   `json:"is_long_stay"`
}

func FromBreakdown(b pricing.Breakdown) *QuoteResponse {
	return &QuoteResponse{
		BaseRate:      b.BaseRate.StringFixed(2),
		DurationHours: b.DurationHours.StringFixed(2),
		BaseAmount:    b.BaseAmount.StringFixed(2),
		SurgeAmount:   b.SurgeAmount.StringFixed(2),
		Discount:      b.Discount.StringFixed(2),
		TotalAmount:   b.TotalAmount.StringFixed(2),
		IsPeak:        b.IsPeak,
		IsWeekend:     b.IsWeekend,
		IsNight:       b.IsNight,
		IsLongStay:    b.IsLongStay,
	}
}

type CheckoutResponse struct {
	Booking        *BookingResponse `json:"booking"`
	Charge         *QuoteResponse   `json:"charge"`
	Charged        string           `json:"charged"`
	Refunded       string           `json:"refunded"`
	LoyaltyAwarded int64            `json:"loyalty_awarded"`
	Balance        string           `json:"balance"`
}

func FromCheckout(r *usecase.CheckoutResult) *CheckoutResponse {
	return &CheckoutResponse{
		Booking:        FromBooking(r.Booking),
		Charge:         FromBreakdown(r.Charge),
		Charged:        r.Charged.StringFixed(2),
		Refunded:       r.Refunded.StringFixed(2),
		LoyaltyAwarded: r.LoyaltyAwarded,
		Balance:        r.Balance.StringFixed(2),
	}
}

// CheckinTokenResponse carries the token both as an object and as the exact
// payload a scanner would submit.
type CheckinTokenResponse struct {
	Token   booking.CheckinToken `json:"token"`
	Payload string               `json:"payload"`
}

func unix(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	v := t.Unix()
	return &v
}
