package response

import "parking-engine/internal/domain/wallet"

type WalletResponse struct {
	UserID        string `json:"user_id"`
	Balance       string `json:"balance"`
	LoyaltyPoints int64  `json:"loyalty_points"`
	UpdatedAt     int64  `json:"updated_at"`
}

func FromAccount(a *wallet.Account) *WalletResponse {
	return &WalletResponse{
		UserID:        a.UserID().String(),
		Balance:       a.Balance().StringFixed(2),
		LoyaltyPoints: a.LoyaltyPoints(),
		UpdatedAt:     a.UpdatedAt().Unix(),
	}
}

type PaymentResponse struct {
	ID            string `json:"id"`
	BookingID     string `json:"booking_id"`
	Amount        string `json:"amount"`
	Kind          string `json:"kind"`
	Method        string `json:"method"`
	TransactionID string `json:"transaction_id"`
	CreatedAt     int64  `json:"created_at"`
}

func FromPayments(ps []*wallet.Payment) []*PaymentResponse {
	res := make([]*PaymentResponse, len(ps))
	for i, p := range ps {
		res[i] = &PaymentResponse{
			ID:            p.ID().String(),
			BookingID:     p.BookingID().String(),
			Amount:        p.Amount().StringFixed(2),
			Kind:          p.Kind().String(),
			Method:        p.Method(),
			TransactionID: p.TransactionID(),
			CreatedAt:     p.CreatedAt().Unix(),
		}
	}
	return res
}
