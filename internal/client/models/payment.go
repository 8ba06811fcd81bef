package models

import "strconv"

// Payment methods accepted at the front desk.
const (
	MethodCash     = "cash"
	MethodCard     = "card"
	MethodTransfer = "transfer"
	MethodATHMovil = "ath_movil"
)

// Payment is a single charge registered for a member.
type Payment struct {
	ID            int64   `json:"id,omitempty"`
	UserID        string  `json:"user_id" validate:"notblank"`
	Amount        float64 `json:"amount" validate:"gt=0"`
	PaymentMethod string  `json:"payment_method" validate:"required,oneof=cash card transfer ath_movil"`
	Status        Status  `json:"status,omitempty"`
	Description   string  `json:"description,omitempty"`
	CreatedAt     string  `json:"created_at,omitempty"`
}

func (p Payment) Key() string {
	if p.ID == 0 {
		return ""
	}
	return strconv.FormatInt(p.ID, 10)
}

func (p Payment) Validate() error {
	return validateStruct(p)
}

// Matches searches member id and description and applies the status filter.
func (p Payment) Matches(q QueryState) bool {
	if q.Status != "" && q.Status != StatusAll && p.Status != q.Status {
		return false
	}
	return containsFold(q.Search, p.UserID, p.Description)
}

// TotalAmount sums the amounts of ps.
func TotalAmount(ps []Payment) float64 {
	var total float64
	for _, p := range ps {
		total += p.Amount
	}
	return total
}
