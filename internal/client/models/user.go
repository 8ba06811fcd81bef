package models

import "strings"

// Membership plans offered by the gym.
const (
	MembershipBasic   = "basic"
	MembershipPremium = "premium"
	MembershipVIP     = "vip"
)

// User is a gym member. CardID is the RFID card number and the member's
// identity in every mutation URL.
type User struct {
	ID         int64  `json:"id,omitempty"`
	CardID     string `json:"card_id" validate:"notblank"`
	Name       string `json:"name" validate:"notblank"`
	Email      string `json:"email" validate:"notblank,email"`
	Phone      string `json:"phone" validate:"notblank,min=9"`
	Membership string `json:"membership,omitempty" validate:"omitempty,oneof=basic premium vip"`
	Status     Status `json:"status,omitempty"`
	LastAccess string `json:"lastAccess,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

func (u User) Key() string { return u.CardID }

// Validate checks the member form. The email is trimmed before the shape
// check.
func (u User) Validate() error {
	u.Email = strings.TrimSpace(u.Email)
	u.Phone = strings.TrimSpace(u.Phone)
	return validateStruct(u)
}

// Matches reports whether the member passes the search term (name or email,
// case-insensitive) and the status filter.
func (u User) Matches(q QueryState) bool {
	if q.Status != "" && q.Status != StatusAll && u.Status != q.Status {
		return false
	}
	return containsFold(q.Search, u.Name, u.Email)
}

// IsActive treats an empty status as active, the API default for new members.
func (u User) IsActive() bool {
	return u.Status == "" || u.Status == StatusActive
}

func containsFold(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
