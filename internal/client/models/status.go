package models

import (
	"fmt"
	"strings"
)

// Status is the member status filter of a list query. StatusAll disables
// filtering.
type Status string

const (
	StatusAll      Status = "all"
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusPending  Status = "pending"
)

// Payment states as reported by the payments endpoint. They share the
// Status type so the same query machinery can filter payments.
const (
	PaymentCompleted Status = "completed"
	PaymentPending   Status = "pending"
	PaymentFailed    Status = "failed"
)

// MemberStatuses lists the filter values accepted for members.
var MemberStatuses = []Status{StatusAll, StatusActive, StatusInactive, StatusPending}

// PaymentStatuses lists the filter values accepted for payments.
var PaymentStatuses = []Status{StatusAll, PaymentCompleted, PaymentPending, PaymentFailed}

// ParseStatus matches s case-insensitively against allowed. An empty string
// means StatusAll.
func ParseStatus(s string, allowed []Status) (Status, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return StatusAll, nil
	}
	for _, st := range allowed {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}
