package models

// Admin is the authenticated back office operator returned by /verify-token.
type Admin struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email"`
	Name  string `json:"nombre,omitempty"`
	Role  string `json:"rol,omitempty"`
}

// Metrics is the dashboard summary for a date range.
type Metrics struct {
	ActiveMembers     int     `json:"active_members"`
	MonthlyRevenue    float64 `json:"monthly_revenue"`
	ScheduledClasses  int     `json:"scheduled_classes"`
	NewMembers        int     `json:"new_members"`
	AverageAttendance float64 `json:"average_attendance"`
	PeakHour          string  `json:"peak_hour,omitempty"`
	PopularClass      string  `json:"popular_class,omitempty"`
}

// MembershipDistribution counts members per plan.
type MembershipDistribution struct {
	Basic   int `json:"basic"`
	Premium int `json:"premium"`
	VIP     int `json:"vip"`
}

// UsersReport is the payload of /reports/users.
type UsersReport struct {
	Users                  []User                 `json:"users"`
	TotalUsers             int                    `json:"total_users"`
	ActiveUsers            int                    `json:"active_users"`
	MembershipDistribution MembershipDistribution `json:"membership_distribution"`
}

// ActiveRatio is the share of active members in [0,1]; zero when there are
// no members at all.
func (r UsersReport) ActiveRatio() float64 {
	if r.TotalUsers <= 0 {
		return 0
	}
	return float64(r.ActiveUsers) / float64(r.TotalUsers)
}

// GymConfig is the branding configuration.
type GymConfig struct {
	GymName string `json:"gym_name,omitempty"`
	LogoURL string `json:"gym_logo,omitempty"`
}

// ConfigSetting is the body of a configuration update.
type ConfigSetting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// AccessResult is the answer of a front desk card check.
type AccessResult struct {
	Access  bool   `json:"access"`
	Message string `json:"message"`
}
