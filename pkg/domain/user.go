package domain

import "time"

// newUserWindow is how long a signup is flagged as new.
const newUserWindow = 24 * time.Hour

// SiteUser is a visitor who registered through the OTP signup.
type SiteUser struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Username    string    `json:"username"`
	Phone       string    `json:"phone"`
	PhoneNumber string    `json:"phoneNumber"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DisplayName returns the first non-empty of name and username.
func (u SiteUser) DisplayName() string {
	switch {
	case u.Name != "":
		return u.Name
	case u.Username != "":
		return u.Username
	default:
		return "N/A"
	}
}

// DisplayPhone returns the first non-empty phone field.
func (u SiteUser) DisplayPhone() string {
	switch {
	case u.Phone != "":
		return u.Phone
	case u.PhoneNumber != "":
		return u.PhoneNumber
	default:
		return "N/A"
	}
}

// IsNew reports whether the user signed up within the last 24 hours of now.
func (u SiteUser) IsNew(now time.Time) bool {
	if u.CreatedAt.IsZero() {
		return false
	}
	return now.Sub(u.CreatedAt) <= newUserWindow
}
