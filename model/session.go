package model

import "time"

// SessionRecord is the per-device pointer to the last onboarded user.
// It mirrors a subset of the user row plus the last login time; the
// user directory stays the source of truth.
type SessionRecord struct {
	UserID      uint64    `json:"user_id"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phone_number"`
	CountryCode string    `json:"country_code"`
	LastLogin   time.Time `json:"last_login"`
}

// RestoreResponse for the cold-start session restore call
type RestoreResponse struct {
	User  *UserEntity `json:"user,omitempty"`
	Token string      `json:"token,omitempty"`
	Found bool        `json:"found"`
}
