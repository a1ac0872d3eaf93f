package model

import "time"

// UserEntity represents the users table entity
type UserEntity struct {
	ID          uint64     `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	PhoneNumber string     `db:"phone_number" json:"phone_number"`
	CountryCode string     `db:"country_code" json:"country_code"`
	IsActive    bool       `db:"is_active" json:"is_active"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// UserFilter for querying users. Phone filters match active rows only.
type UserFilter struct {
	ID          uint64
	PhoneNumber string
	ActiveOnly  bool
}

// OnboardRequest for creating or updating a user from the start screen
type OnboardRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	CountryCode string `json:"country_code,omitempty"`
}

// OnboardResponse returns the user row plus a session token for
// subsequent authenticated calls.
type OnboardResponse struct {
	User    *UserEntity `json:"user"`
	Token   string      `json:"token"`
	Created bool        `json:"created"`
}
