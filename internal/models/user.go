package models

import (
	"time"
)

type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize in JSON
	IsActive     bool      `json:"is_active" db:"is_active"`
	IsStaff      bool      `json:"is_staff" db:"is_staff"`
	DateJoined   time.Time `json:"date_joined" db:"date_joined"`
}

// UserProfile is the one-to-one companion of User holding presentation data.
type UserProfile struct {
	UserID      int64     `json:"user_id" db:"user_id"`
	DisplayName string    `json:"display_name" db:"display_name"`
	Avatar      string    `json:"-" db:"avatar"` // object key
	AvatarURL   string    `json:"avatar"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CurrentUser is the payload of GET /me.
type CurrentUser struct {
	*User
	Profile *UserProfile `json:"profile"`
}
