package model

import (
	"time"

	"github.com/google/uuid"
)

type UserStatus string

const (
	UserStatusActive UserStatus = "active"
	UserStatusLocked UserStatus = "locked"
)

type User struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	Email             string     `db:"email" json:"email"`
	PasswordHash      string     `db:"password_hash" json:"-"`
	FullName          string     `db:"full_name" json:"full_name"`
	PhoneNumber       *string    `db:"phone_number" json:"phone_number,omitempty"`
	Location          *string    `db:"location" json:"location,omitempty"`
	PreferredLanguage string     `db:"preferred_language" json:"preferred_language"`
	Status            UserStatus `db:"status" json:"status"`
	LoginAttempts     int        `db:"login_attempts" json:"-"`
	LastLoginAttempt  time.Time  `db:"last_login_attempt" json:"-"`
	LastLoginAt       *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

type RegisterRequest struct {
	Email             string `json:"email" binding:"required,email"`
	Password          string `json:"password" binding:"required,min=8"`
	FullName          string `json:"full_name" binding:"required"`
	PreferredLanguage string `json:"preferred_language" binding:"omitempty,language"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        *User     `json:"user"`
}

type UpdateProfileRequest struct {
	FullName          *string `json:"full_name"`
	PhoneNumber       *string `json:"phone_number"`
	Location          *string `json:"location"`
	PreferredLanguage *string `json:"preferred_language" binding:"omitempty,language"`
}
