package model

import (
	"errors"
	"time"
)

// User represents an account in the system. OAuth-only accounts carry
// SocialOnly=true and an empty password hash; local password login is
// disallowed for them.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	Email          string    `db:"email" json:"email"`
	PasswordHashed string    `db:"password_hashed" json:"-"`
	Name           string    `db:"name" json:"name"`
	AvatarURL      *string   `db:"avatar_url" json:"avatar_url"`
	Location       *string   `db:"location" json:"location"`
	SocialOnly     bool      `db:"social_only" json:"social_only"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`

	// Joined field: the user's uploaded videos, newest first.
	Videos []Video `json:"videos,omitempty"`
}

// JoinRequest carries the registration form fields.
type JoinRequest struct {
	Name                 string
	Username             string
	Email                string
	Password             string
	PasswordConfirmation string
	Location             string
}

// LoginRequest carries the local login form fields.
type LoginRequest struct {
	Username string
	Password string
}

// UpdateProfileRequest carries the profile edit form fields. AvatarURL is set
// only when a new avatar was uploaded.
type UpdateProfileRequest struct {
	Name      string
	Email     string
	Username  string
	Location  string
	AvatarURL *string
}

// ChangePasswordRequest carries the password change form fields.
type ChangePasswordRequest struct {
	OldPassword             string
	NewPassword             string
	NewPasswordConfirmation string
}

var (
	// ErrUserNotFound is returned when a user cannot be found.
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameOrEmailTaken is returned on registration when another
	// account already holds the username or email.
	ErrUsernameOrEmailTaken = errors.New("this username/email is already taken")

	// ErrEmailTaken and ErrUsernameTaken are returned on profile edit when
	// the new value collides with a different account.
	ErrEmailTaken    = errors.New("this email is already taken")
	ErrUsernameTaken = errors.New("this username is already taken")

	// ErrPasswordMismatch is returned when a password and its confirmation
	// differ.
	ErrPasswordMismatch = errors.New("password confirmation does not match")

	// ErrNoLocalAccount is returned on login when no non-social account
	// matches the username. The message intentionally matches the historical
	// one, even when an OAuth-only account shares the username.
	ErrNoLocalAccount = errors.New("an account with username does not exists")

	// ErrWrongPassword is returned when the supplied password fails the hash
	// comparison.
	ErrWrongPassword = errors.New("wrong password")

	// ErrSocialOnlyAccount is returned when a password operation is attempted
	// on an account without a local password.
	ErrSocialOnlyAccount = errors.New("account has no local password")
)
