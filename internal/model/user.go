package model

import (
	"fmt"
	"time"
)

// User represents a user in the system
type User struct {
	ID             string    `db:"id" json:"id"`
	ExternalAuthID string    `db:"external_auth_id" json:"-"`
	Name           string    `db:"name" json:"name"`
	Username       string    `db:"username" json:"username"`
	Email          *string   `db:"email" json:"email,omitempty"`
	Image          string    `db:"image" json:"image"`
	Bio            string    `db:"bio" json:"bio"`
	Location       string    `db:"location" json:"location"`
	Website        string    `db:"website" json:"website"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// UserSummary is the minimal projection of a user embedded in other payloads.
type UserSummary struct {
	ID       string `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Username string `db:"username" json:"username"`
	Image    string `db:"image" json:"image"`
}

// Profile is a user with relation counts, as shown on a profile page.
type Profile struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Username       string    `db:"username" json:"username"`
	Image          string    `db:"image" json:"image"`
	Bio            string    `db:"bio" json:"bio"`
	Location       string    `db:"location" json:"location"`
	Website        string    `db:"website" json:"website"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	FollowerCount  int       `db:"follower_count" json:"follower_count"`
	FollowingCount int       `db:"following_count" json:"following_count"`
	PostCount      int       `db:"post_count" json:"post_count"`
}

// SuggestedUser is a follow suggestion with the candidate's follower count.
type SuggestedUser struct {
	UserSummary
	FollowerCount int `db:"follower_count" json:"follower_count"`
}

// UpdateProfileRequest carries the editable profile fields.
type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	Location string `json:"location"`
	Website  string `json:"website"`
}

// ProfileResult is returned by profile updates. Skipped is set when there was no actor.
type ProfileResult struct {
	Skipped bool  `json:"skipped,omitempty"`
	User    *User `json:"user,omitempty"`
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)

	// ErrEmailTaken is returned when another account already owns the email
	ErrEmailTaken = fmt.Errorf("email already registered: %w", ErrConflict)

	// ErrUsernameTaken is returned when no free username could be derived
	ErrUsernameTaken = fmt.Errorf("username already exists: %w", ErrConflict)

	// ErrMissingIdentity is returned when a principal has neither a handle nor an email
	ErrMissingIdentity = fmt.Errorf("principal has no handle or email: %w", ErrInvalidInput)

	// ErrEmptyName is returned when a profile update clears the display name
	ErrEmptyName = fmt.Errorf("name is required: %w", ErrInvalidInput)

	// ErrMissingExternalID is returned when a principal has no subject
	ErrMissingExternalID = fmt.Errorf("principal has no external id: %w", ErrInvalidInput)
)
