// Package user provides user accounts, roles and category preferences.
//
// Preferences drive the abo box recommendation engine: each entry maps a
// catalog category to an integer affinity level. The list is keyed by
// category id and merged on update, so a user carries at most one entry
// per category.
package user

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email address already registered")
)

// Role identifies what an account is allowed to do.
type Role string

// Roles.
const (
	RoleUser     Role = "user"
	RoleAdmin    Role = "admin"
	RoleSupplier Role = "supplier"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSupplier:
		return true
	}
	return false
}

// Preference is a user's affinity for a product category.
type Preference struct {
	// CategoryID references a catalog category.
	CategoryID string `json:"categoryId"`

	// Level is the integer affinity score, 0 (indifferent) to 5 (strong).
	Level int `json:"preferenceLevel"`

	// Source records how the preference was captured, e.g. "onboarding"
	// or "purchase-history".
	Source string `json:"source,omitempty"`
}

// User represents a platform account.
type User struct {
	// ID is the unique user identifier (format: usr_XXXX).
	ID string

	Email        string
	PasswordHash string
	FirstName    string
	LastName     string

	// SubscriptionStatus is true while the user has an active abo box
	// subscription.
	SubscriptionStatus bool

	Role Role

	// ReferredBy optionally references the user who referred this one.
	ReferredBy string

	// Preferences hold the user's category affinities, at most one per
	// category.
	Preferences []Preference

	CreatedAt time.Time
	UpdatedAt time.Time
}
