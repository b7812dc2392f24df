// Package feedback provides abo box ratings. A user leaves at most one
// feedback per box.
package feedback

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrFeedbackNotFound  = errors.New("feedback not found")
	ErrDuplicateFeedback = errors.New("user already rated this abo box")
)

// Feedback is a user's rating of an abo box.
type Feedback struct {
	// ID is the unique feedback identifier (format: fbk_XXXX).
	ID string

	// UserID and AboBoxID form the logical uniqueness key.
	UserID   string
	AboBoxID string

	// Rating is 1 (worst) to 5 (best).
	Rating int

	Comment string

	CreatedAt time.Time
}
