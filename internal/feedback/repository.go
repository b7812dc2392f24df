package feedback

import (
	"context"
	"sync"
)

// Repository defines the interface for feedback data persistence.
type Repository interface {
	// Create inserts a new feedback entry. Returns ErrDuplicateFeedback
	// if the user already rated the box.
	Create(ctx context.Context, feedback *Feedback) error

	// GetByUserAndBox retrieves a user's feedback for a box.
	GetByUserAndBox(ctx context.Context, userID, aboBoxID string) (*Feedback, error)

	// ListByAboBox returns all feedback for a box.
	ListByAboBox(ctx context.Context, aboBoxID string) ([]Feedback, error)
}

// InMemoryRepository is an in-memory implementation of Repository.
// Intended for tests; production uses the PostgreSQL implementation.
type InMemoryRepository struct {
	mu      sync.RWMutex
	entries []Feedback
}

// NewInMemoryRepository creates a new in-memory feedback repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

// Create inserts a new feedback entry.
func (r *InMemoryRepository) Create(_ context.Context, feedback *Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.entries {
		if existing.UserID == feedback.UserID && existing.AboBoxID == feedback.AboBoxID {
			return ErrDuplicateFeedback
		}
	}
	r.entries = append(r.entries, *feedback)
	return nil
}

// GetByUserAndBox retrieves a user's feedback for a box.
func (r *InMemoryRepository) GetByUserAndBox(_ context.Context, userID, aboBoxID string) (*Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, existing := range r.entries {
		if existing.UserID == userID && existing.AboBoxID == aboBoxID {
			f := existing
			return &f, nil
		}
	}
	return nil, ErrFeedbackNotFound
}

// ListByAboBox returns all feedback for a box in insertion order.
func (r *InMemoryRepository) ListByAboBox(_ context.Context, aboBoxID string) ([]Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Feedback
	for _, existing := range r.entries {
		if existing.AboBoxID == aboBoxID {
			result = append(result, existing)
		}
	}
	return result, nil
}
