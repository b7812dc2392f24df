package feedback

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abokiste/abokiste/internal/catalog"
)

// Service errors.
var (
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// AboBoxSource resolves abo boxes so feedback can only target existing ones.
type AboBoxSource interface {
	GetAboBox(ctx context.Context, id string) (*catalog.AboBox, error)
}

// Service provides feedback operations.
type Service struct {
	repo   Repository
	boxes  AboBoxSource
	logger zerolog.Logger
}

// NewService creates a new feedback service.
func NewService(repo Repository, boxes AboBoxSource, logger zerolog.Logger) *Service {
	return &Service{repo: repo, boxes: boxes, logger: logger}
}

// Create records a user's rating for an abo box.
func (s *Service) Create(ctx context.Context, userID, aboBoxID string, rating int, comment string) (*Feedback, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	if _, err := s.boxes.GetAboBox(ctx, aboBoxID); err != nil {
		return nil, err
	}

	f := &Feedback{
		ID:        "fbk_" + uuid.New().String()[:22],
		UserID:    userID,
		AboBoxID:  aboBoxID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("feedback_id", f.ID).
		Str("abo_box_id", aboBoxID).
		Int("rating", rating).
		Msg("feedback recorded")

	return f, nil
}

// ListByAboBox returns all feedback for a box.
func (s *Service) ListByAboBox(ctx context.Context, aboBoxID string) ([]Feedback, error) {
	if _, err := s.boxes.GetAboBox(ctx, aboBoxID); err != nil {
		return nil, err
	}
	return s.repo.ListByAboBox(ctx, aboBoxID)
}
