package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/abokiste/abokiste/internal/api/models"
	"github.com/abokiste/abokiste/internal/catalog"
)

// Service errors.
var (
	// ErrNotRegularUser is returned when a preference operation is
	// attempted on an admin or supplier account.
	ErrNotRegularUser = errors.New("only regular users have preferences")
)

// Validation constants.
const (
	MinPreferenceLevel = 0
	MaxPreferenceLevel = 5
	MinPasswordLength  = 8
)

// CategorySource resolves catalog categories for preference validation.
type CategorySource interface {
	GetCategory(ctx context.Context, id string) (*catalog.Category, error)
}

// Service provides user account and preference operations.
type Service struct {
	repo       Repository
	categories CategorySource
	logger     zerolog.Logger
}

// NewService creates a new user service.
func NewService(repo Repository, categories CategorySource, logger zerolog.Logger) *Service {
	return &Service{repo: repo, categories: categories, logger: logger}
}

// Register creates a new account. The role defaults to "user" and the
// subscription starts inactive. Every preference must reference an
// existing category before anything is persisted.
func (s *Service) Register(ctx context.Context, input *models.RegisterRequest) (*User, error) {
	if fieldErrors := s.validateRegisterInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	_, err := s.repo.GetByEmail(ctx, input.Email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	role := RoleUser
	if input.Role != nil {
		role = Role(*input.Role)
	}

	preferences := toPreferences(input.Preferences)
	if err := s.validatePreferences(ctx, preferences); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	u := &User{
		ID:           "usr_" + uuid.New().String()[:22],
		Email:        input.Email,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         role,
		ReferredBy:   input.ReferredBy,
		Preferences:  preferences,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", u.ID).
		Str("role", string(u.Role)).
		Msg("user registered")

	return u, nil
}

// Get retrieves a user by ID.
func (s *Service) Get(ctx context.Context, userID string) (*User, error) {
	return s.repo.Get(ctx, userID)
}

// List returns all users.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Update applies partial updates to a user account. A new password is
// re-hashed before persisting.
func (s *Service) Update(ctx context.Context, userID string, input *models.UserUpdateRequest) (*User, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		if _, err := mail.ParseAddress(*input.Email); err != nil {
			return nil, &ValidationError{Errors: []models.FieldError{{Field: "email", Message: "must be a valid email address"}}}
		}
		u.Email = *input.Email
	}
	if input.Password != nil {
		if len(*input.Password) < MinPasswordLength {
			return nil, &ValidationError{Errors: []models.FieldError{{Field: "password", Message: fmt.Sprintf("must be at least %d characters", MinPasswordLength)}}}
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}
	if input.FirstName != nil {
		u.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		u.LastName = *input.LastName
	}
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete deletes a user account.
func (s *Service) Delete(ctx context.Context, userID string) error {
	return s.repo.Delete(ctx, userID)
}

// UpdatePreferences merges the given preferences into the user's list,
// keyed by category id: an entry for a known category replaces the
// existing one, anything else is appended. Only regular users carry
// preferences.
func (s *Service) UpdatePreferences(ctx context.Context, userID string, inputs []models.PreferenceInput) ([]Preference, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Role != RoleUser {
		return nil, ErrNotRegularUser
	}

	incoming := toPreferences(inputs)
	if err := s.validatePreferences(ctx, incoming); err != nil {
		return nil, err
	}

	merged := append([]Preference(nil), u.Preferences...)
	for _, pref := range incoming {
		replaced := false
		for i := range merged {
			if merged[i].CategoryID == pref.CategoryID {
				merged[i] = pref
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, pref)
		}
	}

	if err := s.repo.UpdatePreferences(ctx, userID, merged); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("user_id", userID).
		Int("preference_count", len(merged)).
		Msg("preferences updated")

	return merged, nil
}

// DeletePreferences clears the user's preference list. Only regular
// users carry preferences.
func (s *Service) DeletePreferences(ctx context.Context, userID string) error {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if u.Role != RoleUser {
		return ErrNotRegularUser
	}
	return s.repo.UpdatePreferences(ctx, userID, nil)
}

// validatePreferences checks level bounds and that every referenced
// category exists.
func (s *Service) validatePreferences(ctx context.Context, preferences []Preference) error {
	var errs []models.FieldError
	for i, pref := range preferences {
		if pref.CategoryID == "" {
			errs = append(errs, models.FieldError{
				Field:   fmt.Sprintf("preferences[%d].categoryId", i),
				Message: "is required",
			})
			continue
		}
		if pref.Level < MinPreferenceLevel || pref.Level > MaxPreferenceLevel {
			errs = append(errs, models.FieldError{
				Field:   fmt.Sprintf("preferences[%d].preferenceLevel", i),
				Message: fmt.Sprintf("must be between %d and %d", MinPreferenceLevel, MaxPreferenceLevel),
			})
		}
		if _, err := s.categories.GetCategory(ctx, pref.CategoryID); err != nil {
			if errors.Is(err, catalog.ErrCategoryNotFound) {
				errs = append(errs, models.FieldError{
					Field:   fmt.Sprintf("preferences[%d].categoryId", i),
					Message: "references an unknown category",
				})
				continue
			}
			return err
		}
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

func (s *Service) validateRegisterInput(input *models.RegisterRequest) []models.FieldError {
	var errs []models.FieldError

	if input.Email == "" {
		errs = append(errs, models.FieldError{Field: "email", Message: "is required"})
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		errs = append(errs, models.FieldError{Field: "email", Message: "must be a valid email address"})
	}

	if len(input.Password) < MinPasswordLength {
		errs = append(errs, models.FieldError{Field: "password", Message: fmt.Sprintf("must be at least %d characters", MinPasswordLength)})
	}

	if input.Role != nil && !Role(*input.Role).Valid() {
		errs = append(errs, models.FieldError{Field: "role", Message: "must be one of user, admin, supplier"})
	}

	return errs
}

func toPreferences(inputs []models.PreferenceInput) []Preference {
	preferences := make([]Preference, 0, len(inputs))
	for _, in := range inputs {
		preferences = append(preferences, Preference{
			CategoryID: in.CategoryID,
			Level:      in.Level,
			Source:     in.Source,
		})
	}
	return preferences
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s)", len(e.Errors))
}
