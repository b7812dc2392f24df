package user_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/abokiste/abokiste/internal/api/models"
	"github.com/abokiste/abokiste/internal/catalog"
	"github.com/abokiste/abokiste/internal/user"
)

func newService(t *testing.T) (*user.Service, *user.InMemoryRepository) {
	t.Helper()

	catalogRepo := catalog.NewInMemoryRepository()
	catalogRepo.AddCategory(&catalog.Category{ID: "cat_food", Type: "food"})
	catalogRepo.AddCategory(&catalog.Category{ID: "cat_fashion", Type: "fashion"})

	repo := user.NewInMemoryRepository()
	return user.NewService(repo, catalogRepo, zerolog.Nop()), repo
}

func registerRequest() *models.RegisterRequest {
	return &models.RegisterRequest{
		Email:     "anna@example.com",
		Password:  "correct-horse",
		FirstName: "Anna",
		LastName:  "Schmidt",
		Preferences: []models.PreferenceInput{
			{CategoryID: "cat_food", Level: 4, Source: "onboarding"},
		},
	}
}

func TestService_Register(t *testing.T) {
	service, _ := newService(t)

	u, err := service.Register(context.Background(), registerRequest())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if !strings.HasPrefix(u.ID, "usr_") {
		t.Errorf("expected user ID to start with 'usr_', got %q", u.ID)
	}
	if u.Role != user.RoleUser {
		t.Errorf("expected default role user, got %q", u.Role)
	}
	if u.SubscriptionStatus {
		t.Error("expected subscription to start inactive")
	}
	if u.PasswordHash == "correct-horse" {
		t.Error("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("correct-horse")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
	if len(u.Preferences) != 1 || u.Preferences[0].CategoryID != "cat_food" {
		t.Errorf("preferences not persisted: %+v", u.Preferences)
	}
}

func TestService_Register_EmailTaken(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	if _, err := service.Register(ctx, registerRequest()); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := service.Register(ctx, registerRequest())
	if !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestService_Register_ValidationErrors(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*models.RegisterRequest)
	}{
		{"missing email", func(r *models.RegisterRequest) { r.Email = "" }},
		{"invalid email", func(r *models.RegisterRequest) { r.Email = "not-an-email" }},
		{"short password", func(r *models.RegisterRequest) { r.Password = "short" }},
		{"preference level too high", func(r *models.RegisterRequest) { r.Preferences[0].Level = 6 }},
		{"unknown category", func(r *models.RegisterRequest) { r.Preferences[0].CategoryID = "cat_nope" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := registerRequest()
			tt.mutate(req)

			_, err := service.Register(ctx, req)
			var validationErr *user.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if len(validationErr.Errors) == 0 {
				t.Error("expected field errors")
			}
		})
	}
}

func TestService_UpdatePreferences_Merges(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	u, err := service.Register(ctx, registerRequest())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Replace the food preference, add a fashion one.
	merged, err := service.UpdatePreferences(ctx, u.ID, []models.PreferenceInput{
		{CategoryID: "cat_food", Level: 1},
		{CategoryID: "cat_fashion", Level: 3},
	})
	if err != nil {
		t.Fatalf("update preferences failed: %v", err)
	}

	if len(merged) != 2 {
		t.Fatalf("expected 2 preferences, got %d", len(merged))
	}
	if merged[0].CategoryID != "cat_food" || merged[0].Level != 1 {
		t.Errorf("food preference not replaced: %+v", merged[0])
	}
	if merged[1].CategoryID != "cat_fashion" || merged[1].Level != 3 {
		t.Errorf("fashion preference not appended: %+v", merged[1])
	}
}

func TestService_UpdatePreferences_OnlyRegularUsers(t *testing.T) {
	service, repo := newService(t)
	ctx := context.Background()

	if err := repo.Create(ctx, &user.User{ID: "usr_admin", Email: "admin@example.com", Role: user.RoleAdmin}); err != nil {
		t.Fatalf("seeding admin: %v", err)
	}

	_, err := service.UpdatePreferences(ctx, "usr_admin", []models.PreferenceInput{
		{CategoryID: "cat_food", Level: 2},
	})
	if !errors.Is(err, user.ErrNotRegularUser) {
		t.Fatalf("expected ErrNotRegularUser, got %v", err)
	}
}

func TestService_DeletePreferences(t *testing.T) {
	service, repo := newService(t)
	ctx := context.Background()

	u, err := service.Register(ctx, registerRequest())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := service.DeletePreferences(ctx, u.ID); err != nil {
		t.Fatalf("delete preferences failed: %v", err)
	}

	stored, err := repo.Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(stored.Preferences) != 0 {
		t.Errorf("expected no preferences, got %+v", stored.Preferences)
	}
}

func TestService_Update_RehashesPassword(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	u, err := service.Register(ctx, registerRequest())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	oldHash := u.PasswordHash

	password := "new-password-123"
	updated, err := service.Update(ctx, u.ID, &models.UserUpdateRequest{Password: &password})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.PasswordHash == oldHash {
		t.Error("password hash unchanged")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte(password)); err != nil {
		t.Errorf("new hash does not match new password: %v", err)
	}
}

func TestService_Update_UnknownUser(t *testing.T) {
	service, _ := newService(t)

	first := "Berta"
	_, err := service.Update(context.Background(), "usr_missing", &models.UserUpdateRequest{FirstName: &first})
	if !errors.Is(err, user.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
