package feedback_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/abokiste/abokiste/internal/catalog"
	"github.com/abokiste/abokiste/internal/feedback"
)

func newService(t *testing.T) *feedback.Service {
	t.Helper()

	catalogRepo := catalog.NewInMemoryRepository()
	catalogRepo.AddAboBox(&catalog.AboBox{ID: "box_1", BoxType: "Breakfast"})

	return feedback.NewService(feedback.NewInMemoryRepository(), catalogRepo, zerolog.Nop())
}

func TestService_Create(t *testing.T) {
	service := newService(t)

	f, err := service.Create(context.Background(), "usr_1", "box_1", 4, "great selection")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !strings.HasPrefix(f.ID, "fbk_") {
		t.Errorf("expected feedback ID to start with 'fbk_', got %q", f.ID)
	}
	if f.Rating != 4 {
		t.Errorf("expected rating 4, got %d", f.Rating)
	}
}

func TestService_Create_RatingBounds(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	for _, rating := range []int{0, 6, -1} {
		if _, err := service.Create(ctx, "usr_1", "box_1", rating, ""); !errors.Is(err, feedback.ErrInvalidRating) {
			t.Errorf("rating %d: expected ErrInvalidRating, got %v", rating, err)
		}
	}
}

func TestService_Create_UnknownBox(t *testing.T) {
	service := newService(t)

	_, err := service.Create(context.Background(), "usr_1", "box_nope", 3, "")
	if !errors.Is(err, catalog.ErrAboBoxNotFound) {
		t.Fatalf("expected ErrAboBoxNotFound, got %v", err)
	}
}

func TestService_Create_OnePerUserPerBox(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	if _, err := service.Create(ctx, "usr_1", "box_1", 5, ""); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := service.Create(ctx, "usr_1", "box_1", 2, "changed my mind")
	if !errors.Is(err, feedback.ErrDuplicateFeedback) {
		t.Fatalf("expected ErrDuplicateFeedback, got %v", err)
	}

	// A different user can still rate the same box.
	if _, err := service.Create(ctx, "usr_2", "box_1", 3, ""); err != nil {
		t.Fatalf("second user create failed: %v", err)
	}
}

func TestService_ListByAboBox(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	if _, err := service.Create(ctx, "usr_1", "box_1", 5, ""); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := service.Create(ctx, "usr_2", "box_1", 3, ""); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	entries, err := service.ListByAboBox(ctx, "box_1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
}
