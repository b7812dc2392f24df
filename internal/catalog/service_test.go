package catalog_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/abokiste/abokiste/internal/catalog"
)

func seedRepo(t *testing.T) *catalog.InMemoryRepository {
	t.Helper()

	repo := catalog.NewInMemoryRepository()
	repo.AddCategory(&catalog.Category{ID: "cat_food", Type: "food"})
	repo.AddSupplier(&catalog.Supplier{ID: "sup_1", Name: "Hofladen Nord"})
	repo.AddSupplier(&catalog.Supplier{ID: "sup_2", Name: "Kerzenwerk"})

	products := []catalog.Product{
		{ID: "prd_tea", Name: "Herbal Tea", CategoryIDs: []string{"cat_food"}, SupplierID: "sup_1", StockLevel: 20, Price: 500},
		{ID: "prd_honey", Name: "Honey", CategoryIDs: []string{"cat_food"}, SupplierID: "sup_2", StockLevel: 5, Price: 800},
	}
	ctx := context.Background()
	for i := range products {
		if err := repo.CreateProduct(ctx, &products[i]); err != nil {
			t.Fatalf("seeding product: %v", err)
		}
	}

	repo.AddAboBox(&catalog.AboBox{ID: "box_1", BoxType: "Breakfast", ProductIDs: []string{"prd_tea", "prd_honey", "prd_deleted"}})
	return repo
}

func TestService_ListProducts_ResolvesReferences(t *testing.T) {
	service := catalog.NewService(seedRepo(t), zerolog.Nop())

	products, err := service.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("list products failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}

	first := products[0]
	if first.ID != "prd_tea" {
		t.Errorf("expected prd_tea first, got %q", first.ID)
	}
	if len(first.Categories) != 1 || first.Categories[0].ID != "cat_food" {
		t.Errorf("categories not resolved: %+v", first.Categories)
	}
	if first.Supplier == nil || first.Supplier.Name != "Hofladen Nord" {
		t.Errorf("supplier not resolved: %+v", first.Supplier)
	}
}

func TestService_CreateProduct(t *testing.T) {
	service := catalog.NewService(seedRepo(t), zerolog.Nop())
	ctx := context.Background()

	product, err := service.CreateProduct(ctx, catalog.CreateProductInput{
		Name:        "Jam",
		Price:       650,
		StockLevel:  30,
		CategoryIDs: []string{"cat_food"},
		SupplierID:  "sup_1",
	})
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if !strings.HasPrefix(product.ID, "prd_") {
		t.Errorf("expected product ID to start with 'prd_', got %q", product.ID)
	}

	tests := []struct {
		name    string
		input   catalog.CreateProductInput
		wantErr error
	}{
		{
			name: "duplicate name",
			input: catalog.CreateProductInput{
				Name: "Herbal Tea", Price: 100, CategoryIDs: []string{"cat_food"}, SupplierID: "sup_1",
			},
			wantErr: catalog.ErrProductExists,
		},
		{
			name: "unknown category",
			input: catalog.CreateProductInput{
				Name: "Candle", Price: 100, CategoryIDs: []string{"cat_nope"}, SupplierID: "sup_1",
			},
			wantErr: catalog.ErrCategoryNotFound,
		},
		{
			name: "unknown supplier",
			input: catalog.CreateProductInput{
				Name: "Candle", Price: 100, CategoryIDs: []string{"cat_food"}, SupplierID: "sup_nope",
			},
			wantErr: catalog.ErrSupplierNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateProduct(ctx, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestService_UpdateStock_ChecksOwnership(t *testing.T) {
	service := catalog.NewService(seedRepo(t), zerolog.Nop())
	ctx := context.Background()

	product, err := service.UpdateStock(ctx, "sup_1", "prd_tea", 42)
	if err != nil {
		t.Fatalf("update stock failed: %v", err)
	}
	if product.StockLevel != 42 {
		t.Errorf("expected stock 42, got %d", product.StockLevel)
	}

	if _, err := service.UpdateStock(ctx, "sup_2", "prd_tea", 10); !errors.Is(err, catalog.ErrNotProductOwner) {
		t.Fatalf("expected ErrNotProductOwner, got %v", err)
	}
}

func TestService_AdjustStock_FloorsAtZero(t *testing.T) {
	service := catalog.NewService(seedRepo(t), zerolog.Nop())
	ctx := context.Background()

	level, err := service.AdjustStock(ctx, "prd_honey", -3)
	if err != nil {
		t.Fatalf("adjust stock failed: %v", err)
	}
	if level != 2 {
		t.Errorf("expected stock 2, got %d", level)
	}

	level, err = service.AdjustStock(ctx, "prd_honey", -100)
	if err != nil {
		t.Fatalf("adjust stock failed: %v", err)
	}
	if level != 0 {
		t.Errorf("expected stock floored at 0, got %d", level)
	}
}

func TestService_AboBoxesWithProducts_DropsMissing(t *testing.T) {
	service := catalog.NewService(seedRepo(t), zerolog.Nop())

	boxes, err := service.AboBoxesWithProducts(context.Background())
	if err != nil {
		t.Fatalf("list boxes failed: %v", err)
	}
	if len(boxes) != 1 {
		t.Fatalf("expected 1 box, got %d", len(boxes))
	}

	// The box references a deleted product; the resolved list carries
	// only the two that still exist.
	if len(boxes[0].Products) != 2 {
		t.Errorf("expected 2 resolved products, got %d", len(boxes[0].Products))
	}
	if len(boxes[0].ProductIDs) != 3 {
		t.Errorf("raw product id list changed: %v", boxes[0].ProductIDs)
	}
}

func TestService_Inventory(t *testing.T) {
	service := catalog.NewService(seedRepo(t), zerolog.Nop())

	items, err := service.Inventory(context.Background())
	if err != nil {
		t.Fatalf("inventory failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	for _, item := range items {
		if item.SupplierName == "" {
			t.Errorf("supplier name not resolved for %q", item.ProductID)
		}
	}
}
