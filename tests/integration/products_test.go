package integration

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ecowear/marketplace/internal/database"
	"github.com/ecowear/marketplace/internal/store"
	"github.com/shopspring/decimal"
)

func TestCreateAndGetProduct(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	seller := createVerifiedSeller(t, db, "seller@example.com")

	product, err := store.CreateProduct(ctx, db, seller.ID, store.NewProduct{
		Name:            "Organic Cotton Tee",
		Brand:           "EcoWear",
		Price:           decimal.NewFromInt(799),
		Category:        "tops",
		Gender:          "women",
		AgeGroup:        "adult",
		Images:          []string{"https://img.example/tee.jpg", ""},
		CarbonFootprint: decimal.NewFromFloat(2.1),
		Stock:           25,
	})
	if err != nil {
		t.Fatalf("Create product: %v", err)
	}

	if !strings.HasPrefix(product.ID, "PROD-") {
		t.Errorf("Expected PROD- uid, got %s", product.ID)
	}
	if !product.Active {
		t.Error("New products should be active")
	}
	if len(product.Images) != 1 {
		t.Errorf("Expected blank image dropped, got %d images", len(product.Images))
	}

	fetched, err := store.GetProduct(ctx, db, product.ID)
	if err != nil {
		t.Fatalf("Get product: %v", err)
	}
	if !fetched.Price.Equal(decimal.NewFromInt(799)) {
		t.Errorf("Expected price 799, got %s", fetched.Price)
	}
	if fetched.SellerID != seller.ID {
		t.Errorf("Expected seller %s, got %s", seller.ID, fetched.SellerID)
	}
}

func TestListActiveProductsFilters(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	seller := createVerifiedSeller(t, db, "seller@example.com")

	mk := func(name, category, gender string) {
		_, err := store.CreateProduct(ctx, db, seller.ID, store.NewProduct{
			Name:     name,
			Price:    decimal.NewFromInt(100),
			Category: category,
			Gender:   gender,
		})
		if err != nil {
			t.Fatalf("Create product %s: %v", name, err)
		}
	}
	mk("Tee", "tops", "women")
	mk("Jeans", "bottoms", "women")
	mk("Shirt", "tops", "men")

	page, err := store.ListActiveProducts(ctx, db, store.ProductFilter{Category: "tops"}, 1, 20)
	if err != nil {
		t.Fatalf("List products: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("Expected 2 tops, got %d", page.Total)
	}

	page, err = store.ListActiveProducts(ctx, db, store.ProductFilter{Category: "tops", Gender: "men"}, 1, 20)
	if err != nil {
		t.Fatalf("List products: %v", err)
	}
	if page.Total != 1 {
		t.Errorf("Expected 1 men's top, got %d", page.Total)
	}

	// "all" is a wildcard, not a literal value.
	page, err = store.ListActiveProducts(ctx, db, store.ProductFilter{Category: "all"}, 1, 20)
	if err != nil {
		t.Fatalf("List products: %v", err)
	}
	if page.Total != 3 {
		t.Errorf("Expected all 3 products, got %d", page.Total)
	}
}

func TestDeactivatedProductHiddenFromCatalog(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	seller := createVerifiedSeller(t, db, "seller@example.com")

	product, err := store.CreateProduct(ctx, db, seller.ID, store.NewProduct{
		Name:  "Tee",
		Price: decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("Create product: %v", err)
	}

	inactive := false
	if _, err := store.UpdateProduct(ctx, db, product, store.ProductUpdate{Active: &inactive}); err != nil {
		t.Fatalf("Deactivate product: %v", err)
	}

	page, err := store.ListActiveProducts(ctx, db, store.ProductFilter{}, 1, 20)
	if err != nil {
		t.Fatalf("List products: %v", err)
	}
	if page.Total != 0 {
		t.Errorf("Expected deactivated product hidden, got %d", page.Total)
	}

	// The seller still sees it in their own listing view.
	mine, err := store.ListProductsBySeller(ctx, db, seller.ID)
	if err != nil {
		t.Fatalf("List seller products: %v", err)
	}
	if len(mine) != 1 {
		t.Errorf("Expected 1 product in seller view, got %d", len(mine))
	}
}

func TestUpdateProductStaleVersion(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	seller := createVerifiedSeller(t, db, "seller@example.com")

	product, err := store.CreateProduct(ctx, db, seller.ID, store.NewProduct{
		Name:  "Tee",
		Price: decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("Create product: %v", err)
	}

	stale := *product

	if _, err := store.UpdateProduct(ctx, db, product, store.ProductUpdate{Name: "Tee v2"}); err != nil {
		t.Fatalf("First update: %v", err)
	}

	_, err = store.UpdateProduct(ctx, db, &stale, store.ProductUpdate{Name: "Tee v3"})
	if !errors.Is(err, database.ErrOptimisticLockFailed) {
		t.Errorf("Expected ErrOptimisticLockFailed on stale update, got %v", err)
	}
}

func TestDeleteProduct(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	seller := createVerifiedSeller(t, db, "seller@example.com")

	product, err := store.CreateProduct(ctx, db, seller.ID, store.NewProduct{
		Name:  "Tee",
		Price: decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("Create product: %v", err)
	}

	if err := store.DeleteProduct(ctx, db, product.ID); err != nil {
		t.Fatalf("Delete product: %v", err)
	}

	if _, err := store.GetProduct(ctx, db, product.ID); !errors.Is(err, database.ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound after delete, got %v", err)
	}

	if err := store.DeleteProduct(ctx, db, product.ID); !errors.Is(err, database.ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound on double delete, got %v", err)
	}
}
