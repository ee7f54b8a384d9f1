package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/ecowear/marketplace/internal/database"
	"github.com/ecowear/marketplace/internal/models"
	"github.com/ecowear/marketplace/internal/store"
	"github.com/shopspring/decimal"
)

func teeCartItem(size string, quantity int) models.CartItem {
	return models.CartItem{
		ProductID: "prod-1",
		Name:      "Organic Cotton Tee",
		Price:     decimal.NewFromInt(799),
		Size:      size,
		Quantity:  quantity,
	}
}

func TestEmptyCartIsNotMissing(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	buyer := createTestAccount(t, db, models.RoleBuyer, "buyer@example.com")

	cart, err := store.GetCart(ctx, db, buyer.ID)
	if err != nil {
		t.Fatalf("Get cart: %v", err)
	}
	if cart.Items == nil {
		t.Error("Expected empty item slice, got nil")
	}
	if len(cart.Items) != 0 {
		t.Errorf("Expected 0 items, got %d", len(cart.Items))
	}
}

func TestAddCartItemMergesOnProductAndSize(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	buyer := createTestAccount(t, db, models.RoleBuyer, "buyer@example.com")

	if _, err := store.AddCartItem(ctx, db, buyer.ID, teeCartItem("M", 1)); err != nil {
		t.Fatalf("Add first item: %v", err)
	}

	// Same product and size merges quantities into one line.
	cart, err := store.AddCartItem(ctx, db, buyer.ID, teeCartItem("M", 2))
	if err != nil {
		t.Fatalf("Add duplicate item: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("Expected 1 merged line, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 3 {
		t.Errorf("Expected merged quantity 3, got %d", cart.Items[0].Quantity)
	}

	// A different size is a separate line.
	cart, err = store.AddCartItem(ctx, db, buyer.ID, teeCartItem("L", 1))
	if err != nil {
		t.Fatalf("Add different size: %v", err)
	}
	if len(cart.Items) != 2 {
		t.Errorf("Expected 2 lines for different sizes, got %d", len(cart.Items))
	}
}

func TestUpdateCartItemQuantity(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	buyer := createTestAccount(t, db, models.RoleBuyer, "buyer@example.com")

	if _, err := store.AddCartItem(ctx, db, buyer.ID, teeCartItem("M", 1)); err != nil {
		t.Fatalf("Add item: %v", err)
	}

	cart, err := store.UpdateCartItemQuantity(ctx, db, buyer.ID, "prod-1", "M", 5)
	if err != nil {
		t.Fatalf("Update quantity: %v", err)
	}
	if cart.Items[0].Quantity != 5 {
		t.Errorf("Expected quantity 5, got %d", cart.Items[0].Quantity)
	}

	// Quantity below one removes the line instead.
	cart, err = store.UpdateCartItemQuantity(ctx, db, buyer.ID, "prod-1", "M", 0)
	if err != nil {
		t.Fatalf("Update to zero: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Errorf("Expected line removed at quantity 0, got %d items", len(cart.Items))
	}

	_, err = store.UpdateCartItemQuantity(ctx, db, buyer.ID, "prod-1", "M", 2)
	if !errors.Is(err, database.ErrCartItemNotFound) {
		t.Errorf("Expected ErrCartItemNotFound, got %v", err)
	}
}

func TestClearCart(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	buyer := createTestAccount(t, db, models.RoleBuyer, "buyer@example.com")

	if _, err := store.AddCartItem(ctx, db, buyer.ID, teeCartItem("M", 1)); err != nil {
		t.Fatalf("Add item: %v", err)
	}
	if _, err := store.AddCartItem(ctx, db, buyer.ID, teeCartItem("L", 1)); err != nil {
		t.Fatalf("Add item: %v", err)
	}

	if err := store.ClearCart(ctx, db, buyer.ID); err != nil {
		t.Fatalf("Clear cart: %v", err)
	}

	cart, err := store.GetCart(ctx, db, buyer.ID)
	if err != nil {
		t.Fatalf("Get cart: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Errorf("Expected empty cart, got %d items", len(cart.Items))
	}
}
