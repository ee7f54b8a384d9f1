package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ecowear/marketplace/internal/database"
	"github.com/ecowear/marketplace/internal/models"
)

// GetCart returns the account's cart, which is empty rather than missing
// when no items exist.
func GetCart(ctx context.Context, db *sql.DB, accountID string) (*models.Cart, error) {
	query := `
		SELECT product_id, name, brand, price, image, size, quantity,
		       material, carbon_footprint, seller_id
		FROM cart_items
		WHERE account_id = $1
		ORDER BY added_at`

	rows, err := db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	defer rows.Close()

	cart := &models.Cart{AccountID: accountID, Items: []models.CartItem{}}
	for rows.Next() {
		var item models.CartItem
		err := rows.Scan(
			&item.ProductID,
			&item.Name,
			&item.Brand,
			&item.Price,
			&item.Image,
			&item.Size,
			&item.Quantity,
			&item.Material,
			&item.CarbonFootprint,
			&item.SellerID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return cart, nil
}

// AddCartItem inserts a line or, when the (product, size) pair already
// exists, merges the quantities.
func AddCartItem(ctx context.Context, db *sql.DB, accountID string, item models.CartItem) (*models.Cart, error) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	query := `
		INSERT INTO cart_items (account_id, product_id, name, brand, price, image,
			size, quantity, material, carbon_footprint, seller_id, added_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		ON CONFLICT (account_id, product_id, size)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`

	_, err := db.ExecContext(ctx, query,
		accountID, item.ProductID, item.Name, item.Brand, item.Price, item.Image,
		item.Size, item.Quantity, item.Material, item.CarbonFootprint, item.SellerID)
	if err != nil {
		return nil, fmt.Errorf("add cart item: %w", err)
	}

	return GetCart(ctx, db, accountID)
}

// UpdateCartItemQuantity sets the quantity of a line; below 1 the line is
// removed instead.
func UpdateCartItemQuantity(ctx context.Context, db *sql.DB, accountID, productID, size string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return RemoveCartItem(ctx, db, accountID, productID, size)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE cart_items
		 SET quantity = $1
		 WHERE account_id = $2 AND product_id = $3 AND size = $4`,
		quantity, accountID, productID, size)
	if err != nil {
		return nil, fmt.Errorf("update cart item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, database.ErrCartItemNotFound
	}

	return GetCart(ctx, db, accountID)
}

func RemoveCartItem(ctx context.Context, db *sql.DB, accountID, productID, size string) (*models.Cart, error) {
	_, err := db.ExecContext(ctx,
		`DELETE FROM cart_items
		 WHERE account_id = $1 AND product_id = $2 AND size = $3`,
		accountID, productID, size)
	if err != nil {
		return nil, fmt.Errorf("remove cart item: %w", err)
	}

	return GetCart(ctx, db, accountID)
}

func ClearCart(ctx context.Context, db *sql.DB, accountID string) error {
	_, err := db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE account_id = $1`, accountID)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
