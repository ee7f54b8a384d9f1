package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ecowear/marketplace/internal/database"
	"github.com/ecowear/marketplace/internal/models"
	"github.com/ecowear/marketplace/internal/orders"
	"github.com/shopspring/decimal"
)

const orderColumns = `id, account_id, buyer_name, buyer_email,
		ship_name, ship_street, ship_city, ship_state, ship_pincode, ship_phone,
		payment_method, subtotal, shipping, total, carbon_offset, status,
		created_at, updated_at, cancelled_at, delivered_at, version`

type CreateOrderRequest struct {
	Items           []models.OrderItem
	ShippingAddress models.ShippingAddress
	PaymentMethod   string
	// Totals are supplied by the caller and stored verbatim; they are not
	// recomputed from the line items.
	Subtotal     decimal.Decimal
	Shipping     decimal.Decimal
	Total        decimal.Decimal
	CarbonOffset decimal.Decimal
}

// Order references are time-derived and unique per creation event.
func generateOrderRef() string {
	return fmt.Sprintf("ECO-%d", time.Now().UnixNano())
}

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	order := &models.Order{}
	var cancelledAt, deliveredAt sql.NullTime

	err := row.Scan(
		&order.ID,
		&order.AccountID,
		&order.BuyerName,
		&order.BuyerEmail,
		&order.ShippingAddress.Name,
		&order.ShippingAddress.Street,
		&order.ShippingAddress.City,
		&order.ShippingAddress.State,
		&order.ShippingAddress.Pincode,
		&order.ShippingAddress.Phone,
		&order.PaymentMethod,
		&order.Subtotal,
		&order.Shipping,
		&order.Total,
		&order.CarbonOffset,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
		&cancelledAt,
		&deliveredAt,
		&order.Version,
	)
	if err != nil {
		return nil, err
	}

	if cancelledAt.Valid {
		order.CancelledAt = &cancelledAt.Time
	}
	if deliveredAt.Valid {
		order.DeliveredAt = &deliveredAt.Time
	}
	return order, nil
}

// CreateOrder persists a new order in processing state, snapshotting the
// buyer's name and email at creation time. The buyer's cart is cleared
// afterwards as a separate statement: a crash between commit and clear
// leaves a stale cart behind. That sequence is deliberately not atomic.
func CreateOrder(ctx context.Context, db *sql.DB, buyer *models.Account, req CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, database.ErrEmptyOrder
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, database.ErrInvalidQuantity
		}
	}

	order := &models.Order{
		ID:              generateOrderRef(),
		AccountID:       buyer.ID,
		BuyerName:       buyer.Name,
		BuyerEmail:      buyer.Email,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		Subtotal:        req.Subtotal,
		Shipping:        req.Shipping,
		Total:           req.Total,
		CarbonOffset:    req.CarbonOffset,
		Status:          models.OrderStatusProcessing,
	}

	err := database.WithTransaction(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`INSERT INTO orders (id, account_id, buyer_name, buyer_email,
				ship_name, ship_street, ship_city, ship_state, ship_pincode, ship_phone,
				payment_method, subtotal, shipping, total, carbon_offset, status,
				created_at, updated_at, version)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW(), 1)
			 RETURNING created_at, updated_at, version`,
			order.ID, order.AccountID, order.BuyerName, order.BuyerEmail,
			order.ShippingAddress.Name, order.ShippingAddress.Street, order.ShippingAddress.City,
			order.ShippingAddress.State, order.ShippingAddress.Pincode, order.ShippingAddress.Phone,
			order.PaymentMethod, order.Subtotal, order.Shipping, order.Total, order.CarbonOffset,
			order.Status).Scan(&order.CreatedAt, &order.UpdatedAt, &order.Version)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for i := range req.Items {
			item := &req.Items[i]
			err := tx.QueryRowContext(ctx,
				`INSERT INTO order_items (order_id, product_id, name, price, quantity,
					image, size, material, carbon_footprint, seller_id)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
				 RETURNING id`,
				order.ID, item.ProductID, item.Name, item.Price, item.Quantity,
				item.Image, item.Size, item.Material, item.CarbonFootprint,
				item.SellerID).Scan(&item.ID)
			if err != nil {
				return fmt.Errorf("create order item: %w", err)
			}
			item.OrderID = order.ID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	order.Items = req.Items

	// Order is committed at this point; a failed clear only leaves the
	// cart stale.
	if err := ClearCart(ctx, db, buyer.ID); err != nil {
		return order, fmt.Errorf("clear cart after order: %w", err)
	}

	return order, nil
}

func GetOrder(ctx context.Context, db *sql.DB, id string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	items, err := loadOrderItems(ctx, db, id, "")
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

func loadOrderItems(ctx context.Context, db *sql.DB, orderID, sellerID string) ([]models.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, name, price, quantity, image, size,
		       material, carbon_footprint, seller_id
		FROM order_items
		WHERE order_id = $1`
	args := []any{orderID}

	if sellerID != "" {
		query += ` AND seller_id = $2`
		args = append(args, sellerID)
	}
	query += ` ORDER BY id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Name,
			&item.Price,
			&item.Quantity,
			&item.Image,
			&item.Size,
			&item.Material,
			&item.CarbonFootprint,
			&item.SellerID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return items, nil
}

// TransitionOrder validates the requested status change against the
// transition graph and persists it. The update is guarded on the status
// the decision was made against, so concurrent transitions lose cleanly.
func TransitionOrder(ctx context.Context, db *sql.DB, orderID, newStatus string) (*models.Order, error) {
	order, err := GetOrder(ctx, db, orderID)
	if err != nil {
		return nil, err
	}

	prevStatus := order.Status
	if err := orders.Transition(order, newStatus, time.Now()); err != nil {
		return nil, err
	}

	cancelledAt := sql.NullTime{}
	if order.CancelledAt != nil {
		cancelledAt = sql.NullTime{Time: *order.CancelledAt, Valid: true}
	}
	deliveredAt := sql.NullTime{}
	if order.DeliveredAt != nil {
		deliveredAt = sql.NullTime{Time: *order.DeliveredAt, Valid: true}
	}

	result, err := db.ExecContext(ctx,
		`UPDATE orders
		 SET status = $1, cancelled_at = $2, delivered_at = $3,
		     updated_at = NOW(), version = version + 1
		 WHERE id = $4 AND status = $5`,
		order.Status, cancelledAt, deliveredAt, order.ID, prevStatus)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, database.ErrOptimisticLockFailed
	}

	order.Version++
	return order, nil
}

// ListOrdersForAccount is the buyer view: the caller's own orders, newest
// first.
func ListOrdersForAccount(ctx context.Context, db *sql.DB, accountID string) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE account_id = $1
		ORDER BY created_at DESC`

	return queryOrders(ctx, db, query, accountID)
}

// ListAllOrders is the admin (and platform-seller) view, cursor-paginated
// over (created_at, id) descending.
func ListAllOrders(ctx context.Context, db *sql.DB, encodedCursor string, limit int) (*CursorPage, error) {
	cursor, err := DecodeCursor(encodedCursor)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}

	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE (created_at, id) < ($1, $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3`

	result, err := queryOrders(ctx, db, query, cursor.CreatedAt, cursor.ID, limit+1)
	if err != nil {
		return nil, err
	}

	hasMore := len(result) > limit
	if hasMore {
		result = result[:limit]
	}

	var nextCursor string
	if hasMore && len(result) > 0 {
		last := result[len(result)-1]
		nextCursor = EncodeCursor(OrderCursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	return &CursorPage{
		Items:      result,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

func queryOrders(ctx context.Context, db *sql.DB, query string, args ...any) ([]models.Order, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var result []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		result = append(result, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	for i := range result {
		items, err := loadOrderItems(ctx, db, result[i].ID, "")
		if err != nil {
			return nil, err
		}
		result[i].Items = items
	}

	return result, nil
}

// SellerOrder is the per-seller read projection of an order: the item list
// is filtered to the viewing seller's products and a subtotal over just
// those items is computed.
type SellerOrder struct {
	models.Order
	SellerSubtotal decimal.Decimal `json:"seller_subtotal"`
}

// ListOrdersForSeller returns orders containing at least one of the
// seller's items, with each order's items filtered to that seller.
func ListOrdersForSeller(ctx context.Context, db *sql.DB, sellerID string) ([]SellerOrder, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE id IN (SELECT DISTINCT order_id FROM order_items WHERE seller_id = $1)
		ORDER BY created_at DESC`

	rows, err := db.QueryContext(ctx, query, sellerID)
	if err != nil {
		return nil, fmt.Errorf("list seller orders: %w", err)
	}
	defer rows.Close()

	var result []SellerOrder
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		result = append(result, SellerOrder{Order: *order})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	for i := range result {
		items, err := loadOrderItems(ctx, db, result[i].ID, sellerID)
		if err != nil {
			return nil, err
		}
		result[i].Items = items

		subtotal := decimal.Zero
		for _, item := range items {
			subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		result[i].SellerSubtotal = subtotal
	}

	return result, nil
}
