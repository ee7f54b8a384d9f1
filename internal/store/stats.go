package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ecowear/marketplace/internal/models"
	"github.com/shopspring/decimal"
)

type AdminStats struct {
	TotalSellers    int64           `json:"total_sellers"`
	PendingSellers  int64           `json:"pending_sellers"`
	VerifiedSellers int64           `json:"verified_sellers"`
	RejectedSellers int64           `json:"rejected_sellers"`
	TotalBuyers     int64           `json:"total_buyers"`
	TotalOrders     int64           `json:"total_orders"`
	SellerRevenue   []SellerRevenue `json:"seller_revenue"`
}

// SellerRevenue aggregates order line items by seller: how many orders
// contained the seller's products and what those items summed to.
type SellerRevenue struct {
	SellerID   string          `json:"seller_id"`
	OrderCount int64           `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

func GetAdminStats(ctx context.Context, db *sql.DB) (*AdminStats, error) {
	stats := &AdminStats{}

	err := db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE role = $1),
			COUNT(*) FILTER (WHERE role = $1 AND seller_status = $2),
			COUNT(*) FILTER (WHERE role = $1 AND seller_status = $3),
			COUNT(*) FILTER (WHERE role = $1 AND seller_status = $4),
			COUNT(*) FILTER (WHERE role = $5)
		FROM accounts`,
		models.RoleSeller, models.SellerStatusPending, models.SellerStatusVerified,
		models.SellerStatusRejected, models.RoleBuyer).Scan(
		&stats.TotalSellers,
		&stats.PendingSellers,
		&stats.VerifiedSellers,
		&stats.RejectedSellers,
		&stats.TotalBuyers,
	)
	if err != nil {
		return nil, fmt.Errorf("count accounts: %w", err)
	}

	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&stats.TotalOrders)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT seller_id, COUNT(DISTINCT order_id), SUM(price * quantity)
		FROM order_items
		GROUP BY seller_id
		ORDER BY seller_id`)
	if err != nil {
		return nil, fmt.Errorf("aggregate seller revenue: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rev SellerRevenue
		if err := rows.Scan(&rev.SellerID, &rev.OrderCount, &rev.Revenue); err != nil {
			return nil, fmt.Errorf("scan seller revenue: %w", err)
		}
		stats.SellerRevenue = append(stats.SellerRevenue, rev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return stats, nil
}
