package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ecowear/marketplace/internal/database"
	"github.com/ecowear/marketplace/internal/models"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const productColumns = `id, name, brand, description, price, category, gender,
		age_group, images, carbon_footprint, certificate, stock, rating,
		reviews, seller_id, active, created_at, updated_at, version`

type NewProduct struct {
	Name            string
	Brand           string
	Description     string
	Price           decimal.Decimal
	Category        string
	Gender          string
	AgeGroup        string
	Images          []string
	CarbonFootprint decimal.Decimal
	Certificate     string
	Stock           int
}

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	product := &models.Product{}
	var images pq.StringArray

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Brand,
		&product.Description,
		&product.Price,
		&product.Category,
		&product.Gender,
		&product.AgeGroup,
		&images,
		&product.CarbonFootprint,
		&product.Certificate,
		&product.Stock,
		&product.Rating,
		&product.Reviews,
		&product.SellerID,
		&product.Active,
		&product.CreatedAt,
		&product.UpdatedAt,
		&product.Version,
	)
	if err != nil {
		return nil, err
	}

	product.Images = []string(images)
	return product, nil
}

// nonEmptyImages drops blank entries so listings never carry empty image
// URLs.
func nonEmptyImages(images []string) pq.StringArray {
	out := make(pq.StringArray, 0, len(images))
	for _, img := range images {
		if img != "" {
			out = append(out, img)
		}
	}
	return out
}

// Product uids are time-derived, like order references.
func generateProductUID() string {
	return fmt.Sprintf("PROD-%d", time.Now().UnixNano())
}

func CreateProduct(ctx context.Context, db *sql.DB, sellerID string, req NewProduct) (*models.Product, error) {
	query := `
		INSERT INTO products (id, name, brand, description, price, category, gender,
			age_group, images, carbon_footprint, certificate, stock, rating, reviews,
			seller_id, active, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 0, 0, $13, TRUE, NOW(), NOW(), 1)
		RETURNING ` + productColumns

	row := db.QueryRowContext(ctx, query,
		generateProductUID(), req.Name, req.Brand, req.Description, req.Price,
		req.Category, req.Gender, req.AgeGroup, nonEmptyImages(req.Images),
		req.CarbonFootprint, req.Certificate, req.Stock, sellerID)

	product, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	return product, nil
}

func GetProduct(ctx context.Context, db *sql.DB, id string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return product, nil
}

type ProductUpdate struct {
	Name            string
	Brand           string
	Description     string
	Price           *decimal.Decimal
	Category        string
	Gender          string
	AgeGroup        string
	Images          []string
	CarbonFootprint *decimal.Decimal
	Certificate     string
	Stock           *int
	Active          *bool
}

func UpdateProduct(ctx context.Context, db *sql.DB, product *models.Product, upd ProductUpdate) (*models.Product, error) {
	if upd.Name != "" {
		product.Name = upd.Name
	}
	if upd.Brand != "" {
		product.Brand = upd.Brand
	}
	if upd.Description != "" {
		product.Description = upd.Description
	}
	if upd.Price != nil {
		product.Price = *upd.Price
	}
	if upd.Category != "" {
		product.Category = upd.Category
	}
	if upd.Gender != "" {
		product.Gender = upd.Gender
	}
	if upd.AgeGroup != "" {
		product.AgeGroup = upd.AgeGroup
	}
	if upd.Images != nil {
		product.Images = []string(nonEmptyImages(upd.Images))
	}
	if upd.CarbonFootprint != nil {
		product.CarbonFootprint = *upd.CarbonFootprint
	}
	if upd.Certificate != "" {
		product.Certificate = upd.Certificate
	}
	if upd.Stock != nil {
		product.Stock = *upd.Stock
	}
	if upd.Active != nil {
		product.Active = *upd.Active
	}

	query := `
		UPDATE products
		SET name = $1, brand = $2, description = $3, price = $4, category = $5,
		    gender = $6, age_group = $7, images = $8, carbon_footprint = $9,
		    certificate = $10, stock = $11, active = $12,
		    updated_at = NOW(), version = version + 1
		WHERE id = $13 AND version = $14
		RETURNING ` + productColumns

	row := db.QueryRowContext(ctx, query,
		product.Name, product.Brand, product.Description, product.Price,
		product.Category, product.Gender, product.AgeGroup,
		pq.StringArray(product.Images), product.CarbonFootprint,
		product.Certificate, product.Stock, product.Active,
		product.ID, product.Version)

	updated, err := scanProduct(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrOptimisticLockFailed
		}
		return nil, fmt.Errorf("update product: %w", err)
	}

	return updated, nil
}

func DeleteProduct(ctx context.Context, db *sql.DB, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return database.ErrProductNotFound
	}

	return nil
}

type ProductFilter struct {
	Category string
	Gender   string
	AgeGroup string
}

// ListActiveProducts is the public catalog view: active products only,
// optionally filtered, offset-paginated.
func ListActiveProducts(ctx context.Context, db *sql.DB, filter ProductFilter, page, pageSize int) (*OffsetPage, error) {
	where := `WHERE active = TRUE`
	var args []any

	appendFilter := func(column, value string) {
		if value != "" && value != "all" {
			args = append(args, value)
			where += fmt.Sprintf(" AND %s = $%d", column, len(args))
		}
	}
	appendFilter("category", filter.Category)
	appendFilter("gender", filter.Gender)
	appendFilter("age_group", filter.AgeGroup)

	var total int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products `+where, args...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	offset := (page - 1) * pageSize
	args = append(args, pageSize, offset)
	query := fmt.Sprintf(`SELECT %s FROM products %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		productColumns, where, len(args)-1, len(args))

	products, err := queryProducts(ctx, db, query, args...)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &OffsetPage{
		Items:      products,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func ListProductsBySeller(ctx context.Context, db *sql.DB, sellerID string) ([]models.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE seller_id = $1
		ORDER BY created_at DESC`

	return queryProducts(ctx, db, query, sellerID)
}

func queryProducts(ctx context.Context, db *sql.DB, query string, args ...any) ([]models.Product, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return products, nil
}
