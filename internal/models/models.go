package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// Seller verification lifecycle. Only accounts with RoleSeller carry one.
const (
	SellerStatusPending  = "pending"
	SellerStatusVerified = "verified"
	SellerStatusRejected = "rejected"
)

const (
	OrderStatusProcessing = "processing"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

const (
	PaymentMethodCOD  = "cod"
	PaymentMethodCard = "card"
	PaymentMethodUPI  = "upi"
)

type Account struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	PasswordHash    string     `json:"-"`
	Role            string     `json:"role"`
	Phone           string     `json:"phone,omitempty"`
	Address         string     `json:"address,omitempty"`
	BrandName       string     `json:"brand_name,omitempty"`
	EcoCertificate  string     `json:"eco_certificate,omitempty"`
	SellerStatus    string     `json:"seller_status,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	VerifiedBy      *string    `json:"verified_by,omitempty"`
	VerifiedAt      *time.Time `json:"verified_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Version         int        `json:"version"`
}

// Cart holds at most one line per (product, size); adding the same pair
// again merges quantities.
type Cart struct {
	AccountID string     `json:"account_id"`
	Items     []CartItem `json:"items"`
}

type CartItem struct {
	ProductID       string          `json:"product_id"`
	Name            string          `json:"name"`
	Brand           string          `json:"brand"`
	Price           decimal.Decimal `json:"price"`
	Image           string          `json:"image"`
	Size            string          `json:"size"`
	Quantity        int             `json:"quantity"`
	Material        string          `json:"material"`
	CarbonFootprint decimal.Decimal `json:"carbon_footprint"`
	SellerID        string          `json:"seller_id"`
}

type ShippingAddress struct {
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Phone   string `json:"phone"`
}

// Order line items are a value-copy snapshot of the product at checkout
// time; later product edits do not affect placed orders.
type Order struct {
	ID              string          `json:"id"`
	AccountID       string          `json:"account_id"`
	BuyerName       string          `json:"buyer_name"`
	BuyerEmail      string          `json:"buyer_email"`
	Items           []OrderItem     `json:"items,omitempty"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Shipping        decimal.Decimal `json:"shipping"`
	Total           decimal.Decimal `json:"total"`
	CarbonOffset    decimal.Decimal `json:"carbon_offset"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
	Version         int             `json:"version"`
}

type OrderItem struct {
	ID              int64           `json:"id"`
	OrderID         string          `json:"order_id"`
	ProductID       string          `json:"product_id"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	Quantity        int             `json:"quantity"`
	Image           string          `json:"image,omitempty"`
	Size            string          `json:"size,omitempty"`
	Material        string          `json:"material,omitempty"`
	CarbonFootprint decimal.Decimal `json:"carbon_footprint"`
	SellerID        string          `json:"seller_id"`
}

type Product struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Brand           string          `json:"brand"`
	Description     string          `json:"description,omitempty"`
	Price           decimal.Decimal `json:"price"`
	Category        string          `json:"category"`
	Gender          string          `json:"gender"`
	AgeGroup        string          `json:"age_group"`
	Images          []string        `json:"images"`
	CarbonFootprint decimal.Decimal `json:"carbon_footprint"`
	Certificate     string          `json:"certificate,omitempty"`
	Stock           int             `json:"stock"`
	Rating          decimal.Decimal `json:"rating"`
	Reviews         int             `json:"reviews"`
	SellerID        string          `json:"seller_id"`
	Active          bool            `json:"active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

type BlogPost struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Category    string    `json:"category"`
	Author      string    `json:"author"`
	Link        string    `json:"link"`
	ReadTime    string    `json:"read_time"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"created_at"`
}
