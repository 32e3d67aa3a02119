package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusApproved  PaymentStatus = "approved"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Terminal reports whether a payment left the pending state. Terminal
// payments never move back to pending, from the webhook or the poller.
func (s PaymentStatus) Terminal() bool {
	return s != PaymentStatusPending && s != ""
}

func ValidPaymentStatus(s string) bool {
	switch PaymentStatus(s) {
	case PaymentStatusPending, PaymentStatusApproved, PaymentStatusCancelled,
		PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

type Product struct {
	ID            uuid.UUID           `gorm:"primaryKey"                    json:"id"`
	Name          string              `gorm:"not null"                      json:"name"`
	Subtitle      string              `json:"subtitle,omitempty"`
	Description   string              `json:"description,omitempty"`
	Price         decimal.Decimal     `gorm:"type:decimal(10,2);not null"   json:"price"`
	OriginalPrice decimal.NullDecimal `gorm:"type:decimal(10,2)"            json:"original_price,omitempty"`
	Rating        decimal.Decimal     `gorm:"type:decimal(2,1);default:0.0" json:"rating"`
	ReviewCount   int                 `gorm:"default:0"                     json:"review_count"`
	Images        string              `json:"images,omitempty"` // JSON-encoded list of URLs
	Category      string              `json:"category,omitempty"`
	Brand         string              `json:"brand,omitempty"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (Product) TableName() string { return "products" }

type CartItem struct {
	ID        uuid.UUID `gorm:"primaryKey"                              json:"id"`
	SessionID string    `gorm:"uniqueIndex:idx_session_product;not null" json:"session_id"`
	ProductID uuid.UUID `gorm:"uniqueIndex:idx_session_product;not null" json:"product_id"`
	Quantity  int       `gorm:"default:1;check:quantity>0"              json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (CartItem) TableName() string { return "cart_items" }

type Order struct {
	ID            uuid.UUID       `gorm:"primaryKey"                  json:"id"`
	SessionID     string          `gorm:"index;not null"              json:"session_id"`
	Status        OrderStatus     `gorm:"not null;default:pending"    json:"status"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Currency      string          `gorm:"not null;default:BRL"        json:"currency"`
	CustomerName  string          `json:"customer_name,omitempty"`
	CustomerEmail string          `json:"customer_email,omitempty"`
	CustomerPhone string          `json:"customer_phone,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	ID         uuid.UUID       `gorm:"primaryKey"                  json:"id"`
	OrderID    uuid.UUID       `gorm:"index;not null"              json:"order_id"`
	ProductID  uuid.UUID       `gorm:"not null"                    json:"product_id"`
	Quantity   int             `gorm:"default:1;check:quantity>0"  json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (OrderItem) TableName() string { return "order_items" }

type Payment struct {
	ID             uuid.UUID       `gorm:"primaryKey"                  json:"id"`
	OrderID        uuid.UUID       `gorm:"index;not null"              json:"order_id"`
	PixupPaymentID string          `gorm:"uniqueIndex"                 json:"pixup_payment_id"`
	Status         PaymentStatus   `gorm:"not null;default:pending"    json:"status"`
	Amount         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency       string          `gorm:"not null;default:BRL"        json:"currency"`
	PaymentMethod  string          `json:"payment_method,omitempty"`
	CheckoutURL    string          `json:"checkout_url,omitempty"`
	WebhookData    string          `json:"-"` // raw provider payload, kept for audit
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (Payment) TableName() string { return "payments" }
