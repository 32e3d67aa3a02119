package transport

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AddToCartRequest struct {
	SessionID string    `json:"sessionId"`
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type ClearCartRequest struct {
	SessionID string `json:"sessionId"`
}

type CheckoutCustomer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type CreatePaymentRequest struct {
	SessionID  string            `json:"sessionId"`
	Customer   *CheckoutCustomer `json:"customer"`
	SuccessURL string            `json:"success_url"`
	CancelURL  string            `json:"cancel_url"`
	WebhookURL string            `json:"webhook_url"`
}

// PaymentDescriptor is the normalized answer to create-payment, merging the
// local payment row with whatever PixUp (or the fallback) returned.
type PaymentDescriptor struct {
	ID          uuid.UUID       `json:"id"`
	PixupID     string          `json:"pixup_id"`
	OrderID     uuid.UUID       `json:"order_id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Status      string          `json:"status"`
	CheckoutURL string          `json:"checkout_url"`
	PixCode     string          `json:"pix_code,omitempty"`
	QRCode      string          `json:"qr_code,omitempty"`
	CreatedAt   string          `json:"created_at"`
	ExpiresAt   string          `json:"expires_at"`
}

type CreatePaymentResponse struct {
	Success bool               `json:"success"`
	Payment *PaymentDescriptor `json:"payment"`
}

type WebhookMetadata struct {
	OrderID   string `json:"orderId"`
	SessionID string `json:"sessionId"`
}

type WebhookEvent struct {
	PaymentID     string           `json:"payment_id"`
	Status        string           `json:"status"`
	Amount        *float64         `json:"amount,omitempty"`
	PaymentMethod string           `json:"payment_method,omitempty"`
	Metadata      *WebhookMetadata `json:"metadata,omitempty"`
}

type WebhookAck struct {
	Received  bool   `json:"received"`
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
}

type PaymentStatusResponse struct {
	Status   string          `json:"status"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}
