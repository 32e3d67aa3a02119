package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pixshop/storefront/internal/models"
	"github.com/pixshop/storefront/internal/pixup"
	"github.com/pixshop/storefront/internal/transport"
)

const (
	defaultCurrency     = "BRL"
	defaultCustomerName = "Cliente"
)

// CreatePayment runs the checkout: recompute totals from the catalog, persist
// order/items/payment atomically, and hand collection to PixUp. Cart lines are
// left alone here; the webhook clears them on approval.
func (s *Service) CreatePayment(ctx context.Context, req *transport.CreatePaymentRequest) (*transport.PaymentDescriptor, error) {
	l := logFromContext(ctx)

	if req.SessionID == "" {
		return nil, fmt.Errorf("session id required: %w", ErrValidation)
	}
	for name, raw := range map[string]string{
		"success_url": req.SuccessURL,
		"cancel_url":  req.CancelURL,
		"webhook_url": req.WebhookURL,
	} {
		if !isAbsoluteURL(raw) {
			return nil, fmt.Errorf("%s must be an absolute URL: %w", name, ErrValidation)
		}
	}

	calc, err := s.Cart.CalculateCartTotal(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if len(calc.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if !calc.TotalAmount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	customer := transport.CheckoutCustomer{Name: defaultCustomerName}
	if req.Customer != nil {
		if req.Customer.Name != "" {
			customer.Name = req.Customer.Name
		}
		customer.Email = req.Customer.Email
		customer.Phone = req.Customer.Phone
	}

	order := models.Order{
		SessionID:     req.SessionID,
		Status:        models.OrderStatusPending,
		TotalAmount:   calc.TotalAmount,
		Currency:      defaultCurrency,
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		CustomerPhone: customer.Phone,
	}
	// The provider payload references the order id, so assign it before the
	// outbound call; the row itself is only written once PixUp answered.
	order.ID = uuid.New()

	items := make([]models.OrderItem, 0, len(calc.Items))
	payloadItems := make([]pixup.Item, 0, len(calc.Items))
	for _, it := range calc.Items {
		items = append(items, models.OrderItem{
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.Product.Price,
			TotalPrice: it.TotalPrice,
		})
		payloadItems = append(payloadItems, pixup.Item{
			ID:       it.ProductID.String(),
			Name:     it.Product.Name,
			Quantity: it.Quantity,
			Price:    toCents(it.Product.Price),
		})
	}

	payload := &pixup.PaymentRequest{
		Amount:      toCents(calc.TotalAmount),
		Currency:    defaultCurrency,
		Description: fmt.Sprintf("Pedido #%s - %d %s", order.ID, len(calc.Items), itemWord(len(calc.Items))),
		Customer: pixup.Customer{
			Name:  customer.Name,
			Email: customer.Email,
			Phone: customer.Phone,
		},
		Items:      payloadItems,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
		WebhookURL: req.WebhookURL,
		Metadata: pixup.Metadata{
			OrderID:   order.ID.String(),
			SessionID: req.SessionID,
		},
	}

	provider := s.createProviderPayment(ctx, payload, &order, l)

	payment := models.Payment{
		PixupPaymentID: provider.ProviderID(),
		Status:         models.PaymentStatusPending,
		Amount:         calc.TotalAmount,
		Currency:       defaultCurrency,
		PaymentMethod:  "pix",
		CheckoutURL:    provider.URL(),
	}

	if err := s.Repo.CreateCheckout(ctx, &order, items, &payment); err != nil {
		return nil, err
	}

	s.publish(ctx, orderEventsTopic, order.ID.String(), orderCreatedEvent{
		Type:      "order_created",
		OrderID:   order.ID.String(),
		PaymentID: payment.ID.String(),
		SessionID: req.SessionID,
		Amount:    calc.TotalAmount.StringFixed(2),
		Currency:  defaultCurrency,
	})

	l.Info("checkout created",
		"order_id", order.ID,
		"payment_id", payment.ID,
		"pixup_id", payment.PixupPaymentID,
		"amount", calc.TotalAmount.StringFixed(2),
	)

	expiresAt := provider.ExpiresAt
	if expiresAt == "" {
		expiresAt = time.Now().Add(30 * time.Minute).UTC().Format(time.RFC3339)
	}

	return &transport.PaymentDescriptor{
		ID:          payment.ID,
		PixupID:     payment.PixupPaymentID,
		OrderID:     order.ID,
		Amount:      calc.TotalAmount,
		Currency:    defaultCurrency,
		Status:      string(payment.Status),
		CheckoutURL: payment.CheckoutURL,
		PixCode:     provider.PixCode,
		QRCode:      provider.QRCode,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		ExpiresAt:   expiresAt,
	}, nil
}

// createProviderPayment degrades to the local fallback on any provider
// failure: checkout must complete even with PixUp down or unconfigured.
func (s *Service) createProviderPayment(ctx context.Context, payload *pixup.PaymentRequest, order *models.Order, l *slog.Logger) *pixup.Payment {
	if s.Provider == nil {
		l.Warn("pixup not configured, using local fallback", "order_id", order.ID)
		return pixup.FallbackPayment(order.ID, order.CustomerName)
	}
	provider, err := s.Provider.CreatePayment(ctx, payload)
	if err != nil {
		l.Warn("pixup unavailable, using local fallback", "order_id", order.ID, "error", err)
		return pixup.FallbackPayment(order.ID, order.CustomerName)
	}
	return provider
}

func toCents(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func itemWord(n int) string {
	if n == 1 {
		return "item"
	}
	return "itens"
}
