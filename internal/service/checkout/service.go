package checkout

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pixshop/storefront/internal/pixup"
	"github.com/pixshop/storefront/internal/repo"
	cartservice "github.com/pixshop/storefront/internal/service/cart"
	"github.com/pixshop/storefront/pkg/logging"
)

var (
	ErrValidation    = errors.New("validation")    // 400
	ErrEmptyCart     = errors.New("empty cart")    // 400
	ErrInvalidAmount = errors.New("invalid value") // 400
	ErrUnauthorized  = errors.New("unauthorized")  // 401
	ErrNotFound      = errors.New("not found")     // 404
)

// ProviderClient is the PixUp surface the service needs; *pixup.Client
// satisfies it. A nil provider means "not configured", checkout then always
// takes the local fallback and the poller never re-queries.
type ProviderClient interface {
	CreatePayment(ctx context.Context, payload *pixup.PaymentRequest) (*pixup.Payment, error)
	GetPayment(ctx context.Context, providerPaymentID string) (*pixup.Payment, error)
}

// EventPublisher publishes lifecycle events; *mykafka.Producer satisfies it.
// Publishing is best-effort and never fails a request.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event interface{}) error
}

type Service struct {
	Repo     *repo.GormRepo
	Cart     *cartservice.Service
	Provider ProviderClient
	Events   EventPublisher

	WebhookSecret string
	Production    bool
}

const (
	orderEventsTopic   = "order_events"
	paymentEventsTopic = "payment_events"
)

type orderCreatedEvent struct {
	Type      string `json:"type"`
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	SessionID string `json:"session_id"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
}

type paymentStatusEvent struct {
	Type      string `json:"type"`
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
}

func logFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx).With("service", "checkout")
}

func (s *Service) publish(ctx context.Context, topic, key string, event interface{}) {
	if s.Events == nil {
		return
	}
	if err := s.Events.PublishEvent(ctx, topic, key, event); err != nil {
		logFromContext(ctx).Warn("event publish failed", "topic", topic, "error", err)
	}
}
