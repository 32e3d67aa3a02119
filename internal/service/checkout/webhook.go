package checkout

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/pixshop/storefront/internal/models"
	"github.com/pixshop/storefront/internal/transport"
)

// Inbound webhooks carry the four statuses PixUp actually sends; refunds are
// handled out of band.
func validWebhookStatus(s string) bool {
	switch models.PaymentStatus(s) {
	case models.PaymentStatusPending, models.PaymentStatusApproved,
		models.PaymentStatusCancelled, models.PaymentStatusFailed:
		return true
	}
	return false
}

// ProcessWebhook authenticates, validates and applies one provider event.
// Replays are safe: reapplying the current status is a no-op and the response
// is 200 either way. Nothing is mutated before a rejection.
func (s *Service) ProcessWebhook(ctx context.Context, rawBody []byte, signature string) (*transport.WebhookAck, error) {
	l := logFromContext(ctx)

	if s.WebhookSecret != "" {
		if err := s.verifySignature(rawBody, signature); err != nil {
			return nil, err
		}
	}

	var event transport.WebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", ErrValidation)
	}
	if event.PaymentID == "" {
		return nil, fmt.Errorf("payment_id required: %w", ErrValidation)
	}
	if !validWebhookStatus(event.Status) {
		return nil, fmt.Errorf("unknown status %q: %w", event.Status, ErrValidation)
	}

	payment, err := s.Repo.GetPaymentByPixupID(ctx, event.PaymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A provider event for a payment we never created means local and
			// provider state diverged; keep it loud.
			l.Error("webhook for unknown payment", "pixup_id", event.PaymentID)
			return nil, fmt.Errorf("payment not found: %w", ErrNotFound)
		}
		return nil, err
	}

	next := models.PaymentStatus(event.Status)
	if payment.Status.Terminal() && next == models.PaymentStatusPending {
		// Late or replayed "pending" must not revert a settled payment.
		l.Info("ignoring stale pending webhook", "payment_id", payment.ID, "status", payment.Status)
		return &transport.WebhookAck{Received: true, PaymentID: payment.ID.String(), Status: string(payment.Status)}, nil
	}

	updated, err := s.Repo.UpdatePaymentStatus(ctx, payment.ID, next, string(rawBody))
	if err != nil {
		return nil, err
	}

	if err := s.Repo.UpdateOrderStatus(ctx, payment.OrderID, orderStatusFor(next)); err != nil {
		return nil, err
	}

	// Approval is the single place the cart gets cleared on the success path.
	if next == models.PaymentStatusApproved && event.Metadata != nil && event.Metadata.SessionID != "" {
		if err := s.Repo.ClearCart(ctx, event.Metadata.SessionID); err != nil {
			return nil, err
		}
	}

	s.publish(ctx, paymentEventsTopic, payment.OrderID.String(), paymentStatusEvent{
		Type:      "payment_status_changed",
		OrderID:   payment.OrderID.String(),
		PaymentID: payment.ID.String(),
		Status:    string(next),
	})

	l.Info("webhook processed", "payment_id", payment.ID, "pixup_id", event.PaymentID, "status", next)

	return &transport.WebhookAck{
		Received:  true,
		PaymentID: updated.ID.String(),
		Status:    string(updated.Status),
	}, nil
}

// verifySignature checks the HMAC-SHA256 hex digest of the raw body against
// the header value, constant-time, tolerating a "sha256=" prefix.
func (s *Service) verifySignature(rawBody []byte, signature string) error {
	if signature == "" {
		return fmt.Errorf("signature required: %w", ErrUnauthorized)
	}

	mac := hmac.New(sha256.New, []byte(s.WebhookSecret))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))

	provided := strings.TrimPrefix(signature, "sha256=")
	if len(provided) != len(expected) ||
		subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) != 1 {
		return fmt.Errorf("invalid signature: %w", ErrUnauthorized)
	}
	return nil
}

func orderStatusFor(status models.PaymentStatus) models.OrderStatus {
	switch status {
	case models.PaymentStatusApproved:
		return models.OrderStatusProcessing
	case models.PaymentStatusCancelled, models.PaymentStatusFailed:
		return models.OrderStatusCancelled
	default:
		return models.OrderStatusPending
	}
}
