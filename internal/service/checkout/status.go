package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pixshop/storefront/internal/models"
	"github.com/pixshop/storefront/internal/transport"
)

// PaymentStatus returns the current status of a payment to the session that
// owns its order. Any other caller gets NotFound, a valid id included. In
// production it opportunistically syncs from PixUp; that sync is best-effort
// and never fails the poll.
func (s *Service) PaymentStatus(ctx context.Context, paymentID, sessionID string) (*transport.PaymentStatusResponse, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session required: %w", ErrUnauthorized)
	}

	id, err := uuid.Parse(paymentID)
	if err != nil {
		return nil, fmt.Errorf("payment not found: %w", ErrNotFound)
	}

	payment, err := s.Repo.GetPayment(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment not found: %w", ErrNotFound)
		}
		return nil, err
	}

	order, err := s.Repo.GetOrder(ctx, payment.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment not found: %w", ErrNotFound)
		}
		return nil, err
	}
	if order.SessionID != sessionID {
		return nil, fmt.Errorf("payment not found: %w", ErrNotFound)
	}

	if s.Production && s.Provider != nil && payment.PixupPaymentID != "" {
		payment = s.syncFromProvider(ctx, payment)
	}

	return &transport.PaymentStatusResponse{
		Status:   string(payment.Status),
		Amount:   payment.Amount,
		Currency: payment.Currency,
	}, nil
}

// syncFromProvider refreshes a diverged local status from PixUp under the
// same transition guard as the webhook. Failures are logged and the
// last-known-good local state wins.
func (s *Service) syncFromProvider(ctx context.Context, payment *models.Payment) *models.Payment {
	l := logFromContext(ctx)

	remote, err := s.Provider.GetPayment(ctx, payment.PixupPaymentID)
	if err != nil {
		l.Warn("pixup status check failed", "payment_id", payment.ID, "error", err)
		return payment
	}
	if remote.Status == "" || !models.ValidPaymentStatus(remote.Status) {
		return payment
	}

	next := models.PaymentStatus(remote.Status)
	if next == payment.Status {
		return payment
	}
	if payment.Status.Terminal() && next == models.PaymentStatusPending {
		return payment
	}

	raw, _ := json.Marshal(remote)
	updated, err := s.Repo.UpdatePaymentStatus(ctx, payment.ID, next, string(raw))
	if err != nil {
		l.Warn("pixup status sync failed", "payment_id", payment.ID, "error", err)
		return payment
	}
	if err := s.Repo.UpdateOrderStatus(ctx, payment.OrderID, orderStatusFor(next)); err != nil {
		l.Warn("order status sync failed", "order_id", payment.OrderID, "error", err)
	}
	l.Info("payment status synced from pixup", "payment_id", payment.ID, "status", next)
	return updated
}
