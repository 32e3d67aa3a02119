package checkout

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixshop/storefront/internal/models"
	"github.com/pixshop/storefront/internal/transport"
)

const testWebhookSecret = "test-webhook-secret"

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// setupCheckout creates one pending checkout against the stub provider so the
// payment carries the provider id "pix_123".
func setupCheckout(t *testing.T) (*Service, *transport.PaymentDescriptor) {
	t.Helper()

	svc := newTestService(t)
	svc.WebhookSecret = testWebhookSecret
	stub := newStubProvider(t)
	svc.Provider = stub.client(t)

	seedCart(t, svc, "s1", "94.90", 1)

	descriptor, err := svc.CreatePayment(context.Background(), checkoutRequest("s1"))
	require.NoError(t, err)
	require.Equal(t, "pix_123", descriptor.PixupID)
	return svc, descriptor
}

func approvedBody(descriptor *transport.PaymentDescriptor) []byte {
	return []byte(fmt.Sprintf(
		`{"payment_id":"pix_123","status":"approved","amount":94.90,"payment_method":"pix","metadata":{"orderId":"%s","sessionId":"s1"}}`,
		descriptor.OrderID,
	))
}

func TestProcessWebhook_ApprovalSettlesOrderAndClearsCart(t *testing.T) {
	svc, descriptor := setupCheckout(t)
	ctx := context.Background()

	body := approvedBody(descriptor)
	ack, err := svc.ProcessWebhook(ctx, body, sign(testWebhookSecret, body))
	require.NoError(t, err)

	assert.True(t, ack.Received)
	assert.Equal(t, descriptor.ID.String(), ack.PaymentID, "ack carries the local payment id, not the provider's")
	assert.Equal(t, "approved", ack.Status)

	payment, err := svc.Repo.GetPayment(ctx, descriptor.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusApproved, payment.Status)
	assert.JSONEq(t, string(body), payment.WebhookData, "raw event is kept for audit")

	order, err := svc.Repo.GetOrder(ctx, descriptor.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)

	items, err := svc.Cart.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, items, "approval clears the originating cart")
}

func TestProcessWebhook_TamperedBodyRejectedWithoutMutation(t *testing.T) {
	svc, descriptor := setupCheckout(t)
	ctx := context.Background()

	body := approvedBody(descriptor)
	signature := sign(testWebhookSecret, body)
	tampered := []byte(`{"payment_id":"pix_123","status":"approved","amount":0.01}`)

	_, err := svc.ProcessWebhook(ctx, tampered, signature)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)

	payment, err := svc.Repo.GetPayment(ctx, descriptor.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)

	items, err := svc.Cart.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, items, 1, "rejected events must not touch the cart")
}

func TestProcessWebhook_MissingSignature(t *testing.T) {
	svc, descriptor := setupCheckout(t)

	_, err := svc.ProcessWebhook(context.Background(), approvedBody(descriptor), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestProcessWebhook_AcceptsSha256Prefix(t *testing.T) {
	svc, descriptor := setupCheckout(t)

	body := approvedBody(descriptor)
	ack, err := svc.ProcessWebhook(context.Background(), body, "sha256="+sign(testWebhookSecret, body))
	require.NoError(t, err)
	assert.Equal(t, "approved", ack.Status)
}

func TestProcessWebhook_ReplayIsIdempotent(t *testing.T) {
	svc, descriptor := setupCheckout(t)
	ctx := context.Background()

	body := approvedBody(descriptor)
	signature := sign(testWebhookSecret, body)

	first, err := svc.ProcessWebhook(ctx, body, signature)
	require.NoError(t, err)

	second, err := svc.ProcessWebhook(ctx, body, signature)
	require.NoError(t, err, "replaying a delivered event is acked, not rejected")
	assert.Equal(t, first, second)

	payment, err := svc.Repo.GetPayment(ctx, descriptor.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusApproved, payment.Status)
}

func TestProcessWebhook_StalePendingAfterApproval(t *testing.T) {
	svc, descriptor := setupCheckout(t)
	ctx := context.Background()

	body := approvedBody(descriptor)
	_, err := svc.ProcessWebhook(ctx, body, sign(testWebhookSecret, body))
	require.NoError(t, err)

	stale := []byte(`{"payment_id":"pix_123","status":"pending"}`)
	ack, err := svc.ProcessWebhook(ctx, stale, sign(testWebhookSecret, stale))
	require.NoError(t, err)
	assert.Equal(t, "approved", ack.Status, "a settled payment never reverts to pending")

	order, err := svc.Repo.GetOrder(ctx, descriptor.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)
}

func TestProcessWebhook_FailureCancelsOrder(t *testing.T) {
	svc, descriptor := setupCheckout(t)
	ctx := context.Background()

	body := []byte(`{"payment_id":"pix_123","status":"failed"}`)
	ack, err := svc.ProcessWebhook(ctx, body, sign(testWebhookSecret, body))
	require.NoError(t, err)
	assert.Equal(t, "failed", ack.Status)

	order, err := svc.Repo.GetOrder(ctx, descriptor.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)

	// Failure must not clear the cart; the customer may retry.
	items, err := svc.Cart.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestProcessWebhook_UnknownPayment(t *testing.T) {
	svc, _ := setupCheckout(t)

	body := []byte(`{"payment_id":"pix_never_seen","status":"approved"}`)
	_, err := svc.ProcessWebhook(context.Background(), body, sign(testWebhookSecret, body))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProcessWebhook_MalformedPayloads(t *testing.T) {
	svc, _ := setupCheckout(t)
	ctx := context.Background()

	tests := []struct {
		name string
		body string
	}{
		{name: "broken json", body: `{"payment_id": `},
		{name: "missing payment id", body: `{"status":"approved"}`},
		{name: "status outside the webhook enum", body: `{"payment_id":"pix_123","status":"refunded"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := []byte(tt.body)
			_, err := svc.ProcessWebhook(ctx, body, sign(testWebhookSecret, body))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestProcessWebhook_NoSecretSkipsVerification(t *testing.T) {
	svc, descriptor := setupCheckout(t)
	svc.WebhookSecret = ""

	ack, err := svc.ProcessWebhook(context.Background(), approvedBody(descriptor), "")
	require.NoError(t, err, "dev mode without a secret accepts unsigned events")
	assert.Equal(t, "approved", ack.Status)
}
