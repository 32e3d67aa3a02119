package checkout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixshop/storefront/internal/models"
	"github.com/pixshop/storefront/internal/transport"
)

func setupCheckoutWithStub(t *testing.T) (*Service, *stubProvider, *transport.PaymentDescriptor) {
	t.Helper()

	svc := newTestService(t)
	stub := newStubProvider(t)
	svc.Provider = stub.client(t)

	seedCart(t, svc, "s1", "94.90", 1)

	descriptor, err := svc.CreatePayment(context.Background(), checkoutRequest("s1"))
	require.NoError(t, err)
	return svc, stub, descriptor
}

func TestPaymentStatus_RequiresSession(t *testing.T) {
	svc, _, descriptor := setupCheckoutWithStub(t)

	_, err := svc.PaymentStatus(context.Background(), descriptor.ID.String(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestPaymentStatus_OwnerSeesStatus(t *testing.T) {
	svc, _, descriptor := setupCheckoutWithStub(t)

	resp, err := svc.PaymentStatus(context.Background(), descriptor.ID.String(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "BRL", resp.Currency)
	assert.True(t, resp.Amount.Equal(decimal.RequireFromString("94.90")))
}

func TestPaymentStatus_ForeignSessionGetsNotFound(t *testing.T) {
	svc, _, descriptor := setupCheckoutWithStub(t)

	_, err := svc.PaymentStatus(context.Background(), descriptor.ID.String(), "someone-else")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound, "existence is not revealed to non-owners")
}

func TestPaymentStatus_UnknownOrMalformedID(t *testing.T) {
	svc, _, _ := setupCheckoutWithStub(t)
	ctx := context.Background()

	_, err := svc.PaymentStatus(ctx, "not-a-uuid", "s1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.PaymentStatus(ctx, uuid.NewString(), "s1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPaymentStatus_ProductionSyncsFromProvider(t *testing.T) {
	svc, stub, descriptor := setupCheckoutWithStub(t)
	svc.Production = true
	ctx := context.Background()

	stub.payment.Status = "approved"

	resp, err := svc.PaymentStatus(ctx, descriptor.ID.String(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)

	order, err := svc.Repo.GetOrder(ctx, descriptor.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, order.Status, "sync moves the order the same way a webhook would")
}

func TestPaymentStatus_SyncFailureKeepsLocalState(t *testing.T) {
	svc, stub, descriptor := setupCheckoutWithStub(t)
	svc.Production = true
	stub.getCode = 502

	resp, err := svc.PaymentStatus(context.Background(), descriptor.ID.String(), "s1")
	require.NoError(t, err, "provider outage never fails the poll")
	assert.Equal(t, "pending", resp.Status)
}

func TestPaymentStatus_DevModeDoesNotSync(t *testing.T) {
	svc, stub, descriptor := setupCheckoutWithStub(t)
	stub.payment.Status = "approved"

	resp, err := svc.PaymentStatus(context.Background(), descriptor.ID.String(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status, "outside production the provider is not re-queried")
}

func TestPaymentStatus_SyncNeverRevertsTerminalState(t *testing.T) {
	svc, stub, descriptor := setupCheckoutWithStub(t)
	svc.Production = true
	ctx := context.Background()

	_, err := svc.Repo.UpdatePaymentStatus(ctx, descriptor.ID, models.PaymentStatusApproved, "")
	require.NoError(t, err)
	stub.payment.Status = "pending"

	resp, err := svc.PaymentStatus(ctx, descriptor.ID.String(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)
}
