package pixup

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_RequiresCredentials(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		secret string
	}{
		{name: "no id", id: "", secret: "secret"},
		{name: "no secret", id: "id", secret: ""},
		{name: "neither", id: "", secret: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient("https://api.test", tt.id, tt.secret)
			require.Error(t, err)
		})
	}
}

func TestCreatePayment_SendsBasicAuth(t *testing.T) {
	var gotAuth, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/payments", r.URL.Path)
		json.NewEncoder(w).Encode(Payment{ID: "pix_1", Status: "pending"})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL+"/", "my-id", "my-secret")
	require.NoError(t, err)

	payment, err := c.CreatePayment(context.Background(), &PaymentRequest{Amount: 9490, Currency: "BRL"})
	require.NoError(t, err)
	assert.Equal(t, "pix_1", payment.ID)

	expected := "Basic " + base64.StdEncoding.EncodeToString([]byte("my-id:my-secret"))
	assert.Equal(t, expected, gotAuth)
	assert.Equal(t, "application/json", gotContentType)
}

func TestGetPayment_NonSuccessIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "id", "secret")
	require.NoError(t, err)

	_, err = c.GetPayment(context.Background(), "pix_missing")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "not found")
}

func TestPayment_IDAndURLPreference(t *testing.T) {
	p := &Payment{ID: "pix_1", PaymentID: "pay_1", CheckoutURL: "https://a", PaymentURL: "https://b"}
	assert.Equal(t, "pix_1", p.ProviderID())
	assert.Equal(t, "https://a", p.URL())

	p = &Payment{PaymentID: "pay_1", PaymentURL: "https://b"}
	assert.Equal(t, "pay_1", p.ProviderID())
	assert.Equal(t, "https://b", p.URL())
}

func TestFallbackPayment(t *testing.T) {
	orderID := uuid.New()
	p := FallbackPayment(orderID, "Maria Silva")

	assert.Equal(t, "pending", p.Status)
	assert.Contains(t, p.ID, "pixup_")
	assert.Contains(t, p.PaymentID, "pay_")
	assert.Equal(t, "https://checkout.pixupbr.com/pay/"+orderID.String(), p.CheckoutURL)
	assert.Equal(t, "https://pix.pixupbr.com/qr/"+orderID.String(), p.PaymentURL)
	assert.Contains(t, p.PixCode, "Maria Silva")
	assert.Contains(t, p.PixCode, "br.gov.bcb.pix")

	expires, err := time.Parse(time.RFC3339, p.ExpiresAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expires, time.Minute)
}

func TestFallbackPayment_DefaultCustomerName(t *testing.T) {
	p := FallbackPayment(uuid.New(), "")
	assert.Contains(t, p.PixCode, "Cliente")
}
