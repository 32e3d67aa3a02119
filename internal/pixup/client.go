package pixup

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the PixUp payments API. Credentials are validated at
// construction so a misconfigured deployment fails at startup, not per request.
type Client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
}

func NewClient(baseURL, clientID, clientSecret string) (*Client, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("pixup: client credentials not configured")
	}
	credentials := base64.StdEncoding.EncodeToString([]byte(clientID + ":" + clientSecret))
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		authHeader: "Basic " + credentials,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// APIError is a non-2xx answer from PixUp.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("pixup: API responded %d", e.StatusCode)
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"` // minor units
}

type Metadata struct {
	OrderID   string `json:"orderId"`
	SessionID string `json:"sessionId"`
}

// PaymentRequest is the create-payment payload. Amounts are integer cents.
type PaymentRequest struct {
	Amount      int64    `json:"amount"`
	Currency    string   `json:"currency"`
	Description string   `json:"description"`
	Customer    Customer `json:"customer"`
	Items       []Item   `json:"items"`
	SuccessURL  string   `json:"success_url"`
	CancelURL   string   `json:"cancel_url"`
	WebhookURL  string   `json:"webhook_url"`
	Metadata    Metadata `json:"metadata"`
}

// Payment is PixUp's view of a payment, shared by the create and get calls.
type Payment struct {
	ID          string `json:"id"`
	PaymentID   string `json:"payment_id"`
	Status      string `json:"status"`
	CheckoutURL string `json:"checkout_url"`
	PaymentURL  string `json:"payment_url"`
	PixCode     string `json:"pix_code"`
	QRCode      string `json:"qr_code"`
	ExpiresAt   string `json:"expires_at"`
}

// ProviderID returns whichever id field PixUp populated.
func (p *Payment) ProviderID() string {
	if p.ID != "" {
		return p.ID
	}
	return p.PaymentID
}

// URL returns the hosted checkout URL, falling back to the raw payment URL.
func (p *Payment) URL() string {
	if p.CheckoutURL != "" {
		return p.CheckoutURL
	}
	return p.PaymentURL
}

func (c *Client) CreatePayment(ctx context.Context, payload *PaymentRequest) (*Payment, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("pixup: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/payments", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) GetPayment(ctx context.Context, providerPaymentID string) (*Payment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/payments/"+providerPaymentID, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*Payment, error) {
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pixup: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("pixup: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	var payment Payment
	if err := json.Unmarshal(data, &payment); err != nil {
		return nil, fmt.Errorf("pixup: parse response: %w", err)
	}
	return &payment, nil
}
