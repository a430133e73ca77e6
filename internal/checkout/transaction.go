package checkout

import (
	"math"
	"time"

	"github.com/artemisia-corp/storefront/pkg/enums"
	"github.com/artemisia-corp/storefront/pkg/gateway"
	"github.com/shopspring/decimal"
)

const (
	epochMillisThreshold  = 1_000_000_000_000
	epochSecondsThreshold = 1_000_000_000
)

// Transaction is the live payment request shown to the buyer.
type Transaction struct {
	TransactionID     string          `json:"transaction_id"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	Network           string          `json:"network,omitempty"`
	PaymentLink       string          `json:"payment_link"`
	QRBase64          string          `json:"qr_base64,omitempty"`
	Status            string          `json:"status,omitempty"`
	CollectingAccount string          `json:"collecting_account,omitempty"`
	ExpiresAt         time.Time       `json:"expires_at"`
}

// VerificationResult is the normalized outcome of one verification poll.
type VerificationResult struct {
	Status  enums.VerificationStatus `json:"status"`
	OrderID *int64                   `json:"order_id,omitempty"`
	Estado  string                   `json:"estado"`
}

// ExpiresAt decodes expiration_time. Values above 1e12 are epoch
// milliseconds, above 1e9 epoch seconds, other positive values are seconds
// from now; anything else falls back to window.
func ExpiresAt(raw int64, now time.Time, window time.Duration) time.Time {
	switch {
	case raw > epochMillisThreshold:
		return time.UnixMilli(raw)
	case raw > epochSecondsThreshold:
		return time.Unix(raw, 0)
	case raw > 0:
		return now.Add(time.Duration(raw) * time.Second)
	default:
		return now.Add(window)
	}
}

// remainingSeconds rounds up so a fresh transaction never shows one second short.
func remainingSeconds(expiresAt, now time.Time) int {
	left := expiresAt.Sub(now).Seconds()
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left))
}

func fromGateway(tx *gateway.PaymentTransaction, expiresAt time.Time) *Transaction {
	return &Transaction{
		TransactionID:     tx.ID,
		Amount:            tx.Amount,
		Currency:          tx.Currency,
		Network:           tx.Network,
		PaymentLink:       tx.PaymentLink,
		QRBase64:          tx.QRBase64,
		Status:            tx.TransactionStatus,
		CollectingAccount: tx.CollectingAccount,
		ExpiresAt:         expiresAt.UTC(),
	}
}
