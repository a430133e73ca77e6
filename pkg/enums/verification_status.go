package enums

import "strings"

// VerificationStatus is the normalized outcome of a payment verification poll.
type VerificationStatus string

const (
	VerificationPending VerificationStatus = "PENDING"
	VerificationPaid    VerificationStatus = "PAID"
	VerificationFailed  VerificationStatus = "FAILED"
)

var paidEstados = []string{"PAGADO", "PAYED", "PAID", "COMPLETED"}

var failedEstados = []string{"CANCELED", "CANCELLED", "FAILED", "RECHAZADO", "ANULADO", "EXPIRED"}

func (v VerificationStatus) String() string {
	return string(v)
}

// ParseVerificationStatus maps a backend estado onto a verification outcome.
// Unknown values are treated as still pending.
func ParseVerificationStatus(estado string) VerificationStatus {
	normalized := strings.ToUpper(strings.TrimSpace(estado))
	for _, candidate := range paidEstados {
		if candidate == normalized {
			return VerificationPaid
		}
	}
	for _, candidate := range failedEstados {
		if candidate == normalized {
			return VerificationFailed
		}
	}
	return VerificationPending
}
