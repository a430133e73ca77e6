package enums

// CheckoutState enumerates the payment session lifecycle.
type CheckoutState string

const (
	CheckoutIdle                CheckoutState = "IDLE"
	CheckoutPendingTransaction  CheckoutState = "PENDING_TRANSACTION"
	CheckoutAwaitingPayment     CheckoutState = "AWAITING_PAYMENT"
	CheckoutPendingVerification CheckoutState = "PENDING_VERIFICATION"
	CheckoutSucceeded           CheckoutState = "TERMINAL_SUCCESS"
	CheckoutExpired             CheckoutState = "EXPIRED"
)

func (s CheckoutState) String() string {
	return string(s)
}

// CanStart reports whether a new transaction may be requested from this state.
func (s CheckoutState) CanStart() bool {
	switch s {
	case CheckoutIdle, CheckoutExpired, CheckoutAwaitingPayment:
		return true
	}
	return false
}

// CanVerify reports whether the verify action is enabled.
func (s CheckoutState) CanVerify() bool {
	return s == CheckoutAwaitingPayment
}
