package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/artemisia-corp/storefront/pkg/auth/session"
	"github.com/artemisia-corp/storefront/pkg/enums"
	pkgerrors "github.com/artemisia-corp/storefront/pkg/errors"
	"github.com/artemisia-corp/storefront/pkg/gateway"
	"github.com/artemisia-corp/storefront/pkg/metrics"
)

const (
	defaultChargeReason  = "Compra en Artemisia"
	defaultCountry       = "BO"
	defaultPaymentWindow = 10 * time.Minute
	tickInterval         = time.Second
)

// Gateway is the slice of the backend client the checkout needs.
type Gateway interface {
	CreateTransaction(ctx context.Context, token string, req gateway.TransactionRequest) (*gateway.PaymentTransaction, error)
	VerifyTransaction(ctx context.Context, token string, userID int64) (*gateway.VerificationResponse, error)
}

// Options carries the transaction defaults and test seams.
type Options struct {
	ChargeReason  string
	Country       string
	Network       string
	PaymentWindow time.Duration
	Metrics       *metrics.CheckoutMetrics
	Now           func() time.Time
	NewTicker     TickerFactory
}

// StartInput is what the workspace knows when the buyer asks to pay.
type StartInput struct {
	Eligible bool
	Currency enums.Currency
	Network  string
}

// Snapshot is the externally visible checkout state.
type Snapshot struct {
	State            enums.CheckoutState `json:"state"`
	RemainingSeconds int                 `json:"remaining_seconds"`
	CanVerify        bool                `json:"can_verify"`
	Transaction      *Transaction        `json:"transaction,omitempty"`
	OrderID          *int64              `json:"order_id,omitempty"`
	Verification     *VerificationResult `json:"verification,omitempty"`
	Err              error               `json:"-"`
}

// Session drives one buyer's payment transaction from request to receipt.
// Gateway calls run without holding the lock; a generation counter discards
// results that arrive after Close or a superseding Start.
type Session struct {
	gw     Gateway
	token  string
	userID int64
	opts   Options

	mu           sync.Mutex
	state        enums.CheckoutState
	tx           *Transaction
	remaining    int
	orderID      *int64
	verification *VerificationResult
	lastErr      error
	generation   uint64
	stopTicker   chan struct{}
}

// NewSession builds an idle checkout session bound to the session user.
func NewSession(gw Gateway, sess session.Session, opts Options) (*Session, error) {
	if gw == nil {
		return nil, fmt.Errorf("checkout gateway is required")
	}
	if strings.TrimSpace(opts.ChargeReason) == "" {
		opts.ChargeReason = defaultChargeReason
	}
	if strings.TrimSpace(opts.Country) == "" {
		opts.Country = defaultCountry
	}
	if opts.PaymentWindow <= 0 {
		opts.PaymentWindow = defaultPaymentWindow
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewTicker == nil {
		opts.NewTicker = NewRealTicker
	}
	return &Session{
		gw:     gw,
		token:  sess.BearerToken(),
		userID: sess.UserID,
		opts:   opts,
		state:  enums.CheckoutIdle,
	}, nil
}

// Start requests a new payment transaction, superseding any live one.
func (s *Session) Start(ctx context.Context, in StartInput) (Snapshot, error) {
	s.mu.Lock()
	if !in.Eligible {
		s.lastErr = pkgerrors.New(pkgerrors.CodeValidation, "a confirmed shipping address is required before checkout")
		defer s.mu.Unlock()
		return s.snapshotLocked(), s.lastErr
	}
	if !s.state.CanStart() {
		err := stateConflict("checkout cannot start", s.state)
		defer s.mu.Unlock()
		return s.snapshotLocked(), err
	}

	currency := in.Currency
	if !currency.IsValid() {
		currency = enums.DefaultCurrency
	}
	network := strings.TrimSpace(in.Network)
	if network == "" {
		network = strings.TrimSpace(s.opts.Network)
	}

	s.haltTickerLocked()
	s.generation++
	gen := s.generation
	s.tx = nil
	s.orderID = nil
	s.verification = nil
	s.remaining = 0
	s.lastErr = nil
	s.transitionLocked(enums.CheckoutPendingTransaction)
	s.mu.Unlock()

	resp, err := s.gw.CreateTransaction(ctx, s.token, gateway.TransactionRequest{
		UserID:       s.userID,
		Currency:     currency.String(),
		ChargeReason: s.opts.ChargeReason,
		Country:      s.opts.Country,
		Network:      network,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return s.snapshotLocked(), pkgerrors.New(pkgerrors.CodeStateConflict, "checkout was closed while the transaction was requested")
	}
	if err != nil {
		s.lastErr = err
		s.transitionLocked(enums.CheckoutIdle)
		return s.snapshotLocked(), err
	}

	now := s.opts.Now()
	expiresAt := ExpiresAt(resp.ExpirationTime, now, s.opts.PaymentWindow)
	remaining := remainingSeconds(expiresAt, now)
	if remaining == 0 {
		expiresAt = now.Add(s.opts.PaymentWindow)
		remaining = remainingSeconds(expiresAt, now)
	}
	s.tx = fromGateway(resp, expiresAt)
	s.remaining = remaining
	s.transitionLocked(enums.CheckoutAwaitingPayment)
	s.startTickerLocked(gen)
	return s.snapshotLocked(), nil
}

// Verify polls the backend for the payment outcome.
func (s *Session) Verify(ctx context.Context) (*VerificationResult, Snapshot, error) {
	s.mu.Lock()
	if s.state == enums.CheckoutExpired {
		s.lastErr = stateConflict("payment window expired", s.state)
		defer s.mu.Unlock()
		return nil, s.snapshotLocked(), s.lastErr
	}
	if !s.state.CanVerify() {
		err := stateConflict("no payment is awaiting verification", s.state)
		defer s.mu.Unlock()
		return nil, s.snapshotLocked(), err
	}
	gen := s.generation
	s.lastErr = nil
	s.transitionLocked(enums.CheckoutPendingVerification)
	s.mu.Unlock()

	resp, err := s.gw.VerifyTransaction(ctx, s.token, s.userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return nil, s.snapshotLocked(), pkgerrors.New(pkgerrors.CodeStateConflict, "checkout was closed while the payment was verified")
	}
	if err != nil {
		s.lastErr = err
		s.settleUnpaidLocked()
		return nil, s.snapshotLocked(), err
	}

	result := &VerificationResult{
		Status:  enums.ParseVerificationStatus(resp.Estado),
		OrderID: resp.NotaVentaID,
		Estado:  resp.Estado,
	}
	s.verification = result

	switch result.Status {
	case enums.VerificationPaid:
		s.haltTickerLocked()
		s.orderID = result.OrderID
		s.transitionLocked(enums.CheckoutSucceeded)
		return result, s.snapshotLocked(), nil
	case enums.VerificationFailed:
		s.lastErr = pkgerrors.New(pkgerrors.CodeConflict, "payment was not completed").
			WithDetails(map[string]any{"estado": resp.Estado})
		s.settleUnpaidLocked()
		return result, s.snapshotLocked(), s.lastErr
	default:
		s.settleUnpaidLocked()
		return result, s.snapshotLocked(), nil
	}
}

// Tick advances the countdown by one second.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickLocked()
}

// Close abandons the checkout and returns to IDLE.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.haltTickerLocked()
	s.generation++
	s.tx = nil
	s.orderID = nil
	s.verification = nil
	s.remaining = 0
	s.lastErr = nil
	s.transitionLocked(enums.CheckoutIdle)
}

// Snapshot returns a copy of the visible state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// State returns the current lifecycle state.
func (s *Session) State() enums.CheckoutState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) settleUnpaidLocked() {
	if s.remaining <= 0 {
		s.haltTickerLocked()
		s.transitionLocked(enums.CheckoutExpired)
		return
	}
	s.transitionLocked(enums.CheckoutAwaitingPayment)
}

func (s *Session) tickLocked() bool {
	live := s.state == enums.CheckoutAwaitingPayment || s.state == enums.CheckoutPendingVerification
	if !live || s.remaining <= 0 {
		return false
	}
	s.remaining--
	if s.remaining > 0 {
		return true
	}
	if s.state == enums.CheckoutAwaitingPayment {
		s.haltTickerLocked()
		s.transitionLocked(enums.CheckoutExpired)
	}
	return false
}

func (s *Session) startTickerLocked(gen uint64) {
	ticker := s.opts.NewTicker(tickInterval)
	stop := make(chan struct{})
	s.stopTicker = stop
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C():
				s.mu.Lock()
				if gen != s.generation {
					s.mu.Unlock()
					return
				}
				live := s.tickLocked()
				s.mu.Unlock()
				if !live {
					return
				}
			}
		}
	}()
}

func (s *Session) haltTickerLocked() {
	if s.stopTicker != nil {
		close(s.stopTicker)
		s.stopTicker = nil
	}
}

func (s *Session) transitionLocked(to enums.CheckoutState) {
	if s.state == to {
		return
	}
	s.opts.Metrics.Transition(s.state.String(), to.String())
	s.state = to
}

func (s *Session) snapshotLocked() Snapshot {
	out := Snapshot{
		State:            s.state,
		RemainingSeconds: s.remaining,
		CanVerify:        s.state.CanVerify(),
		Err:              s.lastErr,
	}
	if s.tx != nil {
		tx := *s.tx
		out.Transaction = &tx
	}
	if s.orderID != nil {
		id := *s.orderID
		out.OrderID = &id
	}
	if s.verification != nil {
		v := *s.verification
		out.Verification = &v
	}
	return out
}

func stateConflict(message string, state enums.CheckoutState) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, message).
		WithDetails(map[string]any{"state": state})
}
