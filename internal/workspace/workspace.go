package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/artemisia-corp/storefront/internal/address"
	"github.com/artemisia-corp/storefront/internal/cart"
	"github.com/artemisia-corp/storefront/internal/checkout"
	"github.com/artemisia-corp/storefront/internal/currency"
	"github.com/artemisia-corp/storefront/pkg/auth/session"
	"github.com/artemisia-corp/storefront/pkg/enums"
	pkgerrors "github.com/artemisia-corp/storefront/pkg/errors"
	"github.com/artemisia-corp/storefront/pkg/logger"
)

// Gateway is every backend call a workspace makes on the buyer's behalf.
type Gateway interface {
	cart.Gateway
	address.AssignmentGateway
	currency.Gateway
	checkout.Gateway
}

// AddressLister loads the buyer's addresses.
type AddressLister interface {
	List(ctx context.Context, sess *session.Session) ([]address.Address, error)
}

// ActionError is the client view of a failed action.
type ActionError struct {
	Code      pkgerrors.Code `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
}

// Errors keeps one slot per concern so a failure in one never hides another.
type Errors struct {
	Address    *ActionError `json:"address,omitempty"`
	Conversion *ActionError `json:"conversion,omitempty"`
	Checkout   *ActionError `json:"checkout,omitempty"`
}

// View is the full storefront state returned after every action.
type View struct {
	Cart             cart.Cart         `json:"cart"`
	Currency         enums.Currency    `json:"currency"`
	Address          address.Snapshot  `json:"address"`
	Checkout         checkout.Snapshot `json:"checkout"`
	CheckoutEligible bool              `json:"checkout_eligible"`
	Errors           Errors            `json:"errors"`
}

// Workspace composes the cart, address, currency and checkout state of one
// session. Actions run one at a time.
type Workspace struct {
	mu         sync.Mutex
	sess       session.Session
	store      *cart.Store
	reconciler *address.Reconciler
	converter  *currency.Converter
	checkout   *checkout.Session
	addresses  AddressLister
	logg       *logger.Logger

	addressErr    error
	conversionErr error
}

func newWorkspace(deps Deps, sess session.Session) (*Workspace, error) {
	store, err := cart.NewStore(deps.Gateway, sess)
	if err != nil {
		return nil, err
	}
	reconciler, err := address.NewReconciler(deps.Gateway, sess)
	if err != nil {
		return nil, err
	}
	converter, err := currency.NewConverter(deps.Gateway, sess)
	if err != nil {
		return nil, err
	}
	checkoutSession, err := checkout.NewSession(deps.Gateway, sess, deps.Checkout)
	if err != nil {
		return nil, err
	}
	return &Workspace{
		sess:       sess,
		store:      store,
		reconciler: reconciler,
		converter:  converter,
		checkout:   checkoutSession,
		addresses:  deps.Addresses,
		logg:       deps.Logger.Component("workspace"),
	}, nil
}

// SessionID returns the owning session id.
func (w *Workspace) SessionID() string {
	return w.sess.ID
}

// ExpiresAt returns when the owning session expires.
func (w *Workspace) ExpiresAt() time.Time {
	return w.sess.ExpiresAt
}

// Refresh reloads the cart and the address list, then reconciles them.
func (w *Workspace) Refresh(ctx context.Context) (View, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.store.Load(ctx); err != nil {
		return w.viewLocked(), err
	}
	w.addressErr = nil
	addresses, err := w.addresses.List(ctx, &w.sess)
	if err != nil {
		w.addressErr = err
		return w.viewLocked(), nil
	}
	w.reconcileLocked(ctx, addresses)
	return w.viewLocked(), nil
}

// AddLine adds quantity units of productID.
func (w *Workspace) AddLine(ctx context.Context, productID int64, quantity int) (View, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.store.Add(ctx, productID, quantity); err != nil {
		return w.viewLocked(), err
	}
	w.followCartLocked(ctx)
	return w.viewLocked(), nil
}

// Decrement removes one unit of productID.
func (w *Workspace) Decrement(ctx context.Context, productID int64) (View, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.store.Loaded() {
		if _, err := w.store.Load(ctx); err != nil {
			return w.viewLocked(), err
		}
	}
	if _, err := w.store.Decrement(ctx, productID); err != nil {
		return w.viewLocked(), err
	}
	w.followCartLocked(ctx)
	return w.viewLocked(), nil
}

// SelectAddress assigns an address chosen by the buyer.
func (w *Workspace) SelectAddress(ctx context.Context, addressID int64) (View, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.addressErr = nil
	updated, err := w.reconciler.Select(ctx, w.store.Current(), addressID, w.store)
	if err != nil {
		w.addressErr = err
		return w.viewLocked(), err
	}
	w.store.Replace(updated, w.store.Currency())
	return w.viewLocked(), nil
}

// ChangeCurrency reprices the cart. Address state is left alone.
func (w *Workspace) ChangeCurrency(ctx context.Context, to enums.Currency) (View, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.conversionErr = nil
	from := w.store.Currency()
	converted, err := w.converter.Convert(ctx, w.store.Current(), from, to)
	if err != nil {
		w.conversionErr = err
		return w.viewLocked(), err
	}
	if from != to {
		w.store.Replace(converted, to)
	}
	return w.viewLocked(), nil
}

// StartCheckout requests a payment transaction for the current cart.
func (w *Workspace) StartCheckout(ctx context.Context, network string) (View, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, err := w.checkout.Start(ctx, checkout.StartInput{
		Eligible: w.reconciler.CheckoutEligible(),
		Currency: w.store.Currency(),
		Network:  network,
	})
	return w.viewLocked(), err
}

// VerifyPayment polls the payment outcome. A paid cart becomes an order, so
// the workspace starts over from the backend's next cart in the default
// currency and assigns it an address again.
func (w *Workspace) VerifyPayment(ctx context.Context) (*checkout.VerificationResult, View, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	result, snap, err := w.checkout.Verify(ctx)
	if err == nil && snap.State == enums.CheckoutSucceeded {
		w.store.Reset()
		if _, loadErr := w.store.Load(ctx); loadErr != nil {
			if w.logg != nil {
				w.logg.Warn(w.logg.WithField(ctx, "error", loadErr.Error()), "reload cart after payment failed")
			}
		} else {
			w.followCartLocked(ctx)
		}
	}
	return result, w.viewLocked(), err
}

// CloseCheckout abandons the payment session.
func (w *Workspace) CloseCheckout() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.checkout.Close()
	return w.viewLocked()
}

// View returns the current state without calling the backend.
func (w *Workspace) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.viewLocked()
}

// Close stops background work.
func (w *Workspace) Close() {
	w.checkout.Close()
}

// followCartLocked re-runs reconciliation when a mutation returned a cart whose
// address no longer matches the selection.
func (w *Workspace) followCartLocked(ctx context.Context) {
	snap := w.reconciler.Snapshot()
	if len(snap.Addresses) == 0 {
		return
	}
	if w.store.Current().AddressID() == w.reconciler.Selected() {
		return
	}
	w.addressErr = nil
	w.reconcileLocked(ctx, snap.Addresses)
}

func (w *Workspace) reconcileLocked(ctx context.Context, addresses []address.Address) {
	updated, err := w.reconciler.Reconcile(ctx, w.store.Current(), addresses, w.store)
	if err != nil {
		w.addressErr = err
		return
	}
	w.store.Replace(updated, w.store.Currency())
}

func (w *Workspace) viewLocked() View {
	checkoutSnap := w.checkout.Snapshot()
	return View{
		Cart:             w.store.Current(),
		Currency:         w.store.Currency(),
		Address:          w.reconciler.Snapshot(),
		Checkout:         checkoutSnap,
		CheckoutEligible: w.reconciler.CheckoutEligible(),
		Errors: Errors{
			Address:    toActionError(w.addressErr),
			Conversion: toActionError(w.conversionErr),
			Checkout:   toActionError(checkoutSnap.Err),
		},
	}
}

func toActionError(err error) *ActionError {
	if err == nil {
		return nil
	}
	code := pkgerrors.CodeOf(err)
	meta := pkgerrors.MetadataFor(code)
	message := meta.PublicMessage
	if typed := pkgerrors.As(err); typed != nil && typed.Message() != "" {
		message = typed.Message()
	}
	return &ActionError{Code: code, Message: message, Retryable: meta.Retryable}
}
