package address

import (
	"context"
	"fmt"

	"github.com/artemisia-corp/storefront/internal/cart"
	"github.com/artemisia-corp/storefront/pkg/auth/session"
	"github.com/artemisia-corp/storefront/pkg/enums"
	pkgerrors "github.com/artemisia-corp/storefront/pkg/errors"
)

// AssignmentGateway sets the shipping address on the backend cart.
type AssignmentGateway interface {
	SetAddress(ctx context.Context, token string, userID, addressID int64) error
}

// CartLoader reloads the authoritative cart after an assignment.
type CartLoader interface {
	Load(ctx context.Context) (cart.Cart, error)
}

// Snapshot is the externally visible reconciliation state.
type Snapshot struct {
	State      enums.AddressState `json:"state"`
	SelectedID *int64             `json:"selected_id"`
	Addresses  []Address          `json:"addresses"`
}

// Reconciler keeps the cart's shipping address consistent with the buyer's
// address list. It starts UNASSIGNED and becomes ASSIGNED(id) only after the
// backend confirms the assignment.
type Reconciler struct {
	gw        AssignmentGateway
	token     string
	userID    int64
	addresses []Address
	state     enums.AddressState
	selected  int64
}

// NewReconciler builds a reconciler bound to the session user.
func NewReconciler(gw AssignmentGateway, sess session.Session) (*Reconciler, error) {
	if gw == nil {
		return nil, fmt.Errorf("assignment gateway is required")
	}
	return &Reconciler{
		gw:     gw,
		token:  sess.BearerToken(),
		userID: sess.UserID,
		state:  enums.AddressUnassigned,
	}, nil
}

// Reconcile installs a fresh address list and assigns the default selection
// when the cart disagrees with it. The returned cart is the reloaded one when
// an assignment happened.
func (r *Reconciler) Reconcile(ctx context.Context, current cart.Cart, addresses []Address, loader CartLoader) (cart.Cart, error) {
	r.addresses = append([]Address(nil), addresses...)
	if len(r.addresses) == 0 {
		r.state = enums.AddressUnassigned
		r.selected = 0
		return current, nil
	}

	selection := r.addresses[0].AddressID
	if id := current.AddressID(); id != 0 && r.contains(id) {
		selection = id
	}
	if current.AddressID() == selection {
		r.state = enums.AddressAssigned
		r.selected = selection
		return current, nil
	}
	return r.assign(ctx, current, selection, loader)
}

// Select assigns an address explicitly chosen by the buyer.
func (r *Reconciler) Select(ctx context.Context, current cart.Cart, addressID int64, loader CartLoader) (cart.Cart, error) {
	if !r.contains(addressID) {
		return current, pkgerrors.New(pkgerrors.CodeValidation, "address does not belong to the buyer").
			WithDetails(map[string]any{"address_id": addressID})
	}
	return r.assign(ctx, current, addressID, loader)
}

func (r *Reconciler) assign(ctx context.Context, current cart.Cart, addressID int64, loader CartLoader) (cart.Cart, error) {
	r.selected = addressID
	if err := r.gw.SetAddress(ctx, r.token, r.userID, addressID); err != nil {
		r.state = enums.AddressUnassigned
		return current, err
	}
	if loader == nil {
		r.state = enums.AddressAssigned
		return current, nil
	}
	reloaded, err := loader.Load(ctx)
	if err != nil {
		r.state = enums.AddressUnassigned
		return current, err
	}
	r.state = enums.AddressAssigned
	return reloaded, nil
}

// CheckoutEligible reports whether checkout may start.
func (r *Reconciler) CheckoutEligible() bool {
	return r.state == enums.AddressAssigned && r.contains(r.selected)
}

// State returns the current reconciliation state.
func (r *Reconciler) State() enums.AddressState {
	return r.state
}

// Selected returns the selected address id, or zero.
func (r *Reconciler) Selected() int64 {
	return r.selected
}

// Snapshot returns a copy of the visible state.
func (r *Reconciler) Snapshot() Snapshot {
	out := Snapshot{
		State:     r.state,
		Addresses: append([]Address{}, r.addresses...),
	}
	if r.selected != 0 {
		id := r.selected
		out.SelectedID = &id
	}
	return out
}

func (r *Reconciler) contains(addressID int64) bool {
	if addressID == 0 {
		return false
	}
	for _, a := range r.addresses {
		if a.AddressID == addressID {
			return true
		}
	}
	return false
}
