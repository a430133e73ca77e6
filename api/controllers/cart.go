package controllers

import (
	"net/http"

	"github.com/artemisia-corp/storefront/api/responses"
	"github.com/artemisia-corp/storefront/api/validators"
	"github.com/artemisia-corp/storefront/pkg/enums"
	pkgerrors "github.com/artemisia-corp/storefront/pkg/errors"
	"github.com/artemisia-corp/storefront/pkg/logger"
)

type addLineRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gte=1"`
	Quantity  int   `json:"quantity" validate:"required,gte=1,max=1000"`
}

type selectAddressRequest struct {
	AddressID int64 `json:"address_id" validate:"required,gte=1"`
}

type changeCurrencyRequest struct {
	Currency string `json:"currency" validate:"required,currency"`
}

// CartFetch reloads the cart and addresses and returns the reconciled view.
func CartFetch(source WorkspaceSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := workspaceFor(w, r, source, logg)
		if !ok {
			return
		}
		view, err := ws.Refresh(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartAddLine puts units of a product in the cart.
func CartAddLine(source WorkspaceSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := workspaceFor(w, r, source, logg)
		if !ok {
			return
		}
		var body addLineRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := ws.AddLine(r.Context(), body.ProductID, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartDecrement removes one unit. A line at one unit disappears.
func CartDecrement(source WorkspaceSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := workspaceFor(w, r, source, logg)
		if !ok {
			return
		}
		productID, err := validators.ParsePathID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := ws.Decrement(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartSelectAddress assigns the shipping address chosen by the buyer.
func CartSelectAddress(source WorkspaceSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := workspaceFor(w, r, source, logg)
		if !ok {
			return
		}
		var body selectAddressRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := ws.SelectAddress(r.Context(), body.AddressID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartChangeCurrency reprices the cart in another settlement currency.
func CartChangeCurrency(source WorkspaceSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := workspaceFor(w, r, source, logg)
		if !ok {
			return
		}
		var body changeCurrencyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		target, err := enums.ParseCurrency(body.Currency)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unsupported currency").
				WithDetails(map[string]any{"currency": body.Currency}))
			return
		}
		view, err := ws.ChangeCurrency(r.Context(), target)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
