package controllers

import (
	"net/http"

	"github.com/artemisia-corp/storefront/api/responses"
	"github.com/artemisia-corp/storefront/api/validators"
	"github.com/artemisia-corp/storefront/internal/checkout"
	"github.com/artemisia-corp/storefront/internal/workspace"
	"github.com/artemisia-corp/storefront/pkg/logger"
)

type startCheckoutRequest struct {
	Network string `json:"network" validate:"omitempty,max=40"`
}

type verifyResponse struct {
	Result *checkout.VerificationResult `json:"result"`
	View   workspace.View               `json:"view"`
}

// CheckoutStatus returns the live checkout view, including the countdown.
func CheckoutStatus(source WorkspaceSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := workspaceFor(w, r, source, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, ws.View())
	}
}

// CheckoutStart requests a payment transaction for the current cart.
func CheckoutStart(source WorkspaceSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := workspaceFor(w, r, source, logg)
		if !ok {
			return
		}
		var body startCheckoutRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		view, err := ws.StartCheckout(r.Context(), body.Network)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// CheckoutVerify polls the backend for the payment outcome.
func CheckoutVerify(source WorkspaceSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := workspaceFor(w, r, source, logg)
		if !ok {
			return
		}
		result, view, err := ws.VerifyPayment(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, verifyResponse{Result: result, View: view})
	}
}

// CheckoutClose abandons the checkout and stops the countdown.
func CheckoutClose(source WorkspaceSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := workspaceFor(w, r, source, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, ws.CloseCheckout())
	}
}
