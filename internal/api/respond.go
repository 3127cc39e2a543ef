package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	cartapp "github.com/m7one/storefront/internal/cart/app"
	catalogapp "github.com/m7one/storefront/internal/catalog/app"
	checkoutapp "github.com/m7one/storefront/internal/checkout/app"
)

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write response failed", slog.Any("err", err))
	}
}

func writeErrorMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeError maps application errors onto HTTP statuses, keeping
// user-facing validation messages intact.
func writeError(w http.ResponseWriter, err error) {
	var verr *checkoutapp.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: verr.Message, Field: verr.Field})
		return
	}
	var rejected *checkoutapp.RejectedError
	if errors.As(err, &rejected) {
		writeJSON(w, http.StatusBadGateway, errorBody{Error: rejected.Error()})
		return
	}

	switch {
	case errors.Is(err, checkoutapp.ErrEmptyCart), errors.Is(err, cartapp.ErrEmptyCart):
		writeErrorMsg(w, http.StatusConflict, "cart is empty")
	case errors.Is(err, checkoutapp.ErrSessionClosed):
		writeErrorMsg(w, http.StatusGone, "checkout session is closed")
	case errors.Is(err, checkoutapp.ErrWrongStep),
		errors.Is(err, checkoutapp.ErrStepNotReachable):
		writeErrorMsg(w, http.StatusConflict, err.Error())
	case errors.Is(err, checkoutapp.ErrUnknownPromo):
		writeErrorMsg(w, http.StatusUnprocessableEntity, "unknown promo code")
	case errors.Is(err, checkoutapp.ErrSessionNotFound),
		errors.Is(err, catalogapp.ErrNotFound),
		errors.Is(err, cartapp.ErrNotFound):
		writeErrorMsg(w, http.StatusNotFound, "not found")
	case errors.Is(err, catalogapp.ErrInvalidInput):
		writeErrorMsg(w, http.StatusBadRequest, "invalid input")
	default:
		writeErrorMsg(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
