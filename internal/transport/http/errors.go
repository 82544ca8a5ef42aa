package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/seatwise/ticketer/internal/domain"
)

const (
	codeNotFound           = "not_found"
	codeInvalidRequestBody = "invalid_request_body"
	codeInvalidID          = "invalid_id"
	codeEmptySelection     = "empty_selection"
	codeInvalidQuantity    = "invalid_quantity"
	codeInvalidCapacity    = "invalid_capacity"
	codeInvalidPrice       = "invalid_price"
	codeEventNameRequired  = "event_name_required"
	codeVenueNameRequired  = "venue_name_required"
	codeSeatLabelRequired  = "seat_label_required"
	codeSeatLabelTaken     = "seat_label_taken"
	codeSeatUnavailable    = "seat_unavailable"
	codeInvalidOrderState  = "invalid_order_state"
	codeHoldExpired        = "hold_expired"
	codePaymentDeclined    = "payment_declined"
	codeEventSalesClosed   = "event_sales_closed"
	codeEmailTaken         = "email_taken"
	codeInvalidCredentials = "invalid_credentials"
	codeUnauthorized       = "unauthorized"
	codeForbidden          = "forbidden"
	codeInternalError      = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// respondError maps domain errors to HTTP statuses and stable codes. The
// mapping lives here so the engine can surface its failure kinds without
// knowing anything about HTTP.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSeatUnavailable):
		writeError(w, http.StatusConflict, codeSeatUnavailable, err.Error())
	case errors.Is(err, domain.ErrInvalidOrderState):
		writeError(w, http.StatusConflict, codeInvalidOrderState, err.Error())
	case errors.Is(err, domain.ErrHoldExpired):
		writeError(w, http.StatusConflict, codeHoldExpired, err.Error())
	case errors.Is(err, domain.ErrPaymentDeclined):
		writeError(w, http.StatusPaymentRequired, codePaymentDeclined, err.Error())
	case errors.Is(err, domain.ErrEventSalesClosed):
		writeError(w, http.StatusConflict, codeEventSalesClosed, err.Error())
	case errors.Is(err, domain.ErrSeatLabelTaken):
		writeError(w, http.StatusConflict, codeSeatLabelTaken, err.Error())
	case errors.Is(err, domain.ErrEmailTaken):
		writeError(w, http.StatusConflict, codeEmailTaken, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, codeInvalidCredentials, err.Error())
	case errors.Is(err, domain.ErrEventNotFound),
		errors.Is(err, domain.ErrVenueNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrEmptySelection):
		writeError(w, http.StatusBadRequest, codeEmptySelection, err.Error())
	case errors.Is(err, domain.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, codeInvalidQuantity, err.Error())
	case errors.Is(err, domain.ErrInvalidCapacity):
		writeError(w, http.StatusBadRequest, codeInvalidCapacity, err.Error())
	case errors.Is(err, domain.ErrInvalidPrice):
		writeError(w, http.StatusBadRequest, codeInvalidPrice, err.Error())
	case errors.Is(err, domain.ErrEventNameRequired):
		writeError(w, http.StatusBadRequest, codeEventNameRequired, err.Error())
	case errors.Is(err, domain.ErrVenueNameRequired):
		writeError(w, http.StatusBadRequest, codeVenueNameRequired, err.Error())
	case errors.Is(err, domain.ErrSeatLabelRequired):
		writeError(w, http.StatusBadRequest, codeSeatLabelRequired, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
