package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/seatwise/ticketer/internal/app"
	"github.com/seatwise/ticketer/internal/domain"
)

// OrderService is the reservation engine surface the order handlers need.
type OrderService interface {
	CreateOrderWithHold(ctx context.Context, in app.CreateOrderInput) (domain.Order, error)
	ConfirmOrder(ctx context.Context, orderID, paymentToken string) (domain.Order, error)
	CancelOrder(ctx context.Context, orderID string) (domain.Order, error)
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)
}

type createOrderRequest struct {
	EventID  string   `json:"event_id"`
	SeatIDs  []string `json:"seat_ids,omitempty"`
	Quantity int      `json:"quantity,omitempty"`
}

type orderItemResponse struct {
	SeatID     string `json:"seat_id"`
	PriceCents int64  `json:"price_cents"`
}

type orderResponse struct {
	ID            string              `json:"id"`
	UserID        string              `json:"user_id"`
	EventID       string              `json:"event_id"`
	Status        string              `json:"status"`
	TotalCents    int64               `json:"total_cents"`
	HoldExpiresAt *time.Time          `json:"hold_expires_at,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	Items         []orderItemResponse `json:"items"`
}

func toOrderResponse(o domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemResponse{
			SeatID:     item.SeatID,
			PriceCents: item.PriceCents,
		})
	}
	return orderResponse{
		ID:            o.ID,
		UserID:        o.UserID,
		EventID:       o.EventID,
		Status:        string(o.Status),
		TotalCents:    o.TotalCents,
		HoldExpiresAt: o.HoldExpiresAt,
		CreatedAt:     o.CreatedAt,
		Items:         items,
	}
}

// HandleCreateOrder creates a PENDING order with a seat hold. The user is
// taken from the authenticated request context.
func HandleCreateOrder(svc OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		order, err := svc.CreateOrderWithHold(r.Context(), app.CreateOrderInput{
			UserID:   userIDFromContext(r.Context()),
			EventID:  req.EventID,
			SeatIDs:  req.SeatIDs,
			Quantity: req.Quantity,
		})
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toOrderResponse(order))
	}
}

type confirmOrderRequest struct {
	PaymentToken string `json:"payment_token"`
}

// HandleConfirmOrder charges the order. Confirming an already-confirmed
// order returns 200 with the existing order.
func HandleConfirmOrder(svc OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req confirmOrderRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		order, err := svc.ConfirmOrder(r.Context(), chi.URLParam(r, "orderID"), req.PaymentToken)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toOrderResponse(order))
	}
}

func HandleCancelOrder(svc OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := svc.CancelOrder(r.Context(), chi.URLParam(r, "orderID"))
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toOrderResponse(order))
	}
}

func HandleGetOrder(svc OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := svc.GetOrder(r.Context(), chi.URLParam(r, "orderID"))
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toOrderResponse(order))
	}
}
