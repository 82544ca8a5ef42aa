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

// AdminService is the surface the venue/event/seat handlers need.
type AdminService interface {
	CreateVenue(ctx context.Context, in app.CreateVenueInput) (domain.Venue, error)
	ListVenues(ctx context.Context) ([]domain.Venue, error)
	GetVenue(ctx context.Context, venueID string) (domain.Venue, error)
	CreateEvent(ctx context.Context, in app.CreateEventInput) (domain.Event, error)
	ListEvents(ctx context.Context, salesOpenOnly bool) ([]domain.Event, error)
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	SetSalesOpen(ctx context.Context, eventID string, open bool) (domain.Event, error)
	CreateSeat(ctx context.Context, in app.CreateSeatInput) (domain.Seat, error)
	ListAvailableSeats(ctx context.Context, eventID string) ([]domain.Seat, error)
}

type venueRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type venueResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

func toVenueResponse(v domain.Venue) venueResponse {
	return venueResponse{ID: v.ID, Name: v.Name, Address: v.Address}
}

func HandleCreateVenue(svc AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req venueRequest
		if err := decodeBody(w, r, &req); err != nil {
			return
		}
		venue, err := svc.CreateVenue(r.Context(), app.CreateVenueInput{
			Name:    req.Name,
			Address: req.Address,
		})
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toVenueResponse(venue))
	}
}

func HandleListVenues(svc AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		venues, err := svc.ListVenues(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}
		out := make([]venueResponse, 0, len(venues))
		for _, v := range venues {
			out = append(out, toVenueResponse(v))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func HandleGetVenue(svc AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		venue, err := svc.GetVenue(r.Context(), chi.URLParam(r, "venueID"))
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toVenueResponse(venue))
	}
}

type createEventRequest struct {
	VenueID  string     `json:"venue_id"`
	Name     string     `json:"name"`
	StartsAt *time.Time `json:"starts_at,omitempty"`
	Capacity int        `json:"capacity"`
}

type eventResponse struct {
	ID        string    `json:"id"`
	VenueID   string    `json:"venue_id"`
	Name      string    `json:"name"`
	StartsAt  time.Time `json:"starts_at"`
	Capacity  int       `json:"capacity"`
	SalesOpen bool      `json:"sales_open"`
}

func toEventResponse(e domain.Event) eventResponse {
	return eventResponse{
		ID:        e.ID,
		VenueID:   e.VenueID,
		Name:      e.Name,
		StartsAt:  e.StartsAt,
		Capacity:  e.Capacity,
		SalesOpen: e.SalesOpen,
	}
}

func HandleCreateEvent(svc AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createEventRequest
		if err := decodeBody(w, r, &req); err != nil {
			return
		}
		event, err := svc.CreateEvent(r.Context(), app.CreateEventInput{
			VenueID:  req.VenueID,
			Name:     req.Name,
			StartsAt: req.StartsAt,
			Capacity: req.Capacity,
		})
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toEventResponse(event))
	}
}

func HandleListEvents(svc AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		salesOpenOnly := r.URL.Query().Get("sales_open_only") == "true"
		events, err := svc.ListEvents(r.Context(), salesOpenOnly)
		if err != nil {
			respondError(w, err)
			return
		}
		out := make([]eventResponse, 0, len(events))
		for _, e := range events {
			out = append(out, toEventResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func HandleGetEvent(svc AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, err := svc.GetEvent(r.Context(), chi.URLParam(r, "eventID"))
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(event))
	}
}

type updateEventRequest struct {
	SalesOpen *bool `json:"sales_open"`
}

func HandleUpdateEvent(svc AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateEventRequest
		if err := decodeBody(w, r, &req); err != nil {
			return
		}
		eventID := chi.URLParam(r, "eventID")

		if req.SalesOpen == nil {
			event, err := svc.GetEvent(r.Context(), eventID)
			if err != nil {
				respondError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, toEventResponse(event))
			return
		}

		event, err := svc.SetSalesOpen(r.Context(), eventID, *req.SalesOpen)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(event))
	}
}

type createSeatRequest struct {
	EventID    string `json:"event_id"`
	Label      string `json:"label"`
	Row        string `json:"row"`
	Col        int    `json:"col"`
	PriceCents int64  `json:"price_cents"`
}

type seatResponse struct {
	ID         string `json:"id"`
	EventID    string `json:"event_id"`
	Label      string `json:"label"`
	Row        string `json:"row"`
	Col        int    `json:"col"`
	PriceCents int64  `json:"price_cents"`
	State      string `json:"state"`
}

func toSeatResponse(s domain.Seat) seatResponse {
	return seatResponse{
		ID:         s.ID,
		EventID:    s.EventID,
		Label:      s.Label,
		Row:        s.Row,
		Col:        s.Col,
		PriceCents: s.PriceCents,
		State:      string(s.State),
	}
}

func HandleCreateSeat(svc AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSeatRequest
		if err := decodeBody(w, r, &req); err != nil {
			return
		}
		seat, err := svc.CreateSeat(r.Context(), app.CreateSeatInput{
			EventID:    req.EventID,
			Label:      req.Label,
			Row:        req.Row,
			Col:        req.Col,
			PriceCents: req.PriceCents,
		})
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toSeatResponse(seat))
	}
}

// HandleListAvailableSeats lists an event's FREE seats for selection.
func HandleListAvailableSeats(svc AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seats, err := svc.ListAvailableSeats(r.Context(), chi.URLParam(r, "eventID"))
		if err != nil {
			respondError(w, err)
			return
		}
		out := make([]seatResponse, 0, len(seats))
		for _, s := range seats {
			out = append(out, toSeatResponse(s))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return err
	}
	return nil
}
