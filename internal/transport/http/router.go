package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RouterConfig carries the services and middleware inputs for the router.
type RouterConfig struct {
	Orders      OrderService
	Admin       AdminService
	Auth        AuthService
	Verifier    TokenVerifier
	DB          Pinger
	CORSOrigins []string
	Logger      *slog.Logger
}

// NewRouter assembles the public API. Order endpoints require a valid
// access token; reference-data endpoints are open.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	})

	r.Get("/health", HealthHandler(cfg.DB))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/users/register", HandleRegister(cfg.Auth))
		r.Post("/users/login", HandleLogin(cfg.Auth))

		r.Post("/venues", HandleCreateVenue(cfg.Admin))
		r.Get("/venues", HandleListVenues(cfg.Admin))
		r.Get("/venues/{venueID}", HandleGetVenue(cfg.Admin))

		r.Post("/events", HandleCreateEvent(cfg.Admin))
		r.Get("/events", HandleListEvents(cfg.Admin))
		r.Get("/events/{eventID}", HandleGetEvent(cfg.Admin))
		r.Patch("/events/{eventID}", HandleUpdateEvent(cfg.Admin))
		r.Get("/events/{eventID}/seats", HandleListAvailableSeats(cfg.Admin))

		r.Post("/seats", HandleCreateSeat(cfg.Admin))

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(cfg.Verifier))
			r.Post("/orders", HandleCreateOrder(cfg.Orders))
			r.Get("/orders/{orderID}", HandleGetOrder(cfg.Orders))
			r.Post("/orders/{orderID}/confirm", HandleConfirmOrder(cfg.Orders))
			r.Post("/orders/{orderID}/cancel", HandleCancelOrder(cfg.Orders))
		})
	})

	return RequestLogger(CORS(cfg.CORSOrigins, r), cfg.Logger)
}
