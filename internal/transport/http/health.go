package http

import (
	"context"
	"net/http"
)

// Pinger is the slice of the database pool the health endpoint needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports readiness. It pings the database so a load balancer
// stops routing to an instance that lost its connection. A nil pinger
// reports healthy, which keeps handler tests free of database wiring.
func HealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
