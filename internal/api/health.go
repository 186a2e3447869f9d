package api

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/hlog"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthResponse struct {
	Status string `json:"status"`
}

// HealthHandler serves GET /healthz: 200 when the database answers, 503
// otherwise
func HealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Msg("health check failed")
			writeJSON(w, r, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
			return
		}
		writeJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
