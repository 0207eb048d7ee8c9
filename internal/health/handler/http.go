// Package handler implements readiness/liveness for load balancers and CI.
package handler

import (
	"context"
	"net/http"

	"timetrack/internal/server/httpjson"
)

// Pinger is the dependency probe; *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	db Pinger
}

func NewHandler(db Pinger) *Handler {
	return &Handler{db: db}
}

// Register mounts the health route on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.check)
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		httpjson.Write(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"reason": "database unreachable",
		})
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"status": "ok"})
}
