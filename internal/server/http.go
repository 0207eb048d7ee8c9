// Package server assembles the engine's HTTP API: routing, middleware, and
// the dependency wiring between feature handlers and their services.
package server

import (
	"log/slog"
	"net/http"

	billinghandler "timetrack/internal/billing/handler"
	entryhandler "timetrack/internal/entry/handler"
	healthhandler "timetrack/internal/health/handler"
	ratehandler "timetrack/internal/rate/handler"
	"timetrack/internal/server/middleware"
	timerhandler "timetrack/internal/timer/handler"
)

// registrar is the mounting contract every feature handler satisfies.
type registrar interface {
	Register(mux *http.ServeMux)
}

// Deps holds the handlers for the routes served by this process.
type Deps struct {
	// Timer serves the timer lifecycle routes. Required.
	Timer *timerhandler.Handler
	// Entries serves manual commits, listing, and overlay patches. Required.
	Entries *entryhandler.Handler
	// Billing serves billing summaries. Required.
	Billing *billinghandler.Handler
	// Rates serves the configured-rate listing. Required.
	Rates *ratehandler.Handler
	// Health serves /healthz. Required.
	Health *healthhandler.Handler
	// Log receives one line per request; slog.Default() when nil.
	Log *slog.Logger
}

// NewHandler builds the full route tree. All /v1 routes require the
// X-User-ID identity header; /healthz does not.
func NewHandler(deps Deps) http.Handler {
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}

	api := http.NewServeMux()
	for _, h := range []registrar{deps.Timer, deps.Entries, deps.Billing, deps.Rates} {
		h.Register(api)
	}

	root := http.NewServeMux()
	deps.Health.Register(root)
	root.Handle("/v1/", middleware.RequireUser(api))

	return middleware.Recover(log, middleware.Logging(log, root))
}
