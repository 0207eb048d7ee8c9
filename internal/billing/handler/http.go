// Package handler exposes billing summaries over HTTP.
package handler

import (
	"context"
	"net/http"
	"time"

	"timetrack/internal/billing"
	entrydomain "timetrack/internal/entry/domain"
	"timetrack/internal/server/httpjson"
	"timetrack/internal/server/middleware"
)

// EntryLister is the slice of the entry service the billing handler needs.
type EntryLister interface {
	ListByOwner(ctx context.Context, ownerID string, since *time.Time) ([]*entrydomain.TimeEntry, error)
}

type Handler struct {
	entries EntryLister
	calc    *billing.Calculator
}

func NewHandler(entries EntryLister, calc *billing.Calculator) *Handler {
	return &Handler{entries: entries, calc: calc}
}

// Register mounts the billing routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/billing/summary", h.summary)
}

// summary aggregates the caller's committed entries into per-currency
// billable totals. An optional since filter bounds the window.
func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserID(r.Context())
	var since *time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httpjson.WriteError(w, http.StatusBadRequest, httpjson.CodeValidation, "since must be RFC 3339")
			return
		}
		utc := t.UTC()
		since = &utc
	}
	entries, err := h.entries.ListByOwner(r.Context(), ownerID, since)
	if err != nil {
		httpjson.WriteEngineError(w, err)
		return
	}
	sum, err := h.calc.Summarize(r.Context(), entries)
	if err != nil {
		httpjson.WriteEngineError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, sum)
}
