// Package handler exposes manual time-entry reconciliation over HTTP.
package handler

import (
	"net/http"
	"time"

	"timetrack/internal/entry/domain"
	"timetrack/internal/entry/service"
	"timetrack/internal/server/httpjson"
	"timetrack/internal/server/middleware"
)

type Handler struct {
	svc *service.Reconciler
	loc *time.Location
}

func NewHandler(svc *service.Reconciler, loc *time.Location) *Handler {
	return &Handler{svc: svc, loc: loc}
}

// Register mounts the entry routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/entries", h.commit)
	mux.HandleFunc("GET /v1/entries", h.list)
	mux.HandleFunc("PATCH /v1/entries/{id}/overlay", h.overlay)
}

type commitRequest struct {
	ProjectID   string    `json:"projectId"`
	Description string    `json:"description"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Billable    bool      `json:"billable"`
}

// commit records a manually entered interval for the caller. Same validation
// and overlap rules as timer stops; only the source label differs.
func (h *Handler) commit(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserID(r.Context())
	var req commitRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, httpjson.CodeValidation, "invalid request body")
		return
	}
	entry, err := h.svc.Commit(r.Context(), service.CommitInput{
		OwnerID:     ownerID,
		ProjectID:   req.ProjectID,
		Description: req.Description,
		Start:       req.Start,
		End:         req.End,
		Billable:    req.Billable,
		Source:      "manual",
	})
	if err != nil {
		httpjson.WriteEngineError(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, httpjson.NewEntry(entry, h.loc))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
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
	entries, err := h.svc.ListByOwner(r.Context(), ownerID, since)
	if err != nil {
		httpjson.WriteEngineError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string][]httpjson.Entry{
		"entries": httpjson.NewEntries(entries, h.loc),
	})
}

// overlay patches the administrative fields of a committed entry. Intervals
// themselves are immutable.
func (h *Handler) overlay(w http.ResponseWriter, r *http.Request) {
	var patch domain.OverlayPatch
	if err := httpjson.Decode(r, &patch); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, httpjson.CodeValidation, "invalid request body")
		return
	}
	if patch.Empty() {
		httpjson.WriteError(w, http.StatusBadRequest, httpjson.CodeValidation, "overlay patch has no fields")
		return
	}
	entry, err := h.svc.UpdateOverlay(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		httpjson.WriteEngineError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, httpjson.NewEntry(entry, h.loc))
}
