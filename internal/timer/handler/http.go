// Package handler exposes the timer lifecycle over HTTP.
package handler

import (
	"context"
	"net/http"
	"time"

	"timetrack/internal/clock"
	"timetrack/internal/server/httpjson"
	"timetrack/internal/server/middleware"
	"timetrack/internal/timer/domain"
	"timetrack/internal/timer/service"
)

type Handler struct {
	svc *service.Service
	loc *time.Location
}

// NewHandler returns the timer HTTP handler. loc is the business timezone
// used for the *_local display fields.
func NewHandler(svc *service.Service, loc *time.Location) *Handler {
	return &Handler{svc: svc, loc: loc}
}

// Register mounts the timer routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/timer", h.get)
	mux.HandleFunc("POST /v1/timer/start", h.start)
	mux.HandleFunc("POST /v1/timer/pause", h.pause)
	mux.HandleFunc("POST /v1/timer/resume", h.resume)
	mux.HandleFunc("POST /v1/timer/stop", h.stop)
	mux.HandleFunc("POST /v1/timer/discard", h.discard)
}

type startRequest struct {
	ProjectID   string `json:"projectId"`
	Description string `json:"description"`
	Billable    bool   `json:"billable"`
}

type versionedRequest struct {
	Version int64 `json:"version"`
}

type timerResponse struct {
	OwnerID        string `json:"ownerId"`
	ProjectID      string `json:"projectId"`
	Description    string `json:"description"`
	Billable       bool   `json:"billable"`
	State          string `json:"state"`
	StartedAt      string `json:"startedAt"`
	StartedAtLocal string `json:"startedAtLocal"`
	ElapsedSeconds int64  `json:"elapsedSeconds"`
	LastHeartbeat  string `json:"lastHeartbeat"`
	Version        int64  `json:"version"`
	ForcedPause    bool   `json:"forcedPause,omitempty"`
}

func (h *Handler) timerResponse(t *domain.ActiveTimer, elapsed time.Duration, forced bool) timerResponse {
	return timerResponse{
		OwnerID:        t.OwnerID,
		ProjectID:      t.ProjectID,
		Description:    t.Description,
		Billable:       t.Billable,
		State:          string(t.State()),
		StartedAt:      t.StartedAt.Format(time.RFC3339),
		StartedAtLocal: clock.FormatLocal(t.StartedAt, h.loc),
		ElapsedSeconds: int64(elapsed / time.Second),
		LastHeartbeat:  t.LastHeartbeat.Format(time.RFC3339),
		Version:        t.Version,
		ForcedPause:    forced,
	}
}

func (h *Handler) start(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserID(r.Context())
	var req startRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, httpjson.CodeValidation, "invalid request body")
		return
	}
	t, err := h.svc.Start(r.Context(), ownerID, req.ProjectID, req.Description, req.Billable)
	if err != nil {
		httpjson.WriteEngineError(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, h.timerResponse(t, 0, false))
}

// get reads the caller's timer. The read doubles as a heartbeat: a running
// timer's last-seen instant is advanced, and a stale one is reported already
// force-paused.
func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserID(r.Context())
	obs, err := h.svc.Get(r.Context(), ownerID)
	if err != nil {
		httpjson.WriteEngineError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, h.timerResponse(obs.Timer, obs.Elapsed, obs.ForcedPause))
}

func (h *Handler) pause(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Pause)
}

func (h *Handler) resume(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Resume)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, ownerID string, version int64) (*domain.ActiveTimer, error)) {
	ownerID, _ := middleware.UserID(r.Context())
	var req versionedRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, httpjson.CodeValidation, "invalid request body")
		return
	}
	t, err := op(r.Context(), ownerID, req.Version)
	if err != nil {
		httpjson.WriteEngineError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, h.timerResponse(t, t.Elapsed(t.LastHeartbeat), false))
}

func (h *Handler) stop(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserID(r.Context())
	var req versionedRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, httpjson.CodeValidation, "invalid request body")
		return
	}
	entry, err := h.svc.Stop(r.Context(), ownerID, req.Version)
	if err != nil {
		httpjson.WriteEngineError(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, httpjson.NewEntry(entry, h.loc))
}

func (h *Handler) discard(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserID(r.Context())
	var req versionedRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, httpjson.CodeValidation, "invalid request body")
		return
	}
	if err := h.svc.Discard(r.Context(), ownerID, req.Version); err != nil {
		httpjson.WriteEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
