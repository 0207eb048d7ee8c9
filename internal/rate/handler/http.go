// Package handler exposes configured hourly rates over HTTP.
package handler

import (
	"net/http"

	"timetrack/internal/rate/repository"
	"timetrack/internal/server/httpjson"
)

type Handler struct {
	rates repository.Repository
}

func NewHandler(rates repository.Repository) *Handler {
	return &Handler{rates: rates}
}

// Register mounts the rate routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/rates", h.list)
}

type rateView struct {
	ProjectID  string  `json:"projectId"`
	RoleID     string  `json:"roleId"`
	HourlyRate float64 `json:"hourlyRate"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("projectId")
	if projectID == "" {
		httpjson.WriteError(w, http.StatusBadRequest, httpjson.CodeValidation, "projectId query parameter is required")
		return
	}
	rates, err := h.rates.ListByProject(r.Context(), projectID)
	if err != nil {
		httpjson.WriteEngineError(w, err)
		return
	}
	views := make([]rateView, 0, len(rates))
	for _, rt := range rates {
		views = append(views, rateView{ProjectID: rt.ProjectID, RoleID: rt.RoleID, HourlyRate: rt.HourlyRate})
	}
	httpjson.Write(w, http.StatusOK, map[string][]rateView{"rates": views})
}
