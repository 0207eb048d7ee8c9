// Package httpjson holds the JSON request/response helpers and the mapping
// from engine errors to HTTP statuses, shared by all feature handlers.
package httpjson

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	entrydomain "timetrack/internal/entry/domain"
	entryservice "timetrack/internal/entry/service"
	timerdomain "timetrack/internal/timer/domain"
	timerservice "timetrack/internal/timer/service"
)

// Error codes returned in response bodies. Stable: clients branch on these,
// not on messages.
const (
	CodeValidation      = "validation"
	CodeTimerExists     = "timer_exists"
	CodeOverlap         = "overlap"
	CodeStale           = "stale"
	CodeNotFound        = "not_found"
	CodeNotRunning      = "not_running"
	CodeNotPaused       = "not_paused"
	CodeNothingToCommit = "nothing_to_commit"
	CodeInternal        = "internal"
)

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the machine-readable code, a human message, and the
// conflicting interval for overlap errors.
type ErrorDetail struct {
	Code     string    `json:"code"`
	Message  string    `json:"message"`
	Conflict *Conflict `json:"conflict,omitempty"`
}

// Conflict names the committed entry an overlap error collided with.
type Conflict struct {
	EntryID string    `json:"entryId,omitempty"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// Write serializes v as JSON with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("encode response", "error", err)
		}
	}
}

// WriteError writes the error envelope for code/message at the given status.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	Write(w, status, ErrorBody{Error: ErrorDetail{Code: code, Message: message}})
}

// WriteEngineError maps an engine error to its HTTP representation. The four
// expected outcomes (validation, conflict, overlap, stale) keep their
// taxonomy; anything else is a storage/internal failure surfaced as 500
// without leaking details.
func WriteEngineError(w http.ResponseWriter, err error) {
	var validationErr *entrydomain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, CodeValidation, validationErr.Error())
		return
	}
	var overlapErr *entrydomain.OverlapError
	if errors.As(err, &overlapErr) {
		Write(w, http.StatusConflict, ErrorBody{Error: ErrorDetail{
			Code:    CodeOverlap,
			Message: overlapErr.Error(),
			Conflict: &Conflict{
				EntryID: overlapErr.EntryID,
				Start:   overlapErr.Conflicting.Start,
				End:     overlapErr.Conflicting.End,
			},
		}})
		return
	}
	switch {
	case errors.Is(err, timerdomain.ErrTimerExists):
		WriteError(w, http.StatusConflict, CodeTimerExists, err.Error())
	case errors.Is(err, timerdomain.ErrStaleTimer):
		WriteError(w, http.StatusConflict, CodeStale, err.Error())
	case errors.Is(err, timerdomain.ErrNoActiveTimer):
		WriteError(w, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, timerservice.ErrTimerNotRunning):
		WriteError(w, http.StatusConflict, CodeNotRunning, err.Error())
	case errors.Is(err, timerservice.ErrTimerNotPaused):
		WriteError(w, http.StatusConflict, CodeNotPaused, err.Error())
	case errors.Is(err, timerservice.ErrNothingToCommit):
		WriteError(w, http.StatusConflict, CodeNothingToCommit, err.Error())
	case errors.Is(err, entryservice.ErrEntryNotFound):
		WriteError(w, http.StatusNotFound, CodeNotFound, err.Error())
	default:
		slog.Error("request failed", "error", err)
		WriteError(w, http.StatusInternalServerError, CodeInternal, "internal error")
	}
}

// Decode parses the request body as JSON into v, rejecting unknown fields.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
