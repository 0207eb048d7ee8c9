package httpjson

import (
	"time"

	"timetrack/internal/clock"
	entrydomain "timetrack/internal/entry/domain"
)

// Entry is the wire form of a committed time entry. Start/End stay UTC;
// the *_local pair is rendered in the business timezone for display.
type Entry struct {
	ID            string `json:"id"`
	OwnerID       string `json:"ownerId"`
	ProjectID     string `json:"projectId"`
	Description   string `json:"description"`
	Start         string `json:"start"`
	End           string `json:"end"`
	StartLocal    string `json:"startLocal"`
	EndLocal      string `json:"endLocal"`
	Minutes       int    `json:"minutes"`
	Billable      bool   `json:"billable"`
	Paid          bool   `json:"paid"`
	InvoiceNumber string `json:"invoiceNumber,omitempty"`
	Note          string `json:"note,omitempty"`
	CreatedAt     string `json:"createdAt"`
}

// NewEntry converts a domain entry to its wire form.
func NewEntry(e *entrydomain.TimeEntry, loc *time.Location) Entry {
	return Entry{
		ID:            e.ID,
		OwnerID:       e.OwnerID,
		ProjectID:     e.ProjectID,
		Description:   e.Description,
		Start:         e.Start.Format(time.RFC3339),
		End:           e.End.Format(time.RFC3339),
		StartLocal:    clock.FormatLocal(e.Start, loc),
		EndLocal:      clock.FormatLocal(e.End, loc),
		Minutes:       e.Minutes,
		Billable:      e.Billable,
		Paid:          e.Paid,
		InvoiceNumber: e.InvoiceNumber,
		Note:          e.Note,
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
	}
}

// NewEntries converts a slice, returning an empty slice rather than null.
func NewEntries(entries []*entrydomain.TimeEntry, loc *time.Location) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, NewEntry(e, loc))
	}
	return out
}
