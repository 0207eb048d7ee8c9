// Package domain holds the committed time-entry model. Entries are immutable
// once committed except for the administrative overlay fields.
package domain

import (
	"fmt"
	"time"
)

// TimeEntry is a committed record of worked time for one owner.
// Start/End are UTC; Minutes is derived (ceiling of the span, minimum 1).
type TimeEntry struct {
	ID            string
	OwnerID       string
	ProjectID     string
	Description   string
	Start         time.Time
	End           time.Time
	Minutes       int
	Billable      bool
	Paid          bool
	InvoiceNumber string
	Note          string
	CreatedAt     time.Time
}

// Interval returns the entry's half-open [Start, End) interval.
func (e *TimeEntry) Interval() Interval {
	return Interval{Start: e.Start, End: e.End}
}

// Interval is a half-open [Start, End) span of wall-clock time in UTC.
type Interval struct {
	Start time.Time
	End   time.Time
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%s, %s)", iv.Start.Format(time.RFC3339), iv.End.Format(time.RFC3339))
}

// Overlaps reports whether two half-open intervals intersect:
// [s1,e1) and [s2,e2) overlap iff s1 < e2 && e1 > s2. Touching boundaries
// (e1 == s2) do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && iv.End.After(other.Start)
}

// MinutesCeil converts a positive span to whole minutes, rounding up on any
// partial minute, with a minimum of 1. Non-positive spans yield 0.
func MinutesCeil(start, end time.Time) int {
	d := end.Sub(start)
	if d <= 0 {
		return 0
	}
	m := int((d + time.Minute - 1) / time.Minute)
	if m < 1 {
		m = 1
	}
	return m
}

// OverlapError reports that a candidate interval collides with an already
// committed entry for the same owner. Recoverable: the caller adjusts times.
type OverlapError struct {
	OwnerID     string
	Candidate   Interval
	Conflicting Interval
	EntryID     string
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("time entry %s overlaps committed entry %s %s", e.Candidate, e.EntryID, e.Conflicting)
}

// OverlayPatch carries the administrative overlay fields that may change after
// commit. Nil fields are left untouched.
type OverlayPatch struct {
	Billable      *bool   `json:"billable,omitempty"`
	Paid          *bool   `json:"paid,omitempty"`
	InvoiceNumber *string `json:"invoiceNumber,omitempty"`
	Note          *string `json:"note,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p OverlayPatch) Empty() bool {
	return p.Billable == nil && p.Paid == nil && p.InvoiceNumber == nil && p.Note == nil
}
