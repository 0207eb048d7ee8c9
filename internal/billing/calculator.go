// Package billing converts committed time entries plus resolved rates into
// cost figures and per-currency totals. Derived only: nothing here persists.
package billing

import (
	"context"
	"math"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	entrydomain "timetrack/internal/entry/domain"
)

// UnspecifiedCurrency is the bucket for entries whose project has no known
// currency. Such entries are aggregated, never dropped.
const UnspecifiedCurrency = "unspecified"

// RoleLookup resolves a user's current role.
type RoleLookup interface {
	RoleOf(ctx context.Context, userID string) (string, error)
}

// RateResolver resolves the hourly rate for a (project, role) pair.
type RateResolver interface {
	Resolve(ctx context.Context, projectID, roleID string) (float64, error)
}

// CurrencyLookup resolves a project's currency code.
type CurrencyLookup interface {
	CurrencyOf(ctx context.Context, projectID string) (string, error)
}

// Cost holds the unrounded cost figures for a single entry. Rounding happens
// at aggregation or display, never here, so errors cannot compound.
type Cost struct {
	HourlyRate float64
	Gross      float64
	Billable   float64
}

// Calculate prices one entry at the given hourly rate:
// gross = minutes/60 × rate; billable is gross or zero by the entry's flag.
func Calculate(e *entrydomain.TimeEntry, rate float64) Cost {
	gross := float64(e.Minutes) / 60 * rate
	c := Cost{HourlyRate: rate, Gross: gross}
	if e.Billable {
		c.Billable = gross
	}
	return c
}

// Totals aggregates hours and money for one grouping key. Monetary fields are
// rounded half-up to 2 decimals when the summary is finalized.
type Totals struct {
	Hours    float64 `json:"hours"`
	Gross    float64 `json:"gross"`
	Billable float64 `json:"billable"`
}

// CurrencyTotals is one currency bucket with per-user and per-project breakdowns.
type CurrencyTotals struct {
	Totals
	ByUser    map[string]*Totals `json:"byUser,omitempty"`
	ByProject map[string]*Totals `json:"byProject,omitempty"`
}

// Summary maps currency code (or UnspecifiedCurrency) to its totals.
type Summary struct {
	Currencies map[string]*CurrencyTotals `json:"currencies"`
}

// CurrencyCodes returns the summary's currency keys in sorted order.
func (s *Summary) CurrencyCodes() []string {
	codes := make([]string, 0, len(s.Currencies))
	for c := range s.Currencies {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// Calculator aggregates entries into billing summaries, resolving each
// entry's rate and currency through the engine's lookup collaborators.
type Calculator struct {
	roles    RoleLookup
	rates    RateResolver
	projects CurrencyLookup
	tracer   trace.Tracer
}

// NewCalculator returns a Calculator over the given lookups.
func NewCalculator(roles RoleLookup, rates RateResolver, projects CurrencyLookup) *Calculator {
	return &Calculator{
		roles:    roles,
		rates:    rates,
		projects: projects,
		tracer:   otel.Tracer("timetrack/billing"),
	}
}

// Summarize groups the entries by their project's currency and accumulates
// hours, gross, and billable-only totals, with per-user and per-project
// breakdowns inside each bucket. Lookups are resolved once per key within
// the call so repeated entries see consistent rates.
func (c *Calculator) Summarize(ctx context.Context, entries []*entrydomain.TimeEntry) (*Summary, error) {
	ctx, span := c.tracer.Start(ctx, "billing.Summarize")
	defer span.End()

	roleByUser := map[string]string{}
	currencyByProject := map[string]string{}
	rateByPair := map[[2]string]float64{}

	summary := &Summary{Currencies: map[string]*CurrencyTotals{}}
	for _, e := range entries {
		roleID, ok := roleByUser[e.OwnerID]
		if !ok {
			var err error
			roleID, err = c.roles.RoleOf(ctx, e.OwnerID)
			if err != nil {
				return nil, err
			}
			roleByUser[e.OwnerID] = roleID
		}
		pair := [2]string{e.ProjectID, roleID}
		rate, ok := rateByPair[pair]
		if !ok {
			var err error
			rate, err = c.rates.Resolve(ctx, e.ProjectID, roleID)
			if err != nil {
				return nil, err
			}
			rateByPair[pair] = rate
		}
		currency, ok := currencyByProject[e.ProjectID]
		if !ok {
			var err error
			currency, err = c.projects.CurrencyOf(ctx, e.ProjectID)
			if err != nil {
				return nil, err
			}
			currencyByProject[e.ProjectID] = currency
		}
		if currency == "" {
			currency = UnspecifiedCurrency
		}

		bucket := summary.Currencies[currency]
		if bucket == nil {
			bucket = &CurrencyTotals{
				ByUser:    map[string]*Totals{},
				ByProject: map[string]*Totals{},
			}
			summary.Currencies[currency] = bucket
		}

		cost := Calculate(e, rate)
		hours := float64(e.Minutes) / 60
		bucket.add(hours, cost)
		bucket.userTotals(e.OwnerID).add(hours, cost)
		bucket.projectTotals(e.ProjectID).add(hours, cost)
	}

	for _, bucket := range summary.Currencies {
		bucket.round()
	}
	return summary, nil
}

func (t *Totals) add(hours float64, cost Cost) {
	t.Hours += hours
	t.Gross += cost.Gross
	t.Billable += cost.Billable
}

func (t *Totals) round() {
	t.Hours = Round2(t.Hours)
	t.Gross = Round2(t.Gross)
	t.Billable = Round2(t.Billable)
}

func (ct *CurrencyTotals) userTotals(userID string) *Totals {
	t := ct.ByUser[userID]
	if t == nil {
		t = &Totals{}
		ct.ByUser[userID] = t
	}
	return t
}

func (ct *CurrencyTotals) projectTotals(projectID string) *Totals {
	t := ct.ByProject[projectID]
	if t == nil {
		t = &Totals{}
		ct.ByProject[projectID] = t
	}
	return t
}

func (ct *CurrencyTotals) round() {
	ct.Totals.round()
	for _, t := range ct.ByUser {
		t.round()
	}
	for _, t := range ct.ByProject {
		t.round()
	}
}

// Round2 rounds half-up (away from zero) to 2 decimal places. Applied only
// at aggregation and display boundaries.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
