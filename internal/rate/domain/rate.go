package domain

// Rate is the configured hourly amount for a (project, role) pair, in the
// project's currency. Absence of a row is not an error: billing degrades to
// zero cost.
type Rate struct {
	ProjectID  string
	RoleID     string
	HourlyRate float64
}
