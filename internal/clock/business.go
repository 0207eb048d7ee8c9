package clock

import (
	"fmt"
	"time"
)

// DefaultBusinessOffsetHours is the fixed business timezone offset from UTC
// used when config provides none (UTC-5, the original deployment's zone).
const DefaultBusinessOffsetHours = -5

// BusinessLocation returns a fixed-offset *time.Location for the given whole-hour
// offset from UTC. Presentation-layer only; never feed its times back into
// interval arithmetic.
func BusinessLocation(offsetHours int) *time.Location {
	name := fmt.Sprintf("UTC%+d", offsetHours)
	return time.FixedZone(name, offsetHours*3600)
}

// FormatLocal renders a UTC instant in the business timezone using RFC 3339.
func FormatLocal(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.RFC3339)
}
