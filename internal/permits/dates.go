package permits

import (
	"strings"
	"time"
)

// appliedDateFormats in the order the portals are known to emit them.
var appliedDateFormats = []string{
	"01/02/2006",
	"01/02/06",
	"2006-01-02",
	"Jan 2, 2006",
}

// parseAppliedDate tries each known format. An unparseable date yields
// nil rather than failing the record.
func parseAppliedDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, format := range appliedDateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return &t
		}
	}
	return nil
}
