package permits

import (
	"context"
	"time"
)

// Portal drives a rendered permit-search session. Implementations own
// the browser; parsers only ever see page source, which keeps them
// pure and testable against fixtures.
type Portal interface {
	// Search navigates to the portal and submits a date-range search.
	Search(ctx context.Context, start, end time.Time) error

	// PageSource returns the current rendered page HTML.
	PageSource(ctx context.Context) (string, error)

	// NextPage advances to the next result page. Returns false when
	// there is no next page.
	NextPage(ctx context.Context) (bool, error)

	Close() error
}
