// Package services holds the business rules of incident reports, saved routes
// and accounts. Services keep no state between calls; everything lives in the
// stores they are given.
package services

import "time"

// Clock returns the current time. A nil Clock means the wall clock.
type Clock func() time.Time

// now is truncated to milliseconds, the precision timestamps are stored with.
func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC().Truncate(time.Millisecond)
	}
	return c().UTC().Truncate(time.Millisecond)
}
