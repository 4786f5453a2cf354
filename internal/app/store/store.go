// Package store holds conventions shared by the per-collection stores:
// the common not-found sentinel and the timestamp format every collection
// uses for created_date/updated_date.
package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned by store lookups when no document matches.
// Handlers translate it to a 404 with an entity-specific message.
var ErrNotFound = errors.New("not found")

// isoLayout matches the timestamp format already present in the data:
// microsecond precision with an explicit +00:00 offset. Keeping the exact
// format matters because meeting reminders range-compare date strings
// lexically.
const isoLayout = "2006-01-02T15:04:05.000000"

// NowISO returns the current UTC time in the collection timestamp format.
func NowISO() string {
	return FormatISO(time.Now())
}

// FormatISO renders t in the collection timestamp format.
func FormatISO(t time.Time) string {
	return t.UTC().Format(isoLayout) + "+00:00"
}
