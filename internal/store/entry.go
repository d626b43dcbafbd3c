package store

import (
	"strings"
	"time"

	"github.com/rshade/holocron/internal/swapi"
)

// Timestamp layouts. KeyLayout is fixed width and zero padded, so its text
// sorts the same way as the times it encodes. KeyPrefixLayout is a prefix of
// it truncated to milliseconds, used by the browser to address a snapshot.
const (
	KeyLayout       = "2006-01-02_15~04~05.000000"
	KeyPrefixLayout = "2006-01-02_15~04~05.000"
	DisplayLayout   = "2006-01-02 15:04:05.000"
)

// Entry identifies one cached search.
type Entry struct {
	// ID is a ULID assigned at save time.
	ID string `json:"id"`

	// Term is the search string as submitted.
	Term string `json:"term"`

	// CachedAt is when the snapshot was saved, with microsecond resolution.
	CachedAt time.Time `json:"cached_at"`
}

// Key returns the snapshot timestamp in KeyLayout.
func (e Entry) Key() string {
	return FormatKey(e.CachedAt)
}

// KeyPrefix returns the millisecond-truncated key for LoadByTermAndDatePrefix.
func (e Entry) KeyPrefix() string {
	return e.CachedAt.Local().Format(KeyPrefixLayout)
}

// Display returns the timestamp in a human readable form.
func (e Entry) Display() string {
	return FormatDisplay(e.CachedAt)
}

// Snapshot is a cached search with its results.
type Snapshot struct {
	Entry

	Results []swapi.Character `json:"results"`
}

// FormatKey renders t in KeyLayout in local time.
func FormatKey(t time.Time) string {
	return t.Local().Format(KeyLayout)
}

// FormatDisplay renders t in DisplayLayout in local time.
func FormatDisplay(t time.Time) string {
	return t.Local().Format(DisplayLayout)
}

// keyHasPrefix reports whether t's key starts with prefix.
func keyHasPrefix(t time.Time, prefix string) bool {
	return strings.HasPrefix(FormatKey(t), prefix)
}
