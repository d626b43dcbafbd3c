// Package store persists holocron's local state in a SQLite database.
//
// Two tables live in the database file:
//   - dico_swapi_attributes: the attribute dictionary mapping API field names to
//     display labels per entity kind, seeded once when the table is created
//   - swapi_cache: an append-only log of searches, one row per saved result set
//
// The cache never overwrites or evicts. Reads follow "latest wins": the newest
// snapshot for a term is the one with the greatest timestamp, ties broken by
// insertion order. Timestamps are stored as integer microseconds and only rendered
// as text (see FormatKey) at the display boundary.
//
// All statements use bound parameters. The database is opened with the pure-Go
// modernc.org/sqlite driver so the binary needs no cgo.
package store
