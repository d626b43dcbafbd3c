package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"time"

	"github.com/oklog/ulid/v2"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/rshade/holocron/internal/logging"
	"github.com/rshade/holocron/internal/swapi"
)

// maxInsertAttempts bounds the retries of Save when its timestamp is taken.
const maxInsertAttempts = 8

// Common cache errors.
var (
	ErrNotFound    = errors.New("cache entry not found")
	ErrEmptyTerm   = errors.New("search term cannot be empty")
	ErrEmptyPrefix = errors.New("date prefix cannot be empty")
)

// CacheStore is the append-only search log.
// It is meant for a single process; it is not safe for concurrent use.
type CacheStore struct {
	db *sql.DB

	// now is the wall clock; replaced in tests.
	now func() time.Time

	// last is the most recent timestamp issued by this store.
	last time.Time

	// entropy feeds ULID generation; monotonic within a millisecond.
	entropy io.Reader
}

// Option configures a CacheStore.
type Option func(*CacheStore)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *CacheStore) {
		s.now = now
	}
}

// NewCacheStore returns a CacheStore backed by db. The schema must already exist
// (see Open and Init).
func NewCacheStore(db *sql.DB, opts ...Option) *CacheStore {
	s := &CacheStore{
		db:      db,
		now:     time.Now,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Exists reports whether at least one snapshot is stored for term.
// A storage failure is returned as an error, never as false.
func (s *CacheStore) Exists(ctx context.Context, term string) (bool, error) {
	if term == "" {
		return false, ErrEmptyTerm
	}

	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM swapi_cache WHERE term = ?`, term,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking cache for %q: %w", term, err)
	}
	return n > 0, nil
}

// Save appends a new snapshot for term and returns its entry. Existing
// snapshots are never modified.
func (s *CacheStore) Save(ctx context.Context, term string, results []swapi.Character) (Entry, error) {
	if term == "" {
		return Entry{}, ErrEmptyTerm
	}

	if results == nil {
		results = []swapi.Character{}
	}
	payload, err := json.Marshal(results)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to marshal results: %w", err)
	}

	entry, err := s.insert(ctx, term, string(payload))
	if err != nil {
		return Entry{}, err
	}

	logging.FromContext(ctx).Debug().
		Str("component", "store").
		Str("operation", "save").
		Str("id", entry.ID).
		Str("term", term).
		Int("results", len(results)).
		Msg("search cached")

	return entry, nil
}

// insert writes one row. Another process may already hold the same
// (term, cached_at) pair; the timestamp is then moved forward and the insert retried.
func (s *CacheStore) insert(ctx context.Context, term, payload string) (Entry, error) {
	for attempt := 1; ; attempt++ {
		cachedAt := s.tick()
		id, err := ulid.New(ulid.Timestamp(cachedAt), s.entropy)
		if err != nil {
			return Entry{}, fmt.Errorf("generating record id: %w", err)
		}

		entry := Entry{ID: id.String(), Term: term, CachedAt: cachedAt}
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO swapi_cache (id, term, cached_at, results_json) VALUES (?, ?, ?, ?)`,
			entry.ID, entry.Term, cachedAt.UnixMicro(), payload,
		)
		if err == nil {
			return entry, nil
		}
		if !isConstraintViolation(err) || attempt == maxInsertAttempts {
			return Entry{}, fmt.Errorf("saving search %q: %w", term, err)
		}

		logging.FromContext(ctx).Debug().
			Str("component", "store").
			Str("term", term).
			Int("attempt", attempt).
			Msg("timestamp already taken, retrying")
	}
}

// isConstraintViolation reports whether err is an SQLite constraint failure.
func isConstraintViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	// Extended codes keep the primary code in the low byte.
	return sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}

// LoadLatest returns the newest snapshot for term. Among snapshots with equal
// timestamps the one inserted last wins. ErrNotFound is returned when there is none.
func (s *CacheStore) LoadLatest(ctx context.Context, term string) (Snapshot, error) {
	if term == "" {
		return Snapshot{}, ErrEmptyTerm
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, term, cached_at, results_json
		FROM swapi_cache
		WHERE term = ?
		ORDER BY cached_at DESC, seq DESC
		LIMIT 1`, term)

	var (
		snap    Snapshot
		micros  int64
		payload string
	)
	if err := row.Scan(&snap.ID, &snap.Term, &micros, &payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, fmt.Errorf("loading latest search %q: %w", term, err)
	}
	snap.CachedAt = time.UnixMicro(micros)

	results, err := decodeResults(payload)
	if err != nil {
		return Snapshot{}, fmt.Errorf("loading latest search %q: %w", term, err)
	}
	snap.Results = results
	return snap, nil
}

// LoadByTermAndDatePrefix returns the results of the first snapshot, in
// insertion order, whose term equals term and whose key (see FormatKey) starts
// with prefix. ErrNotFound is returned when none matches.
func (s *CacheStore) LoadByTermAndDatePrefix(
	ctx context.Context,
	term, prefix string,
) ([]swapi.Character, error) {
	if term == "" {
		return nil, ErrEmptyTerm
	}
	if prefix == "" {
		return nil, ErrEmptyPrefix
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT cached_at, results_json FROM swapi_cache WHERE term = ? ORDER BY seq`, term)
	if err != nil {
		return nil, fmt.Errorf("loading search %q at %s: %w", term, prefix, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			micros  int64
			payload string
		)
		if err := rows.Scan(&micros, &payload); err != nil {
			return nil, fmt.Errorf("scanning search %q: %w", term, err)
		}
		if !keyHasPrefix(time.UnixMicro(micros), prefix) {
			continue
		}
		return decodeResults(payload)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading search %q at %s: %w", term, prefix, err)
	}
	return nil, ErrNotFound
}

// All returns a single-pass sequence over every stored entry in insertion
// order. A storage error is yielded once and ends the sequence.
func (s *CacheStore) All(ctx context.Context) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		rows, err := s.db.QueryContext(ctx,
			`SELECT id, term, cached_at FROM swapi_cache ORDER BY seq`)
		if err != nil {
			yield(Entry{}, fmt.Errorf("listing cache: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var (
				e      Entry
				micros int64
			)
			if err := rows.Scan(&e.ID, &e.Term, &micros); err != nil {
				yield(Entry{}, fmt.Errorf("scanning cache entry: %w", err))
				return
			}
			e.CachedAt = time.UnixMicro(micros)
			if !yield(e, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(Entry{}, fmt.Errorf("listing cache: %w", err))
		}
	}
}

// List collects All into a slice.
func (s *CacheStore) List(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	for e, err := range s.All(ctx) {
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Count returns the number of stored snapshots.
func (s *CacheStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM swapi_cache`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cache entries: %w", err)
	}
	return n, nil
}

// Clear removes every snapshot. It reports whether anything was deleted.
func (s *CacheStore) Clear(ctx context.Context) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM swapi_cache`)
	if err != nil {
		return false, fmt.Errorf("clearing cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("clearing cache: %w", err)
	}
	return n > 0, nil
}

// tick returns the current time truncated to microseconds, advanced past the
// last issued timestamp if the clock did not move forward.
func (s *CacheStore) tick() time.Time {
	t := s.now().Truncate(time.Microsecond)
	if !s.last.IsZero() && !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

func decodeResults(payload string) ([]swapi.Character, error) {
	var results []swapi.Character
	if err := json.Unmarshal([]byte(payload), &results); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached results: %w", err)
	}
	return results, nil
}
