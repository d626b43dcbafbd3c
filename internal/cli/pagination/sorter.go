package pagination

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/rshade/holocron/internal/store"
)

// Entry sort fields.
const (
	SortFieldTerm = "term"
	SortFieldDate = "date"
)

// EntrySorter orders cached search entries.
type EntrySorter struct {
	compare map[string]func(a, b store.Entry) int
}

// NewEntrySorter creates an EntrySorter for the term and date fields.
func NewEntrySorter() *EntrySorter {
	return &EntrySorter{
		compare: map[string]func(a, b store.Entry) int{
			SortFieldTerm: func(a, b store.Entry) int {
				return cmp.Compare(strings.ToLower(a.Term), strings.ToLower(b.Term))
			},
			SortFieldDate: func(a, b store.Entry) int {
				return a.CachedAt.Compare(b.CachedAt)
			},
		},
	}
}

// IsValidField reports whether field can be sorted on.
func (s *EntrySorter) IsValidField(field string) bool {
	_, ok := s.compare[field]
	return ok
}

// ValidFields returns the sortable fields in a stable order.
func (s *EntrySorter) ValidFields() []string {
	fields := make([]string, 0, len(s.compare))
	for f := range s.compare {
		fields = append(fields, f)
	}
	slices.Sort(fields)
	return fields
}

// Sort returns a sorted copy of entries. Equal elements keep their insertion
// order. An empty field returns the entries unchanged.
func (s *EntrySorter) Sort(entries []store.Entry, field, order string) ([]store.Entry, error) {
	if field == "" {
		return entries, nil
	}
	compare, ok := s.compare[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrInvalidSortField, field, strings.Join(s.ValidFields(), ", "))
	}

	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b store.Entry) int {
		if order == SortOrderDesc {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return sorted, nil
}
