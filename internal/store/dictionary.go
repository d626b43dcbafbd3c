package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Entity kinds known to the attribute dictionary.
const (
	KindPeople  = "people"
	KindPlanets = "planets"
)

// ErrNoLabels is returned when the dictionary has no rows for a kind. It means
// the database was seeded incorrectly, not that a search failed.
var ErrNoLabels = errors.New("no attribute labels configured")

// Attribute pairs an API field name with its display label.
type Attribute struct {
	Name  string
	Label string
}

// LabelSet is the ordered attribute dictionary for one entity kind.
type LabelSet struct {
	attrs []Attribute
	index map[string]int
}

// NewLabelSet builds a LabelSet preserving the given order.
func NewLabelSet(attrs ...Attribute) LabelSet {
	ls := LabelSet{
		attrs: attrs,
		index: make(map[string]int, len(attrs)),
	}
	for i, a := range attrs {
		ls.index[a.Name] = i
	}
	return ls
}

// Names returns the API attribute names in display order.
func (ls LabelSet) Names() []string {
	names := make([]string, len(ls.attrs))
	for i, a := range ls.attrs {
		names[i] = a.Name
	}
	return names
}

// Attributes returns a copy of the ordered pairs.
func (ls LabelSet) Attributes() []Attribute {
	out := make([]Attribute, len(ls.attrs))
	copy(out, ls.attrs)
	return out
}

// Label returns the display label for name, or name itself if it is not in the set.
func (ls LabelSet) Label(name string) string {
	if i, ok := ls.index[name]; ok {
		return ls.attrs[i].Label
	}
	return name
}

// Has reports whether name is part of the set.
func (ls LabelSet) Has(name string) bool {
	_, ok := ls.index[name]
	return ok
}

// Len returns the number of attributes.
func (ls LabelSet) Len() int {
	return len(ls.attrs)
}

// Dictionary reads attribute labels from the database.
type Dictionary struct {
	db *sql.DB
}

// NewDictionary returns a Dictionary backed by db.
func NewDictionary(db *sql.DB) *Dictionary {
	return &Dictionary{db: db}
}

// Labels returns the ordered labels for kind. ErrNoLabels is returned when the
// kind has no rows.
func (d *Dictionary) Labels(ctx context.Context, kind string) (LabelSet, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT api_attribute, label
		FROM dico_swapi_attributes
		WHERE api_key = ? AND api_attribute IS NOT NULL
		ORDER BY position`, kind)
	if err != nil {
		return LabelSet{}, fmt.Errorf("querying labels for %s: %w", kind, err)
	}
	defer rows.Close()

	var attrs []Attribute
	for rows.Next() {
		var a Attribute
		if err := rows.Scan(&a.Name, &a.Label); err != nil {
			return LabelSet{}, fmt.Errorf("scanning label for %s: %w", kind, err)
		}
		attrs = append(attrs, a)
	}
	if err := rows.Err(); err != nil {
		return LabelSet{}, fmt.Errorf("reading labels for %s: %w", kind, err)
	}

	if len(attrs) == 0 {
		return LabelSet{}, fmt.Errorf("%w: %s", ErrNoLabels, kind)
	}
	return NewLabelSet(attrs...), nil
}
