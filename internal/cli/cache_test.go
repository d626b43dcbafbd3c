package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/holocron/internal/store"
)

func TestCache_Clean(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1/api")
	env.seed(t, "Luke", "Leia", "Han")
	require.Equal(t, 3, env.count(t))

	out, err := env.run(t, "cache", "--clean")
	require.NoError(t, err)
	assert.Equal(t, "removed cache\n", out)
	assert.Equal(t, 0, env.count(t))

	out, err = env.run(t, "cache", "--clean")
	require.NoError(t, err)
	assert.Empty(t, out, "nothing to remove")
}

func TestCache_List(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1/api")

	out, err := env.run(t, "cache", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "No cached searches.")

	env.seed(t, "Luke", "Leia")

	out, err = env.run(t, "cache", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "TERM")
	assert.Contains(t, out, "Luke")
	assert.Contains(t, out, "Leia")
	assert.Contains(t, out, "2 cached search(es)")
	assert.Less(t, strings.Index(out, "Luke"), strings.Index(out, "Leia"), "insertion order")
}

func TestCache_ListJSON(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1/api")
	env.seed(t, "Luke")

	out, err := env.run(t, "cache", "--list", "--output", "json")
	require.NoError(t, err)

	var entries []store.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Luke", entries[0].Term)
	assert.NotEmpty(t, entries[0].ID)
}

func TestCache_ListUnsupportedFormat(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1/api")

	_, err := env.run(t, "cache", "--list", "--output", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestCache_CleanAndListExclusive(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1/api")

	_, err := env.run(t, "cache", "--clean", "--list")
	require.Error(t, err)
}

func TestCache_ListSortAndWindow(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1/api")
	env.seed(t, "Luke", "Han", "Leia")

	out, err := env.run(t, "cache", "--list", "--sort", "term", "--limit", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Han")
	assert.Contains(t, out, "Leia")
	assert.NotContains(t, out, "Luke")
	assert.Contains(t, out, "Showing 2 of 3 cached search(es) (more available)")

	out, err = env.run(t, "cache", "--list", "--sort", "date:desc", "--page", "1", "--page-size", "1",
		"--output", "json")
	require.NoError(t, err)
	var entries []store.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Leia", entries[0].Term)
}

func TestCache_ListInvalidWindow(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1/api")

	_, err := env.run(t, "cache", "--list", "--page", "2")
	require.Error(t, err)

	_, err = env.run(t, "cache", "--list", "--sort", "mass")
	require.Error(t, err)
}
