package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/rshade/holocron/internal/config"
	"github.com/rshade/holocron/internal/store"
	"github.com/rshade/holocron/internal/swapi"
)

// fakeAPI serves the three swapi.tech endpoints the client uses.
type fakeAPI struct {
	srv        *httptest.Server
	people     map[string][]map[string]any
	planets    map[string]map[string]any
	rootStatus int
	hits       atomic.Int32
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{
		people:     map[string][]map[string]any{},
		planets:    map[string]map[string]any{},
		rootStatus: http.StatusOK,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api", func(w http.ResponseWriter, _ *http.Request) {
		f.hits.Add(1)
		if f.rootStatus != http.StatusOK {
			w.WriteHeader(f.rootStatus)
			return
		}
		writeJSON(w, map[string]any{"result": map[string]string{
			"people":  f.srv.URL + "/api/people",
			"planets": f.srv.URL + "/api/planets",
		}})
	})
	mux.HandleFunc("/api/people", func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		result := []map[string]any{}
		for _, p := range f.people[r.URL.Query().Get("name")] {
			result = append(result, map[string]any{"uid": p["uid"], "properties": p})
		}
		writeJSON(w, map[string]any{"result": result})
	})
	mux.HandleFunc("/api/planets/{uid}", func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		p, ok := f.planets[r.PathValue("uid")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(w, map[string]any{"result": map[string]any{"uid": r.PathValue("uid"), "properties": p}})
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) withLuke() *fakeAPI {
	f.people["Luke"] = []map[string]any{{
		"uid":        "1",
		"name":       "Luke Skywalker",
		"height":     "172",
		"mass":       "77",
		"birth_year": "19BBY",
		"homeworld":  f.srv.URL + "/api/planets/1",
	}}
	f.planets["1"] = map[string]any{
		"name":            "Tatooine",
		"population":      "200000",
		"orbital_period":  "304",
		"rotation_period": "23",
	}
	return f
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// testEnv isolates a command run from the user's configuration.
type testEnv struct {
	dbPath string
	opts   []RootOption
}

func newTestEnv(t *testing.T, apiURL string, opts ...RootOption) *testEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvAPIURL, apiURL)
	t.Setenv(config.EnvLogLevel, "error")

	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)

	return &testEnv{dbPath: filepath.Join(home, "cache", "holocron.db"), opts: opts}
}

// run executes the root command with args and returns stdout.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd("test", e.opts...)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--db", e.dbPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

// seed saves one snapshot per term directly through the store.
func (e *testEnv) seed(t *testing.T, terms ...string) {
	t.Helper()
	ctx := context.Background()
	db, err := store.Open(ctx, e.dbPath)
	require.NoError(t, err)
	defer db.Close()

	cache := store.NewCacheStore(db)
	for _, term := range terms {
		_, err := cache.Save(ctx, term, []swapi.Character{{
			ID:         "1",
			Attributes: map[string]string{"name": term + " Skywalker"},
		}})
		require.NoError(t, err)
	}
}

func (e *testEnv) count(t *testing.T) int {
	t.Helper()
	ctx := context.Background()
	db, err := store.Open(ctx, e.dbPath)
	require.NoError(t, err)
	defer db.Close()

	n, err := store.NewCacheStore(db).Count(ctx)
	require.NoError(t, err)
	return n
}

// recordingRunner counts programs started by the visuals command.
type recordingRunner struct {
	models []tea.Model
}

func (r *recordingRunner) run(_ context.Context, m tea.Model) error {
	r.models = append(r.models, m)
	return nil
}
