package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rshade/holocron/internal/store"
	"github.com/rshade/holocron/internal/swapi"
	"github.com/rshade/holocron/internal/tui"
)

// SearchOptions holds the flags of the search command.
type SearchOptions struct {
	Term    string
	World   bool
	Refresh bool
}

func newSearchCmd(s *session) *cobra.Command {
	var opts SearchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search for Star Wars characters by name",
		Long: `Search for characters whose name matches the query.

The latest cached result for the exact query is printed when one exists, followed
by the time it was cached. Otherwise the API is queried and the result is cached.`,
		Example: `  holocron search Luke
  holocron search sky --world
  holocron search Luke --refresh`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Term = args[0]
			return runSearch(cmd.Context(), cmd.OutOrStdout(), s.app, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.World, "world", false, "show the homeworld of each character")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "skip the cache and query the API")

	return cmd
}

// runSearch answers a search from the cache when possible and from the API otherwise.
// Cache failures degrade to a miss or an unsaved result; they never fail the command.
func runSearch(ctx context.Context, w io.Writer, app *App, opts SearchOptions) error {
	people, err := app.Dictionary.Labels(ctx, store.KindPeople)
	if err != nil {
		return fmt.Errorf("loading character labels: %w", err)
	}
	planets, err := app.Dictionary.Labels(ctx, store.KindPlanets)
	if err != nil {
		return fmt.Errorf("loading planet labels: %w", err)
	}

	if !opts.Refresh {
		if snap, ok := lookupCache(ctx, app.Cache, opts.Term); ok {
			printCharacters(w, snap.Results, people, planets, opts.World)
			_, _ = fmt.Fprintf(w, "\n%s\n", tui.RenderCachedNotice(snap.CachedAt))
			return nil
		}
	}

	results, err := app.Client.FetchCharacters(ctx, opts.Term, people.Names(), planets.Names())
	if err != nil {
		event := logger.Warn()
		if errors.Is(err, swapi.ErrNoResult) {
			event = logger.Info()
		}
		event.Ctx(ctx).Err(err).Str("term", opts.Term).Msg("search returned nothing")
		_, _ = fmt.Fprintln(w, tui.NoResultMessage)
		return nil
	}

	if _, err := app.Cache.Save(ctx, opts.Term, results); err != nil {
		logger.Warn().Ctx(ctx).Err(err).Str("term", opts.Term).Msg("could not cache search")
	}

	printCharacters(w, results, people, planets, opts.World)
	return nil
}

// lookupCache returns the latest snapshot for term. Storage errors are logged
// and reported as a miss.
func lookupCache(ctx context.Context, cache *store.CacheStore, term string) (store.Snapshot, bool) {
	exists, err := cache.Exists(ctx, term)
	if err != nil {
		logger.Warn().Ctx(ctx).Err(err).Str("term", term).Msg("cache lookup failed, querying the API")
		return store.Snapshot{}, false
	}
	if !exists {
		return store.Snapshot{}, false
	}

	snap, err := cache.LoadLatest(ctx, term)
	if err != nil {
		logger.Warn().Ctx(ctx).Err(err).Str("term", term).Msg("cache read failed, querying the API")
		return store.Snapshot{}, false
	}

	logger.Debug().Ctx(ctx).Str("term", term).Str("id", snap.ID).Msg("cache hit")
	return snap, true
}

func printCharacters(
	w io.Writer,
	results []swapi.Character,
	people, planets store.LabelSet,
	world bool,
) {
	for i, c := range results {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprint(w, tui.RenderCharacter(c, people))
		if world {
			_, _ = fmt.Fprint(w, tui.RenderHomeworld(c, planets))
		}
	}
}
