package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/holocron/internal/cli/pagination"
	"github.com/rshade/holocron/internal/store"
)

// Output formats accepted by cache --list.
const (
	outputTable = "table"
	outputJSON  = "json"
)

// tabPadding is the minimum column padding for tabwriter output.
const tabPadding = 2

// ListOptions holds the flags of cache --list.
type ListOptions struct {
	Output string
	Sort   string
	Page   pagination.Params
}

func newCacheCmd(s *session) *cobra.Command {
	var (
		clean bool
		list  bool
		opts  ListOptions
	)

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the search cache",
		Example: `  holocron cache --list
  holocron cache --list --output json
  holocron cache --list --sort date:desc --limit 10
  holocron cache --list --page 2 --page-size 20
  holocron cache --clean`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()

			switch {
			case clean:
				return runCacheClean(ctx, w, s.app.Cache)
			case list:
				return runCacheList(ctx, w, s.app.Cache, opts)
			default:
				return cmd.Help()
			}
		},
	}

	cmd.Flags().BoolVar(&clean, "clean", false, "remove every cached search")
	cmd.Flags().BoolVar(&list, "list", false, "list cached searches")
	cmd.Flags().StringVar(&opts.Output, "output", outputTable, "list output format: table or json")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "sort listed entries by term or date, optionally with :asc or :desc")
	cmd.Flags().IntVar(&opts.Page.Limit, "limit", 0, "maximum number of entries to list (0 = all)")
	cmd.Flags().IntVar(&opts.Page.Offset, "offset", 0, "number of entries to skip")
	cmd.Flags().IntVar(&opts.Page.Page, "page", 0, "page number to list, starting at 1 (requires --page-size)")
	cmd.Flags().IntVar(&opts.Page.PageSize, "page-size", 0, "entries per page")
	cmd.MarkFlagsMutuallyExclusive("clean", "list")

	return cmd
}

func runCacheClean(ctx context.Context, w io.Writer, cache *store.CacheStore) error {
	removed, err := cache.Clear(ctx)
	if err != nil {
		return err
	}
	logger.Info().Ctx(ctx).Bool("removed", removed).Msg("cache cleaned")
	if removed {
		_, _ = fmt.Fprintln(w, "removed cache")
	}
	return nil
}

func runCacheList(ctx context.Context, w io.Writer, cache *store.CacheStore, opts ListOptions) error {
	switch opts.Output {
	case outputTable, outputJSON:
	default:
		return fmt.Errorf("unsupported output format: %s", opts.Output)
	}
	if err := opts.Page.Validate(); err != nil {
		return err
	}
	field, order, err := pagination.ParseSort(opts.Sort)
	if err != nil {
		return err
	}

	entries, err := cache.List(ctx)
	if err != nil {
		return err
	}
	entries, err = pagination.NewEntrySorter().Sort(entries, field, order)
	if err != nil {
		return err
	}

	total := len(entries)
	window := pagination.Apply(entries, opts.Page)

	if opts.Output == outputJSON {
		if window == nil {
			window = []store.Entry{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(window)
	}

	if total == 0 {
		_, _ = fmt.Fprintln(w, "No cached searches.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tTERM\tCACHED AT")
	for _, e := range window {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", e.ID, e.Term, e.Display())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if opts.Page.IsEnabled() {
		meta := pagination.NewMeta(opts.Page, len(window), total)
		_, _ = fmt.Fprintf(w, "\nShowing %d of %d cached search(es)", meta.Returned, meta.TotalItems)
		if meta.HasNext {
			_, _ = fmt.Fprint(w, " (more available)")
		}
		_, _ = fmt.Fprintln(w)
		return nil
	}
	_, _ = fmt.Fprintf(w, "\n%d cached search(es)\n", total)
	return nil
}
