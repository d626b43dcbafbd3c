package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rshade/holocron/internal/tui"
)

// ErrNotTerminal is returned when the browser is requested without an interactive terminal.
var ErrNotTerminal = errors.New("the cache browser needs an interactive terminal")

func newVisualsCmd(s *session) *cobra.Command {
	var show bool

	cmd := &cobra.Command{
		Use:   "visuals",
		Short: "Browse cached searches interactively",
		Long: `Open a two-pane browser over the cache. The left pane lists every cached
search; selecting one shows its characters in the right pane.`,
		Example: `  holocron visuals --show`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !show {
				return cmd.Help()
			}
			return runVisuals(cmd.Context(), cmd.OutOrStdout(), s)
		},
	}

	cmd.Flags().BoolVar(&show, "show", false, "open the cache browser")

	return cmd
}

func runVisuals(ctx context.Context, w io.Writer, s *session) error {
	n, err := s.app.Cache.Count(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		_, _ = fmt.Fprintln(w, "No cached searches.")
		return nil
	}
	if !s.isTerminal() {
		return ErrNotTerminal
	}

	entries, err := s.app.Cache.List(ctx)
	if err != nil {
		return err
	}

	logger.Debug().Ctx(ctx).Int("entries", len(entries)).Msg("opening cache browser")
	model := tui.NewBrowserModel(ctx, entries, s.app.Cache.LoadByTermAndDatePrefix)
	return s.runProgram(ctx, model)
}
