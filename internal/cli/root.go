package cli

import (
	"errors"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/holocron/internal/config"
	"github.com/rshade/holocron/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// RootOption customises the command tree, mainly for tests.
type RootOption func(*session)

// WithProgramRunner replaces the function that runs the interactive browser.
func WithProgramRunner(run ProgramRunner) RootOption {
	return func(s *session) {
		s.runProgram = run
	}
}

// WithTerminalCheck replaces the check that stdout is an interactive terminal.
func WithTerminalCheck(check func() bool) RootOption {
	return func(s *session) {
		s.isTerminal = check
	}
}

// NewRootCmd creates the root Cobra command for the holocron CLI.
// It wires up configuration, logging and tracing, opens the cache database and
// registers the search, cache and visuals subcommands.
func NewRootCmd(ver string, opts ...RootOption) *cobra.Command {
	s := &session{
		runProgram: runProgram,
		isTerminal: func() bool { return isTerminal(os.Stdout) },
	}
	for _, opt := range opts {
		opt(s)
	}

	cmd := &cobra.Command{
		Use:     "holocron",
		Short:   "Star Wars character lookup with a local search cache",
		Long:    "holocron: search the Star Wars API for characters, cache every search locally and browse the cache",
		Version: ver,
		Example: rootCmdExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = cmd.Help()
			return errMissingCommand
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if skipsSetup(cmd) {
				result := setupLogging(cmd)
				s.logResult = &result
				return nil
			}

			configPath, _ := cmd.Flags().GetString("config")
			if err := config.InitGlobalConfig(configPath); err != nil {
				return err
			}

			cfg := config.GetGlobalConfig()
			if cmd.Flags().Changed("db") {
				dbPath, _ := cmd.Flags().GetString("db")
				if dbPath == "" {
					return config.ErrEmptyDatabase
				}
				cfg.Cache.Database = dbPath
			}

			result := setupLogging(cmd)
			s.logResult = &result

			// Help and the bare root command need no database.
			if cmd == cmd.Root() {
				return nil
			}

			app, err := OpenApp(cmd.Context(), cfg)
			if err != nil {
				return errors.Join(err, cleanup(cmd, s))
			}
			s.app = app
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanup(cmd, s)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "path to the config file (default $HOLOCRON_HOME/config.yaml)")
	cmd.PersistentFlags().String("db", "", "path to the cache database (overrides config and HOLOCRON_DB)")
	cmd.AddCommand(newSearchCmd(s), newCacheCmd(s), newVisualsCmd(s), newConfigCmd())
	closeOnError(cmd, s)

	return cmd
}

var errMissingCommand = errors.New("a command is required")

// skipsSetup reports whether cmd or one of its parents carries annotationNoSetup.
func skipsSetup(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationNoSetup] == "true" {
			return true
		}
	}
	return false
}

// closeOnError wraps the RunE of cmd and its subcommands so a failing command
// still releases the session. Cobra skips PersistentPostRunE in that case.
func closeOnError(cmd *cobra.Command, s *session) {
	if run := cmd.RunE; run != nil {
		cmd.RunE = func(c *cobra.Command, args []string) error {
			err := run(c, args)
			if err == nil {
				return nil
			}
			if cerr := cleanup(c, s); cerr != nil {
				return errors.Join(err, cerr)
			}
			return err
		}
	}
	for _, sub := range cmd.Commands() {
		closeOnError(sub, s)
	}
}

// cleanup closes the database and the log file. It is safe to call twice.
func cleanup(cmd *cobra.Command, s *session) error {
	err := s.app.Close()
	s.app = nil
	logging.FromContext(cmd.Context()).Debug().Str("command", cmd.Name()).Msg("command finished")
	if s.logResult != nil {
		err = errors.Join(err, s.logResult.Close())
		s.logResult = nil
	}
	return err
}

const rootCmdExample = `  # Search for characters whose name contains "sky"
  holocron search sky

  # Include the homeworld of each character
  holocron search Luke --world

  # Ignore the cached result and ask the API again
  holocron search Luke --refresh

  # List cached searches
  holocron cache --list

  # Remove every cached search
  holocron cache --clean

  # Browse cached searches interactively
  holocron visuals --show

  # Write a default configuration file
  holocron config init`
