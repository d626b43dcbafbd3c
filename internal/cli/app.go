package cli

import (
	"context"
	"database/sql"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/holocron/internal/config"
	"github.com/rshade/holocron/internal/logging"
	"github.com/rshade/holocron/internal/store"
	"github.com/rshade/holocron/internal/swapi"
)

// App holds the services a command needs. It is opened once per invocation by
// the root command and closed after the command finishes.
type App struct {
	Config     *config.Config
	Cache      *store.CacheStore
	Dictionary *store.Dictionary
	Client     *swapi.Client

	db *sql.DB
}

// OpenApp opens the cache database described by cfg and builds the services on top of it.
func OpenApp(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := store.Open(ctx, cfg.Cache.Database)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	return &App{
		Config:     cfg,
		Cache:      store.NewCacheStore(db),
		Dictionary: store.NewDictionary(db),
		Client:     swapi.NewClient(cfg.API.BaseURL, swapi.WithTimeout(cfg.API.Timeout)),
		db:         db,
	}, nil
}

// Close releases the database handle.
func (a *App) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

// ProgramRunner runs an interactive program to completion.
type ProgramRunner func(ctx context.Context, m tea.Model) error

// runProgram is the default ProgramRunner.
func runProgram(ctx context.Context, m tea.Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run interactive TUI: %w", err)
	}
	return nil
}

// session is shared by the command tree of one root command.
type session struct {
	app        *App
	logResult  *logging.LogPathResult
	runProgram ProgramRunner
	isTerminal func() bool
}
