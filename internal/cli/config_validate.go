package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/holocron/internal/config"
)

// newConfigValidateCmd creates the config validate command.
func newConfigValidateCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Loads the configuration the way every other command does (config file, .env,
HOLOCRON_* environment variables) and reports whether the result is usable.`,
		Example: `  # Validate current configuration
  holocron config validate

  # Validate and print the effective settings
  holocron config validate --verbose`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoSetup: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")

			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("configuration is invalid: %w", err)
			}

			cmd.Printf("Configuration is valid\n")
			if verbose {
				cmd.Printf("  API URL:      %s\n", cfg.API.BaseURL)
				cmd.Printf("  HTTP timeout: %s\n", cfg.API.Timeout)
				cmd.Printf("  Database:     %s\n", cfg.Cache.Database)
				cmd.Printf("  Log level:    %s\n", cfg.Logging.Level)
				cmd.Printf("  Log format:   %s\n", cfg.Logging.Format)
				if cfg.Logging.File != "" {
					cmd.Printf("  Log file:     %s\n", cfg.Logging.File)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the effective configuration")

	return cmd
}
