// Package command contains the CLI command constructors.
package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dom/movie-catalog/internal/config"
	"github.com/dom/movie-catalog/internal/logger"
)

// RootCommand instantiates the root command, with all sub-commands bound.
func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "movie-catalog [command] [flags]",
		Short:        "A server-rendered movie catalog",
		Version:      version(),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			l := logger.Init(cfg.LogLevel)
			l.DebugContext(cmd.Context(), "configuration loaded",
				slog.String("environment", cfg.Environment),
				slog.String("session_backend", cfg.SessionBackend),
			)
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
	}

	cmd.AddCommand(
		serveCommand(),
		userCommand(),
	)

	return cmd
}
