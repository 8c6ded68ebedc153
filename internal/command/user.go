package command

import (
	"errors"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dom/movie-catalog/internal/service"
)

func userCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User commands",
	}
	cmd.AddCommand(
		userListCommand(),
		userDeleteCommand(),
	)
	return cmd
}

func userListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			cfg, _, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			store, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() {
				runErr = errors.Join(runErr, store.Close())
			}()

			users := service.NewUserService(store.repos.User, store.repos.Movie, store.repos.Session)
			summaries, err := users.List(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "USERNAME\tMOVIES\tCREATED")
			for _, s := range summaries {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", s.Username, s.MovieCount, s.CreatedAt.Format("2006-01-02"))
			}
			return tw.Flush()
		},
	}
}

func userDeleteCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete user",
		Long: "Permanently deletes the user together with every movie they own and " +
			"all of their sessions. This operation is permanent and irreversible.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (runErr error) {
			cfg, logger, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			store, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() {
				runErr = errors.Join(runErr, store.Close())
			}()

			name := args[0]
			logger = logger.With(slog.String("name", name))

			if !yes {
				ok, err := confirm(cmd.InOrStdin(), "Are you sure you want to delete this user and their movies? [y|N] ")
				if err != nil {
					return err
				}
				if !ok {
					logger.InfoContext(cmd.Context(), "aborted user deletion")
					return nil
				}
			}

			users := service.NewUserService(store.repos.User, store.repos.Movie, store.repos.Session)
			removed, err := users.Delete(cmd.Context(), name)
			if err != nil {
				return err
			}
			logger.InfoContext(cmd.Context(), "user deleted", slog.Int64("movies_removed", removed))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
