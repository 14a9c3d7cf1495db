package cli

import (
	"fmt"
	"strings"

	"scrapi-go/pkg/models"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the scrapi command tree. Without a subcommand it
// launches the TUI. A nil app starts a session from --config.
func NewRootCommand(app *App, version string) *cobra.Command {
	if app == nil {
		app = NewApp(nil)
	}
	var (
		configPath string
		startPath  string
	)

	root := &cobra.Command{
		Use:   "scrapi",
		Short: "Terminal client for the Scrapi web-scraping platform",
		Long: `Browse runs, datasets and the actor marketplace, and talk to the
Scrapi assistant from your terminal.

Quick Start:
  scrapi config set api.token=<token>   # Authenticate
  scrapi                                # Launch the interactive UI
  scrapi runs --status succeeded         # List finished runs
  scrapi chat export my latest run as csv`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.start(configPath)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return app.stop()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if startPath != "" {
				app.sess.SetLastPath(startPath)
			}
			return app.Run(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/scrapi/config.toml)")
	root.Flags().StringVar(&startPath, "path", "", "Route to open on start, e.g. /runs")

	root.AddCommand(
		newRunsCommand(app),
		newDatasetCommand(app),
		newExportCommand(app),
		newActorsCommand(app),
		newMarketplaceCommand(app),
		newForkCommand(app),
		newChatCommand(app),
		newConfigCommand(app),
	)
	return root
}

func newRunsCommand(app *App) *cobra.Command {
	var q models.RunsQuery
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List scraper runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.ListRuns(cmd.Context(), cmd.OutOrStdout(), q)
		},
	}
	cmd.Flags().IntVar(&q.Page, "page", 1, "Page number")
	cmd.Flags().IntVar(&q.Limit, "limit", 0, "Runs per page (10, 20, 50 or 100)")
	cmd.Flags().StringVar(&q.Search, "search", "", "Filter by run id")
	cmd.Flags().StringVar(&q.Status, "status", "", "Filter by status (queued, running, succeeded, failed)")
	cmd.Flags().StringVar(&q.SortBy, "sort-by", "", "Sort key, e.g. started_at, cost, results_count")
	cmd.Flags().StringVar(&q.SortOrder, "order", "", "Sort order (asc or desc)")
	return cmd
}

func newDatasetCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dataset <runId>",
		Short: "Show the items produced by a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.ShowDataset(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
}

func newExportCommand(app *App) *cobra.Command {
	var exportFormat string
	cmd := &cobra.Command{
		Use:   "export <runId>",
		Short: "Download a run's dataset as JSON or CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.ExportDataset(cmd.Context(), cmd.OutOrStdout(), args[0], exportFormat)
		},
	}
	cmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Export format (json or csv)")
	return cmd
}

func newActorsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "actors",
		Short: "List your actors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.ListActors(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func newMarketplaceCommand(app *App) *cobra.Command {
	var q models.MarketplaceQuery
	cmd := &cobra.Command{
		Use:   "marketplace",
		Short: "Browse public actors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Marketplace(cmd.Context(), cmd.OutOrStdout(), q)
		},
	}
	cmd.Flags().StringVar(&q.Category, "category", "", "Filter by category")
	cmd.Flags().BoolVar(&q.Featured, "featured", false, "Only featured actors")
	cmd.Flags().StringVar(&q.Search, "search", "", "Search name and description")
	return cmd
}

func newForkCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "fork <actorId>",
		Short: "Fork a marketplace actor into your account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.ForkActor(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
}

func newChatCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat <message...>",
		Short: "Ask the Scrapi assistant",
		Long: `Send one message to the assistant and carry out the action it returns:
navigation is printed, exports are downloaded into export.dir.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Chat(cmd.Context(), cmd.OutOrStdout(), strings.Join(args, " "))
		},
	}

	var limit int
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show the global chat history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.ChatHistory(cmd.Context(), cmd.OutOrStdout(), limit)
		},
	}
	historyCmd.Flags().IntVar(&limit, "limit", 0, "Messages to show (default ui.history_limit)")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the global chat history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.ClearChatHistory(cmd.Context(), cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(historyCmd, clearCmd)
	return cmd
}

func newConfigCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change configuration",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the current configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return app.ShowConfig(cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:     "set <section.key=value>",
			Short:   "Set a configuration value",
			Example: "  scrapi config set api.base_url=https://api.scrapi.dev",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.SetConfig(args[0]); err != nil {
					return fmt.Errorf("failed to set config: %w", err)
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Configuration updated successfully")
				return err
			},
		},
	)
	return cmd
}
