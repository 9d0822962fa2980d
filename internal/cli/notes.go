package cli

import (
	"context"
	"fmt"

	"smart-notes-be/internal/config"
	"smart-notes-be/internal/dto"
	"smart-notes-be/internal/model"
	"smart-notes-be/pkg/database"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var reprocessCmd = &cobra.Command{
	Use:   "reprocess <note-id>",
	Short: "Re-enrich a stored note now, without going through the queue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid note id %q: %w", args[0], err)
		}
		ctx := context.Background()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		if _, err := a.container.NoteService.Reenrich(ctx, id); err != nil {
			return err
		}
		note, err := a.container.NoteService.Show(ctx, id)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), outputFormat, note)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show note totals by sentiment and category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := context.Background()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		stats, err := a.container.NoteService.Stats(ctx)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), outputFormat, stats)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		query := &dto.ListNotesQuery{}
		query.Category, _ = cmd.Flags().GetString("category")
		query.Sentiment, _ = cmd.Flags().GetString("sentiment")
		query.Search, _ = cmd.Flags().GetString("search")
		query.Limit, _ = cmd.Flags().GetInt("limit")

		ctx := context.Background()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		notes, err := a.container.NoteService.List(ctx, query)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), outputFormat, notes)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(context.Background())
		if err != nil {
			return err
		}
		a.close()
		fmt.Fprintf(cmd.OutOrStdout(), "migrated %d tables\n", len(model.All()))
		return nil
	},
}

// dbCheckCmd only pings, so it does not load models.
var dbCheckCmd = &cobra.Command{
	Use:   "db-check",
	Short: "Verify the database is reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.Load()
		db, driver, err := database.Open(cfg.Database.Connection, cfg.Database.SQLitePath)
		if err != nil {
			return err
		}
		defer database.Close(db)
		if err := database.Ping(db); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", driver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reprocessCmd, statsCmd, listCmd, migrateCmd, dbCheckCmd)

	listCmd.Flags().String("category", "", "only this category")
	listCmd.Flags().String("sentiment", "", "only this sentiment (positive, negative, neutral)")
	listCmd.Flags().String("search", "", "case-insensitive title/content match")
	listCmd.Flags().Int("limit", 20, "maximum notes to show (0 = all)")
}
