package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kotoba-study/kotoba-api/internal/config"
	"github.com/kotoba-study/kotoba-api/internal/database"
	"github.com/kotoba-study/kotoba-api/internal/services/activity"
	"github.com/kotoba-study/kotoba-api/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewRebuildCmd creates the rebuild command
func NewRebuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild daily summaries",
		Long:  "Recompute every daily summary from the full activity log, replacing stored summaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			logger, err := zap.NewProduction()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()

			docStore, err := store.Open(ctx, cfg.StoreDriver, cfg.FirestoreProjectID, cfg.CredentialsFile)
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer func() {
				if err := docStore.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close store: %v\n", err)
				}
			}()

			repos := database.NewRepositories(docStore)
			svc := activity.NewService(repos.Logs, repos.Summaries, logger)

			fmt.Println("Rebuilding daily summaries from activity logs...")
			dates, err := svc.RebuildSummaries(ctx)
			if err != nil {
				return fmt.Errorf("rebuild failed: %w", err)
			}

			fmt.Printf("✓ Rebuilt summaries for %d date(s)\n", dates)
			return nil
		},
	}

	return cmd
}
