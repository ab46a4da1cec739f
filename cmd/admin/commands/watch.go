package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kotoba-study/kotoba-api/internal/config"
	"github.com/kotoba-study/kotoba-api/internal/database"
	"github.com/kotoba-study/kotoba-api/internal/store"
	"github.com/spf13/cobra"
)

// NewWatchCmd creates the watch command
func NewWatchCmd() *cobra.Command {
	var collection string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a collection for changes",
		Long:  "Subscribe to a collection and print every snapshot until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch collection {
			case database.CategoriesCollection, database.TermsCollection,
				database.ActivityLogsCollection, database.DailySummariesCollection:
			default:
				return fmt.Errorf("unknown collection %q", collection)
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			ctx, cancel := context.WithCancel(context.Background())
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

			unsubscribe, err := docStore.Subscribe(ctx, collection, store.Query{}, func(records []store.Record) {
				fmt.Printf("--- snapshot: %d document(s)\n", len(records))
				for _, rec := range records {
					fmt.Printf("  %s\n", rec.Key)
				}
			})
			if err != nil {
				return fmt.Errorf("failed to subscribe: %w", err)
			}
			defer unsubscribe()

			fmt.Printf("Watching %s (Ctrl-C to stop)\n", collection)
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit
			return nil
		},
	}

	cmd.Flags().StringVar(&collection, "collection", database.CategoriesCollection, "Collection to watch")

	return cmd
}
