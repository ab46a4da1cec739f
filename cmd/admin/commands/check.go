package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kotoba-study/kotoba-api/internal/config"
	"github.com/kotoba-study/kotoba-api/internal/middleware"
	"github.com/kotoba-study/kotoba-api/internal/store"
	"github.com/spf13/cobra"
)

// NewCheckCmd creates the check command
func NewCheckCmd() *cobra.Command {
	var skipRedis bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check backend connectivity",
		Long:  "Verify that the document store and Redis are reachable with the current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			fmt.Printf("Checking store (driver=%s)\n", cfg.StoreDriver)
			docStore, err := store.Open(ctx, cfg.StoreDriver, cfg.FirestoreProjectID, cfg.CredentialsFile)
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer func() {
				if err := docStore.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close store: %v\n", err)
				}
			}()

			if err := docStore.Ping(ctx); err != nil {
				return fmt.Errorf("store ping failed: %w", err)
			}
			fmt.Println("✓ Store is reachable")

			if skipRedis {
				fmt.Println("Skipping Redis check")
				return nil
			}

			fmt.Printf("Checking Redis at %s\n", cfg.RedisURL)
			redisLimiter, err := middleware.NewRedisRateLimiter(cfg.RedisURL)
			if err != nil {
				return fmt.Errorf("failed to connect to Redis: %w", err)
			}
			defer func() {
				if err := redisLimiter.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close Redis: %v\n", err)
				}
			}()

			if err := redisLimiter.Ping(ctx); err != nil {
				return fmt.Errorf("redis ping failed: %w", err)
			}
			fmt.Println("✓ Redis is reachable")

			fmt.Println("\n✓ All checks passed")
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipRedis, "skip-redis", false, "Skip the Redis connectivity check")

	return cmd
}
