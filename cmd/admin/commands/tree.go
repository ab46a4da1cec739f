package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kotoba-study/kotoba-api/internal/config"
	"github.com/kotoba-study/kotoba-api/internal/database"
	"github.com/kotoba-study/kotoba-api/internal/models"
	"github.com/kotoba-study/kotoba-api/internal/store"
	"github.com/kotoba-study/kotoba-api/internal/tree"
	"github.com/spf13/cobra"
)

// NewTreeCmd creates the tree command
func NewTreeCmd() *cobra.Command {
	var favoritesOnly bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the category tree",
		Long:  "Print the category forest with favorite markers, one line per category",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
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

			categories, err := database.NewCategoryRepository(docStore).List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list categories: %w", err)
			}
			if len(categories) == 0 {
				fmt.Println("No categories found")
				return nil
			}

			snapshot := tree.BuildSnapshot(categories)
			for _, root := range snapshot.Roots() {
				printSubtree(snapshot, root, 0, favoritesOnly)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&favoritesOnly, "favorites", false, "Only print favorite categories")

	return cmd
}

func printSubtree(snapshot tree.Snapshot, category *models.Category, depth int, favoritesOnly bool) {
	if depth >= tree.MaxDepth {
		return
	}
	if !favoritesOnly || category.IsFavorite {
		marker := " "
		if category.IsFavorite {
			marker = "*"
		}
		fmt.Printf("%s%s %s (%s)\n", strings.Repeat("  ", depth), marker, category.Name, category.Key)
	}
	for _, child := range snapshot.Children(category.Key) {
		printSubtree(snapshot, child, depth+1, favoritesOnly)
	}
}
