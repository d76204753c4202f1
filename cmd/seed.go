package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chrisdamba/foodsite/internal/factories"
	"github.com/chrisdamba/foodsite/internal/models"
	"github.com/chrisdamba/foodsite/internal/repositories"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate demo restaurants, tables and menus",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		reset, _ := cmd.Flags().GetBool("reset")
		if reset {
			if err := resetStore(ctx, store); err != nil {
				return err
			}
		}

		bar := progressbar.NewOptions(cfg.Seed.Restaurants,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("seeding restaurants"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		if err := seedStore(ctx, store, cfg.Seed, func() { _ = bar.Add(1) }); err != nil {
			return err
		}
		_ = bar.Finish()

		restaurants, _ := store.Restaurants.Count(ctx)
		items, _ := store.MenuItems.Count(ctx)
		fmt.Fprintf(cmd.OutOrStdout(), "%d restaurants, %d menu items\n", restaurants, items)
		return nil
	},
}

func init() {
	seedCmd.Flags().Int64("seed", 42, "random seed for generated data")
	seedCmd.Flags().Int("restaurants", 3, "number of restaurants to generate")
	seedCmd.Flags().Int("tables", 12, "tables per restaurant")
	seedCmd.Flags().Bool("reset", false, "delete existing restaurants, menus and reservations first")
	cobra.CheckErr(viper.BindPFlag("seed.seed", seedCmd.Flags().Lookup("seed")))
	cobra.CheckErr(viper.BindPFlag("seed.restaurants", seedCmd.Flags().Lookup("restaurants")))
	cobra.CheckErr(viper.BindPFlag("seed.tables", seedCmd.Flags().Lookup("tables")))
	rootCmd.AddCommand(seedCmd)
}

func seedStore(ctx context.Context, store *repositories.Store, seed models.SeedConfig, progress func()) error {
	catalog := factories.GenerateCatalog(seed, progress)
	if err := store.Restaurants.BulkCreate(ctx, catalog.Restaurants); err != nil {
		return fmt.Errorf("seeding restaurants: %w", err)
	}
	if err := store.MenuItems.BulkCreate(ctx, catalog.MenuItems); err != nil {
		return fmt.Errorf("seeding menu items: %w", err)
	}
	for _, r := range catalog.Restaurants {
		logger.Info().Str("restaurant_id", r.ID).Str("domain", r.Domain).Int("tables", len(r.Tables)).Msg("seeded restaurant")
	}
	return nil
}

// resetStore deletes children before parents.
func resetStore(ctx context.Context, store *repositories.Store) error {
	if err := store.Reservations.DeleteAll(ctx); err != nil {
		return fmt.Errorf("deleting reservations: %w", err)
	}
	if err := store.MenuItems.DeleteAll(ctx); err != nil {
		return fmt.Errorf("deleting menu items: %w", err)
	}
	if err := store.Restaurants.DeleteAll(ctx); err != nil {
		return fmt.Errorf("deleting restaurants: %w", err)
	}
	return nil
}

func sortItems(items []*models.MenuItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].RestaurantID != items[j].RestaurantID {
			return items[i].RestaurantID < items[j].RestaurantID
		}
		return items[i].ID < items[j].ID
	})
}
