package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chrisdamba/foodsite/internal/menu"
	"github.com/chrisdamba/foodsite/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search each restaurant's menu with the local index",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		if cfg.Database.URL == "" && cfg.Menu.Path == "" {
			if err := seedStore(ctx, store, cfg.Seed, nil); err != nil {
				return err
			}
		}
		menus, err := tenantMenus(ctx, store)
		if err != nil {
			return err
		}

		query := strings.Join(args, " ")
		tenants := search.NewTenants(search.WeightsFromConfig(cfg.Search.Weights), nil, logger)
		results := make(map[string]search.Results, len(menus))
		for _, id := range sortedKeys(menus) {
			tenants.Build(ctx, id, menus[id], nil)
			res, err := tenants.Search(ctx, id, query)
			if err != nil {
				return err
			}
			results[id] = res
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "RESTAURANT\tSCORE\tNAME\tCATEGORY\tPRICE")
		for _, id := range sortedKeys(results) {
			for _, r := range results[id].Items {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", id, r.Score, r.Item.Name, r.Item.Category, menu.FormatPrice(r.Item.Price))
			}
		}
		return tw.Flush()
	},
}

func init() {
	searchCmd.Flags().Bool("json", false, "print results as JSON")
	searchCmd.Flags().String("restaurant", "", "only search this restaurant")
	cobra.CheckErr(viper.BindPFlag("menu.restaurant_id", searchCmd.Flags().Lookup("restaurant")))
	rootCmd.AddCommand(searchCmd)
}

func loadMenuFile(path string) (*menu.Store, error) {
	m, err := menu.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading menu %s: %w", path, err)
	}
	return m, nil
}
