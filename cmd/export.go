package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chrisdamba/foodsite/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write menu and reservation snapshots as Parquet",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		exporter, err := export.NewFromConfig(ctx, cfg.Export, logger)
		if err != nil {
			return err
		}
		summary, err := exporter.Export(ctx, store, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d menu items -> %s\n%d reservations -> %s\n",
			summary.MenuItems, summary.MenuItemsPath, summary.Reservations, summary.ReservationsPath)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("destination", "local", "where to write: local or s3")
	exportCmd.Flags().String("output-path", ".", "base directory for local exports")
	exportCmd.Flags().String("bucket", "", "bucket for s3 exports")
	cobra.CheckErr(viper.BindPFlag("export.destination", exportCmd.Flags().Lookup("destination")))
	cobra.CheckErr(viper.BindPFlag("export.output_path", exportCmd.Flags().Lookup("output-path")))
	cobra.CheckErr(viper.BindPFlag("export.bucket_name", exportCmd.Flags().Lookup("bucket")))
	rootCmd.AddCommand(exportCmd)
}
