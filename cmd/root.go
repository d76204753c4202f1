package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chrisdamba/foodsite/internal/models"
	"github.com/chrisdamba/foodsite/internal/repositories"
	"github.com/chrisdamba/foodsite/internal/repositories/memory"
	"github.com/chrisdamba/foodsite/internal/repositories/postgres"
)

var (
	cfgFile string
	cfg     *models.Config
	logger  zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "foodsite",
	Short: "Multi-tenant restaurant storefront backend",
	Long: `foodsite serves restaurant storefronts: menus and search, carts, table
reservations and the payment popup callback, one site per restaurant domain.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = models.LoadConfig(viper.GetViper(), cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		logger = newLogger(cfg, os.Stderr)
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug().Str("file", used).Msg("using config file")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./foodsite.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("database-url", "", "PostgreSQL url; empty keeps data in memory")

	cobra.CheckErr(viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level")))
	cobra.CheckErr(viper.BindPFlag("database.url", rootCmd.PersistentFlags().Lookup("database-url")))
}

func openStore(ctx context.Context) (*repositories.Store, error) {
	if cfg.Database.URL == "" {
		logger.Info().Msg("no database configured, using in-memory store")
		return memory.NewStore(), nil
	}
	store, err := postgres.Open(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return store, nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
