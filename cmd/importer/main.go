package main

import (
	"context"
	"fmt"
	"os"

	"github.com/3lielnashar/Customers-map/internal/config"
	"github.com/3lielnashar/Customers-map/internal/lock"
	"github.com/3lielnashar/Customers-map/internal/repository"
	"github.com/3lielnashar/Customers-map/internal/service"
	"github.com/3lielnashar/Customers-map/internal/telemetry"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// env is what every subcommand works against, opened in PersistentPreRunE.
type env struct {
	store       repository.Store
	exchange    *service.ExchangeService
	logger      zerolog.Logger
	closeLocker func() error
}

var (
	configPath string
	app        *env
)

var rootCmd = &cobra.Command{
	Use:   "importer",
	Short: "Bulk load and dump customer locations",
	Long: `Bulk load and dump the customer location store without going through the API.

Examples:
  importer import --file customers.csv
  importer import --file more.csv --append
  importer export --out backup.csv
  importer purge --confirm`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger := telemetry.SetupLogger(cfg.LogLevel, "console")

		ctx := cmd.Context()
		store, err := repository.Open(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}

		locker, closeLocker, err := lock.Open(ctx, lock.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.ImportLockTTL,
		})
		if err != nil {
			_ = store.Close(ctx)
			return fmt.Errorf("failed to open import lock: %w", err)
		}

		app = &env{
			store:       store,
			exchange:    service.NewExchangeService(store, locker, logger),
			logger:      logger,
			closeLocker: closeLocker,
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if app == nil {
			return nil
		}
		if err := app.closeLocker(); err != nil {
			return err
		}
		return app.store.Close(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./configs", "directory containing app.env")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
