package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iudanet/shopfront/internal/app"
	"github.com/iudanet/shopfront/internal/cli"
	"github.com/iudanet/shopfront/internal/config"
	"github.com/iudanet/shopfront/internal/iocli"
	"github.com/iudanet/shopfront/internal/logger"
	"github.com/iudanet/shopfront/internal/productsync"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// Глобальные флаги
var rootFlags struct {
	envFile string
	db      string
	driver  string
	feed    string
	verbose bool
}

var (
	application *app.App
	shell       *cli.Cli
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()

	if application != nil {
		if closeErr := application.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Failed to close store: %v\n", closeErr)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "shop",
	Short: "Shopfront terminal client",
	Long: "Shopfront keeps a small e-commerce catalog in a local store and merges it with the public product feed.\n" +
		"Admins manage brands, partners, collections and products; customers browse, fill a cart and check out.",
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: boot,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("Shopfront CLI\nVersion:    %s\nBuild Date: %s\nGit Commit: %s\n",
		Version, BuildDate, GitCommit))

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.envFile, "env-file", ".env", "Path to .env file")
	pf.StringVar(&rootFlags.db, "db", "", "Path to local database (overrides SHOP_DB_PATH)")
	pf.StringVar(&rootFlags.driver, "driver", "", "Store driver: bolt or sqlite (overrides SHOP_DB_DRIVER)")
	pf.StringVar(&rootFlags.feed, "feed", "", "Product feed base URL (overrides SHOP_FEED_URL)")
	pf.BoolVarP(&rootFlags.verbose, "verbose", "v", false, "Log debug output to stderr")

	// Auth
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(statusCmd)

	// Admin
	rootCmd.AddCommand(brandCmd)
	rootCmd.AddCommand(partnerCmd)
	rootCmd.AddCommand(collectionCmd)
	rootCmd.AddCommand(productCmd)
	rootCmd.AddCommand(orphansCmd)

	// Storefront
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(ordersCmd)
}

// boot loads config and opens the store before any command runs
func boot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(rootFlags.envFile)
	if err != nil {
		return err
	}

	if rootFlags.db != "" {
		cfg.DBPath = rootFlags.db
	}
	if rootFlags.driver != "" {
		cfg.DBDriver = rootFlags.driver
	}
	if rootFlags.feed != "" {
		cfg.FeedURL = rootFlags.feed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// В терминале логи мешают выводу команд: по умолчанию только предупреждения
	level := "warn"
	if _, ok := os.LookupEnv("SHOP_LOG_LEVEL"); ok {
		level = cfg.LogLevel
	}
	if rootFlags.verbose {
		level = "debug"
	}
	log := logger.New(cfg.Env, level)

	// shell создаётся после app, но уведомления приходят только во время команд
	onChange := productsync.WithOnChange(func(res *productsync.SyncResult) {
		if shell != nil {
			shell.OnChange(res)
		}
	})

	application, err = app.New(cmd.Context(), cfg, log, onChange)
	if err != nil {
		return err
	}

	shell = cli.New(iocli.NewStdio(), cli.Services{
		Auth:    application.Auth,
		Catalog: application.Catalog,
		Cart:    application.Cart,
		Sync:    application.Sync,
	})
	return nil
}
