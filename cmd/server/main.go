package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iudanet/shopfront/internal/app"
	"github.com/iudanet/shopfront/internal/config"
	"github.com/iudanet/shopfront/internal/logger"
	"github.com/iudanet/shopfront/internal/productsync"
	"github.com/iudanet/shopfront/internal/server"
	"github.com/iudanet/shopfront/internal/server/handlers"
	"github.com/iudanet/shopfront/internal/server/jwt"
	"github.com/iudanet/shopfront/internal/server/metrics"
	"github.com/iudanet/shopfront/internal/server/middleware"
	"github.com/iudanet/shopfront/internal/server/ws"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Parse flags
	showVersion := flag.Bool("version", false, "Show version information")
	envFile := flag.String("env-file", ".env", "Path to .env file")
	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	handlers.Version = Version

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, envFile string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.New(cfg.Env, cfg.LogLevel)
	log.Info("Shopfront Server starting...",
		slog.String("version", Version),
		slog.String("addr", cfg.HTTPAddr),
		slog.String("driver", cfg.DBDriver),
	)

	m := metrics.New()
	hub := ws.NewHub(log, m.WSClients)

	a, err := app.New(ctx, cfg, log, productsync.WithOnChange(hub.ProductNotifier()))
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Error("failed to close store", slog.Any("error", err))
		}
	}()

	// Первая загрузка: без каталога витрина состоит только из локальных товаров
	res, err := a.Sync.Load(ctx)
	if err != nil {
		log.Warn("initial feed load failed", slog.Any("error", err))
	} else {
		m.FeedLoaded(res.FromCache)
	}

	limiter := middleware.NewRateLimiter(10, time.Minute, log)
	defer limiter.Stop()

	go hub.Run(ctx)
	go func() {
		if err := a.Sync.Run(ctx, cfg.PollInterval); err != nil && ctx.Err() == nil {
			log.Error("product sync stopped", slog.Any("error", err))
		}
	}()

	router := server.NewRouter(server.Deps{
		Logger:      log,
		Users:       a.Auth,
		Tokens:      jwt.NewService(cfg.JWTSecret, cfg.TokenTTL),
		Catalog:     a.Catalog,
		Cart:        a.Cart,
		Storefront:  a.Sync,
		Hub:         hub,
		Metrics:     m,
		AuthLimiter: limiter,
	})

	return server.New(cfg.HTTPAddr, router, log).Run(ctx)
}

func printVersion() {
	fmt.Printf("Shopfront Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
