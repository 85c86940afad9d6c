package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pepu_portfolio_bot/internal/app/render"
	"pepu_portfolio_bot/internal/app/service"
	"pepu_portfolio_bot/internal/client"
	"pepu_portfolio_bot/internal/config"
	"pepu_portfolio_bot/internal/infrastructure/restapi"
	"pepu_portfolio_bot/internal/infrastructure/telegram"
	"pepu_portfolio_bot/internal/infrastructure/walletstore"
	"pepu_portfolio_bot/internal/pkg/logger"
	"pepu_portfolio_bot/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfgPath := os.Getenv(config.EnvConfigPath)
	if cfgPath == "" {
		cfgPath = config.DefaultConfigPath
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	zapLogger, err := logger.NewZap(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to initialize zap logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()
	logger.InitZap(zapLogger, cfg.Logging.Level)

	logger.Info("PEPU portfolio bot starting", "config", cfgPath, "log_level", cfg.Logging.Level)
	appLogger := logger.NewSlogAdapter()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	botMetrics := metrics.New(registry)

	fetcher := client.NewPortfolioClient(
		cfg.Upstream.BaseURL,
		cfg.Upstream.WalletParam,
		cfg.Upstream.RequestTimeout(),
		zapLogger,
	)

	renderer := render.NewRenderer(render.Options{
		PageSize:       cfg.Render.PageSize,
		NoiseThreshold: cfg.Render.NoiseThresholdDecimal(),
		NativeSymbol:   cfg.Render.NativeSymbol,
		MarketDataURL:  cfg.Render.MarketDataURL,
		Footer:         cfg.Render.Footer,
	})

	wallets := walletstore.NewCacheWalletStore(time.Duration(cfg.WalletStore.CleanupIntervalMinutes) * time.Minute)

	opts := []service.Option{service.WithMetrics(botMetrics)}
	if cfg.Promotion.Enabled {
		opts = append(opts, service.WithPromotion(
			service.NewPromotionCounter(cfg.Promotion.MinRequests, cfg.Promotion.MaxRequests),
			cfg.Promotion.Text,
		))
		logger.Info("Promotion enabled", "min_requests", cfg.Promotion.MinRequests, "max_requests", cfg.Promotion.MaxRequests)
	}
	botService := service.NewBotService(fetcher, renderer, wallets, appLogger, opts...)

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		logger.Fatal("Failed to connect to Telegram", "error", err)
	}
	api.Debug = cfg.Telegram.Debug
	logger.Info("Authorized on Telegram", "username", api.Self.UserName)

	bot := telegram.NewBot(api, botService, appLogger, cfg.Telegram.WorkerCount)

	gin.SetMode(gin.ReleaseMode)
	router := restapi.SetupRouter(
		restapi.NewPortfolioHandler(botService),
		restapi.RouterConfig{AllowedOrigins: cfg.Server.AllowedOrigins, Gatherer: registry},
		zapLogger.Named("HTTP"),
	)
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		u := tgbotapi.NewUpdate(0)
		u.Timeout = cfg.Telegram.PollTimeoutSeconds
		updates := api.GetUpdatesChan(u)
		logger.Info("Polling for updates", "workers", cfg.Telegram.WorkerCount)

		go func() {
			<-gctx.Done()
			api.StopReceivingUpdates()
		}()
		return bot.Run(gctx, updates)
	})

	g.Go(func() error {
		logger.Info("Starting ops HTTP server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("ops server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Bot stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("PEPU portfolio bot stopped.")
}
