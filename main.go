package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"gearhunter/config"
	"gearhunter/internal/gear"
	"gearhunter/internal/scraper"
	"gearhunter/logger"
	"gearhunter/services/cache"
	"gearhunter/services/notifier"
	"gearhunter/services/runner"
	"gearhunter/services/valuation"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Bool("run_once", cfg.RunOnce).
		Dur("run_interval", cfg.RunInterval).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services := initializeServices(&cfg)
	defer services.Cleanup()

	// Create scrapers
	scrapers := scraper.CreateScrapers(&cfg, services.Cache)
	log.Info().Int("scraper_count", len(scrapers)).Msg("Created category scrapers")

	thresholds := gear.Thresholds{
		RetailMarkup:  cfg.RetailMarkup,
		UsedMarkup:    cfg.UsedMarkup,
		NewDealRatio:  cfg.NewDealRatio,
		UsedDealRatio: cfg.UsedDealRatio,
	}

	r := runner.NewRunner(
		scrapers,
		gear.NewNormalizer(cfg.RSDPerEUR, cfg.DinarCutoff),
		services.Valuer,
		gear.NewResolver(thresholds),
		gear.NewClassifier(thresholds),
		services.Notifiers,
		cfg.RunInterval,
	)

	// One-shot mode for external cron
	if cfg.RunOnce {
		report, err := r.RunOnce(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Run failed")
			services.Cleanup()
			os.Exit(1)
		}
		log.Info().
			Int("scraped", report.Scraped).
			Int("deals", len(report.Deals)).
			Int("skipped", len(report.Skips)).
			Msg("Run finished")
		return
	}

	// Start runner in a goroutine
	runnerDone := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting gear deal runner")
		runnerDone <- r.Start(ctx)
	}()

	// Wait for shutdown signal or runner error
	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	case err := <-runnerDone:
		if err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("Runner exited with error")
		} else {
			log.Info().Msg("Runner exited normally")
		}
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
}

// Services holds all the initialized services
type Services struct {
	Cache     cache.CacheService
	Valuer    valuation.Valuer
	Notifiers []notifier.Notifier
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	for _, n := range s.Notifiers {
		n.Close()
	}
}

// initializeServices initializes all required services
func initializeServices(cfg *config.Config) *Services {
	cacheService := cache.NewMemcacheService(cfg.MemcacheAddr)
	logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)

	valuer := valuation.NewGeminiValuer(cfg.GeminiEndpoint, cfg.GeminiModel, cfg.GeminiAPIKey)

	telegram := notifier.NewTelegramNotifier(cfg.TelegramEndpoint, cfg.TelegramToken, cfg.TelegramChatID)

	redisNotifier := notifier.NewRedisNotifier(
		cfg.RedisAddr,
		cfg.RedisDB,
		cfg.RedisStream,
		cfg.RedisStreamCount,
		cfg.RedisStreamMaxLength,
	)
	logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
		cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)

	return &Services{
		Cache:     cacheService,
		Valuer:    valuer,
		Notifiers: []notifier.Notifier{telegram, redisNotifier},
	}
}
