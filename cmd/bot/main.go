package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirkDiggler/raidcheck/internal/common/uuid"
	"github.com/KirkDiggler/raidcheck/internal/config"
	"github.com/KirkDiggler/raidcheck/internal/handlers/discord"
	"github.com/KirkDiggler/raidcheck/internal/logging"
	"github.com/KirkDiggler/raidcheck/internal/metrics"
	"github.com/KirkDiggler/raidcheck/internal/repositories/raidconfig"
	"github.com/KirkDiggler/raidcheck/internal/repositories/template"
	"github.com/KirkDiggler/raidcheck/internal/services/messaging"
	"github.com/KirkDiggler/raidcheck/internal/services/platform"
	"github.com/KirkDiggler/raidcheck/internal/services/raid"
	"github.com/bwmarrin/discordgo"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		slog.Error("bot exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.InitLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		return err
	}

	clock := clockwork.NewRealClock()

	// Initialize repositories
	templateRepo, err := template.NewRedis(&template.Config{
		RedisClient: redisClient,
		Clock:       clock,
	})
	if err != nil {
		return err
	}

	configRepo, err := raidconfig.NewRedis(&raidconfig.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		return err
	}

	if cfg.TemplatesFile != "" {
		templates, err := template.LoadSeedFile(cfg.TemplatesFile)
		if err != nil {
			return err
		}
		if err := template.Seed(ctx, templateRepo, templates); err != nil {
			return err
		}

		configs, err := raidconfig.LoadSeedFile(cfg.TemplatesFile)
		if err != nil {
			return err
		}
		if err := raidconfig.Seed(ctx, configRepo, configs); err != nil {
			return err
		}
		logger.Info("seeded raid data", "file", cfg.TemplatesFile, "templates", len(templates), "configs", len(configs))
	}

	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return err
	}

	adapter, err := platform.NewDiscord(&platform.DiscordConfig{
		Session: session,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	raidMetrics := metrics.NewRaidMetrics(reg)

	raidService, err := raid.New(&raid.Config{
		TemplateRepo:        templateRepo,
		ConfigRepo:          configRepo,
		Client:              adapter,
		Resolver:            adapter,
		Messaging:           messaging.NewService(),
		Clock:               clock,
		UUIDGenerator:       uuid.New(),
		Metrics:             raidMetrics,
		Logger:              logger,
		TickInterval:        cfg.TickInterval,
		ConfirmationTimeout: cfg.ConfirmationTimeout,
	})
	if err != nil {
		return err
	}

	bot, err := discord.New(&discord.Config{
		Session:       session,
		ApplicationID: cfg.ApplicationID,
		GuildID:       cfg.GuildID,
		RaidService:   raidService,
		TemplateRepo:  templateRepo,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		metricsServer = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("serving metrics", "addr", cfg.MetricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	if err := bot.Start(ctx); err != nil {
		return err
	}

	// Wait for interrupt signal to gracefully shutdown
	<-ctx.Done()
	logger.Info("shutting down", "active_sessions", raidService.ActiveSessions())

	// Open windows end through the normal end sequence while the Discord
	// connection is still up
	drainCtx, cancelDrain := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelDrain()
	if err := raidService.Shutdown(drainCtx); err != nil {
		logger.Warn("raid sessions did not finish", "error", err)
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("failed to stop metrics server", "error", err)
		}
	}

	if err := bot.Stop(); err != nil {
		logger.Warn("error stopping bot", "error", err)
	}

	logger.Info("bot has been shut down")
	return nil
}
