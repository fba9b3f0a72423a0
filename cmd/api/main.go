package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/appointment-engine/internal/audit"
	"github.com/BruksfildServices01/appointment-engine/internal/cache"
	"github.com/BruksfildServices01/appointment-engine/internal/config"
	dbpkg "github.com/BruksfildServices01/appointment-engine/internal/db"
	domain "github.com/BruksfildServices01/appointment-engine/internal/domain/appointment"
	infraRepo "github.com/BruksfildServices01/appointment-engine/internal/infra/repository"
	"github.com/BruksfildServices01/appointment-engine/internal/logger"
	"github.com/BruksfildServices01/appointment-engine/internal/routes"
	"github.com/BruksfildServices01/appointment-engine/internal/timezone"
)

func main() {

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogPretty)

	timezone.SetDefault(cfg.DefaultTimezone)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ------------------------------
	// Storage
	// ------------------------------
	var (
		repo  domain.Repository
		sinks []audit.Sink
	)

	switch cfg.StorageDriver {
	case config.StorageMemory:
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		repo = infraRepo.NewMemoryRepository()
		sinks = append(sinks, audit.NewLogSink(log))
	default:
		db, err := dbpkg.NewDB(cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("database unavailable")
		}
		repo = infraRepo.NewAppointmentGormRepository(db)
		sinks = append(sinks, audit.New(db))
	}

	// ------------------------------
	// Redis (optional)
	// ------------------------------
	var slots cache.SlotCache = cache.NopSlotCache{}

	switch {
	case cfg.RedisURL != "":
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("redis unavailable")
		}
		defer client.Close()

		slots = cache.NewRedisSlotCache(client, cfg.SlotCacheTTL(), log)
		sinks = append(sinks, audit.NewRedisPublisher(client, audit.DefaultChannel))
	case cfg.StorageDriver == config.StorageMemory:
		// Every booking goes through this process, so a local cache stays
		// consistent.
		slots = cache.NewMemorySlotCache(cfg.SlotCacheTTL())
	}

	events := audit.NewDispatcher(log, sinks...)

	// ------------------------------
	// HTTP
	// ------------------------------
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Dependencies{
		Config: cfg,
		Repo:   repo,
		Events: events,
		Slots:  slots,
		Clock:  time.Now,
		Log:    log,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	events.Close()

	log.Info().Msg("server stopped")
}
