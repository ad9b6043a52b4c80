package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/foodbridge-api/internal/api"
	"github.com/foodbridge-api/internal/config"
	"github.com/foodbridge-api/internal/database"
	"github.com/foodbridge-api/internal/events"
	"github.com/foodbridge-api/internal/repository"
	"github.com/foodbridge-api/internal/service"
	"github.com/foodbridge-api/internal/session"
	"github.com/foodbridge-api/pkg/logger"
)

func main() {
	migrateDown := flag.Bool("migrate-down", false, "roll back all migrations and exit (postgres driver only)")
	flag.Parse()

	// Initialize logger
	log := logger.New()
	log.Info().Msg("Starting FoodBridge API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log = logger.NewWithOptions(os.Stdout, cfg.Log.Level, cfg.Log.Format, os.Getenv("ENV"))

	// Root context for background work, cancelled at shutdown
	rootCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	// Initialize registries
	var repos *repository.Repositories
	var backends api.Backends
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := database.New(&cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()

		if *migrateDown {
			if err := db.MigrateDown(cfg.Store.MigrationsPath); err != nil {
				log.Fatal().Err(err).Msg("Failed to roll back migrations")
			}
			return
		}
		if err := db.RunMigrations(cfg.Store.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
		repos = repository.NewPostgres(db)
		backends.DB = db
	default:
		if *migrateDown {
			log.Fatal().Msg("-migrate-down requires STORE_DRIVER=postgres")
		}
		repos = repository.NewMemory(repository.DemoSeed())
	}
	log.Info().Str("driver", cfg.Store.Driver).Msg("Registries ready")

	// Initialize session persistence
	storage, redisClient := newSessionStorage(cfg, log)
	if redisClient != nil {
		backends.Redis = redisClient
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close Redis client")
			}
		}()
	}

	store := session.NewStore(storage, session.NewDemoDirectory(), session.Options{
		LoginDelay:    cfg.Auth.LoginDelay,
		RegisterDelay: cfg.Auth.RegisterDelay,
	}, log)

	// Initialize event publisher
	publisher := newPublisher(cfg, log)
	defer publisher.Close()

	// Initialize services
	services := service.NewServices(repos, store, publisher, cfg, log)

	// Start background expiry sweeper
	go services.Expiry.StartProcessor(rootCtx)
	log.Info().Dur("interval", cfg.Expiry.Interval).Msg("Donation expiry sweeper started")

	// Initialize router
	router := api.NewRouter(services, backends, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Stop expiry sweeper; cancelling the root context also covers a
	// processor goroutine that has not started its loop yet
	stopBackground()
	services.Expiry.StopProcessor()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	log.Info().Msg("Server exited gracefully")
}

// newSessionStorage returns the configured session storage and, for the
// redis backend, its client
func newSessionStorage(cfg *config.Config, log zerolog.Logger) (session.Storage, *database.RedisClient) {
	if cfg.Session.Storage != config.SessionStorageRedis {
		return session.NewMemoryStorage(), nil
	}

	client, err := database.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	return session.NewRedisStorage(client.Client(), cfg.Session.TTL), client
}

// newPublisher connects to NATS when configured, otherwise events go to the log
func newPublisher(cfg *config.Config, log zerolog.Logger) events.Publisher {
	if cfg.Events.NATSURL == "" {
		return events.NewLogPublisher(log)
	}

	publisher, err := events.NewNATSPublisher(cfg.Events.NATSURL, cfg.Events.SubjectPrefix, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to NATS")
	}
	return publisher
}
