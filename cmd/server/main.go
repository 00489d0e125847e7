package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"fleet/internal/app"
	"fleet/internal/config"
	"fleet/internal/handler"
	internalRedis "fleet/internal/redis"
	"fleet/internal/repository/postgres"
	"fleet/internal/service"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Error().Err(err).Msg("failed to initialize New Relic")
		} else {
			log.Info().Str("app", cfg.NewRelic.AppName).Msg("New Relic enabled")
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to Redis")

	// Wire dependencies.
	server, err := wireServer(db, redisClient, nrApp, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to wire server")
	}

	// Start server in goroutine.
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config, log zerolog.Logger) (*http.Server, error) {
	refTZ, err := time.LoadLocation(cfg.Compat.ReferenceTimezone)
	if err != nil {
		return nil, err
	}

	// Initialize Redis stores.
	locationStore := internalRedis.NewLocationStore(redisClient)
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Initialize repositories.
	userRepo := postgres.NewUserRepository(db)
	vehicleRepo := postgres.NewVehicleRepository(db)
	cargoRepo := postgres.NewCargoRepository(db)
	tripRepo := postgres.NewTripRepository(db)
	alertRepo := postgres.NewAlertRepository(db)

	// Initialize services.
	policy := service.CompatPolicy{
		ProximityEpsilon: cfg.Compat.ProximityEpsilonDegrees,
		Location:         refTZ,
	}
	authService := service.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	userService := service.NewUserService(userRepo)
	vehicleService := service.NewVehicleService(vehicleRepo, locationStore, cacheStore)
	cargoService := service.NewCargoService(cargoRepo)
	assignmentService := service.NewAssignmentService(db, cargoRepo, tripRepo, vehicleRepo, lockStore, cacheStore, policy, log)
	tripService := service.NewTripService(db, tripRepo, cargoRepo, vehicleRepo)
	alertService := service.NewAlertService(alertRepo, refTZ)

	// Initialize handlers.
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	vehicleHandler := handler.NewVehicleHandler(vehicleService)
	cargoHandler := handler.NewCargoHandler(cargoService, assignmentService)
	tripHandler := handler.NewTripHandler(tripService)
	alertHandler := handler.NewAlertHandler(alertService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		AuthHandler:    authHandler,
		UserHandler:    userHandler,
		VehicleHandler: vehicleHandler,
		CargoHandler:   cargoHandler,
		TripHandler:    tripHandler,
		AlertHandler:   alertHandler,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
		JWTSecret:      []byte(cfg.Auth.JWTSecret),
	})

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, nil
}
