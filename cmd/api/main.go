package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"rental-listings/internal/cache"
	"rental-listings/internal/config"
	"rental-listings/internal/database"
	"rental-listings/internal/events"
	"rental-listings/internal/handlers"
	"rental-listings/internal/logger"
	"rental-listings/internal/ratelimit"
	"rental-listings/internal/scheduler"
	"rental-listings/internal/service"
	"rental-listings/internal/storage"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	// Load configuration
	configPath := getEnv("CONFIG_PATH", "config.yaml")
	appConfig, err := config.LoadConfig(configPath)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(appConfig.Logging)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := appConfig.Validate(); err != nil {
		log.Fatal("Invalid configuration", zap.String("path", configPath), zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Data store
	store, err := database.Open(appConfig.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.String("type", appConfig.Database.Type), zap.Error(err))
	}
	defer store.Close()

	if err := store.InitSchema(ctx); err != nil {
		log.Fatal("Failed to initialize schema", zap.Error(err))
	}
	log.Info("Database ready", zap.String("type", appConfig.Database.Type))

	// Object store
	objects, err := storage.NewMinioStore(ctx, appConfig.Storage, log.Named("storage"))
	if err != nil {
		log.Fatal("Failed to create object store client", zap.Error(err))
	}
	publicURLs, err := storage.NewPublicURL(appConfig.Storage)
	if err != nil {
		log.Fatal("Invalid public storage URL", zap.Error(err))
	}

	uploads := service.NewUploadService(objects, publicURLs, log.Named("upload"))
	listings := service.NewListingService(store, log.Named("listing"))

	// Optional collaborators
	if appConfig.Cache.RedisAddr != "" {
		listingCache, err := cache.NewListingCache(ctx, appConfig.Cache)
		if err != nil {
			log.Warn("Listing cache disabled", zap.String("addr", appConfig.Cache.RedisAddr), zap.Error(err))
		} else {
			defer listingCache.Close()
			listings.WithCache(listingCache)
			log.Info("Listing cache enabled", zap.String("addr", appConfig.Cache.RedisAddr))

			appScheduler := scheduler.NewScheduler(appConfig.Cache.WarmSchedule, listings, log.Named("scheduler"))
			if err := appScheduler.Start(); err != nil {
				log.Warn("Failed to start scheduler", zap.Error(err))
			}
			defer appScheduler.Stop()
		}
	}

	if appConfig.Events.NATSURL != "" {
		publisher, err := events.NewPublisher(appConfig.Events.NATSURL, appConfig.Events.Subject, log.Named("events"))
		if err != nil {
			log.Warn("Listing events disabled", zap.Error(err))
		} else {
			defer publisher.Close()
			listings.WithEvents(publisher)
			log.Info("Listing events enabled", zap.String("subject", appConfig.Events.Subject))
		}
	}

	rateLimiter := ratelimit.NewRateLimiter(
		appConfig.RateLimit.RequestsPerMinute,
		appConfig.RateLimit.RequestsPerHour,
		appConfig.RateLimit.Enabled,
	)
	log.Info("Rate limiter initialized",
		zap.Int("per_minute", appConfig.RateLimit.RequestsPerMinute),
		zap.Int("per_hour", appConfig.RateLimit.RequestsPerHour),
		zap.Bool("enabled", appConfig.RateLimit.Enabled))

	router := handlers.NewRouter(handlers.RouterConfig{
		Uploads:      uploads,
		Listings:     listings,
		Limiter:      rateLimiter,
		UploadLimit:  appConfig.Server.UploadLimit(),
		AllowOrigins: appConfig.Server.AllowOrigins,
		LogRequests:  appConfig.Logging.LogRequests,
		Log:          log.Named("http"),
	})

	srv := &http.Server{
		Addr:         ":" + appConfig.Server.Port,
		Handler:      router,
		ReadTimeout:  appConfig.Server.ReadTimeout(),
		WriteTimeout: appConfig.Server.WriteTimeout(),
	}

	go func() {
		log.Info("Server starting", zap.String("port", appConfig.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
