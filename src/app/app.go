package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/memecontest/backend/src/handler"
	"github.com/memecontest/backend/src/repository"
	"github.com/memecontest/backend/src/service"
	"github.com/memecontest/backend/src/storage"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

type Application struct {
	config   AppConfig
	catalog  CatalogBackend
	database *gorm.DB
	mongo    *mongo.Client
	redis    *redis.Client

	blobs          storage.BlobStore
	memeRepo       repository.MemeRepository
	contestantRepo repository.ContestantRepository

	UploadService       *service.UploadService
	RegistrationService *service.RegistrationService
	ListingService      *service.ListingService
}

// NewApplication connects every backing store and builds the services.
// On error the handles opened so far are closed again.
func NewApplication(ctx context.Context, config AppConfig) (*Application, error) {
	logger := zerolog.Ctx(ctx).With().Str("function", "NewApplication").Logger()

	app := &Application{config: config}

	if err := app.connectCatalog(ctx); err != nil {
		app.Shutdown(ctx)
		return nil, err
	}

	blobs, err := newBlobStore(ctx, config)
	if err != nil {
		app.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create blob store: %w", err)
	}
	app.blobs = blobs
	logger.Info().Str("storage_url", *config.StorageURL).Msg("Blob store ready")

	memeRepo := app.memeRepo
	if config.RedisURL != nil {
		redisOpts, err := redis.ParseURL(*config.RedisURL)
		if err != nil {
			app.Shutdown(ctx)
			return nil, fmt.Errorf("failed to parse redis URL: %w", err)
		}

		rdb := redis.NewClient(redisOpts)
		app.redis = rdb

		// Test Redis connection
		if err := rdb.Ping(ctx).Err(); err != nil {
			app.Shutdown(ctx)
			return nil, fmt.Errorf("connection to redis failed: %w", err)
		}
		logger.Info().Msg("Redis connection established")

		memeRepo = repository.NewCachedMemeRepository(memeRepo, rdb, repository.DefaultMemeListKey, *config.MemeCacheTTL)
	}

	app.UploadService = service.NewUploadService(blobs, memeRepo)
	app.RegistrationService = service.NewRegistrationService(app.contestantRepo, *config.BcryptCost)
	app.ListingService = service.NewListingService(memeRepo)

	logger.Info().Str("catalog", string(app.catalog)).Msg("Application initialized")
	return app, nil
}

func (app *Application) Shutdown(ctx context.Context) {
	logger := zerolog.Ctx(ctx).With().Str("function", "Shutdown").Logger()

	// Close database connection
	if app.database != nil {
		db, err := app.database.DB()
		if err != nil {
			logger.Error().Err(err).Msg("Failed to get underlying database connection")
		} else {
			if err := db.Close(); err != nil {
				logger.Error().Err(err).Msg("Failed to close database connection")
			} else {
				logger.Info().Msg("Database connection closed")
			}
		}
	}

	if app.mongo != nil {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.mongo.Disconnect(disconnectCtx); err != nil {
			logger.Error().Err(err).Msg("Failed to disconnect mongo")
		} else {
			logger.Info().Msg("Mongo connection closed")
		}
	}

	// Close Redis connection
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close redis connection")
		} else {
			logger.Info().Msg("Redis connection closed")
		}
	}
}

// Router builds the gin engine serving every route
func (app *Application) Router(ctx context.Context) *gin.Engine {
	return handler.NewRouter(ctx, handler.Services{
		Upload:       app.UploadService,
		Registration: app.RegistrationService,
		Listing:      app.ListingService,
		Blobs:        app.blobs,
	}, handler.RouterOptions{
		AllowOrigins:   *app.config.AllowOrigins,
		MaxUploadBytes: *app.config.MaxUploadBytes,
	})
}

func (app *Application) RunHTTPServer(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	logger := zerolog.Ctx(ctx).With().Str("function", "RunHTTPServer").Logger()

	// Request logging is done by our own middleware
	gin.SetMode(gin.ReleaseMode)

	// Build HTTP server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", *app.config.Port),
		Handler:           app.Router(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().Msgf("HTTP server is on http://localhost:%s/health", *app.config.Port)
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logger.Panic().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	// Wait for context cancellation
	<-ctx.Done()

	logger.Info().Msg("Gracefully shutting down HTTP server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Shutdown server
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Failed to shutdown HTTP server gracefully")
	} else {
		logger.Info().Msg("HTTP server shutdown complete")
	}
}
