package handler

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/memecontest/backend/src/service"
	"github.com/memecontest/backend/src/storage"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Services are the dependencies the routes call into
type Services struct {
	Upload       *service.UploadService
	Registration *service.RegistrationService
	Listing      *service.ListingService
	Blobs        storage.BlobStore
}

type RouterOptions struct {
	AllowOrigins   []string
	MaxUploadBytes int64
}

var registerValidators sync.Once

func NewRouter(ctx context.Context, services Services, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	RegisterRoutes(ctx, router, services, opts)
	return router
}

func RegisterRoutes(ctx context.Context, router *gin.Engine, services Services, opts RouterOptions) {
	registerValidators.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			if err := registerCustomValidators(v); err != nil {
				zerolog.Ctx(ctx).Error().Err(err).Msg("failed to register custom validators")
			}
		}
	})

	router.Use(cors.New(corsConfig(opts.AllowOrigins)))

	SetMiddlewares(ctx, router)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	memeHandler := NewMemeHandler(services.Upload, services.Listing, opts.MaxUploadBytes)
	contestantHandler := NewContestantHandler(services.Registration)
	blobHandler := NewBlobHandler(services.Blobs)

	router.GET("/", handleRoot)
	router.GET("/health", handleHealthCheck)
	router.GET(strings.TrimSuffix(storage.ReferencePrefix, "/")+"/:name", blobHandler.Serve)

	api := router.Group("/api")
	{
		api.POST("/upload", memeHandler.Upload)
		api.GET("/memes", memeHandler.List)
		api.POST("/contestants/register", contestantHandler.Register)
	}
}

func registerCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return fmt.Errorf("register notblank: %w", err)
	}
	return nil
}

func corsConfig(allowOrigins []string) cors.Config {
	config := cors.DefaultConfig()
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Requested-With", RequestIDHeader}
	config.ExposeHeaders = []string{RequestIDHeader}

	if len(allowOrigins) == 0 || (len(allowOrigins) == 1 && allowOrigins[0] == "*") {
		config.AllowAllOrigins = true
		return config
	}
	config.AllowOrigins = allowOrigins
	config.AllowCredentials = true
	return config
}
