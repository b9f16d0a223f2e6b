package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"rental-listings/internal/listing"
	"rental-listings/internal/ratelimit"
)

// RouterConfig wires the services and HTTP settings into the router
type RouterConfig struct {
	Uploads      Uploader
	Listings     Listings
	Limiter      *ratelimit.RateLimiter
	UploadLimit  int64
	AllowOrigins []string
	LogRequests  bool
	Log          *zap.Logger
}

// NewRouter builds the API routes
func NewRouter(cfg RouterConfig) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := listing.RegisterValidations(v); err != nil {
			cfg.Log.Error("Failed to register listing validations", zap.Error(err))
		}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.LogRequests {
		r.Use(requestLogger(cfg.Log))
	}

	if len(cfg.AllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowOrigins,
			AllowMethods:     []string{"GET", "POST"},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	uploads := NewUploadHandler(cfg.Uploads, cfg.Log)
	homes := NewHomesHandler(cfg.Listings, cfg.Log)

	r.GET("/health", healthCheck)

	upload := []gin.HandlerFunc{allowMethods(http.MethodPost)}
	if cfg.Limiter != nil {
		upload = append(upload, rateLimitMiddleware(cfg.Limiter))
	}
	upload = append(upload, bodyLimit(cfg.UploadLimit), uploads.UploadImage)
	r.Any("/api/image-upload", upload...)

	r.Any("/api/homes", allowMethods(http.MethodPost), bodyLimit(cfg.UploadLimit), homes.CreateHome)
	r.GET("/api/listings", homes.GetHomes)

	return r
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now(),
	})
}
