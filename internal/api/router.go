package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/service-booking-backend/internal/auth"
	"github.com/nekogravitycat/service-booking-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/service-booking-backend/internal/booking/http"
)

// Config holds what the router needs to assemble the HTTP surface.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	BookingService booking.Service
	JWTManager     *auth.JWTManager
	Health         Pinger
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	// Without any origin configured, cross-origin requests are simply not allowed.
	if origins := allowedOrigins(cfg); len(origins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = origins
		corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", bookingHttp.IdempotencyHeader}
		r.Use(cors.New(corsConfig))
	}

	r.GET("/healthz", healthHandler(cfg.Health))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// schedulerMiddleware: Only the scheduler job or an admin may move bookings to end states.
	schedulerMiddleware := auth.RequireRole(auth.RoleScheduler, auth.RoleAdmin)

	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware, schedulerMiddleware)
	}

	return r
}

func allowedOrigins(cfg Config) []string {
	if !cfg.IsProduction {
		return []string{
			"http://localhost:8081", // Swagger
			"http://localhost:3000",
		}
	}

	var origins []string
	for _, o := range strings.Split(cfg.ProdOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
