package app

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/nekogravitycat/service-booking-backend/internal/api"
	"github.com/nekogravitycat/service-booking-backend/internal/auth"
	"github.com/nekogravitycat/service-booking-backend/internal/booking"
	"github.com/nekogravitycat/service-booking-backend/internal/catalog"
	"github.com/nekogravitycat/service-booking-backend/internal/events"
	"github.com/nekogravitycat/service-booking-backend/internal/redisx"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration

	// Redis is optional. Without it lookups are not cached and
	// Idempotency-Key headers are ignored.
	Redis          *redis.Client
	LookupCacheTTL time.Duration
	IdempotencyTTL time.Duration

	// Publisher is optional; nil drops lifecycle events.
	Publisher booking.EventPublisher
	Logger    *slog.Logger
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router         *gin.Engine
	JWTManager     *auth.JWTManager
	BookingService booking.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Init Components
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	var publisher booking.EventPublisher = events.NopPublisher{}
	if cfg.Publisher != nil {
		publisher = cfg.Publisher
	}

	// Catalog Module
	var lookup catalog.Lookup = catalog.NewPlaceholderLookup()
	var idem booking.IdempotencyStore
	if cfg.Redis != nil {
		lookup = catalog.NewCachedLookup(lookup, cfg.Redis, cfg.LookupCacheTTL, logger)
		idem = redisx.NewIdempotencyStore(cfg.Redis, cfg.IdempotencyTTL)
	}

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, lookup, publisher, idem, logger)

	// API Router Config
	routerParams := api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		BookingService: bookingService,
		JWTManager:     jwtManager,
	}
	if cfg.DBPool != nil {
		routerParams.Health = cfg.DBPool
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:         router,
		JWTManager:     jwtManager,
		BookingService: bookingService,
	}
}
