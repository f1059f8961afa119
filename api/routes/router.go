// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stagepass/internal/availability"
	"stagepass/internal/bookings"
	"stagepass/internal/events"
	"stagepass/internal/realtime"
	"stagepass/internal/reports"
	"stagepass/internal/shared/config"
	"stagepass/internal/shared/database"
	"stagepass/internal/tickets"
	"stagepass/pkg/cache"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	publisher bookings.ConfirmationPublisher

	// services shared across route groups
	availRepo    availability.Repository
	availService availability.Service
	cacheService cache.Service
	eventsRepo   events.Repository
	eventsSvc    events.Service
	bookingRepo  bookings.Repository
	bookingSvc   bookings.Service
}

// NewRouter creates a new router instance. publisher may be nil when Kafka
// is disabled.
func NewRouter(cfg *config.Config, db *database.DB, publisher bookings.ConfirmationPublisher) *Router {
	return &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)
	r.buildServices()

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupEventRoutes(api)
		r.setupBookingRoutes(api)
		r.setupTicketRoutes(api)
		r.setupReportRoutes(api)
		r.setupRealtimeRoutes(api)
	}
}

// buildServices wires the shared dependency graph once so every route group
// sees the same instances
func (r *Router) buildServices() {
	if r.db.Redis != nil {
		r.cacheService = cache.NewService(r.db.GetRedis())
	}

	r.availRepo = availability.NewRepository(r.db.GetPostgreSQL())
	r.availService = availability.NewService(r.availRepo)

	r.eventsRepo = events.NewRepository(r.db.GetPostgreSQL())
	r.eventsSvc = events.NewService(r.eventsRepo, r.availService, r.availRepo, r.cacheService, r.config.Redis.ListingCacheTTL)

	var notifier bookings.AvailabilityNotifier
	if r.db.Redis != nil {
		notifier = realtime.NewPublisher(r.db.GetRedis())
	}

	r.bookingRepo = bookings.NewRepository(r.db.GetPostgreSQL())
	r.bookingSvc = bookings.NewService(r.bookingRepo, r.eventsRepo, r.eventsSvc, r.availService, notifier, r.publisher)
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "stagepass-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "stagepass-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

// setupEventRoutes configures event browsing and management routes
func (r *Router) setupEventRoutes(rg *gin.RouterGroup) {
	eventController := events.NewController(r.eventsSvc)
	events.SetupEventRoutes(rg, eventController, r.config)
}

// setupBookingRoutes configures booking creation and lookup routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingController := bookings.NewController(r.bookingSvc)
	bookings.SetupBookingRoutes(rg, bookingController, r.config)
}

// setupTicketRoutes configures ticket download and verification routes
func (r *Router) setupTicketRoutes(rg *gin.RouterGroup) {
	ticketService := tickets.NewService(r.bookingSvc, r.config.Ticketing)
	ticketController := tickets.NewController(ticketService)
	tickets.SetupTicketRoutes(rg, ticketController)
}

// setupReportRoutes configures admin financial report routes
func (r *Router) setupReportRoutes(rg *gin.RouterGroup) {
	reportService := reports.NewService(r.bookingRepo, r.eventsRepo, r.cacheService, r.config.Ticketing.HomeState, r.config.Redis.ReportCacheTTL)
	reportController := reports.NewController(reportService)
	reports.SetupReportRoutes(rg, reportController, r.config)
}

// setupRealtimeRoutes configures the live availability stream
func (r *Router) setupRealtimeRoutes(rg *gin.RouterGroup) {
	if r.db.Redis == nil {
		return
	}
	subscriber := realtime.NewSubscriber(r.db.GetRedis())
	realtime.SetupRealtimeRoutes(rg, subscriber)
}
