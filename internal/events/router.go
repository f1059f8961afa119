package events

import (
	"stagepass/internal/shared/config"
	"stagepass/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupEventRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	// Public routes for browsing
	publicEvents := router.Group("/events")
	{
		publicEvents.GET("", controller.ListEvents)                // GET /api/v1/events
		publicEvents.GET("/:eventId", controller.GetEvent)         // GET /api/v1/events/:eventId
		publicEvents.GET("/:eventId/seats", controller.GetSeatMap) // GET /api/v1/events/:eventId/seats
	}

	// Admin routes for event management
	adminEvents := router.Group("/admin/events")
	adminEvents.Use(middleware.JWTAuth(cfg), middleware.RequireAdmin())
	{
		adminEvents.POST("", controller.CreateEvent)          // POST /api/v1/admin/events
		adminEvents.PUT("/:eventId", controller.UpdateEvent)  // PUT /api/v1/admin/events/:eventId
		adminEvents.GET("", controller.ListEvents)            // GET /api/v1/admin/events
		adminEvents.GET("/:eventId", controller.GetEvent)     // GET /api/v1/admin/events/:eventId
	}
}
