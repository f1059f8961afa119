package bookings

import (
	"stagepass/internal/shared/config"
	"stagepass/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupBookingRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	bookings := router.Group("/bookings")
	{
		bookings.POST("", controller.CreateBooking)                    // POST /api/v1/bookings
		bookings.GET("/:bookingRef", controller.GetBooking)            // GET /api/v1/bookings/:bookingRef
		bookings.POST("/:bookingRef/cancel", controller.CancelBooking) // POST /api/v1/bookings/:bookingRef/cancel
	}

	adminBookings := router.Group("/admin/bookings")
	adminBookings.Use(middleware.JWTAuth(cfg), middleware.RequireAdmin())
	{
		adminBookings.GET("", controller.ListBookings) // GET /api/v1/admin/bookings
	}
}
