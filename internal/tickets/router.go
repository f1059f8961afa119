package tickets

import "github.com/gin-gonic/gin"

func SetupTicketRoutes(router *gin.RouterGroup, controller Controller) {
	router.GET("/bookings/:bookingRef/ticket", controller.DownloadTicket) // GET /api/v1/bookings/:bookingRef/ticket
	router.GET("/verify-ticket/:bookingRef", controller.VerifyTicket)    // GET /api/v1/verify-ticket/:bookingRef
}
