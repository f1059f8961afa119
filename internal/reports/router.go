package reports

import (
	"stagepass/internal/shared/config"
	"stagepass/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupReportRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	adminReports := router.Group("/admin/reports")
	adminReports.Use(middleware.JWTAuth(cfg), middleware.RequireAdmin())
	{
		adminReports.GET("/events/:eventId", controller.GetEventReport) // GET /api/v1/admin/reports/events/:eventId
	}
}
