package tickets

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"stagepass/internal/bookings"
	"stagepass/internal/shared/utils/response"
)

type Controller interface {
	DownloadTicket(c *gin.Context)
	VerifyTicket(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) DownloadTicket(c *gin.Context) {
	bookingRef := c.Param("bookingRef")
	if bookingRef == "" {
		response.Error(c, http.StatusBadRequest, "Booking reference is required", nil)
		return
	}

	pdfBytes, err := ctrl.service.GeneratePDF(c.Request.Context(), bookingRef)
	if err != nil {
		if errors.Is(err, bookings.ErrBookingNotFound) {
			response.Error(c, http.StatusNotFound, "Booking not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to generate ticket", nil)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=ticket-%s.pdf", bookingRef))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

func (ctrl *controller) VerifyTicket(c *gin.Context) {
	bookingRef := c.Param("bookingRef")
	if bookingRef == "" {
		response.Error(c, http.StatusBadRequest, "Booking reference is required", nil)
		return
	}

	result, err := ctrl.service.Verify(c.Request.Context(), bookingRef)
	if err != nil {
		if errors.Is(err, bookings.ErrBookingNotFound) {
			response.Error(c, http.StatusNotFound, "Ticket not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to verify ticket", nil)
		return
	}

	response.Success(c, http.StatusOK, "Ticket verification result", result)
}
