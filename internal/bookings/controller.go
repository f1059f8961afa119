package bookings

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"stagepass/internal/events"
	"stagepass/internal/shared/utils/response"
)

type Controller interface {
	CreateBooking(c *gin.Context)
	GetBooking(c *gin.Context)
	ListBookings(c *gin.Context)
	CancelBooking(c *gin.Context)
}

type controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) Controller {
	return &controller{
		service:   service,
		validator: validator.New(),
	}
}

func (ctrl *controller) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := ctrl.validator.Struct(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	result, err := ctrl.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrCapacityExceeded):
			response.Error(c, http.StatusConflict, err.Error(), nil)
		case errors.Is(err, ErrCategoryNotFound), errors.Is(err, events.ErrNotFound):
			response.Error(c, http.StatusNotFound, "Event or ticket category not found", nil)
		case errors.Is(err, ErrCategoryNotOnSale), errors.Is(err, ErrEventNotBookable):
			response.Error(c, http.StatusUnprocessableEntity, err.Error(), nil)
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to create booking", nil)
		}
		return
	}

	response.Success(c, http.StatusCreated, "Booking confirmed", result)
}

func (ctrl *controller) GetBooking(c *gin.Context) {
	bookingRef := c.Param("bookingRef")
	if bookingRef == "" {
		response.Error(c, http.StatusBadRequest, "Booking reference is required", nil)
		return
	}

	booking, err := ctrl.service.GetBookingByRef(c.Request.Context(), bookingRef)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.Error(c, http.StatusNotFound, "Booking not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to retrieve booking", nil)
		return
	}

	response.Success(c, http.StatusOK, "Booking retrieved successfully", booking)
}

func (ctrl *controller) ListBookings(c *gin.Context) {
	var query BookingListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	result, err := ctrl.service.ListBookings(c.Request.Context(), query)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list bookings", nil)
		return
	}

	response.Success(c, http.StatusOK, "Bookings retrieved successfully", result)
}

func (ctrl *controller) CancelBooking(c *gin.Context) {
	bookingRef := c.Param("bookingRef")
	if bookingRef == "" {
		response.Error(c, http.StatusBadRequest, "Booking reference is required", nil)
		return
	}

	err := ctrl.service.CancelBooking(c.Request.Context(), bookingRef)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.Error(c, http.StatusNotFound, "Booking not found", nil)
		case errors.Is(err, ErrAlreadyCancelled):
			response.Error(c, http.StatusConflict, "Booking is already cancelled", nil)
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to cancel booking", nil)
		}
		return
	}

	response.Success(c, http.StatusOK, "Booking cancelled successfully", nil)
}
