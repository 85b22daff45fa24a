package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/groundhub/service-booking/internal/application"
	bookingDomain "github.com/groundhub/service-booking/internal/domain/booking"
	"github.com/groundhub/service-booking/internal/pkg/auth"
	"github.com/groundhub/service-booking/internal/pkg/middleware"
	"github.com/groundhub/service-booking/internal/pkg/response"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	bookings := r.Group("/api/v1/bookings")
	bookings.Use(authMW)
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListMyBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.POST("/:id/status", h.ChangeStatus)
		bookings.POST("/:id/cancel", h.CancelBooking)
		bookings.POST("/:id/confirm", middleware.RequireRole(auth.RoleOwner, auth.RoleAdmin), h.ConfirmBooking)
	}

	grounds := r.Group("/api/v1/grounds")
	grounds.Use(authMW)
	{
		grounds.GET("/:id/bookings", h.ListGroundBookings)
		grounds.GET("/:id/availability", h.CheckAvailability)
	}
}

// CreateBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListMyBookings handles GET /api/v1/bookings.
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page, pageSize := parsePagination(c)
	result, err := h.service.ListBookingsForUser(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ChangeStatus handles POST /api/v1/bookings/:id/status.
func (h *BookingHandler) ChangeStatus(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	target, err := bookingDomain.ParseStatus(body.Status)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ChangeStatus(c.Request.Context(), bookingID, userID, target)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	h.changeTo(c, bookingDomain.StatusCancelled)
}

// ConfirmBooking handles POST /api/v1/bookings/:id/confirm.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	h.changeTo(c, bookingDomain.StatusConfirmed)
}

func (h *BookingHandler) changeTo(c *gin.Context, target bookingDomain.Status) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.ChangeStatus(c.Request.Context(), bookingID, userID, target)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListGroundBookings handles GET /api/v1/grounds/:id/bookings.
func (h *BookingHandler) ListGroundBookings(c *gin.Context) {
	groundID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid ground ID")
		return
	}

	page, pageSize := parsePagination(c)
	result, err := h.service.ListBookingsForGround(c.Request.Context(), groundID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// CheckAvailability handles GET /api/v1/grounds/:id/availability.
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	groundID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid ground ID")
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		response.BadRequest(c, "invalid date, want YYYY-MM-DD")
		return
	}
	start, err := bookingDomain.ParseTimeOfDay(c.Query("start"))
	if err != nil {
		response.BadRequest(c, "invalid start time, want HH:MM")
		return
	}
	end, err := bookingDomain.ParseTimeOfDay(c.Query("end"))
	if err != nil {
		response.BadRequest(c, "invalid end time, want HH:MM")
		return
	}

	available, err := h.service.CheckAvailability(c.Request.Context(), groundID, date, start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"available": available})
}

// parsePagination extracts page and pageSize query parameters. Missing
// parameters get defaults; explicit values pass through untouched so the
// engine can reject out-of-range input.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
