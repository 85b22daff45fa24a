package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/groundhub/service-booking/internal/application"
	"github.com/groundhub/service-booking/internal/pkg/auth"
	"github.com/groundhub/service-booking/internal/pkg/middleware"
	"github.com/groundhub/service-booking/internal/pkg/response"
)

// GroundHandler handles HTTP requests for ground management.
type GroundHandler struct {
	service *application.GroundService
}

// NewGroundHandler creates a new GroundHandler.
func NewGroundHandler(service *application.GroundService) *GroundHandler {
	return &GroundHandler{service: service}
}

// RegisterRoutes registers ground routes on the given router group.
func (h *GroundHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	grounds := r.Group("/api/v1/grounds")
	grounds.Use(authMW)
	{
		grounds.POST("", middleware.RequireRole(auth.RoleOwner, auth.RoleAdmin), h.CreateGround)
		grounds.GET("", h.ListGrounds)
		grounds.GET("/:id", h.GetGround)
	}
}

// CreateGround handles POST /api/v1/grounds.
func (h *GroundHandler) CreateGround(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.CreateGroundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateGround(c.Request.Context(), ownerID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListGrounds handles GET /api/v1/grounds.
func (h *GroundHandler) ListGrounds(c *gin.Context) {
	page, pageSize := parsePagination(c)
	result, err := h.service.ListGrounds(c.Request.Context(), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetGround handles GET /api/v1/grounds/:id.
func (h *GroundHandler) GetGround(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid ground ID")
		return
	}

	result, err := h.service.GetGround(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
