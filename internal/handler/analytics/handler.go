package analytics

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/healthdesk/clinic-api/internal/handler"
	"github.com/healthdesk/clinic-api/internal/middleware"
	"github.com/healthdesk/clinic-api/internal/model"
	"github.com/healthdesk/clinic-api/internal/service/analytics"
)

type Handler struct {
	service *analytics.Service
}

func NewHandler(service *analytics.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	stats := r.Group("/analytics", auth.RequireRole(model.RoleAdmin))
	stats.GET("/top-doctors", h.TopDoctors)
	stats.GET("/specialty-stats", h.SpecialtyStats)
	stats.GET("/age-distribution", h.AgeDistribution)
	stats.GET("/doctors-by-specialty", h.DoctorCountBySpecialty)
	stats.GET("/role-distribution", h.RoleDistribution)
}

func (h *Handler) TopDoctors(c *gin.Context) {
	var filter model.AnalyticsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	rows, err := h.service.TopDoctors(c.Request.Context(), &filter)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(rows))
}

func (h *Handler) SpecialtyStats(c *gin.Context) {
	var filter model.AnalyticsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	rows, err := h.service.SpecialtyStats(c.Request.Context(), &filter)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(rows))
}

func (h *Handler) AgeDistribution(c *gin.Context) {
	rows, err := h.service.AgeDistribution(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(rows))
}

func (h *Handler) DoctorCountBySpecialty(c *gin.Context) {
	rows, err := h.service.DoctorCountBySpecialty(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(rows))
}

func (h *Handler) RoleDistribution(c *gin.Context) {
	rows, err := h.service.RoleDistribution(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(rows))
}
