package requisition

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/healthdesk/clinic-api/internal/handler"
	"github.com/healthdesk/clinic-api/internal/middleware"
	"github.com/healthdesk/clinic-api/internal/model"
	"github.com/healthdesk/clinic-api/internal/service/requisition"
)

type Handler struct {
	service *requisition.Service
}

func NewHandler(service *requisition.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	requisitions := r.Group("/requisitions")
	requisitions.GET("", h.ListRequisitions)
	requisitions.GET("/:id", h.GetRequisition)
	requisitions.POST("", auth.RequireRole(model.RoleDoctor), h.CreateRequisition)
	requisitions.PATCH("/:id", auth.RequireRole(model.RoleDoctor), h.UpdateStatus)
	requisitions.POST("/:id/result", auth.RequireRole(model.RoleDoctor), h.AttachResult)
	requisitions.DELETE("/:id", auth.RequireRole(model.RoleDoctor), h.DeleteRequisition)
}

func (h *Handler) CreateRequisition(c *gin.Context) {
	var req model.CreateRequisitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	requisition, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(requisition))
}

func (h *Handler) GetRequisition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid requisition ID"))
		return
	}

	requisition, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(requisition))
}

func (h *Handler) ListRequisitions(c *gin.Context) {
	var medicalRecordID *uuid.UUID
	if raw := c.Query("medical_record_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid medical record ID"))
			return
		}
		medicalRecordID = &id
	}

	var status *model.RequisitionStatus
	if raw := c.Query("status"); raw != "" {
		s := model.RequisitionStatus(raw)
		status = &s
	}

	requisitions, err := h.service.List(c.Request.Context(), medicalRecordID, status)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(requisitions))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid requisition ID"))
		return
	}

	var req model.UpdateRequisitionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	requisition, err := h.service.UpdateStatus(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(requisition))
}

func (h *Handler) AttachResult(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid requisition ID"))
		return
	}

	var req model.AttachResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	requisition, err := h.service.AttachResult(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(requisition))
}

func (h *Handler) DeleteRequisition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid requisition ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
