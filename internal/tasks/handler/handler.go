// Package handler handles HTTP requests for follow-up tasks.
package handler

import (
	"net/http"

	"outreach_backend/internal/tasks/service"
	"outreach_backend/internal/tasks/transport"
	"outreach_backend/platform/httpkit"
	"outreach_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for tasks.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new tasks handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers task routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("/company/:companyId", h.ListForCompany)
	rg.POST("/delete", h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	responses, err := h.svc.Create(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, gin.H{"tasks": responses})
}

func (h *Handler) ListForCompany(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("companyId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	responses, err := h.svc.ListForCompany(c.Request.Context(), companyID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"tasks": responses})
}

func (h *Handler) Delete(c *gin.Context) {
	var req transport.DeleteTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	resp, err := h.svc.Delete(c.Request.Context(), req.TaskID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}
