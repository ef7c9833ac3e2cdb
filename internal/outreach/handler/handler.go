// Package handler handles HTTP requests for reconciliation sweeps.
package handler

import (
	"net/http"

	"outreach_backend/internal/outreach/service"
	"outreach_backend/internal/outreach/transport"
	"outreach_backend/platform/httpkit"
	"outreach_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// Handler handles sweep requests.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new sweep handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers sweep routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sweep", h.Sweep)
}

func (h *Handler) Sweep(c *gin.Context) {
	var req transport.SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	input := req.ToInput(identity.Email())
	summary, err := h.svc.Sweep(c.Request.Context(), input)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, summary)
}
