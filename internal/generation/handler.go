package generation

import (
	"net/http"

	"outreach_backend/platform/httpkit"
	"outreach_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// ComposeRequest asks for a drafted follow-up.
type ComposeRequest struct {
	Channel      string `json:"channel" validate:"omitempty,oneof=email linkedin"`
	ContactName  string `json:"contactName" validate:"max=200"`
	CompanyName  string `json:"companyName" validate:"max=300"`
	PartnerName  string `json:"partnerName" validate:"max=200"`
	PriorMessage string `json:"priorMessage" validate:"max=10000"`
	Tone         string `json:"tone" validate:"max=100"`
}

// Handler handles HTTP requests for follow-up drafting.
type Handler struct {
	composer *Composer
	val      *validator.Validator
}

// NewHandler creates a new generation handler.
func NewHandler(composer *Composer, val *validator.Validator) *Handler {
	return &Handler{composer: composer, val: val}
}

// RegisterRoutes registers generation routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/followup", h.Compose)
}

func (h *Handler) Compose(c *gin.Context) {
	var req ComposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	result, err := h.composer.ComposeFollowUp(c.Request.Context(), ComposeInput{
		Channel:      req.Channel,
		ContactName:  req.ContactName,
		CompanyName:  req.CompanyName,
		PartnerName:  req.PartnerName,
		PriorMessage: req.PriorMessage,
		Tone:         req.Tone,
	})
	if err != nil {
		httpkit.Error(c, http.StatusBadGateway, "generation failed", nil)
		return
	}
	httpkit.OK(c, result)
}
