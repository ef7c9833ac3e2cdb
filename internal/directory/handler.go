package directory

import (
	"net/http"

	"outreach_backend/platform/httpkit"
	"outreach_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// CreateCompanyRequest registers a company the extension found no match for.
type CreateCompanyRequest struct {
	Name          string `json:"name" validate:"required,max=300"`
	Website       string `json:"website" validate:"max=500"`
	ContactPerson string `json:"contactPerson" validate:"max=200"`
	Email         string `json:"email" validate:"omitempty,email"`
	LinkedIn      string `json:"linkedin" validate:"max=500"`
}

// Handler handles HTTP requests for the directory.
type Handler struct {
	repo *Repository
	val  *validator.Validator
}

// NewHandler creates a new directory handler.
func NewHandler(repo *Repository, val *validator.Validator) *Handler {
	return &Handler{repo: repo, val: val}
}

// RegisterRoutes registers directory routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/partners", h.ListPartners)
	rg.GET("/companies/lookup", h.LookupCompany)
	rg.POST("/companies", h.CreateCompany)
}

func (h *Handler) ListPartners(c *gin.Context) {
	partners, err := h.repo.ListPartners(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"partners": partners})
}

// LookupCompany finds a company by website domain or exact name, so the
// extension can attach tasks to an existing record.
func (h *Handler) LookupCompany(c *gin.Context) {
	company, err := h.repo.FindCompany(c.Request.Context(), c.Query("domain"), c.Query("name"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, company)
}

func (h *Handler) CreateCompany(c *gin.Context) {
	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	company := Company{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
	}
	if req.Website != "" {
		company.Website = &req.Website
	}
	if req.LinkedIn != "" {
		company.LinkedIn = &req.LinkedIn
	}

	created, err := h.repo.InsertCompany(c.Request.Context(), company)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, created)
}
