package directory

import (
	apphttp "outreach_backend/internal/http"
	"outreach_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the directory bounded context module implementing http.Module.
type Module struct {
	handler    *Handler
	repository *Repository
}

// NewModule creates and initializes the directory module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := New(pool)
	return &Module{
		handler:    NewHandler(repo, val),
		repository: repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "directory"
}

// Repository returns the directory store for the reconciliation core.
func (m *Module) Repository() *Repository {
	return m.repository
}

// RegisterRoutes mounts directory routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/directory"))
}

var _ apphttp.Module = (*Module)(nil)
