// Package tasks provides the follow-up tasks bounded context module.
package tasks

import (
	apphttp "outreach_backend/internal/http"
	"outreach_backend/internal/tasks/handler"
	"outreach_backend/internal/tasks/repository"
	"outreach_backend/internal/tasks/service"
	"outreach_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the tasks bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	service    *service.Service
	repository *repository.Repository
}

// NewModule creates and initializes the tasks module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc, repository: repo}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "tasks"
}

// Repository returns the task store for the reconciliation core.
func (m *Module) Repository() *repository.Repository {
	return m.repository
}

// RegisterRoutes mounts task routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/tasks"))
}

var _ apphttp.Module = (*Module)(nil)
