package generation

import (
	apphttp "outreach_backend/internal/http"
	"outreach_backend/platform/validator"
)

// Module is the generation bounded context module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates the generation module. Pass a nil composer to disable it;
// the module then registers no routes.
func NewModule(composer *Composer, val *validator.Validator) *Module {
	if composer == nil {
		return &Module{}
	}
	return &Module{handler: NewHandler(composer, val)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "generation"
}

// RegisterRoutes mounts generation routes when the composer is configured.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	if m.handler == nil {
		return
	}
	m.handler.RegisterRoutes(ctx.Protected.Group("/generation"))
}

var _ apphttp.Module = (*Module)(nil)
