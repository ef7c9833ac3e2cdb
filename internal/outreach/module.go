// Package outreach provides the reply reconciliation bounded context module.
package outreach

import (
	"outreach_backend/internal/directory"
	"outreach_backend/internal/email"
	apphttp "outreach_backend/internal/http"
	"outreach_backend/internal/msgraph"
	"outreach_backend/internal/outreach/handler"
	"outreach_backend/internal/outreach/service"
	"outreach_backend/internal/relay"
	taskrepo "outreach_backend/internal/tasks/repository"
	"outreach_backend/platform/config"
	"outreach_backend/platform/logger"
	"outreach_backend/platform/validator"
)

// Module is the reconciliation bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the reconciliation core onto its provider clients. The smtp
// sender may be nil when no SMTP fallback is configured.
func NewModule(
	store *taskrepo.Repository,
	dir *directory.Repository,
	mail *msgraph.Client,
	chats *relay.Client,
	smtp email.Sender,
	cfg config.ReconcileConfig,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	svc := service.New(store, dir, mail, chats, smtp, cfg, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "outreach"
}

// Service returns the reconciliation service for the scheduler worker.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts sweep routes with the stricter sweep rate limit.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	grp := ctx.Protected.Group("/outreach")
	grp.Use(ctx.SweepRateLimiter.RateLimit())
	m.handler.RegisterRoutes(grp)
}

var _ apphttp.Module = (*Module)(nil)
