// Package leads provides the lead lifecycle domain module. All status, tag
// and call count transitions flow through the engine in leads/domain.
package leads

import (
	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/internal/leads/handler"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/service"
	"leadflow_backend/platform/events"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the leads domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the leads module with all dependencies wired. The rules
// provider and follow-up scheduler come from other modules, so they are
// injected rather than constructed here.
func NewModule(
	pool *pgxpool.Pool,
	bus events.Bus,
	val *validator.Validator,
	rules service.RulesProvider,
	scheduler service.FollowUpScheduler,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, rules, scheduler, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "leads"
}

// Service exposes the service layer for cross-module wiring.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	leads := ctx.Protected.Group("/leads")
	m.handler.RegisterRoutes(leads)
}

var _ apphttp.Module = (*Module)(nil)
