// Package assignment provides assignment rules and reassignment fulfillment.
package assignment

import (
	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/internal/assignment/handler"
	"leadflow_backend/internal/assignment/repository"
	"leadflow_backend/internal/assignment/service"
	"leadflow_backend/internal/events"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(pool *pgxpool.Pool, bus events.Bus, cfg service.Config, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, cfg, log)
	svc.RegisterSubscribers(bus)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

func (m *Module) Name() string {
	return "assignment"
}

// Service exposes the service layer: it doubles as the rules provider for
// the leads module and the task handler for the worker.
func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	assignment := ctx.Protected.Group("/assignment")
	m.handler.RegisterRoutes(assignment)

	admin := ctx.Admin.Group("/assignment")
	m.handler.RegisterAdminRoutes(admin)
}

var _ apphttp.Module = (*Module)(nil)
