// Package pipelines provides pipeline and stage management.
package pipelines

import (
	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/internal/pipelines/handler"
	"leadflow_backend/internal/pipelines/repository"
	"leadflow_backend/internal/pipelines/service"
	"leadflow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

func (m *Module) Name() string {
	return "pipelines"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	pipelines := ctx.Protected.Group("/pipelines")
	m.handler.RegisterRoutes(pipelines)
}

var _ apphttp.Module = (*Module)(nil)
