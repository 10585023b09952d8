// Package members provides the member directory and assignment graph module.
package members

import (
	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/internal/members/handler"
	"leadflow_backend/internal/members/repository"
	"leadflow_backend/internal/members/service"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the members bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	svc     *service.Service
}

// NewModule creates and initializes the members module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)

	return &Module{
		handler: handler.New(svc, val),
		svc:     svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "members"
}

// Service returns the members service for adapters in the composition root.
func (m *Module) Service() *service.Service {
	return m.svc
}

// RegisterRoutes mounts member routes: reads for all authenticated users,
// mutations admin only.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/members"))
	m.handler.RegisterAdminRoutes(ctx.Admin.Group("/members"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
