package reports

import (
	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the reporting module implementing http.Module.
type Module struct {
	handler *Handler
	svc     *Service
}

// NewModule creates the reporting module. The team provider is supplied by
// the composition root so reports never import the members service.
func NewModule(pool *pgxpool.Pool, team TeamProvider, log *logger.Logger) *Module {
	svc := NewService(NewRepository(pool), team, log)
	return &Module{
		handler: NewHandler(svc),
		svc:     svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "reports"
}

// Service returns the reports service for the scheduler worker.
func (m *Module) Service() *Service {
	return m.svc
}

// RegisterRoutes mounts report routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/reports"))
	m.handler.RegisterAdminRoutes(ctx.Admin.Group("/reports"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
