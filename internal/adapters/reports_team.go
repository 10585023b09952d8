package adapters

import (
	"context"

	"leadflow_backend/internal/members/service"
	"leadflow_backend/internal/reports"

	"github.com/google/uuid"
)

// ReportsTeamAdapter exposes the members service's active-team view to the
// reporting module. It implements reports.TeamProvider.
type ReportsTeamAdapter struct {
	svc *service.Service
}

func NewReportsTeamAdapter(svc *service.Service) *ReportsTeamAdapter {
	return &ReportsTeamAdapter{svc: svc}
}

func (a *ReportsTeamAdapter) ActiveTeam(ctx context.Context, actorID uuid.UUID) ([]reports.TeamMember, error) {
	team, err := a.svc.ActiveTeam(ctx, actorID)
	if err != nil {
		return nil, err
	}

	out := make([]reports.TeamMember, 0, len(team))
	for _, m := range team {
		out = append(out, reports.TeamMember{ID: m.ID, Name: m.Name})
	}
	return out, nil
}

// Compile-time check
var _ reports.TeamProvider = (*ReportsTeamAdapter)(nil)
