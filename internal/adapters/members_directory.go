package adapters

import (
	"context"

	"leadflow_backend/internal/leads/ports"
	"leadflow_backend/internal/members/service"
	"leadflow_backend/internal/members/transport"

	"github.com/google/uuid"
)

// MembersDirectoryAdapter adapts the members service for use by the leads
// domain. It implements leads/ports.MemberDirectory.
type MembersDirectoryAdapter struct {
	svc *service.Service
}

func NewMembersDirectoryAdapter(svc *service.Service) *MembersDirectoryAdapter {
	return &MembersDirectoryAdapter{svc: svc}
}

func (a *MembersDirectoryAdapter) GetMemberByID(ctx context.Context, id uuid.UUID) (ports.Member, error) {
	member, err := a.svc.GetByID(ctx, id)
	if err != nil {
		return ports.Member{}, err
	}

	return ports.Member{
		ID:     member.ID,
		Name:   member.Name,
		Email:  member.Email,
		Role:   string(member.Role),
		Active: member.Status == transport.MemberStatusActive,
	}, nil
}

func (a *MembersDirectoryAdapter) VisibleMemberIDs(ctx context.Context, actorID uuid.UUID) ([]uuid.UUID, error) {
	return a.svc.VisibleMemberIDs(ctx, actorID)
}

// Compile-time check
var _ ports.MemberDirectory = (*MembersDirectoryAdapter)(nil)
