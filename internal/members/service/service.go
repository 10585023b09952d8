package service

import (
	"context"
	"errors"

	"leadflow_backend/internal/members/repository"
	"leadflow_backend/internal/members/transport"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

// Store is the persistence surface the service depends on.
// *repository.Repository satisfies it.
type Store interface {
	Create(ctx context.Context, params repository.CreateMemberParams) (repository.Member, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Member, error)
	GetByEmail(ctx context.Context, email string) (repository.Member, error)
	List(ctx context.Context, params repository.ListParams) ([]repository.Member, error)
	ManagedMemberIDs(ctx context.Context, managerID uuid.UUID) ([]uuid.UUID, error)
	AllMemberIDs(ctx context.Context) ([]uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, params repository.UpdateMemberParams) (repository.Member, error)
}

type Service struct {
	store Store
	log   *logger.Logger
}

func New(store Store, log *logger.Logger) *Service {
	return &Service{store: store, log: log}
}

// Create registers a member under the auth-provided identifier. Members with
// role member may carry a manager; managers and admins never do.
func (s *Service) Create(ctx context.Context, req transport.CreateMemberRequest) (transport.MemberResponse, error) {
	if req.ManagerID != nil {
		if req.Role != transport.RoleMember {
			return transport.MemberResponse{}, apperr.Validation("only members can be assigned a manager")
		}
		manager, err := s.store.GetByID(ctx, *req.ManagerID)
		if err != nil {
			return transport.MemberResponse{}, apperr.NotFound("manager not found")
		}
		if manager.Role != string(transport.RoleManager) {
			return transport.MemberResponse{}, apperr.Validation("assigned manager must have role manager")
		}
	}

	if _, err := s.store.GetByEmail(ctx, req.Email); err == nil {
		return transport.MemberResponse{}, apperr.Conflict("a member with this email already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return transport.MemberResponse{}, err
	}

	member, err := s.store.Create(ctx, repository.CreateMemberParams{
		ID:        req.ID,
		Name:      req.Name,
		Email:     req.Email,
		Role:      string(req.Role),
		ManagerID: req.ManagerID,
	})
	if err != nil {
		return transport.MemberResponse{}, err
	}

	return toMemberResponse(member, nil), nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.MemberResponse, error) {
	member, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.MemberResponse{}, apperr.NotFound("member not found")
		}
		return transport.MemberResponse{}, err
	}

	var managed []uuid.UUID
	if member.Role == string(transport.RoleManager) {
		managed, err = s.store.ManagedMemberIDs(ctx, member.ID)
		if err != nil {
			return transport.MemberResponse{}, err
		}
	}

	return toMemberResponse(member, managed), nil
}

type ListParams struct {
	Role      string
	Status    string
	ManagerID *uuid.UUID
}

func (s *Service) List(ctx context.Context, params ListParams) (transport.MemberListResponse, error) {
	members, err := s.store.List(ctx, repository.ListParams{
		Role:      params.Role,
		Status:    params.Status,
		ManagerID: params.ManagerID,
	})
	if err != nil {
		return transport.MemberListResponse{}, err
	}

	resp := transport.MemberListResponse{
		Members: make([]transport.MemberResponse, 0, len(members)),
		Total:   len(members),
	}
	for _, m := range members {
		resp.Members = append(resp.Members, toMemberResponse(m, nil))
	}

	return resp, nil
}

// Update changes a member's profile, role, status, or manager edge. There is
// no delete; deactivation (status inactive) is the removal path.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateMemberRequest) (transport.MemberResponse, error) {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.MemberResponse{}, apperr.NotFound("member not found")
		}
		return transport.MemberResponse{}, err
	}

	if req.ManagerID != nil {
		role := current.Role
		if req.Role != nil {
			role = string(*req.Role)
		}
		if role != string(transport.RoleMember) {
			return transport.MemberResponse{}, apperr.Validation("only members can be assigned a manager")
		}
		manager, err := s.store.GetByID(ctx, *req.ManagerID)
		if err != nil {
			return transport.MemberResponse{}, apperr.NotFound("manager not found")
		}
		if manager.Role != string(transport.RoleManager) {
			return transport.MemberResponse{}, apperr.Validation("assigned manager must have role manager")
		}
	}

	params := repository.UpdateMemberParams{
		Name:         req.Name,
		ManagerID:    req.ManagerID,
		ClearManager: req.DetachManager,
	}
	if req.Role != nil {
		role := string(*req.Role)
		params.Role = &role
		// Leaving the member role severs the manager edge.
		if role != string(transport.RoleMember) {
			params.ClearManager = true
			params.ManagerID = nil
		}
	}
	if req.Status != nil {
		status := string(*req.Status)
		params.Status = &status
	}

	member, err := s.store.Update(ctx, id, params)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.MemberResponse{}, apperr.NotFound("member not found")
		}
		return transport.MemberResponse{}, err
	}

	return toMemberResponse(member, nil), nil
}

// AssignToManager moves the given members under a manager in one pass. Each
// target must exist and hold the member role.
func (s *Service) AssignToManager(ctx context.Context, managerID uuid.UUID, req transport.AssignManagerRequest) (transport.MemberResponse, error) {
	manager, err := s.store.GetByID(ctx, managerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.MemberResponse{}, apperr.NotFound("manager not found")
		}
		return transport.MemberResponse{}, err
	}
	if manager.Role != string(transport.RoleManager) {
		return transport.MemberResponse{}, apperr.Validation("target must have role manager")
	}

	// Validate the whole set before writing anything.
	var failed []apperr.BatchItemFailure
	for _, id := range req.MemberIDs {
		member, err := s.store.GetByID(ctx, id)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			failed = append(failed, apperr.BatchItemFailure{ID: id.String(), Reason: "not found"})
		case err != nil:
			return transport.MemberResponse{}, err
		case member.Role != string(transport.RoleMember):
			failed = append(failed, apperr.BatchItemFailure{ID: id.String(), Reason: "not a member"})
		}
	}
	if len(failed) > 0 {
		return transport.MemberResponse{}, apperr.PartialBatch("manager assignment aborted", nil, failed)
	}

	for _, id := range req.MemberIDs {
		if _, err := s.store.Update(ctx, id, repository.UpdateMemberParams{ManagerID: &managerID}); err != nil {
			return transport.MemberResponse{}, err
		}
	}

	return s.GetByID(ctx, managerID)
}

// VisibleMemberIDs implements the assignment-graph scoping rule: admins see
// every member, managers see themselves plus their members, members see only
// themselves. Unknown actors see nothing.
func (s *Service) VisibleMemberIDs(ctx context.Context, actorID uuid.UUID) ([]uuid.UUID, error) {
	actor, err := s.store.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("member not found")
		}
		return nil, err
	}

	switch actor.Role {
	case string(transport.RoleAdmin):
		return s.store.AllMemberIDs(ctx)
	case string(transport.RoleManager):
		managed, err := s.store.ManagedMemberIDs(ctx, actorID)
		if err != nil {
			return nil, err
		}
		return append([]uuid.UUID{actorID}, managed...), nil
	default:
		return []uuid.UUID{actorID}, nil
	}
}

// ActiveTeam returns the active members visible to the actor, used by report
// rollups that skip inactive members.
func (s *Service) ActiveTeam(ctx context.Context, actorID uuid.UUID) ([]transport.MemberResponse, error) {
	visible, err := s.VisibleMemberIDs(ctx, actorID)
	if err != nil {
		return nil, err
	}

	visibleSet := make(map[uuid.UUID]bool, len(visible))
	for _, id := range visible {
		visibleSet[id] = true
	}

	members, err := s.store.List(ctx, repository.ListParams{Status: string(transport.MemberStatusActive)})
	if err != nil {
		return nil, err
	}

	team := make([]transport.MemberResponse, 0, len(members))
	for _, m := range members {
		if visibleSet[m.ID] {
			team = append(team, toMemberResponse(m, nil))
		}
	}

	return team, nil
}

func toMemberResponse(m repository.Member, managed []uuid.UUID) transport.MemberResponse {
	return transport.MemberResponse{
		ID:              m.ID,
		Name:            m.Name,
		Email:           m.Email,
		Role:            transport.Role(m.Role),
		Status:          transport.MemberStatus(m.Status),
		ManagerID:       m.ManagerID,
		AssignedMembers: managed,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
