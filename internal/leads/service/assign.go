package service

import (
	"context"
	"errors"
	"time"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/ports"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/apperr"

	"github.com/google/uuid"
)

// Reassign hands a lead to a new owner. Status restarts at Pending and the
// follow-up fields are cleared; the note trail carries forward unmodified
// plus one reassignment note.
func (s *Service) Reassign(ctx context.Context, leadID uuid.UUID, req transport.ReassignRequest, actor Actor) (transport.LeadResponse, error) {
	member, dateAssigned, err := s.resolveAssignment(ctx, req.AssigneeID, req.DateAssigned)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	prev, err := s.store.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}

	lead, err := s.store.Reassign(ctx, leadID, repository.ReassignParams{
		AssignedTo:     member.ID,
		AssignedToName: member.Name,
		DateAssigned:   dateAssigned,
		NoteText:       "Lead reassigned to " + member.Name + " by " + actor.Name,
		UpdatedBy:      actor.Name,
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadAssigned{
		BaseEvent:     events.NewBaseEvent(),
		LeadID:        lead.ID,
		PreviousOwner: prev.AssignedTo,
		NewOwner:      member.ID,
		AssignedByID:  actor.ID,
	})

	return toLeadResponse(lead, nil), nil
}

// BulkReassign applies reassignment to a whole id set. The id set is
// validated up front; if any id is unknown the call fails before any write,
// reporting per-item outcome. The batch itself commits all-or-nothing.
func (s *Service) BulkReassign(ctx context.Context, req transport.BulkReassignRequest, actor Actor) (transport.BatchResponse, error) {
	member, dateAssigned, err := s.resolveAssignment(ctx, req.AssigneeID, req.DateAssigned)
	if err != nil {
		return transport.BatchResponse{}, err
	}

	if err := s.requireAllExist(ctx, req.LeadIDs, "bulk reassign aborted: unknown lead ids"); err != nil {
		return transport.BatchResponse{}, err
	}

	leads, err := s.store.BulkReassign(ctx, req.LeadIDs, repository.ReassignParams{
		AssignedTo:     member.ID,
		AssignedToName: member.Name,
		DateAssigned:   dateAssigned,
		NoteText:       "Lead reassigned to " + member.Name + " by " + actor.Name,
		UpdatedBy:      actor.Name,
	})
	if err != nil {
		return transport.BatchResponse{}, err
	}

	resp := transport.BatchResponse{Results: make([]transport.BatchItemResult, 0, len(leads))}
	for _, lead := range leads {
		resp.Results = append(resp.Results, transport.BatchItemResult{ID: lead.ID, OK: true})
		s.bus.Publish(ctx, events.LeadAssigned{
			BaseEvent:    events.NewBaseEvent(),
			LeadID:       lead.ID,
			NewOwner:     member.ID,
			AssignedByID: actor.ID,
		})
	}

	return resp, nil
}

// Unassign clears ownership on the given leads without deleting them.
func (s *Service) Unassign(ctx context.Context, req transport.UnassignRequest, actor Actor) (transport.BatchResponse, error) {
	if err := s.requireAllExist(ctx, req.LeadIDs, "unassign aborted: unknown lead ids"); err != nil {
		return transport.BatchResponse{}, err
	}

	if err := s.store.Unassign(ctx, req.LeadIDs, actor.Name); err != nil {
		return transport.BatchResponse{}, err
	}

	resp := transport.BatchResponse{Results: make([]transport.BatchItemResult, 0, len(req.LeadIDs))}
	for _, id := range req.LeadIDs {
		resp.Results = append(resp.Results, transport.BatchItemResult{ID: id, OK: true})
		s.bus.Publish(ctx, events.LeadUnassigned{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    id,
			ActorID:   actor.ID,
		})
	}

	return resp, nil
}

// Delete hard-deletes the given leads. Irreversible; no note can outlive the
// lead, so the deletion itself is logged as the external audit trail.
func (s *Service) Delete(ctx context.Context, req transport.DeleteLeadsRequest, actor Actor) (transport.BatchResponse, error) {
	if err := s.requireAllExist(ctx, req.LeadIDs, "delete aborted: unknown lead ids"); err != nil {
		return transport.BatchResponse{}, err
	}

	deleted, err := s.store.Delete(ctx, req.LeadIDs)
	if err != nil {
		return transport.BatchResponse{}, err
	}

	s.log.Info("leads deleted",
		"count", deleted,
		"actor_id", actor.ID.String(),
		"actor_name", actor.Name,
	)

	s.bus.Publish(ctx, events.LeadsDeleted{
		BaseEvent: events.NewBaseEvent(),
		LeadIDs:   req.LeadIDs,
		ActorID:   actor.ID,
	})

	resp := transport.BatchResponse{Results: make([]transport.BatchItemResult, 0, len(req.LeadIDs))}
	for _, id := range req.LeadIDs {
		resp.Results = append(resp.Results, transport.BatchItemResult{ID: id, OK: true})
	}

	return resp, nil
}

// resolveAssignment validates the target member and assignment date shared by
// the reassignment operations.
func (s *Service) resolveAssignment(ctx context.Context, assigneeID uuid.UUID, dateAssigned string) (ports.Member, time.Time, error) {
	member, err := s.members.GetMemberByID(ctx, assigneeID)
	if err != nil {
		return ports.Member{}, time.Time{}, apperr.NotFound("assignee not found")
	}
	if !member.Active {
		return ports.Member{}, time.Time{}, apperr.Validation("assignee is inactive")
	}

	parsed, err := time.Parse(transport.DateLayout, dateAssigned)
	if err != nil {
		return ports.Member{}, time.Time{}, apperr.Validation("invalid dateAssigned")
	}

	return member, parsed, nil
}

// requireAllExist fails a bulk operation before any write when the id set
// contains unknown leads, reporting which ids were the problem.
func (s *Service) requireAllExist(ctx context.Context, ids []uuid.UUID, message string) error {
	found, err := s.store.ExistingIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(found) == len(ids) {
		return nil
	}

	var failed []apperr.BatchItemFailure
	for _, id := range ids {
		if !found[id] {
			failed = append(failed, apperr.BatchItemFailure{ID: id.String(), Reason: "not found"})
		}
	}

	return apperr.PartialBatch(message, nil, failed)
}
