package service

import (
	"context"
	"errors"
	"time"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/apperr"

	"github.com/google/uuid"
)

// UpdateStatus runs a status transition through the state machine and
// persists the outcome together with its note. All validation happens before
// any write.
func (s *Service) UpdateStatus(ctx context.Context, leadID uuid.UUID, req transport.UpdateStatusRequest, actor Actor) (transport.LeadResponse, error) {
	lead, err := s.store.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}

	upd := domain.StatusUpdate{
		Status:       domain.Status(req.Status),
		NoteText:     req.NoteText,
		FollowUpTime: req.FollowUpTime,
		Reason:       req.Reason,
	}
	if req.FollowUpDate != "" {
		parsed, err := time.Parse(transport.DateLayout, req.FollowUpDate)
		if err != nil {
			return transport.LeadResponse{}, apperr.Validation("invalid followUpDate")
		}
		upd.FollowUpDate = &parsed
	}

	outcome, err := domain.ApplyStatusUpdate(domain.LeadState{
		Status:       domain.Status(lead.Status),
		Rescheduled:  lead.Rescheduled,
		FollowUpDate: lead.FollowUpDate,
		FollowUpTime: lead.FollowUpTime,
	}, upd, s.today())
	if err != nil {
		return transport.LeadResponse{}, err
	}

	updated, err := s.store.UpdateStatus(ctx, repository.UpdateStatusParams{
		ID:           leadID,
		Status:       string(outcome.Status),
		FollowUpDate: outcome.FollowUpDate,
		FollowUpTime: outcome.FollowUpTime,
		Rescheduled:  outcome.Rescheduled,
		DateUpdated:  outcome.DateUpdated,
		Note: repository.AppendNoteParams{
			Text:         req.NoteText,
			Status:       string(outcome.Status),
			FollowUpDate: outcome.FollowUpDate,
			FollowUpTime: outcome.FollowUpTime,
			UpdatedBy:    actor.Name,
			Reason:       req.Reason,
		},
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	if outcome.FollowUpDate != nil && updated.AssignedTo != nil {
		err := s.scheduler.ScheduleFollowUpReminder(ctx, updated.ID, updated.LeadName, *updated.AssignedTo, *outcome.FollowUpDate)
		if err != nil {
			// Reminders are best effort; the transition itself already committed.
			s.log.TaskEvent("leads:followup_reminder", false, err.Error())
		}
	}

	s.bus.Publish(ctx, events.LeadStatusChanged{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       updated.ID,
		OldStatus:    lead.Status,
		NewStatus:    updated.Status,
		FollowUpDate: outcome.FollowUpDate,
		ActorID:      actor.ID,
	})

	return toLeadResponse(updated, nil), nil
}
