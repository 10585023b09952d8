// Package notification turns domain events into outbound messages. It is
// not HTTP-facing; it subscribes to the event bus and delivers email.
package notification

import (
	"context"
	"errors"
	"fmt"

	"leadflow_backend/internal/events"
	leadrepo "leadflow_backend/internal/leads/repository"
	membersservice "leadflow_backend/internal/members/service"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

// EmailSender delivers a plain-text message to a single recipient.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LeadReader loads the current lead state. Satisfied by the leads repository.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (leadrepo.Lead, error)
}

type Module struct {
	members *membersservice.Service
	sender  EmailSender
	leads   LeadReader
	log     *logger.Logger
}

func New(members *membersservice.Service, sender EmailSender, leads LeadReader, log *logger.Logger) *Module {
	return &Module{members: members, sender: sender, leads: leads, log: log}
}

// RegisterHandlers subscribes the module to the events it reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe("leads.followup.due", events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		due, ok := e.(events.LeadFollowUpDue)
		if !ok {
			return nil
		}
		return m.handleFollowUpDue(ctx, due)
	}))
}

func (m *Module) handleFollowUpDue(ctx context.Context, e events.LeadFollowUpDue) error {
	// The follow-up may have moved or been cleared since the reminder was
	// enqueued; re-check before sending.
	lead, err := m.leads.GetByID(ctx, e.LeadID)
	if errors.Is(err, leadrepo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load lead for reminder: %w", err)
	}
	if lead.FollowUpDate == nil || lead.FollowUpDate.Format("2006-01-02") != e.DueDate {
		m.log.Info("follow-up reminder skipped, follow-up moved", "leadId", e.LeadID)
		return nil
	}
	if lead.AssignedTo == nil {
		return nil
	}

	owner, err := m.members.GetByID(ctx, *lead.AssignedTo)
	if err != nil {
		return fmt.Errorf("resolve follow-up owner: %w", err)
	}

	subject := fmt.Sprintf("Follow-up due today: %s", lead.LeadName)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour follow-up with %s is due on %s. Open the lead to log the outcome.\n",
		owner.Name, lead.LeadName, e.DueDate,
	)

	if err := m.sender.Send(ctx, owner.Email, subject, body); err != nil {
		return fmt.Errorf("send follow-up reminder: %w", err)
	}

	m.log.Info("follow-up reminder sent", "leadId", e.LeadID, "owner", owner.Email)
	return nil
}
