// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"leadflow_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead is created.
type LeadCreated struct {
	BaseEvent
	LeadID     uuid.UUID  `json:"leadId"`
	Name       string     `json:"name"`
	Phone      string     `json:"phone"`
	AssignedTo *uuid.UUID `json:"assignedTo,omitempty"`
	CreatedBy  uuid.UUID  `json:"createdBy"`
}

func (e LeadCreated) EventName() string { return "leads.created" }

// LeadAssigned is published when a lead is assigned or reassigned to a member.
type LeadAssigned struct {
	BaseEvent
	LeadID        uuid.UUID  `json:"leadId"`
	PreviousOwner *uuid.UUID `json:"previousOwner,omitempty"`
	NewOwner      uuid.UUID  `json:"newOwner"`
	AssignedByID  uuid.UUID  `json:"assignedById"`
}

func (e LeadAssigned) EventName() string { return "leads.assigned" }

// LeadUnassigned is published when a lead is returned to the unassigned pool.
type LeadUnassigned struct {
	BaseEvent
	LeadID        uuid.UUID  `json:"leadId"`
	PreviousOwner *uuid.UUID `json:"previousOwner,omitempty"`
	ActorID       uuid.UUID  `json:"actorId"`
}

func (e LeadUnassigned) EventName() string { return "leads.unassigned" }

// LeadStatusChanged is published when a lead's status is updated.
type LeadStatusChanged struct {
	BaseEvent
	LeadID       uuid.UUID  `json:"leadId"`
	OldStatus    string     `json:"oldStatus"`
	NewStatus    string     `json:"newStatus"`
	FollowUpDate *time.Time `json:"followUpDate,omitempty"`
	ActorID      uuid.UUID  `json:"actorId"`
}

func (e LeadStatusChanged) EventName() string { return "leads.status.changed" }

// LeadFollowUpDue is published by the scheduler worker when a lead's
// follow-up reminder fires.
type LeadFollowUpDue struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	LeadName string    `json:"leadName"`
	OwnerID  uuid.UUID `json:"ownerId"`
	DueDate  string    `json:"dueDate"`
}

func (e LeadFollowUpDue) EventName() string { return "leads.followup.due" }

// LeadsDeleted is published when leads are permanently removed.
type LeadsDeleted struct {
	BaseEvent
	LeadIDs []uuid.UUID `json:"leadIds"`
	ActorID uuid.UUID   `json:"actorId"`
}

func (e LeadsDeleted) EventName() string { return "leads.deleted" }
