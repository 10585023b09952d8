package transport

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire format for calendar dates (follow-up and assignment
// dates). Times of day travel separately as free-form strings.
const DateLayout = "2006-01-02"

// Request DTOs

type CreateLeadRequest struct {
	LeadName     string       `json:"leadName" validate:"required,min=1,max=200"`
	Phone        string       `json:"phone" validate:"required,min=3,max=20"`
	AssigneeID   OptionalUUID `json:"assigneeId,omitempty" validate:"-"`
	DateAssigned string       `json:"dateAssigned,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateStatusRequest struct {
	// Status values are validated by the state machine, not here; oneof
	// cannot express values containing apostrophes.
	Status       string `json:"status" validate:"required,max=30"`
	NoteText     string `json:"noteText" validate:"max=2000"`
	FollowUpDate string `json:"followUpDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	FollowUpTime string `json:"followUpTime,omitempty" validate:"omitempty,max=20"`
	Reason       string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

type AddNoteRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}

type ReassignRequest struct {
	AssigneeID   uuid.UUID `json:"assigneeId" validate:"required"`
	DateAssigned string    `json:"dateAssigned" validate:"required,datetime=2006-01-02"`
}

type BulkReassignRequest struct {
	LeadIDs      []uuid.UUID `json:"leadIds" validate:"required,min=1,max=500"`
	AssigneeID   uuid.UUID   `json:"assigneeId" validate:"required"`
	DateAssigned string      `json:"dateAssigned" validate:"required,datetime=2006-01-02"`
}

type UnassignRequest struct {
	LeadIDs []uuid.UUID `json:"leadIds" validate:"required,min=1,max=500"`
}

type DeleteLeadsRequest struct {
	LeadIDs []uuid.UUID `json:"leadIds" validate:"required,min=1,max=500"`
}

// Response DTOs

type NoteResponse struct {
	ID           uuid.UUID `json:"id"`
	Text         string    `json:"text"`
	Status       string    `json:"status"`
	FollowUpDate *string   `json:"followUpDate,omitempty"`
	FollowUpTime string    `json:"followUpTime,omitempty"`
	UpdatedBy    string    `json:"updatedBy"`
	Reason       string    `json:"reason,omitempty"`
	Date         time.Time `json:"date"`
}

type LeadResponse struct {
	ID             uuid.UUID      `json:"id"`
	LeadName       string         `json:"leadName"`
	Phone          string         `json:"phone"`
	AssignedTo     *uuid.UUID     `json:"assignedTo,omitempty"`
	AssignedToName string         `json:"assignedToName,omitempty"`
	DateAssigned   *string        `json:"dateAssigned,omitempty"`
	Status         string         `json:"status"`
	FollowUpDate   *string        `json:"followUpDate,omitempty"`
	FollowUpTime   string         `json:"followUpTime,omitempty"`
	Rescheduled    bool           `json:"rescheduled"`
	DateUpdated    *string        `json:"dateUpdated,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	NoteCount      int            `json:"noteCount"`
	Notes          []NoteResponse `json:"notes,omitempty"`
}

type LeadListResponse struct {
	Leads []LeadResponse `json:"leads"`
	Total int            `json:"total"`
}

type DuplicateCheckResponse struct {
	Phone     string `json:"phone"`
	Exists    bool   `json:"exists"`
	OwnerName string `json:"ownerName,omitempty"`
}

type BatchItemResult struct {
	ID     uuid.UUID `json:"id"`
	OK     bool      `json:"ok"`
	Reason string    `json:"reason,omitempty"`
}

type BatchResponse struct {
	Results []BatchItemResult `json:"results"`
}
