// Package domain provides core business rules for the leads bounded context.
package domain

import (
	"time"

	"leadflow_backend/platform/apperr"
)

// Status is a lead's workflow status.
type Status string

const (
	// StatusPending is the initial status of every created or reassigned lead.
	StatusPending Status = "Pending"
	// StatusNotInterested marks a lead that declined; requires a reason.
	StatusNotInterested Status = "Not Interested"
	// StatusDidntPick marks a call that went unanswered.
	StatusDidntPick Status = "Didn't Pick"
	// StatusInterested marks a lead that wants follow-up; requires a follow-up date.
	StatusInterested Status = "Interested"
	// StatusRequestedCallBack marks a lead that asked to be called later; requires a follow-up date.
	StatusRequestedCallBack Status = "Requested Call Back"
	// StatusConverted marks a won lead.
	StatusConverted Status = "Converted"

	// StatusUnassigned is a pseudo-status produced only by unassignment.
	// It is never selectable through a status update.
	StatusUnassigned Status = "Unassigned"

	// NoteStatusAssigned is the status label stamped on the initial note of a
	// freshly created or reassigned lead. It is a note label, not a lead status.
	NoteStatusAssigned = "Assigned"
)

// selectableStatuses are the statuses an agent may set through a status
// update. Any selectable status may transition to any other.
var selectableStatuses = map[Status]bool{
	StatusPending:           true,
	StatusNotInterested:     true,
	StatusDidntPick:         true,
	StatusInterested:        true,
	StatusRequestedCallBack: true,
	StatusConverted:         true,
}

// ValidStatus reports whether s is a status an agent may select.
func ValidStatus(s Status) bool {
	return selectableStatuses[s]
}

// Contacted reports whether a lead counts as contacted. This is the single
// system-wide definition; every KPI and report must use it rather than
// comparing statuses inline.
func Contacted(s Status) bool {
	return s != StatusPending
}

// requiresFollowUp reports whether the status needs a follow-up date supplied
// by the caller.
func requiresFollowUp(s Status) bool {
	return s == StatusInterested || s == StatusRequestedCallBack
}

// LeadState is the subset of a lead's fields the state machine reads.
type LeadState struct {
	Status       Status
	Rescheduled  bool
	FollowUpDate *time.Time
	FollowUpTime string
}

// StatusUpdate is a requested transition.
type StatusUpdate struct {
	Status       Status
	NoteText     string
	FollowUpDate *time.Time
	FollowUpTime string
	Reason       string
}

// StatusOutcome is the resolved result of a transition: the scalar fields to
// persist on the lead. The caller appends the corresponding note.
type StatusOutcome struct {
	Status       Status
	FollowUpDate *time.Time
	FollowUpTime string
	Rescheduled  bool
	DateUpdated  time.Time
}

// ApplyStatusUpdate validates a transition and computes the fields to persist.
// today is the caller's current date; it drives both the auto-reschedule for
// unanswered calls and the dateUpdated stamp.
//
// Rules:
//   - Interested / Requested Call Back require a follow-up date and keep the
//     supplied follow-up fields.
//   - Not Interested requires a reason.
//   - The first Didn't Pick on a lead schedules a follow-up for the next day
//     and sets the rescheduled flag; later Didn't Pick updates leave the
//     follow-up fields untouched.
//   - Every other status clears the follow-up fields.
func ApplyStatusUpdate(current LeadState, upd StatusUpdate, today time.Time) (StatusOutcome, error) {
	if !ValidStatus(upd.Status) {
		return StatusOutcome{}, apperr.Validation("unrecognized status: " + string(upd.Status))
	}

	if requiresFollowUp(upd.Status) && upd.FollowUpDate == nil {
		return StatusOutcome{}, apperr.Validation("followUpDate is required for status " + string(upd.Status))
	}

	if upd.Status == StatusNotInterested && upd.Reason == "" {
		return StatusOutcome{}, apperr.Validation("reason is required for status " + string(StatusNotInterested))
	}

	out := StatusOutcome{
		Status:      upd.Status,
		DateUpdated: today,
	}

	switch {
	case requiresFollowUp(upd.Status):
		out.FollowUpDate = upd.FollowUpDate
		out.FollowUpTime = upd.FollowUpTime
		out.Rescheduled = false

	case upd.Status == StatusDidntPick:
		if current.Rescheduled {
			// Already auto-rescheduled once; do not extend again.
			out.FollowUpDate = current.FollowUpDate
			out.FollowUpTime = current.FollowUpTime
			out.Rescheduled = true
			break
		}
		next := today.AddDate(0, 0, 1)
		out.FollowUpDate = &next
		out.FollowUpTime = ""
		out.Rescheduled = true

	default:
		out.FollowUpDate = nil
		out.FollowUpTime = ""
		out.Rescheduled = false
	}

	return out, nil
}
