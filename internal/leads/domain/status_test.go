package domain

import (
	"testing"
	"time"

	"leadflow_backend/platform/apperr"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestContacted(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusPending, false},
		{StatusNotInterested, true},
		{StatusDidntPick, true},
		{StatusInterested, true},
		{StatusRequestedCallBack, true},
		{StatusConverted, true},
		{StatusUnassigned, true},
	}

	for _, tt := range tests {
		if got := Contacted(tt.status); got != tt.want {
			t.Errorf("Contacted(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusNotInterested, StatusDidntPick, StatusInterested, StatusRequestedCallBack, StatusConverted} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false, want true", s)
		}
	}
	for _, s := range []Status{StatusUnassigned, Status("Assigned"), Status("pending"), Status("")} {
		if ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = true, want false", s)
		}
	}
}

func TestApplyStatusUpdateRequiredFields(t *testing.T) {
	today := date(2024, time.January, 2)
	followUp := date(2024, time.January, 5)

	tests := []struct {
		name    string
		upd     StatusUpdate
		wantErr bool
	}{
		{
			name:    "interested without follow-up date",
			upd:     StatusUpdate{Status: StatusInterested},
			wantErr: true,
		},
		{
			name:    "requested call back without follow-up date",
			upd:     StatusUpdate{Status: StatusRequestedCallBack},
			wantErr: true,
		},
		{
			name:    "not interested without reason",
			upd:     StatusUpdate{Status: StatusNotInterested},
			wantErr: true,
		},
		{
			name:    "unassigned is not selectable",
			upd:     StatusUpdate{Status: StatusUnassigned},
			wantErr: true,
		},
		{
			name: "interested with follow-up date",
			upd:  StatusUpdate{Status: StatusInterested, FollowUpDate: &followUp},
		},
		{
			name: "not interested with reason",
			upd:  StatusUpdate{Status: StatusNotInterested, Reason: "budget"},
		},
		{
			name: "converted needs nothing extra",
			upd:  StatusUpdate{Status: StatusConverted},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ApplyStatusUpdate(LeadState{Status: StatusPending}, tt.upd, today)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !apperr.Is(err, apperr.KindValidation) {
					t.Errorf("error kind = %v, want KindValidation", apperr.GetKind(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestApplyStatusUpdateFollowUpFields(t *testing.T) {
	today := date(2024, time.January, 2)
	followUp := date(2024, time.January, 10)

	out, err := ApplyStatusUpdate(LeadState{Status: StatusPending}, StatusUpdate{
		Status:       StatusRequestedCallBack,
		FollowUpDate: &followUp,
		FollowUpTime: "14:30",
	}, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.FollowUpDate == nil || !out.FollowUpDate.Equal(followUp) {
		t.Errorf("FollowUpDate = %v, want %v", out.FollowUpDate, followUp)
	}
	if out.FollowUpTime != "14:30" {
		t.Errorf("FollowUpTime = %q, want %q", out.FollowUpTime, "14:30")
	}
	if !out.DateUpdated.Equal(today) {
		t.Errorf("DateUpdated = %v, want %v", out.DateUpdated, today)
	}

	// Any other status clears the follow-up fields.
	out, err = ApplyStatusUpdate(LeadState{
		Status:       StatusRequestedCallBack,
		FollowUpDate: &followUp,
		FollowUpTime: "14:30",
	}, StatusUpdate{Status: StatusConverted}, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.FollowUpDate != nil || out.FollowUpTime != "" {
		t.Errorf("follow-up not cleared: date=%v time=%q", out.FollowUpDate, out.FollowUpTime)
	}
	if out.Rescheduled {
		t.Error("Rescheduled = true, want false")
	}
}

func TestApplyStatusUpdateDidntPickReschedulesOnce(t *testing.T) {
	today := date(2024, time.January, 2)
	tomorrow := date(2024, time.January, 3)

	// First unanswered call schedules a follow-up for the next day.
	out, err := ApplyStatusUpdate(LeadState{Status: StatusPending}, StatusUpdate{Status: StatusDidntPick}, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.FollowUpDate == nil || !out.FollowUpDate.Equal(tomorrow) {
		t.Errorf("FollowUpDate = %v, want %v", out.FollowUpDate, tomorrow)
	}
	if !out.Rescheduled {
		t.Error("Rescheduled = false, want true")
	}

	// Second unanswered call a day later must not extend the follow-up.
	later := date(2024, time.January, 4)
	out2, err := ApplyStatusUpdate(LeadState{
		Status:       StatusDidntPick,
		Rescheduled:  true,
		FollowUpDate: out.FollowUpDate,
	}, StatusUpdate{Status: StatusDidntPick}, later)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out2.FollowUpDate == nil || !out2.FollowUpDate.Equal(tomorrow) {
		t.Errorf("FollowUpDate = %v, want unchanged %v", out2.FollowUpDate, tomorrow)
	}
	if !out2.Rescheduled {
		t.Error("Rescheduled = false, want true")
	}
	if !out2.DateUpdated.Equal(later) {
		t.Errorf("DateUpdated = %v, want %v", out2.DateUpdated, later)
	}

	// A follow-up status resets the flag so a later Didn't Pick reschedules again.
	followUp := date(2024, time.January, 8)
	out3, err := ApplyStatusUpdate(LeadState{Status: StatusDidntPick, Rescheduled: true}, StatusUpdate{
		Status:       StatusInterested,
		FollowUpDate: &followUp,
	}, later)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out3.Rescheduled {
		t.Error("Rescheduled = true after Interested, want false")
	}
}
