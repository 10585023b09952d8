package reports

import (
	"context"
	"testing"
	"time"

	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeFactSource struct {
	byMember map[uuid.UUID][]LeadFact
}

func (f *fakeFactSource) FactsForMembers(_ context.Context, ids []uuid.UUID) ([]LeadFact, error) {
	out := make([]LeadFact, 0)
	for _, id := range ids {
		out = append(out, f.byMember[id]...)
	}
	return out, nil
}

func (f *fakeFactSource) AllFacts(_ context.Context) ([]LeadFact, error) {
	out := make([]LeadFact, 0)
	for _, facts := range f.byMember {
		out = append(out, facts...)
	}
	return out, nil
}

type fakeTeam struct {
	members []TeamMember
}

func (f *fakeTeam) ActiveTeam(_ context.Context, _ uuid.UUID) ([]TeamMember, error) {
	return f.members, nil
}

func TestTeamReportAggregatesActiveTeamOnly(t *testing.T) {
	m1, m2, inactive := uuid.New(), uuid.New(), uuid.New()
	touched := time.Date(2024, time.January, 2, 10, 0, 0, 0, time.UTC)

	facts := &fakeFactSource{byMember: map[uuid.UUID][]LeadFact{
		m1:       {{Status: "Converted", AssignedTo: &m1, AssignedToName: "Agent One", LastTouched: touched}},
		m2:       {{Status: "Pending", AssignedTo: &m2, AssignedToName: "Agent Two", LastTouched: touched}},
		inactive: {{Status: "Converted", AssignedTo: &inactive, AssignedToName: "Gone", LastTouched: touched}},
	}}

	// The team provider already excludes the inactive member.
	team := &fakeTeam{members: []TeamMember{
		{ID: m1, Name: "Agent One"},
		{ID: m2, Name: "Agent Two"},
	}}

	svc := NewService(facts, team, logger.New("development"))

	report, err := svc.TeamReport(context.Background(), uuid.New(), nil, nil)
	if err != nil {
		t.Fatalf("team report: %v", err)
	}

	if report.Overall.Total != 2 {
		t.Errorf("total = %d, want 2 (inactive member's lead excluded)", report.Overall.Total)
	}
	for _, b := range report.Buckets {
		if b.Label == "Gone" {
			t.Error("inactive member appeared in team rollup")
		}
	}
}

func TestMemberReportGroupsByDay(t *testing.T) {
	m1 := uuid.New()
	facts := &fakeFactSource{byMember: map[uuid.UUID][]LeadFact{
		m1: {
			{Status: "Interested", AssignedTo: &m1, AssignedToName: "Agent One", LastTouched: time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)},
			{Status: "Converted", AssignedTo: &m1, AssignedToName: "Agent One", LastTouched: time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)},
		},
	}}

	svc := NewService(facts, &fakeTeam{}, logger.New("development"))

	report, err := svc.MemberReport(context.Background(), m1, nil, nil)
	if err != nil {
		t.Fatalf("member report: %v", err)
	}

	if report.GroupBy != GroupByDay {
		t.Errorf("groupBy = %q, want day", report.GroupBy)
	}
	if len(report.Buckets) != 2 {
		t.Fatalf("buckets = %d, want 2 days", len(report.Buckets))
	}
	if report.Buckets[0].Key != "2024-01-02" || report.Buckets[1].Key != "2024-01-03" {
		t.Errorf("bucket keys = %q, %q; want sorted days", report.Buckets[0].Key, report.Buckets[1].Key)
	}
}
