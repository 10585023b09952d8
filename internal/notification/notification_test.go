package notification

import (
	"context"
	"testing"
	"time"

	"leadflow_backend/internal/events"
	leadrepo "leadflow_backend/internal/leads/repository"
	memberrepo "leadflow_backend/internal/members/repository"
	membersservice "leadflow_backend/internal/members/service"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeMemberStore struct {
	members map[uuid.UUID]memberrepo.Member
}

func (f *fakeMemberStore) Create(context.Context, memberrepo.CreateMemberParams) (memberrepo.Member, error) {
	return memberrepo.Member{}, nil
}

func (f *fakeMemberStore) GetByID(_ context.Context, id uuid.UUID) (memberrepo.Member, error) {
	m, ok := f.members[id]
	if !ok {
		return memberrepo.Member{}, memberrepo.ErrNotFound
	}
	return m, nil
}

func (f *fakeMemberStore) GetByEmail(context.Context, string) (memberrepo.Member, error) {
	return memberrepo.Member{}, memberrepo.ErrNotFound
}

func (f *fakeMemberStore) List(context.Context, memberrepo.ListParams) ([]memberrepo.Member, error) {
	return nil, nil
}

func (f *fakeMemberStore) ManagedMemberIDs(context.Context, uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

func (f *fakeMemberStore) AllMemberIDs(context.Context) ([]uuid.UUID, error) {
	return nil, nil
}

func (f *fakeMemberStore) Update(context.Context, uuid.UUID, memberrepo.UpdateMemberParams) (memberrepo.Member, error) {
	return memberrepo.Member{}, nil
}

type fakeLeads struct {
	leads map[uuid.UUID]leadrepo.Lead
}

func (f *fakeLeads) GetByID(_ context.Context, id uuid.UUID) (leadrepo.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return leadrepo.Lead{}, leadrepo.ErrNotFound
	}
	return lead, nil
}

type capturingSender struct {
	to      []string
	subject []string
}

func (c *capturingSender) Send(_ context.Context, to, subject, _ string) error {
	c.to = append(c.to, to)
	c.subject = append(c.subject, subject)
	return nil
}

func date(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return &t
}

func setup() (*Module, *capturingSender, *fakeLeads, uuid.UUID) {
	ownerID := uuid.New()
	store := &fakeMemberStore{members: map[uuid.UUID]memberrepo.Member{
		ownerID: {ID: ownerID, Name: "Maya", Email: "maya@example.com", Role: "member", Status: "active"},
	}}
	leads := &fakeLeads{leads: make(map[uuid.UUID]leadrepo.Lead)}
	sender := &capturingSender{}
	log := logger.New("development")
	m := New(membersservice.New(store, log), sender, leads, log)
	return m, sender, leads, ownerID
}

func TestFollowUpDueSendsToOwner(t *testing.T) {
	m, sender, leads, ownerID := setup()

	leadID := uuid.New()
	leads.leads[leadID] = leadrepo.Lead{
		ID:           leadID,
		LeadName:     "Asha",
		AssignedTo:   &ownerID,
		Status:       "Requested Call Back",
		FollowUpDate: date("2024-01-03"),
	}

	err := m.handleFollowUpDue(context.Background(), events.LeadFollowUpDue{
		LeadID: leadID, LeadName: "Asha", OwnerID: ownerID, DueDate: "2024-01-03",
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(sender.to) != 1 || sender.to[0] != "maya@example.com" {
		t.Fatalf("sent to %v, want [maya@example.com]", sender.to)
	}
}

func TestFollowUpDueSkipsWhenFollowUpMoved(t *testing.T) {
	m, sender, leads, ownerID := setup()

	leadID := uuid.New()
	leads.leads[leadID] = leadrepo.Lead{
		ID:           leadID,
		LeadName:     "Asha",
		AssignedTo:   &ownerID,
		Status:       "Requested Call Back",
		FollowUpDate: date("2024-01-10"),
	}

	err := m.handleFollowUpDue(context.Background(), events.LeadFollowUpDue{
		LeadID: leadID, LeadName: "Asha", OwnerID: ownerID, DueDate: "2024-01-03",
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(sender.to) != 0 {
		t.Fatalf("sent %v, want no mail", sender.to)
	}
}

func TestFollowUpDueSkipsDeletedLead(t *testing.T) {
	m, sender, _, ownerID := setup()

	err := m.handleFollowUpDue(context.Background(), events.LeadFollowUpDue{
		LeadID: uuid.New(), LeadName: "Asha", OwnerID: ownerID, DueDate: "2024-01-03",
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(sender.to) != 0 {
		t.Fatalf("sent %v, want no mail", sender.to)
	}
}
