package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"leadflow_backend/internal/leads/ports"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/apperr"
	platformevents "leadflow_backend/platform/events"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

// fakeStore is an in-memory Store. Batch operations mirror the real
// repository's all-or-nothing behavior.
type fakeStore struct {
	leads map[uuid.UUID]repository.Lead
	notes map[uuid.UUID][]repository.Note
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		leads: make(map[uuid.UUID]repository.Lead),
		notes: make(map[uuid.UUID][]repository.Note),
	}
}

func (f *fakeStore) addNote(leadID uuid.UUID, params repository.AppendNoteParams) repository.Note {
	note := repository.Note{
		ID:           uuid.New(),
		LeadID:       leadID,
		Text:         params.Text,
		Status:       params.Status,
		FollowUpDate: params.FollowUpDate,
		FollowUpTime: params.FollowUpTime,
		UpdatedBy:    params.UpdatedBy,
		Reason:       params.Reason,
		CreatedAt:    time.Now(),
	}
	f.notes[leadID] = append(f.notes[leadID], note)
	return note
}

func (f *fakeStore) Create(_ context.Context, params repository.CreateLeadParams) (repository.Lead, error) {
	lead := repository.Lead{
		ID:             uuid.New(),
		LeadName:       params.LeadName,
		Phone:          params.Phone,
		AssignedTo:     params.AssignedTo,
		AssignedToName: params.AssignedToName,
		DateAssigned:   params.DateAssigned,
		Status:         params.Status,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	f.leads[lead.ID] = lead
	if params.NoteStatus != "" {
		f.addNote(lead.ID, repository.AppendNoteParams{
			Text:      params.NoteText,
			Status:    params.NoteStatus,
			UpdatedBy: params.NoteUpdatedBy,
		})
	}
	return lead, nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (f *fakeStore) GetByPhone(_ context.Context, phone string) (repository.Lead, error) {
	for _, lead := range f.leads {
		if lead.Phone == phone {
			return lead, nil
		}
	}
	return repository.Lead{}, repository.ErrNotFound
}

func (f *fakeStore) List(_ context.Context, params repository.ListParams) ([]repository.Lead, error) {
	out := make([]repository.Lead, 0)
	for _, lead := range f.leads {
		if params.Unassigned && lead.AssignedTo != nil {
			continue
		}
		if len(params.AssignedTo) > 0 {
			match := false
			for _, id := range params.AssignedTo {
				if lead.AssignedTo != nil && *lead.AssignedTo == id {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		if params.Status != "" && lead.Status != params.Status {
			continue
		}
		out = append(out, lead)
	}
	return out, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, params repository.UpdateStatusParams) (repository.Lead, error) {
	lead, ok := f.leads[params.ID]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	lead.Status = params.Status
	lead.FollowUpDate = params.FollowUpDate
	lead.FollowUpTime = params.FollowUpTime
	lead.Rescheduled = params.Rescheduled
	lead.DateUpdated = &params.DateUpdated
	f.leads[params.ID] = lead
	f.addNote(params.ID, params.Note)
	return lead, nil
}

func (f *fakeStore) reassign(id uuid.UUID, params repository.ReassignParams) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	assignee := params.AssignedTo
	lead.AssignedTo = &assignee
	lead.AssignedToName = params.AssignedToName
	lead.DateAssigned = &params.DateAssigned
	lead.Status = "Pending"
	lead.FollowUpDate = nil
	lead.FollowUpTime = ""
	lead.Rescheduled = false
	f.leads[id] = lead
	f.addNote(id, repository.AppendNoteParams{
		Text:      params.NoteText,
		Status:    "Assigned",
		UpdatedBy: params.UpdatedBy,
	})
	return lead, nil
}

func (f *fakeStore) Reassign(_ context.Context, id uuid.UUID, params repository.ReassignParams) (repository.Lead, error) {
	return f.reassign(id, params)
}

func (f *fakeStore) BulkReassign(_ context.Context, ids []uuid.UUID, params repository.ReassignParams) ([]repository.Lead, error) {
	out := make([]repository.Lead, 0, len(ids))
	for _, id := range ids {
		lead, err := f.reassign(id, params)
		if err != nil {
			return nil, err
		}
		out = append(out, lead)
	}
	return out, nil
}

func (f *fakeStore) Unassign(_ context.Context, ids []uuid.UUID, updatedBy string) error {
	for _, id := range ids {
		lead, ok := f.leads[id]
		if !ok {
			return repository.ErrNotFound
		}
		lead.AssignedTo = nil
		lead.AssignedToName = ""
		lead.DateAssigned = nil
		lead.Status = "Unassigned"
		lead.FollowUpDate = nil
		lead.FollowUpTime = ""
		lead.Rescheduled = false
		f.leads[id] = lead
		f.addNote(id, repository.AppendNoteParams{
			Text:      "Lead unassigned by " + updatedBy,
			Status:    "Unassigned",
			UpdatedBy: updatedBy,
		})
	}
	return nil
}

func (f *fakeStore) Delete(_ context.Context, ids []uuid.UUID) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := f.leads[id]; ok {
			delete(f.leads, id)
			delete(f.notes, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) ExistingIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	found := make(map[uuid.UUID]bool)
	for _, id := range ids {
		if _, ok := f.leads[id]; ok {
			found[id] = true
		}
	}
	return found, nil
}

func (f *fakeStore) AppendNote(_ context.Context, leadID uuid.UUID, params repository.AppendNoteParams) (repository.Note, error) {
	if _, ok := f.leads[leadID]; !ok {
		return repository.Note{}, repository.ErrNotFound
	}
	return f.addNote(leadID, params), nil
}

func (f *fakeStore) ListNotes(_ context.Context, leadID uuid.UUID) ([]repository.Note, error) {
	return f.notes[leadID], nil
}

func (f *fakeStore) CountNotes(_ context.Context, leadIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(leadIDs))
	for _, id := range leadIDs {
		if n := len(f.notes[id]); n > 0 {
			counts[id] = n
		}
	}
	return counts, nil
}

func (f *fakeStore) RefreshOwnerName(_ context.Context, id uuid.UUID, name string) error {
	lead, ok := f.leads[id]
	if !ok {
		return repository.ErrNotFound
	}
	lead.AssignedToName = name
	f.leads[id] = lead
	return nil
}

// fakeDirectory serves a fixed member set.
type fakeDirectory struct {
	members map[uuid.UUID]ports.Member
}

var errMemberNotFound = errors.New("member not found")

func (f *fakeDirectory) GetMemberByID(_ context.Context, id uuid.UUID) (ports.Member, error) {
	member, ok := f.members[id]
	if !ok {
		return ports.Member{}, errMemberNotFound
	}
	return member, nil
}

func (f *fakeDirectory) VisibleMemberIDs(_ context.Context, actorID uuid.UUID) ([]uuid.UUID, error) {
	return []uuid.UUID{actorID}, nil
}

type nopScheduler struct{}

func (nopScheduler) ScheduleFollowUpReminder(context.Context, uuid.UUID, string, uuid.UUID, time.Time) error {
	return nil
}

func newTestService(t *testing.T, store *fakeStore, dir *fakeDirectory, today time.Time) *Service {
	t.Helper()
	log := logger.New("development")
	svc := New(store, dir, nopScheduler{}, platformevents.NewInMemoryBus(log), log)
	svc.now = func() time.Time { return today }
	return svc
}

func TestCreateRejectsDuplicateWithoutMutation(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	ownerID := uuid.New()
	dir := &fakeDirectory{members: map[uuid.UUID]ports.Member{
		ownerID: {ID: ownerID, Name: "Maya", Role: "member", Active: true},
	}}
	svc := newTestService(t, store, dir, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	admin := Actor{ID: uuid.New(), Name: "Admin"}

	first, err := svc.Create(ctx, transport.CreateLeadRequest{
		LeadName: "Asha",
		Phone:    "+91 98765 43210",
	}, admin)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.Phone != "9876543210" {
		t.Errorf("phone = %q, want %q", first.Phone, "9876543210")
	}
	if first.Status != "Pending" {
		t.Errorf("status = %q, want Pending", first.Status)
	}

	// A differently formatted duplicate must be rejected without touching the store.
	_, err = svc.Create(ctx, transport.CreateLeadRequest{
		LeadName: "Asha Again",
		Phone:    "098765-43210",
	}, admin)
	if err == nil {
		t.Fatal("expected duplicate error, got nil")
	}
	if !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("error kind = %v, want KindConflict", apperr.GetKind(err))
	}
	if len(store.leads) != 1 {
		t.Errorf("store has %d leads after rejected duplicate, want 1", len(store.leads))
	}
}

func TestCreateResolvesStaleOwnerNameLazily(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	ownerID := uuid.New()
	dir := &fakeDirectory{members: map[uuid.UUID]ports.Member{
		ownerID: {ID: ownerID, Name: "Maya", Role: "member", Active: true},
	}}
	svc := newTestService(t, store, dir, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))

	// Seed a lead whose cached owner name is blank.
	lead := repository.Lead{ID: uuid.New(), Phone: "9876543210", AssignedTo: &ownerID, Status: "Pending"}
	store.leads[lead.ID] = lead

	_, err := svc.Create(ctx, transport.CreateLeadRequest{
		LeadName: "Dup",
		Phone:    "9876543210",
	}, Actor{ID: uuid.New(), Name: "Admin"})
	if err == nil {
		t.Fatal("expected duplicate error, got nil")
	}

	appErr, ok := err.(*apperr.Error)
	if !ok {
		t.Fatalf("error type = %T, want *apperr.Error", err)
	}
	details, ok := appErr.Details.(map[string]string)
	if !ok {
		t.Fatalf("details type = %T, want map[string]string", appErr.Details)
	}
	if details["ownerName"] != "Maya" {
		t.Errorf("ownerName = %q, want %q (resolved via directory)", details["ownerName"], "Maya")
	}

	// The resolution heals the cached name so the next lookup skips the directory.
	if got := store.leads[lead.ID].AssignedToName; got != "Maya" {
		t.Errorf("cached owner name = %q, want %q after refresh", got, "Maya")
	}
}

func TestUpdateStatusInterestedRequiresFollowUp(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	dir := &fakeDirectory{members: map[uuid.UUID]ports.Member{}}
	svc := newTestService(t, store, dir, time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC))
	actor := Actor{ID: uuid.New(), Name: "Maya"}

	created, err := svc.Create(ctx, transport.CreateLeadRequest{LeadName: "Ravi", Phone: "9123456780"}, actor)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.UpdateStatus(ctx, created.ID, transport.UpdateStatusRequest{Status: "Interested"}, actor)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("error = %v, want validation error", err)
	}
	if store.leads[created.ID].Status != "Pending" {
		t.Errorf("status mutated to %q on failed validation", store.leads[created.ID].Status)
	}
	if len(store.notes[created.ID]) != 0 {
		t.Errorf("notes = %d after failed validation, want 0", len(store.notes[created.ID]))
	}

	updated, err := svc.UpdateStatus(ctx, created.ID, transport.UpdateStatusRequest{
		Status:       "Interested",
		FollowUpDate: "2024-01-05",
		NoteText:     "wants a callback",
	}, actor)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.FollowUpDate == nil || *updated.FollowUpDate != "2024-01-05" {
		t.Errorf("followUpDate = %v, want 2024-01-05", updated.FollowUpDate)
	}
	if len(store.notes[created.ID]) != 1 {
		t.Errorf("notes = %d, want 1", len(store.notes[created.ID]))
	}
}

func TestUpdateStatusDidntPickAutoReschedule(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	dir := &fakeDirectory{members: map[uuid.UUID]ports.Member{}}
	today := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	svc := newTestService(t, store, dir, today)
	actor := Actor{ID: uuid.New(), Name: "Maya"}

	created, err := svc.Create(ctx, transport.CreateLeadRequest{LeadName: "Ravi", Phone: "9123456780"}, actor)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := svc.UpdateStatus(ctx, created.ID, transport.UpdateStatusRequest{Status: "Didn't Pick"}, actor)
	if err != nil {
		t.Fatalf("first update: %v", err)
	}
	if first.FollowUpDate == nil || *first.FollowUpDate != "2024-01-03" {
		t.Errorf("followUpDate = %v, want 2024-01-03", first.FollowUpDate)
	}
	if !first.Rescheduled {
		t.Error("rescheduled = false, want true")
	}

	// A second Didn't Pick two days later must not extend the follow-up.
	svc.now = func() time.Time { return time.Date(2024, 1, 4, 9, 0, 0, 0, time.UTC) }
	second, err := svc.UpdateStatus(ctx, created.ID, transport.UpdateStatusRequest{Status: "Didn't Pick"}, actor)
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if second.FollowUpDate == nil || *second.FollowUpDate != "2024-01-03" {
		t.Errorf("followUpDate = %v, want unchanged 2024-01-03", second.FollowUpDate)
	}
}

func TestBulkReassignUnknownIDFailsBeforeWrite(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	memberID := uuid.New()
	dir := &fakeDirectory{members: map[uuid.UUID]ports.Member{
		memberID: {ID: memberID, Name: "Maya", Role: "member", Active: true},
	}}
	svc := newTestService(t, store, dir, time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC))
	actor := Actor{ID: uuid.New(), Name: "Manager"}

	created, err := svc.Create(ctx, transport.CreateLeadRequest{LeadName: "Ravi", Phone: "9123456780"}, actor)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.BulkReassign(ctx, transport.BulkReassignRequest{
		LeadIDs:      []uuid.UUID{created.ID, uuid.New()},
		AssigneeID:   memberID,
		DateAssigned: "2024-01-05",
	}, actor)
	if err == nil {
		t.Fatal("expected error for unknown id, got nil")
	}
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("error kind = %v, want KindValidation", apperr.GetKind(err))
	}

	// The known lead must be untouched.
	if got := store.leads[created.ID]; got.AssignedTo != nil {
		t.Errorf("lead was reassigned despite aborted batch: %v", got.AssignedTo)
	}
}

// TestLeadLifecycle walks a lead from creation through assignment, a status
// update with follow-up, and a bulk reassignment to a second agent.
func TestLeadLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	m1, m2 := uuid.New(), uuid.New()
	dir := &fakeDirectory{members: map[uuid.UUID]ports.Member{
		m1: {ID: m1, Name: "Agent One", Role: "member", Active: true},
		m2: {ID: m2, Name: "Agent Two", Role: "member", Active: true},
	}}
	svc := newTestService(t, store, dir, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	manager := Actor{ID: uuid.New(), Name: "Manager"}

	created, err := svc.Create(ctx, transport.CreateLeadRequest{
		LeadName: "Asha",
		Phone:    "+91-98765-43210",
	}, manager)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Phone != "9876543210" {
		t.Fatalf("phone = %q, want 9876543210", created.Phone)
	}
	if created.AssignedTo != nil {
		t.Fatal("lead should start unassigned")
	}

	assigned, err := svc.Reassign(ctx, created.ID, transport.ReassignRequest{
		AssigneeID:   m1,
		DateAssigned: "2024-01-01",
	}, manager)
	if err != nil {
		t.Fatalf("reassign: %v", err)
	}
	if assigned.Status != "Pending" {
		t.Errorf("status = %q, want Pending", assigned.Status)
	}
	if assigned.AssignedToName != "Agent One" {
		t.Errorf("assignedToName = %q, want Agent One", assigned.AssignedToName)
	}

	svc.now = func() time.Time { return time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC) }
	updated, err := svc.UpdateStatus(ctx, created.ID, transport.UpdateStatusRequest{
		Status:       "Requested Call Back",
		FollowUpDate: "2024-01-03",
		NoteText:     "call after lunch",
	}, Actor{ID: m1, Name: "Agent One"})
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != "Requested Call Back" {
		t.Errorf("status = %q, want Requested Call Back", updated.Status)
	}
	if updated.FollowUpDate == nil || *updated.FollowUpDate != "2024-01-03" {
		t.Errorf("followUpDate = %v, want 2024-01-03", updated.FollowUpDate)
	}
	if len(store.notes[created.ID]) != 2 {
		t.Errorf("notes = %d, want 2 (assignment + status)", len(store.notes[created.ID]))
	}

	svc.now = func() time.Time { return time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC) }
	batch, err := svc.BulkReassign(ctx, transport.BulkReassignRequest{
		LeadIDs:      []uuid.UUID{created.ID},
		AssigneeID:   m2,
		DateAssigned: "2024-01-05",
	}, manager)
	if err != nil {
		t.Fatalf("bulk reassign: %v", err)
	}
	if len(batch.Results) != 1 || !batch.Results[0].OK {
		t.Fatalf("batch results = %+v, want single OK", batch.Results)
	}

	final, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if final.Status != "Pending" {
		t.Errorf("status after reassignment = %q, want Pending", final.Status)
	}
	if final.FollowUpDate != nil {
		t.Errorf("followUpDate = %v, want cleared", final.FollowUpDate)
	}
	if final.AssignedTo == nil || *final.AssignedTo != m2 {
		t.Errorf("assignedTo = %v, want %v", final.AssignedTo, m2)
	}
	if len(final.Notes) != 3 {
		t.Errorf("notes = %d, want 3 (assign, status, reassign)", len(final.Notes))
	}
	// Prior notes carry forward unmodified.
	if final.Notes[1].Status != "Requested Call Back" {
		t.Errorf("historical note status = %q, want Requested Call Back", final.Notes[1].Status)
	}
}

func TestUnassignReturnsLeadToPool(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	memberID := uuid.New()
	dir := &fakeDirectory{members: map[uuid.UUID]ports.Member{
		memberID: {ID: memberID, Name: "Maya", Role: "member", Active: true},
	}}
	svc := newTestService(t, store, dir, time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC))
	manager := Actor{ID: uuid.New(), Name: "Manager"}

	created, err := svc.Create(ctx, transport.CreateLeadRequest{LeadName: "Asha", Phone: "9876543210"}, manager)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Reassign(ctx, created.ID, transport.ReassignRequest{
		AssigneeID:   memberID,
		DateAssigned: "2024-01-02",
	}, manager); err != nil {
		t.Fatalf("reassign: %v", err)
	}

	batch, err := svc.Unassign(ctx, transport.UnassignRequest{LeadIDs: []uuid.UUID{created.ID}}, manager)
	if err != nil {
		t.Fatalf("unassign: %v", err)
	}
	if len(batch.Results) != 1 || !batch.Results[0].OK || batch.Results[0].ID != created.ID {
		t.Fatalf("batch results = %+v, want single OK for %v", batch.Results, created.ID)
	}

	lead := store.leads[created.ID]
	if lead.AssignedTo != nil || lead.AssignedToName != "" || lead.DateAssigned != nil {
		t.Errorf("assignment fields not cleared: owner=%v name=%q date=%v",
			lead.AssignedTo, lead.AssignedToName, lead.DateAssigned)
	}
	if lead.Status != "Unassigned" {
		t.Errorf("status = %q, want Unassigned", lead.Status)
	}
	if lead.FollowUpDate != nil || lead.Rescheduled {
		t.Errorf("follow-up fields not cleared: date=%v rescheduled=%v", lead.FollowUpDate, lead.Rescheduled)
	}

	notes := store.notes[created.ID]
	if len(notes) != 2 {
		t.Fatalf("notes = %d, want 2 (assign, unassign)", len(notes))
	}
	last := notes[len(notes)-1]
	if last.Status != "Unassigned" {
		t.Errorf("unassign note status = %q, want Unassigned", last.Status)
	}
	if last.UpdatedBy != "Manager" {
		t.Errorf("unassign note updatedBy = %q, want Manager", last.UpdatedBy)
	}
}

func TestUnassignUnknownIDFailsBeforeWrite(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	memberID := uuid.New()
	dir := &fakeDirectory{members: map[uuid.UUID]ports.Member{
		memberID: {ID: memberID, Name: "Maya", Role: "member", Active: true},
	}}
	svc := newTestService(t, store, dir, time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC))
	manager := Actor{ID: uuid.New(), Name: "Manager"}

	created, err := svc.Create(ctx, transport.CreateLeadRequest{LeadName: "Asha", Phone: "9876543210"}, manager)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Reassign(ctx, created.ID, transport.ReassignRequest{
		AssigneeID:   memberID,
		DateAssigned: "2024-01-02",
	}, manager); err != nil {
		t.Fatalf("reassign: %v", err)
	}

	_, err = svc.Unassign(ctx, transport.UnassignRequest{
		LeadIDs: []uuid.UUID{created.ID, uuid.New()},
	}, manager)
	if err == nil {
		t.Fatal("expected error for unknown id, got nil")
	}
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("error kind = %v, want KindValidation", apperr.GetKind(err))
	}

	// The known lead keeps its owner.
	if got := store.leads[created.ID]; got.AssignedTo == nil || *got.AssignedTo != memberID {
		t.Errorf("lead lost its owner despite aborted batch: %v", got.AssignedTo)
	}
}

func TestDeleteRemovesLeadsWithBatchResults(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	dir := &fakeDirectory{members: map[uuid.UUID]ports.Member{}}
	svc := newTestService(t, store, dir, time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC))
	actor := Actor{ID: uuid.New(), Name: "Admin"}

	first, err := svc.Create(ctx, transport.CreateLeadRequest{LeadName: "Asha", Phone: "9876543210"}, actor)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := svc.Create(ctx, transport.CreateLeadRequest{LeadName: "Ravi", Phone: "9123456780"}, actor)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	batch, err := svc.Delete(ctx, transport.DeleteLeadsRequest{
		LeadIDs: []uuid.UUID{first.ID, second.ID},
	}, actor)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(batch.Results) != 2 {
		t.Fatalf("batch results = %d, want 2", len(batch.Results))
	}
	for _, result := range batch.Results {
		if !result.OK {
			t.Errorf("result for %v not OK: %+v", result.ID, result)
		}
	}
	if len(store.leads) != 0 {
		t.Errorf("store has %d leads after delete, want 0", len(store.leads))
	}
}

func TestDeleteUnknownIDFailsBeforeWrite(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	dir := &fakeDirectory{members: map[uuid.UUID]ports.Member{}}
	svc := newTestService(t, store, dir, time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC))
	actor := Actor{ID: uuid.New(), Name: "Admin"}

	created, err := svc.Create(ctx, transport.CreateLeadRequest{LeadName: "Asha", Phone: "9876543210"}, actor)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Delete(ctx, transport.DeleteLeadsRequest{
		LeadIDs: []uuid.UUID{created.ID, uuid.New()},
	}, actor)
	if err == nil {
		t.Fatal("expected error for unknown id, got nil")
	}
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("error kind = %v, want KindValidation", apperr.GetKind(err))
	}
	if _, ok := store.leads[created.ID]; !ok {
		t.Error("known lead was deleted despite aborted batch")
	}
}

func TestListCarriesNoteCounts(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	dir := &fakeDirectory{members: map[uuid.UUID]ports.Member{}}
	svc := newTestService(t, store, dir, time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC))
	actor := Actor{ID: uuid.New(), Name: "Maya"}

	noted, err := svc.Create(ctx, transport.CreateLeadRequest{LeadName: "Asha", Phone: "9876543210"}, actor)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	bare, err := svc.Create(ctx, transport.CreateLeadRequest{LeadName: "Ravi", Phone: "9123456780"}, actor)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, noted.ID, transport.UpdateStatusRequest{
		Status:   "Not Interested",
		Reason:   "budget",
		NoteText: "asked not to call again",
	}, actor); err != nil {
		t.Fatalf("update: %v", err)
	}

	resp, err := svc.List(ctx, actor, ListParams{Unassigned: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("total = %d, want 2", resp.Total)
	}
	counts := make(map[uuid.UUID]int, len(resp.Leads))
	for _, lead := range resp.Leads {
		counts[lead.ID] = lead.NoteCount
	}
	if counts[noted.ID] != 1 {
		t.Errorf("noteCount = %d for lead with a note, want 1", counts[noted.ID])
	}
	if counts[bare.ID] != 0 {
		t.Errorf("noteCount = %d for lead without notes, want 0", counts[bare.ID])
	}
}
