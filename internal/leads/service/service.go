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
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/phone"

	"github.com/google/uuid"
)

// Actor identifies who performs an operation. It is passed explicitly into
// every call and stamped onto the notes it produces; there is no ambient
// current-user state.
type Actor struct {
	ID   uuid.UUID
	Name string
}

// Store is the persistence surface the service depends on.
// *repository.Repository satisfies it.
type Store interface {
	Create(ctx context.Context, params repository.CreateLeadParams) (repository.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	GetByPhone(ctx context.Context, phone string) (repository.Lead, error)
	List(ctx context.Context, params repository.ListParams) ([]repository.Lead, error)
	UpdateStatus(ctx context.Context, params repository.UpdateStatusParams) (repository.Lead, error)
	Reassign(ctx context.Context, id uuid.UUID, params repository.ReassignParams) (repository.Lead, error)
	BulkReassign(ctx context.Context, ids []uuid.UUID, params repository.ReassignParams) ([]repository.Lead, error)
	Unassign(ctx context.Context, ids []uuid.UUID, updatedBy string) error
	RefreshOwnerName(ctx context.Context, id uuid.UUID, name string) error
	Delete(ctx context.Context, ids []uuid.UUID) (int64, error)
	ExistingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error)
	AppendNote(ctx context.Context, leadID uuid.UUID, params repository.AppendNoteParams) (repository.Note, error)
	ListNotes(ctx context.Context, leadID uuid.UUID) ([]repository.Note, error)
	CountNotes(ctx context.Context, leadIDs []uuid.UUID) (map[uuid.UUID]int, error)
}

type Service struct {
	store     Store
	members   ports.MemberDirectory
	scheduler ports.FollowUpScheduler
	bus       events.Bus
	log       *logger.Logger

	// now is replaceable in tests; all date math runs off it.
	now func() time.Time
}

func New(store Store, members ports.MemberDirectory, scheduler ports.FollowUpScheduler, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		store:     store,
		members:   members,
		scheduler: scheduler,
		bus:       bus,
		log:       log,
		now:       time.Now,
	}
}

// today returns the current calendar date with the time stripped.
func (s *Service) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Create normalizes the phone, rejects duplicates, and stores the lead with
// status Pending and a single initial note.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest, actor Actor) (transport.LeadResponse, error) {
	normalized := phone.Normalize(req.Phone)
	if !phone.IsPlausible(normalized) {
		return transport.LeadResponse{}, apperr.Validation("phone must normalize to a valid 10-digit number")
	}

	if ownerName, exists, err := s.findDuplicate(ctx, normalized); err != nil {
		return transport.LeadResponse{}, err
	} else if exists {
		return transport.LeadResponse{}, apperr.DuplicateLead(ownerName)
	}

	params := repository.CreateLeadParams{
		LeadName: req.LeadName,
		Phone:    normalized,
		Status:   "Pending",
	}

	if req.AssigneeID.Set && req.AssigneeID.Value != nil {
		params.NoteText = "Lead assigned by " + actor.Name
		params.NoteStatus = "Assigned"
		params.NoteUpdatedBy = actor.Name

		member, err := s.members.GetMemberByID(ctx, *req.AssigneeID.Value)
		if err != nil {
			return transport.LeadResponse{}, apperr.NotFound("assignee not found")
		}
		params.AssignedTo = &member.ID
		params.AssignedToName = member.Name

		assigned := s.today()
		if req.DateAssigned != "" {
			parsed, err := time.Parse(transport.DateLayout, req.DateAssigned)
			if err != nil {
				return transport.LeadResponse{}, apperr.Validation("invalid dateAssigned")
			}
			assigned = parsed
		}
		params.DateAssigned = &assigned
	}

	lead, err := s.store.Create(ctx, params)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     lead.ID,
		Name:       lead.LeadName,
		Phone:      lead.Phone,
		AssignedTo: lead.AssignedTo,
		CreatedBy:  actor.ID,
	})

	return toLeadResponse(lead, nil), nil
}

// findDuplicate looks up a lead under the canonical phone, regardless of its
// status. A blank cached owner name is resolved lazily through the member
// directory; the denormalized field is a cache, not ground truth.
func (s *Service) findDuplicate(ctx context.Context, normalizedPhone string) (ownerName string, exists bool, err error) {
	existing, err := s.store.GetByPhone(ctx, normalizedPhone)
	if errors.Is(err, repository.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	ownerName = existing.AssignedToName
	if ownerName == "" && existing.AssignedTo != nil {
		if member, mErr := s.members.GetMemberByID(ctx, *existing.AssignedTo); mErr == nil {
			ownerName = member.Name
			// Refresh the cached name so the next lookup skips the directory.
			if wErr := s.store.RefreshOwnerName(ctx, existing.ID, ownerName); wErr != nil {
				s.log.Warn("owner name cache refresh failed", "leadId", existing.ID, "error", wErr)
			}
		}
	}

	return ownerName, true, nil
}

// CheckDuplicate is the standalone duplicate probe used by import tooling.
func (s *Service) CheckDuplicate(ctx context.Context, rawPhone string) (transport.DuplicateCheckResponse, error) {
	normalized := phone.Normalize(rawPhone)
	ownerName, exists, err := s.findDuplicate(ctx, normalized)
	if err != nil {
		return transport.DuplicateCheckResponse{}, err
	}
	return transport.DuplicateCheckResponse{
		Phone:     normalized,
		Exists:    exists,
		OwnerName: ownerName,
	}, nil
}

// GetByID returns the lead with its full note trail.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}

	notes, err := s.store.ListNotes(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	return toLeadResponse(lead, notes), nil
}

// ListParams filter a lead listing from the caller's point of view.
type ListParams struct {
	Status       string
	Unassigned   bool
	Search       string
	AssignedFrom *time.Time
	AssignedUpTo *time.Time
	SortBy       string
	SortAsc      bool
	Limit        int
	Offset       int
}

// List returns the leads the actor may see: admins see all, managers see
// their team's, members see their own. The unassigned pool is visible to
// every caller since those leads have no owner to scope by.
func (s *Service) List(ctx context.Context, actor Actor, params ListParams) (transport.LeadListResponse, error) {
	repoParams := repository.ListParams{
		Status:       params.Status,
		Search:       params.Search,
		AssignedFrom: params.AssignedFrom,
		AssignedUpTo: params.AssignedUpTo,
		SortBy:       params.SortBy,
		SortAsc:      params.SortAsc,
		Limit:        params.Limit,
		Offset:       params.Offset,
	}

	if params.Unassigned {
		repoParams.Unassigned = true
	} else {
		visible, err := s.members.VisibleMemberIDs(ctx, actor.ID)
		if err != nil {
			return transport.LeadListResponse{}, err
		}
		repoParams.AssignedTo = visible
	}

	leads, err := s.store.List(ctx, repoParams)
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	ids := make([]uuid.UUID, 0, len(leads))
	for _, lead := range leads {
		ids = append(ids, lead.ID)
	}
	counts, err := s.store.CountNotes(ctx, ids)
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	resp := transport.LeadListResponse{
		Leads: make([]transport.LeadResponse, 0, len(leads)),
		Total: len(leads),
	}
	for _, lead := range leads {
		item := toLeadResponse(lead, nil)
		item.NoteCount = counts[lead.ID]
		resp.Leads = append(resp.Leads, item)
	}

	return resp, nil
}

func toLeadResponse(lead repository.Lead, notes []repository.Note) transport.LeadResponse {
	resp := transport.LeadResponse{
		ID:             lead.ID,
		LeadName:       lead.LeadName,
		Phone:          lead.Phone,
		AssignedTo:     lead.AssignedTo,
		AssignedToName: lead.AssignedToName,
		DateAssigned:   formatDate(lead.DateAssigned),
		Status:         lead.Status,
		FollowUpDate:   formatDate(lead.FollowUpDate),
		FollowUpTime:   lead.FollowUpTime,
		Rescheduled:    lead.Rescheduled,
		DateUpdated:    formatDate(lead.DateUpdated),
		CreatedAt:      lead.CreatedAt,
		UpdatedAt:      lead.UpdatedAt,
		NoteCount:      len(notes),
	}

	for _, note := range notes {
		resp.Notes = append(resp.Notes, toNoteResponse(note))
	}

	return resp
}

func toNoteResponse(note repository.Note) transport.NoteResponse {
	return transport.NoteResponse{
		ID:           note.ID,
		Text:         note.Text,
		Status:       note.Status,
		FollowUpDate: formatDate(note.FollowUpDate),
		FollowUpTime: note.FollowUpTime,
		UpdatedBy:    note.UpdatedBy,
		Reason:       note.Reason,
		Date:         note.CreatedAt,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(transport.DateLayout)
	return &s
}
