package service

import (
	"context"
	"errors"

	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/apperr"

	"github.com/google/uuid"
)

// AddNote appends a free-standing note to a lead's audit trail. The note
// carries the lead's current status for historical display.
func (s *Service) AddNote(ctx context.Context, leadID uuid.UUID, req transport.AddNoteRequest, actor Actor) (transport.NoteResponse, error) {
	lead, err := s.store.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.NoteResponse{}, apperr.NotFound("lead not found")
		}
		return transport.NoteResponse{}, err
	}

	note, err := s.store.AppendNote(ctx, leadID, repository.AppendNoteParams{
		Text:      req.Text,
		Status:    lead.Status,
		UpdatedBy: actor.Name,
	})
	if err != nil {
		return transport.NoteResponse{}, err
	}

	return toNoteResponse(note), nil
}

// ListNotes returns a lead's notes in chronological order.
func (s *Service) ListNotes(ctx context.Context, leadID uuid.UUID) ([]transport.NoteResponse, error) {
	if _, err := s.store.GetByID(ctx, leadID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("lead not found")
		}
		return nil, err
	}

	notes, err := s.store.ListNotes(ctx, leadID)
	if err != nil {
		return nil, err
	}

	resp := make([]transport.NoteResponse, 0, len(notes))
	for _, note := range notes {
		resp = append(resp, toNoteResponse(note))
	}

	return resp, nil
}
