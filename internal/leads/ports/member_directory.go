// Package ports defines the interfaces the leads domain requires from other
// parts of the system. These form an anti-corruption layer: the leads domain
// only knows about the data it needs, shaped the way it wants.
package ports

import (
	"context"

	"github.com/google/uuid"
)

// Member is the member information the leads domain needs.
type Member struct {
	ID     uuid.UUID
	Name   string
	Email  string
	Role   string
	Active bool
}

// MemberDirectory resolves member identities and assignment scope. The
// implementation is provided by the composition root and wraps the members
// service, so the leads domain never imports it directly.
type MemberDirectory interface {
	// GetMemberByID returns member information for the given id.
	GetMemberByID(ctx context.Context, id uuid.UUID) (Member, error)

	// VisibleMemberIDs returns the member ids whose leads the given actor
	// may see: admins see everyone, managers see themselves plus their
	// members, members see only themselves.
	VisibleMemberIDs(ctx context.Context, actorID uuid.UUID) ([]uuid.UUID, error)
}
