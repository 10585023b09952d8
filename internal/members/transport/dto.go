package transport

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleMember  Role = "member"
)

type MemberStatus string

const (
	MemberStatusActive   MemberStatus = "active"
	MemberStatusInactive MemberStatus = "inactive"
)

type CreateMemberRequest struct {
	ID        uuid.UUID  `json:"id" validate:"required"`
	Name      string     `json:"name" validate:"required,min=1,max=200"`
	Email     string     `json:"email" validate:"required,email"`
	Role      Role       `json:"role" validate:"required,oneof=admin manager member"`
	ManagerID *uuid.UUID `json:"managerId,omitempty" validate:"-"`
}

type UpdateMemberRequest struct {
	Name      *string       `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Role      *Role         `json:"role,omitempty" validate:"omitempty,oneof=admin manager member"`
	Status    *MemberStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	ManagerID *uuid.UUID    `json:"managerId,omitempty" validate:"-"`
	// DetachManager removes the member from their manager's team.
	DetachManager bool `json:"detachManager,omitempty"`
}

type AssignManagerRequest struct {
	MemberIDs []uuid.UUID `json:"memberIds" validate:"required,min=1,max=200"`
}

type MemberResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	Status    MemberStatus `json:"status"`
	ManagerID *uuid.UUID `json:"managerId,omitempty"`
	// AssignedMembers is derived from the manager edge for manager responses.
	AssignedMembers []uuid.UUID `json:"assignedMembers,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

type MemberListResponse struct {
	Members []MemberResponse `json:"members"`
	Total   int              `json:"total"`
}
