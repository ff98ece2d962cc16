package models

import (
	"time"

	"github.com/google/uuid"
)

// Membership roles, ordered by privilege.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleMember    = "member"
)

// Group mirrors one row of the groups table.
type Group struct {
	ID          uuid.UUID
	Name        string
	Description *string
	Code        string
	CreatedBy   uuid.UUID
	MaxMembers  int
	IsPublic    bool
	IsActive    bool
	CreatedAt   time.Time
}

// CreatedGroup is the response shape for a freshly created group. Member count
// and role are synthesized (the creator is the sole admin) so no second read
// is needed.
type CreatedGroup struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Code        string    `json:"code"`
	MaxMembers  int       `json:"maxMembers"`
	IsPublic    bool      `json:"isPublic"`
	CreatedAt   time.Time `json:"createdAt"`
	MemberCount int       `json:"memberCount"`
	Role        string    `json:"role"`
}

// JoinedGroup is the response shape after joining a group by code.
type JoinedGroup struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Code        string    `json:"code"`
	CreatorName string    `json:"creatorName"`
	MemberCount int       `json:"memberCount"`
	Role        string    `json:"role"`
}

// GroupSummary is one entry of the my-groups listing.
type GroupSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Code        string    `json:"code"`
	Role        string    `json:"role"`
	CreatorName string    `json:"creatorName"`
	MemberCount int       `json:"memberCount"`
	JoinedAt    time.Time `json:"joinedAt"`
	CreatedAt   time.Time `json:"createdAt"`
	IsPublic    bool      `json:"isPublic"`
}

// MemberStats carries the denormalized per-user numbers shown on the roster.
type MemberStats struct {
	CurrentStreak int `json:"currentStreak"`
	TotalWorkouts int `json:"totalWorkouts"`
}

// GroupMember is one roster entry of the group details view.
type GroupMember struct {
	ID          uuid.UUID   `json:"id"`
	DisplayName string      `json:"displayName"`
	PhotoURL    *string     `json:"photoURL"`
	Role        string      `json:"role"`
	JoinedAt    time.Time   `json:"joinedAt"`
	Stats       MemberStats `json:"stats"`
}

// GroupDetails is the full group view returned to active members only.
type GroupDetails struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Description *string       `json:"description"`
	Code        string        `json:"code"`
	CreatorName string        `json:"creatorName"`
	MaxMembers  int           `json:"maxMembers"`
	IsPublic    bool          `json:"isPublic"`
	CreatedAt   time.Time     `json:"createdAt"`
	MemberCount int           `json:"memberCount"`
	Members     []GroupMember `json:"members"`
	UserRole    string        `json:"userRole"`
}
