package models

import "time"

// Team represents a team working on a TP
type Team struct {
	ID          int64     `json:"id" db:"id"`
	TPID        int64     `json:"tpId" db:"tp_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	JoinCode    string    `json:"joinCode" db:"join_code"`
	MaxMembers  int       `json:"maxMembers" db:"max_members"`
	CreatedBy   int64     `json:"createdBy" db:"created_by"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	// Related entities
	Members     []*TeamMember `json:"members,omitempty"`
	MemberCount int           `json:"memberCount,omitempty"`
}

// TeamMember represents a user belonging to a team.
// TPID is denormalized from the owning team so the store can enforce a single
// membership per (tp, user) pair with a unique constraint.
type TeamMember struct {
	ID       int64     `json:"id" db:"id"`
	TeamID   int64     `json:"teamId" db:"team_id"`
	UserID   int64     `json:"userId" db:"user_id"`
	TPID     int64     `json:"tpId" db:"tp_id"`
	IsLeader bool      `json:"isLeader" db:"is_leader"`
	JoinedAt time.Time `json:"joinedAt" db:"joined_at"`

	// Related entities
	User *User `json:"user,omitempty"`
}

// TeamCapacity is a team annotated with its current member count, as used by
// the auto-assignment capacity scan.
type TeamCapacity struct {
	ID             int64  `json:"id" db:"id"`
	Name           string `json:"name" db:"name"`
	MaxMembers     int    `json:"maxMembers" db:"max_members"`
	CurrentMembers int    `json:"currentMembers" db:"current_members"`
}

// RemainingSlots returns the spare capacity of the team, floored at zero.
func (t TeamCapacity) RemainingSlots() int {
	if t.CurrentMembers >= t.MaxMembers {
		return 0
	}
	return t.MaxMembers - t.CurrentMembers
}
