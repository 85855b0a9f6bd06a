package dto

import "time"

// CreateTeamRequest is the payload to create a team manually
type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"max=1000"`
	MaxMembers  int    `json:"maxMembers" binding:"omitempty,min=1,max=20"`
}

// JoinTeamRequest is the payload to join a team by its join code
type JoinTeamRequest struct {
	JoinCode string `json:"joinCode" binding:"required"`
}

// TeamMemberResponse is the public view of a team member
type TeamMemberResponse struct {
	UserID   int64         `json:"userId"`
	IsLeader bool          `json:"isLeader"`
	JoinedAt time.Time     `json:"joinedAt"`
	User     *UserResponse `json:"user,omitempty"`
}

// TeamResponse is the public view of a team
type TeamResponse struct {
	ID          int64                `json:"id"`
	TPID        int64                `json:"tpId"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	JoinCode    string               `json:"joinCode,omitempty"`
	MaxMembers  int                  `json:"maxMembers"`
	MemberCount int                  `json:"memberCount"`
	CreatedBy   int64                `json:"createdBy"`
	Members     []TeamMemberResponse `json:"members,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
}
