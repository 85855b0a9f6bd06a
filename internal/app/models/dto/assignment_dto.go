package dto

// AutoAssignRequest configures a team auto-assignment run.
// CreateNewTeams defaults to true when omitted; MaxMembersPerTeam and
// TeamNamePrefix fall back to the server configuration when zero-valued.
type AutoAssignRequest struct {
	CreateNewTeams    *bool  `json:"createNewTeams,omitempty"`
	MaxMembersPerTeam int    `json:"maxMembersPerTeam" binding:"omitempty,min=1,max=20"`
	TeamNamePrefix    string `json:"teamNamePrefix" binding:"omitempty,max=50"`
}

// AssignedTeam is one placement produced by an assignment run
type AssignedTeam struct {
	UserID   int64  `json:"userId"`
	TeamID   int64  `json:"teamId"`
	TeamName string `json:"teamName"`
}

// AssignmentResult is the outcome of an auto-assignment run
type AssignmentResult struct {
	Success       bool           `json:"success"`
	Message       string         `json:"message"`
	AssignedTeams []AssignedTeam `json:"assignedTeams,omitempty"`
	Errors        []string       `json:"errors,omitempty"`
}

// AssignmentValidation is the read-only pre-flight check result
type AssignmentValidation struct {
	CanAssign bool     `json:"canAssign"`
	Reasons   []string `json:"reasons"`
}
