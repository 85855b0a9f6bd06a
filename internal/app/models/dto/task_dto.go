package dto

import "time"

// CreateTaskRequest is the payload to create a task in a team
type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required,min=2,max=200"`
	Description string     `json:"description" binding:"max=5000"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	AssignedTo  *int64     `json:"assignedTo,omitempty"`
}

// UpdateTaskRequest is the payload to update a task
type UpdateTaskRequest struct {
	Title       string     `json:"title" binding:"required,min=2,max=200"`
	Description string     `json:"description" binding:"max=5000"`
	Status      string     `json:"status" binding:"required,oneof=pending in_progress review completed"`
	Priority    string     `json:"priority" binding:"required,oneof=low medium high critical"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	AssignedTo  *int64     `json:"assignedTo,omitempty"`
	Comment     string     `json:"comment" binding:"max=2000"`
}

// TaskResponse is the public view of a task
type TaskResponse struct {
	ID           int64         `json:"id"`
	TeamID       int64         `json:"teamId"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Status       string        `json:"status"`
	Priority     string        `json:"priority"`
	DueDate      *time.Time    `json:"dueDate,omitempty"`
	AssignedTo   *int64        `json:"assignedTo,omitempty"`
	AssignedUser *UserResponse `json:"assignedUser,omitempty"`
	CreatedBy    int64         `json:"createdBy"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// TaskUpdateResponse is one history entry of a task
type TaskUpdateResponse struct {
	ID             int64         `json:"id"`
	TaskID         int64         `json:"taskId"`
	UserID         int64         `json:"userId"`
	PreviousStatus *string       `json:"previousStatus,omitempty"`
	NewStatus      *string       `json:"newStatus,omitempty"`
	Comment        string        `json:"comment,omitempty"`
	User           *UserResponse `json:"user,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// TeamProgressResponse aggregates task completion for a team
type TeamProgressResponse struct {
	TeamID               int64   `json:"teamId"`
	TotalTasks           int     `json:"totalTasks"`
	CompletedTasks       int     `json:"completedTasks"`
	InProgressTasks      int     `json:"inProgressTasks"`
	PendingTasks         int     `json:"pendingTasks"`
	OverdueTasks         int     `json:"overdueTasks"`
	CompletionPercentage float64 `json:"completionPercentage"`
}
