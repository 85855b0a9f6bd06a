package models

import "time"

// Task represents a unit of work tracked by a team
type Task struct {
	ID          int64        `json:"id" db:"id"`
	TeamID      int64        `json:"teamId" db:"team_id"`
	Title       string       `json:"title" db:"title"`
	Description string       `json:"description" db:"description"`
	Status      TaskStatus   `json:"status" db:"status"`
	Priority    TaskPriority `json:"priority" db:"priority"`
	DueDate     *time.Time   `json:"dueDate,omitempty" db:"due_date"`
	AssignedTo  *int64       `json:"assignedTo,omitempty" db:"assigned_to"`
	CreatedBy   int64        `json:"createdBy" db:"created_by"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time    `json:"updatedAt" db:"updated_at"`

	// Related entities
	AssignedUser *User `json:"assignedUser,omitempty"`
	Creator      *User `json:"creator,omitempty"`
}

// TaskUpdate records a status transition or comment on a task
type TaskUpdate struct {
	ID             int64       `json:"id" db:"id"`
	TaskID         int64       `json:"taskId" db:"task_id"`
	UserID         int64       `json:"userId" db:"user_id"`
	PreviousStatus *TaskStatus `json:"previousStatus,omitempty" db:"previous_status"`
	NewStatus      *TaskStatus `json:"newStatus,omitempty" db:"new_status"`
	Comment        string      `json:"comment,omitempty" db:"comment"`
	CreatedAt      time.Time   `json:"createdAt" db:"created_at"`

	// Related entities
	User *User `json:"user,omitempty"`
}

// TeamProgress aggregates task completion for a team
type TeamProgress struct {
	TeamID               int64   `json:"teamId"`
	TotalTasks           int     `json:"totalTasks"`
	CompletedTasks       int     `json:"completedTasks"`
	InProgressTasks      int     `json:"inProgressTasks"`
	PendingTasks         int     `json:"pendingTasks"`
	OverdueTasks         int     `json:"overdueTasks"`
	CompletionPercentage float64 `json:"completionPercentage"`
}
