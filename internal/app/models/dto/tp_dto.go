package dto

import "time"

// CreateTPRequest is the payload to create a Trabajo Práctico
type CreateTPRequest struct {
	Title       string    `json:"title" binding:"required,min=3,max=200"`
	Description string    `json:"description" binding:"max=5000"`
	Deadline    time.Time `json:"deadline" binding:"required,futuredate"`
}

// UpdateTPRequest is the payload to update a Trabajo Práctico
type UpdateTPRequest struct {
	Title       string    `json:"title" binding:"required,min=3,max=200"`
	Description string    `json:"description" binding:"max=5000"`
	Deadline    time.Time `json:"deadline" binding:"required"`
}

// TPResponse is the public view of a Trabajo Práctico
type TPResponse struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Deadline    time.Time     `json:"deadline"`
	CreatedBy   int64         `json:"createdBy"`
	Creator     *UserResponse `json:"creator,omitempty"`
	TeamsCount  int           `json:"teamsCount"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// TPListResponse is a paginated list of TPs
type TPListResponse struct {
	TPs            []TPResponse   `json:"tps"`
	PaginationInfo PaginationInfo `json:"pagination"`
}
