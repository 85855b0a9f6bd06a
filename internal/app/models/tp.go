package models

import "time"

// TP represents a Trabajo Práctico, the assignment teams organize around
type TP struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Deadline    time.Time `json:"deadline" db:"deadline"`
	CreatedBy   int64     `json:"createdBy" db:"created_by"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	// Related entities
	Creator    *User `json:"creator,omitempty"`
	TeamsCount int   `json:"teamsCount,omitempty"`
}
