package models

import "time"

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

type Task struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	Priority    string
	Status      string
	// DueDate is a calendar date stored at midnight UTC.
	DueDate   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
