package task

import (
	"time"

	"github.com/mike2377/gestion-stage-sub000/internal/common"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Task is a unit of work assigned by a supervisor to a student. Overdue is
// never stored; it is recomputed from DueDate and Status at read time.
type Task struct {
	ID             common.UUID `json:"id"`
	StageID        common.UUID `json:"stage_id"`
	StudentID      common.UUID `json:"student_id"`
	AssignerID     common.UUID `json:"assigner_id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	AssignedDate   time.Time   `json:"assigned_date"`
	DueDate        time.Time   `json:"due_date"`
	EstimatedHours float64     `json:"estimated_hours,omitempty"`
	ActualHours    float64     `json:"actual_hours,omitempty"`
	Status         Status      `json:"status"`
	Priority       Priority    `json:"priority"`
	Progress       int         `json:"progress"`
	Comments       []Comment   `json:"comments"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

type Comment struct {
	ID        common.UUID `json:"id"`
	AuthorID  common.UUID `json:"author_id"`
	Body      string      `json:"body"`
	CreatedAt time.Time   `json:"created_at"`
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}
