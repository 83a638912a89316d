package application

import (
	"time"

	"github.com/mike2377/gestion-stage-sub000/internal/common"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusReviewed  Status = "reviewed"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusWithdrawn Status = "withdrawn"
)

// Application links a student to a stage. At most one accepted
// application may exist per stage.
type Application struct {
	ID         common.UUID `json:"id"`
	StageID    common.UUID `json:"stage_id"`
	StudentID  common.UUID `json:"student_id"`
	Status     Status      `json:"status"`
	Motivation string      `json:"motivation,omitempty"`
	Feedback   string      `json:"feedback,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected || s == StatusWithdrawn
}
