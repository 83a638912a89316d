package evaluation

import (
	"time"

	"github.com/mike2377/gestion-stage-sub000/internal/common"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/user"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusReviewed  Status = "reviewed"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

const (
	GradeMin = 0.0
	GradeMax = 5.0
)

// Evaluation is a graded assessment of a stage by an evaluator role
// (tutor or teacher).
type Evaluation struct {
	ID            common.UUID `json:"id"`
	StageID       common.UUID `json:"stage_id"`
	StudentID     common.UUID `json:"student_id"`
	EvaluatorID   common.UUID `json:"evaluator_id"`
	EvaluatorRole user.Role   `json:"evaluator_role"`
	Status        Status      `json:"status"`
	Grade         *float64    `json:"grade,omitempty"`
	Comments      string      `json:"comments,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// Report is a student-authored deliverable for a stage, reviewed and
// graded by the supervising teacher. Overdue is derived at read time.
type Report struct {
	ID        common.UUID `json:"id"`
	StageID   common.UUID `json:"stage_id"`
	StudentID common.UUID `json:"student_id"`
	Title     string      `json:"title"`
	Content   string      `json:"content,omitempty"`
	DueDate   time.Time   `json:"due_date"`
	Status    Status      `json:"status"`
	Grade     *float64    `json:"grade,omitempty"`
	Feedback  string      `json:"feedback,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

func ValidGrade(grade float64) bool {
	return grade >= GradeMin && grade <= GradeMax
}
