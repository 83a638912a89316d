package stage

import (
	"time"

	"github.com/mike2377/gestion-stage-sub000/internal/common"
)

type Status string

const (
	StatusAvailable  Status = "available"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	// StatusTerminated is ended before the planned end date. Displayed with
	// the same label as completed but keeps its own transition history.
	StatusTerminated Status = "terminated"
	StatusCancelled  Status = "cancelled"
)

// Stage is an internship posting. Never deleted, only cancelled.
type Stage struct {
	ID           common.UUID `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Requirements []string    `json:"requirements"`
	StartDate    time.Time   `json:"start_date"`
	EndDate      time.Time   `json:"end_date"`
	Location     string      `json:"location"`
	Stipend      string      `json:"stipend,omitempty"`
	Status       Status      `json:"status"`
	StudentID    common.UUID `json:"student_id,omitempty"`
	TutorID      common.UUID `json:"tutor_id,omitempty"`
	TeacherID    common.UUID `json:"teacher_id"`
	EnterpriseID common.UUID `json:"enterprise_id"`
	Program      string      `json:"program"`
	Year         int         `json:"year"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Active reports whether the stage currently occupies its student slot.
func (s Status) Active() bool {
	return s == StatusAssigned || s == StatusInProgress
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusTerminated || s == StatusCancelled
}
