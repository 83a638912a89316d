package convention

import (
	"time"

	"github.com/mike2377/gestion-stage-sub000/internal/common"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/user"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusSigned    Status = "signed"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type SignatureStatus string

const (
	SignaturePending  SignatureStatus = "pending"
	SignatureSigned   SignatureStatus = "signed"
	SignatureDeclined SignatureStatus = "declined"
)

// RequiredSignerRoles is the fixed ordered set of parties whose sign-off
// makes a convention valid.
var RequiredSignerRoles = []user.Role{
	user.RoleStudent,
	user.RoleEnterprise,
	user.RoleTeacher,
	user.RoleResponsible,
}

// Convention is the formal multi-party internship agreement. It owns its
// signatures exclusively; one per required role, created when the
// convention enters pending.
type Convention struct {
	ID           common.UUID `json:"id"`
	Reference    string      `json:"reference"`
	StageID      common.UUID `json:"stage_id"`
	StudentID    common.UUID `json:"student_id"`
	EnterpriseID common.UUID `json:"enterprise_id"`
	WorkSchedule string      `json:"work_schedule"`
	Status       Status      `json:"status"`
	Signatures   []Signature `json:"signatures"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Signature is one required party's sign-off record. SignedAt is unset
// while the signature is pending.
type Signature struct {
	ID       common.UUID     `json:"id"`
	Role     user.Role       `json:"role"`
	SignerID common.UUID     `json:"signer_id,omitempty"`
	Status   SignatureStatus `json:"status"`
	SignedAt *time.Time      `json:"signed_at,omitempty"`
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// SignatureByRole returns the signature designated for role, or nil.
func (c *Convention) SignatureByRole(role user.Role) *Signature {
	for i := range c.Signatures {
		if c.Signatures[i].Role == role {
			return &c.Signatures[i]
		}
	}
	return nil
}

// SignedCount counts signatures that reached signed. Displayed progress is
// SignedCount over len(RequiredSignerRoles).
func (c *Convention) SignedCount() int {
	count := 0
	for _, sig := range c.Signatures {
		if sig.Status == SignatureSigned {
			count++
		}
	}
	return count
}
