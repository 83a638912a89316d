package user

import (
	"strings"
	"time"

	"github.com/mike2377/gestion-stage-sub000/internal/common"
)

type Role string

const (
	RoleStudent     Role = "student"
	RoleEnterprise  Role = "enterprise"
	RoleTeacher     Role = "teacher"
	RoleResponsible Role = "responsible"
	RoleTutor       Role = "tutor"
	RoleAdmin       Role = "admin"
)

func ParseRole(value string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	switch role {
	case RoleStudent, RoleEnterprise, RoleTeacher, RoleResponsible, RoleTutor, RoleAdmin:
		return role, true
	}
	return "", false
}

// Actor is the authenticated identity issuing a request. Every user holds
// exactly one role; the role decides which transitions it may request.
type Actor struct {
	ID             common.UUID `json:"id"`
	Role           Role        `json:"role"`
	OrganizationID common.UUID `json:"organization_id,omitempty"`
}

type User struct {
	ID             common.UUID `json:"id"`
	Email          string      `json:"email"`
	FullName       string      `json:"full_name"`
	Role           Role        `json:"role"`
	OrganizationID common.UUID `json:"organization_id,omitempty"`
	Program        string      `json:"program,omitempty"`
	Year           int         `json:"year,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

func (u User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role, OrganizationID: u.OrganizationID}
}
