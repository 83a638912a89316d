package workflow

import (
	"github.com/mike2377/gestion-stage-sub000/internal/common"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/application"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/convention"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/evaluation"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/stage"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/task"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/user"
	"github.com/mike2377/gestion-stage-sub000/internal/store"
)

type edge struct {
	from string
	to   string
}

// signerRoles are the parties whose sign-off a convention requires. They
// trigger the aggregated signed/cancelled transitions through signing, so
// they appear on those convention edges as well.
var signerRoles = []user.Role{user.RoleStudent, user.RoleEnterprise, user.RoleTeacher, user.RoleResponsible}

// permissions is the role matrix: which roles may request each edge.
// Admin is allowed everywhere and is checked before the lookup.
// Ownership (a student only touching its own records, a signer only its
// designated signature) is enforced by the services on top of this.
var permissions = map[store.Kind]map[edge][]user.Role{
	store.KindStage: {
		{string(stage.StatusAvailable), string(stage.StatusAssigned)}:    {user.RoleTeacher, user.RoleResponsible},
		{string(stage.StatusAvailable), string(stage.StatusCancelled)}:   {user.RoleEnterprise, user.RoleTeacher, user.RoleResponsible},
		{string(stage.StatusAssigned), string(stage.StatusInProgress)}:   {user.RoleEnterprise, user.RoleTeacher, user.RoleResponsible},
		{string(stage.StatusAssigned), string(stage.StatusCancelled)}:    {user.RoleEnterprise, user.RoleTeacher, user.RoleResponsible},
		{string(stage.StatusInProgress), string(stage.StatusCompleted)}:  {user.RoleTeacher, user.RoleResponsible},
		{string(stage.StatusInProgress), string(stage.StatusTerminated)}: {user.RoleResponsible},
		{string(stage.StatusInProgress), string(stage.StatusCancelled)}:  {user.RoleResponsible},
	},
	store.KindApplication: {
		{string(application.StatusPending), string(application.StatusReviewed)}:   {user.RoleEnterprise, user.RoleTeacher},
		{string(application.StatusPending), string(application.StatusAccepted)}:   {user.RoleEnterprise, user.RoleResponsible},
		{string(application.StatusPending), string(application.StatusRejected)}:   {user.RoleEnterprise, user.RoleResponsible},
		{string(application.StatusPending), string(application.StatusWithdrawn)}:  {user.RoleStudent},
		{string(application.StatusReviewed), string(application.StatusAccepted)}:  {user.RoleEnterprise, user.RoleResponsible},
		{string(application.StatusReviewed), string(application.StatusRejected)}:  {user.RoleEnterprise, user.RoleResponsible},
		{string(application.StatusReviewed), string(application.StatusWithdrawn)}: {user.RoleStudent},
	},
	store.KindConvention: {
		{string(convention.StatusDraft), string(convention.StatusPending)}:      {user.RoleEnterprise, user.RoleTeacher},
		{string(convention.StatusDraft), string(convention.StatusCancelled)}:    {user.RoleEnterprise, user.RoleTeacher, user.RoleResponsible},
		{string(convention.StatusPending), string(convention.StatusApproved)}:   {user.RoleResponsible},
		{string(convention.StatusPending), string(convention.StatusSigned)}:     signerRoles,
		{string(convention.StatusPending), string(convention.StatusCancelled)}:  signerRoles,
		{string(convention.StatusApproved), string(convention.StatusSigned)}:    signerRoles,
		{string(convention.StatusApproved), string(convention.StatusCancelled)}: signerRoles,
		{string(convention.StatusSigned), string(convention.StatusActive)}:      {user.RoleResponsible},
		{string(convention.StatusActive), string(convention.StatusCompleted)}:   {user.RoleTeacher, user.RoleResponsible},
		{string(convention.StatusActive), string(convention.StatusCancelled)}:   {user.RoleResponsible},
	},
	store.KindSignature: {
		{string(convention.SignaturePending), string(convention.SignatureSigned)}:   signerRoles,
		{string(convention.SignaturePending), string(convention.SignatureDeclined)}: signerRoles,
	},
	store.KindTask: {
		{string(task.StatusPending), string(task.StatusInProgress)}:   {user.RoleStudent},
		{string(task.StatusPending), string(task.StatusCompleted)}:    {user.RoleStudent},
		{string(task.StatusPending), string(task.StatusCancelled)}:    {user.RoleEnterprise, user.RoleTeacher, user.RoleTutor},
		{string(task.StatusInProgress), string(task.StatusCompleted)}: {user.RoleStudent, user.RoleTutor},
		{string(task.StatusInProgress), string(task.StatusCancelled)}: {user.RoleEnterprise, user.RoleTeacher, user.RoleTutor},
	},
	store.KindEvaluation: {
		{string(evaluation.StatusDraft), string(evaluation.StatusSubmitted)}:    {user.RoleTutor, user.RoleTeacher},
		{string(evaluation.StatusSubmitted), string(evaluation.StatusReviewed)}: {user.RoleTeacher, user.RoleResponsible},
		{string(evaluation.StatusSubmitted), string(evaluation.StatusRejected)}: {user.RoleResponsible},
		{string(evaluation.StatusReviewed), string(evaluation.StatusApproved)}:  {user.RoleResponsible},
		{string(evaluation.StatusReviewed), string(evaluation.StatusRejected)}:  {user.RoleResponsible},
	},
	store.KindReport: {
		{string(evaluation.StatusDraft), string(evaluation.StatusSubmitted)}:    {user.RoleStudent},
		{string(evaluation.StatusSubmitted), string(evaluation.StatusReviewed)}: {user.RoleTeacher, user.RoleTutor},
		{string(evaluation.StatusSubmitted), string(evaluation.StatusRejected)}: {user.RoleTeacher},
		{string(evaluation.StatusReviewed), string(evaluation.StatusApproved)}:  {user.RoleTeacher, user.RoleResponsible},
		{string(evaluation.StatusReviewed), string(evaluation.StatusRejected)}:  {user.RoleTeacher, user.RoleResponsible},
	},
}

// IsAllowed reports whether the role may request the given edge.
func IsAllowed(role user.Role, kind store.Kind, from, to string) bool {
	if role == user.RoleAdmin {
		return true
	}
	for _, allowed := range permissions[kind][edge{from, to}] {
		if allowed == role {
			return true
		}
	}
	return false
}

// ErrUnauthorized is returned when the actor's role may not request the
// edge. Permanent: no retry will help.
func ErrUnauthorized(role user.Role, kind store.Kind, from, to string) error {
	return common.NewError(common.CodeForbidden, string(role)+" may not move "+string(kind)+" from "+from+" to "+to, nil)
}
