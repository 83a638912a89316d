package workflow

import (
	"github.com/mike2377/gestion-stage-sub000/internal/common"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/application"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/convention"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/evaluation"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/stage"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/task"
	"github.com/mike2377/gestion-stage-sub000/internal/store"
)

// transitions maps each kind's current status to the set of statuses
// reachable in one step. Statuses absent from a kind's map are terminal.
// The whole policy lives here as data so it can be audited as a table.
var transitions = map[store.Kind]map[string][]string{
	store.KindStage: {
		string(stage.StatusAvailable):  {string(stage.StatusAssigned), string(stage.StatusCancelled)},
		string(stage.StatusAssigned):   {string(stage.StatusInProgress), string(stage.StatusCancelled)},
		string(stage.StatusInProgress): {string(stage.StatusCompleted), string(stage.StatusTerminated), string(stage.StatusCancelled)},
	},
	store.KindApplication: {
		string(application.StatusPending):  {string(application.StatusReviewed), string(application.StatusAccepted), string(application.StatusRejected), string(application.StatusWithdrawn)},
		string(application.StatusReviewed): {string(application.StatusAccepted), string(application.StatusRejected), string(application.StatusWithdrawn)},
	},
	store.KindConvention: {
		string(convention.StatusDraft):    {string(convention.StatusPending), string(convention.StatusCancelled)},
		string(convention.StatusPending):  {string(convention.StatusApproved), string(convention.StatusSigned), string(convention.StatusCancelled)},
		string(convention.StatusApproved): {string(convention.StatusSigned), string(convention.StatusCancelled)},
		string(convention.StatusSigned):   {string(convention.StatusActive)},
		string(convention.StatusActive):   {string(convention.StatusCompleted), string(convention.StatusCancelled)},
	},
	store.KindSignature: {
		string(convention.SignaturePending): {string(convention.SignatureSigned), string(convention.SignatureDeclined)},
	},
	store.KindTask: {
		string(task.StatusPending):    {string(task.StatusInProgress), string(task.StatusCompleted), string(task.StatusCancelled)},
		string(task.StatusInProgress): {string(task.StatusCompleted), string(task.StatusCancelled)},
	},
	store.KindEvaluation: {
		string(evaluation.StatusDraft):     {string(evaluation.StatusSubmitted)},
		string(evaluation.StatusSubmitted): {string(evaluation.StatusReviewed), string(evaluation.StatusRejected)},
		string(evaluation.StatusReviewed):  {string(evaluation.StatusApproved), string(evaluation.StatusRejected)},
	},
	store.KindReport: {
		string(evaluation.StatusDraft):     {string(evaluation.StatusSubmitted)},
		string(evaluation.StatusSubmitted): {string(evaluation.StatusReviewed), string(evaluation.StatusRejected)},
		string(evaluation.StatusReviewed):  {string(evaluation.StatusApproved), string(evaluation.StatusRejected)},
	},
}

// CanTransition reports whether to is reachable from from in one step.
func CanTransition(kind store.Kind, from, to string) bool {
	for _, candidate := range transitions[kind][from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// Reachable returns the one-step targets from the given status.
func Reachable(kind store.Kind, from string) []string {
	targets := transitions[kind][from]
	out := make([]string, len(targets))
	copy(out, targets)
	return out
}

// Terminal reports whether the status has no outgoing edges for the kind.
func Terminal(kind store.Kind, status string) bool {
	return len(transitions[kind][status]) == 0
}

// ErrInvalidTransition is returned when the requested edge is not in the
// table. Permanent: the caller must pick a legal target.
func ErrInvalidTransition(kind store.Kind, from, to string) error {
	return common.NewError(common.CodeInvalidTransition, string(kind)+" cannot move from "+from+" to "+to, nil)
}
