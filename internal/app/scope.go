package app

import (
	"context"

	"github.com/mike2377/gestion-stage-sub000/internal/common"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/stage"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/user"
	"github.com/mike2377/gestion-stage-sub000/internal/store"
)

// readScope bounds what an actor may read. Teachers, responsibles and
// admins see everything. Students see records about themselves.
// Enterprises and tutors see records on the stages they own or
// supervise.
type readScope struct {
	all       bool
	studentID common.UUID
	stageIDs  map[common.UUID]bool
}

func scopeFor(ctx context.Context, entityStore store.EntityStore, actor user.Actor) (readScope, error) {
	switch actor.Role {
	case user.RoleTeacher, user.RoleResponsible, user.RoleAdmin:
		return readScope{all: true}, nil
	case user.RoleStudent:
		return readScope{studentID: actor.ID}, nil
	}
	entities, err := entityStore.List(ctx, store.KindStage, store.Filter{Match: func(item any) bool {
		linked := item.(stage.Stage)
		if actor.Role == user.RoleTutor {
			return linked.TutorID == actor.ID
		}
		return ownsStage(actor, linked)
	}})
	if err != nil {
		return readScope{}, err
	}
	ids := make(map[common.UUID]bool, len(entities))
	for _, entity := range entities {
		ids[entity.(stage.Stage).ID] = true
	}
	return readScope{stageIDs: ids}, nil
}

func (s readScope) allows(stageID, studentID common.UUID) bool {
	if s.all {
		return true
	}
	if !s.studentID.IsZero() {
		return studentID == s.studentID
	}
	return s.stageIDs[stageID]
}

func errOutOfScope(what string) error {
	return common.NewError(common.CodeForbidden, what+" is outside your scope", nil)
}
