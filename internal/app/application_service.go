package app

import (
	"context"
	"time"

	"github.com/mike2377/gestion-stage-sub000/internal/common"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/application"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/stage"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/user"
	"github.com/mike2377/gestion-stage-sub000/internal/query"
	"github.com/mike2377/gestion-stage-sub000/internal/store"
	"github.com/mike2377/gestion-stage-sub000/internal/workflow"
)

type ApplicationService struct {
	store  store.EntityStore
	engine *workflow.Engine
	now    func() time.Time
}

func NewApplicationService(entityStore store.EntityStore, engine *workflow.Engine) *ApplicationService {
	return &ApplicationService{store: entityStore, engine: engine, now: func() time.Time { return time.Now().UTC() }}
}

type ApplyRequest struct {
	StageID    common.UUID `json:"stage_id" validate:"required"`
	Motivation string      `json:"motivation"`
}

func (s *ApplicationService) Apply(ctx context.Context, actor user.Actor, req ApplyRequest) (*application.Application, error) {
	if actor.Role != user.RoleStudent {
		return nil, common.NewError(common.CodeForbidden, "only students may apply", nil)
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	entity, _, err := s.store.Get(ctx, store.KindStage, req.StageID)
	if err != nil {
		return nil, err
	}
	target := entity.(stage.Stage)
	if target.Status != stage.StatusAvailable {
		return nil, common.NewError(common.CodeValidation, "stage is not open for applications", nil)
	}
	existing, err := s.store.List(ctx, store.KindApplication, store.Filter{Match: func(item any) bool {
		app := item.(application.Application)
		return app.StageID == req.StageID && app.StudentID == actor.ID && !app.Status.Terminal()
	}})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, common.NewError(common.CodeConflict, "already applied", nil)
	}
	now := s.now()
	created := application.Application{
		ID:         common.NewUUID(),
		StageID:    req.StageID,
		StudentID:  actor.ID,
		Status:     application.StatusPending,
		Motivation: req.Motivation,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Insert(ctx, store.KindApplication, created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *ApplicationService) Get(ctx context.Context, actor user.Actor, id common.UUID) (*application.Application, error) {
	found, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	scope, err := scopeFor(ctx, s.store, actor)
	if err != nil {
		return nil, err
	}
	if !scope.allows(found.StageID, found.StudentID) {
		return nil, errOutOfScope("application")
	}
	return found, nil
}

func (s *ApplicationService) fetch(ctx context.Context, id common.UUID) (*application.Application, error) {
	entity, _, err := s.store.Get(ctx, store.KindApplication, id)
	if err != nil {
		return nil, err
	}
	found := entity.(application.Application)
	return &found, nil
}

// Transition moves one application through the workflow table. Students
// may only withdraw their own applications; enterprises may only act on
// applications for their own stages. Accepting is an explicit action and
// never implicitly rejects anyone else.
func (s *ApplicationService) Transition(ctx context.Context, actor user.Actor, id common.UUID, from, to application.Status) (*application.Application, error) {
	current, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == user.RoleStudent && current.StudentID != actor.ID {
		return nil, common.NewError(common.CodeForbidden, "application belongs to another student", nil)
	}
	if actor.Role == user.RoleEnterprise {
		entity, _, err := s.store.Get(ctx, store.KindStage, current.StageID)
		if err != nil {
			return nil, err
		}
		if !ownsStage(actor, entity.(stage.Stage)) {
			return nil, common.NewError(common.CodeForbidden, "application belongs to another enterprise", nil)
		}
	}
	if to == application.StatusAccepted {
		accepted, err := s.store.List(ctx, store.KindApplication, store.Filter{Match: func(item any) bool {
			app := item.(application.Application)
			return app.StageID == current.StageID && app.Status == application.StatusAccepted
		}})
		if err != nil {
			return nil, err
		}
		if len(accepted) > 0 {
			return nil, common.NewError(common.CodeConflict, "stage already has an accepted application", nil)
		}
	}
	updated, err := s.engine.Transition(ctx, actor, store.KindApplication, id, string(from), string(to))
	if err != nil {
		return nil, err
	}
	result := updated.(application.Application)
	return &result, nil
}

type ApplicationFilter struct {
	StageID   common.UUID
	StudentID common.UUID
	Status    application.Status
}

// List is scoped by role: students see their own applications,
// enterprises those on their stages.
func (s *ApplicationService) List(ctx context.Context, actor user.Actor, filter ApplicationFilter) ([]application.Application, error) {
	scope, err := scopeFor(ctx, s.store, actor)
	if err != nil {
		return nil, err
	}
	entities, err := s.store.List(ctx, store.KindApplication, store.Filter{})
	if err != nil {
		return nil, err
	}
	apps := make([]application.Application, 0, len(entities))
	for _, entity := range entities {
		apps = append(apps, entity.(application.Application))
	}
	predicates := []query.Predicate[application.Application]{
		func(item application.Application) bool { return scope.allows(item.StageID, item.StudentID) },
	}
	if !filter.StageID.IsZero() {
		predicates = append(predicates, func(item application.Application) bool { return item.StageID == filter.StageID })
	}
	if !filter.StudentID.IsZero() {
		predicates = append(predicates, func(item application.Application) bool { return item.StudentID == filter.StudentID })
	}
	if filter.Status != "" {
		predicates = append(predicates, func(item application.Application) bool { return item.Status == filter.Status })
	}
	return query.Filter(apps, predicates...), nil
}
