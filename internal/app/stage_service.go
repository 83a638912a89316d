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

type StageService struct {
	store  store.EntityStore
	engine *workflow.Engine
	now    func() time.Time
}

func NewStageService(entityStore store.EntityStore, engine *workflow.Engine) *StageService {
	return &StageService{store: entityStore, engine: engine, now: func() time.Time { return time.Now().UTC() }}
}

type CreateStageRequest struct {
	Title        string      `json:"title" validate:"required"`
	Description  string      `json:"description"`
	Requirements []string    `json:"requirements"`
	StartDate    time.Time   `json:"start_date" validate:"required"`
	EndDate      time.Time   `json:"end_date" validate:"required,gtefield=StartDate"`
	Location     string      `json:"location" validate:"required"`
	Stipend      string      `json:"stipend"`
	Program      string      `json:"program" validate:"required"`
	Year         int         `json:"year" validate:"required,min=2000"`
	TeacherID    common.UUID `json:"teacher_id"`
	EnterpriseID common.UUID `json:"enterprise_id"`
}

func (s *StageService) Create(ctx context.Context, actor user.Actor, req CreateStageRequest) (*stage.Stage, error) {
	if actor.Role != user.RoleEnterprise && actor.Role != user.RoleTeacher && actor.Role != user.RoleAdmin {
		return nil, common.NewError(common.CodeForbidden, "only enterprises and teachers may post stages", nil)
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	enterpriseID := req.EnterpriseID
	if actor.Role == user.RoleEnterprise {
		enterpriseID = actor.OrganizationID
		if enterpriseID.IsZero() {
			enterpriseID = actor.ID
		}
	}
	teacherID := req.TeacherID
	if actor.Role == user.RoleTeacher && teacherID.IsZero() {
		teacherID = actor.ID
	}
	now := s.now()
	created := stage.Stage{
		ID:           common.NewUUID(),
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Location:     req.Location,
		Stipend:      req.Stipend,
		Status:       stage.StatusAvailable,
		TeacherID:    teacherID,
		EnterpriseID: enterpriseID,
		Program:      req.Program,
		Year:         req.Year,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Insert(ctx, store.KindStage, created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *StageService) Get(ctx context.Context, id common.UUID) (*stage.Stage, error) {
	entity, _, err := s.store.Get(ctx, store.KindStage, id)
	if err != nil {
		return nil, err
	}
	found := entity.(stage.Stage)
	return &found, nil
}

type StageFilter struct {
	Status       stage.Status
	Program      string
	Year         int
	Skills       []string
	EnterpriseID common.UUID
	StudentID    common.UUID
	TeacherID    common.UUID
}

// List composes the filter as AND-ed predicates over the stored order.
func (s *StageService) List(ctx context.Context, filter StageFilter) ([]stage.Stage, error) {
	entities, err := s.store.List(ctx, store.KindStage, store.Filter{Tags: filter.Skills})
	if err != nil {
		return nil, err
	}
	stages := make([]stage.Stage, 0, len(entities))
	for _, entity := range entities {
		stages = append(stages, entity.(stage.Stage))
	}
	var predicates []query.Predicate[stage.Stage]
	if filter.Status != "" {
		predicates = append(predicates, func(item stage.Stage) bool { return item.Status == filter.Status })
	}
	if filter.Program != "" {
		predicates = append(predicates, func(item stage.Stage) bool { return item.Program == filter.Program })
	}
	if filter.Year != 0 {
		predicates = append(predicates, func(item stage.Stage) bool { return item.Year == filter.Year })
	}
	if !filter.EnterpriseID.IsZero() {
		predicates = append(predicates, func(item stage.Stage) bool { return item.EnterpriseID == filter.EnterpriseID })
	}
	if !filter.StudentID.IsZero() {
		predicates = append(predicates, func(item stage.Stage) bool { return item.StudentID == filter.StudentID })
	}
	if !filter.TeacherID.IsZero() {
		predicates = append(predicates, func(item stage.Stage) bool { return item.TeacherID == filter.TeacherID })
	}
	return query.Filter(stages, predicates...), nil
}

// Transition drives a stage through the workflow table on behalf of actor.
// Enterprises may only touch their own stages. Moving to assigned is
// refused while the stage has no student; assignment goes through
// AssignStudent, which records the student in the same commit.
func (s *StageService) Transition(ctx context.Context, actor user.Actor, id common.UUID, from, to stage.Status) (*stage.Stage, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == user.RoleEnterprise && !ownsStage(actor, *current) {
		return nil, common.NewError(common.CodeForbidden, "stage belongs to another enterprise", nil)
	}
	if to == stage.StatusAssigned && current.StudentID.IsZero() {
		return nil, common.NewValidationError("stage has no student", map[string]string{"student_id": "assign a student instead"})
	}
	updated, err := s.engine.Transition(ctx, actor, store.KindStage, id, string(from), string(to))
	if err != nil {
		return nil, err
	}
	result := updated.(stage.Stage)
	return &result, nil
}

// AssignStudent matches a student to an available stage. The stage move,
// the acceptance of the student's application for it and the rejection of
// the student's other open applications commit as one batch: all or
// nothing.
func (s *StageService) AssignStudent(ctx context.Context, actor user.Actor, stageID, studentID common.UUID) (*stage.Stage, error) {
	entity, version, err := s.store.Get(ctx, store.KindStage, stageID)
	if err != nil {
		return nil, err
	}
	current := entity.(stage.Stage)
	if current.Status != stage.StatusAvailable {
		return nil, common.NewError(common.CodeAlreadyAssigned, "stage is not available", nil)
	}
	if err := s.engine.Authorize(actor, store.KindStage, string(stage.StatusAvailable), string(stage.StatusAssigned)); err != nil {
		return nil, err
	}

	active, err := s.store.List(ctx, store.KindStage, store.Filter{Match: func(item any) bool {
		other := item.(stage.Stage)
		return other.StudentID == studentID && other.Status.Active()
	}})
	if err != nil {
		return nil, err
	}
	if len(active) > 0 {
		return nil, common.NewError(common.CodeDuplicateAssignment, "student already has an active stage", nil)
	}

	open, err := s.openApplications(ctx, studentID)
	if err != nil {
		return nil, err
	}
	var accepted *application.Application
	for i := range open {
		if open[i].StageID == stageID {
			accepted = &open[i]
			break
		}
	}
	if accepted == nil {
		return nil, common.NewValidationError("student has no open application for this stage", map[string]string{"student_id": "no open application"})
	}

	now := s.now()
	updated := current
	updated.Status = stage.StatusAssigned
	updated.StudentID = studentID
	updated.UpdatedAt = now
	writes := []store.Write{{Kind: store.KindStage, ID: stageID, ExpectedVersion: version, Entity: updated}}

	type committed struct {
		kind     store.Kind
		entityID common.UUID
		from, to string
	}
	changes := []committed{{store.KindStage, stageID, string(stage.StatusAvailable), string(stage.StatusAssigned)}}

	for i := range open {
		app := open[i]
		target := application.StatusRejected
		if app.ID == accepted.ID {
			target = application.StatusAccepted
		}
		if err := s.engine.Validate(store.KindApplication, string(app.Status), string(target)); err != nil {
			return nil, err
		}
		_, appVersion, err := s.store.Get(ctx, store.KindApplication, app.ID)
		if err != nil {
			return nil, err
		}
		next := app
		next.Status = target
		next.UpdatedAt = now
		writes = append(writes, store.Write{Kind: store.KindApplication, ID: app.ID, ExpectedVersion: appVersion, Entity: next})
		changes = append(changes, committed{store.KindApplication, app.ID, string(app.Status), string(target)})
	}

	if err := s.store.CASUpdateAll(ctx, writes); err != nil {
		return nil, err
	}
	for _, change := range changes {
		if err := s.engine.Committed(ctx, actor, change.kind, change.entityID, change.from, change.to); err != nil {
			return nil, err
		}
	}
	return &updated, nil
}

// AssignTutor sets the stage's tutor. Independent of the stage status; the
// last write wins and a tutor may supervise any number of stages.
func (s *StageService) AssignTutor(ctx context.Context, actor user.Actor, stageID, tutorID common.UUID) (*stage.Stage, error) {
	if actor.Role != user.RoleTeacher && actor.Role != user.RoleResponsible && actor.Role != user.RoleAdmin {
		return nil, common.NewError(common.CodeForbidden, "only teachers and responsibles may assign tutors", nil)
	}
	entity, version, err := s.store.Get(ctx, store.KindStage, stageID)
	if err != nil {
		return nil, err
	}
	updated := entity.(stage.Stage)
	updated.TutorID = tutorID
	updated.UpdatedAt = s.now()
	if _, err := s.store.CASUpdate(ctx, store.Write{Kind: store.KindStage, ID: stageID, ExpectedVersion: version, Entity: updated}); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *StageService) openApplications(ctx context.Context, studentID common.UUID) ([]application.Application, error) {
	entities, err := s.store.List(ctx, store.KindApplication, store.Filter{Match: func(item any) bool {
		app := item.(application.Application)
		return app.StudentID == studentID && !app.Status.Terminal()
	}})
	if err != nil {
		return nil, err
	}
	apps := make([]application.Application, 0, len(entities))
	for _, entity := range entities {
		apps = append(apps, entity.(application.Application))
	}
	return apps, nil
}

func ownsStage(actor user.Actor, item stage.Stage) bool {
	if item.EnterpriseID == actor.OrganizationID && !actor.OrganizationID.IsZero() {
		return true
	}
	return item.EnterpriseID == actor.ID
}
