package app

import (
	"context"
	"time"

	"github.com/mike2377/gestion-stage-sub000/internal/common"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/stage"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/task"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/user"
	"github.com/mike2377/gestion-stage-sub000/internal/query"
	"github.com/mike2377/gestion-stage-sub000/internal/store"
	"github.com/mike2377/gestion-stage-sub000/internal/workflow"
)

type TaskService struct {
	store  store.EntityStore
	engine *workflow.Engine
	now    func() time.Time
}

func NewTaskService(entityStore store.EntityStore, engine *workflow.Engine) *TaskService {
	return &TaskService{store: entityStore, engine: engine, now: func() time.Time { return time.Now().UTC() }}
}

type CreateTaskRequest struct {
	StageID        common.UUID   `json:"stage_id" validate:"required"`
	Title          string        `json:"title" validate:"required"`
	Description    string        `json:"description"`
	DueDate        time.Time     `json:"due_date" validate:"required"`
	EstimatedHours float64       `json:"estimated_hours"`
	Priority       task.Priority `json:"priority"`
}

func (s *TaskService) Create(ctx context.Context, actor user.Actor, req CreateTaskRequest) (*TaskView, error) {
	switch actor.Role {
	case user.RoleEnterprise, user.RoleTeacher, user.RoleTutor, user.RoleAdmin:
	default:
		return nil, common.NewError(common.CodeForbidden, "only supervisors may assign tasks", nil)
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	priority := req.Priority
	if priority == "" {
		priority = task.PriorityMedium
	}
	if !task.ValidPriority(priority) {
		return nil, common.NewValidationError("invalid priority", map[string]string{"priority": "must be low, medium, high or urgent"})
	}
	entity, _, err := s.store.Get(ctx, store.KindStage, req.StageID)
	if err != nil {
		return nil, err
	}
	linked := entity.(stage.Stage)
	if linked.StudentID.IsZero() {
		return nil, common.NewError(common.CodeValidation, "stage has no assigned student", nil)
	}
	now := s.now()
	created := task.Task{
		ID:             common.NewUUID(),
		StageID:        req.StageID,
		StudentID:      linked.StudentID,
		AssignerID:     actor.ID,
		Title:          req.Title,
		Description:    req.Description,
		AssignedDate:   now,
		DueDate:        req.DueDate,
		EstimatedHours: req.EstimatedHours,
		Status:         task.StatusPending,
		Priority:       priority,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.Insert(ctx, store.KindTask, created); err != nil {
		return nil, err
	}
	return s.view(created), nil
}

// TaskView decorates a task with its derived overdue flag, recomputed at
// read time and never stored.
type TaskView struct {
	task.Task
	Overdue bool `json:"overdue"`
}

func (s *TaskService) view(item task.Task) *TaskView {
	return &TaskView{Task: item, Overdue: workflow.IsOverdue(store.KindTask, string(item.Status), item.DueDate, s.now())}
}

func (s *TaskService) Get(ctx context.Context, actor user.Actor, id common.UUID) (*TaskView, error) {
	found, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	scope, err := scopeFor(ctx, s.store, actor)
	if err != nil {
		return nil, err
	}
	if !scope.allows(found.StageID, found.StudentID) {
		return nil, errOutOfScope("task")
	}
	return found, nil
}

func (s *TaskService) fetch(ctx context.Context, id common.UUID) (*TaskView, error) {
	entity, _, err := s.store.Get(ctx, store.KindTask, id)
	if err != nil {
		return nil, err
	}
	return s.view(entity.(task.Task)), nil
}

func (s *TaskService) Transition(ctx context.Context, actor user.Actor, id common.UUID, from, to task.Status) (*TaskView, error) {
	current, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == user.RoleStudent && current.StudentID != actor.ID {
		return nil, common.NewError(common.CodeForbidden, "task belongs to another student", nil)
	}
	updated, err := s.engine.Transition(ctx, actor, store.KindTask, id, string(from), string(to))
	if err != nil {
		return nil, err
	}
	return s.view(updated.(task.Task)), nil
}

// UpdateProgress sets the completion percentage and optionally the hours
// actually spent. Only the assigned student reports progress.
func (s *TaskService) UpdateProgress(ctx context.Context, actor user.Actor, id common.UUID, progress int, actualHours float64) (*TaskView, error) {
	if progress < 0 || progress > 100 {
		return nil, common.NewValidationError("invalid progress", map[string]string{"progress": "must be between 0 and 100"})
	}
	entity, version, err := s.store.Get(ctx, store.KindTask, id)
	if err != nil {
		return nil, err
	}
	current := entity.(task.Task)
	if actor.Role == user.RoleStudent && current.StudentID != actor.ID {
		return nil, common.NewError(common.CodeForbidden, "task belongs to another student", nil)
	}
	if current.Status.Terminal() {
		return nil, common.NewError(common.CodeValidation, "task is closed", nil)
	}
	updated := current
	updated.Progress = progress
	if actualHours > 0 {
		updated.ActualHours = actualHours
	}
	updated.UpdatedAt = s.now()
	if _, err := s.store.CASUpdate(ctx, store.Write{Kind: store.KindTask, ID: id, ExpectedVersion: version, Entity: updated}); err != nil {
		return nil, err
	}
	return s.view(updated), nil
}

// AddComment appends to the task's ordered comment thread. Only the
// task's participants may comment: its student, its assigner, and the
// stage's supervisors.
func (s *TaskService) AddComment(ctx context.Context, actor user.Actor, id common.UUID, body string) (*TaskView, error) {
	if body == "" {
		return nil, common.NewValidationError("empty comment", map[string]string{"body": "is required"})
	}
	entity, version, err := s.store.Get(ctx, store.KindTask, id)
	if err != nil {
		return nil, err
	}
	current := entity.(task.Task)
	if actor.ID != current.AssignerID {
		scope, err := scopeFor(ctx, s.store, actor)
		if err != nil {
			return nil, err
		}
		if !scope.allows(current.StageID, current.StudentID) {
			return nil, common.NewError(common.CodeForbidden, "task belongs to another stage", nil)
		}
	}
	updated := current
	updated.Comments = make([]task.Comment, len(current.Comments), len(current.Comments)+1)
	copy(updated.Comments, current.Comments)
	updated.Comments = append(updated.Comments, task.Comment{
		ID:        common.NewUUID(),
		AuthorID:  actor.ID,
		Body:      body,
		CreatedAt: s.now(),
	})
	updated.UpdatedAt = s.now()
	if _, err := s.store.CASUpdate(ctx, store.Write{Kind: store.KindTask, ID: id, ExpectedVersion: version, Entity: updated}); err != nil {
		return nil, err
	}
	return s.view(updated), nil
}

type TaskFilter struct {
	StageID   common.UUID
	StudentID common.UUID
	Status    task.Status
	Priority  task.Priority
	Overdue   bool
}

// List is scoped by role: students see their own tasks, enterprises and
// tutors those on stages they own or supervise.
func (s *TaskService) List(ctx context.Context, actor user.Actor, filter TaskFilter) ([]TaskView, error) {
	scope, err := scopeFor(ctx, s.store, actor)
	if err != nil {
		return nil, err
	}
	entities, err := s.store.List(ctx, store.KindTask, store.Filter{})
	if err != nil {
		return nil, err
	}
	tasks := make([]task.Task, 0, len(entities))
	for _, entity := range entities {
		tasks = append(tasks, entity.(task.Task))
	}
	now := s.now()
	predicates := []query.Predicate[task.Task]{
		func(item task.Task) bool { return scope.allows(item.StageID, item.StudentID) },
	}
	if !filter.StageID.IsZero() {
		predicates = append(predicates, func(item task.Task) bool { return item.StageID == filter.StageID })
	}
	if !filter.StudentID.IsZero() {
		predicates = append(predicates, func(item task.Task) bool { return item.StudentID == filter.StudentID })
	}
	if filter.Status != "" {
		predicates = append(predicates, func(item task.Task) bool { return item.Status == filter.Status })
	}
	if filter.Priority != "" {
		predicates = append(predicates, func(item task.Task) bool { return item.Priority == filter.Priority })
	}
	if filter.Overdue {
		predicates = append(predicates, func(item task.Task) bool {
			return workflow.IsOverdue(store.KindTask, string(item.Status), item.DueDate, now)
		})
	}
	views := make([]TaskView, 0)
	for _, item := range query.Filter(tasks, predicates...) {
		views = append(views, TaskView{Task: item, Overdue: workflow.IsOverdue(store.KindTask, string(item.Status), item.DueDate, now)})
	}
	return views, nil
}
