package app

import (
	"context"
	"time"

	"github.com/mike2377/gestion-stage-sub000/internal/common"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/evaluation"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/stage"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/user"
	"github.com/mike2377/gestion-stage-sub000/internal/store"
	"github.com/mike2377/gestion-stage-sub000/internal/workflow"
)

type EvaluationService struct {
	store  store.EntityStore
	engine *workflow.Engine
	now    func() time.Time
}

func NewEvaluationService(entityStore store.EntityStore, engine *workflow.Engine) *EvaluationService {
	return &EvaluationService{store: entityStore, engine: engine, now: func() time.Time { return time.Now().UTC() }}
}

type CreateEvaluationRequest struct {
	StageID  common.UUID `json:"stage_id" validate:"required"`
	Comments string      `json:"comments"`
}

func (s *EvaluationService) CreateEvaluation(ctx context.Context, actor user.Actor, req CreateEvaluationRequest) (*evaluation.Evaluation, error) {
	if actor.Role != user.RoleTutor && actor.Role != user.RoleTeacher && actor.Role != user.RoleAdmin {
		return nil, common.NewError(common.CodeForbidden, "only tutors and teachers may evaluate", nil)
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	linked, err := s.linkedStage(ctx, req.StageID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	created := evaluation.Evaluation{
		ID:            common.NewUUID(),
		StageID:       req.StageID,
		StudentID:     linked.StudentID,
		EvaluatorID:   actor.ID,
		EvaluatorRole: actor.Role,
		Status:        evaluation.StatusDraft,
		Comments:      req.Comments,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Insert(ctx, store.KindEvaluation, created); err != nil {
		return nil, err
	}
	return &created, nil
}

type CreateReportRequest struct {
	StageID common.UUID `json:"stage_id" validate:"required"`
	Title   string      `json:"title" validate:"required"`
	Content string      `json:"content"`
	DueDate time.Time   `json:"due_date" validate:"required"`
}

func (s *EvaluationService) CreateReport(ctx context.Context, actor user.Actor, req CreateReportRequest) (*ReportView, error) {
	if actor.Role != user.RoleStudent {
		return nil, common.NewError(common.CodeForbidden, "only students may author reports", nil)
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	linked, err := s.linkedStage(ctx, req.StageID)
	if err != nil {
		return nil, err
	}
	if linked.StudentID != actor.ID {
		return nil, common.NewError(common.CodeForbidden, "stage belongs to another student", nil)
	}
	now := s.now()
	created := evaluation.Report{
		ID:        common.NewUUID(),
		StageID:   req.StageID,
		StudentID: actor.ID,
		Title:     req.Title,
		Content:   req.Content,
		DueDate:   req.DueDate,
		Status:    evaluation.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Insert(ctx, store.KindReport, created); err != nil {
		return nil, err
	}
	return s.reportView(created), nil
}

// ReportView decorates a report with its derived overdue flag.
type ReportView struct {
	evaluation.Report
	Overdue bool `json:"overdue"`
}

func (s *EvaluationService) reportView(item evaluation.Report) *ReportView {
	return &ReportView{Report: item, Overdue: workflow.IsOverdue(store.KindReport, string(item.Status), item.DueDate, s.now())}
}

func (s *EvaluationService) GetEvaluation(ctx context.Context, actor user.Actor, id common.UUID) (*evaluation.Evaluation, error) {
	found, err := s.fetchEvaluation(ctx, id)
	if err != nil {
		return nil, err
	}
	scope, err := scopeFor(ctx, s.store, actor)
	if err != nil {
		return nil, err
	}
	if !scope.allows(found.StageID, found.StudentID) {
		return nil, errOutOfScope("evaluation")
	}
	return found, nil
}

func (s *EvaluationService) GetReport(ctx context.Context, actor user.Actor, id common.UUID) (*ReportView, error) {
	found, err := s.fetchReport(ctx, id)
	if err != nil {
		return nil, err
	}
	scope, err := scopeFor(ctx, s.store, actor)
	if err != nil {
		return nil, err
	}
	if !scope.allows(found.StageID, found.StudentID) {
		return nil, errOutOfScope("report")
	}
	return found, nil
}

func (s *EvaluationService) fetchEvaluation(ctx context.Context, id common.UUID) (*evaluation.Evaluation, error) {
	entity, _, err := s.store.Get(ctx, store.KindEvaluation, id)
	if err != nil {
		return nil, err
	}
	found := entity.(evaluation.Evaluation)
	return &found, nil
}

func (s *EvaluationService) fetchReport(ctx context.Context, id common.UUID) (*ReportView, error) {
	entity, _, err := s.store.Get(ctx, store.KindReport, id)
	if err != nil {
		return nil, err
	}
	return s.reportView(entity.(evaluation.Report)), nil
}

func (s *EvaluationService) TransitionEvaluation(ctx context.Context, actor user.Actor, id common.UUID, from, to evaluation.Status) (*evaluation.Evaluation, error) {
	current, err := s.fetchEvaluation(ctx, id)
	if err != nil {
		return nil, err
	}
	if to == evaluation.StatusSubmitted && actor.Role != user.RoleAdmin && current.EvaluatorID != actor.ID {
		return nil, common.NewError(common.CodeForbidden, "evaluation belongs to another evaluator", nil)
	}
	updated, err := s.engine.Transition(ctx, actor, store.KindEvaluation, id, string(from), string(to))
	if err != nil {
		return nil, err
	}
	result := updated.(evaluation.Evaluation)
	return &result, nil
}

func (s *EvaluationService) TransitionReport(ctx context.Context, actor user.Actor, id common.UUID, from, to evaluation.Status) (*ReportView, error) {
	current, err := s.fetchReport(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == user.RoleStudent && current.StudentID != actor.ID {
		return nil, common.NewError(common.CodeForbidden, "report belongs to another student", nil)
	}
	updated, err := s.engine.Transition(ctx, actor, store.KindReport, id, string(from), string(to))
	if err != nil {
		return nil, err
	}
	return s.reportView(updated.(evaluation.Report)), nil
}

// GradeEvaluation records the final grade while reviewing or approving.
// The grade must land in [0,5] and may only be set once the evaluation
// left draft.
func (s *EvaluationService) GradeEvaluation(ctx context.Context, actor user.Actor, id common.UUID, grade float64, comments string) (*evaluation.Evaluation, error) {
	if actor.Role != user.RoleTeacher && actor.Role != user.RoleResponsible && actor.Role != user.RoleAdmin {
		return nil, common.NewError(common.CodeForbidden, "only teachers and responsibles may grade", nil)
	}
	if !evaluation.ValidGrade(grade) {
		return nil, common.NewValidationError("invalid grade", map[string]string{"grade": "must be between 0 and 5"})
	}
	entity, version, err := s.store.Get(ctx, store.KindEvaluation, id)
	if err != nil {
		return nil, err
	}
	current := entity.(evaluation.Evaluation)
	if current.Status == evaluation.StatusDraft {
		return nil, common.NewError(common.CodeValidation, "evaluation has not been submitted", nil)
	}
	updated := current
	updated.Grade = &grade
	if comments != "" {
		updated.Comments = comments
	}
	updated.UpdatedAt = s.now()
	if _, err := s.store.CASUpdate(ctx, store.Write{Kind: store.KindEvaluation, ID: id, ExpectedVersion: version, Entity: updated}); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *EvaluationService) GradeReport(ctx context.Context, actor user.Actor, id common.UUID, grade float64, feedback string) (*ReportView, error) {
	if actor.Role != user.RoleTeacher && actor.Role != user.RoleResponsible && actor.Role != user.RoleAdmin {
		return nil, common.NewError(common.CodeForbidden, "only teachers and responsibles may grade", nil)
	}
	if !evaluation.ValidGrade(grade) {
		return nil, common.NewValidationError("invalid grade", map[string]string{"grade": "must be between 0 and 5"})
	}
	entity, version, err := s.store.Get(ctx, store.KindReport, id)
	if err != nil {
		return nil, err
	}
	current := entity.(evaluation.Report)
	if current.Status == evaluation.StatusDraft {
		return nil, common.NewError(common.CodeValidation, "report has not been submitted", nil)
	}
	updated := current
	updated.Grade = &grade
	if feedback != "" {
		updated.Feedback = feedback
	}
	updated.UpdatedAt = s.now()
	if _, err := s.store.CASUpdate(ctx, store.Write{Kind: store.KindReport, ID: id, ExpectedVersion: version, Entity: updated}); err != nil {
		return nil, err
	}
	return s.reportView(updated), nil
}

// Lists are scoped by role: a student sees only their own evaluations
// and reports, enterprises and tutors only those on their stages.
func (s *EvaluationService) ListEvaluations(ctx context.Context, actor user.Actor, stageID common.UUID) ([]evaluation.Evaluation, error) {
	scope, err := scopeFor(ctx, s.store, actor)
	if err != nil {
		return nil, err
	}
	entities, err := s.store.List(ctx, store.KindEvaluation, store.Filter{Match: func(item any) bool {
		e := item.(evaluation.Evaluation)
		return (stageID.IsZero() || e.StageID == stageID) && scope.allows(e.StageID, e.StudentID)
	}})
	if err != nil {
		return nil, err
	}
	items := make([]evaluation.Evaluation, 0, len(entities))
	for _, entity := range entities {
		items = append(items, entity.(evaluation.Evaluation))
	}
	return items, nil
}

func (s *EvaluationService) ListReports(ctx context.Context, actor user.Actor, stageID common.UUID) ([]ReportView, error) {
	scope, err := scopeFor(ctx, s.store, actor)
	if err != nil {
		return nil, err
	}
	entities, err := s.store.List(ctx, store.KindReport, store.Filter{Match: func(item any) bool {
		r := item.(evaluation.Report)
		return (stageID.IsZero() || r.StageID == stageID) && scope.allows(r.StageID, r.StudentID)
	}})
	if err != nil {
		return nil, err
	}
	views := make([]ReportView, 0, len(entities))
	for _, entity := range entities {
		views = append(views, *s.reportView(entity.(evaluation.Report)))
	}
	return views, nil
}

func (s *EvaluationService) linkedStage(ctx context.Context, stageID common.UUID) (*stage.Stage, error) {
	entity, _, err := s.store.Get(ctx, store.KindStage, stageID)
	if err != nil {
		return nil, err
	}
	linked := entity.(stage.Stage)
	if linked.StudentID.IsZero() {
		return nil, common.NewError(common.CodeValidation, "stage has no assigned student", nil)
	}
	return &linked, nil
}
