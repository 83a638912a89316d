package app

import (
	"context"
	"time"

	"github.com/mike2377/gestion-stage-sub000/internal/domain/application"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/convention"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/evaluation"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/stage"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/task"
	"github.com/mike2377/gestion-stage-sub000/internal/query"
	"github.com/mike2377/gestion-stage-sub000/internal/store"
	"github.com/mike2377/gestion-stage-sub000/internal/workflow"
)

// StatsService composes read-only counts over the collections. It mutates
// nothing and needs no coordination with writers.
type StatsService struct {
	store store.EntityStore
	now   func() time.Time
}

func NewStatsService(entityStore store.EntityStore) *StatsService {
	return &StatsService{store: entityStore, now: func() time.Time { return time.Now().UTC() }}
}

type Overview struct {
	StagesByStatus       map[stage.Status]int      `json:"stages_by_status"`
	ApplicationsByStatus map[application.Status]int `json:"applications_by_status"`
	ConventionsByStatus  map[convention.Status]int  `json:"conventions_by_status"`
	TasksByStatus        map[task.Status]int        `json:"tasks_by_status"`
	OverdueTasks         int                        `json:"overdue_tasks"`
	OverdueReports       int                        `json:"overdue_reports"`
	FullySignedConventions int                      `json:"fully_signed_conventions"`
}

func (s *StatsService) Overview(ctx context.Context) (*Overview, error) {
	overview := &Overview{
		StagesByStatus:       make(map[stage.Status]int),
		ApplicationsByStatus: make(map[application.Status]int),
		ConventionsByStatus:  make(map[convention.Status]int),
		TasksByStatus:        make(map[task.Status]int),
	}
	now := s.now()

	stages, err := s.store.List(ctx, store.KindStage, store.Filter{})
	if err != nil {
		return nil, err
	}
	for _, entity := range stages {
		overview.StagesByStatus[entity.(stage.Stage).Status]++
	}

	applications, err := s.store.List(ctx, store.KindApplication, store.Filter{})
	if err != nil {
		return nil, err
	}
	for _, entity := range applications {
		overview.ApplicationsByStatus[entity.(application.Application).Status]++
	}

	conventions, err := s.store.List(ctx, store.KindConvention, store.Filter{})
	if err != nil {
		return nil, err
	}
	items := make([]convention.Convention, 0, len(conventions))
	for _, entity := range conventions {
		c := entity.(convention.Convention)
		overview.ConventionsByStatus[c.Status]++
		items = append(items, c)
	}
	// Counted by the status the convention actually reached, so a
	// convention cancelled after collecting its signatures drops out.
	overview.FullySignedConventions = query.Count(items, func(c convention.Convention) bool {
		switch c.Status {
		case convention.StatusSigned, convention.StatusActive, convention.StatusCompleted:
			return true
		}
		return false
	})

	tasks, err := s.store.List(ctx, store.KindTask, store.Filter{})
	if err != nil {
		return nil, err
	}
	taskItems := make([]task.Task, 0, len(tasks))
	for _, entity := range tasks {
		t := entity.(task.Task)
		overview.TasksByStatus[t.Status]++
		taskItems = append(taskItems, t)
	}
	overview.OverdueTasks = query.Count(taskItems, func(t task.Task) bool {
		return workflow.IsOverdue(store.KindTask, string(t.Status), t.DueDate, now)
	})

	reports, err := s.store.List(ctx, store.KindReport, store.Filter{})
	if err != nil {
		return nil, err
	}
	reportItems := make([]evaluation.Report, 0, len(reports))
	for _, entity := range reports {
		reportItems = append(reportItems, entity.(evaluation.Report))
	}
	overview.OverdueReports = query.Count(reportItems, func(r evaluation.Report) bool {
		return workflow.IsOverdue(store.KindReport, string(r.Status), r.DueDate, now)
	})

	return overview, nil
}
