package app

import (
	"context"
	"testing"
	"time"

	"github.com/mike2377/gestion-stage-sub000/internal/common"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/application"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/stage"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/user"
	"github.com/mike2377/gestion-stage-sub000/internal/store"
	"github.com/mike2377/gestion-stage-sub000/internal/store/memory"
	"github.com/mike2377/gestion-stage-sub000/internal/workflow"
)

// testNow keeps the derived overdue checks deterministic.
var testNow = time.Date(2024, 4, 15, 12, 0, 0, 0, time.UTC)

type env struct {
	store       *memory.Store
	audit       *memory.AuditLog
	engine      *workflow.Engine
	stages      *StageService
	apps        *ApplicationService
	conventions *ConventionService
	tasks       *TaskService
	evaluations *EvaluationService
	stats       *StatsService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	entityStore := memory.New()
	auditLog := memory.NewAuditLog()
	engine := workflow.NewEngine(entityStore, auditLog, nil)
	e := &env{
		store:       entityStore,
		audit:       auditLog,
		engine:      engine,
		stages:      NewStageService(entityStore, engine),
		apps:        NewApplicationService(entityStore, engine),
		conventions: NewConventionService(entityStore, engine),
		tasks:       NewTaskService(entityStore, engine),
		evaluations: NewEvaluationService(entityStore, engine),
		stats:       NewStatsService(entityStore),
	}
	clock := func() time.Time { return testNow }
	e.stages.now = clock
	e.apps.now = clock
	e.conventions.now = clock
	e.tasks.now = clock
	e.evaluations.now = clock
	e.stats.now = clock
	return e
}

func (e *env) seedStage(t *testing.T, status stage.Status, studentID common.UUID) stage.Stage {
	t.Helper()
	seeded := stage.Stage{
		ID:           common.NewUUID(),
		Title:        "data platform internship",
		Requirements: []string{"go", "sql"},
		StartDate:    testNow,
		EndDate:      testNow.Add(90 * 24 * time.Hour),
		Location:     "Lyon",
		Status:       status,
		StudentID:    studentID,
		TeacherID:    common.NewUUID(),
		EnterpriseID: common.NewUUID(),
		Program:      "M1 Informatique",
		Year:         2024,
		CreatedAt:    testNow,
		UpdatedAt:    testNow,
	}
	if err := e.store.Insert(context.Background(), store.KindStage, seeded); err != nil {
		t.Fatalf("seed stage: %v", err)
	}
	return seeded
}

func (e *env) seedApplication(t *testing.T, stageID, studentID common.UUID, status application.Status) application.Application {
	t.Helper()
	seeded := application.Application{
		ID:        common.NewUUID(),
		StageID:   stageID,
		StudentID: studentID,
		Status:    status,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
	if err := e.store.Insert(context.Background(), store.KindApplication, seeded); err != nil {
		t.Fatalf("seed application: %v", err)
	}
	return seeded
}

func actor(role user.Role) user.Actor {
	return user.Actor{ID: common.NewUUID(), Role: role}
}
