package app

import (
	"context"
	"testing"
	"time"

	"github.com/mike2377/gestion-stage-sub000/internal/common"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/application"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/convention"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/stage"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/task"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/user"
)

func TestStatsOverview(t *testing.T) {
	e := newEnv(t)
	open := e.seedStage(t, stage.StatusAvailable, "")
	e.seedStage(t, stage.StatusAvailable, "")
	running := e.seedStage(t, stage.StatusInProgress, common.NewUUID())
	e.seedApplication(t, open.ID, common.NewUUID(), application.StatusPending)
	e.seedApplication(t, open.ID, common.NewUUID(), application.StatusRejected)
	e.seedTask(t, running.ID, running.StudentID, task.StatusInProgress, time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC))
	e.seedTask(t, running.ID, running.StudentID, task.StatusPending, time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC))

	submitted, linked := e.pendingConvention(t)
	for _, role := range convention.RequiredSignerRoles {
		if _, err := e.conventions.Sign(context.Background(), party(role, linked), submitted.ID); err != nil {
			t.Fatalf("sign as %s: %v", role, err)
		}
	}

	overview, err := e.stats.Overview(context.Background())
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.StagesByStatus[stage.StatusAvailable] != 2 {
		t.Fatalf("available stages = %d, want 2", overview.StagesByStatus[stage.StatusAvailable])
	}
	if overview.StagesByStatus[stage.StatusInProgress] != 1 {
		t.Fatalf("in_progress stages = %d, want 1", overview.StagesByStatus[stage.StatusInProgress])
	}
	if overview.ApplicationsByStatus[application.StatusPending] != 1 || overview.ApplicationsByStatus[application.StatusRejected] != 1 {
		t.Fatalf("application counts: %v", overview.ApplicationsByStatus)
	}
	if overview.TasksByStatus[task.StatusInProgress] != 1 || overview.TasksByStatus[task.StatusPending] != 1 {
		t.Fatalf("task counts: %v", overview.TasksByStatus)
	}
	if overview.OverdueTasks != 1 {
		t.Fatalf("overdue tasks = %d, want 1", overview.OverdueTasks)
	}
	if overview.ConventionsByStatus[convention.StatusSigned] != 1 {
		t.Fatalf("signed conventions = %d, want 1", overview.ConventionsByStatus[convention.StatusSigned])
	}
	if overview.FullySignedConventions != 1 {
		t.Fatalf("fully signed conventions = %d, want 1", overview.FullySignedConventions)
	}
}

func TestStatsFullySignedExcludesCancelled(t *testing.T) {
	e := newEnv(t)
	submitted, linked := e.pendingConvention(t)
	for _, role := range convention.RequiredSignerRoles {
		if _, err := e.conventions.Sign(context.Background(), party(role, linked), submitted.ID); err != nil {
			t.Fatalf("sign as %s: %v", role, err)
		}
	}
	responsible := actor(user.RoleResponsible)
	if _, err := e.conventions.Transition(context.Background(), responsible, submitted.ID, convention.StatusSigned, convention.StatusActive); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if _, err := e.conventions.Transition(context.Background(), responsible, submitted.ID, convention.StatusActive, convention.StatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	overview, err := e.stats.Overview(context.Background())
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.FullySignedConventions != 0 {
		t.Fatalf("fully signed conventions = %d, want 0: cancelled conventions keep their signatures but no longer count", overview.FullySignedConventions)
	}
	if overview.ConventionsByStatus[convention.StatusCancelled] != 1 {
		t.Fatalf("cancelled conventions = %d, want 1", overview.ConventionsByStatus[convention.StatusCancelled])
	}
}
