package app

import (
	"context"
	"testing"
	"time"

	"github.com/mike2377/gestion-stage-sub000/internal/common"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/stage"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/task"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/user"
	"github.com/mike2377/gestion-stage-sub000/internal/store"
)

func (e *env) seedTask(t *testing.T, stageID, studentID common.UUID, status task.Status, dueDate time.Time) task.Task {
	t.Helper()
	seeded := task.Task{
		ID:        common.NewUUID(),
		StageID:   stageID,
		StudentID: studentID,
		Title:     "literature review",
		DueDate:   dueDate,
		Status:    status,
		Priority:  task.PriorityMedium,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
	if err := e.store.Insert(context.Background(), store.KindTask, seeded); err != nil {
		t.Fatalf("seed task: %v", err)
	}
	return seeded
}

func TestCreateTask(t *testing.T) {
	e := newEnv(t)
	linked := e.seedStage(t, stage.StatusInProgress, common.NewUUID())
	tutor := actor(user.RoleTutor)
	created, err := e.tasks.Create(context.Background(), tutor, CreateTaskRequest{
		StageID: linked.ID,
		Title:   "set up the project",
		DueDate: testNow.Add(7 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != task.StatusPending {
		t.Fatalf("new task status = %s, want pending", created.Status)
	}
	if created.Priority != task.PriorityMedium {
		t.Fatalf("default priority = %s, want medium", created.Priority)
	}
	if created.StudentID != linked.StudentID || created.AssignerID != tutor.ID {
		t.Fatal("task must carry the stage's student and the assigner")
	}
	if created.Overdue {
		t.Fatal("future due date must not be overdue")
	}
}

func TestCreateTaskRequiresSupervisor(t *testing.T) {
	e := newEnv(t)
	linked := e.seedStage(t, stage.StatusInProgress, common.NewUUID())
	_, err := e.tasks.Create(context.Background(), actor(user.RoleStudent), CreateTaskRequest{
		StageID: linked.ID,
		Title:   "x",
		DueDate: testNow,
	})
	if !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestCreateTaskRequiresStudentOnStage(t *testing.T) {
	e := newEnv(t)
	vacant := e.seedStage(t, stage.StatusAvailable, "")
	_, err := e.tasks.Create(context.Background(), actor(user.RoleTutor), CreateTaskRequest{
		StageID: vacant.ID,
		Title:   "x",
		DueDate: testNow,
	})
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateTaskInvalidPriority(t *testing.T) {
	e := newEnv(t)
	linked := e.seedStage(t, stage.StatusInProgress, common.NewUUID())
	_, err := e.tasks.Create(context.Background(), actor(user.RoleTutor), CreateTaskRequest{
		StageID:  linked.ID,
		Title:    "x",
		DueDate:  testNow,
		Priority: task.Priority("extreme"),
	})
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTaskTransitionOwnership(t *testing.T) {
	e := newEnv(t)
	studentID := common.NewUUID()
	seeded := e.seedTask(t, common.NewUUID(), studentID, task.StatusPending, testNow.Add(24*time.Hour))

	_, err := e.tasks.Transition(context.Background(), actor(user.RoleStudent), seeded.ID, task.StatusPending, task.StatusInProgress)
	if !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden for another student, got %v", err)
	}

	owner := user.Actor{ID: studentID, Role: user.RoleStudent}
	updated, err := e.tasks.Transition(context.Background(), owner, seeded.ID, task.StatusPending, task.StatusInProgress)
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if updated.Status != task.StatusInProgress {
		t.Fatalf("status = %s, want in_progress", updated.Status)
	}
}

func TestUpdateProgress(t *testing.T) {
	e := newEnv(t)
	studentID := common.NewUUID()
	seeded := e.seedTask(t, common.NewUUID(), studentID, task.StatusInProgress, testNow.Add(24*time.Hour))
	owner := user.Actor{ID: studentID, Role: user.RoleStudent}

	updated, err := e.tasks.UpdateProgress(context.Background(), owner, seeded.ID, 60, 12.5)
	if err != nil {
		t.Fatalf("update progress: %v", err)
	}
	if updated.Progress != 60 || updated.ActualHours != 12.5 {
		t.Fatalf("progress=%d hours=%v", updated.Progress, updated.ActualHours)
	}

	for _, bad := range []int{-1, 101} {
		if _, err := e.tasks.UpdateProgress(context.Background(), owner, seeded.ID, bad, 0); !common.Is(err, common.CodeValidation) {
			t.Fatalf("progress %d: expected validation error, got %v", bad, err)
		}
	}
}

func TestUpdateProgressClosedTask(t *testing.T) {
	e := newEnv(t)
	studentID := common.NewUUID()
	seeded := e.seedTask(t, common.NewUUID(), studentID, task.StatusCompleted, testNow)
	owner := user.Actor{ID: studentID, Role: user.RoleStudent}
	_, err := e.tasks.UpdateProgress(context.Background(), owner, seeded.ID, 50, 0)
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error on closed task, got %v", err)
	}
}

func TestAddComment(t *testing.T) {
	e := newEnv(t)
	seeded := e.seedTask(t, common.NewUUID(), common.NewUUID(), task.StatusInProgress, testNow.Add(time.Hour))
	teacher := actor(user.RoleTeacher)

	first, err := e.tasks.AddComment(context.Background(), teacher, seeded.ID, "looks good so far")
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	second, err := e.tasks.AddComment(context.Background(), teacher, seeded.ID, "remember the deadline")
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if len(first.Comments) != 1 || len(second.Comments) != 2 {
		t.Fatalf("comment counts: %d then %d", len(first.Comments), len(second.Comments))
	}
	if second.Comments[0].Body != "looks good so far" {
		t.Fatal("comment order must be preserved")
	}

	if _, err := e.tasks.AddComment(context.Background(), teacher, seeded.ID, ""); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error on empty comment, got %v", err)
	}
}

func TestAddCommentParticipantsOnly(t *testing.T) {
	e := newEnv(t)
	studentID := common.NewUUID()
	linked := e.seedStage(t, stage.StatusInProgress, studentID)
	assigner := actor(user.RoleTutor)
	created, err := e.tasks.Create(context.Background(), assigner, CreateTaskRequest{
		StageID: linked.ID,
		Title:   "weekly summary",
		DueDate: testNow.Add(7 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	// The assigner and the task's student may comment.
	if _, err := e.tasks.AddComment(context.Background(), assigner, created.ID, "template attached"); err != nil {
		t.Fatalf("assigner comment: %v", err)
	}
	owner := user.Actor{ID: studentID, Role: user.RoleStudent}
	if _, err := e.tasks.AddComment(context.Background(), owner, created.ID, "will do"); err != nil {
		t.Fatalf("student comment: %v", err)
	}

	// Uninvolved actors may not.
	if _, err := e.tasks.AddComment(context.Background(), actor(user.RoleTutor), created.ID, "hi"); !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden for an uninvolved tutor, got %v", err)
	}
	if _, err := e.tasks.AddComment(context.Background(), actor(user.RoleStudent), created.ID, "hi"); !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden for another student, got %v", err)
	}
}

func TestTaskOverdueDerived(t *testing.T) {
	e := newEnv(t)
	stageID := common.NewUUID()
	studentID := common.NewUUID()
	// Due 2024-04-10, in progress, observed 2024-04-15: overdue.
	late := e.seedTask(t, stageID, studentID, task.StatusInProgress, time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC))
	// Same deadline but completed: not overdue.
	done := e.seedTask(t, stageID, studentID, task.StatusCompleted, time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC))
	// Due 2024-04-20: still on time.
	early := e.seedTask(t, stageID, studentID, task.StatusPending, time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC))

	views, err := e.tasks.List(context.Background(), actor(user.RoleTeacher), TaskFilter{StageID: stageID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	flags := map[common.UUID]bool{}
	for _, view := range views {
		flags[view.ID] = view.Overdue
	}
	if !flags[late.ID] || flags[done.ID] || flags[early.ID] {
		t.Fatalf("overdue flags: late=%v done=%v early=%v", flags[late.ID], flags[done.ID], flags[early.ID])
	}

	overdueOnly, err := e.tasks.List(context.Background(), actor(user.RoleTeacher), TaskFilter{StageID: stageID, Overdue: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(overdueOnly) != 1 || overdueOnly[0].ID != late.ID {
		t.Fatalf("overdue filter returned %d tasks", len(overdueOnly))
	}
}

func TestTaskReadsScopedByRole(t *testing.T) {
	e := newEnv(t)
	studentID := common.NewUUID()
	mine := e.seedTask(t, common.NewUUID(), studentID, task.StatusPending, testNow.Add(time.Hour))
	foreign := e.seedTask(t, common.NewUUID(), common.NewUUID(), task.StatusPending, testNow.Add(time.Hour))
	owner := user.Actor{ID: studentID, Role: user.RoleStudent}

	listed, err := e.tasks.List(context.Background(), owner, TaskFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != mine.ID {
		t.Fatalf("student list leaked other tasks: %d items", len(listed))
	}

	if _, err := e.tasks.Get(context.Background(), owner, foreign.ID); !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden reading another student's task, got %v", err)
	}
	if _, err := e.tasks.Get(context.Background(), owner, mine.ID); err != nil {
		t.Fatalf("get own task: %v", err)
	}
}
