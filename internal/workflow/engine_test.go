package workflow_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mike2377/gestion-stage-sub000/internal/common"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/task"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/user"
	"github.com/mike2377/gestion-stage-sub000/internal/store"
	"github.com/mike2377/gestion-stage-sub000/internal/store/memory"
	"github.com/mike2377/gestion-stage-sub000/internal/workflow"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []workflow.Event
}

func (n *recordingNotifier) TransitionOccurred(ctx context.Context, event workflow.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func seedTask(t *testing.T, entityStore store.EntityStore, status task.Status) task.Task {
	t.Helper()
	seeded := task.Task{
		ID:        common.NewUUID(),
		StageID:   common.NewUUID(),
		StudentID: common.NewUUID(),
		Title:     "weekly sync notes",
		DueDate:   time.Now().Add(72 * time.Hour),
		Status:    status,
		Priority:  task.PriorityMedium,
	}
	if err := entityStore.Insert(context.Background(), store.KindTask, seeded); err != nil {
		t.Fatalf("seed task: %v", err)
	}
	return seeded
}

func TestEngineTransition(t *testing.T) {
	entityStore := memory.New()
	auditLog := memory.NewAuditLog()
	notifier := &recordingNotifier{}
	engine := workflow.NewEngine(entityStore, auditLog, notifier)
	seeded := seedTask(t, entityStore, task.StatusPending)
	student := user.Actor{ID: seeded.StudentID, Role: user.RoleStudent}

	updated, err := engine.Transition(context.Background(), student, store.KindTask, seeded.ID, "pending", "in_progress")
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if got := updated.(task.Task).Status; got != task.StatusInProgress {
		t.Fatalf("expected in_progress, got %s", got)
	}

	stored, version, err := entityStore.Get(context.Background(), store.KindTask, seeded.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := stored.(task.Task).Status; got != task.StatusInProgress {
		t.Fatalf("stored status = %s, want in_progress", got)
	}
	if version != 2 {
		t.Fatalf("version = %d, want 2", version)
	}

	trail, err := engine.Trail(context.Background(), store.KindTask, seeded.ID)
	if err != nil {
		t.Fatalf("trail: %v", err)
	}
	if len(trail) != 1 {
		t.Fatalf("expected one audit record, got %d", len(trail))
	}
	record := trail[0]
	if record.FromStatus != "pending" || record.ToStatus != "in_progress" {
		t.Fatalf("audit edge = %s->%s", record.FromStatus, record.ToStatus)
	}
	if record.ActorID != student.ID || record.ActorRole != user.RoleStudent {
		t.Fatalf("audit actor = %s %s", record.ActorID, record.ActorRole)
	}
	if len(notifier.events) != 1 || notifier.events[0].ToStatus != "in_progress" {
		t.Fatalf("expected one transition event, got %v", notifier.events)
	}
}

func TestEngineRejectsIllegalEdge(t *testing.T) {
	entityStore := memory.New()
	engine := workflow.NewEngine(entityStore, memory.NewAuditLog(), nil)
	seeded := seedTask(t, entityStore, task.StatusPending)
	student := user.Actor{ID: seeded.StudentID, Role: user.RoleStudent}

	_, err := engine.Transition(context.Background(), student, store.KindTask, seeded.ID, "completed", "pending")
	if !common.Is(err, common.CodeInvalidTransition) {
		t.Fatalf("expected invalid_transition, got %v", err)
	}

	stored, _, _ := entityStore.Get(context.Background(), store.KindTask, seeded.ID)
	if got := stored.(task.Task).Status; got != task.StatusPending {
		t.Fatalf("failed transition must not change status, got %s", got)
	}
	trail, _ := engine.Trail(context.Background(), store.KindTask, seeded.ID)
	if len(trail) != 0 {
		t.Fatalf("failed transition must not be audited, got %d records", len(trail))
	}
}

func TestEngineRejectsForbiddenRole(t *testing.T) {
	entityStore := memory.New()
	engine := workflow.NewEngine(entityStore, memory.NewAuditLog(), nil)
	seeded := seedTask(t, entityStore, task.StatusPending)
	student := user.Actor{ID: seeded.StudentID, Role: user.RoleStudent}

	// Cancelling a task is a supervisor move even though the edge itself
	// is legal.
	_, err := engine.Transition(context.Background(), student, store.KindTask, seeded.ID, "pending", "cancelled")
	if !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	stored, _, _ := entityStore.Get(context.Background(), store.KindTask, seeded.ID)
	if got := stored.(task.Task).Status; got != task.StatusPending {
		t.Fatalf("denied transition must not change status, got %s", got)
	}
}

func TestEngineRejectsStaleExpectation(t *testing.T) {
	entityStore := memory.New()
	engine := workflow.NewEngine(entityStore, memory.NewAuditLog(), nil)
	seeded := seedTask(t, entityStore, task.StatusInProgress)
	student := user.Actor{ID: seeded.StudentID, Role: user.RoleStudent}

	// The caller believes the task is still pending; someone already
	// started it.
	_, err := engine.Transition(context.Background(), student, store.KindTask, seeded.ID, "pending", "completed")
	if !common.Is(err, common.CodeConcurrentModification) {
		t.Fatalf("expected concurrent_modification, got %v", err)
	}
}

func TestEngineUnknownEntity(t *testing.T) {
	engine := workflow.NewEngine(memory.New(), memory.NewAuditLog(), nil)
	actor := user.Actor{ID: common.NewUUID(), Role: user.RoleAdmin}
	_, err := engine.Transition(context.Background(), actor, store.KindTask, common.NewUUID(), "pending", "in_progress")
	if !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestEngineConcurrentWritersExactlyOneWins(t *testing.T) {
	entityStore := memory.New()
	engine := workflow.NewEngine(entityStore, memory.NewAuditLog(), nil)
	seeded := seedTask(t, entityStore, task.StatusPending)
	student := user.Actor{ID: seeded.StudentID, Role: user.RoleStudent}

	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = engine.Transition(context.Background(), student, store.KindTask, seeded.ID, "pending", "in_progress")
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		if !common.Is(err, common.CodeConcurrentModification) && !common.Is(err, common.CodeInvalidTransition) {
			t.Fatalf("unexpected loser error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
	stored, _, _ := entityStore.Get(context.Background(), store.KindTask, seeded.ID)
	if got := stored.(task.Task).Status; got != task.StatusInProgress {
		t.Fatalf("final status = %s, want in_progress", got)
	}
	trail, _ := engine.Trail(context.Background(), store.KindTask, seeded.ID)
	if len(trail) != 1 {
		t.Fatalf("expected exactly one audit record, got %d", len(trail))
	}
}
