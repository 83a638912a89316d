package workflow

import (
	"testing"
	"time"

	"github.com/mike2377/gestion-stage-sub000/internal/store"
)

func TestIsOverdue(t *testing.T) {
	due := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)
	before := due.Add(-48 * time.Hour)
	after := due.Add(48 * time.Hour)

	if IsOverdue(store.KindTask, "in_progress", due, before) {
		t.Fatal("not overdue before the deadline")
	}
	if IsOverdue(store.KindTask, "in_progress", due, due) {
		t.Fatal("the deadline itself is not past due")
	}
	if !IsOverdue(store.KindTask, "in_progress", due, after) {
		t.Fatal("open task past its deadline must be overdue")
	}
	if !IsOverdue(store.KindTask, "pending", due, after) {
		t.Fatal("pending task past its deadline must be overdue")
	}
	if IsOverdue(store.KindTask, "completed", due, after) {
		t.Fatal("completed task is never overdue")
	}
	if IsOverdue(store.KindTask, "cancelled", due, after) {
		t.Fatal("cancelled task is never overdue")
	}
	if !IsOverdue(store.KindReport, "submitted", due, after) {
		t.Fatal("submitted report past its deadline must be overdue")
	}
	if IsOverdue(store.KindReport, "approved", due, after) {
		t.Fatal("approved report is never overdue")
	}
}

// Once past due, an open entity stays overdue as time advances.
func TestIsOverdueMonotonic(t *testing.T) {
	due := time.Date(2024, 4, 12, 0, 0, 0, 0, time.UTC)
	now := due.Add(time.Minute)
	for i := 0; i < 5; i++ {
		if !IsOverdue(store.KindTask, "in_progress", due, now) {
			t.Fatalf("expected overdue at %v", now)
		}
		now = now.Add(24 * time.Hour)
	}
}
