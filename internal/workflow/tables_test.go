package workflow

import (
	"testing"

	"github.com/mike2377/gestion-stage-sub000/internal/store"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		kind store.Kind
		from string
		to   string
		want bool
	}{
		{store.KindStage, "available", "assigned", true},
		{store.KindStage, "available", "cancelled", true},
		{store.KindStage, "available", "completed", false},
		{store.KindStage, "assigned", "in_progress", true},
		{store.KindStage, "in_progress", "completed", true},
		{store.KindStage, "in_progress", "terminated", true},
		{store.KindStage, "completed", "in_progress", false},
		{store.KindStage, "cancelled", "available", false},
		{store.KindApplication, "pending", "accepted", true},
		{store.KindApplication, "pending", "withdrawn", true},
		{store.KindApplication, "accepted", "rejected", false},
		{store.KindApplication, "withdrawn", "pending", false},
		{store.KindConvention, "draft", "pending", true},
		{store.KindConvention, "draft", "approved", false},
		{store.KindConvention, "pending", "approved", true},
		{store.KindConvention, "pending", "signed", true},
		{store.KindConvention, "approved", "signed", true},
		{store.KindConvention, "signed", "active", true},
		{store.KindConvention, "signed", "cancelled", false},
		{store.KindConvention, "active", "completed", true},
		{store.KindConvention, "completed", "active", false},
		{store.KindSignature, "pending", "signed", true},
		{store.KindSignature, "pending", "declined", true},
		{store.KindSignature, "signed", "pending", false},
		{store.KindSignature, "declined", "signed", false},
		{store.KindTask, "pending", "in_progress", true},
		{store.KindTask, "pending", "completed", true},
		{store.KindTask, "completed", "in_progress", false},
		{store.KindEvaluation, "draft", "submitted", true},
		{store.KindEvaluation, "draft", "approved", false},
		{store.KindEvaluation, "submitted", "reviewed", true},
		{store.KindEvaluation, "reviewed", "approved", true},
		{store.KindEvaluation, "approved", "draft", false},
		{store.KindReport, "submitted", "rejected", true},
		{store.KindReport, "rejected", "submitted", false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.kind, tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s, %s) = %v, want %v", tc.kind, tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	terminal := []struct {
		kind   store.Kind
		status string
	}{
		{store.KindStage, "completed"},
		{store.KindStage, "terminated"},
		{store.KindStage, "cancelled"},
		{store.KindApplication, "accepted"},
		{store.KindApplication, "rejected"},
		{store.KindApplication, "withdrawn"},
		{store.KindConvention, "completed"},
		{store.KindConvention, "cancelled"},
		{store.KindSignature, "signed"},
		{store.KindSignature, "declined"},
		{store.KindTask, "completed"},
		{store.KindTask, "cancelled"},
		{store.KindEvaluation, "approved"},
		{store.KindEvaluation, "rejected"},
		{store.KindReport, "approved"},
	}
	for _, tc := range terminal {
		if !Terminal(tc.kind, tc.status) {
			t.Errorf("Terminal(%s, %s) = false, want true", tc.kind, tc.status)
		}
	}
	open := []struct {
		kind   store.Kind
		status string
	}{
		{store.KindStage, "available"},
		{store.KindStage, "in_progress"},
		{store.KindApplication, "pending"},
		{store.KindConvention, "signed"},
		{store.KindTask, "in_progress"},
		{store.KindReport, "reviewed"},
	}
	for _, tc := range open {
		if Terminal(tc.kind, tc.status) {
			t.Errorf("Terminal(%s, %s) = true, want false", tc.kind, tc.status)
		}
	}
}

func TestReachableCopies(t *testing.T) {
	first := Reachable(store.KindStage, "available")
	if len(first) != 2 {
		t.Fatalf("expected 2 targets from available, got %v", first)
	}
	first[0] = "mutated"
	second := Reachable(store.KindStage, "available")
	if second[0] == "mutated" {
		t.Fatal("Reachable leaked the internal table slice")
	}
}
