package workflow

import (
	"time"

	"github.com/mike2377/gestion-stage-sub000/internal/store"
)

// IsOverdue reports whether a deadline has passed without the entity
// reaching a terminal status. Pure; the result is recomputed at read time
// and never persisted.
func IsOverdue(kind store.Kind, status string, dueDate, now time.Time) bool {
	if Terminal(kind, status) {
		return false
	}
	return now.After(dueDate)
}
