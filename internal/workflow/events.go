package workflow

import (
	"context"
	"time"

	"github.com/mike2377/gestion-stage-sub000/internal/common"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/user"
	"github.com/mike2377/gestion-stage-sub000/internal/store"
)

// Event describes a committed transition. The engine only decides that a
// notification is due; delivery belongs entirely to the consumer.
type Event struct {
	EntityKind store.Kind  `json:"entity_kind"`
	EntityID   common.UUID `json:"entity_id"`
	FromStatus string      `json:"from_status"`
	ToStatus   string      `json:"to_status"`
	ActorID    common.UUID `json:"actor_id"`
	ActorRole  user.Role   `json:"actor_role"`
	OccurredAt time.Time   `json:"occurred_at"`
}

type Notifier interface {
	TransitionOccurred(ctx context.Context, event Event)
}

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) TransitionOccurred(context.Context, Event) {}
