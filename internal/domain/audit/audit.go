package audit

import (
	"context"
	"time"

	"github.com/mike2377/gestion-stage-sub000/internal/common"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/user"
)

// Record is one immutable entry in the append-only transition log.
type Record struct {
	ID         common.UUID `json:"id"`
	EntityKind string      `json:"entity_kind"`
	EntityID   common.UUID `json:"entity_id"`
	FromStatus string      `json:"from_status"`
	ToStatus   string      `json:"to_status"`
	ActorID    common.UUID `json:"actor_id"`
	ActorRole  user.Role   `json:"actor_role"`
	OccurredAt time.Time   `json:"occurred_at"`
}

type Repository interface {
	Append(ctx context.Context, record Record) error
	Trail(ctx context.Context, entityKind string, entityID common.UUID) ([]Record, error)
}
