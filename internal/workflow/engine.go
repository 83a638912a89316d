package workflow

import (
	"context"
	"time"

	"github.com/mike2377/gestion-stage-sub000/internal/common"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/audit"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/user"
	"github.com/mike2377/gestion-stage-sub000/internal/store"
)

// Engine validates and applies single-entity status changes. Every write
// is a compare-and-swap against the store; a losing writer gets a
// concurrent_modification error and must re-read before retrying. The
// engine itself never retries.
type Engine struct {
	store    store.EntityStore
	audit    audit.Repository
	notifier Notifier
	now      func() time.Time
}

func NewEngine(entityStore store.EntityStore, auditRepo audit.Repository, notifier Notifier) *Engine {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Engine{store: entityStore, audit: auditRepo, notifier: notifier, now: func() time.Time { return time.Now().UTC() }}
}

// Transition moves the entity from fromExpected to to on behalf of actor.
// The current status is read from the store immediately before the check,
// never trusted from the caller. On success the updated entity is
// returned, an audit record appended and a transition event emitted.
func (e *Engine) Transition(ctx context.Context, actor user.Actor, kind store.Kind, id common.UUID, fromExpected, to string) (any, error) {
	entity, version, err := e.store.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	current, err := store.StatusOf(kind, entity)
	if err != nil {
		return nil, err
	}
	if !CanTransition(kind, current, to) {
		return nil, ErrInvalidTransition(kind, current, to)
	}
	if !IsAllowed(actor.Role, kind, current, to) {
		return nil, ErrUnauthorized(actor.Role, kind, current, to)
	}
	if current != fromExpected {
		return nil, store.ErrVersionConflict(kind)
	}
	updated, err := store.WithStatus(kind, entity, to)
	if err != nil {
		return nil, err
	}
	if _, err := e.store.CASUpdate(ctx, store.Write{Kind: kind, ID: id, ExpectedVersion: version, Entity: updated}); err != nil {
		return nil, err
	}
	if err := e.Committed(ctx, actor, kind, id, current, to); err != nil {
		return nil, err
	}
	return updated, nil
}

// Validate checks the edge against the transition table only.
func (e *Engine) Validate(kind store.Kind, from, to string) error {
	if !CanTransition(kind, from, to) {
		return ErrInvalidTransition(kind, from, to)
	}
	return nil
}

// Authorize checks the edge against the role matrix only.
func (e *Engine) Authorize(actor user.Actor, kind store.Kind, from, to string) error {
	if !IsAllowed(actor.Role, kind, from, to) {
		return ErrUnauthorized(actor.Role, kind, from, to)
	}
	return nil
}

// Committed records an already-committed transition: it appends the audit
// record and emits the event. Services performing composite
// compare-and-swap batches call this once per constituent transition after
// the batch commits.
func (e *Engine) Committed(ctx context.Context, actor user.Actor, kind store.Kind, entityID common.UUID, from, to string) error {
	occurredAt := e.now()
	record := audit.Record{
		ID:         common.NewUUID(),
		EntityKind: string(kind),
		EntityID:   entityID,
		FromStatus: from,
		ToStatus:   to,
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		OccurredAt: occurredAt,
	}
	if err := e.audit.Append(ctx, record); err != nil {
		return err
	}
	e.notifier.TransitionOccurred(ctx, Event{
		EntityKind: kind,
		EntityID:   entityID,
		FromStatus: from,
		ToStatus:   to,
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		OccurredAt: occurredAt,
	})
	return nil
}

// Trail returns the ordered audit records for one entity.
func (e *Engine) Trail(ctx context.Context, kind store.Kind, entityID common.UUID) ([]audit.Record, error) {
	return e.audit.Trail(ctx, string(kind), entityID)
}
