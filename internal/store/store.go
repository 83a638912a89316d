package store

import (
	"context"

	"github.com/mike2377/gestion-stage-sub000/internal/common"
)

type Kind string

const (
	KindStage       Kind = "stage"
	KindApplication Kind = "application"
	KindConvention  Kind = "convention"
	KindTask        Kind = "task"
	KindEvaluation  Kind = "evaluation"
	KindReport      Kind = "report"
	KindUser        Kind = "user"
)

// KindSignature only appears in the audit trail and in events; signatures
// are owned by their convention record and never stored standalone.
const KindSignature Kind = "signature"

// Filter narrows a List call. Tags is pushed down to the backend where the
// backend supports it; Match runs over decoded entities and composes with
// Tags by AND. A zero Filter selects everything.
type Filter struct {
	Tags  []string
	Match func(entity any) bool
}

// Write is one compare-and-swap replacement of a record. The write commits
// only if the stored version still equals ExpectedVersion.
type Write struct {
	Kind            Kind
	ID              common.UUID
	ExpectedVersion int64
	Entity          any
}

// EntityStore holds versioned records per kind. Implementations must make
// CASUpdateAll atomic: either every write commits or none does.
type EntityStore interface {
	Get(ctx context.Context, kind Kind, id common.UUID) (entity any, version int64, err error)
	List(ctx context.Context, kind Kind, filter Filter) ([]any, error)
	Insert(ctx context.Context, kind Kind, entity any) error
	CASUpdate(ctx context.Context, write Write) (version int64, err error)
	CASUpdateAll(ctx context.Context, writes []Write) error
}

func ErrNotFound(kind Kind) error {
	return common.NewError(common.CodeNotFound, string(kind)+" not found", nil)
}

func ErrVersionConflict(kind Kind) error {
	return common.NewError(common.CodeConcurrentModification, string(kind)+" was modified concurrently", nil)
}
