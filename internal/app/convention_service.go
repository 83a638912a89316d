package app

import (
	"context"
	"time"

	"github.com/mike2377/gestion-stage-sub000/internal/common"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/convention"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/stage"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/user"
	"github.com/mike2377/gestion-stage-sub000/internal/store"
	"github.com/mike2377/gestion-stage-sub000/internal/workflow"
)

type ConventionService struct {
	store  store.EntityStore
	engine *workflow.Engine
	now    func() time.Time
}

func NewConventionService(entityStore store.EntityStore, engine *workflow.Engine) *ConventionService {
	return &ConventionService{store: entityStore, engine: engine, now: func() time.Time { return time.Now().UTC() }}
}

type CreateConventionRequest struct {
	StageID      common.UUID `json:"stage_id" validate:"required"`
	Reference    string      `json:"reference" validate:"required"`
	WorkSchedule string      `json:"work_schedule" validate:"required"`
}

// Create drafts the convention for a stage that already has its student.
func (s *ConventionService) Create(ctx context.Context, actor user.Actor, req CreateConventionRequest) (*convention.Convention, error) {
	if actor.Role == user.RoleStudent || actor.Role == user.RoleTutor {
		return nil, common.NewError(common.CodeForbidden, "only enterprises, teachers and responsibles may draft conventions", nil)
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	entity, _, err := s.store.Get(ctx, store.KindStage, req.StageID)
	if err != nil {
		return nil, err
	}
	linked := entity.(stage.Stage)
	if linked.StudentID.IsZero() {
		return nil, common.NewError(common.CodeValidation, "stage has no assigned student", nil)
	}
	existing, err := s.store.List(ctx, store.KindConvention, store.Filter{Match: func(item any) bool {
		c := item.(convention.Convention)
		return c.StageID == req.StageID && c.Status != convention.StatusCancelled
	}})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, common.NewError(common.CodeConflict, "stage already has a convention", nil)
	}
	now := s.now()
	created := convention.Convention{
		ID:           common.NewUUID(),
		Reference:    req.Reference,
		StageID:      req.StageID,
		StudentID:    linked.StudentID,
		EnterpriseID: linked.EnterpriseID,
		WorkSchedule: req.WorkSchedule,
		Status:       convention.StatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Insert(ctx, store.KindConvention, created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ConventionView decorates a convention with its derived signing progress.
type ConventionView struct {
	convention.Convention
	Progress float64 `json:"progress"`
}

func (s *ConventionService) Get(ctx context.Context, id common.UUID) (*ConventionView, error) {
	entity, _, err := s.store.Get(ctx, store.KindConvention, id)
	if err != nil {
		return nil, err
	}
	found := entity.(convention.Convention)
	return &ConventionView{Convention: found, Progress: found.Progress()}, nil
}

// Submit moves a draft to pending and opens one pending signature per
// required role. The status change and the signature set commit together.
func (s *ConventionService) Submit(ctx context.Context, actor user.Actor, id common.UUID) (*ConventionView, error) {
	entity, version, err := s.store.Get(ctx, store.KindConvention, id)
	if err != nil {
		return nil, err
	}
	current := entity.(convention.Convention)
	if err := s.engine.Validate(store.KindConvention, string(current.Status), string(convention.StatusPending)); err != nil {
		return nil, err
	}
	if err := s.engine.Authorize(actor, store.KindConvention, string(current.Status), string(convention.StatusPending)); err != nil {
		return nil, err
	}
	if current.Reference == "" || current.WorkSchedule == "" {
		return nil, common.NewValidationError("convention is incomplete", map[string]string{"reference": "is required", "work_schedule": "is required"})
	}
	updated := current
	updated.Status = convention.StatusPending
	updated.UpdatedAt = s.now()
	updated.Signatures = make([]convention.Signature, 0, len(convention.RequiredSignerRoles))
	for _, role := range convention.RequiredSignerRoles {
		updated.Signatures = append(updated.Signatures, convention.Signature{
			ID:     common.NewUUID(),
			Role:   role,
			Status: convention.SignaturePending,
		})
	}
	if _, err := s.store.CASUpdate(ctx, store.Write{Kind: store.KindConvention, ID: id, ExpectedVersion: version, Entity: updated}); err != nil {
		return nil, err
	}
	if err := s.engine.Committed(ctx, actor, store.KindConvention, id, string(current.Status), string(convention.StatusPending)); err != nil {
		return nil, err
	}
	return &ConventionView{Convention: updated, Progress: updated.Progress()}, nil
}

// Transition covers the directly requested convention moves: approve,
// activate, complete, cancel.
func (s *ConventionService) Transition(ctx context.Context, actor user.Actor, id common.UUID, from, to convention.Status) (*ConventionView, error) {
	updated, err := s.engine.Transition(ctx, actor, store.KindConvention, id, string(from), string(to))
	if err != nil {
		return nil, err
	}
	result := updated.(convention.Convention)
	return &ConventionView{Convention: result, Progress: result.Progress()}, nil
}

// Sign records the actor's signature. The signature write and the
// recomputed convention status commit in one compare-and-swap, so a
// complete signature set is never observable ahead of the signed status.
func (s *ConventionService) Sign(ctx context.Context, actor user.Actor, id common.UUID) (*ConventionView, error) {
	return s.resolveSignature(ctx, actor, id, convention.SignatureSigned)
}

// Decline is terminal for the signer and forces the convention to
// cancelled regardless of the other parties.
func (s *ConventionService) Decline(ctx context.Context, actor user.Actor, id common.UUID) (*ConventionView, error) {
	return s.resolveSignature(ctx, actor, id, convention.SignatureDeclined)
}

func (s *ConventionService) resolveSignature(ctx context.Context, actor user.Actor, id common.UUID, target convention.SignatureStatus) (*ConventionView, error) {
	entity, version, err := s.store.Get(ctx, store.KindConvention, id)
	if err != nil {
		return nil, err
	}
	current := entity.(convention.Convention)
	if current.Status != convention.StatusPending && current.Status != convention.StatusApproved {
		return nil, common.NewError(common.CodeInvalidTransition, "convention is not awaiting signatures", nil)
	}
	designated := current.SignatureByRole(actor.Role)
	if designated == nil {
		return nil, common.NewError(common.CodeForbidden, "no signature designated for role "+string(actor.Role), nil)
	}
	if err := s.signerParty(ctx, actor, current); err != nil {
		return nil, err
	}
	if err := s.engine.Validate(store.KindSignature, string(designated.Status), string(target)); err != nil {
		return nil, err
	}
	if err := s.engine.Authorize(actor, store.KindSignature, string(designated.Status), string(target)); err != nil {
		return nil, err
	}

	now := s.now()
	updated := current
	updated.Signatures = make([]convention.Signature, len(current.Signatures))
	copy(updated.Signatures, current.Signatures)
	for i := range updated.Signatures {
		if updated.Signatures[i].Role != actor.Role {
			continue
		}
		updated.Signatures[i].Status = target
		updated.Signatures[i].SignerID = actor.ID
		if target == convention.SignatureSigned {
			signedAt := now
			updated.Signatures[i].SignedAt = &signedAt
		}
	}

	next := updated.EffectiveStatus()
	if next != current.Status {
		if err := s.engine.Validate(store.KindConvention, string(current.Status), string(next)); err != nil {
			return nil, err
		}
		if err := s.engine.Authorize(actor, store.KindConvention, string(current.Status), string(next)); err != nil {
			return nil, err
		}
		updated.Status = next
	}
	updated.UpdatedAt = now

	if _, err := s.store.CASUpdate(ctx, store.Write{Kind: store.KindConvention, ID: id, ExpectedVersion: version, Entity: updated}); err != nil {
		return nil, err
	}
	if err := s.engine.Committed(ctx, actor, store.KindSignature, designated.ID, string(convention.SignaturePending), string(target)); err != nil {
		return nil, err
	}
	if next != current.Status {
		if err := s.engine.Committed(ctx, actor, store.KindConvention, id, string(current.Status), string(next)); err != nil {
			return nil, err
		}
	}
	return &ConventionView{Convention: updated, Progress: updated.Progress()}, nil
}

// signerParty checks that the actor is the convention's own party for
// its role: the assigned student, the posting enterprise, or the stage's
// supervising teacher. Responsibles sign for the institution and carry
// no per-convention binding.
func (s *ConventionService) signerParty(ctx context.Context, actor user.Actor, current convention.Convention) error {
	switch actor.Role {
	case user.RoleStudent:
		if actor.ID != current.StudentID {
			return common.NewError(common.CodeForbidden, "convention belongs to another student", nil)
		}
	case user.RoleEnterprise:
		if actor.ID != current.EnterpriseID && (actor.OrganizationID.IsZero() || actor.OrganizationID != current.EnterpriseID) {
			return common.NewError(common.CodeForbidden, "convention belongs to another enterprise", nil)
		}
	case user.RoleTeacher:
		entity, _, err := s.store.Get(ctx, store.KindStage, current.StageID)
		if err != nil {
			return err
		}
		if entity.(stage.Stage).TeacherID != actor.ID {
			return common.NewError(common.CodeForbidden, "stage is supervised by another teacher", nil)
		}
	}
	return nil
}

type ConventionFilter struct {
	StageID   common.UUID
	StudentID common.UUID
	Status    convention.Status
}

func (s *ConventionService) List(ctx context.Context, filter ConventionFilter) ([]ConventionView, error) {
	entities, err := s.store.List(ctx, store.KindConvention, store.Filter{Match: func(item any) bool {
		c := item.(convention.Convention)
		if !filter.StageID.IsZero() && c.StageID != filter.StageID {
			return false
		}
		if !filter.StudentID.IsZero() && c.StudentID != filter.StudentID {
			return false
		}
		if filter.Status != "" && c.Status != filter.Status {
			return false
		}
		return true
	}})
	if err != nil {
		return nil, err
	}
	views := make([]ConventionView, 0, len(entities))
	for _, entity := range entities {
		c := entity.(convention.Convention)
		views = append(views, ConventionView{Convention: c, Progress: c.Progress()})
	}
	return views, nil
}
