package convention

import (
	"testing"

	"github.com/mike2377/gestion-stage-sub000/internal/common"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/user"
)

func pendingConvention(status Status) *Convention {
	c := &Convention{ID: common.NewUUID(), Status: status}
	for _, role := range RequiredSignerRoles {
		c.Signatures = append(c.Signatures, Signature{ID: common.NewUUID(), Role: role, Status: SignaturePending})
	}
	return c
}

func (c *Convention) set(role user.Role, status SignatureStatus) *Convention {
	for i := range c.Signatures {
		if c.Signatures[i].Role == role {
			c.Signatures[i].Status = status
		}
	}
	return c
}

func TestEffectiveStatusAllSigned(t *testing.T) {
	c := pendingConvention(StatusPending)
	for _, role := range RequiredSignerRoles {
		c.set(role, SignatureSigned)
	}
	if got := c.EffectiveStatus(); got != StatusSigned {
		t.Fatalf("all signed from pending = %s, want signed", got)
	}

	c = pendingConvention(StatusApproved)
	for _, role := range RequiredSignerRoles {
		c.set(role, SignatureSigned)
	}
	if got := c.EffectiveStatus(); got != StatusSigned {
		t.Fatalf("all signed from approved = %s, want signed", got)
	}
}

func TestEffectiveStatusPartialSet(t *testing.T) {
	c := pendingConvention(StatusPending)
	c.set(user.RoleStudent, SignatureSigned)
	c.set(user.RoleEnterprise, SignatureSigned)
	c.set(user.RoleTeacher, SignatureSigned)
	if got := c.EffectiveStatus(); got != StatusPending {
		t.Fatalf("three of four signed = %s, want pending", got)
	}
}

func TestEffectiveStatusDeclineWins(t *testing.T) {
	c := pendingConvention(StatusPending)
	c.set(user.RoleStudent, SignatureSigned)
	c.set(user.RoleEnterprise, SignatureSigned)
	c.set(user.RoleTeacher, SignatureSigned)
	c.set(user.RoleResponsible, SignatureDeclined)
	if got := c.EffectiveStatus(); got != StatusCancelled {
		t.Fatalf("declined signature = %s, want cancelled", got)
	}
}

func TestEffectiveStatusIdempotent(t *testing.T) {
	c := pendingConvention(StatusPending)
	c.set(user.RoleStudent, SignatureSigned)
	first := c.EffectiveStatus()
	second := c.EffectiveStatus()
	if first != second {
		t.Fatalf("same signature set yielded %s then %s", first, second)
	}
}

func TestEffectiveStatusIgnoresNonSignableParent(t *testing.T) {
	c := pendingConvention(StatusDraft)
	for _, role := range RequiredSignerRoles {
		c.set(role, SignatureSigned)
	}
	if got := c.EffectiveStatus(); got != StatusDraft {
		t.Fatalf("draft convention must not auto-advance, got %s", got)
	}
}

func TestProgress(t *testing.T) {
	c := pendingConvention(StatusPending)
	if got := c.Progress(); got != 0 {
		t.Fatalf("no signatures yields %v, want 0", got)
	}
	c.set(user.RoleStudent, SignatureSigned)
	if got := c.Progress(); got != 0.25 {
		t.Fatalf("one of four yields %v, want 0.25", got)
	}
	c.set(user.RoleEnterprise, SignatureSigned)
	c.set(user.RoleTeacher, SignatureSigned)
	c.set(user.RoleResponsible, SignatureSigned)
	if got := c.Progress(); got != 1 {
		t.Fatalf("all signed yields %v, want 1", got)
	}
}

func TestSignatureByRole(t *testing.T) {
	c := pendingConvention(StatusPending)
	if sig := c.SignatureByRole(user.RoleTeacher); sig == nil || sig.Role != user.RoleTeacher {
		t.Fatalf("expected teacher signature, got %v", sig)
	}
	if sig := c.SignatureByRole(user.RoleTutor); sig != nil {
		t.Fatalf("tutor has no designated signature, got %v", sig)
	}
}
