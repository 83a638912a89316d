package convention

// EffectiveStatus computes the status implied by the signature set. A
// declined signature is terminal and overrides everything; a complete
// signed set advances a pending or approved convention to signed. The
// computation is idempotent: the same signature set always yields the
// same status, with no hidden counters.
func (c *Convention) EffectiveStatus() Status {
	for _, sig := range c.Signatures {
		if sig.Status == SignatureDeclined {
			return StatusCancelled
		}
	}
	if c.Status != StatusPending && c.Status != StatusApproved {
		return c.Status
	}
	if len(c.Signatures) < len(RequiredSignerRoles) {
		return c.Status
	}
	for _, role := range RequiredSignerRoles {
		sig := c.SignatureByRole(role)
		if sig == nil || sig.Status != SignatureSigned {
			return c.Status
		}
	}
	return StatusSigned
}

// Progress is the displayed signing progress: signed over required.
func (c *Convention) Progress() float64 {
	total := len(RequiredSignerRoles)
	if total == 0 {
		return 0
	}
	return float64(c.SignedCount()) / float64(total)
}
