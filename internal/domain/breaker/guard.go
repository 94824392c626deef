package breaker

// RequireNotPaused is the precondition for operations that must not run
// while a pause is in force. Gated operations call it first and propagate
// the failure.
func (b *Breaker) RequireNotPaused() error {
	if b.state.IsPaused() {
		return ErrEnforcedPause
	}

	return nil
}

// RequirePaused is the precondition for operations that may only run while
// a pause is in force.
func (b *Breaker) RequirePaused() error {
	if !b.state.IsPaused() {
		return ErrExpectedPause
	}

	return nil
}
