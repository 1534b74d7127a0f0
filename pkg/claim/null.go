package claim

import "context"

// NullClaimer grants every claim.
// Useful for single-worker runs and tests.
type NullClaimer struct{}

// NewNull creates a null claimer.
func NewNull() Claimer {
	return &NullClaimer{}
}

// Claim always succeeds.
func (NullClaimer) Claim(ctx context.Context, index int) (Release, error) {
	return noopRelease, nil
}

// Ensure NullClaimer implements Claimer.
var _ Claimer = (*NullClaimer)(nil)
