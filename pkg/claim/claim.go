// Package claim serializes workers that might process the same transition.
//
// Checking whether a checkpoint exists and then writing one is not atomic, so
// two workers given overlapping index ranges could both synthesize the same
// transition. A [Claimer] hands out an exclusive, advisory claim per
// transition index before synthesis begins. A worker that fails to claim
// skips the transition and leaves it to the owner.
//
// Three implementations are provided:
//   - [NullClaimer] grants every claim (single worker)
//   - [FileClaimer] creates a claim file with O_EXCL next to the checkpoint
//   - [RedisClaimer] uses SET NX PX so workers on different hosts coordinate
package claim

import (
	"context"
	"time"
)

// Release gives up a claim. It is safe to call after the claim expired.
type Release func(ctx context.Context) error

// Claimer grants exclusive claims on transition indices.
//
// Claim returns a CLAIMED error when another owner holds index.
type Claimer interface {
	Claim(ctx context.Context, index int) (Release, error)
}

// DefaultTTL is how long a claim is honoured without being released.
// Rendering a long transition can take a while, so this is generous.
const DefaultTTL = 6 * time.Hour

func noopRelease(context.Context) error { return nil }
