package content

import (
	"context"

	"git.home.luguber.info/inful/docengine/internal/docs"
	"git.home.luguber.info/inful/docengine/internal/retry"
)

type retryingRebuilder struct {
	next   Rebuilder
	policy retry.Policy
}

// WithRetry wraps r so that retryable rebuild failures are retried with
// backoff. The watcher and scheduler use it; API rebuilds report failures
// to the caller immediately.
func WithRetry(r Rebuilder, policy retry.Policy) Rebuilder {
	if policy.MaxRetries <= 0 {
		return r
	}
	return &retryingRebuilder{next: r, policy: policy}
}

func (r *retryingRebuilder) Rebuild(ctx context.Context, trigger string) (*docs.Index, error) {
	var idx *docs.Index
	err := retry.Do(ctx, r.policy, func(ctx context.Context) error {
		var err error
		idx, err = r.next.Rebuild(ctx, trigger)
		return err
	})
	if err != nil {
		return nil, err
	}
	return idx, nil
}
