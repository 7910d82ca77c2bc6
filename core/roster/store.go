package roster

import (
	"context"

	"github.com/busradar/busradar/core/geo"
	"github.com/busradar/busradar/core/model"
)

// Store holds the subscriber roster and the per-cycle notification
// bookkeeping. Implementations must make ResetAll and ReplaceAll
// transactional: a concurrent select observes either the old or the
// new roster, never a mix.
type Store interface {
	// SelectCandidates returns subscribers on routeKey whose stored
	// position lies inside box (inclusive bounds) and whose notified
	// flag is unset. An empty result is not an error.
	SelectCandidates(ctx context.Context, routeKey string, box geo.BoundingBox) ([]model.Subscriber, error)

	// SelectByRoute returns every subscriber on routeKey regardless of
	// position or notified state.
	SelectByRoute(ctx context.Context, routeKey string) ([]model.Subscriber, error)

	// MarkNotified sets the notified flag for the subscriber. Marking an
	// already-notified or unknown subscriber is a no-op.
	MarkNotified(ctx context.Context, id string) error

	// ReplaceAll swaps the whole roster for the given subscribers.
	ReplaceAll(ctx context.Context, subs []model.Subscriber) error

	// ResetAll removes all subscriber state.
	ResetAll(ctx context.Context) error
}
