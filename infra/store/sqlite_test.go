package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/busradar/busradar/core/geo"
	"github.com/busradar/busradar/core/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "roster.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testSubscriber(id, route string, lat, lon float64) model.Subscriber {
	return model.Subscriber{
		ID:       id,
		RouteKey: route,
		Lat:      lat,
		Lon:      lon,
		Subscription: model.PushSubscription{
			Endpoint: "https://push.example/" + id,
			Keys:     model.SubscriptionKeys{P256dh: "p", Auth: "a"},
		},
		HasPosition: true,
	}
}

func TestSQLiteSelectCandidates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	noPos := model.Subscriber{ID: "nopos", RouteKey: "7.0",
		Subscription: model.PushSubscription{Endpoint: "https://push.example/nopos"}}
	require.NoError(t, s.ReplaceAll(ctx, []model.Subscriber{
		testSubscriber("s1", "7.0", 12.90, 77.60),
		testSubscriber("s2", "7.0", 13.90, 77.60), // outside box
		testSubscriber("s3", "9.0", 12.90, 77.60), // other route
		noPos,
	}))

	box := geo.FenceAround(12.901, 77.601, 1)
	subs, err := s.SelectCandidates(ctx, "7.0", box)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	require.Equal(t, "s1", subs[0].ID)
	require.Equal(t, "https://push.example/s1", subs[0].Subscription.Endpoint)
	require.True(t, subs[0].HasPosition)
}

func TestSQLiteInclusiveBounds(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	box := geo.BoundingBox{MinLat: 10, MaxLat: 11, MinLon: 20, MaxLon: 21}
	require.NoError(t, s.ReplaceAll(ctx, []model.Subscriber{
		testSubscriber("edge", "7.0", 10, 21),
	}))
	subs, err := s.SelectCandidates(ctx, "7.0", box)
	require.NoError(t, err)
	require.Len(t, subs, 1, "edge coordinates are inside the box")
}

func TestSQLiteMarkNotified(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.ReplaceAll(ctx, []model.Subscriber{
		testSubscriber("s1", "7.0", 12.90, 77.60),
	}))
	require.NoError(t, s.MarkNotified(ctx, "s1"))
	require.NoError(t, s.MarkNotified(ctx, "s1"))      // idempotent
	require.NoError(t, s.MarkNotified(ctx, "unknown")) // no-op

	box := geo.FenceAround(12.901, 77.601, 1)
	subs, err := s.SelectCandidates(ctx, "7.0", box)
	require.NoError(t, err)
	require.Empty(t, subs)

	all, err := s.SelectByRoute(ctx, "7.0")
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.True(t, all[0].Notified)
}

func TestSQLiteReplaceAllReArms(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.ReplaceAll(ctx, []model.Subscriber{
		testSubscriber("s1", "7.0", 12.90, 77.60),
	}))
	require.NoError(t, s.MarkNotified(ctx, "s1"))
	require.NoError(t, s.ReplaceAll(ctx, []model.Subscriber{
		testSubscriber("s1", "7.0", 12.90, 77.60),
		testSubscriber("s2", "7.0", 12.90, 77.60),
	}))

	box := geo.FenceAround(12.901, 77.601, 1)
	subs, err := s.SelectCandidates(ctx, "7.0", box)
	require.NoError(t, err)
	require.Len(t, subs, 2)
}

func TestSQLiteResetAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.ReplaceAll(ctx, []model.Subscriber{
		testSubscriber("s1", "7.0", 12.90, 77.60),
	}))
	require.NoError(t, s.ResetAll(ctx))
	subs, err := s.SelectByRoute(ctx, "7.0")
	require.NoError(t, err)
	require.Empty(t, subs)
}
