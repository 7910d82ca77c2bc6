package roster

import (
	"context"
	"testing"

	"github.com/busradar/busradar/core/geo"
	"github.com/busradar/busradar/core/model"
)

func seed(t *testing.T, s Store) {
	t.Helper()
	subs := []model.Subscriber{
		{ID: "s1", RouteKey: "7.0", Lat: 12.90, Lon: 77.60, HasPosition: true},
		{ID: "s2", RouteKey: "7.0", Lat: 13.50, Lon: 77.60, HasPosition: true},
		{ID: "s3", RouteKey: "9.0", Lat: 12.90, Lon: 77.60, HasPosition: true},
		{ID: "s4", RouteKey: "7.0", HasPosition: false},
	}
	if err := s.ReplaceAll(context.Background(), subs); err != nil {
		t.Fatalf("replace: %v", err)
	}
}

func TestMemoryStoreSelectCandidates(t *testing.T) {
	s := NewMemoryStore()
	seed(t, s)
	box := geo.FenceAround(12.901, 77.601, 1)

	subs, err := s.SelectCandidates(context.Background(), "7.0", box)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(subs) != 1 || subs[0].ID != "s1" {
		t.Fatalf("expected [s1], got %v", subs)
	}

	// Wrong route yields nothing, not an error.
	subs, err = s.SelectCandidates(context.Background(), "8.0", box)
	if err != nil || len(subs) != 0 {
		t.Fatalf("expected empty result, got %v, %v", subs, err)
	}
}

func TestMemoryStoreMarkNotified(t *testing.T) {
	s := NewMemoryStore()
	seed(t, s)
	ctx := context.Background()
	box := geo.FenceAround(12.901, 77.601, 1)

	if err := s.MarkNotified(ctx, "s1"); err != nil {
		t.Fatalf("mark: %v", err)
	}
	// Marking twice is a no-op.
	if err := s.MarkNotified(ctx, "s1"); err != nil {
		t.Fatalf("second mark: %v", err)
	}
	subs, err := s.SelectCandidates(ctx, "7.0", box)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(subs) != 0 {
		t.Fatalf("marked subscriber still selected: %v", subs)
	}
	// SelectByRoute still sees it.
	all, err := s.SelectByRoute(ctx, "7.0")
	if err != nil {
		t.Fatalf("select by route: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 route subscribers, got %d", len(all))
	}
}

func TestMemoryStoreMarkUnknownID(t *testing.T) {
	s := NewMemoryStore()
	if err := s.MarkNotified(context.Background(), "ghost"); err != nil {
		t.Fatalf("mark unknown: %v", err)
	}
}

func TestMemoryStoreReplaceResetsFlags(t *testing.T) {
	s := NewMemoryStore()
	seed(t, s)
	ctx := context.Background()
	box := geo.FenceAround(12.901, 77.601, 1)

	if err := s.MarkNotified(ctx, "s1"); err != nil {
		t.Fatalf("mark: %v", err)
	}
	seed(t, s)
	subs, err := s.SelectCandidates(ctx, "7.0", box)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(subs) != 1 || subs[0].ID != "s1" {
		t.Fatalf("replace should re-arm s1, got %v", subs)
	}
}

func TestMemoryStoreResetAll(t *testing.T) {
	s := NewMemoryStore()
	seed(t, s)
	ctx := context.Background()
	if err := s.ResetAll(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	subs, err := s.SelectByRoute(ctx, "7.0")
	if err != nil || len(subs) != 0 {
		t.Fatalf("expected empty store, got %v, %v", subs, err)
	}
}
