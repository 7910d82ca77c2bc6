package roster

import (
	"context"
	"sort"
	"sync"

	"github.com/busradar/busradar/core/geo"
	"github.com/busradar/busradar/core/model"
)

// MemoryStore keeps the roster in process memory. Suitable for tests
// and single-instance deployments without a storage file.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]model.Subscriber
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]model.Subscriber{}}
}

func (s *MemoryStore) SelectCandidates(_ context.Context, routeKey string, box geo.BoundingBox) ([]model.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []model.Subscriber
	for _, sub := range s.data {
		if sub.RouteKey != routeKey || sub.Notified || !sub.HasPosition {
			continue
		}
		if !box.Contains(sub.Lat, sub.Lon) {
			continue
		}
		res = append(res, sub)
	}
	sortByID(res)
	return res, nil
}

func (s *MemoryStore) SelectByRoute(_ context.Context, routeKey string) ([]model.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []model.Subscriber
	for _, sub := range s.data {
		if sub.RouteKey == routeKey {
			res = append(res, sub)
		}
	}
	sortByID(res)
	return res, nil
}

func (s *MemoryStore) MarkNotified(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.data[id]
	if !ok {
		return nil
	}
	sub.Notified = true
	s.data[id] = sub
	return nil
}

func (s *MemoryStore) ReplaceAll(_ context.Context, subs []model.Subscriber) error {
	next := make(map[string]model.Subscriber, len(subs))
	for _, sub := range subs {
		next[sub.ID] = sub
	}
	s.mu.Lock()
	s.data = next
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) ResetAll(_ context.Context) error {
	s.mu.Lock()
	s.data = map[string]model.Subscriber{}
	s.mu.Unlock()
	return nil
}

func sortByID(subs []model.Subscriber) {
	sort.Slice(subs, func(i, j int) bool { return subs[i].ID < subs[j].ID })
}
