package tracklog

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"sync"
)

// JSONLStore appends points to a JSONL file, one point per line.
type JSONLStore struct {
	path string
	mu   sync.Mutex
}

func NewJSONLStore(path string) (*JSONLStore, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	if cerr := f.Close(); cerr != nil {
		return nil, cerr
	}
	return &JSONLStore{path: path}, nil
}

func (s *JSONLStore) Append(ctx context.Context, p Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return json.NewEncoder(f).Encode(p)
}

func (s *JSONLStore) Query(ctx context.Context, q Query) ([]Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	var res []Point
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var p Point
		if err := json.Unmarshal(scanner.Bytes(), &p); err != nil {
			continue
		}
		if q.VehicleID != "" && p.VehicleID != q.VehicleID {
			continue
		}
		if !q.Start.IsZero() && p.Timestamp.Before(q.Start) {
			continue
		}
		if !q.End.IsZero() && p.Timestamp.After(q.End) {
			continue
		}
		res = append(res, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *JSONLStore) Close() error { return nil }
