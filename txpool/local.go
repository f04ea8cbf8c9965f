package txpool

import (
	"context"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
)

// LocalStore is the in-memory Store backend (spec.md §4.3). A single mutex
// guards both the per-sender map and the global set so a concurrent reader
// never observes a per-sender add without its matching global add, the same
// discipline ethmonitor.Monitor's chain struct uses for its own paired maps
// (it guards related state with one mutex rather than per-field locks).
type LocalStore struct {
	mu      sync.Mutex
	bySender map[string]mapset.Set[string]
	global  mapset.Set[string]
}

var _ Store = (*LocalStore)(nil)

// NewLocalStore builds an empty in-memory pending-pool store.
func NewLocalStore() *LocalStore {
	return &LocalStore{
		bySender: make(map[string]mapset.Set[string]),
		global:   mapset.NewSet[string](),
	}
}

func (s *LocalStore) Add(ctx context.Context, sender, rlpHex string) error {
	sender = normalizeSender(sender)

	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.bySender[sender]
	if !ok {
		set = mapset.NewSet[string]()
		s.bySender[sender] = set
	}
	set.Add(rlpHex)
	s.global.Add(rlpHex)
	return nil
}

func (s *LocalStore) Remove(ctx context.Context, sender, rlpHex string) error {
	sender = normalizeSender(sender)

	s.mu.Lock()
	defer s.mu.Unlock()

	if set, ok := s.bySender[sender]; ok {
		set.Remove(rlpHex)
		if set.Cardinality() == 0 {
			delete(s.bySender, sender)
		}
	}
	s.global.Remove(rlpHex)
	return nil
}

func (s *LocalStore) Count(ctx context.Context, sender string) (int, error) {
	sender = normalizeSender(sender)

	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.bySender[sender]
	if !ok {
		return 0, nil
	}
	return set.Cardinality(), nil
}

func (s *LocalStore) Payloads(ctx context.Context, sender string) ([]string, error) {
	sender = normalizeSender(sender)

	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.bySender[sender]
	if !ok {
		return nil, nil
	}
	return set.ToSlice(), nil
}

func (s *LocalStore) AllPayloads(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.global.ToSlice(), nil
}

func (s *LocalStore) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bySender = make(map[string]mapset.Set[string])
	s.global = mapset.NewSet[string]()
	return nil
}
