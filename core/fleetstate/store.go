package fleetstate

import (
	"sort"
	"sync"

	"github.com/azvmotors/fleetcore/core/model"
)

// Filter narrows a List call. Zero fields match everything.
type Filter struct {
	Status model.Status
	Engine model.EngineKind
	// OwnerID filters to vehicles owned by the given actor.
	OwnerID int64
}

// Store is the client's read-through cache of vehicle snapshots. The fleet
// authority owns the data; entries are replaced wholesale on each
// authoritative refresh, never mutated field by field.
type Store interface {
	Set(model.Vehicle)
	SetAll([]model.Vehicle)
	Get(id int64) (model.Vehicle, bool)
	List(Filter) []model.Vehicle
	SetStatus(id int64, st model.Status)
}

// MemoryStore is the default Store implementation.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[int64]model.Vehicle
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[int64]model.Vehicle{}}
}

// Set replaces the snapshot for a single vehicle.
func (s *MemoryStore) Set(v model.Vehicle) {
	s.mu.Lock()
	s.data[v.ID] = v
	s.mu.Unlock()
}

// SetAll replaces the whole cache with the given snapshots.
func (s *MemoryStore) SetAll(vs []model.Vehicle) {
	next := make(map[int64]model.Vehicle, len(vs))
	for _, v := range vs {
		next[v.ID] = v
	}
	s.mu.Lock()
	s.data = next
	s.mu.Unlock()
}

// Get returns the cached snapshot for the vehicle, if any.
func (s *MemoryStore) Get(id int64) (model.Vehicle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[id]
	return v, ok
}

// SetStatus records a server-driven status observation for a vehicle already
// in the cache. Unknown vehicles are ignored; the next full refresh will pick
// them up.
func (s *MemoryStore) SetStatus(id int64, st model.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[id]
	if !ok {
		return
	}
	v.Status = st
	s.data[id] = v
}

// List returns cached vehicles matching the filter, ordered by id.
func (s *MemoryStore) List(f Filter) []model.Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]model.Vehicle, 0, len(s.data))
	for _, v := range s.data {
		if f.Status != "" && v.Status != f.Status {
			continue
		}
		if f.Engine != "" && v.Engine() != f.Engine {
			continue
		}
		if f.OwnerID != 0 && v.OwnerID != f.OwnerID {
			continue
		}
		res = append(res, v)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}
