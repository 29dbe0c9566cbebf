package fleetstate

import (
	"testing"

	"github.com/azvmotors/fleetcore/core/model"
)

func TestMemoryStore_SetGet(t *testing.T) {
	s := NewMemoryStore()
	s.Set(model.Vehicle{ID: 1, Status: model.StatusFree})
	v, ok := s.Get(1)
	if !ok || v.Status != model.StatusFree {
		t.Fatalf("Get(1) = %+v,%v", v, ok)
	}
	if _, ok := s.Get(2); ok {
		t.Fatal("unexpected hit for unknown vehicle")
	}
}

func TestMemoryStore_SetAllReplacesWholesale(t *testing.T) {
	s := NewMemoryStore()
	s.Set(model.Vehicle{ID: 1, Status: model.StatusFree})
	s.SetAll([]model.Vehicle{{ID: 2, Status: model.StatusOwner}})
	if _, ok := s.Get(1); ok {
		t.Fatal("stale entry survived a full refresh")
	}
	if _, ok := s.Get(2); !ok {
		t.Fatal("refreshed entry missing")
	}
}

func TestMemoryStore_SetStatus(t *testing.T) {
	s := NewMemoryStore()
	s.Set(model.Vehicle{ID: 5, Status: model.StatusReserved})
	s.SetStatus(5, model.StatusInUse)
	if v, _ := s.Get(5); v.Status != model.StatusInUse {
		t.Fatalf("status = %s, want inUse", v.Status)
	}
	s.SetStatus(99, model.StatusFree) // unknown id is a no-op
	if _, ok := s.Get(99); ok {
		t.Fatal("SetStatus must not create entries")
	}
}

func TestMemoryStore_ListFilterAndOrder(t *testing.T) {
	s := NewMemoryStore()
	s.SetAll([]model.Vehicle{
		{ID: 3, Status: model.StatusFree, EngineCC: 1600, OwnerID: 10},
		{ID: 1, Status: model.StatusFree, EngineCC: 0, OwnerID: 10},
		{ID: 2, Status: model.StatusInUse, EngineCC: 0, OwnerID: 20},
	})
	all := s.List(Filter{})
	if len(all) != 3 || all[0].ID != 1 || all[2].ID != 3 {
		t.Fatalf("unexpected order: %+v", all)
	}
	free := s.List(Filter{Status: model.StatusFree})
	if len(free) != 2 {
		t.Fatalf("free = %d, want 2", len(free))
	}
	ev := s.List(Filter{Engine: model.EngineElectric})
	if len(ev) != 2 {
		t.Fatalf("electric = %d, want 2", len(ev))
	}
	owned := s.List(Filter{OwnerID: 20})
	if len(owned) != 1 || owned[0].ID != 2 {
		t.Fatalf("owned = %+v", owned)
	}
}
