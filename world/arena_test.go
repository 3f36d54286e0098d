package world

import "testing"

func TestArenaInsertGet(t *testing.T) {
	a := NewArena()
	h := a.Insert(Part{Kind: PartCore})
	got, ok := a.Get(h)
	if !ok {
		t.Fatal("Get() after Insert() = false")
	}
	if got.Kind != PartCore {
		t.Fatalf("Get().Kind = %v, want PartCore", got.Kind)
	}
}

func TestArenaRemoveInvalidatesHandle(t *testing.T) {
	a := NewArena()
	h := a.Insert(Part{Kind: PartCore})
	if _, ok := a.Remove(h); !ok {
		t.Fatal("Remove() = false on live handle")
	}
	if _, ok := a.Get(h); ok {
		t.Fatal("Get() succeeded on removed handle")
	}
	if _, ok := a.Remove(h); ok {
		t.Fatal("Remove() succeeded twice on the same handle")
	}
}

func TestArenaGenerationGuardsStaleHandle(t *testing.T) {
	a := NewArena()
	stale := a.Insert(Part{Kind: PartCargo})
	a.Remove(stale)

	fresh := a.Insert(Part{Kind: PartHub})
	if fresh.index != stale.index {
		t.Fatalf("expected slot reuse: fresh.index=%d stale.index=%d", fresh.index, stale.index)
	}
	if _, ok := a.Get(stale); ok {
		t.Fatal("stale handle into a reused slot resolved as live")
	}
	got, ok := a.Get(fresh)
	if !ok || got.Kind != PartHub {
		t.Fatalf("Get(fresh) = %+v, %v, want PartHub, true", got, ok)
	}
}

func TestArenaEachVisitsOnlyLive(t *testing.T) {
	a := NewArena()
	h1 := a.Insert(Part{Kind: PartCore})
	h2 := a.Insert(Part{Kind: PartCargo})
	a.Remove(h1)

	count := 0
	a.Each(func(h PartHandle, p *Part) {
		count++
		if h != h2 {
			t.Errorf("Each visited unexpected handle %+v", h)
		}
	})
	if count != 1 {
		t.Fatalf("Each visited %d parts, want 1", count)
	}
}
