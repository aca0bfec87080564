package spatial

import (
	"testing"

	"github.com/axiom-sim/axiom/internal/ecsworld"
)

func TestUpsertAndQueryRect(t *testing.T) {
	h := New(64)
	h.Upsert(1, AABB{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10})

	got := h.QueryRect(-5, -5, 5, 5)
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("QueryRect = %v, want [1]", got)
	}

	got = h.QueryRect(1000, 1000, 1010, 1010)
	if len(got) != 0 {
		t.Fatalf("QueryRect far away should find nothing, got %v", got)
	}
}

func TestUpsertSkipsUnchangedAABB(t *testing.T) {
	h := New(64)
	box := AABB{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	h.Upsert(1, box)
	cellsBefore := h.CellsOf(1)
	h.Upsert(1, box)
	if h.CellsOf(1) != cellsBefore {
		t.Error("Upsert with an unchanged AABB should be a no-op")
	}
}

func TestUpsertMovesBetweenCells(t *testing.T) {
	h := New(64)
	h.Upsert(1, AABB{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1})
	if !h.ContainsInCell(1, 0, 0) {
		t.Fatal("entity should be registered in cell (0,0)")
	}
	h.Upsert(1, AABB{MinX: 200, MinY: 200, MaxX: 201, MaxY: 201})
	if h.ContainsInCell(1, 0, 0) {
		t.Error("entity should no longer be in its old cell after moving")
	}
	if !h.ContainsInCell(1, 3, 3) {
		t.Error("entity should be registered in its new cell")
	}
}

func TestRemove(t *testing.T) {
	h := New(64)
	h.Upsert(1, AABB{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1})
	h.Remove(1)
	if h.CellsOf(1) != 0 {
		t.Error("Remove should clear the entity's cell membership")
	}
	if got := h.QueryRect(-10, -10, 10, 10); len(got) != 0 {
		t.Errorf("QueryRect after Remove should be empty, got %v", got)
	}
}

func TestClear(t *testing.T) {
	h := New(64)
	h.Upsert(1, AABB{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1})
	h.Upsert(2, AABB{MinX: 5, MinY: 5, MaxX: 6, MaxY: 6})
	h.Clear()
	if got := h.QueryRect(-100, -100, 100, 100); len(got) != 0 {
		t.Errorf("Clear should empty every cell, QueryRect returned %v", got)
	}
}

func TestQueryRadiusUsesCircumscribedBox(t *testing.T) {
	h := New(64)
	h.Upsert(1, AABB{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1})
	got := h.QueryRadius(0, 0, 5)
	if len(got) != 1 {
		t.Fatalf("QueryRadius should find the nearby entity, got %v", got)
	}
}

func TestOverlaps(t *testing.T) {
	a := AABB{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	b := AABB{MinX: 5, MinY: 5, MaxX: 15, MaxY: 15}
	c := AABB{MinX: 20, MinY: 20, MaxX: 30, MaxY: 30}
	if !Overlaps(a, b) {
		t.Error("a and b should overlap")
	}
	if Overlaps(a, c) {
		t.Error("a and c should not overlap")
	}
}

func TestRebuildIndexesEntitiesWithColliders(t *testing.T) {
	w := ecsworld.New()
	h := New(64)

	withCollider := w.Spawn(ecsworld.Position{X: 5, Y: 5})
	w.SetCollider(withCollider, ecsworld.Collider{W: 2, H: 2})

	withoutCollider := w.Spawn(ecsworld.Position{X: 50, Y: 50})

	Rebuild(h, w)

	box, ok := AABBOf(w, withCollider)
	if !ok {
		t.Fatal("AABBOf should resolve an entity with Position+Collider")
	}
	got := h.QueryRect(box.MinX, box.MinY, box.MaxX, box.MaxY)
	found := false
	for _, id := range got {
		if id == withCollider {
			found = true
		}
		if id == withoutCollider {
			t.Error("an entity with no Collider should never be indexed")
		}
	}
	if !found {
		t.Error("Rebuild should have indexed the collider entity")
	}
}

func TestRebuildRemovesDespawnedEntities(t *testing.T) {
	w := ecsworld.New()
	h := New(64)

	id := w.Spawn(ecsworld.Position{X: 1, Y: 1})
	w.SetCollider(id, ecsworld.Collider{W: 2, H: 2})
	Rebuild(h, w)
	if h.CellsOf(id) == 0 {
		t.Fatal("entity should be indexed before despawn")
	}

	w.Despawn(id)
	Rebuild(h, w)
	if h.CellsOf(id) != 0 {
		t.Error("Rebuild should drop entities that are no longer alive")
	}
}
