package spatial

import "github.com/axiom-sim/axiom/internal/ecsworld"

// Rebuild is the tick-8 step: recompute the cell membership of
// every entity that carries both Position and Collider (the AABB the
// invariant is quantified over), and remove stale entries for
// entities that lost their Collider or were despawned since the last tick.
func Rebuild(h *Hash, w *ecsworld.World) {
	live := make(map[ecsworld.NetworkId]struct{})
	for _, id := range w.AllIDs() {
		if !w.HasCollider(id) {
			continue
		}
		pos, ok := w.Position(id)
		if !ok {
			continue
		}
		col, _ := w.Collider(id)
		box := AABB{
			MinX: pos.X - col.W/2,
			MinY: pos.Y - col.H/2,
			MaxX: pos.X + col.W/2,
			MaxY: pos.Y + col.H/2,
		}
		h.Upsert(id, box)
		live[id] = struct{}{}
	}
	for id := range h.entityCells {
		if _, ok := live[id]; !ok {
			h.Remove(id)
		}
	}
}

// AABBOf reads an entity's current broad-phase AABB, used by the
// interaction resolver's pair-overlap tests.
func AABBOf(w *ecsworld.World, id ecsworld.NetworkId) (AABB, bool) {
	pos, ok := w.Position(id)
	if !ok {
		return AABB{}, false
	}
	col, ok := w.Collider(id)
	if !ok {
		return AABB{}, false
	}
	return AABB{
		MinX: pos.X - col.W/2,
		MinY: pos.Y - col.H/2,
		MaxX: pos.X + col.W/2,
		MaxY: pos.Y + col.H/2,
	}, true
}

// Overlaps reports whether two AABBs intersect.
func Overlaps(a, b AABB) bool {
	return a.MinX < b.MaxX && a.MaxX > b.MinX && a.MinY < b.MaxY && a.MaxY > b.MinY
}
