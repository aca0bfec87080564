// Package spatial implements the incremental broad-phase spatial hash
// (component B). Grounded on
// _examples/iamvalenciia-kick-game-stream/fight-club-go/internal/game/spatial/grid.go's
// cellSize/invCellSize + row-major cell slice shape, generalized from
// uint32 player-slice indices to ecsworld.NetworkId, and from a
// clear-and-reinsert-every-tick grid to incremental per-entity diffing: if
// an entity's cell membership is unchanged since the last Upsert, skip it;
// otherwise remove it from its prior cells and insert it into the new ones.
package spatial

import (
	"github.com/axiom-sim/axiom/internal/ecsworld"
)

type cellKey struct{ CX, CY int }

// AABB is an axis-aligned bounding box in world units.
type AABB struct {
	MinX, MinY, MaxX, MaxY float32
}

// Hash is the incremental broad-phase index.
type Hash struct {
	cellSize    float32
	invCellSize float32

	cells       map[cellKey]map[ecsworld.NetworkId]struct{}
	entityCells map[ecsworld.NetworkId][]cellKey
	lastAABB    map[ecsworld.NetworkId]AABB
}

// DefaultCellSize matches "default 64 world units".
const DefaultCellSize = 64.0

// New builds a Hash with the given cell size.
func New(cellSize float32) *Hash {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &Hash{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cells:       make(map[cellKey]map[ecsworld.NetworkId]struct{}),
		entityCells: make(map[ecsworld.NetworkId][]cellKey),
		lastAABB:    make(map[ecsworld.NetworkId]AABB),
	}
}

func (h *Hash) cellsCovering(box AABB) []cellKey {
	minCX := int(box.MinX * h.invCellSize)
	minCY := int(box.MinY * h.invCellSize)
	maxCX := int(box.MaxX * h.invCellSize)
	maxCY := int(box.MaxY * h.invCellSize)
	out := make([]cellKey, 0, (maxCX-minCX+1)*(maxCY-minCY+1))
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			out = append(out, cellKey{cx, cy})
		}
	}
	return out
}

// Upsert recomputes the cell set for id given its current AABB, skipping the
// work entirely if the AABB is unchanged since the last Upsert.
func (h *Hash) Upsert(id ecsworld.NetworkId, box AABB) {
	if prev, ok := h.lastAABB[id]; ok && prev == box {
		return
	}
	h.remove(id)
	h.insert(id, box)
}

func (h *Hash) insert(id ecsworld.NetworkId, box AABB) {
	keys := h.cellsCovering(box)
	for _, k := range keys {
		set, ok := h.cells[k]
		if !ok {
			set = make(map[ecsworld.NetworkId]struct{})
			h.cells[k] = set
		}
		set[id] = struct{}{}
	}
	h.entityCells[id] = keys
	h.lastAABB[id] = box
}

// Remove drops id from every cell it currently occupies.
func (h *Hash) Remove(id ecsworld.NetworkId) {
	h.remove(id)
	delete(h.lastAABB, id)
}

func (h *Hash) remove(id ecsworld.NetworkId) {
	keys, ok := h.entityCells[id]
	if !ok {
		return
	}
	for _, k := range keys {
		set := h.cells[k]
		delete(set, id)
		if len(set) == 0 {
			delete(h.cells, k)
		}
	}
	delete(h.entityCells, id)
}

// Clear empties the hash entirely (used on level reset), keeping map
// capacity the way grid.Clear keeps slice capacity.
func (h *Hash) Clear() {
	for k := range h.cells {
		delete(h.cells, k)
	}
	for k := range h.entityCells {
		delete(h.entityCells, k)
	}
	for k := range h.lastAABB {
		delete(h.lastAABB, k)
	}
}

// QueryRect returns a deduplicated list of entities whose cells intersect
// the rect [min,max]. False positives are allowed by contract; callers do
// AABB-precise filtering themselves.
func (h *Hash) QueryRect(minX, minY, maxX, maxY float32) []ecsworld.NetworkId {
	seen := make(map[ecsworld.NetworkId]struct{})
	for _, k := range h.cellsCovering(AABB{minX, minY, maxX, maxY}) {
		for id := range h.cells[k] {
			seen[id] = struct{}{}
		}
	}
	out := make([]ecsworld.NetworkId, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	return out
}

// QueryRadius queries the circumscribed box of a circle at (cx,cy) with
// radius r. The caller still must filter by true distance.
func (h *Hash) QueryRadius(cx, cy, r float32) []ecsworld.NetworkId {
	return h.QueryRect(cx-r, cy-r, cx+r, cy+r)
}

// CellsOf exposes which cells id currently occupies, for the
// spatial-hash-rebuild invariant test.
func (h *Hash) CellsOf(id ecsworld.NetworkId) int {
	return len(h.entityCells[id])
}

// ContainsInCell reports whether id is registered in the cell covering (cx,cy) in
// cell-index space — used directly by scenario 3.
func (h *Hash) ContainsInCell(id ecsworld.NetworkId, cx, cy int) bool {
	set, ok := h.cells[cellKey{cx, cy}]
	if !ok {
		return false
	}
	_, ok = set[id]
	return ok
}
