// Package pathfind implements the two planners of component D: an
// 8-connected top-down BFS and a platformer standing-node graph search, plus
// the path cache and adaptive beam-search fallback. Grounded on
// gonum.org/v1/gonum/graph's simple.UndirectedGraph + graph/path's
// BreadthFirstFrom, the dependency pthm-soup already pulls in for its own
// spatial/graph math, generalized here from a general-purpose graph library
// into a tile-graph planner (no pack example does tile pathfinding itself).
package pathfind

import (
	"github.com/axiom-sim/axiom/internal/tilemap"
)

// dirOffsets are the 8 neighbor offsets, cardinals first so corner-cutting
// checks can reference the two preceding cardinal entries for each
// diagonal.
var dirOffsets = []tilemap.Point{
	{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}, // cardinals
	{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}, // diagonals
}

// cardinalsFor returns the two cardinal neighbors a diagonal move would cut
// across, for the no-corner-cutting rule.
func cardinalsFor(d tilemap.Point) (tilemap.Point, tilemap.Point) {
	return tilemap.Point{X: d.X, Y: 0}, tilemap.Point{X: 0, Y: d.Y}
}

// TopDownBFS finds a shortest tile path from `from` to `to` using 8-connected
// movement, rejecting diagonal moves that would cut a solid corner. Returns
// nil if no path exists.
func TopDownBFS(tm *tilemap.Tilemap, from, to tilemap.Point, tileSize float32) []tilemap.Point {
	if !tm.WalkableTopDown(from, tileSize) || !tm.WalkableTopDown(to, tileSize) {
		return nil
	}
	type qItem struct{ p tilemap.Point }
	visited := map[tilemap.Point]bool{from: true}
	parent := map[tilemap.Point]tilemap.Point{}
	queue := []qItem{{from}}

	expanded := uint64(0)
	defer func() { RecordNodesExpanded(expanded) }()

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		expanded++
		if cur.p == to {
			return reconstruct(parent, from, to)
		}
		for _, d := range dirOffsets {
			next := tilemap.Point{X: cur.p.X + d.X, Y: cur.p.Y + d.Y}
			if visited[next] {
				continue
			}
			if !tm.InBounds(next.X, next.Y) {
				continue
			}
			if d.X != 0 && d.Y != 0 {
				c1, c2 := cardinalsFor(d)
				n1 := tilemap.Point{X: cur.p.X + c1.X, Y: cur.p.Y + c1.Y}
				n2 := tilemap.Point{X: cur.p.X + c2.X, Y: cur.p.Y + c2.Y}
				if !tm.WalkableTopDown(n1, tileSize) || !tm.WalkableTopDown(n2, tileSize) {
					continue // no corner-cutting
				}
			}
			if !tm.WalkableTopDown(next, tileSize) {
				continue
			}
			visited[next] = true
			parent[next] = cur.p
			queue = append(queue, qItem{next})
		}
	}
	return nil
}

func reconstruct(parent map[tilemap.Point]tilemap.Point, from, to tilemap.Point) []tilemap.Point {
	path := []tilemap.Point{to}
	cur := to
	for cur != from {
		p, ok := parent[cur]
		if !ok {
			return nil
		}
		path = append(path, p)
		cur = p
	}
	// reverse
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// HasLineOfSight casts a step ray from a to b at step = clamp(ts*0.25, 0.25,
// 4.0) world units, blocked by the first SOLID tile hit. It is
// symmetric by construction: the stepped samples between a and b are the
// same set regardless of direction.
func HasLineOfSight(tm *tilemap.Tilemap, ax, ay, bx, by float32, tileSize float32) bool {
	step := tileSize * 0.25
	if step < 0.25 {
		step = 0.25
	}
	if step > 4.0 {
		step = 4.0
	}
	dx, dy := bx-ax, by-ay
	dist := sqrt32(dx*dx + dy*dy)
	if dist == 0 {
		return true
	}
	steps := int(dist/step) + 1
	for i := 0; i <= steps; i++ {
		t := float32(i) / float32(steps)
		x := ax + dx*t
		y := ay + dy*t
		tx, ty := int(x/tileSize), int(y/tileSize)
		if tm.IsSolid(tx, ty) {
			return false
		}
	}
	return true
}

func sqrt32(v float32) float32 {
	if v <= 0 {
		return 0
	}
	x := v
	for i := 0; i < 20; i++ {
		x = 0.5 * (x + v/x)
	}
	return x
}
