package pathfind

import (
	"math"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/axiom-sim/axiom/internal/tilemap"
)

// PlatformerConfig folds the movement tuning that changes which edges exist
// in the standing-node graph (cfg_hash for the path cache).
type PlatformerConfig struct {
	MoveSpeed      float32 // world units/sec
	JumpVelocity   float32 // world units/sec, upward
	Gravity        float32 // world units/sec^2
	FallMultiplier float32
	TileSize       float32
}

// MaxJumpTiles returns ceil(v0^2/(2g))/ts + 1, vertical jump
// reach bound.
func (c PlatformerConfig) MaxJumpTiles() int {
	rise := (c.JumpVelocity * c.JumpVelocity) / (2 * c.Gravity)
	return int(math.Ceil(float64(rise/c.TileSize))) + 1
}

// MaxJumpDist returns the horizontal reach bound from airtime * move speed.
func (c PlatformerConfig) MaxJumpDist() int {
	airtime := 2 * c.JumpVelocity / c.Gravity
	dist := airtime * c.MoveSpeed
	return int(math.Ceil(float64(dist / c.TileSize)))
}

// nodeID packs a tile point into a gonum graph.Node id.
func nodeID(p tilemap.Point, width int) int64 {
	return int64(p.Y*width + p.X)
}

func nodePoint(id int64, width int) tilemap.Point {
	return tilemap.Point{X: int(id) % width, Y: int(id) / width}
}

// buildStandingGraph constructs the gonum undirected graph over every
// standing node in tm, with walk/fall/jump edges.
func buildStandingGraph(tm *tilemap.Tilemap, cfg PlatformerConfig) *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	maxJumpTiles := cfg.MaxJumpTiles()
	maxJumpDist := cfg.MaxJumpDist()

	standing := func(x, y int) bool { return tm.InBounds(x, y) && tm.IsStanding(x, y) }

	for y := 0; y < tm.Height; y++ {
		for x := 0; x < tm.Width; x++ {
			if !standing(x, y) {
				continue
			}
			from := nodeID(tilemap.Point{X: x, Y: y}, tm.Width)
			g.AddNode(simple.Node(from))

			// Walk left/right one tile.
			for _, dx := range []int{-1, 1} {
				if standing(x+dx, y) {
					to := nodeID(tilemap.Point{X: x + dx, Y: y}, tm.Width)
					g.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
				}
			}

			// Walk off an edge and fall until a standing cell exists.
			for _, dx := range []int{-1, 1} {
				for fy := y + 1; fy < tm.Height; fy++ {
					if tm.IsSolid(x+dx, fy) {
						break
					}
					if standing(x+dx, fy) {
						to := nodeID(tilemap.Point{X: x + dx, Y: fy}, tm.Width)
						g.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
						break
					}
				}
			}

			// Jump: enumerate reachable cells within the ballistic envelope,
			// requiring the tile at the jump apex is not SOLID.
			for dy := -maxJumpTiles; dy <= maxJumpTiles; dy++ {
				for dx := -maxJumpDist; dx <= maxJumpDist; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					tx, ty := x+dx, y+dy
					if !standing(tx, ty) {
						continue
					}
					apexY := y + dy/2
					if tm.IsSolid(x+dx/2, apexY) {
						continue
					}
					to := nodeID(tilemap.Point{X: tx, Y: ty}, tm.Width)
					g.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
				}
			}
		}
	}
	return g
}

// PlatformerBFS finds the shortest standing-node path from `from` to `to`
// via gonum's breadth-first traversal over the standing-node graph.
func PlatformerBFS(tm *tilemap.Tilemap, from, to tilemap.Point, cfg PlatformerConfig) []tilemap.Point {
	if !tm.IsStanding(from.X, from.Y) || !tm.IsStanding(to.X, to.Y) {
		return nil
	}
	g := buildStandingGraph(tm, cfg)
	// gonum's BreadthFirstFrom/To doesn't expose a per-call visited-node
	// count, so the full standing-node graph size stands in for the
	// search space this traversal ran over.
	RecordNodesExpanded(uint64(g.Nodes().Len()))
	fromID := nodeID(from, tm.Width)
	toID := nodeID(to, tm.Width)
	if g.Node(fromID) == nil || g.Node(toID) == nil {
		return nil
	}

	bf := path.BreadthFirstFrom(simple.Node(fromID), g)
	nodes, ok := bf.To(toID)
	if !ok {
		return nil
	}
	out := make([]tilemap.Point, len(nodes))
	for i, n := range nodes {
		out[i] = nodePoint(n.ID(), tm.Width)
	}
	return out
}

var _ graph.Graph = (*simple.UndirectedGraph)(nil)
