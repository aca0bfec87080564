package tilemap

// ActorFootprint is the approximate actor AABB (world units) used by the
// top-down planner's walkability test.
const (
	ActorFootprintW = 12.0
	ActorFootprintH = 14.0
	DefaultTileSize = 16.0
)

// FootprintTiles returns every tile coordinate overlapped by an actor AABB
// of size (w,h) centered at the given tile's center, using tileSize to
// convert between tile and world space.
func (tm *Tilemap) FootprintTiles(center Point, w, h, tileSize float32) []Point {
	cx := (float32(center.X) + 0.5) * tileSize
	cy := (float32(center.Y) + 0.5) * tileSize
	minX := int((cx - w/2) / tileSize)
	maxX := int((cx + w/2) / tileSize)
	minY := int((cy - h/2) / tileSize)
	maxY := int((cy + h/2) / tileSize)
	pts := make([]Point, 0, (maxX-minX+1)*(maxY-minY+1))
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			pts = append(pts, Point{X: x, Y: y})
		}
	}
	return pts
}

// WalkableTopDown reports whether an actor footprint centered at p is free
// of SOLID or DAMAGE tiles — the top-down BFS walkability predicate.
func (tm *Tilemap) WalkableTopDown(p Point, tileSize float32) bool {
	for _, t := range tm.FootprintTiles(p, ActorFootprintW, ActorFootprintH, tileSize) {
		if !tm.InBounds(t.X, t.Y) {
			continue
		}
		tt := tm.TypeAt(t.X, t.Y)
		if tt.Has(Solid) || tt.Has(Damage) {
			return false
		}
	}
	return true
}

// IsGroundLike reports whether the tile at (x,y) is something an actor can
// stand on: SOLID or PLATFORM.
func (tm *Tilemap) IsGroundLike(x, y int) bool {
	tt := tm.TypeAt(x, y)
	return tt.Has(Solid) || tt.Has(Platform)
}

// IsStanding reports whether (x,y) is a valid platformer "standing"
// position: y-1 is ground-like and y itself is not solid.
func (tm *Tilemap) IsStanding(x, y int) bool {
	return !tm.IsSolid(x, y) && tm.InBounds(x, y-1) && tm.IsGroundLike(x, y-1)
}

// SlopeHeightAt returns the slope surface height (in world units, measured
// from the tile's top) at horizontal offset fracX in [0,1] across the tile
// at (x,y), if that tile is a slope. ok is false for non-slope tiles.
func (tm *Tilemap) SlopeHeightAt(x, y int, fracX float32, tileSize float32) (height float32, ok bool) {
	tt := tm.TypeAt(x, y)
	switch {
	case tt.Has(SlopeUp):
		// Lower-right triangle: surface rises from bottom-left to top-right.
		return tileSize * (1 - fracX), true
	case tt.Has(SlopeDown):
		// Lower-left triangle: surface rises from bottom-right to top-left.
		return tileSize * fracX, true
	default:
		return 0, false
	}
}
