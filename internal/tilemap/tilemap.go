// Package tilemap implements the fixed-size dense tile grid and its tile
// type registry (component A). fight-club-go has no tile grid — its
// brawler arena is a flat plane — so the flag bitset and registry shape
// instead follow the tile-footprint conventions of
// _examples/original_source/src/pathfinding.rs.
package tilemap

import "github.com/pkg/errors"

// Flag is a bitset describing a tile type's collision/gameplay behavior.
type Flag uint8

const (
	Solid     Flag = 0x01
	Damage    Flag = 0x02
	Trigger   Flag = 0x04
	SlopeUp   Flag = 0x08
	Platform  Flag = 0x10
	Climbable Flag = 0x20
	SlopeDown Flag = 0x40
)

// TileType is a registry entry referenced by a tile id in the grid.
type TileType struct {
	Name     string
	Flags    Flag
	Friction float32
}

// Has reports whether t carries the given flag.
func (t TileType) Has(f Flag) bool { return t.Flags&f != 0 }

// Point is an integer tile coordinate.
type Point struct{ X, Y int }

// Tilemap is a fixed-size dense grid of 8-bit tile ids, each referencing a
// TileType in Registry.
type Tilemap struct {
	Width, Height int
	Tiles         []uint8
	Registry      []TileType

	PlayerSpawn Point
	Goal        *Point

	solidIDs map[uint8]struct{}
}

// New builds a Tilemap, validating that len(tiles) == width*height.
func New(width, height int, tiles []uint8, registry []TileType, spawn Point, goal *Point) (*Tilemap, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New("tilemap: width and height must be positive")
	}
	if len(tiles) != width*height {
		return nil, errors.Errorf("tilemap: tile count %d does not match width*height %d", len(tiles), width*height)
	}
	tm := &Tilemap{
		Width:       width,
		Height:      height,
		Tiles:       tiles,
		Registry:    registry,
		PlayerSpawn: spawn,
		Goal:        goal,
	}
	tm.rebuildSolidSet()
	return tm, nil
}

func (tm *Tilemap) rebuildSolidSet() {
	tm.solidIDs = make(map[uint8]struct{})
	for id, tt := range tm.Registry {
		if tt.Has(Solid) {
			tm.solidIDs[uint8(id)] = struct{}{}
		}
	}
}

// InBounds reports whether (x,y) is within the grid.
func (tm *Tilemap) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < tm.Width && y < tm.Height
}

// TileAt returns the tile id at (x,y). Out-of-bounds reads return id 0
// (conventionally the empty/air tile).
func (tm *Tilemap) TileAt(x, y int) uint8 {
	if !tm.InBounds(x, y) {
		return 0
	}
	return tm.Tiles[y*tm.Width+x]
}

// TypeAt resolves the TileType for the tile id at (x,y).
func (tm *Tilemap) TypeAt(x, y int) TileType {
	id := tm.TileAt(x, y)
	if int(id) >= len(tm.Registry) {
		return TileType{}
	}
	return tm.Registry[id]
}

// HasFlag is a convenience wrapper over TypeAt(x,y).Has(f).
func (tm *Tilemap) HasFlag(x, y int, f Flag) bool {
	return tm.TypeAt(x, y).Has(f)
}

// IsSolid reports whether the tile at (x,y) blocks movement. Out-of-bounds
// tiles are treated as non-solid (the world edge is clamped elsewhere).
func (tm *Tilemap) IsSolid(x, y int) bool {
	if !tm.InBounds(x, y) {
		return false
	}
	_, ok := tm.solidIDs[tm.Tiles[y*tm.Width+x]]
	return ok
}

// SetTile mutates a single tile id, used by SetTileLayer / SetAutoTile
// commands. The solid-id cache is keyed by tile id, so it needs no update.
func (tm *Tilemap) SetTile(x, y int, id uint8) bool {
	if !tm.InBounds(x, y) {
		return false
	}
	tm.Tiles[y*tm.Width+x] = id
	return true
}

// WorldToTile converts world-unit coordinates to a tile coordinate, given a
// tile size in world units.
func WorldToTile(x, y float32, tileSize float32) Point {
	return Point{X: int(x / tileSize), Y: int(y / tileSize)}
}

// Clone returns a deep copy, used by internal/simdriver to run a headless
// simulation against a scratch tilemap without mutating the live one.
func (tm *Tilemap) Clone() *Tilemap {
	tiles := make([]uint8, len(tm.Tiles))
	copy(tiles, tm.Tiles)
	registry := make([]TileType, len(tm.Registry))
	copy(registry, tm.Registry)
	var goal *Point
	if tm.Goal != nil {
		g := *tm.Goal
		goal = &g
	}
	out := &Tilemap{
		Width:       tm.Width,
		Height:      tm.Height,
		Tiles:       tiles,
		Registry:    registry,
		PlayerSpawn: tm.PlayerSpawn,
		Goal:        goal,
	}
	out.rebuildSolidSet()
	return out
}
