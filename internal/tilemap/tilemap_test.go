package tilemap

import "testing"

func testRegistry() []TileType {
	return []TileType{
		{Name: "empty", Flags: 0, Friction: 1},
		{Name: "wall", Flags: Solid, Friction: 1},
		{Name: "lava", Flags: Damage, Friction: 1},
	}
}

func TestNewRejectsMismatchedTileCount(t *testing.T) {
	if _, err := New(4, 4, make([]uint8, 10), testRegistry(), Point{}, nil); err == nil {
		t.Fatal("expected an error for a tile slice that doesn't match width*height")
	}
}

func TestNewRejectsNonPositiveDimensions(t *testing.T) {
	if _, err := New(0, 4, nil, testRegistry(), Point{}, nil); err == nil {
		t.Fatal("expected an error for a zero width")
	}
}

func TestIsSolid(t *testing.T) {
	tiles := []uint8{0, 1, 2, 0}
	tm, err := New(2, 2, tiles, testRegistry(), Point{}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cases := []struct {
		x, y int
		want bool
	}{
		{0, 0, false}, // empty
		{1, 0, true},  // wall
		{0, 1, false}, // lava is damage, not solid
		{1, 1, false}, // empty
	}
	for _, c := range cases {
		if got := tm.IsSolid(c.x, c.y); got != c.want {
			t.Errorf("IsSolid(%d,%d) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestIsSolidOutOfBounds(t *testing.T) {
	tm, _ := New(1, 1, []uint8{1}, testRegistry(), Point{}, nil)
	if tm.IsSolid(-1, 0) || tm.IsSolid(5, 5) {
		t.Error("out-of-bounds tiles must never report solid")
	}
}

func TestSetTile(t *testing.T) {
	tm, _ := New(2, 2, []uint8{0, 0, 0, 0}, testRegistry(), Point{}, nil)
	if !tm.SetTile(1, 1, 1) {
		t.Fatal("SetTile within bounds should succeed")
	}
	if !tm.IsSolid(1, 1) {
		t.Error("tile should be solid after SetTile to the wall id")
	}
	if tm.SetTile(9, 9, 1) {
		t.Error("SetTile out of bounds should fail")
	}
}

func TestClone(t *testing.T) {
	goal := Point{X: 1, Y: 1}
	tm, _ := New(2, 2, []uint8{0, 1, 0, 0}, testRegistry(), Point{}, &goal)
	clone := tm.Clone()

	clone.SetTile(0, 0, 1)
	if tm.IsSolid(0, 0) {
		t.Error("mutating the clone must not affect the original")
	}
	if clone.Goal == tm.Goal {
		t.Error("Clone must deep-copy the Goal pointer")
	}
	if *clone.Goal != *tm.Goal {
		t.Error("cloned goal should have the same value")
	}
}

func TestWorldToTile(t *testing.T) {
	got := WorldToTile(65, 31, 32)
	want := Point{X: 2, Y: 0}
	if got != want {
		t.Errorf("WorldToTile = %+v, want %+v", got, want)
	}
}
