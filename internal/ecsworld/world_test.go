package ecsworld

import "testing"

func TestSpawnAssignsIncreasingNetworkIDs(t *testing.T) {
	w := New()
	a := w.Spawn(Position{X: 1, Y: 1})
	b := w.Spawn(Position{X: 2, Y: 2})
	if b <= a {
		t.Fatalf("expected strictly increasing NetworkIds, got %d then %d", a, b)
	}
	if !w.Alive(a) || !w.Alive(b) {
		t.Fatal("freshly spawned entities should be alive")
	}
}

func TestNextIDPreviewsWithoutConsuming(t *testing.T) {
	w := New()
	preview := w.NextID()
	actual := w.Spawn(Position{})
	if preview != actual {
		t.Errorf("NextID() = %d, but Spawn produced %d", preview, actual)
	}
}

func TestDespawn(t *testing.T) {
	w := New()
	id := w.Spawn(Position{})
	if !w.Despawn(id) {
		t.Fatal("Despawn of a live entity should succeed")
	}
	if w.Alive(id) {
		t.Error("entity should not be alive after Despawn")
	}
	if w.Despawn(id) {
		t.Error("Despawn of an already-despawned entity should report false")
	}
}

func TestSpawnAtPreservesExplicitIDAndAdvancesSequence(t *testing.T) {
	w := New()
	const explicit NetworkId = 1000
	w.SpawnAt(explicit, Position{X: 5, Y: 5})
	if !w.Alive(explicit) {
		t.Fatal("SpawnAt should create a live entity under the given id")
	}
	if next := w.NextID(); next <= explicit {
		t.Errorf("NextID() = %d, should be fast-forwarded past %d", next, explicit)
	}
}

func TestPositionAccessor(t *testing.T) {
	w := New()
	id := w.Spawn(Position{X: 3, Y: 4})
	got, ok := w.Position(id)
	if !ok || got != (Position{X: 3, Y: 4}) {
		t.Fatalf("Position = %+v, %v", got, ok)
	}
	if !w.SetPosition(id, Position{X: 9, Y: 9}) {
		t.Fatal("SetPosition should succeed for a live entity")
	}
	got, _ = w.Position(id)
	if got != (Position{X: 9, Y: 9}) {
		t.Errorf("Position after SetPosition = %+v", got)
	}
}

func TestOptionalComponentAbsentByDefault(t *testing.T) {
	w := New()
	id := w.Spawn(Position{})
	if _, ok := w.Velocity(id); ok {
		t.Error("a freshly spawned entity should have no Velocity component")
	}
	if !w.SetVelocity(id, Velocity{X: 1, Y: 2}) {
		t.Fatal("SetVelocity should attach the component")
	}
	v, ok := w.Velocity(id)
	if !ok || v != (Velocity{X: 1, Y: 2}) {
		t.Errorf("Velocity after SetVelocity = %+v, %v", v, ok)
	}
}

func TestSetComponentOnDeadEntityFails(t *testing.T) {
	w := New()
	id := w.Spawn(Position{})
	w.Despawn(id)
	if w.SetVelocity(id, Velocity{X: 1}) {
		t.Error("SetVelocity on a despawned entity should fail")
	}
}

func TestTagsAddRemoveHas(t *testing.T) {
	w := New()
	id := w.Spawn(Position{})
	if !w.AddTag(id, "enemy") {
		t.Fatal("AddTag should succeed")
	}
	tags, ok := w.Tags(id)
	if !ok || !tags.Has("enemy") {
		t.Fatal("expected the tag to be present after AddTag")
	}
	if !w.RemoveTag(id, "enemy") {
		t.Fatal("RemoveTag should succeed")
	}
	tags, _ = w.Tags(id)
	if tags.Has("enemy") {
		t.Error("tag should be gone after RemoveTag")
	}
}

func TestTagsIntersects(t *testing.T) {
	tags := NewTags("player", "alive")
	other := map[string]struct{}{"alive": {}, "boss": {}}
	if !tags.Intersects(other) {
		t.Error("expected an intersection on the shared \"alive\" tag")
	}
	empty := Tags{}
	if empty.Intersects(other) {
		t.Error("an empty Tags set should never intersect")
	}
}

func TestResetLevelClearsEntitiesAndSequence(t *testing.T) {
	w := New()
	id := w.Spawn(Position{})
	w.SetPlayer(id)
	w.SetPlayerSpawn(10, 20)

	w.ResetLevel()

	if w.Alive(id) {
		t.Error("entities should not survive ResetLevel")
	}
	if _, ok := w.Player(); ok {
		t.Error("player marker should be cleared by ResetLevel")
	}
	x, y := w.PlayerSpawn()
	if x != 0 || y != 0 {
		t.Errorf("PlayerSpawn should reset to origin, got (%v, %v)", x, y)
	}
	if w.NextID() != 1 {
		t.Errorf("NextID should reset to 1 after ResetLevel, got %d", w.NextID())
	}
}

func TestPlayerMarker(t *testing.T) {
	w := New()
	if _, ok := w.Player(); ok {
		t.Fatal("a fresh world should have no player marked")
	}
	id := w.Spawn(Position{})
	w.SetPlayer(id)
	got, ok := w.Player()
	if !ok || got != id {
		t.Errorf("Player() = %d, %v; want %d, true", got, ok, id)
	}
}

func TestVars(t *testing.T) {
	w := New()
	if _, ok := w.GetVar("score"); ok {
		t.Fatal("an unset var should not be found")
	}
	w.SetVar("score", int32(42))
	v, ok := w.GetVar("score")
	if !ok || v.(int32) != 42 {
		t.Errorf("GetVar(score) = %v, %v", v, ok)
	}

	snapshot := w.Vars()
	snapshot["score"] = int32(999)
	if v, _ := w.GetVar("score"); v.(int32) != 42 {
		t.Error("Vars() should return a copy, not a live reference")
	}

	w.SetVars(map[string]any{"level": "intro"})
	if _, ok := w.GetVar("score"); ok {
		t.Error("SetVars should replace the table wholesale")
	}
}

func TestAllIDsOrderedAndLiveOnly(t *testing.T) {
	w := New()
	var ids []NetworkId
	for i := 0; i < 5; i++ {
		ids = append(ids, w.Spawn(Position{}))
	}
	w.Despawn(ids[2])

	got := w.AllIDs()
	if len(got) != 4 {
		t.Fatalf("expected 4 live ids, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Fatalf("AllIDs must be ascending, got %v", got)
		}
	}
	for _, id := range got {
		if id == ids[2] {
			t.Error("AllIDs should not include a despawned entity")
		}
	}
}

func TestNetworkIDRoundTrip(t *testing.T) {
	w := New()
	id := w.Spawn(Position{})
	ent, ok := w.Entity(id)
	if !ok {
		t.Fatal("Entity should resolve a live NetworkId")
	}
	back, ok := w.NetworkID(ent)
	if !ok || back != id {
		t.Errorf("NetworkID(Entity(id)) = %d, %v; want %d, true", back, ok, id)
	}
}
