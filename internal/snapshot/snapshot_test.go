package snapshot

import (
	"testing"

	"github.com/axiom-sim/axiom/internal/ecsworld"
)

func TestAcquireWriteResetsLengthButRetainsCapacity(t *testing.T) {
	pool := NewPool(8)
	w1 := pool.AcquireWrite()
	w1.Entities = append(w1.Entities, EntitySnapshot{ID: 1}, EntitySnapshot{ID: 2})
	pool.PublishWrite()

	w2 := pool.AcquireWrite()
	if len(w2.Entities) != 0 {
		t.Fatalf("expected the next write slot to start at length 0, got %d", len(w2.Entities))
	}
	if cap(w2.Entities) < 8 {
		t.Errorf("expected retained capacity >= 8, got %d", cap(w2.Entities))
	}
}

func TestPublishWriteMakesSlotVisibleToReaders(t *testing.T) {
	pool := NewPool(4)
	w := pool.AcquireWrite()
	w.Frame = 7
	w.Entities = append(w.Entities, EntitySnapshot{ID: 42})
	pool.PublishWrite()

	read := pool.AcquireRead()
	if read.Frame != 7 {
		t.Fatalf("expected published frame 7, got %d", read.Frame)
	}
	if len(read.Entities) != 1 || read.Entities[0].ID != 42 {
		t.Errorf("expected published entity [42], got %+v", read.Entities)
	}
}

func TestAcquireReadBeforeAnyPublishReturnsEmptySlot(t *testing.T) {
	pool := NewPool(4)
	read := pool.AcquireRead()
	if len(read.Entities) != 0 {
		t.Errorf("expected an empty snapshot before any publish, got %+v", read.Entities)
	}
}

func TestSequenceIncreasesAcrossWrites(t *testing.T) {
	pool := NewPool(4)
	first := pool.AcquireWrite().Sequence
	pool.PublishWrite()
	second := pool.AcquireWrite().Sequence
	pool.PublishWrite()
	if second <= first {
		t.Errorf("expected sequence to increase monotonically, got %d then %d", first, second)
	}
}

func TestCaptureBuildsEntitySnapshotFromLiveWorld(t *testing.T) {
	w := ecsworld.New()
	id := w.Spawn(ecsworld.Position{X: 10, Y: 20})
	w.SetVelocity(id, ecsworld.Velocity{X: 1, Y: 2})
	w.SetHealth(id, ecsworld.Health{Current: 5, Max: 10})
	w.SetAlive(id, ecsworld.Alive{Value: true})
	w.AddTag(id, "enemy")

	pool := NewPool(4)
	Capture(pool, w, 3)

	snap := pool.AcquireRead()
	if snap.Frame != 3 {
		t.Fatalf("expected frame 3, got %d", snap.Frame)
	}
	if len(snap.Entities) != 1 {
		t.Fatalf("expected 1 entity in the snapshot, got %d", len(snap.Entities))
	}
	es := snap.Entities[0]
	if es.ID != id {
		t.Errorf("expected snapshot id %d, got %d", id, es.ID)
	}
	if es.X != 10 || es.Y != 20 {
		t.Errorf("expected position (10,20), got (%v,%v)", es.X, es.Y)
	}
	if es.VX != 1 || es.VY != 2 {
		t.Errorf("expected velocity (1,2), got (%v,%v)", es.VX, es.VY)
	}
	if es.Health != 5 || es.MaxHealth != 10 {
		t.Errorf("expected health 5/10, got %v/%v", es.Health, es.MaxHealth)
	}
	if !es.Alive {
		t.Error("expected the entity to be marked alive")
	}
	if len(es.Tags) != 1 || es.Tags[0] != "enemy" {
		t.Errorf("expected tags [enemy], got %v", es.Tags)
	}
}

func TestCaptureOmitsEntitiesAddedAfterTheCall(t *testing.T) {
	w := ecsworld.New()
	w.Spawn(ecsworld.Position{X: 0, Y: 0})

	pool := NewPool(4)
	Capture(pool, w, 1)
	w.Spawn(ecsworld.Position{X: 1, Y: 1})

	snap := pool.AcquireRead()
	if len(snap.Entities) != 1 {
		t.Errorf("expected the published snapshot to reflect only entities present at capture time, got %d", len(snap.Entities))
	}
}
