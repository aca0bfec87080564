// Package snapshot implements the published, triple-buffered world view
// internal/api reads from. Grounded on game_snapshot.go
// SnapshotPool: same triple-buffer-of-preallocated-slices, atomic
// write/read index producer/consumer pattern, generalized from
// PlayerSnapshot/ParticleSnapshot/... to a single generic EntitySnapshot
// keyed by NetworkId.
package snapshot

import (
	"sync/atomic"
	"time"

	"github.com/axiom-sim/axiom/internal/ecsworld"
)

// EntitySnapshot is an immutable copy of one entity's queryable state.
type EntitySnapshot struct {
	ID       ecsworld.NetworkId
	X, Y     float32
	VX, VY   float32
	Health   float32
	MaxHealth float32
	Alive    bool
	Tags     []string
}

// World is one published frame: every live entity plus bookkeeping. Slices
// are reset-in-place on each AcquireWrite to avoid reallocating every tick.
type World struct {
	Sequence  uint64
	Frame     uint64
	Timestamp time.Time
	Entities  []EntitySnapshot
}

// Pool is a triple buffer of World snapshots: one tick-goroutine producer
// (AcquireWrite/PublishWrite), any number of HTTP-goroutine consumers
// (AcquireRead), all lock-free via atomic index stores.
type Pool struct {
	slots    [3]World
	writeIdx uint32
	readIdx  uint32
	sequence uint64

	capacityHint int
}

// NewPool pre-allocates every slot's Entities slice to capacityHint.
func NewPool(capacityHint int) *Pool {
	p := &Pool{capacityHint: capacityHint}
	for i := range p.slots {
		p.slots[i].Entities = make([]EntitySnapshot, 0, capacityHint)
	}
	return p
}

// AcquireWrite returns the next write slot with its slice reset to length
// zero but retained capacity. Called once per tick, after the scheduler's
// fixed subsystem order has run.
func (p *Pool) AcquireWrite() *World {
	idx := atomic.AddUint32(&p.writeIdx, 1) % 3
	w := &p.slots[idx]
	w.Entities = w.Entities[:0]
	w.Sequence = atomic.AddUint64(&p.sequence, 1)
	w.Timestamp = time.Now()
	return w
}

// PublishWrite makes the most recently acquired write slot visible to readers.
func (p *Pool) PublishWrite() {
	atomic.StoreUint32(&p.readIdx, atomic.LoadUint32(&p.writeIdx))
}

// AcquireRead returns the latest published World. Safe to call concurrently
// from any number of HTTP handler goroutines; returns a pointer into the
// pool's backing array, so callers must not retain it past their own
// request (the producer will overwrite it roughly 3 ticks later).
func (p *Pool) AcquireRead() *World {
	idx := atomic.LoadUint32(&p.readIdx) % 3
	return &p.slots[idx]
}

// Capture builds and publishes a snapshot of w's current live entities,
// called by internal/scheduler once per tick.
func Capture(pool *Pool, w *ecsworld.World, frame uint64) {
	out := pool.AcquireWrite()
	out.Frame = frame
	for _, id := range w.AllIDs() {
		out.Entities = append(out.Entities, entitySnapshotOf(w, id))
	}
	pool.PublishWrite()
}

func entitySnapshotOf(w *ecsworld.World, id ecsworld.NetworkId) EntitySnapshot {
	es := EntitySnapshot{ID: id}
	if p, ok := w.Position(id); ok {
		es.X, es.Y = p.X, p.Y
	}
	if v, ok := w.Velocity(id); ok {
		es.VX, es.VY = v.X, v.Y
	}
	if h, ok := w.Health(id); ok {
		es.Health, es.MaxHealth = h.Current, h.Max
	}
	if a, ok := w.IsAlive(id); ok {
		es.Alive = a.Value
	}
	if t, ok := w.Tags(id); ok {
		for tag := range t.Set {
			es.Tags = append(es.Tags, tag)
		}
	}
	return es
}
