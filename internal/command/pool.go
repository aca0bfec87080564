package command

import (
	"sync"

	"github.com/axiom-sim/axiom/internal/axerr"
	"github.com/axiom-sim/axiom/internal/ecsworld"
	"github.com/axiom-sim/axiom/internal/presets"
)

// parkX/parkY place a released pool instance far outside any reasonable
// playfield so it neither collides nor renders while idle, without paying
// ark's entity-creation cost again on the next Acquire.
const parkX, parkY = -1_000_000, -1_000_000

// EntityPool is a named, fixed-capacity pool of pre-spawned preset
// entities, grounded on the stack-based Acquire/Release pattern of
// _examples/lixenwraith-vi-fighter/genetic/tracking/pool.go's
// CollectorPool, generalized from reusable collector objects to reusable
// ECS entity instances: InitPool spawns every instance once, up front;
// Acquire/Release reactivate and park the same underlying entities rather
// than spawning and despawning on every use.
type EntityPool struct {
	Preset   string
	Capacity int
	free     []ecsworld.NetworkId
	inUse    map[ecsworld.NetworkId]bool
}

// PoolRegistry custodies every named EntityPool InitPool creates.
type PoolRegistry struct {
	mu    sync.Mutex
	pools map[string]*EntityPool
}

// NewPoolRegistry builds an empty registry.
func NewPoolRegistry() *PoolRegistry {
	return &PoolRegistry{pools: make(map[string]*EntityPool)}
}

func (d *Dispatcher) initPool(args map[string]any) (any, error) {
	name, _ := args["name"].(string)
	presetName, _ := args["preset"].(string)
	size, _ := args["size"].(float64)
	if name == "" || presetName == "" || size <= 0 {
		return nil, axerr.New(axerr.KindValidation, "init_pool requires name, preset, and a positive size")
	}
	p, ok := d.Presets.Get(presetName)
	if !ok {
		return nil, ErrUnknownEntity
	}

	d.Pools.mu.Lock()
	defer d.Pools.mu.Unlock()
	pool := &EntityPool{Preset: presetName, Capacity: int(size), inUse: make(map[ecsworld.NetworkId]bool)}
	for i := 0; i < int(size); i++ {
		id := presets.Spawn(d.World, p, parkX, parkY)
		d.World.SetAlive(id, ecsworld.Alive{Value: false})
		pool.free = append(pool.free, id)
	}
	d.Pools.pools[name] = pool
	return map[string]any{"capacity": pool.Capacity, "available": len(pool.free)}, nil
}

func (d *Dispatcher) acquireFromPool(args map[string]any) (any, error) {
	name, _ := args["name"].(string)
	d.Pools.mu.Lock()
	pool, ok := d.Pools.pools[name]
	d.Pools.mu.Unlock()
	if !ok {
		return nil, ErrPoolNotRegistered
	}

	d.Pools.mu.Lock()
	if len(pool.free) == 0 {
		d.Pools.mu.Unlock()
		return nil, ErrPoolExhausted
	}
	id := pool.free[len(pool.free)-1]
	pool.free = pool.free[:len(pool.free)-1]
	pool.inUse[id] = true
	d.Pools.mu.Unlock()

	x, _ := args["x"].(float64)
	y, _ := args["y"].(float64)
	d.World.SetPosition(id, ecsworld.Position{X: float32(x), Y: float32(y)})
	d.World.SetAlive(id, ecsworld.Alive{Value: true})
	return uint64(id), nil
}

func (d *Dispatcher) releaseToPool(args map[string]any) (any, error) {
	name, _ := args["name"].(string)
	id, ok := idArg(args)
	if !ok {
		return nil, ErrUnknownEntity
	}

	d.Pools.mu.Lock()
	pool, ok := d.Pools.pools[name]
	if !ok {
		d.Pools.mu.Unlock()
		return nil, ErrPoolNotRegistered
	}
	if !pool.inUse[id] {
		d.Pools.mu.Unlock()
		return false, nil
	}
	delete(pool.inUse, id)
	pool.free = append(pool.free, id)
	d.Pools.mu.Unlock()

	d.World.SetAlive(id, ecsworld.Alive{Value: false})
	d.World.SetPosition(id, ecsworld.Position{X: parkX, Y: parkY})
	return true, nil
}

func (d *Dispatcher) getPoolStatus(args map[string]any) (any, error) {
	name, _ := args["name"].(string)
	d.Pools.mu.Lock()
	defer d.Pools.mu.Unlock()
	pool, ok := d.Pools.pools[name]
	if !ok {
		return nil, ErrPoolNotRegistered
	}
	return map[string]any{
		"preset":    pool.Preset,
		"capacity":  pool.Capacity,
		"available": len(pool.free),
		"in_use":    len(pool.inUse),
	}, nil
}
