package pathfind

import (
	"fmt"
	"sync"

	"github.com/axiom-sim/axiom/internal/tilemap"
)

// PathType selects which cache (and hash rule) a lookup uses.
type PathType uint8

const (
	TopDown PathType = iota
	Platformer
)

type cacheKey struct {
	From, To tilemap.Point
	TileBits uint8
	CfgHash  uint64
}

// Cache is the per-tilemap LRU-by-full-wipe path cache:
// capacity 4096 per path type, cleared entirely on overflow, and invalidated
// whenever the tilemap changes.
type Cache struct {
	mu       sync.Mutex
	capacity int
	topDown  map[cacheKey][]tilemap.Point
	platform map[cacheKey][]tilemap.Point

	hits, misses uint64
}

// NewCache builds an empty Cache with default capacity.
func NewCache() *Cache {
	return &Cache{
		capacity: 4096,
		topDown:  make(map[cacheKey][]tilemap.Point),
		platform: make(map[cacheKey][]tilemap.Point),
	}
}

// Invalidate clears both caches, called whenever the tilemap changes.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.topDown = make(map[cacheKey][]tilemap.Point)
	c.platform = make(map[cacheKey][]tilemap.Point)
}

// ConfigHash folds the platformer movement tuning into a cache key:
// move_speed, jump_velocity, gravity, and fall_multiplier all feed the hash.
func ConfigHash(cfg PlatformerConfig) uint64 {
	s := fmt.Sprintf("%f|%f|%f|%f", cfg.MoveSpeed, cfg.JumpVelocity, cfg.Gravity, cfg.FallMultiplier)
	var h uint64 = 1469598103934665603
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return h
}

func (c *Cache) tableFor(pt PathType) *map[cacheKey][]tilemap.Point {
	if pt == TopDown {
		return &c.topDown
	}
	return &c.platform
}

// Get looks up a cached path, recording a hit/miss for telemetry.
func (c *Cache) Get(pt PathType, from, to tilemap.Point, cfgHash uint64) ([]tilemap.Point, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	table := *c.tableFor(pt)
	key := cacheKey{From: from, To: to, TileBits: 0, CfgHash: cfgHash}
	p, ok := table[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return p, ok
}

// Put stores a path, wiping the whole table first if it is already at
// capacity — a deliberately simple eviction policy over an LRU.
func (c *Cache) Put(pt PathType, from, to tilemap.Point, cfgHash uint64, p []tilemap.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tablePtr := c.tableFor(pt)
	if len(*tablePtr) >= c.capacity {
		*tablePtr = make(map[cacheKey][]tilemap.Point)
	}
	key := cacheKey{From: from, To: to, TileBits: 0, CfgHash: cfgHash}
	(*tablePtr)[key] = p
}

// HitRate reports the cache's lifetime hit rate, surfaced via GetPerf as
// path_cache_hit_rate, restored from
// _examples/original_source/src/pathfinding.rs's debug counters.
func (c *Cache) HitRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total)
}
