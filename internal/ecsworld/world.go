package ecsworld

import (
	"sort"
	"sync"

	"github.com/mlange-42/ark/ecs"
)

// World wraps an ark ecs.World with the NetworkId indirection scripts and
// the control plane use to address entities, never the raw ark handle. It
// is owned exclusively by the simulation task; the HTTP side never touches
// it directly (internal/api only ever talks to internal/command).
type World struct {
	mu sync.RWMutex

	raw ecs.World

	posMap *ecs.Map1[Position]

	velMap      *ecs.Map[Velocity]
	colliderMap *ecs.Map[Collider]
	groundedMap *ecs.Map[Grounded]
	coyoteMap   *ecs.Map[CoyoteTimer]
	jumpBufMap  *ecs.Map[JumpBuffer]
	tagsMap     *ecs.Map[Tags]
	healthMap   *ecs.Map[Health]
	aliveMap    *ecs.Map[Alive]
	invincMap   *ecs.Map[Invincibility]
	contactMap  *ecs.Map[ContactDamage]
	hitboxMap   *ecs.Map[Hitbox]
	projMap     *ecs.Map[Projectile]
	pickupMap   *ecs.Map[Pickup]
	triggerMap  *ecs.Map[TriggerZone]
	aiMap       *ecs.Map[AiBehavior]
	pathMap     *ecs.Map[PathFollower]
	scriptMap   *ecs.Map[Script]
	invMap      *ecs.Map[Inventory]
	smMap       *ecs.Map[StateMachine]
	gravityMap  *ecs.Map[GravityBody]
	jumperMap   *ecs.Map[Jumper]
	topDownMap  *ecs.Map[TopDownMover]
	inputMap    *ecs.Map[Input]
	animMap     *ecs.Map[Animation]
	particleMap *ecs.Map[ParticleBurst]
	tintMap     *ecs.Map[Tint]
	trailMap    *ecs.Map[Trail]

	byNetID map[NetworkId]ecs.Entity
	byEnt   map[ecs.Entity]NetworkId

	nextNetID NetworkId

	vars map[string]any

	playerID   NetworkId
	hasPlayer  bool
	playerSpawnX, playerSpawnY float32
}

// New constructs an empty World with every component map registered up
// front, the way pthm-soup's Game constructor wires every Map/Mapper once at
// startup rather than lazily.
func New() *World {
	raw := ecs.NewWorld()
	w := &World{
		raw:         raw,
		posMap:      ecs.NewMap1[Position](&raw),
		velMap:      ecs.NewMap[Velocity](&raw),
		colliderMap: ecs.NewMap[Collider](&raw),
		groundedMap: ecs.NewMap[Grounded](&raw),
		coyoteMap:   ecs.NewMap[CoyoteTimer](&raw),
		jumpBufMap:  ecs.NewMap[JumpBuffer](&raw),
		tagsMap:     ecs.NewMap[Tags](&raw),
		healthMap:   ecs.NewMap[Health](&raw),
		aliveMap:    ecs.NewMap[Alive](&raw),
		invincMap:   ecs.NewMap[Invincibility](&raw),
		contactMap:  ecs.NewMap[ContactDamage](&raw),
		hitboxMap:   ecs.NewMap[Hitbox](&raw),
		projMap:     ecs.NewMap[Projectile](&raw),
		pickupMap:   ecs.NewMap[Pickup](&raw),
		triggerMap:  ecs.NewMap[TriggerZone](&raw),
		aiMap:       ecs.NewMap[AiBehavior](&raw),
		pathMap:     ecs.NewMap[PathFollower](&raw),
		scriptMap:   ecs.NewMap[Script](&raw),
		invMap:      ecs.NewMap[Inventory](&raw),
		smMap:       ecs.NewMap[StateMachine](&raw),
		gravityMap:  ecs.NewMap[GravityBody](&raw),
		jumperMap:   ecs.NewMap[Jumper](&raw),
		topDownMap:  ecs.NewMap[TopDownMover](&raw),
		inputMap:    ecs.NewMap[Input](&raw),
		animMap:     ecs.NewMap[Animation](&raw),
		particleMap: ecs.NewMap[ParticleBurst](&raw),
		tintMap:     ecs.NewMap[Tint](&raw),
		trailMap:    ecs.NewMap[Trail](&raw),
		byNetID:     make(map[NetworkId]ecs.Entity, 256),
		byEnt:       make(map[ecs.Entity]NetworkId, 256),
		vars:        make(map[string]any),
		nextNetID:   1,
	}
	return w
}

// Spawn creates a new entity with the given Position and returns its
// NetworkId. Additional components are attached via the Set* accessors in
// accessors.go and accessors_physics.go.
// NetworkId is globally unique and strictly increasing.
func (w *World) Spawn(pos Position) NetworkId {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.spawnLocked(pos)
}

func (w *World) spawnLocked(pos Position) NetworkId {
	ent := w.posMap.NewEntity(&pos)
	id := w.nextNetID
	w.nextNetID++
	w.byNetID[id] = ent
	w.byEnt[ent] = id
	return id
}

// NextID previews the NetworkId that would be assigned by the next Spawn,
// without consuming it.
func (w *World) NextID() NetworkId {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.nextNetID
}

// SpawnAt creates a new entity under an explicit NetworkId rather than the
// next auto-assigned one, used by internal/save on load to restore entities
// under the ids they held when the save was taken. It fast-forwards
// nextNetID past id so subsequent Spawn calls never collide with a
// restored id.
func (w *World) SpawnAt(id NetworkId, pos Position) NetworkId {
	w.mu.Lock()
	defer w.mu.Unlock()
	ent := w.posMap.NewEntity(&pos)
	w.byNetID[id] = ent
	w.byEnt[ent] = id
	if id >= w.nextNetID {
		w.nextNetID = id + 1
	}
	return id
}

// ResetLevel despawns every entity and resets the id sequence, player
// marker, and spawn point, in preparation for a pending level change or a
// save load (tick step 1: loading a save clears the world first).
func (w *World) ResetLevel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for id, ent := range w.byNetID {
		w.raw.RemoveEntity(ent)
		delete(w.byNetID, id)
		delete(w.byEnt, ent)
	}
	w.nextNetID = 1
	w.hasPlayer = false
	w.playerID = 0
	w.playerSpawnX, w.playerSpawnY = 0, 0
	w.vars = make(map[string]any)
}

// Despawn removes an entity and all its components.
func (w *World) Despawn(id NetworkId) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	ent, ok := w.byNetID[id]
	if !ok || !w.raw.Alive(ent) {
		return false
	}
	w.raw.RemoveEntity(ent)
	delete(w.byNetID, id)
	delete(w.byEnt, ent)
	return true
}

// Alive reports whether id refers to a live entity.
func (w *World) Alive(id NetworkId) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ent, ok := w.byNetID[id]
	return ok && w.raw.Alive(ent)
}

func (w *World) entity(id NetworkId) (ecs.Entity, bool) {
	ent, ok := w.byNetID[id]
	if !ok || !w.raw.Alive(ent) {
		return ecs.Entity{}, false
	}
	return ent, true
}

// Entity resolves a NetworkId to its ark entity handle for package-internal
// callers (physics, ai, interaction) that need to batch-read component maps
// directly instead of one NetworkId at a time.
func (w *World) Entity(id NetworkId) (ecs.Entity, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.entity(id)
}

// NetworkID resolves an ark entity handle back to its NetworkId.
func (w *World) NetworkID(ent ecs.Entity) (NetworkId, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	id, ok := w.byEnt[ent]
	return id, ok
}

// AllIDs returns every live NetworkId in ascending order, the canonical
// iteration order for interaction pairing and snapshot export.
func (w *World) AllIDs() []NetworkId {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ids := make([]NetworkId, 0, len(w.byNetID))
	for id, ent := range w.byNetID {
		if w.raw.Alive(ent) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Raw exposes the underlying ark world for packages that need direct filter
// queries (internal/spatial, internal/physics, internal/ai, internal/interaction).
func (w *World) Raw() *ecs.World { return &w.raw }

// Lock/Unlock/RLock/RUnlock let subsystem packages participate in the same
// mutex the World already holds, so a whole-tick critical section can span
// multiple subsystem calls without re-entrant locking inside World methods.
func (w *World) Lock()    { w.mu.Lock() }
func (w *World) Unlock()  { w.mu.Unlock() }
func (w *World) RLock()   { w.mu.RLock() }
func (w *World) RUnlock() { w.mu.RUnlock() }

// GetVar/SetVar back world.get_var/set_var in the script API.
func (w *World) GetVar(name string) (any, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	v, ok := w.vars[name]
	return v, ok
}

func (w *World) SetVar(name string, value any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.vars[name] = value
}

// Vars returns a shallow copy of all process-wide vars, for save/snapshot.
func (w *World) Vars() map[string]any {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make(map[string]any, len(w.vars))
	for k, v := range w.vars {
		out[k] = v
	}
	return out
}

// SetVars replaces the full var table, used by LoadSaveData.
func (w *World) SetVars(vars map[string]any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.vars = vars
}

// PlayerSpawn returns the tile/world coordinate non-player-death respawns
// and PlayerID use.
func (w *World) PlayerSpawn() (float32, float32) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.playerSpawnX, w.playerSpawnY
}

// SetPlayerSpawn updates the respawn point, applied as part of a pending
// level change (tick step 1).
func (w *World) SetPlayerSpawn(x, y float32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.playerSpawnX, w.playerSpawnY = x, y
}

// Player returns the designated player entity's NetworkId, if one has been
// marked via SetPlayer.
func (w *World) Player() (NetworkId, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.playerID, w.hasPlayer
}

// SetPlayer marks id as the player entity (tagged "player" by convention;
// the death pass treats it specially — respawn instead of reap).
func (w *World) SetPlayer(id NetworkId) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.playerID = id
	w.hasPlayer = true
}
