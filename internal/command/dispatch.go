package command

import (
	"github.com/axiom-sim/axiom/internal/animation"
	"github.com/axiom-sim/axiom/internal/axerr"
	"github.com/axiom-sim/axiom/internal/ecsworld"
	"github.com/axiom-sim/axiom/internal/eventbus"
	"github.com/axiom-sim/axiom/internal/pathfind"
	"github.com/axiom-sim/axiom/internal/presets"
	"github.com/axiom-sim/axiom/internal/runtimestate"
	"github.com/axiom-sim/axiom/internal/tilemap"
)

// Saver, Simulator, and Scripter are implemented by internal/save,
// internal/simdriver, and internal/script respectively. Dispatcher depends
// on these as narrow interfaces rather than importing those packages
// directly, since script/save/simdriver in turn depend on command's types —
// a direct import would cycle. cmd/axiomd wires the concrete
// implementations in at construction time.
type Saver interface {
	Export() (any, error)
	Import(data any) error
}

type Simulator interface {
	SimulateWorld(args map[string]any) (any, error)
	RunScenario(args map[string]any) (any, error)
	RunPlaytest(args map[string]any) (any, error)
}

type Scripter interface {
	LoadScript(name, source string) error
	ListScripts() []string
	GetScript(name string) (string, bool)
	DeleteScript(name string) bool
	TestScript(name, source string) error
	ScriptErrors(name string) []string
	ScriptStats(name string) (any, bool)
	ScriptLogs(name string) []string
}

// PerfHistorian is implemented by internal/scheduler.Scheduler: a bounded
// history of recent per-tick performance samples, kept behind its own lock
// rather than the scheduler's tick mutex (see Scheduler.PerfHistory's doc
// comment for why).
type PerfHistorian interface {
	PerfHistory() []map[string]any
}

// Dispatcher applies a drained Command against the live world. It is
// single-threaded by construction: the scheduler only ever calls Handle
// from the tick goroutine, during step 3, so no locking beyond
// what World already does internally is needed here.
type Dispatcher struct {
	World    *ecsworld.World
	Tilemap  **tilemap.Tilemap
	Presets  *presets.Registry
	AnimReg  *animation.Registry
	Bus      *eventbus.Bus
	Config   *ConfigStore
	Staging  *Staging
	Runtime  *runtimestate.Machine
	PathCache *pathfind.Cache
	Pools     *PoolRegistry

	Save      Saver
	Sim       Simulator
	Script    Scripter
	Perf      PerfHistorian

	Frame func() uint64

	// activeCutscene, dialogueActive, and dialogueName track the Flow/UI
	// session state PlayCutscene/StartDialogue own; Handle only ever runs
	// on the tick goroutine so these need no lock of their own.
	activeCutscene string
	dialogueActive bool
	dialogueName   string
}

// Handle executes cmd and sends its Result on cmd.Reply, if present.
func (d *Dispatcher) Handle(cmd Command) {
	value, err := d.dispatch(cmd)
	cmd.reply(Result{Value: value, Err: err})
}

func (d *Dispatcher) dispatch(cmd Command) (any, error) {
	switch cmd.Kind {
	case KindGetState:
		return d.getState(), nil
	case KindGetPlayer:
		return d.getPlayer()
	case KindListEntities:
		return d.World.AllIDs(), nil
	case KindGetEntity:
		return d.getEntity(cmd.Args)
	case KindQueryTilemap:
		return d.queryTilemap(cmd.Args)
	case KindRaycastEntities:
		return d.raycastEntities(cmd.Args)

	case KindSetLevel:
		return d.setLevel(cmd.Args)
	case KindTeleportPlayer:
		return d.teleportPlayer(cmd.Args)
	case KindSpawnEntity:
		return d.spawnEntity(cmd.Args)
	case KindSpawnPreset:
		return d.spawnPreset(cmd.Args)
	case KindDeleteEntity:
		return d.deleteEntity(cmd.Args)
	case KindSetEntityPosition:
		return d.setEntityPosition(cmd.Args)
	case KindSetEntityVelocity:
		return d.setEntityVelocity(cmd.Args)
	case KindSetEntityHealth:
		return d.setEntityHealth(cmd.Args)
	case KindSetEntityContactDamage:
		return d.setEntityContactDamage(cmd.Args)
	case KindSetEntityHitbox:
		return d.setEntityHitbox(cmd.Args)
	case KindSetEntityAnimation:
		return d.setEntityAnimation(cmd.Args)
	case KindModifyEntityTags:
		return d.modifyEntityTags(cmd.Args)
	case KindSetEntityParticles:
		return d.setEntityParticles(cmd.Args)
	case KindSetEntityTint:
		return d.setEntityTint(cmd.Args)
	case KindSetEntityTrail:
		return d.setEntityTrail(cmd.Args)
	case KindBulkEntityMutate:
		return d.bulkEntityMutate(cmd.Args)
	case KindDamageEntity:
		return d.damageEntity(cmd.Args)
	case KindResetNonPlayerEntities:
		d.World.ResetNonPlayer()
		return nil, nil

	case KindGetSaveData:
		if d.Save == nil {
			return nil, ErrNotImplemented
		}
		return d.Save.Export()
	case KindLoadSaveData:
		if d.Save == nil {
			return nil, ErrNotImplemented
		}
		return nil, d.Save.Import(cmd.Args["data"])

	case KindSimulateWorld:
		if d.Sim == nil {
			return nil, ErrNotImplemented
		}
		return d.Sim.SimulateWorld(cmd.Args)
	case KindRunScenario:
		if d.Sim == nil {
			return nil, ErrNotImplemented
		}
		return d.Sim.RunScenario(cmd.Args)
	case KindRunPlaytest:
		if d.Sim == nil {
			return nil, ErrNotImplemented
		}
		return d.Sim.RunPlaytest(cmd.Args)

	case KindLoadScript:
		if d.Script == nil {
			return nil, ErrNotImplemented
		}
		name, _ := cmd.Args["name"].(string)
		source, _ := cmd.Args["source"].(string)
		return nil, d.Script.LoadScript(name, source)
	case KindListScripts:
		if d.Script == nil {
			return nil, ErrNotImplemented
		}
		return d.Script.ListScripts(), nil
	case KindGetScript:
		if d.Script == nil {
			return nil, ErrNotImplemented
		}
		name, _ := cmd.Args["name"].(string)
		src, ok := d.Script.GetScript(name)
		if !ok {
			return nil, ErrUnknownEntity
		}
		return src, nil
	case KindDeleteScript:
		if d.Script == nil {
			return nil, ErrNotImplemented
		}
		name, _ := cmd.Args["name"].(string)
		return d.Script.DeleteScript(name), nil
	case KindTestScript:
		if d.Script == nil {
			return nil, ErrNotImplemented
		}
		name, _ := cmd.Args["name"].(string)
		source, _ := cmd.Args["source"].(string)
		return nil, d.Script.TestScript(name, source)
	case KindGetScriptErrors:
		if d.Script == nil {
			return nil, ErrNotImplemented
		}
		name, _ := cmd.Args["name"].(string)
		return d.Script.ScriptErrors(name), nil
	case KindGetScriptStats:
		if d.Script == nil {
			return nil, ErrNotImplemented
		}
		name, _ := cmd.Args["name"].(string)
		stats, _ := d.Script.ScriptStats(name)
		return stats, nil
	case KindGetScriptLogs:
		if d.Script == nil {
			return nil, ErrNotImplemented
		}
		name, _ := cmd.Args["name"].(string)
		return d.Script.ScriptLogs(name), nil

	case KindGetScriptVars:
		return d.getScriptVars(cmd.Args)
	case KindSetScriptVars:
		return d.setScriptVars(cmd.Args)
	case KindGetScriptEvents:
		return d.getScriptEvents(cmd.Args)

	case KindSetRuntimeState:
		return d.setRuntimeState(cmd.Args)
	case KindPlayCutscene:
		return d.playCutscene(cmd.Args)
	case KindStopCutscene:
		return d.stopCutscene(cmd.Args)
	case KindStartDialogue:
		return d.startDialogue(cmd.Args)
	case KindChooseDialogue:
		return d.chooseDialogue(cmd.Args)

	case KindInitPool:
		return d.initPool(cmd.Args)
	case KindAcquireFromPool:
		return d.acquireFromPool(cmd.Args)
	case KindReleaseToPool:
		return d.releaseToPool(cmd.Args)
	case KindGetPoolStatus:
		return d.getPoolStatus(cmd.Args)

	case KindAtomicBuild:
		return d.atomicBuild(cmd.Args)
	case KindEvaluateGame:
		return d.evaluateGame(cmd.Args)

	case KindGetPerf:
		return d.getPerf(), nil
	case KindGetPerfHistory:
		return d.getPerfHistory(), nil
	case KindGetTelemetry:
		return d.getTelemetry(), nil
	case KindGetEvents:
		return d.getEvents(cmd.Args), nil
	case KindHealthCheck:
		return map[string]any{"ok": true}, nil

	default:
		return d.configPassthrough(cmd)
	}
}

// configPassthrough handles every Get*/Set* kind that is presentation
// config rather than simulated state: it just stores/returns whatever blob
// the caller sent under cmd.Kind (see ConfigStore's doc comment).
func (d *Dispatcher) configPassthrough(cmd Command) (any, error) {
	switch cmd.Kind {
	case KindSetConfig, KindSetSprites, KindUpsertSpriteSheet, KindSetAudio,
		KindSetParticlePresets, KindSetCameraConfig, KindCameraShake, KindCameraLookAt,
		KindSetAutoTile, KindSetTileLayer, KindDeleteTileLayer, KindSetLightingConfig,
		KindSetDayNight, KindSetParallax, KindSetWeather, KindClearWeather,
		KindSetWindowConfig, KindSetUiScreen, KindShowUiScreen, KindHideUiScreen,
		KindUpdateUiNode:
		d.Config.Set(cmd.Kind, cmd.Args["value"])
		return nil, nil
	case KindSetDialogueConversation, KindDefineCutscene:
		name, _ := cmd.Args["name"].(string)
		if name == "" {
			return nil, axerr.New(axerr.KindValidation, "set_dialogue_conversation/define_cutscene requires a name")
		}
		d.Config.SetNamed(cmd.Kind, name, cmd.Args["value"])
		return nil, nil
	case KindGetConfig, KindGetSprites, KindGetAudio, KindGetTileLayers:
		// Each getter reads back the blob its setter stored.
		setter := map[Kind]Kind{
			KindGetConfig:     KindSetConfig,
			KindGetSprites:    KindSetSprites,
			KindGetAudio:      KindSetAudio,
			KindGetTileLayers: KindSetTileLayer,
		}[cmd.Kind]
		v, _ := d.Config.Get(setter)
		return v, nil
	default:
		return nil, ErrNotImplemented
	}
}

func (d *Dispatcher) getState() map[string]any {
	frame := uint64(0)
	if d.Frame != nil {
		frame = d.Frame()
	}
	return map[string]any{
		"frame":         frame,
		"entity_count":  len(d.World.AllIDs()),
		"command_depth": 0,
	}
}

func (d *Dispatcher) getPlayer() (any, error) {
	id, ok := d.World.Player()
	if !ok {
		return nil, ErrUnknownEntity
	}
	return describeEntity(d.World, id), nil
}

func idArg(args map[string]any) (ecsworld.NetworkId, bool) {
	raw, ok := args["id"]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return ecsworld.NetworkId(v), true
	case uint64:
		return ecsworld.NetworkId(v), true
	case int:
		return ecsworld.NetworkId(v), true
	default:
		return 0, false
	}
}

func (d *Dispatcher) getEntity(args map[string]any) (any, error) {
	id, ok := idArg(args)
	if !ok || !d.World.Alive(id) {
		return nil, ErrUnknownEntity
	}
	return describeEntity(d.World, id), nil
}

func describeEntity(w *ecsworld.World, id ecsworld.NetworkId) map[string]any {
	out := map[string]any{"id": uint64(id)}
	if p, ok := w.Position(id); ok {
		out["position"] = p
	}
	if v, ok := w.Velocity(id); ok {
		out["velocity"] = v
	}
	if h, ok := w.Health(id); ok {
		out["health"] = h
	}
	if t, ok := w.Tags(id); ok {
		tags := make([]string, 0, len(t.Set))
		for tag := range t.Set {
			tags = append(tags, tag)
		}
		out["tags"] = tags
	}
	return out
}

func (d *Dispatcher) queryTilemap(args map[string]any) (any, error) {
	tm := *d.Tilemap
	if tm == nil {
		return nil, ErrNotImplemented
	}
	x, _ := args["x"].(float64)
	y, _ := args["y"].(float64)
	pt := tilemap.WorldToTile(float32(x), float32(y), tilemap.DefaultTileSize)
	if !tm.InBounds(pt.X, pt.Y) {
		return nil, ErrUnknownEntity
	}
	return map[string]any{
		"tile_x": pt.X,
		"tile_y": pt.Y,
		"type":   tm.TypeAt(pt.X, pt.Y).Name,
		"solid":  tm.IsSolid(pt.X, pt.Y),
	}, nil
}

func (d *Dispatcher) raycastEntities(args map[string]any) (any, error) {
	x0, _ := args["x0"].(float64)
	y0, _ := args["y0"].(float64)
	x1, _ := args["x1"].(float64)
	y1, _ := args["y1"].(float64)
	minX, maxX := float32(x0), float32(x1)
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := float32(y0), float32(y1)
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	var hits []uint64
	for _, id := range d.World.AllIDs() {
		pos, ok := d.World.Position(id)
		if !ok {
			continue
		}
		if pos.X >= minX && pos.X <= maxX && pos.Y >= minY && pos.Y <= maxY {
			hits = append(hits, uint64(id))
		}
	}
	return hits, nil
}

func (d *Dispatcher) setLevel(args map[string]any) (any, error) {
	tm, _ := args["tilemap"].(*tilemap.Tilemap)
	if tm == nil {
		return nil, ErrNotImplemented
	}
	sx, _ := args["spawn_x"].(float64)
	sy, _ := args["spawn_y"].(float64)
	d.Staging.SetLevel(PendingLevel{Tilemap: tm, PlayerSpawnX: float32(sx), PlayerSpawnY: float32(sy)})
	return nil, nil
}

func (d *Dispatcher) teleportPlayer(args map[string]any) (any, error) {
	id, ok := d.World.Player()
	if !ok {
		return nil, ErrUnknownEntity
	}
	x, _ := args["x"].(float64)
	y, _ := args["y"].(float64)
	d.World.SetPosition(id, ecsworld.Position{X: float32(x), Y: float32(y)})
	return nil, nil
}

func (d *Dispatcher) spawnEntity(args map[string]any) (any, error) {
	x, _ := args["x"].(float64)
	y, _ := args["y"].(float64)
	id := d.World.Spawn(ecsworld.Position{X: float32(x), Y: float32(y)})
	return uint64(id), nil
}

func (d *Dispatcher) spawnPreset(args map[string]any) (any, error) {
	name, _ := args["preset"].(string)
	p, ok := d.Presets.Get(name)
	if !ok {
		return nil, ErrUnknownEntity
	}
	x, _ := args["x"].(float64)
	y, _ := args["y"].(float64)
	id := presets.Spawn(d.World, p, float32(x), float32(y))
	return uint64(id), nil
}

func (d *Dispatcher) deleteEntity(args map[string]any) (any, error) {
	id, ok := idArg(args)
	if !ok {
		return nil, ErrUnknownEntity
	}
	return d.World.Despawn(id), nil
}

func (d *Dispatcher) setEntityPosition(args map[string]any) (any, error) {
	id, ok := idArg(args)
	if !ok {
		return nil, ErrUnknownEntity
	}
	x, _ := args["x"].(float64)
	y, _ := args["y"].(float64)
	return d.World.SetPosition(id, ecsworld.Position{X: float32(x), Y: float32(y)}), nil
}

func (d *Dispatcher) setEntityVelocity(args map[string]any) (any, error) {
	id, ok := idArg(args)
	if !ok {
		return nil, ErrUnknownEntity
	}
	x, _ := args["x"].(float64)
	y, _ := args["y"].(float64)
	return d.World.SetVelocity(id, ecsworld.Velocity{X: float32(x), Y: float32(y)}), nil
}

func (d *Dispatcher) setEntityHealth(args map[string]any) (any, error) {
	id, ok := idArg(args)
	if !ok {
		return nil, ErrUnknownEntity
	}
	cur, _ := args["current"].(float64)
	max, _ := args["max"].(float64)
	return d.World.SetHealth(id, ecsworld.Health{Current: float32(cur), Max: float32(max)}), nil
}

func (d *Dispatcher) setEntityContactDamage(args map[string]any) (any, error) {
	id, ok := idArg(args)
	if !ok {
		return nil, ErrUnknownEntity
	}
	amount, _ := args["amount"].(float64)
	knockback, _ := args["knockback"].(float64)
	tag, _ := args["damage_tag"].(string)
	return d.World.SetContactDamage(id, ecsworld.ContactDamage{
		Amount:    float32(amount),
		Knockback: float32(knockback),
		DamageTag: tag,
	}), nil
}

func (d *Dispatcher) setEntityHitbox(args map[string]any) (any, error) {
	id, ok := idArg(args)
	if !ok {
		return nil, ErrUnknownEntity
	}
	w, _ := args["w"].(float64)
	h, _ := args["h"].(float64)
	damage, _ := args["damage"].(float64)
	tag, _ := args["damage_tag"].(string)
	active, _ := args["active"].(bool)
	return d.World.SetHitbox(id, ecsworld.Hitbox{
		W: float32(w), H: float32(h), Damage: float32(damage), DamageTag: tag, Active: active,
	}), nil
}

func (d *Dispatcher) setEntityAnimation(args map[string]any) (any, error) {
	id, ok := idArg(args)
	if !ok {
		return nil, ErrUnknownEntity
	}
	graph, _ := args["graph"].(string)
	state, _ := args["state"].(string)
	return d.World.SetAnimation(id, ecsworld.Animation{GraphName: graph, State: state, Explicit: true}), nil
}

func (d *Dispatcher) setEntityParticles(args map[string]any) (any, error) {
	id, ok := idArg(args)
	if !ok {
		return nil, ErrUnknownEntity
	}
	preset, _ := args["preset"].(string)
	loop, _ := args["loop"].(bool)
	return d.World.SetParticleBurst(id, ecsworld.ParticleBurst{Preset: preset, Loop: loop}), nil
}

func (d *Dispatcher) setEntityTint(args map[string]any) (any, error) {
	id, ok := idArg(args)
	if !ok {
		return nil, ErrUnknownEntity
	}
	r, _ := args["r"].(float64)
	g, _ := args["g"].(float64)
	b, _ := args["b"].(float64)
	a, _ := args["a"].(float64)
	return d.World.SetTint(id, ecsworld.Tint{R: float32(r), G: float32(g), B: float32(b), A: float32(a)}), nil
}

func (d *Dispatcher) setEntityTrail(args map[string]any) (any, error) {
	id, ok := idArg(args)
	if !ok {
		return nil, ErrUnknownEntity
	}
	enabled, _ := args["enabled"].(bool)
	length, _ := args["length"].(float64)
	color, _ := args["color"].(string)
	return d.World.SetTrail(id, ecsworld.Trail{Enabled: enabled, Length: float32(length), Color: color}), nil
}

func (d *Dispatcher) modifyEntityTags(args map[string]any) (any, error) {
	id, ok := idArg(args)
	if !ok {
		return nil, ErrUnknownEntity
	}
	if add, ok := args["add"].([]any); ok {
		for _, t := range add {
			if s, ok := t.(string); ok {
				d.World.AddTag(id, s)
			}
		}
	}
	if remove, ok := args["remove"].([]any); ok {
		for _, t := range remove {
			if s, ok := t.(string); ok {
				d.World.RemoveTag(id, s)
			}
		}
	}
	return nil, nil
}

// bulkEntityMutate applies a tag add/remove to every id in args["ids"] that
// carries a StateMachine component — entities without one are skipped
// rather than erroring, since BulkEntityMutate only targets state-driven
// entities: the op exists to drive many NPCs' FSMs in lockstep, e.g. a
// scripted "alarm" that flips every enemy to Alert. The machine's current
// state is not checked: every listed id that has a StateMachine is mutated.
func (d *Dispatcher) bulkEntityMutate(args map[string]any) (any, error) {
	rawIDs, _ := args["ids"].([]any)
	add, _ := args["add_tags"].([]any)
	remove, _ := args["remove_tags"].([]any)
	mutated := 0
	for _, raw := range rawIDs {
		f, ok := raw.(float64)
		if !ok {
			continue
		}
		id := ecsworld.NetworkId(f)
		if _, ok := d.World.StateMachineOf(id); !ok {
			continue
		}
		for _, t := range add {
			if s, ok := t.(string); ok {
				d.World.AddTag(id, s)
			}
		}
		for _, t := range remove {
			if s, ok := t.(string); ok {
				d.World.RemoveTag(id, s)
			}
		}
		mutated++
	}
	return mutated, nil
}

func (d *Dispatcher) damageEntity(args map[string]any) (any, error) {
	id, ok := idArg(args)
	if !ok {
		return nil, ErrUnknownEntity
	}
	amount, _ := args["amount"].(float64)
	h, ok := d.World.Health(id)
	if !ok {
		return nil, ErrUnknownEntity
	}
	h.Current -= float32(amount)
	if h.Current < 0 {
		h.Current = 0
	}
	d.World.SetHealth(id, h)
	frame := uint64(0)
	if d.Frame != nil {
		frame = d.Frame()
	}
	d.Bus.Emit(eventbus.Event{
		Name:         "entity_damaged",
		Frame:        frame,
		SourceEntity: uint64(id),
		Data:         map[string]any{"amount": amount, "remaining_health": h.Current, "source": "command"},
	})
	if h.Current <= 0 {
		d.World.SetAlive(id, ecsworld.Alive{Value: false})
	}
	return h.Current, nil
}

func (d *Dispatcher) getPerf() map[string]any {
	out := map[string]any{
		"entity_count":       len(d.World.AllIDs()),
		"events_dropped":     d.Bus.Dropped(),
		"path_nodes_expanded": pathfind.NodesExpanded(),
	}
	if d.PathCache != nil {
		out["path_cache_hit_rate"] = d.PathCache.HitRate()
	}
	return out
}

func (d *Dispatcher) getEvents(args map[string]any) any {
	since, _ := args["since"].(float64)
	return d.Bus.Since(uint64(since))
}
