package command

import (
	"testing"

	"github.com/axiom-sim/axiom/internal/animation"
	"github.com/axiom-sim/axiom/internal/ecsworld"
	"github.com/axiom-sim/axiom/internal/eventbus"
	"github.com/axiom-sim/axiom/internal/pathfind"
	"github.com/axiom-sim/axiom/internal/presets"
	"github.com/axiom-sim/axiom/internal/runtimestate"
)

func TestQueueSubmitAndDrain(t *testing.T) {
	q := New()
	if !q.Submit(Command{Kind: KindGetState}) {
		t.Fatal("Submit on a fresh queue should succeed")
	}
	if !q.Submit(Command{Kind: KindHealthCheck}) {
		t.Fatal("Submit should succeed while under capacity")
	}
	if q.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", q.Len())
	}
	drained := q.Drain()
	if len(drained) != 2 {
		t.Fatalf("Drain() returned %d commands, want 2", len(drained))
	}
	if drained[0].Kind != KindGetState || drained[1].Kind != KindHealthCheck {
		t.Errorf("Drain should preserve FIFO order, got %+v", drained)
	}
	if q.Len() != 0 {
		t.Error("Len() should be 0 after Drain")
	}
}

func TestQueueSubmitRejectsWhenFull(t *testing.T) {
	q := New()
	for i := 0; i < QueueCapacity; i++ {
		if !q.Submit(Command{Kind: KindHealthCheck}) {
			t.Fatalf("Submit unexpectedly rejected at i=%d", i)
		}
	}
	if q.Submit(Command{Kind: KindHealthCheck}) {
		t.Error("Submit should reject once the queue reaches QueueCapacity")
	}
}

func TestSubmitAndWaitReturnsReplyResult(t *testing.T) {
	q := New()
	go func() {
		drained := q.Drain()
		for len(drained) == 0 {
			drained = q.Drain()
		}
		drained[0].reply(Result{Value: 42})
	}()
	res := q.SubmitAndWait(KindHealthCheck, nil)
	if res.Err != nil || res.Value != 42 {
		t.Errorf("SubmitAndWait = %+v, want Value=42, Err=nil", res)
	}
}

func buildDispatcher() *Dispatcher {
	w := ecsworld.New()
	presetReg := presets.NewRegistry()
	animReg := animation.NewRegistry()
	bus := eventbus.New()
	frame := uint64(7)

	return &Dispatcher{
		World:     w,
		Presets:   presetReg,
		AnimReg:   animReg,
		Bus:       bus,
		Config:    NewConfigStore(),
		Staging:   NewStaging(),
		Runtime:   runtimestate.New(),
		PathCache: pathfind.NewCache(),
		Pools:     NewPoolRegistry(),
		Frame:     func() uint64 { return frame },
	}
}

func TestDispatcherGetStateReportsFrameAndEntityCount(t *testing.T) {
	d := buildDispatcher()
	d.World.Spawn(ecsworld.Position{})
	d.World.Spawn(ecsworld.Position{})

	res, err := d.dispatch(Command{Kind: KindGetState})
	if err != nil {
		t.Fatalf("dispatch(get_state): %v", err)
	}
	m := res.(map[string]any)
	if m["frame"] != uint64(7) {
		t.Errorf("expected frame 7, got %v", m["frame"])
	}
	if m["entity_count"] != 2 {
		t.Errorf("expected entity_count 2, got %v", m["entity_count"])
	}
}

func TestDispatcherSpawnEntity(t *testing.T) {
	d := buildDispatcher()
	res, err := d.dispatch(Command{Kind: KindSpawnEntity, Args: map[string]any{"x": 3.0, "y": 4.0}})
	if err != nil {
		t.Fatalf("dispatch(spawn_entity): %v", err)
	}
	id := ecsworld.NetworkId(res.(uint64))
	pos, ok := d.World.Position(id)
	if !ok || pos.X != 3 || pos.Y != 4 {
		t.Errorf("expected spawned entity at (3,4), got %+v, %v", pos, ok)
	}
}

func TestDispatcherSpawnPresetUnknownReturnsErr(t *testing.T) {
	d := buildDispatcher()
	_, err := d.dispatch(Command{Kind: KindSpawnPreset, Args: map[string]any{"preset": "nope"}})
	if err != ErrUnknownEntity {
		t.Errorf("expected ErrUnknownEntity for an unregistered preset, got %v", err)
	}
}

func TestDispatcherDeleteEntity(t *testing.T) {
	d := buildDispatcher()
	id := d.World.Spawn(ecsworld.Position{})
	res, err := d.dispatch(Command{Kind: KindDeleteEntity, Args: map[string]any{"id": float64(id)}})
	if err != nil {
		t.Fatalf("dispatch(delete_entity): %v", err)
	}
	if res != true {
		t.Errorf("expected Despawn to report true, got %v", res)
	}
	if d.World.Alive(id) {
		t.Error("entity should no longer be alive after delete_entity")
	}
}

func TestDispatcherDamageEntityEmitsEventAndClampsToZero(t *testing.T) {
	d := buildDispatcher()
	id := d.World.Spawn(ecsworld.Position{})
	d.World.SetHealth(id, ecsworld.Health{Current: 10, Max: 10})

	res, err := d.dispatch(Command{Kind: KindDamageEntity, Args: map[string]any{"id": float64(id), "amount": 25.0}})
	if err != nil {
		t.Fatalf("dispatch(damage_entity): %v", err)
	}
	if res.(float32) != 0 {
		t.Errorf("expected health clamped to 0, got %v", res)
	}
	alive, ok := d.World.IsAlive(id)
	if !ok || alive.Value {
		t.Error("an entity reduced to 0 health should be marked not alive")
	}

	found := false
	for _, e := range d.Bus.Since(0) {
		if e.Name == "entity_damaged" {
			found = true
		}
	}
	if !found {
		t.Error("expected an entity_damaged event")
	}
}

func TestDispatcherDamageEntityUnknownID(t *testing.T) {
	d := buildDispatcher()
	_, err := d.dispatch(Command{Kind: KindDamageEntity, Args: map[string]any{"id": float64(999), "amount": 5.0}})
	if err != ErrUnknownEntity {
		t.Errorf("expected ErrUnknownEntity, got %v", err)
	}
}

func TestDispatcherModifyEntityTags(t *testing.T) {
	d := buildDispatcher()
	id := d.World.Spawn(ecsworld.Position{})
	d.World.AddTag(id, "stale")

	_, err := d.dispatch(Command{Kind: KindModifyEntityTags, Args: map[string]any{
		"id":     float64(id),
		"add":    []any{"enemy"},
		"remove": []any{"stale"},
	}})
	if err != nil {
		t.Fatalf("dispatch(modify_entity_tags): %v", err)
	}
	tags, _ := d.World.Tags(id)
	if !tags.Has("enemy") || tags.Has("stale") {
		t.Errorf("expected enemy added and stale removed, got %+v", tags)
	}
}

func TestDispatcherBulkEntityMutateSkipsNonStateMachineEntities(t *testing.T) {
	d := buildDispatcher()
	plain := d.World.Spawn(ecsworld.Position{})
	fsm := d.World.Spawn(ecsworld.Position{})
	d.World.SetStateMachine(fsm, ecsworld.StateMachine{Current: "idle"})

	res, err := d.dispatch(Command{Kind: KindBulkEntityMutate, Args: map[string]any{
		"ids":      []any{float64(plain), float64(fsm)},
		"add_tags": []any{"alert"},
	}})
	if err != nil {
		t.Fatalf("dispatch(bulk_entity_mutate): %v", err)
	}
	if res != 1 {
		t.Errorf("expected only the StateMachine entity to be mutated, got count=%v", res)
	}
	fsmTags, _ := d.World.Tags(fsm)
	if !fsmTags.Has("alert") {
		t.Error("expected the state-machine entity to receive the alert tag")
	}
	if plainTags, ok := d.World.Tags(plain); ok && plainTags.Has("alert") {
		t.Error("a non-state-machine entity should not be mutated")
	}
}

func TestDispatcherUnwiredSaveSimScriptReturnErrNotImplemented(t *testing.T) {
	d := buildDispatcher()
	for _, kind := range []Kind{KindGetSaveData, KindSimulateWorld, KindLoadScript} {
		if _, err := d.dispatch(Command{Kind: kind}); err != ErrNotImplemented {
			t.Errorf("dispatch(%v) with a nil backend should return ErrNotImplemented, got %v", kind, err)
		}
	}
}

func TestDispatcherConfigPassthroughRoundTrips(t *testing.T) {
	d := buildDispatcher()
	if _, err := d.dispatch(Command{Kind: KindSetAudio, Args: map[string]any{"value": map[string]any{"volume": 0.5}}}); err != nil {
		t.Fatalf("dispatch(set_audio): %v", err)
	}
	res, err := d.dispatch(Command{Kind: KindGetAudio})
	if err != nil {
		t.Fatalf("dispatch(get_audio): %v", err)
	}
	blob := res.(map[string]any)
	if blob["volume"] != 0.5 {
		t.Errorf("expected config passthrough to round-trip the stored blob, got %v", blob)
	}
}

func TestDispatcherUnknownConfigKindIsNotImplemented(t *testing.T) {
	d := buildDispatcher()
	if _, err := d.dispatch(Command{Kind: Kind("nonexistent_kind")}); err != ErrNotImplemented {
		t.Errorf("an unrecognized Kind should fall through to ErrNotImplemented, got %v", err)
	}
}

func TestConfigStoreSetGetAndSnapshotRestore(t *testing.T) {
	c := NewConfigStore()
	c.Set(KindSetAudio, 99)
	v, ok := c.Get(KindSetAudio)
	if !ok || v != 99 {
		t.Fatalf("Get after Set = %v, %v", v, ok)
	}
	snap := c.Snapshot()
	if snap[KindSetAudio] != 99 {
		t.Errorf("Snapshot should include the stored value, got %+v", snap)
	}

	c2 := NewConfigStore()
	c2.Restore(snap)
	v2, ok := c2.Get(KindSetAudio)
	if !ok || v2 != 99 {
		t.Errorf("Restore should repopulate from a prior Snapshot, got %v, %v", v2, ok)
	}
}

func TestStagingSetAndTakeLevelClearsAfterTake(t *testing.T) {
	s := NewStaging()
	if _, ok := s.TakeLevel(); ok {
		t.Fatal("a fresh Staging should have no pending level")
	}
	s.SetLevel(PendingLevel{PlayerSpawnX: 1, PlayerSpawnY: 2})
	p, ok := s.TakeLevel()
	if !ok || p.PlayerSpawnX != 1 || p.PlayerSpawnY != 2 {
		t.Fatalf("TakeLevel = %+v, %v", p, ok)
	}
	if _, ok := s.TakeLevel(); ok {
		t.Error("TakeLevel should clear the pending level after taking it")
	}
}

func TestStagingSecondSetOverwritesFirst(t *testing.T) {
	s := NewStaging()
	s.SetLevel(PendingLevel{PlayerSpawnX: 1})
	s.SetLevel(PendingLevel{PlayerSpawnX: 2})
	p, _ := s.TakeLevel()
	if p.PlayerSpawnX != 2 {
		t.Errorf("the latest SetLevel should win, got %+v", p)
	}
}

func TestStagingPhysics(t *testing.T) {
	s := NewStaging()
	s.SetPhysics(PendingPhysicsConfig{Gravity: 900, MaxFallSpeed: 1200})
	p, ok := s.TakePhysics()
	if !ok || p.Gravity != 900 || p.MaxFallSpeed != 1200 {
		t.Fatalf("TakePhysics = %+v, %v", p, ok)
	}
	if _, ok := s.TakePhysics(); ok {
		t.Error("TakePhysics should clear the pending config after taking it")
	}
}

// previouslyMissingKinds were the 19 Kinds with no dispatch/configPassthrough
// case at all — every call fell through to ErrNotImplemented no matter how
// Dispatcher was wired. This locks in that each now resolves to its own
// handler instead of the default case.
var previouslyMissingKinds = []Kind{
	KindSetEntityParticles, KindSetEntityTint, KindSetEntityTrail,
	KindGetScriptVars, KindSetScriptVars, KindGetScriptEvents,
	KindStartDialogue, KindChooseDialogue,
	KindSetRuntimeState, KindPlayCutscene, KindStopCutscene,
	KindAtomicBuild,
	KindInitPool, KindAcquireFromPool, KindReleaseToPool, KindGetPoolStatus,
	KindGetPerfHistory, KindGetTelemetry, KindEvaluateGame,
}

func TestDispatcherPreviouslyMissingKindsNoLongerFallThrough(t *testing.T) {
	for _, kind := range previouslyMissingKinds {
		d := buildDispatcher()
		id := d.World.Spawn(ecsworld.Position{})
		d.World.SetPlayer(id)
		args := map[string]any{"id": uint64(id), "x": 0.0, "y": 0.0, "name": "x"}
		if _, err := d.dispatch(Command{Kind: kind, Args: args}); err == ErrNotImplemented {
			t.Errorf("dispatch(%v) still falls through to ErrNotImplemented", kind)
		}
	}
}

func TestDispatcherRuntimeStateTransitions(t *testing.T) {
	d := buildDispatcher()
	if _, err := d.dispatch(Command{Kind: KindSetRuntimeState, Args: map[string]any{"state": "paused"}}); err != nil {
		t.Fatalf("set_runtime_state(paused): %v", err)
	}
	if d.Runtime.Current() != runtimestate.Paused {
		t.Errorf("expected runtime state Paused, got %v", d.Runtime.Current())
	}
	if _, err := d.dispatch(Command{Kind: KindSetRuntimeState, Args: map[string]any{"state": "bogus"}}); err == nil {
		t.Error("set_runtime_state with an unknown name should error")
	}
}

func TestDispatcherCutsceneLifecycle(t *testing.T) {
	d := buildDispatcher()
	if _, err := d.dispatch(Command{Kind: KindPlayCutscene, Args: map[string]any{"name": "intro"}}); err != ErrUnknownCutscene {
		t.Errorf("play_cutscene on an undefined name should return ErrUnknownCutscene, got %v", err)
	}
	if _, err := d.dispatch(Command{Kind: KindDefineCutscene, Args: map[string]any{"name": "intro", "value": map[string]any{"steps": 3}}}); err != nil {
		t.Fatalf("define_cutscene: %v", err)
	}
	if _, err := d.dispatch(Command{Kind: KindPlayCutscene, Args: map[string]any{"name": "intro"}}); err != nil {
		t.Fatalf("play_cutscene after define: %v", err)
	}
	if d.Runtime.Current() != runtimestate.Cutscene {
		t.Errorf("expected runtime state Cutscene, got %v", d.Runtime.Current())
	}
	if _, err := d.dispatch(Command{Kind: KindStopCutscene}); err != nil {
		t.Fatalf("stop_cutscene: %v", err)
	}
	if d.Runtime.Current() != runtimestate.Playing {
		t.Errorf("expected runtime state Playing after stop_cutscene, got %v", d.Runtime.Current())
	}
}

func TestDispatcherDialogueRefusesDoubleStart(t *testing.T) {
	d := buildDispatcher()
	if _, err := d.dispatch(Command{Kind: KindSetDialogueConversation, Args: map[string]any{"name": "npc1", "value": map[string]any{"line": "hi"}}}); err != nil {
		t.Fatalf("set_dialogue_conversation: %v", err)
	}
	if _, err := d.dispatch(Command{Kind: KindStartDialogue, Args: map[string]any{"name": "npc1"}}); err != nil {
		t.Fatalf("start_dialogue: %v", err)
	}
	if _, err := d.dispatch(Command{Kind: KindStartDialogue, Args: map[string]any{"name": "npc1"}}); err != ErrDialogueActive {
		t.Errorf("start_dialogue while one is active should return ErrDialogueActive, got %v", err)
	}
	if _, err := d.dispatch(Command{Kind: KindChooseDialogue, Args: map[string]any{"choice": 1.0, "end": true}}); err != nil {
		t.Fatalf("choose_dialogue: %v", err)
	}
	if _, err := d.dispatch(Command{Kind: KindStartDialogue, Args: map[string]any{"name": "npc1"}}); err != nil {
		t.Errorf("start_dialogue should succeed again once the prior one ended, got %v", err)
	}
}

func TestDispatcherScriptVarsRoundTrip(t *testing.T) {
	d := buildDispatcher()
	if _, err := d.dispatch(Command{Kind: KindSetScriptVars, Args: map[string]any{"vars": map[string]any{"wave": 3.0}}}); err != nil {
		t.Fatalf("set_script_vars: %v", err)
	}
	res, err := d.dispatch(Command{Kind: KindGetScriptVars})
	if err != nil {
		t.Fatalf("get_script_vars: %v", err)
	}
	if res.(map[string]any)["wave"] != 3.0 {
		t.Errorf("expected script var wave=3.0 to round-trip, got %v", res)
	}
}

func TestDispatcherPoolLifecycle(t *testing.T) {
	d := buildDispatcher()
	d.Presets.Upsert(presets.Preset{Name: "arrow"})

	if _, err := d.dispatch(Command{Kind: KindAcquireFromPool, Args: map[string]any{"name": "arrows"}}); err != ErrPoolNotRegistered {
		t.Errorf("acquire_from_pool on an unregistered pool should return ErrPoolNotRegistered, got %v", err)
	}

	status, err := d.dispatch(Command{Kind: KindInitPool, Args: map[string]any{"name": "arrows", "preset": "arrow", "size": 2.0}})
	if err != nil {
		t.Fatalf("init_pool: %v", err)
	}
	if status.(map[string]any)["available"] != 2 {
		t.Errorf("expected 2 available after init_pool, got %+v", status)
	}

	id1, err := d.dispatch(Command{Kind: KindAcquireFromPool, Args: map[string]any{"name": "arrows", "x": 10.0, "y": 20.0}})
	if err != nil {
		t.Fatalf("acquire_from_pool: %v", err)
	}
	if _, err := d.dispatch(Command{Kind: KindAcquireFromPool, Args: map[string]any{"name": "arrows"}}); err != nil {
		t.Fatalf("second acquire_from_pool: %v", err)
	}
	if _, err := d.dispatch(Command{Kind: KindAcquireFromPool, Args: map[string]any{"name": "arrows"}}); err != ErrPoolExhausted {
		t.Errorf("acquire_from_pool past capacity should return ErrPoolExhausted, got %v", err)
	}

	ok, err := d.dispatch(Command{Kind: KindReleaseToPool, Args: map[string]any{"name": "arrows", "id": id1}})
	if err != nil || ok != true {
		t.Fatalf("release_to_pool: %v, %v", ok, err)
	}

	status, err = d.dispatch(Command{Kind: KindGetPoolStatus, Args: map[string]any{"name": "arrows"}})
	if err != nil {
		t.Fatalf("get_pool_status: %v", err)
	}
	if status.(map[string]any)["available"] != 1 {
		t.Errorf("expected 1 available after one release, got %+v", status)
	}
}

func TestDispatcherAtomicBuildRejectsUnknownPreset(t *testing.T) {
	d := buildDispatcher()
	_, err := d.dispatch(Command{Kind: KindAtomicBuild, Args: map[string]any{
		"entities": []any{map[string]any{"preset": "nope", "x": 0.0, "y": 0.0}},
	}})
	if err == nil {
		t.Fatal("atomic_build referencing an unknown preset should fail validation")
	}
	if len(d.World.AllIDs()) != 0 {
		t.Error("a failed atomic_build should not spawn any entity")
	}
}

func TestDispatcherAtomicBuildSpawnsFromSuppliedPresets(t *testing.T) {
	d := buildDispatcher()
	res, err := d.dispatch(Command{Kind: KindAtomicBuild, Args: map[string]any{
		"presets":  map[string]presets.Preset{"goblin": {}},
		"entities": []any{map[string]any{"preset": "goblin", "x": 5.0, "y": 6.0}},
	}})
	if err != nil {
		t.Fatalf("atomic_build: %v", err)
	}
	out := res.(map[string]any)
	if out["entities_spawned"] != 1 {
		t.Errorf("expected 1 entity spawned, got %+v", out)
	}
	if len(d.World.AllIDs()) != 1 {
		t.Errorf("expected 1 live entity after atomic_build, got %d", len(d.World.AllIDs()))
	}
}

func TestDispatcherGetPerfIncludesPathMetrics(t *testing.T) {
	d := buildDispatcher()
	res, err := d.dispatch(Command{Kind: KindGetPerf})
	if err != nil {
		t.Fatalf("get_perf: %v", err)
	}
	m := res.(map[string]any)
	if _, ok := m["path_nodes_expanded"]; !ok {
		t.Error("get_perf should report path_nodes_expanded")
	}
	if _, ok := m["path_cache_hit_rate"]; !ok {
		t.Error("get_perf should report path_cache_hit_rate")
	}
}

func TestDispatcherGetTelemetryReportsCounters(t *testing.T) {
	d := buildDispatcher()
	res, err := d.dispatch(Command{Kind: KindGetTelemetry})
	if err != nil {
		t.Fatalf("get_telemetry: %v", err)
	}
	m := res.(map[string]any)
	if _, ok := m["commands_dispatched"]; !ok {
		t.Error("get_telemetry should report commands_dispatched")
	}
}

func TestDispatcherGetPerfHistoryWithNoSchedulerIsEmpty(t *testing.T) {
	d := buildDispatcher()
	res, err := d.dispatch(Command{Kind: KindGetPerfHistory})
	if err != nil {
		t.Fatalf("get_perf_history: %v", err)
	}
	if len(res.([]map[string]any)) != 0 {
		t.Errorf("get_perf_history with no Perf wired should be empty, got %+v", res)
	}
}

func TestDispatcherEvaluateGameReportsPlayerDistance(t *testing.T) {
	d := buildDispatcher()
	id := d.World.Spawn(ecsworld.Position{X: 3, Y: 4})
	d.World.SetPlayer(id)
	d.World.SetPlayerSpawn(0, 0)

	res, err := d.dispatch(Command{Kind: KindEvaluateGame})
	if err != nil {
		t.Fatalf("evaluate_game: %v", err)
	}
	m := res.(map[string]any)
	if dist, ok := m["player_distance_from_spawn"].(float32); !ok || dist < 4.9 || dist > 5.1 {
		t.Errorf("expected player_distance_from_spawn ~5, got %v", m["player_distance_from_spawn"])
	}
}
