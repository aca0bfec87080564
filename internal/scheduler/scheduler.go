// Package scheduler runs the fixed-step simulation tick, wiring together
// every subsystem package in a fixed ten-step order. Grounded on
// fight-club-go's internal/game/engine.go Engine: same time.Ticker-driven
// goroutine, same mutex-guarded tick counter, body rewritten to the ten-step
// order instead of fight-club's player-update/collision/particle shape.
package scheduler

import (
	"log"
	"sync"
	"time"

	"github.com/axiom-sim/axiom/internal/ai"
	"github.com/axiom-sim/axiom/internal/animation"
	"github.com/axiom-sim/axiom/internal/command"
	"github.com/axiom-sim/axiom/internal/ecsworld"
	"github.com/axiom-sim/axiom/internal/eventbus"
	"github.com/axiom-sim/axiom/internal/interaction"
	"github.com/axiom-sim/axiom/internal/pathfind"
	"github.com/axiom-sim/axiom/internal/physics"
	"github.com/axiom-sim/axiom/internal/runtimestate"
	"github.com/axiom-sim/axiom/internal/script"
	"github.com/axiom-sim/axiom/internal/snapshot"
	"github.com/axiom-sim/axiom/internal/spatial"
	"github.com/axiom-sim/axiom/internal/telemetry"
	"github.com/axiom-sim/axiom/internal/tilemap"
)

const tickRate = 60
const dt = float32(1) / tickRate

// Scheduler owns every live subsystem and advances them one fixed step at a
// time. internal/api talks to it only through its Queue; nothing else
// reaches into World directly once the scheduler is running — the HTTP side
// never touches simulation state outside a tick.
type Scheduler struct {
	mu sync.Mutex

	World    *ecsworld.World
	Tilemap  **tilemap.Tilemap
	Hash     *spatial.Hash
	Bus      *eventbus.Bus
	Runtime  *runtimestate.Machine
	Scripts  *script.Engine
	AnimReg  *animation.Registry
	Queue    *command.Queue
	Disp     *command.Dispatcher
	Snapshot *snapshot.Pool

	PathCache  *pathfind.Cache
	PlatformCfg pathfind.PlatformerConfig

	inputCurrent, inputPrevious map[string]bool

	tickCount uint64
	running   bool
	ticker    *time.Ticker
	stopChan  chan struct{}

	// perfMu guards perfHistory independently of mu: Tick holds mu for its
	// entire body, including the Disp.Handle calls that run GetPerfHistory
	// during the drain loop, so recording/reading history under mu would
	// deadlock a command issued from inside its own tick.
	perfMu      sync.Mutex
	perfHistory []map[string]any
}

// perfHistoryLimit bounds the ring so a long-running server doesn't grow
// this slice forever.
const perfHistoryLimit = 120

// New wires a fresh Scheduler. Callers (cmd/axiomd) construct every
// subsystem and pass it in rather than Scheduler constructing its own,
// since internal/save and internal/simdriver need to share the same World
// and Tilemap pointer the scheduler advances.
func New(w *ecsworld.World, tm **tilemap.Tilemap, hash *spatial.Hash, bus *eventbus.Bus,
	rt *runtimestate.Machine, scripts *script.Engine, animReg *animation.Registry,
	queue *command.Queue, disp *command.Dispatcher, snap *snapshot.Pool, cache *pathfind.Cache, platformCfg pathfind.PlatformerConfig) *Scheduler {
	return &Scheduler{
		World:       w,
		Tilemap:     tm,
		Hash:        hash,
		Bus:         bus,
		Runtime:     rt,
		Scripts:     scripts,
		AnimReg:     animReg,
		Queue:       queue,
		Disp:        disp,
		Snapshot:    snap,
		PathCache:     cache,
		PlatformCfg:   platformCfg,
		inputCurrent:  map[string]bool{},
		inputPrevious: map[string]bool{},
		stopChan:      make(chan struct{}),
	}
}

// Start begins the 60Hz tick loop in its own goroutine.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.ticker = time.NewTicker(time.Second / tickRate)
	go func() {
		for {
			select {
			case <-s.ticker.C:
				s.Tick()
			case <-s.stopChan:
				return
			}
		}
	}()
	log.Printf("scheduler: started at %d ticks/sec", tickRate)
}

// Stop halts the tick loop.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	s.ticker.Stop()
	close(s.stopChan)
}

// Tick runs exactly one fixed step of the ten-step order:
//  1. apply pending level change
//  2. take the pending physics change (its values are not applied; see below)
//  3. drain the command queue
//  4. update_ai_behaviors, update_path_followers
//  5. animation tick
//  6. physics step
//  7. interaction resolve (fixed pass order)
//  8. spatial hash rebuild
//  9. script VM: entity scripts, then global scripts
//  10. event-bus frame advance (the runtime state has no per-tick update)
//
// Steps 4-9 only run while the runtime state gates gameplay (Playing).
func (s *Scheduler) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	defer func() {
		elapsed := time.Since(start)
		telemetry.RecordTick(elapsed)
		telemetry.SetEntityCount(len(s.World.AllIDs()))
		telemetry.SetCommandQueueDepth(s.Queue.Len())
		s.recordPerfSample(elapsed)
	}()

	s.tickCount++
	frame := s.Bus.Frame()

	if lvl, ok := s.Disp.Staging.TakeLevel(); ok {
		*s.Tilemap = lvl.Tilemap
		s.World.SetPlayerSpawn(lvl.PlayerSpawnX, lvl.PlayerSpawnY)
	}
	if _, ok := s.Disp.Staging.TakePhysics(); ok {
		// The staged value is cleared and dropped: physics reads its config
		// live off each entity's GravityBody/TopDownMover, and nothing here
		// copies the staged Gravity/MaxFallSpeed onto them.
	}

	for _, cmd := range s.Queue.Drain() {
		telemetry.RecordCommand(string(cmd.Kind))
		s.Disp.Handle(cmd)
	}

	tm := *s.Tilemap

	if s.Runtime.GatesGameplay() {
		ai.UpdateBehaviors(s.World, tm, frame)
		ai.UpdatePathFollowers(s.World, tm, s.PathCache, s.PlatformCfg)

		animation.Update(s.World, s.AnimReg, s.Bus, dt, frame)

		if err := physics.Step(s.World, tm, dt); err != nil {
			log.Printf("scheduler: physics step error: %v", err)
		}

		interaction.Resolve(s.World, tm, s.Hash, s.Bus, dt, frame)

		spatial.Rebuild(s.Hash, s.World)

		snap := script.NewInputSnapshot(s.inputCurrent, s.inputPrevious)
		s.Scripts.RunEntityScripts(s.World, s.Bus, snap, dt, frame)
		s.Scripts.RunGlobalScripts(s.World, s.Bus, snap, dt, frame)
	}

	// Runtime-state transitions are driven by SetRuntimeState/StartCutscene/
	// etc. commands during step 3; nothing here mutates it every tick beyond
	// the frame counter those transitions time themselves against.
	if s.Snapshot != nil {
		snapshot.Capture(s.Snapshot, s.World, frame)
	}
	s.Bus.Advance()
}

// TickCount returns the number of ticks run so far, for GetPerf.
func (s *Scheduler) TickCount() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickCount
}

// recordPerfSample appends one tick's timing to the bounded history ring,
// dropping the oldest sample once perfHistoryLimit is reached.
func (s *Scheduler) recordPerfSample(elapsed time.Duration) {
	s.perfMu.Lock()
	defer s.perfMu.Unlock()
	sample := map[string]any{
		"tick":             s.tickCount,
		"tick_duration_ms": float64(elapsed.Microseconds()) / 1000.0,
		"entity_count":     len(s.World.AllIDs()),
		"command_depth":    s.Queue.Len(),
	}
	s.perfHistory = append(s.perfHistory, sample)
	if len(s.perfHistory) > perfHistoryLimit {
		s.perfHistory = s.perfHistory[len(s.perfHistory)-perfHistoryLimit:]
	}
}

// PerfHistory returns a copy of the recent per-tick performance samples
// (command.PerfHistorian), safe to call from within a Disp.Handle that is
// itself running inside Tick, since it never touches mu.
func (s *Scheduler) PerfHistory() []map[string]any {
	s.perfMu.Lock()
	defer s.perfMu.Unlock()
	out := make([]map[string]any, len(s.perfHistory))
	copy(out, s.perfHistory)
	return out
}

// SetInputButton records a virtual button's held state, read by scripts via
// world.pressed/just_pressed.
func (s *Scheduler) SetInputButton(name string, held bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputPrevious[name] = s.inputCurrent[name]
	s.inputCurrent[name] = held
}
