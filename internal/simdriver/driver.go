// Package simdriver implements the headless simulation driver:
// solver, playtest, and scenario modes run a scripted SimInput stream
// against a scratch clone of the world, plus a "real" mode that pauses the
// live scheduler and runs its actual tick pipeline for N frames. Grounded on
// internal/game/engine.go tick shape, replayed here without a
// ticker against however many frames the caller asked for.
package simdriver

import (
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/axiom-sim/axiom/internal/ai"
	"github.com/axiom-sim/axiom/internal/animation"
	"github.com/axiom-sim/axiom/internal/axerr"
	"github.com/axiom-sim/axiom/internal/ecsworld"
	"github.com/axiom-sim/axiom/internal/eventbus"
	"github.com/axiom-sim/axiom/internal/interaction"
	"github.com/axiom-sim/axiom/internal/pathfind"
	"github.com/axiom-sim/axiom/internal/physics"
	"github.com/axiom-sim/axiom/internal/save"
	"github.com/axiom-sim/axiom/internal/scheduler"
	"github.com/axiom-sim/axiom/internal/spatial"
	"github.com/axiom-sim/axiom/internal/tilemap"
)

const tickDt = float32(1) / 60
const tileSize = 32

// Outcome is the terminal classification of a simulated run.
type Outcome string

const (
	OutcomeGoalReached Outcome = "goal_reached"
	OutcomeDeath       Outcome = "death"
	OutcomeStuck       Outcome = "stuck"
	OutcomeTimedOut    Outcome = "timed_out"
)

// stuckWindow is how many frames of negligible movement before a run is
// classified stuck rather than still progressing.
const stuckWindow = 120
const stuckEpsilon = 0.25

// Frame is one recorded trace sample, taken every record_interval frames.
type Frame struct {
	Frame  uint64  `json:"frame"`
	X      float32 `json:"x"`
	Y      float32 `json:"y"`
	Health float32 `json:"health,omitempty"`
}

// Result is the common shape SimulateWorld/RunScenario/RunPlaytest return.
type Result struct {
	Outcome    Outcome `json:"outcome"`
	EndFrame   uint64  `json:"end_frame"`
	Trace      []Frame `json:"trace"`
	DamageTaken float32 `json:"damage_taken,omitempty"`
	Distance   float32 `json:"distance,omitempty"`
	VisitedCells int   `json:"visited_cells,omitempty"`
}

// Driver owns references to the live world/tilemap (for cloning and for
// real-sim mode) plus a Scheduler to pause/resume during real-sim.
type Driver struct {
	LiveWorld   *ecsworld.World
	LiveTilemap **tilemap.Tilemap
	Scheduler   *scheduler.Scheduler
	SaveModel   *save.Model
	PlatformCfg pathfind.PlatformerConfig

	realSimActive int32
}

// SimulateWorld runs command.KindSimulateWorld / KindSimulateWorldReal: a
// scripted SimInput stream for max_frames ticks against either a scratch
// clone (default) or, when args["real"] is true, the live world itself
// (single-entry guarded).
func (d *Driver) SimulateWorld(args map[string]any) (any, error) {
	if b, _ := args["real"].(bool); b {
		return d.runReal(args)
	}
	return d.runClone(args)
}

func (d *Driver) runClone(args map[string]any) (any, error) {
	w, tm := d.cloneWorld()
	hash := spatial.New(float32(tileSize))
	bus := eventbus.New()

	id, ok := w.Player()
	if !ok {
		ids := w.AllIDs()
		if len(ids) == 0 {
			return nil, axerr.New(axerr.KindNotFound, "simdriver: no entity to drive")
		}
		id = ids[0]
	}

	inputs := decodeSimInputs(args)
	maxFrames := intArg(args, "max_frames", 600)
	recordInterval := intArg(args, "record_interval", 10)

	return runTrace(w, tm, hash, bus, id, inputs, maxFrames, recordInterval), nil
}

// runReal pauses the live scheduler, saves a restore point, drives the live
// tick pipeline for the requested frame count against recorded inputs, then
// restores the pre-sim state ("real-simulation" mode). Single entry: a
// concurrent call fails outright rather than queuing.
func (d *Driver) runReal(args map[string]any) (any, error) {
	if !atomic.CompareAndSwapInt32(&d.realSimActive, 0, 1) {
		return nil, axerr.New(axerr.KindConflict, "simdriver: a real-simulation run is already active")
	}
	defer atomic.StoreInt32(&d.realSimActive, 0)

	d.Scheduler.Stop()
	defer d.Scheduler.Start()

	restore, err := d.SaveModel.Export()
	if err != nil {
		return nil, errors.Wrap(err, "simdriver: failed to snapshot pre-sim state")
	}

	maxFrames := intArg(args, "max_frames", 600)
	recordInterval := intArg(args, "record_interval", 10)
	id, _ := d.LiveWorld.Player()
	byFrame := make(map[uint32][]pathfind.SimInput)
	for _, in := range decodeSimInputs(args) {
		for f := in.Frame; f < in.Frame+in.DurationFrames; f++ {
			byFrame[f] = append(byFrame[f], in)
		}
	}

	var trace []Frame
	for f := 0; f < maxFrames; f++ {
		applyInputFrame(d.LiveWorld, id, byFrame[uint32(f)])
		d.Scheduler.Tick()
		if recordInterval > 0 && f%recordInterval == 0 {
			trace = append(trace, sampleFrame(d.LiveWorld, id, uint64(f)))
		}
		if outcome, done := checkOutcome(d.LiveWorld, *d.LiveTilemap, id, uint64(f), maxFrames); done {
			if restoreErr := d.SaveModel.Import(restore); restoreErr != nil {
				return nil, errors.Wrap(restoreErr, "simdriver: failed to restore pre-sim state")
			}
			return Result{Outcome: outcome, EndFrame: uint64(f), Trace: trace}, nil
		}
	}

	if err := d.SaveModel.Import(restore); err != nil {
		return nil, errors.Wrap(err, "simdriver: failed to restore pre-sim state")
	}
	return Result{Outcome: OutcomeTimedOut, EndFrame: uint64(maxFrames), Trace: trace}, nil
}

// RunScenario runs setup steps, then N frames, then evaluates assertions
// (kinds: player_alive, var_equals, event_fired, outcome).
func (d *Driver) RunScenario(args map[string]any) (any, error) {
	w, tm := d.cloneWorld()
	hash := spatial.New(float32(tileSize))
	bus := eventbus.New()

	applySetup(w, args["setup"])

	id, ok := w.Player()
	if !ok {
		ids := w.AllIDs()
		if len(ids) > 0 {
			id = ids[0]
			ok = true
		}
	}

	frames := intArg(args, "frames", 300)
	recordInterval := intArg(args, "record_interval", 10)
	var inputs []pathfind.SimInput
	if ok {
		inputs = decodeSimInputs(args)
	}
	res := runTrace(w, tm, hash, bus, id, inputs, frames, recordInterval)

	assertions, _ := args["assertions"].([]any)
	results := make([]map[string]any, 0, len(assertions))
	allPassed := true
	for _, raw := range assertions {
		a, _ := raw.(map[string]any)
		ok := evaluateAssertion(w, bus, res, a)
		allPassed = allPassed && ok
		results = append(results, map[string]any{"assertion": a, "passed": ok})
	}

	return map[string]any{
		"result":     res,
		"assertions": results,
		"passed":     allPassed,
	}, nil
}

// RunPlaytest synthesizes an input stream heuristically by mode
// (explore/reach_goal/survive) and scores the resulting run.
func (d *Driver) RunPlaytest(args map[string]any) (any, error) {
	w, tm := d.cloneWorld()
	hash := spatial.New(float32(tileSize))
	bus := eventbus.New()

	id, ok := w.Player()
	if !ok {
		ids := w.AllIDs()
		if len(ids) == 0 {
			return nil, axerr.New(axerr.KindNotFound, "simdriver: no entity to drive")
		}
		id = ids[0]
	}

	mode, _ := args["mode"].(string)
	maxFrames := intArg(args, "max_frames", 900)
	recordInterval := intArg(args, "record_interval", 10)

	var inputs []pathfind.SimInput
	switch mode {
	case "reach_goal":
		inputs = synthesizeReachGoal(w, tm, id, d.PlatformCfg)
	case "survive":
		inputs = []pathfind.SimInput{{Frame: 0, Action: pathfind.ActionRight, DurationFrames: uint32(maxFrames)}}
	default: // "explore"
		inputs = synthesizeExplore(id, maxFrames)
	}

	res := runTrace(w, tm, hash, bus, id, inputs, maxFrames, recordInterval)
	startX, startY := w.PlayerSpawn()
	last := res.Trace
	var endX, endY float32 = startX, startY
	if len(last) > 0 {
		endX, endY = last[len(last)-1].X, last[len(last)-1].Y
	}
	res.Distance = dist(startX, startY, endX, endY)
	res.VisitedCells = countVisitedCells(res.Trace)
	return res, nil
}

func dist(ax, ay, bx, by float32) float32 {
	dx, dy := ax-bx, ay-by
	return sqrt32(dx*dx + dy*dy)
}

func sqrt32(v float32) float32 {
	if v <= 0 {
		return 0
	}
	x := v
	for i := 0; i < 12; i++ {
		x = 0.5 * (x + v/x)
	}
	return x
}

func countVisitedCells(trace []Frame) int {
	seen := make(map[tilemap.Point]struct{})
	for _, f := range trace {
		seen[tilemap.WorldToTile(f.X, f.Y, tileSize)] = struct{}{}
	}
	return len(seen)
}

// cloneWorld builds a scratch World+Tilemap from the live one via the same
// export/import shape internal/save uses, so a headless run can mutate
// freely without touching live state.
func (d *Driver) cloneWorld() (*ecsworld.World, *tilemap.Tilemap) {
	w := ecsworld.New()
	tm := (*d.LiveTilemap).Clone()

	src := d.LiveWorld
	for _, id := range src.AllIDs() {
		pos, _ := src.Position(id)
		nid := w.SpawnAt(id, pos)
		if v, ok := src.Velocity(id); ok {
			w.SetVelocity(nid, v)
		}
		if c, ok := src.Collider(id); ok {
			w.SetCollider(nid, c)
		}
		if t, ok := src.Tags(id); ok {
			w.SetTags(nid, t)
		}
		if h, ok := src.Health(id); ok {
			w.SetHealth(nid, h)
		}
		if a, ok := src.IsAlive(id); ok {
			w.SetAlive(nid, a)
		}
		if g, ok := src.GravityBodyOf(id); ok {
			w.SetGravityBody(nid, g)
		}
		if j, ok := src.JumperOf(id); ok {
			w.SetJumper(nid, j)
		}
		if td, ok := src.TopDownMoverOf(id); ok {
			w.SetTopDownMover(nid, td)
		}
		if in, ok := src.InputOf(id); ok {
			w.SetInput(nid, in)
		}
		if ab, ok := src.AiBehaviorOf(id); ok {
			w.SetAiBehavior(nid, *ab)
		}
		if cd, ok := src.ContactDamage(id); ok {
			w.SetContactDamage(nid, cd)
		}
		if anim, ok := src.Animation(id); ok {
			w.SetAnimation(nid, anim)
		}
	}
	if pid, ok := src.Player(); ok {
		w.SetPlayer(pid)
	}
	sx, sy := src.PlayerSpawn()
	w.SetPlayerSpawn(sx, sy)
	return w, tm
}

// runTrace drives id through inputs for frames ticks, running the physics/
// AI/interaction pipeline the same way the scheduler does, and returns the
// recorded trace plus outcome.
func runTrace(w *ecsworld.World, tm *tilemap.Tilemap, hash *spatial.Hash, bus *eventbus.Bus, id ecsworld.NetworkId, inputs []pathfind.SimInput, maxFrames, recordInterval int) Result {
	byFrame := make(map[uint32][]pathfind.SimInput)
	for _, in := range inputs {
		for f := in.Frame; f < in.Frame+in.DurationFrames; f++ {
			byFrame[f] = append(byFrame[f], in)
		}
	}

	var trace []Frame
	lastX, lastY := float32(0), float32(0)
	if p, ok := w.Position(id); ok {
		lastX, lastY = p.X, p.Y
	}
	stillFrames := 0
	animReg := animation.NewRegistry()

	var f int
	for f = 0; f < maxFrames; f++ {
		applyInputFrame(w, id, byFrame[uint32(f)])

		ai.UpdateBehaviors(w, tm, uint64(f))
		animation.Update(w, animReg, bus, tickDt, uint64(f))
		_ = physics.Step(w, tm, tickDt)
		interaction.Resolve(w, tm, hash, bus, tickDt, uint64(f))
		spatial.Rebuild(hash, w)
		bus.Advance()

		if recordInterval > 0 && f%recordInterval == 0 {
			trace = append(trace, sampleFrame(w, id, uint64(f)))
		}

		if p, ok := w.Position(id); ok {
			if dist(p.X, p.Y, lastX, lastY) < stuckEpsilon {
				stillFrames++
			} else {
				stillFrames = 0
				lastX, lastY = p.X, p.Y
			}
		}

		if outcome, done := checkOutcomeStill(w, tm, id, stillFrames); done {
			return Result{Outcome: outcome, EndFrame: uint64(f), Trace: trace}
		}
	}
	return Result{Outcome: OutcomeTimedOut, EndFrame: uint64(f), Trace: trace}
}

func applyInputFrame(w *ecsworld.World, id ecsworld.NetworkId, active []pathfind.SimInput) {
	in := ecsworld.Input{}
	for _, a := range active {
		switch a.Action {
		case pathfind.ActionLeft:
			in.Left = true
		case pathfind.ActionRight:
			in.Right = true
		case pathfind.ActionUp:
			in.Up = true
		case pathfind.ActionDown:
			in.Down = true
		case pathfind.ActionJump:
			in.Jump = true
			in.JumpHeld = true
		}
	}
	w.SetInput(id, in)
}

func sampleFrame(w *ecsworld.World, id ecsworld.NetworkId, frame uint64) Frame {
	p, _ := w.Position(id)
	h, _ := w.Health(id)
	return Frame{Frame: frame, X: p.X, Y: p.Y, Health: h.Current}
}

func checkOutcome(w *ecsworld.World, tm *tilemap.Tilemap, id ecsworld.NetworkId, frame uint64, maxFrames int) (Outcome, bool) {
	return checkOutcomeStill(w, tm, id, 0)
}

func checkOutcomeStill(w *ecsworld.World, tm *tilemap.Tilemap, id ecsworld.NetworkId, stillFrames int) (Outcome, bool) {
	if a, ok := w.IsAlive(id); ok && !a.Value {
		return OutcomeDeath, true
	}
	if h, ok := w.Health(id); ok && h.Current <= 0 {
		return OutcomeDeath, true
	}
	if tm.Goal != nil {
		if p, ok := w.Position(id); ok {
			pt := tilemap.WorldToTile(p.X, p.Y, tileSize)
			if pt == *tm.Goal {
				return OutcomeGoalReached, true
			}
		}
	}
	if stillFrames >= stuckWindow {
		return OutcomeStuck, true
	}
	return "", false
}

func decodeSimInputs(args map[string]any) []pathfind.SimInput {
	raw, _ := args["inputs"].([]any)
	out := make([]pathfind.SimInput, 0, len(raw))
	for _, r := range raw {
		m, _ := r.(map[string]any)
		if m == nil {
			continue
		}
		out = append(out, pathfind.SimInput{
			Frame:          uint32(intArg(m, "frame", 0)),
			Action:         pathfind.Action(strArg(m, "action", "right")),
			DurationFrames: uint32(intArg(m, "duration_frames", 1)),
		})
	}
	return out
}

func synthesizeReachGoal(w *ecsworld.World, tm *tilemap.Tilemap, id ecsworld.NetworkId, cfg pathfind.PlatformerConfig) []pathfind.SimInput {
	if tm.Goal == nil {
		return nil
	}
	pos, ok := w.Position(id)
	if !ok {
		return nil
	}
	from := tilemap.WorldToTile(pos.X, pos.Y, tileSize)
	path := pathfind.PlatformerBFS(tm, from, *tm.Goal, cfg)
	if path == nil {
		return nil
	}
	return pathfind.TileSequenceToInputs(path, cfg)
}

// synthesizeExplore alternates a fixed left/right/jump pattern; true
// frontier-exploration heuristics are future work (tracked informally, no
// library in the pack supplies one for this domain).
func synthesizeExplore(id ecsworld.NetworkId, maxFrames int) []pathfind.SimInput {
	var out []pathfind.SimInput
	pattern := []pathfind.Action{pathfind.ActionRight, pathfind.ActionJump, pathfind.ActionLeft, pathfind.ActionJump}
	const segment = 60
	for f := 0; f < maxFrames; f += segment {
		out = append(out, pathfind.SimInput{Frame: uint32(f), Action: pattern[(f/segment)%len(pattern)], DurationFrames: segment})
	}
	return out
}

func applySetup(w *ecsworld.World, raw any) {
	steps, _ := raw.([]any)
	for _, s := range steps {
		m, _ := s.(map[string]any)
		if m == nil {
			continue
		}
		x, y := floatArg(m, "x", 0), floatArg(m, "y", 0)
		id := w.Spawn(ecsworld.Position{X: x, Y: y})
		if tags, ok := m["tags"].([]any); ok {
			var names []string
			for _, t := range tags {
				if s, ok := t.(string); ok {
					names = append(names, s)
				}
			}
			w.SetTags(id, ecsworld.NewTags(names...))
		}
		if hp, ok := m["health"].(float64); ok {
			w.SetHealth(id, ecsworld.Health{Current: float32(hp), Max: float32(hp)})
			w.SetAlive(id, ecsworld.Alive{Value: true})
		}
		if isPlayer, _ := m["player"].(bool); isPlayer {
			w.SetPlayer(id)
		}
	}
}

func evaluateAssertion(w *ecsworld.World, bus *eventbus.Bus, res Result, a map[string]any) bool {
	if a == nil {
		return false
	}
	kind, _ := a["kind"].(string)
	switch kind {
	case "outcome":
		want, _ := a["value"].(string)
		return string(res.Outcome) == want
	case "player_alive":
		id, ok := w.Player()
		if !ok {
			return false
		}
		alive, ok := w.IsAlive(id)
		return ok && alive.Value
	case "var_equals":
		name, _ := a["name"].(string)
		want := a["value"]
		got, ok := w.GetVar(name)
		return ok && got == want
	case "event_fired":
		name, _ := a["name"].(string)
		for _, e := range bus.Latest(256) {
			if e.Name == name {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func intArg(m map[string]any, key string, def int) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

func floatArg(m map[string]any, key string, def float32) float32 {
	if v, ok := m[key].(float64); ok {
		return float32(v)
	}
	return def
}

func strArg(m map[string]any, key, def string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return def
}
