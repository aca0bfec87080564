package command

import "github.com/axiom-sim/axiom/internal/telemetry"

// getPerfHistory returns the scheduler's bounded ring of recent per-tick
// performance samples (see Scheduler.PerfHistory's doc comment for why it
// is kept outside the tick mutex).
func (d *Dispatcher) getPerfHistory() any {
	if d.Perf == nil {
		return []map[string]any{}
	}
	return d.Perf.PerfHistory()
}

// getTelemetry aggregates the plain-atomic counters internal/telemetry
// tracks alongside its promauto metrics, the only read-back path available
// to an in-process caller (Prometheus itself has none).
func (d *Dispatcher) getTelemetry() any {
	return map[string]any{
		"commands_dispatched":    telemetry.CommandDispatchCount(),
		"script_errors":          telemetry.ScriptErrorCount(),
		"script_budget_breaches": telemetry.ScriptBudgetBreachCount(),
		"events_emitted":         telemetry.EventEmittedCount(),
		"events_dropped":         telemetry.EventDroppedCount(),
		"ws_messages":            telemetry.WSMessageCount(),
	}
}

// evaluateGame scores the live world's current state — how far the player
// has moved from its spawn point, its health, and whether it's still
// alive — the same distance metric internal/simdriver.RunPlaytest computes
// for a headless trace, but read directly off the running simulation
// instead of a freshly synthesized one.
func (d *Dispatcher) evaluateGame(args map[string]any) (any, error) {
	out := map[string]any{
		"entity_count":   len(d.World.AllIDs()),
		"events_dropped": d.Bus.Dropped(),
	}
	id, ok := d.World.Player()
	if !ok {
		return out, nil
	}
	out["player_id"] = uint64(id)
	if h, ok := d.World.Health(id); ok {
		out["player_health"] = h.Current
		out["player_max_health"] = h.Max
	}
	if a, ok := d.World.IsAlive(id); ok {
		out["player_alive"] = a.Value
	}
	if p, ok := d.World.Position(id); ok {
		sx, sy := d.World.PlayerSpawn()
		out["player_distance_from_spawn"] = evalDist(p.X, p.Y, sx, sy)
	}
	return out, nil
}

func evalDist(ax, ay, bx, by float32) float32 {
	dx, dy := ax-bx, ay-by
	v := dx*dx + dy*dy
	if v <= 0 {
		return 0
	}
	x := v
	for i := 0; i < 12; i++ {
		x = 0.5 * (x + v/x)
	}
	return x
}
