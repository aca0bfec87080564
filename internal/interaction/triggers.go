package interaction

import (
	"github.com/axiom-sim/axiom/internal/ecsworld"
	"github.com/axiom-sim/axiom/internal/eventbus"
	"github.com/axiom-sim/axiom/internal/spatial"
)

func resolveTriggers(w *ecsworld.World, hash *spatial.Hash, bus *eventbus.Bus, frame uint64) {
	for _, id := range w.AllIDs() {
		tz, ok := w.TriggerZone(id)
		if !ok || tz.Fired() {
			continue
		}
		pos, ok := w.Position(id)
		if !ok {
			continue
		}
		firedThisTick := false
		for _, cand := range hash.QueryRadius(pos.X, pos.Y, tz.Radius) {
			if cand == id {
				continue
			}
			tags, ok := w.Tags(cand)
			if !ok || !tagsMatch(tags, tz.TriggerTag) {
				continue
			}
			candPos, ok := w.Position(cand)
			if !ok || dist2(pos.X, pos.Y, candPos.X, candPos.Y) > tz.Radius*tz.Radius {
				continue
			}
			bus.Emit(eventbus.Event{
				Name:  tz.EventName,
				Frame: frame,
				Data: map[string]any{
					"trigger": uint64(id),
					"actor":   uint64(cand),
				},
			})
			firedThisTick = true
			if tz.OneShot {
				break
			}
		}
		if firedThisTick && tz.OneShot {
			w.Despawn(id)
		}
	}
}
