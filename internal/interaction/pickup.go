package interaction

import (
	"github.com/axiom-sim/axiom/internal/ecsworld"
	"github.com/axiom-sim/axiom/internal/eventbus"
	"github.com/axiom-sim/axiom/internal/spatial"
)

func resolvePickups(w *ecsworld.World, hash *spatial.Hash, bus *eventbus.Bus, frame uint64) {
	for _, id := range w.AllIDs() {
		pickup, ok := w.Pickup(id)
		if !ok {
			continue
		}
		box, ok := spatial.AABBOf(w, id)
		if !ok {
			continue
		}
		for _, cand := range hash.QueryRect(box.MinX, box.MinY, box.MaxX, box.MaxY) {
			if cand == id {
				continue
			}
			tags, ok := w.Tags(cand)
			if !ok || !tagsMatch(tags, pickup.PickupTag) {
				continue
			}
			candBox, ok := spatial.AABBOf(w, cand)
			if !ok || !spatial.Overlaps(box, candBox) {
				continue
			}
			data := map[string]any{
				"pickup":    uint64(id),
				"collector": uint64(cand),
			}
			switch pickup.Effect.Kind {
			case ecsworld.PickupHeal:
				h, ok := w.Health(cand)
				if ok {
					h.Current += pickup.Effect.HealAmount
					if h.Current > h.Max {
						h.Current = h.Max
					}
					w.SetHealth(cand, h)
				}
				data["effect"] = "heal"
				data["amount"] = pickup.Effect.HealAmount
			case ecsworld.PickupScoreAdd:
				data["effect"] = "score_add"
				data["amount"] = pickup.Effect.ScoreDelta
			case ecsworld.PickupCustom:
				data["effect"] = "custom"
				data["name"] = pickup.Effect.CustomName
			}
			bus.Emit(eventbus.Event{Name: "pickup_collected", Frame: frame, Data: data})
			w.Despawn(id)
			break
		}
	}
}

func tickInvincibility(w *ecsworld.World) {
	for _, id := range w.AllIDs() {
		inv, ok := w.Invincibility(id)
		if !ok {
			continue
		}
		if inv.FramesRemaining > 0 {
			inv.FramesRemaining--
		}
		if inv.FramesRemaining == 0 {
			w.RemoveInvincibility(id)
		} else {
			w.SetInvincibility(id, inv)
		}
	}
}

func resolveDeath(w *ecsworld.World, bus *eventbus.Bus, frame uint64) {
	playerID, hasPlayer := w.Player()
	for _, id := range w.AllIDs() {
		alive, ok := w.IsAlive(id)
		if !ok || alive.Value {
			continue
		}
		if hasPlayer && id == playerID {
			sx, sy := w.PlayerSpawn()
			w.SetPosition(id, ecsworld.Position{X: sx, Y: sy})
			w.SetVelocity(id, ecsworld.Velocity{})
			w.SetAlive(id, ecsworld.Alive{Value: true})
			if h, ok := w.Health(id); ok {
				h.Current = h.Max
				w.SetHealth(id, h)
			}
			bus.Emit(eventbus.Event{Name: "entity_respawned", Frame: frame, SourceEntity: uint64(id)})
			continue
		}
		w.Despawn(id)
	}
}
