// Package interaction runs the fixed-order damage/trigger/pickup/projectile
// resolver (component E), grounded on
// _examples/iamvalenciia-kick-game-stream/fight-club-go/internal/game/{hitbox,projectile,combat}.go's
// per-tick move/expire/collide and damage-application shapes, generalized
// from hardcoded weapon ids and player-only targets to the Tags-matching
// rules.
package interaction

import (
	"github.com/axiom-sim/axiom/internal/ecsworld"
	"github.com/axiom-sim/axiom/internal/eventbus"
	"github.com/axiom-sim/axiom/internal/spatial"
	"github.com/axiom-sim/axiom/internal/tilemap"
)

const tileSize = tilemap.DefaultTileSize

// Resolve runs the fixed order: projectiles, triggers, contact
// damage, hitboxes, pickups, invincibility tick, death pass. It is tick
// step 7.
func Resolve(w *ecsworld.World, tm *tilemap.Tilemap, hash *spatial.Hash, bus *eventbus.Bus, dt float32, frame uint64) {
	resolveProjectiles(w, tm, hash, bus, dt, frame)
	resolveTriggers(w, hash, bus, frame)
	resolveContactDamage(w, hash, bus, frame)
	resolveHitboxes(w, hash, bus, frame)
	resolvePickups(w, hash, bus, frame)
	tickInvincibility(w)
	resolveDeath(w, bus, frame)
}

func dist2(ax, ay, bx, by float32) float32 {
	dx, dy := bx-ax, by-ay
	return dx*dx + dy*dy
}

func tagsMatch(victimTags ecsworld.Tags, damageTag string) bool {
	return victimTags.Has(damageTag)
}

func applyDamage(w *ecsworld.World, bus *eventbus.Bus, victim ecsworld.NetworkId, amount float32, frame uint64, source string) (newHealth float32, died bool) {
	h, ok := w.Health(victim)
	if !ok {
		return 0, false
	}
	h.Current -= amount
	if h.Current < 0 {
		h.Current = 0
	}
	w.SetHealth(victim, h)
	if h.Current <= 0 {
		if a, ok := w.IsAlive(victim); ok {
			a.Value = false
			w.SetAlive(victim, a)
		} else {
			w.SetAlive(victim, ecsworld.Alive{Value: false})
		}
		died = true
	}
	bus.Emit(eventbus.Event{
		Name:         "entity_damaged",
		Frame:        frame,
		SourceEntity: uint64(victim),
		Data: map[string]any{
			"amount":     amount,
			"new_health": h.Current,
			"source":     source,
		},
	})
	if died {
		bus.Emit(eventbus.Event{Name: "entity_died", Frame: frame, SourceEntity: uint64(victim)})
	}
	return h.Current, died
}
