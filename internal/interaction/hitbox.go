// Hitbox resolution is grounded on
// _examples/iamvalenciia-kick-game-stream/fight-club-go/internal/game/hitbox.go's
// CheckHit, adapted from its weapon-id-keyed circle test (distance +
// combined radii) to an overlap test between the per-entity Hitbox's
// offset AABB and each candidate's collider AABB.
package interaction

import (
	"github.com/axiom-sim/axiom/internal/ecsworld"
	"github.com/axiom-sim/axiom/internal/eventbus"
	"github.com/axiom-sim/axiom/internal/spatial"
)

const hitboxInvincibilityFrames = 8

func resolveHitboxes(w *ecsworld.World, hash *spatial.Hash, bus *eventbus.Bus, frame uint64) {
	for _, id := range w.AllIDs() {
		hb, ok := w.Hitbox(id)
		if !ok || !hb.Active {
			continue
		}
		pos, ok := w.Position(id)
		if !ok {
			continue
		}
		boxMinX := pos.X + hb.OffsetX - hb.W/2
		boxMinY := pos.Y + hb.OffsetY - hb.H/2
		boxMaxX := pos.X + hb.OffsetX + hb.W/2
		boxMaxY := pos.Y + hb.OffsetY + hb.H/2
		attackerBox := spatial.AABB{MinX: boxMinX, MinY: boxMinY, MaxX: boxMaxX, MaxY: boxMaxY}

		for _, cand := range hash.QueryRect(boxMinX, boxMinY, boxMaxX, boxMaxY) {
			if cand == id {
				continue // self-hits disallowed
			}
			tags, ok := w.Tags(cand)
			if !ok || !tagsMatch(tags, hb.DamageTag) {
				continue
			}
			candBox, ok := spatial.AABBOf(w, cand)
			if !ok || !spatial.Overlaps(attackerBox, candBox) {
				continue
			}
			if inv, ok := w.Invincibility(cand); ok && inv.FramesRemaining > 0 {
				continue
			}
			newHealth, _ := applyDamage(w, bus, cand, hb.Damage, frame, "hitbox")
			bus.Emit(eventbus.Event{
				Name:  "hitbox_hit",
				Frame: frame,
				Data: map[string]any{
					"attacker":         uint64(id),
					"target":           uint64(cand),
					"damage":           hb.Damage,
					"remaining_health": newHealth,
				},
			})
			w.SetInvincibility(cand, ecsworld.Invincibility{FramesRemaining: hitboxInvincibilityFrames})
		}
	}
}
