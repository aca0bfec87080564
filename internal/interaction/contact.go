package interaction

import (
	"github.com/axiom-sim/axiom/internal/ecsworld"
	"github.com/axiom-sim/axiom/internal/eventbus"
	"github.com/axiom-sim/axiom/internal/spatial"
)

// resolveContactDamage implements contact-damage rule: for
// every broad-phase pair with overlapping AABBs where one side's
// ContactDamage.DamageTag matches the other's Tags, apply damage +
// knockback + a fresh Invincibility window, symmetric if both sides carry
// ContactDamage, skipped entirely for an already-invincible victim.
func resolveContactDamage(w *ecsworld.World, hash *spatial.Hash, bus *eventbus.Bus, frame uint64) {
	ids := w.AllIDs()
	seen := make(map[[2]ecsworld.NetworkId]bool)

	for _, a := range ids {
		cdA, hasA := w.ContactDamage(a)
		aBox, ok := spatial.AABBOf(w, a)
		if !ok {
			continue
		}
		aPos, _ := w.Position(a)
		for _, b := range hash.QueryRect(aBox.MinX, aBox.MinY, aBox.MaxX, aBox.MaxY) {
			if b == a {
				continue
			}
			pairKey := [2]ecsworld.NetworkId{a, b}
			if a > b {
				pairKey = [2]ecsworld.NetworkId{b, a}
			}
			if seen[pairKey] {
				continue
			}

			bBox, ok := spatial.AABBOf(w, b)
			if !ok || !spatial.Overlaps(aBox, bBox) {
				continue
			}
			cdB, hasB := w.ContactDamage(b)
			bPos, _ := w.Position(b)

			if hasA {
				applyContactHit(w, bus, a, b, cdA, aPos, bPos, frame)
			}
			if hasB {
				applyContactHit(w, bus, b, a, cdB, bPos, aPos, frame)
			}
			if hasA || hasB {
				seen[pairKey] = true
			}
		}
	}
}

func applyContactHit(w *ecsworld.World, bus *eventbus.Bus, attacker, victim ecsworld.NetworkId, cd ecsworld.ContactDamage, attackerPos, victimPos ecsworld.Position, frame uint64) {
	victimTags, ok := w.Tags(victim)
	if !ok || !tagsMatch(victimTags, cd.DamageTag) {
		return
	}
	if inv, ok := w.Invincibility(victim); ok && inv.FramesRemaining > 0 {
		return
	}
	applyDamage(w, bus, victim, cd.Amount, frame, "contact")

	vel, _ := w.Velocity(victim)
	sign := float32(1)
	if victimPos.X < attackerPos.X {
		sign = -1
	}
	vel.X += sign * cd.Knockback
	w.SetVelocity(victim, vel)

	w.SetInvincibility(victim, ecsworld.Invincibility{FramesRemaining: cd.CooldownFrames})
}
