package interaction

import (
	"github.com/axiom-sim/axiom/internal/ecsworld"
	"github.com/axiom-sim/axiom/internal/eventbus"
	"github.com/axiom-sim/axiom/internal/spatial"
	"github.com/axiom-sim/axiom/internal/tilemap"
)

func resolveProjectiles(w *ecsworld.World, tm *tilemap.Tilemap, hash *spatial.Hash, bus *eventbus.Bus, dt float32, frame uint64) {
	for _, id := range w.AllIDs() {
		proj, ok := w.Projectile(id)
		if !ok {
			continue
		}
		pos, ok := w.Position(id)
		if !ok {
			continue
		}
		pos.X += proj.DirX * proj.Speed * dt
		pos.Y += proj.DirY * proj.Speed * dt
		w.SetPosition(id, pos)

		if proj.LifetimeFrames > 0 {
			proj.LifetimeFrames--
		}
		if proj.LifetimeFrames == 0 {
			bus.Emit(eventbus.Event{Name: "projectile_expired", Frame: frame, SourceEntity: uint64(id)})
			w.Despawn(id)
			continue
		}
		w.SetProjectile(id, proj)

		tx, ty := int(pos.X/tileSize), int(pos.Y/tileSize)
		if tm.IsSolid(tx, ty) {
			bus.Emit(eventbus.Event{Name: "projectile_hit_wall", Frame: frame, SourceEntity: uint64(id)})
			w.Despawn(id)
			continue
		}

		box, ok := spatial.AABBOf(w, id)
		if !ok {
			continue
		}
		r := proj.Speed*dt + 32
		for _, cand := range hash.QueryRadius(pos.X, pos.Y, r) {
			if cand == id || cand == proj.OwnerID {
				continue
			}
			tags, ok := w.Tags(cand)
			if !ok || !tagsMatch(tags, proj.DamageTag) {
				continue
			}
			candBox, ok := spatial.AABBOf(w, cand)
			if !ok || !spatial.Overlaps(box, candBox) {
				continue
			}
			newHealth, _ := applyDamage(w, bus, cand, proj.Damage, frame, "projectile")
			bus.Emit(eventbus.Event{
				Name:  "projectile_hit",
				Frame: frame,
				Data: map[string]any{
					"projectile":       uint64(id),
					"target":           uint64(cand),
					"damage":           proj.Damage,
					"remaining_health": newHealth,
				},
			})
			w.Despawn(id)
			break
		}
	}
}
