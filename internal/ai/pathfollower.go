package ai

import (
	"github.com/axiom-sim/axiom/internal/ecsworld"
	"github.com/axiom-sim/axiom/internal/pathfind"
	"github.com/axiom-sim/axiom/internal/tilemap"
)

const waypointArriveDist = 4.0

// UpdatePathFollowers is tick step 4b, chained after
// UpdateBehaviors since it reads the target the behavior step just wrote.
func UpdatePathFollowers(w *ecsworld.World, tm *tilemap.Tilemap, cache *pathfind.Cache, cfg pathfind.PlatformerConfig) {
	for _, id := range w.AllIDs() {
		pf, ok := w.PathFollowerOf(id)
		if !ok {
			continue
		}
		pos, ok := w.Position(id)
		if !ok {
			continue
		}

		needsRecalc := len(pf.Path) == 0 || pf.FramesUntilRecalc == 0
		if !needsRecalc && len(pf.Path) > 0 {
			last := pf.Path[len(pf.Path)-1]
			if dist(last.X, last.Y, pf.TargetX, pf.TargetY) > tileSize {
				needsRecalc = true
			}
		}
		if needsRecalc {
			recalculate(tm, cache, cfg, pf, pos)
			pf.FramesUntilRecalc = pf.RecalculateInterval
		} else if pf.FramesUntilRecalc > 0 {
			pf.FramesUntilRecalc--
		}

		for len(pf.Path) > 0 && dist(pos.X, pos.Y, pf.Path[0].X, pf.Path[0].Y) < waypointArriveDist {
			pf.Path = pf.Path[1:]
		}

		in := ecsworld.Input{}
		if len(pf.Path) > 0 {
			next := pf.Path[0]
			dx, dy := next.X-pos.X, next.Y-pos.Y
			if dx > 1 {
				in.Right = true
			} else if dx < -1 {
				in.Left = true
			}
			if pf.PathType == ecsworld.PathTopDown {
				if dy > 1 {
					in.Down = true
				} else if dy < -1 {
					in.Up = true
				}
			} else {
				grounded, _ := w.Grounded(id)
				if dy < -0.6*tileSize && grounded.Value {
					in.Jump = true
					in.JumpHeld = true
				}
			}
		}
		w.SetInput(id, in)
		w.SetPathFollower(id, *pf)
	}
}

func recalculate(tm *tilemap.Tilemap, cache *pathfind.Cache, cfg pathfind.PlatformerConfig, pf *ecsworld.PathFollower, pos ecsworld.Position) {
	from := tilemap.WorldToTile(pos.X, pos.Y, tileSize)
	to := tilemap.WorldToTile(pf.TargetX, pf.TargetY, tileSize)

	var tilePath []tilemap.Point
	if pf.PathType == ecsworld.PathTopDown {
		if cached, ok := cache.Get(pathfind.TopDown, from, to, 0); ok {
			tilePath = cached
		} else {
			tilePath = pathfind.TopDownBFS(tm, from, to, tileSize)
			cache.Put(pathfind.TopDown, from, to, 0, tilePath)
		}
	} else {
		cfgHash := pathfind.ConfigHash(cfg)
		if cached, ok := cache.Get(pathfind.Platformer, from, to, cfgHash); ok {
			tilePath = cached
		} else {
			tilePath = pathfind.PlatformerBFS(tm, from, to, cfg)
			cache.Put(pathfind.Platformer, from, to, cfgHash, tilePath)
		}
	}

	pf.Path = pf.Path[:0]
	for _, t := range tilePath {
		pf.Path = append(pf.Path, ecsworld.Vec2{
			X: (float32(t.X) + 0.5) * tileSize,
			Y: (float32(t.Y) + 0.5) * tileSize,
		})
	}
}
