// Package ai runs the per-tick AiBehavior state machine (component D's
// behavior half) and drives PathFollower target selection. Grounded on
// fight-club-go's internal/game/player.go dispatch shape (findTarget /
// combatBehavior / wander chosen per frame off the player's own state),
// generalized from a single hardcoded brawler AI to a behavior table,
// and using internal/simrand instead of global math/rand so Wander stays
// deterministic from (NetworkId, quantized_position).
package ai

import (
	"math"

	"github.com/axiom-sim/axiom/internal/ecsworld"
	"github.com/axiom-sim/axiom/internal/pathfind"
	"github.com/axiom-sim/axiom/internal/simrand"
	"github.com/axiom-sim/axiom/internal/tilemap"
)

const tileSize = tilemap.DefaultTileSize

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func dist(ax, ay, bx, by float32) float32 {
	dx, dy := bx-ax, ay-by
	return sqrt32(dx*dx + dy*dy)
}

func sqrt32(v float32) float32 {
	if v <= 0 {
		return 0
	}
	x := v
	for i := 0; i < 20; i++ {
		x = 0.5 * (x + v/x)
	}
	return x
}

// UpdateBehaviors is tick step 4a: "update_ai_behaviors".
func UpdateBehaviors(w *ecsworld.World, tm *tilemap.Tilemap, frame uint64) {
	for _, id := range w.AllIDs() {
		beh, ok := w.AiBehaviorOf(id)
		if !ok {
			continue
		}
		pos, ok := w.Position(id)
		if !ok {
			continue
		}
		switch beh.Behavior {
		case ecsworld.BehaviorPatrol:
			updatePatrol(w, id, beh, pos)
		case ecsworld.BehaviorChase:
			updateChase(w, id, beh, pos, tm)
		case ecsworld.BehaviorFlee:
			updateFlee(w, id, beh, pos, tm)
		case ecsworld.BehaviorGuard:
			updateGuard(w, id, beh, pos, tm)
		case ecsworld.BehaviorWander:
			updateWander(w, id, beh, pos)
		case ecsworld.BehaviorCustom:
			// Script-driven; internal/script owns AiState transitions.
		}
	}
}

func nearestWithTag(w *ecsworld.World, self ecsworld.NetworkId, selfPos ecsworld.Position, tag string, radius float32) (ecsworld.NetworkId, ecsworld.Position, bool) {
	var best ecsworld.NetworkId
	var bestPos ecsworld.Position
	bestDist := radius
	found := false
	for _, id := range w.AllIDs() {
		if id == self {
			continue
		}
		tags, ok := w.Tags(id)
		if !ok || !tags.Has(tag) {
			continue
		}
		pos, ok := w.Position(id)
		if !ok {
			continue
		}
		d := dist(selfPos.X, selfPos.Y, pos.X, pos.Y)
		if d <= bestDist {
			best, bestPos, bestDist, found = id, pos, d, true
		}
	}
	return best, bestPos, found
}

func updatePatrol(w *ecsworld.World, id ecsworld.NetworkId, beh *ecsworld.AiBehavior, pos ecsworld.Position) {
	if len(beh.PatrolPoints) == 0 {
		beh.State = ecsworld.AiState{Kind: ecsworld.AiIdle}
		return
	}
	idx := beh.State.PatrolIndex
	if idx >= len(beh.PatrolPoints) {
		idx = 0
	}
	target := beh.PatrolPoints[idx]
	if dist(pos.X, pos.Y, target.X, target.Y) < 4 {
		idx = (idx + 1) % len(beh.PatrolPoints)
	}
	beh.State = ecsworld.AiState{Kind: ecsworld.AiPatrolling, PatrolIndex: idx}
	setPathTarget(w, id, beh.PatrolPoints[idx].X, beh.PatrolPoints[idx].Y)
}

func updateChase(w *ecsworld.World, id ecsworld.NetworkId, beh *ecsworld.AiBehavior, pos ecsworld.Position, tm *tilemap.Tilemap) {
	switch beh.State.Kind {
	case ecsworld.AiChasing:
		targetPos, ok := w.Position(beh.State.TargetID)
		if !ok || dist(pos.X, pos.Y, targetPos.X, targetPos.Y) > beh.GiveUpRadius {
			beh.State = ecsworld.AiState{Kind: ecsworld.AiIdle}
			return
		}
		if beh.RequireLOS && !pathfind.HasLineOfSight(tm, pos.X, pos.Y, targetPos.X, targetPos.Y, tileSize) {
			return
		}
		setPathTarget(w, id, targetPos.X, targetPos.Y)
	default:
		target, targetPos, found := nearestWithTag(w, id, pos, beh.TargetTag, beh.DetectionRadius)
		if !found {
			beh.State = ecsworld.AiState{Kind: ecsworld.AiIdle}
			return
		}
		if beh.RequireLOS && !pathfind.HasLineOfSight(tm, pos.X, pos.Y, targetPos.X, targetPos.Y, tileSize) {
			return
		}
		beh.State = ecsworld.AiState{Kind: ecsworld.AiChasing, TargetID: target}
		setPathTarget(w, id, targetPos.X, targetPos.Y)
	}
}

func updateFlee(w *ecsworld.World, id ecsworld.NetworkId, beh *ecsworld.AiBehavior, pos ecsworld.Position, tm *tilemap.Tilemap) {
	threat, threatPos, found := nearestWithTag(w, id, pos, beh.TargetTag, beh.DetectionRadius)
	if !found {
		if beh.State.Kind == ecsworld.AiFleeing {
			if tPos, ok := w.Position(beh.State.ThreatID); ok && dist(pos.X, pos.Y, tPos.X, tPos.Y) <= beh.GiveUpRadius {
				threat, threatPos, found = beh.State.ThreatID, tPos, true
			}
		}
		if !found {
			beh.State = ecsworld.AiState{Kind: ecsworld.AiIdle}
			return
		}
	}
	awayX, awayY := pos.X-threatPos.X, pos.Y-threatPos.Y
	mag := sqrt32(awayX*awayX + awayY*awayY)
	if mag == 0 {
		mag = 1
	}
	r := clampf(beh.DetectionRadius, 48, 240)
	destX := pos.X + (awayX/mag)*r
	destY := pos.Y + (awayY/mag)*r
	beh.State = ecsworld.AiState{Kind: ecsworld.AiFleeing, ThreatID: threat}
	setPathTarget(w, id, destX, destY)
}

func updateGuard(w *ecsworld.World, id ecsworld.NetworkId, beh *ecsworld.AiBehavior, pos ecsworld.Position, tm *tilemap.Tilemap) {
	target, targetPos, found := nearestWithTag(w, id, pos, beh.TargetTag, beh.ChaseRadius)
	if found {
		beh.State = ecsworld.AiState{Kind: ecsworld.AiChasing, TargetID: target}
		setPathTarget(w, id, targetPos.X, targetPos.Y)
		return
	}
	if dist(pos.X, pos.Y, beh.HomeX, beh.HomeY) > beh.ChaseRadius {
		beh.State = ecsworld.AiState{Kind: ecsworld.AiReturning}
		setPathTarget(w, id, beh.HomeX, beh.HomeY)
		return
	}
	beh.State = ecsworld.AiState{Kind: ecsworld.AiIdle}
}

func updateWander(w *ecsworld.World, id ecsworld.NetworkId, beh *ecsworld.AiBehavior, pos ecsworld.Position) {
	if beh.State.Kind == ecsworld.AiWandering && beh.State.WanderPauseLeft > 0 {
		beh.State.WanderPauseLeft--
		return
	}
	stream := simrand.New(id, simrand.DomainWander, pos.X, pos.Y)
	angle := stream.Angle()
	destX := pos.X + float32(math.Cos(angle))*beh.WanderRadius
	destY := pos.Y + float32(math.Sin(angle))*beh.WanderRadius
	beh.State = ecsworld.AiState{Kind: ecsworld.AiWandering, WanderPauseLeft: beh.WanderPauseFrames}
	setPathTarget(w, id, destX, destY)
}

func setPathTarget(w *ecsworld.World, id ecsworld.NetworkId, x, y float32) {
	pf, ok := w.PathFollowerOf(id)
	if !ok {
		w.SetPathFollower(id, ecsworld.PathFollower{TargetX: x, TargetY: y, Speed: 60, RecalculateInterval: 30})
		return
	}
	if pf.TargetX != x || pf.TargetY != y {
		pf.TargetX, pf.TargetY = x, y
		pf.FramesUntilRecalc = 0
	}
}
