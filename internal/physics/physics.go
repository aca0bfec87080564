// Package physics resolves per-tick motion (component C): platformer
// gravity/jump/coyote-time/AABB-vs-tile sweep, and top-down normalized
// movement. fight-club-go has no tile collision of its own (the brawler is
// circle-vs-circle player collision in player.go's ResolveCollisions), so
// the sweep and slope/ladder math here is built straight, in
// fight-club-go's style of a plain per-entity Update method taking dt.
package physics

import (
	"math"

	"github.com/axiom-sim/axiom/internal/ecsworld"
	"github.com/axiom-sim/axiom/internal/tilemap"
	"github.com/pkg/errors"
)

// ErrNoMovement is returned when dt <= 0.
var ErrNoMovement = errors.New("physics: no movement, dt <= 0")

const tileSize = tilemap.DefaultTileSize

// Step advances every physical entity by dt seconds, dispatching each to
// the platformer or top-down resolution path based on which mover
// component it carries.
func Step(w *ecsworld.World, tm *tilemap.Tilemap, dt float32) error {
	if dt <= 0 {
		return ErrNoMovement
	}
	for _, id := range w.AllIDs() {
		if _, ok := w.Collider(id); !ok {
			continue
		}
		if _, ok := w.GravityBodyOf(id); ok {
			stepPlatformer(w, tm, id, dt)
			continue
		}
		if _, ok := w.TopDownMoverOf(id); ok {
			stepTopDown(w, tm, id, dt)
		}
	}
	return nil
}

func aabbAt(pos ecsworld.Position, col ecsworld.Collider) (minX, minY, maxX, maxY float32) {
	return pos.X - col.W/2, pos.Y - col.H/2, pos.X + col.W/2, pos.Y + col.H/2
}

func stepTopDown(w *ecsworld.World, tm *tilemap.Tilemap, id ecsworld.NetworkId, dt float32) {
	mover, _ := w.TopDownMoverOf(id)
	in, _ := w.InputOf(id)
	var vx, vy float32
	if in.Left {
		vx -= 1
	}
	if in.Right {
		vx += 1
	}
	if in.Up {
		vy -= 1
	}
	if in.Down {
		vy += 1
	}
	if vx != 0 && vy != 0 {
		inv := float32(1.0 / math.Sqrt(2))
		vx *= inv
		vy *= inv
	}
	vx *= mover.Speed
	vy *= mover.Speed
	w.SetVelocity(id, ecsworld.Velocity{X: vx, Y: vy})

	pos, _ := w.Position(id)
	col, _ := w.Collider(id)

	pos.X = sweepAxis(tm, pos.X, pos.Y, col, vx*dt, true)
	pos.Y = sweepAxis(tm, pos.X, pos.Y, col, vy*dt, false)
	w.SetPosition(id, pos)
}

func stepPlatformer(w *ecsworld.World, tm *tilemap.Tilemap, id ecsworld.NetworkId, dt float32) {
	grav, _ := w.GravityBodyOf(id)
	vel, _ := w.Velocity(id)
	pos, _ := w.Position(id)
	col, _ := w.Collider(id)
	in, _ := w.InputOf(id)

	const climbSpeed = 60.0
	climbing := overlapsClimbable(tm, pos, col)
	if climbing && (in.Up || in.Down) {
		vel.Y = 0
		if in.Up {
			vel.Y = -climbSpeed
		}
		if in.Down {
			vel.Y = climbSpeed
		}
	} else {
		vel.Y += grav.Gravity * dt
		if vel.Y > grav.MaxFallSpeed {
			vel.Y = grav.MaxFallSpeed
		}
	}

	var vx float32
	if jumper, ok := w.JumperOf(id); ok {
		vx = horizontalSpeed(in)
		handleJump(w, id, jumper, grav, in, &vel)
	} else {
		vx = horizontalSpeed(in)
	}
	vel.X = vx

	pos.X = sweepAxis(tm, pos.X, pos.Y, col, vel.X*dt, true)
	_, blockedX := clipIfSolid(tm, pos.X, pos.Y, col, true)
	if blockedX {
		vel.X = 0
	}

	prevBottom := pos.Y + col.H/2
	newY := sweepAxisVertical(tm, pos.X, pos.Y, col, vel.Y*dt, prevBottom)
	if newY != pos.Y+vel.Y*dt {
		vel.Y = 0
	}
	pos.Y = newY

	grounded := probeGrounded(tm, pos, col)
	g, _ := w.Grounded(id)
	coyote, _ := w.CoyoteTimer(id)
	if grounded {
		g.Value = true
		coyote.Frames = 0
	} else {
		g.Value = false
		coyote.Frames++
	}
	w.SetGrounded(id, g)
	w.SetCoyoteTimer(id, coyote)

	w.SetVelocity(id, vel)
	w.SetPosition(id, pos)
}

func horizontalSpeed(in ecsworld.Input) float32 {
	const groundSpeed = 90.0
	var vx float32
	if in.Left {
		vx -= groundSpeed
	}
	if in.Right {
		vx += groundSpeed
	}
	return vx
}

func handleJump(w *ecsworld.World, id ecsworld.NetworkId, jumper ecsworld.Jumper, grav ecsworld.GravityBody, in ecsworld.Input, vel *ecsworld.Velocity) {
	jb, _ := w.JumpBuffer(id)
	if in.Jump {
		jb.Frames = 6
	}
	grounded, _ := w.Grounded(id)
	coyote, _ := w.CoyoteTimer(id)

	canJump := grounded.Value || coyote.Frames < jumper.CoyoteFrames
	if jb.Frames > 0 && canJump {
		vel.Y = -jumper.Velocity
		jb.Frames = 0
		coyote.Frames = jumper.CoyoteFrames
		w.SetCoyoteTimer(id, coyote)
	} else if jb.Frames > 0 {
		jb.Frames--
	}
	if !in.JumpHeld && vel.Y < 0 {
		vel.Y *= grav.FallMultiplier
	}
	w.SetJumpBuffer(id, jb)
}

func overlapsClimbable(tm *tilemap.Tilemap, pos ecsworld.Position, col ecsworld.Collider) bool {
	minX, minY, maxX, maxY := aabbAt(pos, col)
	for ty := int(minY / tileSize); ty <= int(maxY/tileSize); ty++ {
		for tx := int(minX / tileSize); tx <= int(maxX/tileSize); tx++ {
			if tm.HasFlag(tx, ty, tilemap.Climbable) {
				return true
			}
		}
	}
	return false
}

// sweepAxis moves a point-mass style single coordinate by delta along one
// axis and clips to the nearest non-colliding edge on SOLID/PLATFORM
// contact, implementing "move on x ... clip position to the
// nearest non-colliding edge".
func sweepAxis(tm *tilemap.Tilemap, x, y float32, col ecsworld.Collider, delta float32, horizontal bool) float32 {
	if delta == 0 {
		if horizontal {
			return x
		}
		return y
	}
	var nx, ny float32 = x, y
	if horizontal {
		nx = x + delta
	} else {
		ny = y + delta
	}
	minX, minY, maxX, maxY := aabbAt(ecsworld.Position{X: nx, Y: ny}, col)
	for ty := int(minY / tileSize); ty <= int(maxY/tileSize); ty++ {
		for tx := int(minX / tileSize); tx <= int(maxX/tileSize); tx++ {
			if !tm.IsSolid(tx, ty) {
				continue
			}
			if horizontal {
				if delta > 0 {
					nx = float32(tx)*tileSize - col.W/2
				} else {
					nx = float32(tx+1)*tileSize + col.W/2
				}
			} else {
				if delta > 0 {
					ny = float32(ty)*tileSize - col.H/2
				} else {
					ny = float32(ty+1)*tileSize + col.H/2
				}
			}
		}
	}
	if horizontal {
		return nx
	}
	return ny
}

// sweepAxisVertical additionally honors PLATFORM (one-way, downward-only
// when the prior-frame AABB was fully above it) and slope surfaces.
func sweepAxisVertical(tm *tilemap.Tilemap, x, prevY float32, col ecsworld.Collider, deltaY float32, prevBottom float32) float32 {
	newY := prevY + deltaY
	minX, _, maxX, maxY := aabbAt(ecsworld.Position{X: x, Y: newY}, col)
	bottom := maxY

	for ty := int((newY - col.H/2) / tileSize); ty <= int(bottom/tileSize); ty++ {
		for tx := int(minX / tileSize); tx <= int(maxX/tileSize); tx++ {
			tt := tm.TypeAt(tx, ty)
			if tt.Has(tilemap.Solid) {
				if deltaY > 0 {
					newY = float32(ty)*tileSize - col.H/2
				} else if deltaY < 0 {
					newY = float32(ty+1)*tileSize + col.H/2
				}
				continue
			}
			if tt.Has(tilemap.Platform) && deltaY > 0 && prevBottom <= float32(ty)*tileSize {
				newY = float32(ty)*tileSize - col.H/2
				continue
			}
			if h, ok := tm.SlopeHeightAt(tx, ty, 0.5, tileSize); ok && deltaY >= 0 {
				surfaceY := float32(ty)*tileSize + (tileSize - h)
				if newY+col.H/2 > surfaceY {
					newY = surfaceY - col.H/2
				}
			}
		}
	}
	return newY
}

func clipIfSolid(tm *tilemap.Tilemap, x, y float32, col ecsworld.Collider, horizontal bool) (float32, bool) {
	minX, minY, maxX, maxY := aabbAt(ecsworld.Position{X: x, Y: y}, col)
	for ty := int(minY / tileSize); ty <= int(maxY/tileSize); ty++ {
		for tx := int(minX / tileSize); tx <= int(maxX/tileSize); tx++ {
			if tm.IsSolid(tx, ty) {
				return x, true
			}
		}
	}
	return x, false
}

// probeGrounded checks a 1-pixel strip below the AABB for ground-like tiles
//.
func probeGrounded(tm *tilemap.Tilemap, pos ecsworld.Position, col ecsworld.Collider) bool {
	minX, _, maxX, maxY := aabbAt(pos, col)
	probeY := maxY + 1
	for tx := int(minX / tileSize); tx <= int(maxX/tileSize); tx++ {
		ty := int(probeY / tileSize)
		if tm.IsGroundLike(tx, ty) {
			return true
		}
	}
	return false
}
