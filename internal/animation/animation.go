package animation

import (
	"github.com/axiom-sim/axiom/internal/ecsworld"
	"github.com/axiom-sim/axiom/internal/eventbus"
)

// inferredIdle/Walk/Jump/Fall are the state names velocity inference writes
// when an entity has no Explicit pin. Graphs that don't define all four just
// fall through missing-state normalization to Default.
const (
	stateIdle = "idle"
	stateWalk = "walk"
	stateJump = "jump"
	stateFall = "fall"
)

const walkSpeedThreshold = 4.0

// Update runs tick step 5 for every entity carrying an Animation component:
// infer a state from Velocity/Grounded when not explicitly pinned, advance
// the current clip's frame counter, emit any frame-indexed events, and
// normalize onto Default when the current state or graph no longer exists
// (e.g. after a hot-reloaded graph drops a state).
func Update(w *ecsworld.World, reg *Registry, bus *eventbus.Bus, dt float32, frame uint64) {
	for _, id := range w.AllIDs() {
		anim, ok := w.Animation(id)
		if !ok {
			continue
		}

		graph, ok := reg.Get(anim.GraphName)
		if !ok {
			continue
		}

		if !anim.Explicit {
			if inferred, ok := inferState(w, id); ok {
				if inferred != anim.State {
					anim.State = inferred
					anim.Frame = 0
					anim.FrameElapsed = 0
				}
			}
		}

		clip, ok := graph.States[anim.State]
		if !ok {
			anim.State = graph.Default
			anim.Frame = 0
			anim.FrameElapsed = 0
			anim.Explicit = false
			clip, ok = graph.States[anim.State]
			if !ok {
				w.SetAnimation(id, anim)
				continue
			}
		}

		advanceFrame(w, bus, id, &anim, graph, clip, dt, frame)
		w.SetAnimation(id, anim)
	}
}

// inferState maps Velocity/Grounded onto one of the four inference states.
// An entity without Velocity or Grounded (e.g. a purely script-driven prop)
// reports ok=false and keeps whatever state it already has.
func inferState(w *ecsworld.World, id ecsworld.NetworkId) (string, bool) {
	vel, hasVel := w.Velocity(id)
	if !hasVel {
		return "", false
	}
	grounded, hasGrounded := w.Grounded(id)
	if !hasGrounded {
		if vel.X < -walkSpeedThreshold || vel.X > walkSpeedThreshold {
			return stateWalk, true
		}
		return stateIdle, true
	}
	if !grounded.Value {
		if vel.Y < 0 {
			return stateJump, true
		}
		return stateFall, true
	}
	if vel.X < -walkSpeedThreshold || vel.X > walkSpeedThreshold {
		return stateWalk, true
	}
	return stateIdle, true
}

func advanceFrame(w *ecsworld.World, bus *eventbus.Bus, id ecsworld.NetworkId, anim *ecsworld.Animation, graph Graph, clip Clip, dt float32, frame uint64) {
	if clip.FrameCount <= 0 || clip.FPS <= 0 {
		return
	}
	anim.FrameElapsed += dt * clip.FPS
	for anim.FrameElapsed >= 1 {
		anim.FrameElapsed -= 1
		anim.Frame++

		if evName, ok := clip.Events[anim.Frame]; ok {
			bus.Emit(eventbus.Event{
				Name:         "anim:" + evName,
				Frame:        frame,
				SourceEntity: uint64(id),
				Data: map[string]any{
					"graph": graph.Name,
					"state": anim.State,
					"frame": anim.Frame,
				},
			})
		}

		if anim.Frame >= clip.FrameCount {
			if clip.Loop {
				anim.Frame = 0
				continue
			}
			if clip.Next != "" {
				anim.State = clip.Next
				anim.Frame = 0
				anim.FrameElapsed = 0
				anim.Explicit = false
			} else {
				anim.Frame = clip.FrameCount - 1
			}
			return
		}
	}
}
