package pathfind

import "github.com/axiom-sim/axiom/internal/tilemap"

// Action is one of the discrete held-button actions a SimInput can encode.
type Action string

const (
	ActionLeft  Action = "left"
	ActionRight Action = "right"
	ActionUp    Action = "up"
	ActionDown  Action = "down"
	ActionJump  Action = "jump"
)

// SimInput is a frame-indexed discrete held action: "a held virtual button"
// per the GLOSSARY.
type SimInput struct {
	Frame          uint32
	Action         Action
	DurationFrames uint32
}

const ticksPerSecond = 60

// TileSequenceToInputs converts a tile path into a SimInput stream using
// precise dead-reckoning (units/frame = move_speed/60) and a jump hold
// computed from the ballistic rise frames,.
func TileSequenceToInputs(pathTiles []tilemap.Point, cfg PlatformerConfig) []SimInput {
	if len(pathTiles) < 2 {
		return nil
	}
	unitsPerFrame := cfg.MoveSpeed / ticksPerSecond
	riseFrames := uint32(cfg.JumpVelocity / cfg.Gravity * ticksPerSecond)

	var inputs []SimInput
	var frame uint32
	for i := 1; i < len(pathTiles); i++ {
		from, to := pathTiles[i-1], pathTiles[i]
		dx := to.X - from.X
		dy := to.Y - from.Y

		if dy < 0 {
			inputs = append(inputs, SimInput{Frame: frame, Action: ActionJump, DurationFrames: 2})
			if dx != 0 {
				inputs = append(inputs, SimInput{Frame: frame, Action: horizAction(dx), DurationFrames: riseFrames})
			}
			frame += riseFrames
			continue
		}

		if dx == 0 {
			// Falling straight down needs no held horizontal action; advance
			// frame by an estimate of fall duration for one tile.
			frame += uint32(cfg.TileSize / unitsPerFrame)
			continue
		}

		dist := float32(dx)
		if dist < 0 {
			dist = -dist
		}
		duration := uint32(dist * cfg.TileSize / unitsPerFrame)
		if duration == 0 {
			duration = 1
		}
		inputs = append(inputs, SimInput{Frame: frame, Action: horizAction(dx), DurationFrames: duration})
		frame += duration
	}
	return inputs
}

func horizAction(dx int) Action {
	if dx < 0 {
		return ActionLeft
	}
	return ActionRight
}
