package pathfind

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

// BeamConfig tunes the adaptive beam-search fallback.
type BeamConfig struct {
	BeamWidth      int
	StepLimit      int
	MaxEvaluations int
}

// DefaultBeamConfig uses a beam width of 8 and a step limit of 72 (within
// the 56-90 range found to balance reach against cost), with a
// max-evaluations fallback defaulting to 512 when the caller passes none.
func DefaultBeamConfig(maxEvaluations int) BeamConfig {
	if maxEvaluations <= 0 {
		maxEvaluations = 512
	}
	return BeamConfig{BeamWidth: 8, StepLimit: 72, MaxEvaluations: maxEvaluations}
}

// primitive is one candidate input the beam search can append to a
// candidate sequence: a directional pulse or a jump pulse of one of several
// hold lengths.
type primitive struct {
	action   Action
	duration uint32
}

func primitives() []primitive {
	return []primitive{
		{ActionLeft, 4}, {ActionLeft, 8}, {ActionLeft, 16},
		{ActionRight, 4}, {ActionRight, 8}, {ActionRight, 16},
		{ActionJump, 6}, {ActionJump, 10}, {ActionJump, 16},
	}
}

// SimFunc runs a bounded simulation of a candidate SimInput stream and
// reports the terminal position, frame, and whether the goal/death outcome
// was hit. The beam search is agnostic to how simulation actually happens —
// internal/simdriver supplies this closure.
type SimFunc func(inputs []SimInput, stepLimit int) (x, y float32, endFrame int, reachedGoal, died bool)

type candidate struct {
	inputs []SimInput
	score  float64
}

type dedupKey struct {
	rx, ry, rf int
	bucket     int
}

// Beam runs the adaptive beam search, scoring candidates by
// −distance_to_goal + goal_reached_bonus − death_penalty, deduplicating by
// (rounded_terminal_x, rounded_terminal_y, rounded_end_frame, outcome_bucket).
// Candidate batches are evaluated concurrently via golang.org/x/sync/errgroup
// (the dependency niceyeti-tabular already pulls in), since each simulation
// is independent and read-only over the cloned world the caller built.
func Beam(cfg BeamConfig, goalX, goalY float32, sim SimFunc) []SimInput {
	beam := []candidate{{inputs: nil, score: 0}}
	seen := map[dedupKey]bool{}
	var seenMu sync.Mutex
	evaluations := 0
	defer func() { RecordNodesExpanded(uint64(evaluations)) }()

	for step := 0; step < cfg.StepLimit && evaluations < cfg.MaxEvaluations; step++ {
		type scored struct {
			cand candidate
			ok   bool
		}
		next := make([]scored, len(beam)*len(primitives()))
		var g errgroup.Group
		prims := primitives()
		for bi, b := range beam {
			for pi, p := range prims {
				bi, b, pi, p := bi, b, pi, p
				g.Go(func() error {
					cand := extend(b, p)
					x, y, endFrame, reached, died := sim(cand.inputs, cfg.StepLimit)
					bucket := 0
					if reached {
						bucket = 1
					}
					if died {
						bucket = 2
					}
					key := dedupKey{rx: int(x), ry: int(y), rf: endFrame, bucket: bucket}
					cand.score = score(x, y, goalX, goalY, reached, died)
					idx := bi*len(prims) + pi

					seenMu.Lock()
					isNew := !seen[key]
					seen[key] = true
					seenMu.Unlock()

					next[idx] = scored{cand: cand, ok: isNew}
					return nil
				})
				evaluations++
			}
		}
		_ = g.Wait()

		var candidates []candidate
		for _, s := range next {
			if s.ok {
				candidates = append(candidates, s.cand)
			}
		}
		if len(candidates) == 0 {
			break
		}
		candidates = topK(candidates, cfg.BeamWidth)
		beam = candidates

		for _, c := range beam {
			if len(c.inputs) > 0 {
				x, y, _, reached, _ := sim(c.inputs, cfg.StepLimit)
				_ = x
				_ = y
				if reached {
					return c.inputs
				}
			}
		}
	}

	if len(beam) == 0 {
		return nil
	}
	return topK(beam, 1)[0].inputs
}

func extend(b candidate, p primitive) candidate {
	frame := uint32(0)
	for _, in := range b.inputs {
		end := in.Frame + in.DurationFrames
		if end > frame {
			frame = end
		}
	}
	out := make([]SimInput, len(b.inputs), len(b.inputs)+1)
	copy(out, b.inputs)
	out = append(out, SimInput{Frame: frame, Action: p.action, DurationFrames: p.duration})
	return candidate{inputs: out}
}

const (
	goalReachedBonus = 1000.0
	deathPenalty     = 500.0
)

func score(x, y, goalX, goalY float32, reached, died bool) float64 {
	dx := float64(goalX - x)
	dy := float64(goalY - y)
	dist := sqrt64(dx*dx + dy*dy)
	s := -dist
	if reached {
		s += goalReachedBonus
	}
	if died {
		s -= deathPenalty
	}
	return s
}

func sqrt64(v float64) float64 {
	if v <= 0 {
		return 0
	}
	x := v
	for i := 0; i < 30; i++ {
		x = 0.5 * (x + v/x)
	}
	return x
}

func topK(cands []candidate, k int) []candidate {
	sorted := append([]candidate(nil), cands...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].score > sorted[j-1].score; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	if len(sorted) > k {
		sorted = sorted[:k]
	}
	return sorted
}
