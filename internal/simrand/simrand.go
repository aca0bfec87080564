// Package simrand derives deterministic pseudo-random values from
// (NetworkId, quantized position[, frame]) so that replays stay
// bit-identical.
// Built on a hand-rolled FNV-1a mix rather than math/rand: math/rand's top-level
// functions share a single global generator, which is exactly the
// process-global RNG the determinism invariant forbids, and a seeded
// *rand.Rand still needs a deterministic seed derived the same way this
// package derives one — so the mixing step is the real content here, not
// the numbers it produces. Per-behavior domains (Wander, Flee jitter, ...)
// are kept in disjoint namespaces so one behavior's calls never perturb
// another's sequence, restoring the isolation
// _examples/original_source/src/ai.rs relied on.
package simrand

import (
	"encoding/binary"

	"github.com/axiom-sim/axiom/internal/ecsworld"
)

// Domain namespaces a stream of deterministic draws so unrelated behaviors
// never share a sequence.
type Domain uint32

const (
	DomainWander Domain = iota + 1
	DomainFleeJitter
	DomainHitShake
	DomainBeamTiebreak
)

// quantize rounds a float32 world coordinate to a fixed-point grid so that
// tiny floating point drift does not change the hash input.
func quantize(v float32) int32 {
	return int32(v * 16)
}

// mix is a 64-bit FNV-1a style avalanche over the packed inputs.
func mix(parts ...uint64) uint64 {
	const (
		offset = 14695981039346656037
		prime  = 1099511628211
	)
	h := uint64(offset)
	var buf [8]byte
	for _, p := range parts {
		binary.LittleEndian.PutUint64(buf[:], p)
		for _, b := range buf {
			h ^= uint64(b)
			h *= prime
		}
	}
	return h
}

// Stream produces a deterministic sequence of values for one entity, one
// domain, one quantized position, advancing with an explicit draw counter
// rather than hidden internal state — so two Streams built from identical
// inputs always agree call-for-call.
type Stream struct {
	base  uint64
	draws uint64
}

// New builds a Stream seeded from id, domain, and a quantized position.
func New(id ecsworld.NetworkId, domain Domain, x, y float32) Stream {
	base := mix(uint64(id), uint64(domain), uint64(uint32(quantize(x))), uint64(uint32(quantize(y))))
	return Stream{base: base}
}

// NewFramed additionally folds a frame number into the seed, for draws that
// must vary tick over tick (e.g. hit-shake jitter) while staying
// reproducible for a fixed (id, position, frame) triple.
func NewFramed(id ecsworld.NetworkId, domain Domain, x, y float32, frame uint64) Stream {
	s := New(id, domain, x, y)
	s.base = mix(s.base, frame)
	return s
}

// Next draws the next uint64 in the stream.
func (s *Stream) Next() uint64 {
	s.draws++
	return mix(s.base, s.draws)
}

// Float01 draws the next value as a float64 in [0,1).
func (s *Stream) Float01() float64 {
	return float64(s.Next()>>11) / (1 << 53)
}

// Angle draws a deterministic angle in [0, 2*pi).
func (s *Stream) Angle() float64 {
	const twoPi = 6.283185307179586
	return s.Float01() * twoPi
}

// IntN draws a deterministic value in [0,n).
func (s *Stream) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return int(s.Next() % uint64(n))
}
