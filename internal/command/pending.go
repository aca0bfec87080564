package command

import "github.com/axiom-sim/axiom/internal/tilemap"

// PendingLevel is a staged tilemap replacement, applied at tick step 1
// rather than mid-drain, so no interaction/physics pass ever
// observes a half-swapped tilemap.
type PendingLevel struct {
	Tilemap     *tilemap.Tilemap
	PlayerSpawnX, PlayerSpawnY float32
}

// PendingPhysicsConfig is a staged physics/global-config replacement. The
// scheduler takes (and clears) it at tick step 2 but does not apply its
// values to any entity.
type PendingPhysicsConfig struct {
	Gravity      float32
	MaxFallSpeed float32
}

// Staging holds the at-most-one pending level/physics change consumed by
// the scheduler each tick. A second SetLevel (or SetPhysics) before the next
// tick overwrites the prior one rather than queuing — "the latest wins"
// matches engine.go's single `pendingRestart` flag pattern. The SetConfig
// command does not stage anything here: it only stores its blob in
// ConfigStore.
type Staging struct {
	Level   *PendingLevel
	Physics *PendingPhysicsConfig
}

// NewStaging builds an empty Staging box.
func NewStaging() *Staging { return &Staging{} }

// SetLevel stages a level change.
func (s *Staging) SetLevel(p PendingLevel) { s.Level = &p }

// SetPhysics stages a physics/config change.
func (s *Staging) SetPhysics(p PendingPhysicsConfig) { s.Physics = &p }

// TakeLevel returns and clears the pending level change, if any.
func (s *Staging) TakeLevel() (PendingLevel, bool) {
	if s.Level == nil {
		return PendingLevel{}, false
	}
	p := *s.Level
	s.Level = nil
	return p, true
}

// TakePhysics returns and clears the pending physics change, if any.
func (s *Staging) TakePhysics() (PendingPhysicsConfig, bool) {
	if s.Physics == nil {
		return PendingPhysicsConfig{}, false
	}
	p := *s.Physics
	s.Physics = nil
	return p, true
}
