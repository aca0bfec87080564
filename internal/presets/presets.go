// Package presets implements the SpawnPreset entity-template registry.
// Grounded on the per-weapon lookup table
// (_examples/iamvalenciia-kick-game-stream/fight-club-go/internal/game/weapons.go):
// same named-map-with-fallback shape, generalized from a fixed
// `{Range,Cooldown,MinDamage,MaxDamage}` weapon stat block to an arbitrary
// bundle of ECS components a SpawnEntity-style command stamps onto a fresh
// entity.
package presets

import "github.com/axiom-sim/axiom/internal/ecsworld"

// Preset is a named template: every non-zero-value field is attached to
// the entity Spawn creates. Nil/zero fields (e.g. no AiBehavior pointer)
// are simply not attached.
type Preset struct {
	Name string

	Collider      *ecsworld.Collider
	Tags          []string
	Health        *ecsworld.Health
	ContactDamage *ecsworld.ContactDamage
	Hitbox        *ecsworld.Hitbox
	Pickup        *ecsworld.Pickup
	AiBehavior    *ecsworld.AiBehavior
	GravityBody   *ecsworld.GravityBody
	Jumper        *ecsworld.Jumper
	TopDownMover  *ecsworld.TopDownMover
	ScriptName    string
	AnimGraph     string
}

// Registry holds every loaded preset, keyed by name.
type Registry struct {
	presets map[string]Preset
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{presets: make(map[string]Preset)}
}

// Upsert installs or replaces a preset.
func (r *Registry) Upsert(p Preset) {
	r.presets[p.Name] = p
}

// Get looks up a preset by name.
func (r *Registry) Get(name string) (Preset, bool) {
	p, ok := r.presets[name]
	return p, ok
}

// Names returns every registered preset name.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.presets))
	for name := range r.presets {
		out = append(out, name)
	}
	return out
}

// Spawn instantiates preset p at (x, y) in w, attaching every non-nil
// component field, and returns the new entity's NetworkId.
func Spawn(w *ecsworld.World, p Preset, x, y float32) ecsworld.NetworkId {
	id := w.Spawn(ecsworld.Position{X: x, Y: y})

	if p.Collider != nil {
		w.SetCollider(id, *p.Collider)
	}
	if len(p.Tags) > 0 {
		w.SetTags(id, ecsworld.NewTags(p.Tags...))
	}
	if p.Health != nil {
		w.SetHealth(id, *p.Health)
		w.SetAlive(id, ecsworld.Alive{Value: true})
	}
	if p.ContactDamage != nil {
		w.SetContactDamage(id, *p.ContactDamage)
	}
	if p.Hitbox != nil {
		w.SetHitbox(id, *p.Hitbox)
	}
	if p.Pickup != nil {
		w.SetPickup(id, *p.Pickup)
	}
	if p.AiBehavior != nil {
		w.SetAiBehavior(id, *p.AiBehavior)
	}
	if p.GravityBody != nil {
		w.SetGravityBody(id, *p.GravityBody)
	}
	if p.Jumper != nil {
		w.SetJumper(id, *p.Jumper)
	}
	if p.TopDownMover != nil {
		w.SetTopDownMover(id, *p.TopDownMover)
	}
	if p.ScriptName != "" {
		w.SetScript(id, ecsworld.Script{Name: p.ScriptName})
	}
	if p.AnimGraph != "" {
		w.SetAnimation(id, ecsworld.Animation{GraphName: p.AnimGraph})
	}
	return id
}
