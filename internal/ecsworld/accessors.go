package ecsworld

// This file exposes sparse optional-component access by NetworkId. Each
// accessor follows the same shape (a getter returning (value, ok) and a Set,
// plus Remove where the design calls for components that self-remove or get
// stripped),
// mirroring ark's Map[T].Has/Get/Add/Remove used directly in pthm-soup's
// render/overlays packages, just indexed by NetworkId instead of ecs.Entity.

// Position

func (w *World) Position(id NetworkId) (Position, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ent, ok := w.entity(id)
	if !ok {
		return Position{}, false
	}
	return *w.posMap.Get(ent), true
}

func (w *World) SetPosition(id NetworkId, p Position) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	ent, ok := w.entity(id)
	if !ok {
		return false
	}
	*w.posMap.Get(ent) = p
	return true
}

// Velocity

func (w *World) Velocity(id NetworkId) (Velocity, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ent, ok := w.entity(id)
	if !ok || !w.velMap.Has(ent) {
		return Velocity{}, false
	}
	return *w.velMap.Get(ent), true
}

func (w *World) SetVelocity(id NetworkId, v Velocity) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	ent, ok := w.entity(id)
	if !ok {
		return false
	}
	if w.velMap.Has(ent) {
		*w.velMap.Get(ent) = v
	} else {
		w.velMap.Add(ent, &v)
	}
	return true
}

// Collider

func (w *World) Collider(id NetworkId) (Collider, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ent, ok := w.entity(id)
	if !ok || !w.colliderMap.Has(ent) {
		return Collider{}, false
	}
	return *w.colliderMap.Get(ent), true
}

func (w *World) SetCollider(id NetworkId, c Collider) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	ent, ok := w.entity(id)
	if !ok {
		return false
	}
	if w.colliderMap.Has(ent) {
		*w.colliderMap.Get(ent) = c
	} else {
		w.colliderMap.Add(ent, &c)
	}
	return true
}

// Grounded / CoyoteTimer / JumpBuffer

func (w *World) Grounded(id NetworkId) (Grounded, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ent, ok := w.entity(id)
	if !ok || !w.groundedMap.Has(ent) {
		return Grounded{}, false
	}
	return *w.groundedMap.Get(ent), true
}

func (w *World) SetGrounded(id NetworkId, g Grounded) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	ent, ok := w.entity(id)
	if !ok {
		return false
	}
	if w.groundedMap.Has(ent) {
		*w.groundedMap.Get(ent) = g
	} else {
		w.groundedMap.Add(ent, &g)
	}
	return true
}

func (w *World) CoyoteTimer(id NetworkId) (CoyoteTimer, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ent, ok := w.entity(id)
	if !ok || !w.coyoteMap.Has(ent) {
		return CoyoteTimer{}, false
	}
	return *w.coyoteMap.Get(ent), true
}

func (w *World) SetCoyoteTimer(id NetworkId, c CoyoteTimer) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	ent, ok := w.entity(id)
	if !ok {
		return false
	}
	if w.coyoteMap.Has(ent) {
		*w.coyoteMap.Get(ent) = c
	} else {
		w.coyoteMap.Add(ent, &c)
	}
	return true
}

func (w *World) JumpBuffer(id NetworkId) (JumpBuffer, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ent, ok := w.entity(id)
	if !ok || !w.jumpBufMap.Has(ent) {
		return JumpBuffer{}, false
	}
	return *w.jumpBufMap.Get(ent), true
}

func (w *World) SetJumpBuffer(id NetworkId, j JumpBuffer) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	ent, ok := w.entity(id)
	if !ok {
		return false
	}
	if w.jumpBufMap.Has(ent) {
		*w.jumpBufMap.Get(ent) = j
	} else {
		w.jumpBufMap.Add(ent, &j)
	}
	return true
}

// Tags

func (w *World) Tags(id NetworkId) (Tags, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ent, ok := w.entity(id)
	if !ok || !w.tagsMap.Has(ent) {
		return Tags{}, false
	}
	return *w.tagsMap.Get(ent), true
}

func (w *World) SetTags(id NetworkId, t Tags) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	ent, ok := w.entity(id)
	if !ok {
		return false
	}
	if w.tagsMap.Has(ent) {
		*w.tagsMap.Get(ent) = t
	} else {
		w.tagsMap.Add(ent, &t)
	}
	return true
}

// AddTag/RemoveTag back ModifyEntityTags.
func (w *World) AddTag(id NetworkId, tag string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	ent, ok := w.entity(id)
	if !ok {
		return false
	}
	if !w.tagsMap.Has(ent) {
		w.tagsMap.Add(ent, &Tags{Set: map[string]struct{}{}})
	}
	t := w.tagsMap.Get(ent)
	if t.Set == nil {
		t.Set = map[string]struct{}{}
	}
	t.Set[tag] = struct{}{}
	return true
}

func (w *World) RemoveTag(id NetworkId, tag string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	ent, ok := w.entity(id)
	if !ok || !w.tagsMap.Has(ent) {
		return false
	}
	delete(w.tagsMap.Get(ent).Set, tag)
	return true
}

// Health / Alive

func (w *World) Health(id NetworkId) (Health, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ent, ok := w.entity(id)
	if !ok || !w.healthMap.Has(ent) {
		return Health{}, false
	}
	return *w.healthMap.Get(ent), true
}

func (w *World) SetHealth(id NetworkId, h Health) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	ent, ok := w.entity(id)
	if !ok {
		return false
	}
	if w.healthMap.Has(ent) {
		*w.healthMap.Get(ent) = h
	} else {
		w.healthMap.Add(ent, &h)
	}
	return true
}

func (w *World) IsAlive(id NetworkId) (Alive, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ent, ok := w.entity(id)
	if !ok || !w.aliveMap.Has(ent) {
		return Alive{}, false
	}
	return *w.aliveMap.Get(ent), true
}

func (w *World) SetAlive(id NetworkId, a Alive) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	ent, ok := w.entity(id)
	if !ok {
		return false
	}
	if w.aliveMap.Has(ent) {
		*w.aliveMap.Get(ent) = a
	} else {
		w.aliveMap.Add(ent, &a)
	}
	return true
}

// Invincibility

func (w *World) Invincibility(id NetworkId) (Invincibility, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ent, ok := w.entity(id)
	if !ok || !w.invincMap.Has(ent) {
		return Invincibility{}, false
	}
	return *w.invincMap.Get(ent), true
}

func (w *World) SetInvincibility(id NetworkId, inv Invincibility) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	ent, ok := w.entity(id)
	if !ok {
		return false
	}
	if w.invincMap.Has(ent) {
		*w.invincMap.Get(ent) = inv
	} else {
		w.invincMap.Add(ent, &inv)
	}
	return true
}

func (w *World) RemoveInvincibility(id NetworkId) {
	w.mu.Lock()
	defer w.mu.Unlock()
	ent, ok := w.entity(id)
	if !ok || !w.invincMap.Has(ent) {
		return
	}
	w.invincMap.Remove(ent)
}

// ContactDamage

func (w *World) ContactDamage(id NetworkId) (ContactDamage, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ent, ok := w.entity(id)
	if !ok || !w.contactMap.Has(ent) {
		return ContactDamage{}, false
	}
	return *w.contactMap.Get(ent), true
}

func (w *World) SetContactDamage(id NetworkId, c ContactDamage) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	ent, ok := w.entity(id)
	if !ok {
		return false
	}
	if w.contactMap.Has(ent) {
		*w.contactMap.Get(ent) = c
	} else {
		w.contactMap.Add(ent, &c)
	}
	return true
}

// Hitbox

func (w *World) Hitbox(id NetworkId) (Hitbox, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ent, ok := w.entity(id)
	if !ok || !w.hitboxMap.Has(ent) {
		return Hitbox{}, false
	}
	return *w.hitboxMap.Get(ent), true
}

func (w *World) SetHitbox(id NetworkId, h Hitbox) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	ent, ok := w.entity(id)
	if !ok {
		return false
	}
	if w.hitboxMap.Has(ent) {
		*w.hitboxMap.Get(ent) = h
	} else {
		w.hitboxMap.Add(ent, &h)
	}
	return true
}

// Projectile

func (w *World) Projectile(id NetworkId) (Projectile, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ent, ok := w.entity(id)
	if !ok || !w.projMap.Has(ent) {
		return Projectile{}, false
	}
	return *w.projMap.Get(ent), true
}

func (w *World) SetProjectile(id NetworkId, p Projectile) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	ent, ok := w.entity(id)
	if !ok {
		return false
	}
	if w.projMap.Has(ent) {
		*w.projMap.Get(ent) = p
	} else {
		w.projMap.Add(ent, &p)
	}
	return true
}

// Pickup

func (w *World) Pickup(id NetworkId) (Pickup, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ent, ok := w.entity(id)
	if !ok || !w.pickupMap.Has(ent) {
		return Pickup{}, false
	}
	return *w.pickupMap.Get(ent), true
}

func (w *World) SetPickup(id NetworkId, p Pickup) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	ent, ok := w.entity(id)
	if !ok {
		return false
	}
	if w.pickupMap.Has(ent) {
		*w.pickupMap.Get(ent) = p
	} else {
		w.pickupMap.Add(ent, &p)
	}
	return true
}

// TriggerZone

func (w *World) TriggerZone(id NetworkId) (*TriggerZone, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ent, ok := w.entity(id)
	if !ok || !w.triggerMap.Has(ent) {
		return nil, false
	}
	return w.triggerMap.Get(ent), true
}

func (w *World) SetTriggerZone(id NetworkId, t TriggerZone) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	ent, ok := w.entity(id)
	if !ok {
		return false
	}
	if w.triggerMap.Has(ent) {
		*w.triggerMap.Get(ent) = t
	} else {
		w.triggerMap.Add(ent, &t)
	}
	return true
}

// AiBehavior

func (w *World) AiBehaviorOf(id NetworkId) (*AiBehavior, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ent, ok := w.entity(id)
	if !ok || !w.aiMap.Has(ent) {
		return nil, false
	}
	return w.aiMap.Get(ent), true
}

func (w *World) SetAiBehavior(id NetworkId, a AiBehavior) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	ent, ok := w.entity(id)
	if !ok {
		return false
	}
	if w.aiMap.Has(ent) {
		*w.aiMap.Get(ent) = a
	} else {
		w.aiMap.Add(ent, &a)
	}
	return true
}

// PathFollower

func (w *World) PathFollowerOf(id NetworkId) (*PathFollower, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ent, ok := w.entity(id)
	if !ok || !w.pathMap.Has(ent) {
		return nil, false
	}
	return w.pathMap.Get(ent), true
}

func (w *World) SetPathFollower(id NetworkId, p PathFollower) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	ent, ok := w.entity(id)
	if !ok {
		return false
	}
	if w.pathMap.Has(ent) {
		*w.pathMap.Get(ent) = p
	} else {
		w.pathMap.Add(ent, &p)
	}
	return true
}

// Script

func (w *World) ScriptOf(id NetworkId) (Script, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ent, ok := w.entity(id)
	if !ok || !w.scriptMap.Has(ent) {
		return Script{}, false
	}
	return *w.scriptMap.Get(ent), true
}

func (w *World) SetScript(id NetworkId, s Script) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	ent, ok := w.entity(id)
	if !ok {
		return false
	}
	if w.scriptMap.Has(ent) {
		*w.scriptMap.Get(ent) = s
	} else {
		w.scriptMap.Add(ent, &s)
	}
	return true
}

// Inventory

func (w *World) Inventory(id NetworkId) (Inventory, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ent, ok := w.entity(id)
	if !ok || !w.invMap.Has(ent) {
		return Inventory{}, false
	}
	return *w.invMap.Get(ent), true
}

func (w *World) SetInventory(id NetworkId, inv Inventory) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	ent, ok := w.entity(id)
	if !ok {
		return false
	}
	if w.invMap.Has(ent) {
		*w.invMap.Get(ent) = inv
	} else {
		w.invMap.Add(ent, &inv)
	}
	return true
}

// StateMachine

func (w *World) StateMachineOf(id NetworkId) (*StateMachine, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ent, ok := w.entity(id)
	if !ok || !w.smMap.Has(ent) {
		return nil, false
	}
	return w.smMap.Get(ent), true
}

func (w *World) SetStateMachine(id NetworkId, sm StateMachine) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	ent, ok := w.entity(id)
	if !ok {
		return false
	}
	if w.smMap.Has(ent) {
		*w.smMap.Get(ent) = sm
	} else {
		w.smMap.Add(ent, &sm)
	}
	return true
}

// HasCollider reports presence without copying, used by broad-phase loops.
func (w *World) HasCollider(id NetworkId) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ent, ok := w.entity(id)
	return ok && w.colliderMap.Has(ent)
}
