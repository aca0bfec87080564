package ecsworld

// GravityBody / Jumper / TopDownMover — static physics tuning components.

func (w *World) GravityBodyOf(id NetworkId) (GravityBody, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ent, ok := w.entity(id)
	if !ok || !w.gravityMap.Has(ent) {
		return GravityBody{}, false
	}
	return *w.gravityMap.Get(ent), true
}

func (w *World) SetGravityBody(id NetworkId, g GravityBody) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	ent, ok := w.entity(id)
	if !ok {
		return false
	}
	if w.gravityMap.Has(ent) {
		*w.gravityMap.Get(ent) = g
	} else {
		w.gravityMap.Add(ent, &g)
	}
	return true
}

func (w *World) JumperOf(id NetworkId) (Jumper, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ent, ok := w.entity(id)
	if !ok || !w.jumperMap.Has(ent) {
		return Jumper{}, false
	}
	return *w.jumperMap.Get(ent), true
}

func (w *World) SetJumper(id NetworkId, j Jumper) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	ent, ok := w.entity(id)
	if !ok {
		return false
	}
	if w.jumperMap.Has(ent) {
		*w.jumperMap.Get(ent) = j
	} else {
		w.jumperMap.Add(ent, &j)
	}
	return true
}

func (w *World) InputOf(id NetworkId) (Input, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ent, ok := w.entity(id)
	if !ok || !w.inputMap.Has(ent) {
		return Input{}, false
	}
	return *w.inputMap.Get(ent), true
}

func (w *World) SetInput(id NetworkId, in Input) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	ent, ok := w.entity(id)
	if !ok {
		return false
	}
	if w.inputMap.Has(ent) {
		*w.inputMap.Get(ent) = in
	} else {
		w.inputMap.Add(ent, &in)
	}
	return true
}

func (w *World) Animation(id NetworkId) (Animation, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ent, ok := w.entity(id)
	if !ok || !w.animMap.Has(ent) {
		return Animation{}, false
	}
	return *w.animMap.Get(ent), true
}

func (w *World) SetAnimation(id NetworkId, a Animation) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	ent, ok := w.entity(id)
	if !ok {
		return false
	}
	if w.animMap.Has(ent) {
		*w.animMap.Get(ent) = a
	} else {
		w.animMap.Add(ent, &a)
	}
	return true
}

// ParticleBurst

func (w *World) ParticleBurst(id NetworkId) (ParticleBurst, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ent, ok := w.entity(id)
	if !ok || !w.particleMap.Has(ent) {
		return ParticleBurst{}, false
	}
	return *w.particleMap.Get(ent), true
}

func (w *World) SetParticleBurst(id NetworkId, p ParticleBurst) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	ent, ok := w.entity(id)
	if !ok {
		return false
	}
	if w.particleMap.Has(ent) {
		*w.particleMap.Get(ent) = p
	} else {
		w.particleMap.Add(ent, &p)
	}
	return true
}

// Tint

func (w *World) Tint(id NetworkId) (Tint, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ent, ok := w.entity(id)
	if !ok || !w.tintMap.Has(ent) {
		return Tint{}, false
	}
	return *w.tintMap.Get(ent), true
}

func (w *World) SetTint(id NetworkId, t Tint) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	ent, ok := w.entity(id)
	if !ok {
		return false
	}
	if w.tintMap.Has(ent) {
		*w.tintMap.Get(ent) = t
	} else {
		w.tintMap.Add(ent, &t)
	}
	return true
}

// Trail

func (w *World) Trail(id NetworkId) (Trail, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ent, ok := w.entity(id)
	if !ok || !w.trailMap.Has(ent) {
		return Trail{}, false
	}
	return *w.trailMap.Get(ent), true
}

func (w *World) SetTrail(id NetworkId, t Trail) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	ent, ok := w.entity(id)
	if !ok {
		return false
	}
	if w.trailMap.Has(ent) {
		*w.trailMap.Get(ent) = t
	} else {
		w.trailMap.Add(ent, &t)
	}
	return true
}

func (w *World) TopDownMoverOf(id NetworkId) (TopDownMover, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ent, ok := w.entity(id)
	if !ok || !w.topDownMap.Has(ent) {
		return TopDownMover{}, false
	}
	return *w.topDownMap.Get(ent), true
}

func (w *World) SetTopDownMover(id NetworkId, t TopDownMover) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	ent, ok := w.entity(id)
	if !ok {
		return false
	}
	if w.topDownMap.Has(ent) {
		*w.topDownMap.Get(ent) = t
	} else {
		w.topDownMap.Add(ent, &t)
	}
	return true
}
