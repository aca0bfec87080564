package ecsworld

// ResetNonPlayer despawns every entity except the designated player entity,
// backing the ResetNonPlayerEntities command.
func (w *World) ResetNonPlayer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for id, ent := range w.byNetID {
		if w.hasPlayer && id == w.playerID {
			continue
		}
		if w.raw.Alive(ent) {
			w.raw.RemoveEntity(ent)
		}
		delete(w.byNetID, id)
		delete(w.byEnt, ent)
	}
}
