// Package save implements the versioned JSON save/load model.
// Grounded on game_snapshot.go copy-out shape
// (_examples/iamvalenciia-kick-game-stream/fight-club-go/internal/game/game_snapshot.go):
// same "walk every live entity, copy its fields into a plain struct" loop,
// generalized from PlayerSnapshot's fixed fields to the full SaveEntity
// component bundle.
package save

import (
	"encoding/json"

	"github.com/axiom-sim/axiom/internal/animation"
	"github.com/axiom-sim/axiom/internal/command"
	"github.com/axiom-sim/axiom/internal/ecsworld"
	"github.com/axiom-sim/axiom/internal/presets"
	"github.com/axiom-sim/axiom/internal/script"
	"github.com/axiom-sim/axiom/internal/tilemap"
)

// FormatVersion is bumped whenever the save shape changes incompatibly.
const FormatVersion = 1

// SaveEntity persists exactly the entity fields a save file needs to
// restore gameplay state.
type SaveEntity struct {
	ID            ecsworld.NetworkId         `json:"id"`
	Position      ecsworld.Position          `json:"position"`
	Velocity      ecsworld.Velocity          `json:"velocity"`
	Tags          []string                   `json:"tags,omitempty"`
	Alive         bool                       `json:"alive"`
	Health        *ecsworld.Health           `json:"health,omitempty"`
	Script        *ecsworld.Script           `json:"script,omitempty"`
	ScriptState   json.RawMessage            `json:"script_state,omitempty"`
	AiState       *ecsworld.AiState          `json:"ai_state,omitempty"`
	Invincibility uint32                     `json:"invincibility_remaining,omitempty"`
	PathPoints    []ecsworld.Vec2            `json:"path_points,omitempty"`
	PathTimer     uint32                     `json:"path_timer,omitempty"`
	Inventory     *ecsworld.Inventory        `json:"inventory,omitempty"`
}

// SaveGameData is the full versioned save payload (wire shape).
type SaveGameData struct {
	Version       int                    `json:"version"`
	Config        map[string]any         `json:"config"`
	Tilemap       *tilemap.Tilemap       `json:"tilemap,omitempty"`
	GameState     string                 `json:"game_state"`
	NextNetworkID ecsworld.NetworkId     `json:"next_network_id"`
	Entities      []SaveEntity           `json:"entities"`
	Scripts       map[string]string      `json:"scripts"`
	GlobalScripts []string               `json:"global_scripts"`
	GameVars      map[string]any         `json:"game_vars"`

	AnimationGraphs map[string]animation.Graph `json:"animation_graphs,omitempty"`
	PresetNames     []string                   `json:"preset_names,omitempty"`
}

// Model ties together every subsystem a save must read from/write into.
// internal/command's Dispatcher holds one as its Saver.
type Model struct {
	World    *ecsworld.World
	Tilemap  **tilemap.Tilemap
	Presets  *presets.Registry
	AnimReg  *animation.Registry
	Scripts  *script.Engine
	Config   *command.ConfigStore
	GameState func() string
}

// Export walks the live world and returns a SaveGameData (command.Saver.Export).
func (m *Model) Export() (any, error) {
	data := SaveGameData{
		Version:       FormatVersion,
		Tilemap:       *m.Tilemap,
		GameState:     m.GameState(),
		NextNetworkID: m.World.NextID(),
		Scripts:       make(map[string]string),
		GameVars:      m.World.Vars(),
	}

	for _, name := range m.Scripts.ListScripts() {
		if src, ok := m.Scripts.GetScript(name); ok {
			data.Scripts[name] = src
		}
	}
	data.GlobalScripts = m.Scripts.GlobalNames()

	cfg := m.Config.Snapshot()
	data.Config = make(map[string]any, len(cfg))
	for k, v := range cfg {
		data.Config[string(k)] = v
	}

	graphs := make(map[string]animation.Graph)
	for _, name := range m.AnimReg.Names() {
		if g, ok := m.AnimReg.Get(name); ok {
			graphs[name] = g
		}
	}
	data.AnimationGraphs = graphs
	data.PresetNames = m.Presets.Names()

	for _, id := range m.World.AllIDs() {
		data.Entities = append(data.Entities, exportEntity(m.World, id))
	}
	return data, nil
}

func exportEntity(w *ecsworld.World, id ecsworld.NetworkId) SaveEntity {
	se := SaveEntity{ID: id}
	if p, ok := w.Position(id); ok {
		se.Position = p
	}
	if v, ok := w.Velocity(id); ok {
		se.Velocity = v
	}
	if t, ok := w.Tags(id); ok {
		for tag := range t.Set {
			se.Tags = append(se.Tags, tag)
		}
	}
	if a, ok := w.IsAlive(id); ok {
		se.Alive = a.Value
	}
	if h, ok := w.Health(id); ok {
		se.Health = &h
	}
	if s, ok := w.ScriptOf(id); ok {
		se.Script = &s
		se.ScriptState = s.State
	}
	if ai, ok := w.AiBehaviorOf(id); ok {
		st := ai.State
		se.AiState = &st
	}
	if inv, ok := w.Invincibility(id); ok {
		se.Invincibility = inv.FramesRemaining
	}
	if pf, ok := w.PathFollowerOf(id); ok {
		se.PathPoints = pf.Path
		se.PathTimer = pf.FramesUntilRecalc
	}
	if inv, ok := w.Inventory(id); ok {
		se.Inventory = &inv
	}
	return se
}

// Import clears the world and restores it from data (command.Saver.Import).
// Loading preserves NetworkId: entities are re-spawned and their id
// sequence fast-forwarded to at least NextNetworkID: loading a save respawns
// entities while preserving their NetworkId.
func (m *Model) Import(raw any) error {
	var data SaveGameData
	switch v := raw.(type) {
	case SaveGameData:
		data = v
	case []byte:
		if err := json.Unmarshal(v, &data); err != nil {
			return err
		}
	case string:
		if err := json.Unmarshal([]byte(v), &data); err != nil {
			return err
		}
	default:
		b, err := json.Marshal(raw)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(b, &data); err != nil {
			return err
		}
	}

	m.World.ResetLevel()
	if data.Tilemap != nil {
		*m.Tilemap = data.Tilemap
	}
	m.World.SetVars(data.GameVars)

	for name, src := range data.Scripts {
		_ = m.Scripts.LoadScript(name, src)
	}
	for _, name := range data.GlobalScripts {
		m.Scripts.RegisterGlobal(name)
	}

	for name, g := range data.AnimationGraphs {
		g.Name = name
		m.AnimReg.Upsert(g)
	}

	for _, se := range data.Entities {
		importEntity(m.World, se)
	}
	return nil
}

func importEntity(w *ecsworld.World, se SaveEntity) {
	id := w.SpawnAt(se.ID, se.Position)
	w.SetVelocity(id, se.Velocity)
	if len(se.Tags) > 0 {
		w.SetTags(id, ecsworld.NewTags(se.Tags...))
	}
	w.SetAlive(id, ecsworld.Alive{Value: se.Alive})
	if se.Health != nil {
		w.SetHealth(id, *se.Health)
	}
	if se.Script != nil {
		s := *se.Script
		s.State = se.ScriptState
		w.SetScript(id, s)
	}
	if se.AiState != nil {
		if ai, ok := w.AiBehaviorOf(id); ok {
			ai.State = *se.AiState
		}
	}
	if se.Invincibility > 0 {
		w.SetInvincibility(id, ecsworld.Invincibility{FramesRemaining: se.Invincibility})
	}
	if len(se.PathPoints) > 0 {
		w.SetPathFollower(id, ecsworld.PathFollower{Path: se.PathPoints, FramesUntilRecalc: se.PathTimer})
	}
	if se.Inventory != nil {
		w.SetInventory(id, *se.Inventory)
	}
}
