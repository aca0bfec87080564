// Package command implements the typed command queue: the
// only channel external callers (internal/api) use to mutate or query the
// simulation. internal/api never touches internal/ecsworld directly.
//
// Grounded on the callback-channel pattern of
// _examples/iamvalenciia-kick-game-stream/fight-club-go/internal/game/combat.go's
// onDamage/OnKill callbacks, generalized from fire-and-forget callbacks to
// reply-once result channels, since the control plane needs a response.
package command

// Kind enumerates every command name. Declaring the full
// enum even for handlers that resolve to an opaque config-blob fallback
// keeps the wire vocabulary stable for internal/api's routing table.
type Kind string

const (
	// World queries
	KindGetState        Kind = "get_state"
	KindGetPlayer       Kind = "get_player"
	KindListEntities    Kind = "list_entities"
	KindGetEntity       Kind = "get_entity"
	KindRaycastEntities Kind = "raycast_entities"
	KindQueryTilemap    Kind = "query_tilemap"

	// World mutation
	KindSetLevel              Kind = "set_level"
	KindTeleportPlayer        Kind = "teleport_player"
	KindSpawnEntity           Kind = "spawn_entity"
	KindSpawnPreset           Kind = "spawn_preset"
	KindDeleteEntity          Kind = "delete_entity"
	KindSetEntityPosition     Kind = "set_entity_position"
	KindSetEntityVelocity     Kind = "set_entity_velocity"
	KindSetEntityHealth       Kind = "set_entity_health"
	KindSetEntityContactDamage Kind = "set_entity_contact_damage"
	KindSetEntityHitbox       Kind = "set_entity_hitbox"
	KindSetEntityAnimation    Kind = "set_entity_animation"
	KindSetEntityParticles    Kind = "set_entity_particles"
	KindSetEntityTint         Kind = "set_entity_tint"
	KindSetEntityTrail        Kind = "set_entity_trail"
	KindModifyEntityTags      Kind = "modify_entity_tags"
	KindBulkEntityMutate      Kind = "bulk_entity_mutate"
	KindDamageEntity          Kind = "damage_entity"
	KindResetNonPlayerEntities Kind = "reset_non_player_entities"

	// Config (presentation-adjacent; stored opaque, never interpreted here)
	KindGetConfig        Kind = "get_config"
	KindSetConfig        Kind = "set_config"
	KindGetSprites       Kind = "get_sprites"
	KindSetSprites       Kind = "set_sprites"
	KindUpsertSpriteSheet Kind = "upsert_sprite_sheet"
	KindGetAudio         Kind = "get_audio"
	KindSetAudio         Kind = "set_audio"
	KindSetParticlePresets Kind = "set_particle_presets"
	KindSetCameraConfig  Kind = "set_camera_config"
	KindCameraShake      Kind = "camera_shake"
	KindCameraLookAt     Kind = "camera_look_at"
	KindSetAutoTile      Kind = "set_auto_tile"
	KindSetTileLayer     Kind = "set_tile_layer"
	KindGetTileLayers    Kind = "get_tile_layers"
	KindDeleteTileLayer  Kind = "delete_tile_layer"
	KindSetLightingConfig Kind = "set_lighting_config"
	KindSetDayNight      Kind = "set_day_night"
	KindSetParallax      Kind = "set_parallax"
	KindSetWeather       Kind = "set_weather"
	KindClearWeather     Kind = "clear_weather"
	KindSetWindowConfig  Kind = "set_window_config"

	// Scripts
	KindLoadScript      Kind = "load_script"
	KindListScripts     Kind = "list_scripts"
	KindGetScript       Kind = "get_script"
	KindDeleteScript    Kind = "delete_script"
	KindTestScript      Kind = "test_script"
	KindGetScriptErrors Kind = "get_script_errors"
	KindGetScriptVars   Kind = "get_script_vars"
	KindSetScriptVars   Kind = "set_script_vars"
	KindGetScriptEvents Kind = "get_script_events"
	KindGetScriptStats  Kind = "get_script_stats"
	KindGetScriptLogs   Kind = "get_script_logs"

	// UI/dialogue
	KindSetUiScreen             Kind = "set_ui_screen"
	KindShowUiScreen            Kind = "show_ui_screen"
	KindHideUiScreen            Kind = "hide_ui_screen"
	KindUpdateUiNode            Kind = "update_ui_node"
	KindSetDialogueConversation Kind = "set_dialogue_conversation"
	KindStartDialogue           Kind = "start_dialogue"
	KindChooseDialogue          Kind = "choose_dialogue"

	// Flow
	KindSetRuntimeState Kind = "set_runtime_state"
	KindDefineCutscene  Kind = "define_cutscene"
	KindPlayCutscene    Kind = "play_cutscene"
	KindStopCutscene    Kind = "stop_cutscene"

	// Save/load
	KindGetSaveData  Kind = "get_save_data"
	KindLoadSaveData Kind = "load_save_data"

	// Headless sim
	KindSimulateWorld Kind = "simulate_world"
	KindRunScenario   Kind = "run_scenario"
	KindRunPlaytest   Kind = "run_playtest"

	// Bulk
	KindAtomicBuild Kind = "atomic_build"

	// Pool
	KindInitPool          Kind = "init_pool"
	KindAcquireFromPool   Kind = "acquire_from_pool"
	KindReleaseToPool     Kind = "release_to_pool"
	KindGetPoolStatus     Kind = "get_pool_status"

	// Meta
	KindGetPerf        Kind = "get_perf"
	KindGetPerfHistory Kind = "get_perf_history"
	KindGetEvents      Kind = "get_events"
	KindGetTelemetry   Kind = "get_telemetry"
	KindHealthCheck    Kind = "health_check"
	KindEvaluateGame   Kind = "evaluate_game"
)

// Result is what a Command's Reply channel carries back.
type Result struct {
	Value any
	Err   error
}

// Command is one posted unit of work. Args carries kind-specific payload as
// a plain map, decoded by the HTTP layer from the request JSON body — this
// keeps internal/command free of a dependency on every handler's request
// struct. Reply is nil for fire-and-forget callers (none currently; kept
// for forward compatibility with a future streaming-only submitter).
type Command struct {
	Kind  Kind
	Args  map[string]any
	Reply chan Result
}

// reply sends a Result on c.Reply if the caller registered one, and is
// always safe to call even when Reply is nil.
func (c Command) reply(r Result) {
	if c.Reply != nil {
		c.Reply <- r
	}
}
