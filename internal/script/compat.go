package script

import "strings"

// flattenNestedAPICalls rewrites the dotted namespace sugar
// (`world.camera.shake(...)`) scripts are allowed to write into the flat
// names the World API registers (`world.camera_shake(...)`). The one
// exception is `world.game.state`: it becomes `world.game_state`, which
// bindWorldAPI does not set, so it reads as nil.
// Ported directly from original_source/src/scripting/lua_compat.rs's
// flatten_nested_api_calls table — the rest of that file's Lua-to-Rhai
// syntax transpiler is moot here since gopher-lua already executes real
// Lua (see DESIGN.md's internal/script/compat.go note on this).
func flattenNestedAPICalls(source string) string {
	replacements := [][2]string{
		{"world.camera.shake(", "world.camera_shake("},
		{"world.camera.zoom(", "world.camera_zoom("},
		{"world.camera.look_at(", "world.camera_look_at("},
		{"world.ui.show_screen(", "world.show_screen("},
		{"world.ui.hide_screen(", "world.hide_screen("},
		{"world.ui.set_text(", "world.set_text("},
		{"world.ui.set_progress(", "world.set_progress("},
		{"world.dialogue.start(", "world.start("},
		{"world.dialogue.choose(", "world.choose("},
		{"world.input.pressed(", "world.pressed("},
		{"world.input.just_pressed(", "world.just_pressed("},
		{"world.game.transition(", "world.transition("},
		{"world.game.pause(", "world.pause("},
		{"world.game.resume(", "world.resume("},
		{"world.game.state", "world.game_state"},
	}
	out := source
	for _, r := range replacements {
		out = strings.ReplaceAll(out, r[0], r[1])
	}
	return out
}
