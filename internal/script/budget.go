package script

import (
	"os"
	"strconv"
	"time"
)

// Budgets bounds a single script invocation. Each field is overridable by
// environment variable, the same way the solver's max_evaluations is
// overridable via AXIOM_SOLVER_MAX_EVALUATIONS.
type Budgets struct {
	EntityDeadline time.Duration
	GlobalDeadline time.Duration
	MaxOperations  int
	HookInterval   int
	MaxCallLevels  int
}

// DefaultBudgets returns the package's default budgets, each overridable by
// its env var. The env var names carry "RHAI" naming even though AXIOM runs
// gopher-lua, not Rhai — kept verbatim since it's the documented wire
// contract every AXIOM_* binding relies on.
func DefaultBudgets() Budgets {
	return Budgets{
		EntityDeadline: envMillis("AXIOM_SCRIPT_ENTITY_BUDGET_MS", 8),
		GlobalDeadline: envMillis("AXIOM_SCRIPT_GLOBAL_BUDGET_MS", 20),
		MaxOperations:  envInt("AXIOM_RHAI_MAX_OPERATIONS", 500_000),
		HookInterval:   envInt("AXIOM_SCRIPT_HOOK_INSTRUCTION_INTERVAL", 10_000),
		MaxCallLevels:  envInt("AXIOM_RHAI_MAX_CALL_LEVELS", 64),
	}
}

func envMillis(key string, def int) time.Duration {
	return time.Duration(envInt(key, def)) * time.Millisecond
}

func envInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}
