package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, v, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %q", cfg.Server.Addr)
	}
	if cfg.Script.EntityBudgetMs != 8 {
		t.Errorf("expected default entity budget 8ms, got %d", cfg.Script.EntityBudgetMs)
	}
	if cfg.Solver.MaxEvaluations != 512 {
		t.Errorf("expected default solver max evaluations 512, got %d", cfg.Solver.MaxEvaluations)
	}
	if v == nil {
		t.Fatal("Load returned a nil viper instance")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("AXIOM_ADDR", ":9090")
	t.Setenv("AXIOM_SCRIPT_ENTITY_BUDGET_MS", "12")

	cfg, _, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("expected env-overridden addr :9090, got %q", cfg.Server.Addr)
	}
	if cfg.Script.EntityBudgetMs != 12 {
		t.Errorf("expected env-overridden entity budget 12ms, got %d", cfg.Script.EntityBudgetMs)
	}
}

func TestScriptConfigToBudgets(t *testing.T) {
	sc := ScriptConfig{
		EntityBudgetMs:          8,
		GlobalBudgetMs:          20,
		HookInstructionInterval: 10_000,
		MaxOperations:           500_000,
		MaxCallLevels:           64,
	}
	b := sc.ToBudgets()
	if b.EntityDeadline.Milliseconds() != 8 {
		t.Errorf("expected 8ms entity deadline, got %v", b.EntityDeadline)
	}
	if b.GlobalDeadline.Milliseconds() != 20 {
		t.Errorf("expected 20ms global deadline, got %v", b.GlobalDeadline)
	}
	if b.MaxOperations != 500_000 || b.HookInterval != 10_000 || b.MaxCallLevels != 64 {
		t.Errorf("unexpected budget conversion: %+v", b)
	}
}

func TestLoadMissingConfigFileIsNotFatal(t *testing.T) {
	_, _, err := Load(os.TempDir() + "/axiom-config-does-not-exist.yaml")
	if err != nil {
		t.Fatalf("a missing config file should not be a fatal error: %v", err)
	}
}
