package cron

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/parley-bot/parley/internal/core"
)

func configureCron(t *testing.T, raw string) *Module {
	t.Helper()
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &node); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	m := &Module{}
	if err := m.Configure(node.Content[0]); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	return m
}

func TestModule_ConfigureAppliesMaxIdleDefault(t *testing.T) {
	t.Parallel()

	m := configureCron(t, "session_cleanup:\n  enabled: true")
	if m.config.MaxIdle != defaultMaxIdle {
		t.Errorf("max idle = %v, want %v", m.config.MaxIdle, defaultMaxIdle)
	}

	m2 := configureCron(t, "session_cleanup:\n  enabled: true\nmax_idle: 2h")
	if m2.config.MaxIdle != 2*time.Hour {
		t.Errorf("max idle = %v, want 2h", m2.config.MaxIdle)
	}
}

func TestModule_ValidateRejectsNoJobs(t *testing.T) {
	t.Parallel()

	m := configureCron(t, "max_idle: 1h")
	if err := m.Validate(); err == nil {
		t.Error("expected error when no jobs are enabled")
	}
}

func TestModule_StartAndStop(t *testing.T) {
	t.Parallel()

	m := configureCron(t, `
session_cleanup:
  enabled: true
  schedule: "*/5 * * * *"
knowledge_reload:
  enabled: true
  schedule: "0 * * * *"
`)
	appCtx := core.NewAppContext(slog.Default(), t.TempDir())
	if err := m.Provision(appCtx); err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if err := m.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := m.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestModule_StartRejectsBadSchedule(t *testing.T) {
	t.Parallel()

	m := configureCron(t, "session_cleanup:\n  enabled: true\n  schedule: \"not a schedule\"")
	appCtx := core.NewAppContext(slog.Default(), t.TempDir())
	if err := m.Provision(appCtx); err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if err := m.Start(); err == nil {
		t.Error("expected error for invalid schedule expression")
	}
}
