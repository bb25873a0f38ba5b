package engine

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/parley-bot/parley/internal/core"
)

func configureModule(t *testing.T, raw string) *Module {
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

func TestModule_ConfigureDefaults(t *testing.T) {
	t.Parallel()

	m := configureModule(t, "knowledge_path: kb.yaml")
	if m.config.Threshold != DefaultThreshold {
		t.Errorf("threshold = %v, want default", m.config.Threshold)
	}
}

func TestModule_ValidateRejectsBadThreshold(t *testing.T) {
	t.Parallel()

	m := configureModule(t, "threshold: 1.5")
	if err := m.Validate(); err == nil {
		t.Error("threshold above 1 should fail validation")
	}
}

func TestModule_ValidateWatchRequiresPath(t *testing.T) {
	t.Parallel()

	m := configureModule(t, "watch: true")
	if err := m.Validate(); err == nil {
		t.Error("watch without knowledge_path should fail validation")
	}
}

func TestModule_StartRegistersServices(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "kb.yaml")
	kb := `
- question: "How do I reset my password?"
  answer: "Use the forgot-password link."
  keywords: "password, reset"
`
	if err := os.WriteFile(path, []byte(kb), 0o644); err != nil {
		t.Fatal(err)
	}

	m := configureModule(t, "knowledge_path: "+path)
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
	defer m.Stop(context.Background())

	svc, ok := appCtx.Service("engine.chat")
	if !ok {
		t.Fatal("engine.chat service not registered")
	}
	eng, ok := svc.(*Engine)
	if !ok {
		t.Fatalf("engine.chat service has type %T", svc)
	}
	if eng.IndexSize() != 1 {
		t.Errorf("index size = %d, want 1", eng.IndexSize())
	}

	if _, ok := appCtx.Service("engine.reload"); !ok {
		t.Error("engine.reload service not registered")
	}
}

func TestModule_StartFailsWithoutSource(t *testing.T) {
	t.Parallel()

	m := configureModule(t, "threshold: 0.3")
	appCtx := core.NewAppContext(slog.Default(), t.TempDir())
	if err := m.Provision(appCtx); err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if err := m.Start(); err == nil {
		t.Error("start without any knowledge source should fail")
	}
}

func TestModule_ReloadRebuildsIndex(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "kb.yaml")
	if err := os.WriteFile(path, []byte("- question: q one\n  answer: a one\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := configureModule(t, "knowledge_path: "+path)
	appCtx := core.NewAppContext(slog.Default(), t.TempDir())
	if err := m.Provision(appCtx); err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if err := m.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer m.Stop(context.Background())

	grown := "- question: q one\n  answer: a one\n- question: q two\n  answer: a two\n"
	if err := os.WriteFile(path, []byte(grown), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := m.ReloadKnowledge(context.Background()); err != nil {
		t.Fatalf("ReloadKnowledge: %v", err)
	}
	if m.engine.IndexSize() != 2 {
		t.Errorf("index size after reload = %d, want 2", m.engine.IndexSize())
	}
}
