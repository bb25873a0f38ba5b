package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/parley-bot/parley/internal/core"
	"github.com/parley-bot/parley/internal/knowledge"
	"github.com/parley-bot/parley/internal/session"
)

func init() {
	core.RegisterModule(&Module{})
}

// Compile-time interface guards.
var (
	_ core.Configurable = (*Module)(nil)
	_ core.Provisioner  = (*Module)(nil)
	_ core.Validator    = (*Module)(nil)
	_ core.Starter      = (*Module)(nil)
	_ core.Stopper      = (*Module)(nil)
	_ core.Reloader     = (*Module)(nil)
)

// Config is the engine module's YAML configuration.
type Config struct {
	// KnowledgePath points at a YAML knowledge file. When empty, the
	// module resolves the "knowledge.source" service (e.g. the SQLite
	// storage module) instead.
	KnowledgePath string `yaml:"knowledge_path"`

	// Threshold is the minimum similarity for a knowledge match.
	// Defaults to 0.3.
	Threshold float64 `yaml:"threshold"`

	// Watch rebuilds the index when the knowledge file changes.
	// Only effective with KnowledgePath.
	Watch bool `yaml:"watch"`
}

func (c *Config) defaults() {
	if c.Threshold <= 0 {
		c.Threshold = DefaultThreshold
	}
}

// Module wires the engine into the module lifecycle: it owns the knowledge
// source, builds the index at start, and republishes it on reload or file
// change.
type Module struct {
	config  Config
	appCtx  *core.AppContext
	logger  *slog.Logger
	engine  *Engine
	source  knowledge.Source
	watcher *knowledge.Watcher
	cancel  context.CancelFunc
}

// ModuleInfo implements core.Module.
func (m *Module) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "engine.chat",
		New: func() core.Module { return &Module{} },
	}
}

// Configure implements core.Configurable.
func (m *Module) Configure(node *yaml.Node) error {
	if err := node.Decode(&m.config); err != nil {
		return fmt.Errorf("engine: decode config: %w", err)
	}
	m.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (m *Module) Provision(ctx *core.AppContext) error {
	m.config.defaults()
	m.appCtx = ctx
	m.logger = ctx.Logger
	return nil
}

// Validate implements core.Validator.
func (m *Module) Validate() error {
	if m.config.Threshold < 0 || m.config.Threshold > 1 {
		return fmt.Errorf("engine: threshold %v outside [0,1]", m.config.Threshold)
	}
	if m.config.Watch && m.config.KnowledgePath == "" {
		return errors.New("engine: watch requires knowledge_path")
	}
	return nil
}

// Start implements core.Starter. It resolves optional collaborators from
// the service registry (persistence, log sink, knowledge source), builds
// the index, and registers the engine for other modules.
func (m *Module) Start() error {
	var persister session.Persister
	if svc, ok := m.appCtx.Service("session.persister"); ok {
		if p, ok := svc.(session.Persister); ok {
			persister = p
		}
	}
	var recorder Recorder
	if svc, ok := m.appCtx.Service("chat.recorder"); ok {
		if r, ok := svc.(Recorder); ok {
			recorder = r
		}
	}

	eng, err := New(Options{
		Logger:    m.logger,
		Contexts:  session.NewStore(persister, m.logger),
		Recorder:  recorder,
		Threshold: m.config.Threshold,
	})
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	m.engine = eng

	if m.config.KnowledgePath != "" {
		m.source = knowledge.NewFileSource(m.config.KnowledgePath)
	} else if svc, ok := m.appCtx.Service("knowledge.source"); ok {
		if src, ok := svc.(knowledge.Source); ok {
			m.source = src
		}
	}
	if m.source == nil {
		return errors.New("engine: no knowledge source configured (set knowledge_path or enable a storage module)")
	}

	entries, err := m.source.Load(context.Background())
	if err != nil {
		return fmt.Errorf("engine: loading knowledge: %w", err)
	}
	m.engine.Build(entries)

	m.appCtx.RegisterService("engine.chat", m.engine)
	m.appCtx.RegisterService("engine.reload", m)

	if m.config.Watch {
		if err := m.startWatcher(); err != nil {
			return fmt.Errorf("engine: watching %s: %w", m.config.KnowledgePath, err)
		}
	}

	return nil
}

// startWatcher rebuilds the index whenever the knowledge file changes.
func (m *Module) startWatcher() error {
	w, err := knowledge.NewWatcher(m.config.KnowledgePath, m.logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		cancel()
		_ = w.Close()
		return err
	}
	m.watcher = w
	m.cancel = cancel

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.Events():
				if err := m.rebuild(ctx); err != nil {
					m.logger.Error("knowledge rebuild failed", "error", err)
				}
			}
		}
	}()

	return nil
}

// Reload implements core.Reloader: re-read the knowledge source and swap
// in a freshly built index.
func (m *Module) Reload(_ *core.AppContext) error {
	return m.rebuild(context.Background())
}

// ReloadKnowledge rebuilds the index on demand, e.g. from the gateway's
// admin endpoint or a scheduled job.
func (m *Module) ReloadKnowledge(ctx context.Context) error {
	return m.rebuild(ctx)
}

func (m *Module) rebuild(ctx context.Context) error {
	entries, err := m.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("engine: reloading knowledge: %w", err)
	}
	m.engine.Build(entries)
	return nil
}

// Stop implements core.Stopper.
func (m *Module) Stop(_ context.Context) error {
	if m.cancel != nil {
		m.cancel()
	}
	if m.watcher != nil {
		return m.watcher.Close()
	}
	return nil
}
