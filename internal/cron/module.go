package cron

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/parley-bot/parley/internal/core"
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
)

const defaultMaxIdle = 30 * time.Minute

// JobConfig controls one scheduled job.
type JobConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"`
}

// Config is the scheduler module configuration.
type Config struct {
	SessionCleanup  JobConfig     `yaml:"session_cleanup"`
	KnowledgeReload JobConfig     `yaml:"knowledge_reload"`
	MaxIdle         time.Duration `yaml:"max_idle"`
}

// Module wires the scheduler into the application lifecycle.
type Module struct {
	config    Config
	logger    *slog.Logger
	scheduler *Scheduler
}

// ModuleInfo implements core.Module.
func (m *Module) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "cron.scheduler",
		New: func() core.Module { return &Module{} },
	}
}

// Configure implements core.Configurable.
func (m *Module) Configure(node *yaml.Node) error {
	if err := node.Decode(&m.config); err != nil {
		return err
	}
	if m.config.MaxIdle <= 0 {
		m.config.MaxIdle = defaultMaxIdle
	}
	return nil
}

// Provision implements core.Provisioner. Jobs hold a lookup into the
// service registry instead of resolved services: this module starts before
// the engine registers anything.
func (m *Module) Provision(ctx *core.AppContext) error {
	m.logger = ctx.Logger
	m.scheduler = NewScheduler(ctx.Logger)

	if m.config.SessionCleanup.Enabled {
		err := m.scheduler.RegisterJob(&SessionCleanupJob{
			Lookup:       ctx.Service,
			MaxIdle:      m.config.MaxIdle,
			Logger:       ctx.Logger,
			ScheduleExpr: m.config.SessionCleanup.Schedule,
		})
		if err != nil {
			return err
		}
	}
	if m.config.KnowledgeReload.Enabled {
		err := m.scheduler.RegisterJob(&KnowledgeReloadJob{
			Lookup:       ctx.Service,
			Logger:       ctx.Logger,
			ScheduleExpr: m.config.KnowledgeReload.Schedule,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Validate implements core.Validator.
func (m *Module) Validate() error {
	if !m.config.SessionCleanup.Enabled && !m.config.KnowledgeReload.Enabled {
		return errors.New("cron: no jobs enabled, remove the module or enable a job")
	}
	return nil
}

// Start implements core.Starter.
func (m *Module) Start() error {
	return m.scheduler.Run()
}

// Stop implements core.Stopper.
func (m *Module) Stop(ctx context.Context) error {
	return m.scheduler.Shutdown(ctx)
}
