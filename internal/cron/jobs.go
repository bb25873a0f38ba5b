package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/parley-bot/parley/internal/session"
)

// ServiceLookup resolves a named service from the application's shared
// registry. Jobs resolve their dependencies per tick rather than at
// registration time: the scheduler module starts before the modules that
// register the services it consumes.
type ServiceLookup func(name string) (any, bool)

// sessionHolder is the subset of the chat engine needed to reach the
// session store. Defined here to avoid a dependency on the engine package.
type sessionHolder interface {
	Contexts() *session.Store
}

// knowledgeReloader is the subset of the engine module needed to rebuild
// the knowledge index.
type knowledgeReloader interface {
	ReloadKnowledge(ctx context.Context) error
}

// SessionCleanupJob removes sessions that have been idle longer than MaxIdle.
type SessionCleanupJob struct {
	Lookup       ServiceLookup
	MaxIdle      time.Duration
	Logger       *slog.Logger
	ScheduleExpr string // empty = default "*/5 * * * *"
}

// Compile-time interface check.
var _ Job = (*SessionCleanupJob)(nil)

// Name implements Job.
func (j *SessionCleanupJob) Name() string { return "session_cleanup" }

// Schedule implements Job.
func (j *SessionCleanupJob) Schedule() string {
	if j.ScheduleExpr != "" {
		return j.ScheduleExpr
	}
	return "*/5 * * * *"
}

// Run prunes sessions idle longer than MaxIdle. Skips the tick quietly if
// the chat engine is not (yet) registered.
func (j *SessionCleanupJob) Run(_ context.Context) error {
	svc, ok := j.Lookup("engine.chat")
	if !ok {
		j.Logger.Debug("cron: engine not available, skipping session cleanup")
		return nil
	}
	holder, ok := svc.(sessionHolder)
	if !ok {
		j.Logger.Debug("cron: engine.chat service has no session store")
		return nil
	}

	if pruned := holder.Contexts().Prune(j.MaxIdle); pruned > 0 {
		j.Logger.Info("cron: pruned idle sessions", "count", pruned)
	}
	return nil
}

// KnowledgeReloadJob periodically rebuilds the knowledge index so external
// edits to the knowledge source are picked up without a restart.
type KnowledgeReloadJob struct {
	Lookup       ServiceLookup
	Logger       *slog.Logger
	ScheduleExpr string // empty = default "0 * * * *"
}

// Compile-time interface check.
var _ Job = (*KnowledgeReloadJob)(nil)

// Name implements Job.
func (j *KnowledgeReloadJob) Name() string { return "knowledge_reload" }

// Schedule implements Job.
func (j *KnowledgeReloadJob) Schedule() string {
	if j.ScheduleExpr != "" {
		return j.ScheduleExpr
	}
	return "0 * * * *"
}

// Run rebuilds the index. Skips the tick quietly if the engine module is
// not (yet) registered.
func (j *KnowledgeReloadJob) Run(ctx context.Context) error {
	svc, ok := j.Lookup("engine.reload")
	if !ok {
		j.Logger.Debug("cron: reload service not available, skipping")
		return nil
	}
	r, ok := svc.(knowledgeReloader)
	if !ok {
		j.Logger.Debug("cron: engine.reload service has unexpected type")
		return nil
	}
	return r.ReloadKnowledge(ctx)
}
