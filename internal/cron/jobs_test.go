package cron

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/parley-bot/parley/internal/dialog"
	"github.com/parley-bot/parley/internal/session"
)

// fakeEngine satisfies sessionHolder.
type fakeEngine struct {
	store *session.Store
}

func (f *fakeEngine) Contexts() *session.Store { return f.store }

// fakeReloader counts ReloadKnowledge calls.
type fakeReloader struct {
	calls int
}

func (f *fakeReloader) ReloadKnowledge(context.Context) error {
	f.calls++
	return nil
}

func lookupFor(services map[string]any) ServiceLookup {
	return func(name string) (any, bool) {
		svc, ok := services[name]
		return svc, ok
	}
}

func TestSessionCleanupJob_PrunesIdleSessions(t *testing.T) {
	t.Parallel()

	store := session.NewStore(nil, slog.Default())
	store.Update("stale", "hi", "hello", dialog.Intent{Primary: dialog.IntentGreeting})

	job := &SessionCleanupJob{
		Lookup:  lookupFor(map[string]any{"engine.chat": &fakeEngine{store: store}}),
		MaxIdle: 0, // everything idle for any duration is stale
		Logger:  slog.Default(),
	}

	// Give lastActive a moment to fall behind the cutoff.
	time.Sleep(10 * time.Millisecond)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("sessions remaining = %d, want 0", store.Len())
	}
}

func TestSessionCleanupJob_SkipsWhenEngineAbsent(t *testing.T) {
	t.Parallel()

	job := &SessionCleanupJob{
		Lookup:  lookupFor(nil),
		MaxIdle: time.Minute,
		Logger:  slog.Default(),
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run should skip quietly, got %v", err)
	}
}

func TestSessionCleanupJob_DefaultSchedule(t *testing.T) {
	t.Parallel()

	job := &SessionCleanupJob{}
	if got := job.Schedule(); got != "*/5 * * * *" {
		t.Errorf("default schedule = %q", got)
	}

	job.ScheduleExpr = "0 3 * * *"
	if got := job.Schedule(); got != "0 3 * * *" {
		t.Errorf("override schedule = %q", got)
	}
}

func TestKnowledgeReloadJob_CallsReloader(t *testing.T) {
	t.Parallel()

	r := &fakeReloader{}
	job := &KnowledgeReloadJob{
		Lookup: lookupFor(map[string]any{"engine.reload": r}),
		Logger: slog.Default(),
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if r.calls != 1 {
		t.Errorf("reload calls = %d, want 1", r.calls)
	}
}

func TestKnowledgeReloadJob_SkipsWhenAbsent(t *testing.T) {
	t.Parallel()

	job := &KnowledgeReloadJob{
		Lookup: lookupFor(nil),
		Logger: slog.Default(),
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run should skip quietly, got %v", err)
	}
}
