package workers

import (
	"context"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
	"github.com/comitanigiacomo/kanso-dashboard/pkg/logger"
)

type RefreshJob struct {
	Reason string
	// Force reloads even when the source version is unchanged.
	Force bool
}

// Invalidator is implemented by caching repositories. Forced jobs invalidate before
// loading so that the source is read again.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// RefreshWorker keeps the table cache warm: it polls the source version and loads the
// table whenever it changes, so requests rarely pay for a parse.
type RefreshWorker struct {
	repo     domain.TableRepository
	log      *logger.Logger
	interval time.Duration
	jobs     chan RefreshJob

	mu          sync.RWMutex
	lastVersion string
}

// NewRefreshWorker polls every interval. A zero interval disables polling; jobs can
// still be enqueued.
func NewRefreshWorker(repo domain.TableRepository, interval time.Duration, log *logger.Logger) *RefreshWorker {
	return &RefreshWorker{
		repo:     repo,
		log:      log,
		interval: interval,
		jobs:     make(chan RefreshJob, 16),
	}
}

// Run blocks until ctx is done.
func (w *RefreshWorker) Run(ctx context.Context) {
	w.log.Info("refresh worker started", "interval", w.interval.String())

	var tick <-chan time.Time
	if w.interval > 0 {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	w.processJob(ctx, RefreshJob{Reason: "startup"})

	for {
		select {
		case job := <-w.jobs:
			w.processJob(ctx, job)
		case <-tick:
			w.processJob(ctx, RefreshJob{Reason: "tick"})
		case <-ctx.Done():
			w.log.Info("refresh worker shutting down")
			return
		}
	}
}

// Enqueue reports false when the queue is full and the job was dropped.
func (w *RefreshWorker) Enqueue(job RefreshJob) bool {
	select {
	case w.jobs <- job:
		return true
	default:
		w.log.Warn("refresh worker queue full, dropping job", "reason", job.Reason)
		return false
	}
}

// LastVersion is the source version of the last successful load.
func (w *RefreshWorker) LastVersion() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastVersion
}

func (w *RefreshWorker) processJob(ctx context.Context, job RefreshJob) {
	version, err := w.repo.Version(ctx)
	if err != nil {
		w.log.Error("refresh worker cannot read source version", "reason", job.Reason, "error", err)
		return
	}

	previous := w.LastVersion()
	if version == previous && !job.Force {
		return
	}

	if job.Force {
		if inv, ok := w.repo.(Invalidator); ok {
			inv.Invalidate(ctx)
		}
	}

	table, err := w.repo.Load(ctx)
	if err != nil {
		w.log.Error("refresh worker failed to load table", "reason", job.Reason, "version", version, "error", err)
		return
	}

	w.mu.Lock()
	w.lastVersion = version
	w.mu.Unlock()

	w.log.Info("habit table refreshed",
		"reason", job.Reason,
		"version", version,
		"previous", previous,
		"records", len(table.Records),
		"habits", len(table.Habits),
	)
}
