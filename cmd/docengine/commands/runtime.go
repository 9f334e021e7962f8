package commands

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docengine/internal/config"
	"git.home.luguber.info/inful/docengine/internal/content"
	"git.home.luguber.info/inful/docengine/internal/docs"
	derrors "git.home.luguber.info/inful/docengine/internal/errors"
	"git.home.luguber.info/inful/docengine/internal/logfields"
	"git.home.luguber.info/inful/docengine/internal/metrics"
	"git.home.luguber.info/inful/docengine/internal/search"
)

// engine wires the long-running components shared by serve and mcp: the
// snapshot cache, the search index that follows it, and the optional
// watcher and scheduler that rebuild it.
type engine struct {
	cfg       *config.Config
	registry  *prometheus.Registry
	recorder  metrics.Recorder
	cache     *content.Cache
	search    *search.Service
	watcher   *content.Watcher
	scheduler *content.Scheduler
}

func newEngine(cfg *config.Config, withMetrics bool) *engine {
	e := &engine{cfg: cfg, recorder: metrics.NoopRecorder{}}
	if withMetrics {
		e.registry = prometheus.NewRegistry()
		e.recorder = metrics.NewPrometheusRecorder(e.registry)
	}

	opts := cfg.Content.DocsOptions()
	opts.Recorder = e.recorder
	e.cache = content.NewCache(content.DirLoader(cfg.Content.Root, opts), e.recorder)
	e.search = search.NewService(e.recorder)
	e.cache.OnSwap(func(idx *docs.Index) {
		// Reindex logs its own failures; the previous index keeps serving.
		_ = e.search.Reindex(idx)
	})
	return e
}

// start loads the first snapshot and starts the refresh machinery.
func (e *engine) start(ctx context.Context) error {
	if _, err := e.cache.GetOrLoad(ctx); err != nil {
		return derrors.ContentLoadFailed(e.cfg.Content.Root, err)
	}

	rebuilder := content.WithRetry(e.cache, e.cfg.Content.Retry.Policy())

	if e.cfg.Content.Watch {
		w, err := content.NewWatcher(e.cfg.Content.Root, rebuilder, e.cfg.Content.Debounce.Std())
		if err == nil {
			if err = w.Start(ctx); err != nil {
				_ = w.Stop()
			}
		}
		if err != nil {
			slog.Warn("Content watcher disabled", logfields.Root(e.cfg.Content.Root), logfields.Error(err))
		} else {
			e.watcher = w
		}
	}

	if interval := e.cfg.Content.RebuildInterval.Std(); interval > 0 {
		s, err := content.NewScheduler()
		if err != nil {
			return derrors.InternalError("failed to create scheduler", err)
		}
		if _, err := s.SchedulePeriodicRebuild(ctx, interval, rebuilder); err != nil {
			_ = s.Stop()
			return derrors.ValidationFailed("content.rebuild_interval", err.Error())
		}
		s.Start()
		e.scheduler = s
	}
	return nil
}

func (e *engine) close() {
	if e.watcher != nil {
		if err := e.watcher.Stop(); err != nil {
			slog.Warn("Failed to stop content watcher", logfields.Error(err))
		}
	}
	if e.scheduler != nil {
		if err := e.scheduler.Stop(); err != nil {
			slog.Warn("Failed to stop scheduler", logfields.Error(err))
		}
	}
	if err := e.search.Close(); err != nil {
		slog.Warn("Failed to close search index", logfields.Error(err))
	}
}
