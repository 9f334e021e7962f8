// Package content keeps the current document snapshot and replaces it
// when the content tree changes.
package content

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"git.home.luguber.info/inful/docengine/internal/docs"
	derrors "git.home.luguber.info/inful/docengine/internal/errors"
	"git.home.luguber.info/inful/docengine/internal/logfields"
	"git.home.luguber.info/inful/docengine/internal/metrics"
)

// Rebuild triggers, used as the "trigger" metric label.
const (
	TriggerStartup  = "startup"
	TriggerAPI      = "api"
	TriggerWatch    = "watch"
	TriggerSchedule = "schedule"
)

// Loader produces a fresh snapshot.
type Loader func(ctx context.Context) (*docs.Index, error)

// DirLoader returns a Loader that indexes root with opts.
func DirLoader(root string, opts docs.Options) Loader {
	return func(ctx context.Context) (*docs.Index, error) {
		return docs.Load(ctx, root, opts)
	}
}

// Rebuilder replaces the current snapshot.
type Rebuilder interface {
	Rebuild(ctx context.Context, trigger string) (*docs.Index, error)
}

// Cache holds the current snapshot. Readers never block on each other;
// writers replace the whole snapshot atomically.
//
// Every load takes a sequence number before it reads the tree. A result is
// only installed when no load that started later has been installed first,
// so a slow load can never replace a newer snapshot.
type Cache struct {
	load     Loader
	recorder metrics.Recorder
	current  atomic.Pointer[snapshot]
	seq      atomic.Uint64
	group    singleflight.Group

	installMu sync.Mutex

	mu          sync.Mutex
	subscribers []func(*docs.Index)
}

type snapshot struct {
	idx *docs.Index
	seq uint64
}

// NewCache creates an empty cache backed by load.
func NewCache(load Loader, recorder metrics.Recorder) *Cache {
	return &Cache{load: load, recorder: metrics.OrNoop(recorder)}
}

// Current returns the loaded snapshot, or nil before the first load or
// after Invalidate.
func (c *Cache) Current() *docs.Index {
	if s := c.current.Load(); s != nil {
		return s.idx
	}
	return nil
}

// GetOrLoad returns the current snapshot, loading it on first use.
// Concurrent callers share a single in-flight load.
func (c *Cache) GetOrLoad(ctx context.Context) (*docs.Index, error) {
	if idx := c.Current(); idx != nil {
		return idx, nil
	}
	v, err, _ := c.group.Do("load", func() (any, error) {
		if idx := c.Current(); idx != nil {
			return idx, nil
		}
		return c.loadAndInstall(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	return v.(*docs.Index), nil
}

// Invalidate drops the current snapshot; the next GetOrLoad reloads.
func (c *Cache) Invalidate() {
	c.installMu.Lock()
	var seq uint64
	if s := c.current.Load(); s != nil {
		seq = s.seq
	}
	c.current.Store(&snapshot{seq: seq})
	c.installMu.Unlock()
	slog.Info("Content cache invalidated")
}

// Rebuild loads a fresh snapshot and swaps it in. Every call reads the
// tree itself with its own ctx, so a change made while another rebuild is
// running is never lost. On failure the previous snapshot stays in place
// and a retryable error is returned.
func (c *Cache) Rebuild(ctx context.Context, trigger string) (*docs.Index, error) {
	start := time.Now()
	idx, err := c.loadAndInstall(ctx)
	if err != nil {
		c.recorder.IncRebuild(trigger, metrics.ResultFailed)
		slog.Error("Content rebuild failed", logfields.Trigger(trigger), logfields.Error(err))
		return nil, derrors.RebuildFailed(trigger, err)
	}

	c.recorder.IncRebuild(trigger, metrics.ResultSuccess)
	slog.Info("Content rebuilt",
		logfields.Trigger(trigger),
		logfields.SnapshotID(idx.ID()),
		logfields.Count(idx.Len()),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return idx, nil
}

// OnSwap registers fn to receive every snapshot swapped in after the call.
// Subscribers see snapshots in install order.
func (c *Cache) OnSwap(fn func(*docs.Index)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

func (c *Cache) loadAndInstall(ctx context.Context) (*docs.Index, error) {
	seq := c.seq.Add(1)
	idx, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	return c.install(idx, seq), nil
}

// install swaps idx in unless a later load already won, in which case the
// newer snapshot is returned. A stale result with nothing installed is
// handed back to the caller without being kept.
func (c *Cache) install(idx *docs.Index, seq uint64) *docs.Index {
	c.installMu.Lock()
	defer c.installMu.Unlock()

	if cur := c.current.Load(); cur != nil && cur.seq > seq {
		slog.Debug("Discarding stale snapshot", logfields.SnapshotID(idx.ID()))
		if cur.idx != nil {
			return cur.idx
		}
		return idx
	}
	c.current.Store(&snapshot{idx: idx, seq: seq})

	c.mu.Lock()
	subscribers := slices.Clone(c.subscribers)
	c.mu.Unlock()
	for _, fn := range subscribers {
		fn(idx)
	}
	return idx
}
