package search

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/docengine/internal/docs"
	"git.home.luguber.info/inful/docengine/internal/logfields"
	"git.home.luguber.info/inful/docengine/internal/metrics"
)

// ErrNotReady is returned when no snapshot has been indexed yet.
var ErrNotReady = errors.New("search index not ready")

// Service holds the index for the current snapshot. Searches share a read
// lock, so a swap waits for in-flight searches before closing the old index.
type Service struct {
	recorder metrics.Recorder

	mu      sync.RWMutex
	current *Index
}

// NewService returns a Service with no index.
func NewService(recorder metrics.Recorder) *Service {
	return &Service{recorder: metrics.OrNoop(recorder)}
}

// Reindex builds an index for snapshot and swaps it in. It is suitable as a
// content.Cache swap subscriber.
func (s *Service) Reindex(snapshot *docs.Index) error {
	start := time.Now()
	next, err := NewIndex(snapshot)
	if err != nil {
		slog.Error("Search reindex failed", logfields.Error(err))
		return err
	}

	s.mu.Lock()
	old := s.current
	s.current = next
	s.mu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			slog.Warn("Failed to close previous search index", logfields.Error(err))
		}
	}
	slog.Info("Search index rebuilt",
		logfields.SnapshotID(next.SnapshotID()),
		logfields.Count(snapshot.Len()),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return nil
}

// Search queries the current index.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNotReady
	}

	start := time.Now()
	hits, err := s.current.Search(ctx, query, limit)
	s.recorder.ObserveSearchDuration(time.Since(start))
	if err != nil {
		return nil, err
	}
	slog.Debug("Search completed", logfields.Query(query), logfields.Count(len(hits)))
	return hits, nil
}

// SnapshotID reports which snapshot the current index reflects.
func (s *Service) SnapshotID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.SnapshotID()
}

// Close releases the current index.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	err := s.current.Close()
	s.current = nil
	return err
}
