package content

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docengine/internal/docs"
	"git.home.luguber.info/inful/docengine/internal/metrics"
)

func writeDoc(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

type rebuildRecorder struct {
	metrics.NoopRecorder
	mu  sync.Mutex
	got []string
}

func (r *rebuildRecorder) IncRebuild(trigger string, result metrics.ResultLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, trigger+"/"+string(result))
}

func (r *rebuildRecorder) events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.got...)
}

func gatheredNames(t *testing.T, reg *prometheus.Registry) []string {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	return names
}

func countingLoader(root string, calls *atomic.Int32) Loader {
	inner := DirLoader(root, docs.Options{})
	return func(ctx context.Context) (*docs.Index, error) {
		calls.Add(1)
		return inner(ctx)
	}
}

func TestCache_GetOrLoadCachesSnapshot(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "README.md", "# Home\n")

	var calls atomic.Int32
	c := NewCache(countingLoader(root, &calls), nil)
	assert.Nil(t, c.Current())

	first, err := c.GetOrLoad(context.Background())
	require.NoError(t, err)
	second, err := c.GetOrLoad(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Same(t, first, c.Current())
	assert.Equal(t, int32(1), calls.Load())
}

func TestCache_ConcurrentFirstLoadsShareOneCall(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	c := NewCache(func(ctx context.Context) (*docs.Index, error) {
		calls.Add(1)
		<-release
		return docs.Load(ctx, t.TempDir(), docs.Options{})
	}, nil)

	const readers = 16
	results := make([]*docs.Index, readers)
	var wg sync.WaitGroup
	for i := range readers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			idx, err := c.GetOrLoad(context.Background())
			assert.NoError(t, err)
			results[i] = idx
		}()
	}
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, idx := range results {
		assert.Same(t, results[0], idx)
	}
}

func TestCache_InvalidateForcesReload(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "a.md", "")

	var calls atomic.Int32
	c := NewCache(countingLoader(root, &calls), nil)
	first, err := c.GetOrLoad(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Len())

	writeDoc(t, root, "b.md", "")
	stale, err := c.GetOrLoad(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stale.Len())

	c.Invalidate()
	assert.Nil(t, c.Current())

	fresh, err := c.GetOrLoad(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.Len())
	assert.NotEqual(t, first.ID(), fresh.ID())
	assert.Equal(t, int32(2), calls.Load())
}

func TestCache_RebuildSwapsAndNotifies(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "a.md", "")

	reg := prometheus.NewRegistry()
	c := NewCache(DirLoader(root, docs.Options{}), metrics.NewPrometheusRecorder(reg))

	var seen []string
	c.OnSwap(func(idx *docs.Index) { seen = append(seen, idx.ID()) })

	first, err := c.GetOrLoad(context.Background())
	require.NoError(t, err)

	writeDoc(t, root, "b.md", "")
	rebuilt, err := c.Rebuild(context.Background(), TriggerAPI)
	require.NoError(t, err)

	assert.Equal(t, 2, rebuilt.Len())
	assert.Same(t, rebuilt, c.Current())
	assert.Equal(t, []string{first.ID(), rebuilt.ID()}, seen)

	assert.Contains(t, gatheredNames(t, reg), "docengine_rebuilds_total")
}

func TestCache_RebuildFailureKeepsPreviousSnapshot(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "a.md", "")

	fail := errors.New("disk on fire")
	var broken atomic.Bool
	load := DirLoader(root, docs.Options{})

	rec := &rebuildRecorder{}
	c := NewCache(func(ctx context.Context) (*docs.Index, error) {
		if broken.Load() {
			return nil, fail
		}
		return load(ctx)
	}, rec)

	before, err := c.GetOrLoad(context.Background())
	require.NoError(t, err)

	var notified atomic.Int32
	c.OnSwap(func(*docs.Index) { notified.Add(1) })

	broken.Store(true)
	idx, err := c.Rebuild(context.Background(), TriggerWatch)
	require.ErrorIs(t, err, fail)
	assert.Nil(t, idx)
	assert.Same(t, before, c.Current())
	assert.Equal(t, int32(0), notified.Load())
	assert.Equal(t, []string{"watch/failed"}, rec.events())
}

func TestCache_GetOrLoadPropagatesLoaderError(t *testing.T) {
	fail := errors.New("nope")
	c := NewCache(func(context.Context) (*docs.Index, error) { return nil, fail }, nil)

	idx, err := c.GetOrLoad(context.Background())
	require.ErrorIs(t, err, fail)
	assert.Nil(t, idx)
	assert.Nil(t, c.Current())
}

// gatedLoader indexes root and then, on its first call only, waits for
// release before returning the already read snapshot.
func gatedLoader(root string, read chan<- struct{}, release <-chan struct{}) Loader {
	inner := DirLoader(root, docs.Options{})
	var first atomic.Bool
	return func(ctx context.Context) (*docs.Index, error) {
		idx, err := inner(ctx)
		if first.CompareAndSwap(false, true) {
			close(read)
			<-release
		}
		return idx, err
	}
}

func TestCache_RebuildDuringRebuildSeesLaterChanges(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "a.md", "")

	read := make(chan struct{})
	release := make(chan struct{})
	c := NewCache(gatedLoader(root, read, release), nil)

	firstDone := make(chan *docs.Index, 1)
	go func() {
		idx, err := c.Rebuild(context.Background(), TriggerWatch)
		assert.NoError(t, err)
		firstDone <- idx
	}()
	<-read

	writeDoc(t, root, "b.md", "")
	second, err := c.Rebuild(context.Background(), TriggerAPI)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Len())
	assert.Same(t, second, c.Current())

	close(release)
	first := <-firstDone
	assert.Same(t, second, first)
	assert.Same(t, second, c.Current())
}

func TestCache_SlowLoadNeverReplacesNewerSnapshot(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "a.md", "")

	read := make(chan struct{})
	release := make(chan struct{})
	c := NewCache(gatedLoader(root, read, release), nil)

	var seen []int
	c.OnSwap(func(idx *docs.Index) { seen = append(seen, idx.Len()) })

	loaded := make(chan *docs.Index, 1)
	go func() {
		idx, err := c.GetOrLoad(context.Background())
		assert.NoError(t, err)
		loaded <- idx
	}()
	<-read

	writeDoc(t, root, "b.md", "")
	rebuilt, err := c.Rebuild(context.Background(), TriggerWatch)
	require.NoError(t, err)

	close(release)
	got := <-loaded
	assert.Same(t, rebuilt, got)
	assert.Same(t, rebuilt, c.Current())
	assert.Equal(t, 2, c.Current().Len())
	assert.Equal(t, []int{2}, seen)
}

func TestCache_RebuildUsesCallerContext(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "a.md", "")
	c := NewCache(DirLoader(root, docs.Options{}), nil)

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Rebuild(canceled, TriggerAPI)
	require.Error(t, err)

	idx, err := c.Rebuild(context.Background(), TriggerWatch)
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Len())
}
