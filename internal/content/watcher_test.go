package content

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docengine/internal/docs"
)

type fakeRebuilder struct {
	calls    atomic.Int32
	triggers chan string
}

func newFakeRebuilder() *fakeRebuilder {
	return &fakeRebuilder{triggers: make(chan string, 64)}
}

func (f *fakeRebuilder) Rebuild(_ context.Context, trigger string) (*docs.Index, error) {
	f.calls.Add(1)
	select {
	case f.triggers <- trigger:
	default:
	}
	return nil, nil
}

func startWatcher(t *testing.T, root string, r Rebuilder) *Watcher {
	t.Helper()
	w, err := NewWatcher(root, r, 30*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { _ = w.Stop() })
	return w
}

func TestWatcher_RebuildsOnChange(t *testing.T) {
	root := t.TempDir()
	r := newFakeRebuilder()
	startWatcher(t, root, r)

	writeDoc(t, root, "a.md", "# A\n")

	select {
	case trigger := <-r.triggers:
		assert.Equal(t, TriggerWatch, trigger)
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild after file write")
	}
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	root := t.TempDir()
	r := newFakeRebuilder()
	w, err := NewWatcher(root, r, 300*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { _ = w.Stop() })

	for i := range 5 {
		writeDoc(t, root, "burst.md", string(rune('a'+i)))
	}

	require.Eventually(t, func() bool { return r.calls.Load() >= 1 }, 5*time.Second, 20*time.Millisecond)
	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, int32(1), r.calls.Load())
}

func TestWatcher_FollowsNewDirectories(t *testing.T) {
	root := t.TempDir()
	r := newFakeRebuilder()
	startWatcher(t, root, r)

	require.NoError(t, os.Mkdir(filepath.Join(root, "guide"), 0o750))
	require.Eventually(t, func() bool { return r.calls.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)
	before := r.calls.Load()

	writeDoc(t, root, "guide/new.md", "")
	require.Eventually(t, func() bool { return r.calls.Load() > before }, 5*time.Second, 10*time.Millisecond)
}

func TestWatcher_IgnoresHiddenEntries(t *testing.T) {
	root := t.TempDir()
	r := newFakeRebuilder()
	startWatcher(t, root, r)

	writeDoc(t, root, ".swap.md", "")
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(0), r.calls.Load())
}

func TestWatcher_StartFailsForMissingRoot(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "missing"), newFakeRebuilder(), 0)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	assert.Error(t, w.Start(context.Background()))
	assert.Equal(t, DefaultDebounce, w.debounce)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w := startWatcher(t, t.TempDir(), newFakeRebuilder())
	require.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}

type blockingRebuilder struct {
	entered  chan struct{}
	release  chan struct{}
	finished atomic.Bool
}

func (b *blockingRebuilder) Rebuild(context.Context, string) (*docs.Index, error) {
	select {
	case b.entered <- struct{}{}:
	default:
	}
	<-b.release
	b.finished.Store(true)
	return nil, nil
}

func TestWatcher_StopWaitsForRunningRebuild(t *testing.T) {
	root := t.TempDir()
	r := &blockingRebuilder{entered: make(chan struct{}, 1), release: make(chan struct{})}
	w, err := NewWatcher(root, r, 20*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	writeDoc(t, root, "a.md", "")
	select {
	case <-r.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild after file write")
	}

	stopped := make(chan bool, 1)
	go func() {
		_ = w.Stop()
		stopped <- r.finished.Load()
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a rebuild was running")
	case <-time.After(100 * time.Millisecond):
	}

	close(r.release)
	select {
	case finished := <-stopped:
		assert.True(t, finished)
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return after the rebuild finished")
	}
}
