package search

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docengine/internal/docs"
)

func loadSnapshot(t *testing.T, files map[string]string) *docs.Index {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	idx, err := docs.Load(context.Background(), root, docs.Options{})
	require.NoError(t, err)
	return idx
}

func fixture(t *testing.T) *docs.Index {
	return loadSnapshot(t, map[string]string{
		"README.md":            "---\ntitle: Intro\n---\nWelcome to the handbook.\n",
		"guide/quick-start.md": "---\ntitle: Quick Start\ndescription: Install in minutes\n---\nRun the installer.\n",
		"guide/advanced.md":    "---\ntitle: Advanced\n---\nTuning the garbage collector.\n",
	})
}

func hitSlugs(hits []Hit) []string {
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.Slug)
	}
	return out
}

func TestIndex_SearchFindsByTitleBodyAndDescription(t *testing.T) {
	idx, err := NewIndex(fixture(t))
	require.NoError(t, err)
	defer func() { _ = idx.Close() }()

	count, err := idx.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	hits, err := idx.Search(context.Background(), "garbage", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "guide/advanced", hits[0].Slug)
	assert.Equal(t, "Advanced", hits[0].Title)
	assert.Positive(t, hits[0].Score)

	hits, err = idx.Search(context.Background(), "minutes", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"guide/quick-start"}, hitSlugs(hits))
}

func TestIndex_RootDocumentUsesEmptySlug(t *testing.T) {
	idx, err := NewIndex(fixture(t))
	require.NoError(t, err)
	defer func() { _ = idx.Close() }()

	hits, err := idx.Search(context.Background(), "handbook", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "", hits[0].Slug)
	assert.Equal(t, "Intro", hits[0].Title)
}

func TestIndex_SearchLimits(t *testing.T) {
	files := map[string]string{}
	for _, name := range []string{"a", "b", "c", "d"} {
		files[name+".md"] = "shared keyword\n"
	}
	idx, err := NewIndex(loadSnapshot(t, files))
	require.NoError(t, err)
	defer func() { _ = idx.Close() }()

	hits, err := idx.Search(context.Background(), "keyword", 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	hits, err = idx.Search(context.Background(), "keyword", MaxLimit+100)
	require.NoError(t, err)
	assert.Len(t, hits, 4)

	_, err = idx.Search(context.Background(), "   ", 1)
	assert.ErrorIs(t, err, ErrEmptyQuery)

	hits, err = idx.Search(context.Background(), "absent", 1)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestService_NotReadyUntilIndexed(t *testing.T) {
	s := NewService(nil)
	_, err := s.Search(context.Background(), "anything", 1)
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Empty(t, s.SnapshotID())
	assert.NoError(t, s.Close())
}

func TestService_ReindexSwapsSnapshot(t *testing.T) {
	s := NewService(nil)
	defer func() { _ = s.Close() }()

	first := fixture(t)
	require.NoError(t, s.Reindex(first))
	assert.Equal(t, first.ID(), s.SnapshotID())

	hits, err := s.Search(context.Background(), "installer", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"guide/quick-start"}, hitSlugs(hits))

	second := loadSnapshot(t, map[string]string{"other.md": "# Other\nCompletely different installer text\n"})
	require.NoError(t, s.Reindex(second))
	assert.Equal(t, second.ID(), s.SnapshotID())

	hits, err = s.Search(context.Background(), "installer", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"other"}, hitSlugs(hits))
}

func TestService_ConcurrentSearchAndReindex(t *testing.T) {
	s := NewService(nil)
	defer func() { _ = s.Close() }()
	snapshot := fixture(t)
	require.NoError(t, s.Reindex(snapshot))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				_, err := s.Search(context.Background(), "advanced", 3)
				assert.NoError(t, err)
			}
		}()
	}
	for range 3 {
		require.NoError(t, s.Reindex(snapshot))
	}
	wg.Wait()
}
