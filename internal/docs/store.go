package docs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	derrors "git.home.luguber.info/inful/docengine/internal/docs/errors"
	"git.home.luguber.info/inful/docengine/internal/frontmatter"
	"git.home.luguber.info/inful/docengine/internal/logfields"
	"git.home.luguber.info/inful/docengine/internal/markdown"
	"git.home.luguber.info/inful/docengine/internal/metrics"
)

// DefaultExtensions lists the recognized documentation file extensions.
var DefaultExtensions = []string{".md", ".markdown", ".mdx"}

// Skip reasons recorded in SkippedFile.Reason and the skipped-files metric.
const (
	ReasonDirReadFailed  = "dir_read_failed"
	ReasonFileReadFailed = "read_failed"
	ReasonSlugCollision  = "slug_collision"
)

// Options controls how a content tree is loaded.
type Options struct {
	// Extensions recognized as documents (case-insensitive, with leading dot).
	Extensions []string
	// IndexNames are base names that map to their directory's slug.
	IndexNames []string
	// KeepIndexSlugs disables collapsing index files into their directory slug.
	KeepIndexSlugs bool
	Recorder       metrics.Recorder
}

func (o Options) withDefaults() Options {
	if len(o.Extensions) == 0 {
		o.Extensions = DefaultExtensions
	}
	if len(o.IndexNames) == 0 {
		o.IndexNames = DefaultIndexNames
	}
	o.Recorder = metrics.OrNoop(o.Recorder)
	return o
}

func (o Options) recognized(name string) bool {
	ext := filepath.Ext(name)
	for _, e := range o.Extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// SkippedFile records a path that was excluded from the index.
type SkippedFile struct {
	Path   string
	Reason string
	Err    error
}

// Index is an immutable snapshot of a content tree keyed by slug.
type Index struct {
	id       string
	root     string
	loadedAt time.Time
	docs     map[string]*Document
	order    []string
	skipped  []SkippedFile

	hashOnce sync.Once
	hash     string
}

func newIndex(root string) *Index {
	return &Index{
		id:       uuid.NewString(),
		root:     root,
		loadedAt: time.Now(),
		docs:     make(map[string]*Document),
	}
}

// ID uniquely identifies this snapshot.
func (idx *Index) ID() string { return idx.id }

// Root returns the content root the snapshot was loaded from.
func (idx *Index) Root() string { return idx.root }

// LoadedAt returns when the snapshot was built.
func (idx *Index) LoadedAt() time.Time { return idx.loadedAt }

// Len returns the number of indexed documents.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.order)
}

// Get performs an exact, case-sensitive slug lookup.
func (idx *Index) Get(slug string) (*Document, bool) {
	if idx == nil {
		return nil, false
	}
	d, ok := idx.docs[slug]
	return d, ok
}

// Slugs returns every slug in traversal order.
func (idx *Index) Slugs() []string {
	if idx == nil {
		return nil
	}
	return append([]string(nil), idx.order...)
}

// Documents returns every document in traversal order. Documents are shared
// with the snapshot and must not be modified.
func (idx *Index) Documents() []*Document {
	if idx == nil {
		return nil
	}
	out := make([]*Document, 0, len(idx.order))
	for _, slug := range idx.order {
		out = append(out, idx.docs[slug])
	}
	return out
}

// Skipped returns the files excluded during load.
func (idx *Index) Skipped() []SkippedFile {
	if idx == nil {
		return nil
	}
	return append([]SkippedFile(nil), idx.skipped...)
}

func (idx *Index) skip(path, reason string, err error, rec metrics.Recorder) {
	idx.skipped = append(idx.skipped, SkippedFile{Path: path, Reason: reason, Err: err})
	rec.IncSkippedFiles(reason)
	slog.Warn("Skipping content file", logfields.Path(path), logfields.Reason(reason), logfields.Error(err))
}

// Load walks root and indexes every recognized document.
//
// Load degrades instead of failing: a missing or non-directory root yields an
// empty index, and unreadable or colliding files are skipped with a warning.
// The only error returned is the context's, when it is cancelled mid-walk.
func Load(ctx context.Context, root string, opts Options) (*Index, error) {
	start := time.Now()
	opts = opts.withDefaults()
	idx := newIndex(root)

	info, err := os.Stat(root)
	switch {
	case err != nil:
		slog.Warn("Content root unavailable, using empty index", logfields.Root(root), logfields.Error(err))
		return idx, nil
	case !info.IsDir():
		slog.Warn("Content root unavailable, using empty index", logfields.Root(root), logfields.Error(derrors.ErrContentRootNotDir))
		return idx, nil
	}

	files, skipped, err := ListFiles(ctx, root, opts)
	if err != nil {
		return nil, err
	}
	for _, s := range skipped {
		idx.skip(s.Path, s.Reason, s.Err, opts.Recorder)
	}

	slugs := newSlugger(opts.IndexNames, opts.KeepIndexSlugs)
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		idx.add(root, rel, slugs, opts.Recorder)
	}

	elapsed := time.Since(start)
	opts.Recorder.ObserveLoadDuration(elapsed)
	opts.Recorder.SetIndexedDocuments(idx.Len())
	slog.Info("Content indexed",
		logfields.Root(root),
		logfields.SnapshotID(idx.id),
		logfields.Count(idx.Len()),
		logfields.Skipped(len(idx.skipped)),
		logfields.DurationMS(float64(elapsed.Microseconds())/1000))
	return idx, nil
}

func (idx *Index) add(root, rel string, slugs *slugger, rec metrics.Recorder) {
	source := filepath.Join(root, rel)
	raw, err := os.ReadFile(source)
	if err != nil {
		idx.skip(rel, ReasonFileReadFailed, fmt.Errorf("%w: %s: %w", derrors.ErrFileReadFailed, rel, err), rec)
		return
	}

	slug, isIndex := slugs.slug(rel)
	if existing, taken := idx.docs[slug]; taken {
		err := fmt.Errorf("%w: %q from %s already indexed from %s", derrors.ErrSlugCollision, slug, rel, existing.RelativePath)
		idx.skip(rel, ReasonSlugCollision, err, rec)
		return
	}

	parsed := frontmatter.Parse(raw)
	doc := &Document{
		Slug:         slug,
		SourcePath:   source,
		RelativePath: filepath.ToSlash(rel),
		IsIndex:      isIndex,
		Metadata:     Metadata(parsed.Metadata),
		Body:         string(parsed.Body),
	}
	doc.Title = resolveTitle(doc)
	doc.Fingerprint = Fingerprint(doc.Metadata, doc.Body)

	idx.docs[slug] = doc
	idx.order = append(idx.order, slug)
	slog.Debug("Indexed document", logfields.Slug(slug), logfields.File(doc.RelativePath))
}

// resolveTitle prefers declared metadata, then the first H1, then the file name.
func resolveTitle(doc *Document) string {
	if t := doc.Metadata.Title(); t != "" {
		return t
	}
	if t := markdown.FirstHeading([]byte(doc.Body), 1); t != "" {
		return t
	}
	name := filepath.Base(doc.RelativePath)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if doc.IsIndex && doc.Slug != RootSlug {
		name = BaseName(doc.Slug)
	}
	return Humanize(name)
}

// ListFiles returns the recognized files below root, relative to it, in a
// deterministic pre-order: each directory's files by name, then its
// subdirectories by name. Traversal uses an explicit work-list, skips hidden
// entries and does not follow symlinked directories. Unreadable directories
// are reported as skipped.
func ListFiles(ctx context.Context, root string, opts Options) ([]string, []SkippedFile, error) {
	opts = opts.withDefaults()

	var (
		files   []string
		skipped []SkippedFile
		stack   = []string{"."}
	)
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(filepath.Join(root, dir))
		if err != nil {
			skipped = append(skipped, SkippedFile{
				Path:   filepath.ToSlash(dir),
				Reason: ReasonDirReadFailed,
				Err:    fmt.Errorf("%w: %s: %w", derrors.ErrDirReadFailed, dir, err),
			})
			continue
		}

		var subdirs []string
		for _, entry := range entries {
			name := entry.Name()
			if strings.HasPrefix(name, ".") {
				continue
			}
			rel := filepath.Join(dir, name)
			switch {
			case entry.IsDir():
				subdirs = append(subdirs, rel)
			case entry.Type()&os.ModeSymlink != 0:
				target, err := os.Stat(filepath.Join(root, rel))
				if err != nil || target.IsDir() || !opts.recognized(name) {
					continue
				}
				files = append(files, rel)
			case entry.Type().IsRegular() && opts.recognized(name):
				files = append(files, rel)
			}
		}
		// Push in reverse so subdirectories pop in lexical order.
		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}
	}
	return files, skipped, nil
}
