package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"git.home.luguber.info/inful/docengine/internal/docs"
	derrors "git.home.luguber.info/inful/docengine/internal/errors"
	"git.home.luguber.info/inful/docengine/internal/nav"
	"git.home.luguber.info/inful/docengine/internal/search"
)

// PathsCmd implements the 'paths' command.
type PathsCmd struct {
	JSON bool `help:"Print slug segments as a JSON array"`
}

func (p *PathsCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	idx, err := LoadSnapshot(context.Background(), cfg, nil)
	if err != nil {
		return err
	}

	paths := docs.AllSlugs(idx)
	if p.JSON {
		return writeJSON(g.out(), paths)
	}
	for _, segments := range paths {
		_, _ = fmt.Fprintln(g.out(), "/"+strings.Join(segments, "/"))
	}
	return nil
}

// ShowCmd implements the 'show' command.
type ShowCmd struct {
	Path string `arg:"" optional:"" help:"Document path, e.g. /guide/install (default: root)"`
	Body bool   `help:"Print only the document body"`
}

type shownDocument struct {
	Slug         string         `json:"slug"`
	Segments     []string       `json:"segments"`
	Title        string         `json:"title"`
	RelativePath string         `json:"relativePath"`
	Fingerprint  string         `json:"fingerprint"`
	Metadata     map[string]any `json:"metadata"`
	Body         string         `json:"body"`
}

func (s *ShowCmd) Run(g *Global, root *CLI) error {
	_, doc, err := root.resolve(context.Background(), s.Path)
	if err != nil {
		return err
	}
	if s.Body {
		_, _ = fmt.Fprint(g.out(), doc.Body)
		return nil
	}
	meta := map[string]any(doc.Metadata)
	if meta == nil {
		meta = map[string]any{}
	}
	return writeJSON(g.out(), shownDocument{
		Slug:         doc.Slug,
		Segments:     doc.Segments(),
		Title:        doc.Title,
		RelativePath: doc.RelativePath,
		Fingerprint:  doc.Fingerprint,
		Metadata:     meta,
		Body:         doc.Body,
	})
}

// NavCmd implements the 'nav' command.
type NavCmd struct{}

func (n *NavCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	idx, err := LoadSnapshot(context.Background(), cfg, nil)
	if err != nil {
		return err
	}
	return writeJSON(g.out(), nav.Build(idx))
}

// PagerCmd implements the 'pager' command.
type PagerCmd struct {
	Path string `arg:"" optional:"" help:"Document path (default: root)"`
}

func (p *PagerCmd) Run(g *Global, root *CLI) error {
	idx, doc, err := root.resolve(context.Background(), p.Path)
	if err != nil {
		return err
	}
	return writeJSON(g.out(), nav.Neighbors(nav.Build(idx), doc.Slug))
}

// SearchCmd implements the 'search' command.
type SearchCmd struct {
	Query string `arg:"" help:"Search query"`
	Limit int    `short:"n" help:"Maximum number of hits" default:"10"`
	JSON  bool   `help:"Print hits as JSON"`
}

func (s *SearchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	ctx := context.Background()
	idx, err := LoadSnapshot(ctx, cfg, nil)
	if err != nil {
		return err
	}

	index, err := search.NewIndex(idx)
	if err != nil {
		return derrors.InternalError("failed to build search index", err)
	}
	defer func() { _ = index.Close() }()

	hits, err := index.Search(ctx, s.Query, s.Limit)
	if errors.Is(err, search.ErrEmptyQuery) {
		return derrors.ValidationFailed("query", "must not be empty")
	}
	if err != nil {
		return derrors.InternalError("search failed", err)
	}
	if s.JSON {
		return writeJSON(g.out(), hits)
	}

	tw := tabwriter.NewWriter(g.out(), 0, 4, 2, ' ', 0)
	for _, hit := range hits {
		_, _ = fmt.Fprintf(tw, "/%s\t%s\t%.3f\n", hit.Slug, hit.Title, hit.Score)
	}
	return tw.Flush()
}
