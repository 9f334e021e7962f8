package mcpserver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"git.home.luguber.info/inful/docengine/internal/docs"
	"git.home.luguber.info/inful/docengine/internal/logfields"
	"git.home.luguber.info/inful/docengine/internal/metrics"
	"git.home.luguber.info/inful/docengine/internal/nav"
	"git.home.luguber.info/inful/docengine/internal/search"
)

const resolutionInterface = "mcp"

// ListDocumentPathsInput defines input for list_document_paths.
type ListDocumentPathsInput struct{}

// ListDocumentPathsOutput defines output for list_document_paths.
type ListDocumentPathsOutput struct {
	Paths [][]string `json:"paths"`
	Count int        `json:"count"`
}

// GetDocumentInput defines input for get_document.
type GetDocumentInput struct {
	Path string `json:"path,omitempty" jsonschema:"Document path such as guide/advanced; empty for the root document"`
}

// GetDocumentOutput defines output for get_document.
type GetDocumentOutput struct {
	Found    bool           `json:"found"`
	Slug     string         `json:"slug"`
	Title    string         `json:"title,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Body     string         `json:"body,omitempty"`
}

// GetNavigationInput defines input for get_navigation.
type GetNavigationInput struct{}

// GetPagerInput defines input for get_pager.
type GetPagerInput struct {
	Path string `json:"path,omitempty" jsonschema:"Document path whose neighbours are wanted; empty for the root document"`
}

// GetPagerOutput defines output for get_pager.
type GetPagerOutput struct {
	Found    bool      `json:"found"`
	Previous *nav.Leaf `json:"previous"`
	Next     *nav.Leaf `json:"next"`
}

// SearchDocumentsInput defines input for search_documents.
type SearchDocumentsInput struct {
	Query string `json:"query" jsonschema:"Full-text search query"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of results (optional, defaults to 10)"`
}

// SearchDocumentsOutput defines output for search_documents.
type SearchDocumentsOutput struct {
	Query string       `json:"query"`
	Hits  []search.Hit `json:"hits"`
}

// Register adds the tools to server.
func (t *Tools) Register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_document_paths",
		Description: "List every document path as slug segments, in index order.",
	}, t.ListDocumentPaths)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_document",
		Description: "Resolve a document by path and return its title, metadata and raw body. Reports found=false for unknown paths.",
	}, t.GetDocument)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_navigation",
		Description: "Return the ordered navigation tree of categories and documents.",
	}, t.GetNavigation)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_pager",
		Description: "Return the previous and next documents around a path in navigation order.",
	}, t.GetPager)

	if t.search != nil {
		mcp.AddTool(server, &mcp.Tool{
			Name:        "search_documents",
			Description: "Full-text search over document titles, descriptions and bodies.",
		}, t.SearchDocuments)
	}
}

func (t *Tools) snapshot(ctx context.Context, tool string) (*docs.Index, error) {
	idx, err := t.content.GetOrLoad(ctx)
	if err != nil {
		slog.Error("Failed to load content", logfields.Tool(tool), logfields.Error(err))
		return nil, fmt.Errorf("content unavailable: %w", err)
	}
	return idx, nil
}

// ListDocumentPaths returns every slug as segments.
func (t *Tools) ListDocumentPaths(ctx context.Context, _ *mcp.CallToolRequest, _ ListDocumentPathsInput) (*mcp.CallToolResult, ListDocumentPathsOutput, error) {
	idx, err := t.snapshot(ctx, "list_document_paths")
	if err != nil {
		return nil, ListDocumentPathsOutput{}, err
	}
	paths := docs.AllSlugs(idx)
	return nil, ListDocumentPathsOutput{Paths: paths, Count: len(paths)}, nil
}

// GetDocument resolves one document. Not found is a normal result.
func (t *Tools) GetDocument(ctx context.Context, _ *mcp.CallToolRequest, in GetDocumentInput) (*mcp.CallToolResult, GetDocumentOutput, error) {
	idx, err := t.snapshot(ctx, "get_document")
	if err != nil {
		return nil, GetDocumentOutput{}, err
	}
	doc, ok := docs.ResolvePath(idx, in.Path)
	if !ok {
		t.recorder.IncResolution(resolutionInterface, metrics.ResultNotFound)
		return nil, GetDocumentOutput{Found: false}, nil
	}
	t.recorder.IncResolution(resolutionInterface, metrics.ResultFound)
	return nil, GetDocumentOutput{
		Found:    true,
		Slug:     doc.Slug,
		Title:    doc.Title,
		Metadata: doc.Metadata,
		Body:     doc.Body,
	}, nil
}

// GetNavigation returns the navigation tree. The output is untyped because
// the tree is recursive and carries its own JSON encoding.
func (t *Tools) GetNavigation(ctx context.Context, _ *mcp.CallToolRequest, _ GetNavigationInput) (*mcp.CallToolResult, any, error) {
	idx, err := t.snapshot(ctx, "get_navigation")
	if err != nil {
		return nil, nil, err
	}
	return nil, nav.Build(idx), nil
}

// GetPager returns the neighbours of a document.
func (t *Tools) GetPager(ctx context.Context, _ *mcp.CallToolRequest, in GetPagerInput) (*mcp.CallToolResult, GetPagerOutput, error) {
	idx, err := t.snapshot(ctx, "get_pager")
	if err != nil {
		return nil, GetPagerOutput{}, err
	}
	doc, ok := docs.ResolvePath(idx, in.Path)
	if !ok {
		return nil, GetPagerOutput{Found: false}, nil
	}
	p := nav.Neighbors(nav.Build(idx), doc.Slug)
	return nil, GetPagerOutput{Found: true, Previous: p.Previous, Next: p.Next}, nil
}

// SearchDocuments runs a full-text query.
func (t *Tools) SearchDocuments(ctx context.Context, _ *mcp.CallToolRequest, in SearchDocumentsInput) (*mcp.CallToolResult, SearchDocumentsOutput, error) {
	if _, err := t.snapshot(ctx, "search_documents"); err != nil {
		return nil, SearchDocumentsOutput{}, err
	}
	hits, err := t.search.Search(ctx, in.Query, in.Limit)
	if err != nil {
		return nil, SearchDocumentsOutput{}, fmt.Errorf("search failed: %w", err)
	}
	return nil, SearchDocumentsOutput{Query: in.Query, Hits: hits}, nil
}
