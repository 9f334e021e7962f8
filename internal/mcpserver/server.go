// Package mcpserver exposes the content engine as Model Context Protocol
// tools over stdio.
package mcpserver

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"git.home.luguber.info/inful/docengine/internal/docs"
	"git.home.luguber.info/inful/docengine/internal/metrics"
	"git.home.luguber.info/inful/docengine/internal/search"
)

const serverName = "docengine"

// ContentSource supplies the current snapshot.
type ContentSource interface {
	GetOrLoad(ctx context.Context) (*docs.Index, error)
}

// Searcher runs full-text queries against the current snapshot.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]search.Hit, error)
}

// Tools implements the MCP tool handlers.
type Tools struct {
	content  ContentSource
	search   Searcher
	recorder metrics.Recorder
}

// NewTools creates tool handlers. searcher may be nil, in which case the
// search tool is not registered.
func NewTools(content ContentSource, searcher Searcher, recorder metrics.Recorder) *Tools {
	return &Tools{content: content, search: searcher, recorder: metrics.OrNoop(recorder)}
}

// NewServer creates an MCP server with every tool registered.
func NewServer(version string, tools *Tools) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil)
	tools.Register(server)
	return server
}

// Run serves MCP over stdin/stdout until ctx is done or the client disconnects.
func Run(ctx context.Context, server *mcp.Server) error {
	slog.Info("MCP server ready on stdio", slog.String("name", serverName))
	return server.Run(ctx, &mcp.StdioTransport{})
}
