package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	derrors "git.home.luguber.info/inful/docengine/internal/errors"
	"git.home.luguber.info/inful/docengine/internal/mcpserver"
	"git.home.luguber.info/inful/docengine/internal/version"
)

// MCPCmd implements the 'mcp' command. stdout carries the protocol, so all
// logging goes to stderr.
type MCPCmd struct {
	NoSearch bool `name:"no-search" help:"Do not register the search tool"`
	NoWatch  bool `name:"no-watch" help:"Do not watch the content root for changes"`
}

func (m *MCPCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if m.NoWatch {
		cfg.Content.Watch = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := newEngine(cfg, false)
	defer e.close()
	if err := e.start(ctx); err != nil {
		return err
	}

	var searcher mcpserver.Searcher
	if !m.NoSearch {
		searcher = e.search
	}
	server := mcpserver.NewServer(version.Version, mcpserver.NewTools(e.cache, searcher, e.recorder))
	if err := mcpserver.Run(ctx, server); err != nil && !errors.Is(err, context.Canceled) {
		return derrors.ServerFailed("mcp", err)
	}
	return nil
}
