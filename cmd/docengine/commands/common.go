package commands

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docengine/internal/config"
	"git.home.luguber.info/inful/docengine/internal/docs"
	derrors "git.home.luguber.info/inful/docengine/internal/errors"
	"git.home.luguber.info/inful/docengine/internal/metrics"
)

// Global carries state shared by every subcommand. Out receives command
// output; logs always go to stderr.
type Global struct {
	Out io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docengine.yaml" env:"DOCENGINE_CONFIG"`
	Root    string           `short:"r" help:"Content root directory (overrides content.root)" env:"DOCENGINE_ROOT"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Init   InitCmd   `cmd:"" help:"Initialize a new configuration file"`
	Paths  PathsCmd  `cmd:"" help:"List the path of every document"`
	Show   ShowCmd   `cmd:"" help:"Resolve a path and print the document"`
	Nav    NavCmd    `cmd:"" help:"Print the navigation tree as JSON"`
	Pager  PagerCmd  `cmd:"" help:"Print the previous and next documents for a path"`
	Search SearchCmd `cmd:"" help:"Full-text search the content tree"`
	Serve  ServeCmd  `cmd:"" help:"Serve the content engine over HTTP"`
	MCP    MCPCmd    `cmd:"" name:"mcp" help:"Serve the content engine as MCP tools on stdio"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// LoadConfig reads the configuration file, falling back to defaults when it
// does not exist, applies flag overrides and reconfigures logging from it.
func (c *CLI) LoadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(c.Config)
	if err != nil {
		return nil, err
	}
	if c.Root != "" {
		cfg.Content.Root = c.Root
	}
	slog.SetDefault(slog.New(config.NewLogHandler(os.Stderr, cfg.Log, c.Verbose)))
	return cfg, nil
}

// LoadSnapshot loads the configured content tree once.
func LoadSnapshot(ctx context.Context, cfg *config.Config, recorder metrics.Recorder) (*docs.Index, error) {
	opts := cfg.Content.DocsOptions()
	opts.Recorder = recorder
	idx, err := docs.Load(ctx, cfg.Content.Root, opts)
	if err != nil {
		return nil, derrors.ContentLoadFailed(cfg.Content.Root, err)
	}
	return idx, nil
}

// resolve loads the snapshot and resolves a URL-style path against it.
func (c *CLI) resolve(ctx context.Context, path string) (*docs.Index, *docs.Document, error) {
	cfg, err := c.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	idx, err := LoadSnapshot(ctx, cfg, nil)
	if err != nil {
		return nil, nil, err
	}
	doc, found := docs.ResolvePath(idx, path)
	if !found {
		return idx, nil, derrors.DocumentNotFound(path)
	}
	return idx, doc, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return derrors.InternalError("failed to encode output", err)
	}
	return nil
}
