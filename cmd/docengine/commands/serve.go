package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/docengine/internal/api"
	derrors "git.home.luguber.info/inful/docengine/internal/errors"
)

const shutdownTimeout = 30 * time.Second

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr    string `help:"Listen address (overrides server.addr)"`
	NoWatch bool   `name:"no-watch" help:"Do not watch the content root for changes"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.Server.Addr = s.Addr
	}
	if s.NoWatch {
		cfg.Content.Watch = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := newEngine(cfg, cfg.Metrics.Enabled)
	defer e.close()
	if err := e.start(ctx); err != nil {
		return err
	}

	server := api.NewServer(api.Config{
		Addr:           cfg.Server.Addr,
		ReadTimeout:    cfg.Server.ReadTimeout.Std(),
		WriteTimeout:   cfg.Server.WriteTimeout.Std(),
		IdleTimeout:    cfg.Server.IdleTimeout.Std(),
		RequestTimeout: cfg.Server.RequestTimeout.Std(),
	}, api.Dependencies{
		Content:  e.cache,
		Search:   e.search,
		Registry: e.registry,
		Recorder: e.recorder,
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()
	slog.Info("HTTP server started",
		"addr", cfg.Server.Addr,
		"root", cfg.Content.Root,
		"watch", e.watcher != nil,
		"metrics", e.registry != nil)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return derrors.ServerFailed("http", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("Shutdown signal received, stopping server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return derrors.ServerFailed("http", err)
	}
	slog.Info("HTTP server stopped")
	return nil
}
