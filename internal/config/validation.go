package config

import (
	"fmt"
	"strings"

	derrors "git.home.luguber.info/inful/docengine/internal/errors"
	"git.home.luguber.info/inful/docengine/internal/retry"
)

// Validate checks a configuration after defaults have been applied.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Content.Root) == "" {
		return derrors.ValidationFailed("content.root", "must not be empty")
	}
	for _, ext := range c.Content.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return derrors.ValidationFailed("content.extensions", fmt.Sprintf("%q must start with a dot", ext))
		}
	}
	for _, name := range c.Content.IndexNames {
		if strings.TrimSpace(name) == "" || strings.ContainsAny(name, `/\`) {
			return derrors.ValidationFailed("content.index_names", fmt.Sprintf("%q is not a base name", name))
		}
	}
	if c.Content.Debounce < 0 {
		return derrors.ValidationFailed("content.debounce", "must not be negative")
	}
	if c.Content.RebuildInterval < 0 {
		return derrors.ValidationFailed("content.rebuild_interval", "must not be negative")
	}
	if retry.NormalizeBackoff(string(c.Content.Retry.Backoff)) == "" {
		return derrors.ValidationFailed("content.retry.backoff", fmt.Sprintf("%q is not one of fixed, linear, exponential", c.Content.Retry.Backoff))
	}
	if c.Content.Retry.Initial < 0 || c.Content.Retry.Max < 0 {
		return derrors.ValidationFailed("content.retry", "delays must not be negative")
	}
	if c.Content.Retry.MaxRetries < 0 {
		return derrors.ValidationFailed("content.retry.max_retries", "must not be negative")
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return derrors.ValidationFailed("server.addr", "must not be empty")
	}
	for field, d := range map[string]Duration{
		"server.read_timeout":    c.Server.ReadTimeout,
		"server.write_timeout":   c.Server.WriteTimeout,
		"server.idle_timeout":    c.Server.IdleTimeout,
		"server.request_timeout": c.Server.RequestTimeout,
	} {
		if d < 0 {
			return derrors.ValidationFailed(field, "must not be negative")
		}
	}
	return nil
}
