package theme

import (
	"fmt"
	"log/slog"
	"sync"
)

// Engine is the rendering pipeline: inheritance resolution, file inclusion,
// variable substitution and tag stripping, in that order, each stage
// consuming the previous stage's full text output. Renders are independent
// of each other: every call re-reads its templates from the Provider and
// nothing is cached, so concurrent renders never contend on anything beyond
// the read-only filesystem. All methods are concurrent-safe.
type Engine struct {
	logger   *slog.Logger
	provider Provider
	config   *Config
	mu       sync.RWMutex
}

// NewEngine creates an Engine reading templates through the given provider.
// A nil config selects the legacy defaults.
func NewEngine(logger *slog.Logger, provider Provider, config *Config) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	return &Engine{
		logger:   logger,
		provider: provider,
		config:   config,
	}
}

// SetConfig applies a new configuration. Renders already in flight keep the
// snapshot they started with.
func (e *Engine) SetConfig(config *Config) {
	if config == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.config = config
}

// GetConfig returns a copy of the current configuration.
// This mainly exists for concurrency-safety reasons.
func (e *Engine) GetConfig() Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return *e.config
}

// Render fetches the named template and runs it through the pipeline. Only
// a missing top-level template is an error (ErrNotFound); a missing base
// template, a missing include target and an unresolved variable all degrade
// locally per the engine contract.
func (e *Engine) Render(name string, ctx Context) (string, error) {
	text, err := e.provider.Fetch(name)
	if err != nil {
		return "", fmt.Errorf("failed to fetch template %q: %w", name, err)
	}
	return e.RenderString(text, ctx), nil
}

// RenderString runs raw template content through the full pipeline without
// requiring it to exist on disk. It is a total function over text and is
// ideal for previewing template edits before saving them.
func (e *Engine) RenderString(content string, ctx Context) string {
	cfg := e.GetConfig()
	text := e.resolveInheritance(content, cfg)
	text = e.resolveIncludes(text)
	text = substituteVariables(text, ctx, cfg)
	return stripTags(text)
}
