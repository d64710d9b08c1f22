// Package docsite renders a directory of markdown files as a documentation
// site. It is designed to be mounted as a sub-router inside a larger
// application: construct a Module, mount Router() under a prefix, and point
// DocsDir at the markdown tree.
package docsite

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/goliatone/go-docsite/internal/commands/docs"
	dochttp "github.com/goliatone/go-docsite/internal/http"
	"github.com/goliatone/go-docsite/internal/doctree"
	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/internal/logging/gologger"
	"github.com/goliatone/go-docsite/internal/markdown"
	"github.com/goliatone/go-docsite/internal/runtimeconfig"
	"github.com/goliatone/go-docsite/internal/search"
	"github.com/goliatone/go-docsite/internal/watcher"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// Config exports the module configuration for consumers of the docsite package.
type Config = runtimeconfig.Config

// FooterLink exports the footer link entry.
type FooterLink = runtimeconfig.FooterLink

// MarkdownConfig exports the markdown rendering settings.
type MarkdownConfig = runtimeconfig.MarkdownConfig

// SearchConfig exports the search settings.
type SearchConfig = runtimeconfig.SearchConfig

// WatchConfig exports the file watching settings.
type WatchConfig = runtimeconfig.WatchConfig

// LoggingConfig exports the logging settings.
type LoggingConfig = runtimeconfig.LoggingConfig

// Metadata exports the document frontmatter contract.
type Metadata = interfaces.Metadata

// NavItem exports a navigation tree entry.
type NavItem = interfaces.NavItem

// Breadcrumb exports a breadcrumb trail entry.
type Breadcrumb = interfaces.Breadcrumb

// TocEntry exports a table of contents entry.
type TocEntry = interfaces.TocEntry

// SearchResult exports a scored search hit.
type SearchResult = interfaces.SearchResult

// Logger exports the leveled logger contract the module logs through.
type Logger = interfaces.Logger

// LoggerProvider exports the named logger factory contract.
type LoggerProvider = interfaces.LoggerProvider

// CommandRegistry exports the host dispatcher registration contract.
type CommandRegistry = docscmd.CommandRegistry

// Configuration errors surfaced by Config.Validate.
var (
	ErrDocsDirRequired            = runtimeconfig.ErrDocsDirRequired
	ErrSearchLimitInvalid         = runtimeconfig.ErrSearchLimitInvalid
	ErrSearchSnippetRadiusInvalid = runtimeconfig.ErrSearchSnippetRadiusInvalid
	ErrWatchDebounceInvalid       = runtimeconfig.ErrWatchDebounceInvalid
)

// ErrNotFound reports a missing document.
var ErrNotFound = doctree.ErrNotFound

// DefaultConfig returns the baseline configuration. Callers set DocsDir and
// override what they need.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// Option customizes module construction.
type Option func(*options)

type options struct {
	provider interfaces.LoggerProvider
	registry docscmd.CommandRegistry
}

// WithLoggerProvider overrides the logger provider built from
// Config.Logging. Hosts with an existing logging setup pass theirs here.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithCommandRegistry registers the refresh and reindex command handlers
// with a host dispatcher during construction.
func WithCommandRegistry(reg docscmd.CommandRegistry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// Module is the top level documentation runtime.
type Module struct {
	cfg      Config
	provider interfaces.LoggerProvider
	logger   interfaces.Logger

	tree     *doctree.Tree
	renderer *markdown.Renderer
	index    *search.Index
	handlers *docscmd.HandlerSet
	router   http.Handler

	watchMu sync.Mutex
	watch   *watcher.Watcher
}

// New constructs a documentation module from the provided configuration.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	provider := o.provider
	if provider == nil {
		built, err := buildProvider(cfg.Logging)
		if err != nil {
			return nil, err
		}
		provider = built
	}

	tree, err := doctree.New(doctree.Config{
		DocsDir:     cfg.DocsDir,
		AutoRefresh: cfg.AutoRefresh,
		Logger:      logging.TreeLogger(provider),
	})
	if err != nil {
		return nil, err
	}

	renderer := markdown.NewRenderer(interfaces.RenderOptions{
		Extensions:        cfg.Markdown.Extensions,
		HardWraps:         cfg.Markdown.HardWraps,
		Unsafe:            cfg.Markdown.Unsafe,
		MarkExternalLinks: cfg.Markdown.MarkExternalLinks,
	})

	var index *search.Index
	if cfg.EnableSearch {
		index = search.New(search.Config{
			Limit:         cfg.Search.Limit,
			SnippetRadius: cfg.Search.SnippetRadius,
			Logger:        logging.SearchLogger(provider),
		})
	}

	m := &Module{
		cfg:      cfg,
		provider: provider,
		logger:   logging.ModuleLogger(provider, "docsite"),
		tree:     tree,
		renderer: renderer,
		index:    index,
	}

	var reindexer docscmd.SearchReindexer
	if index != nil {
		reindexer = m
	}
	handlers, err := docscmd.RegisterDocsCommands(o.registry, tree, reindexer, provider)
	if err != nil {
		return nil, err
	}
	m.handlers = handlers

	router, err := dochttp.NewRouter(dochttp.Deps{
		Config:       cfg,
		Tree:         tree,
		Renderer:     renderer,
		Search:       index,
		Refresh:      m.refreshFromHTTP,
		EnsureSearch: m.ensureSearch,
		Logger:       logging.HTTPLogger(provider),
	})
	if err != nil {
		return nil, err
	}
	m.router = router

	return m, nil
}

// Router returns the HTTP handler serving the documentation site. Mount it
// under a prefix with http.StripPrefix; set Config.BasePath to the same
// prefix so generated links resolve.
func (m *Module) Router() http.Handler {
	return m.router
}

// Tree exposes the document tree for programmatic access.
func (m *Module) Tree() *doctree.Tree {
	return m.tree
}

// Refresh rescans the documentation directory and, when search is enabled,
// rebuilds the index.
func (m *Module) Refresh(ctx context.Context) error {
	return m.handlers.Refresh.Execute(ctx, docscmd.RefreshTreeCommand{Reason: docscmd.ReasonManual})
}

// Reindex rebuilds the search index from the current tree snapshot.
func (m *Module) Reindex(ctx context.Context) error {
	if m.index == nil {
		return errors.New("docsite: search is disabled")
	}
	m.index.IndexAll(m.tree.Documents(), m.tree.BuildID())
	return nil
}

// Start begins watching the documentation directory when watching is
// enabled. It is a no-op otherwise.
func (m *Module) Start(ctx context.Context) error {
	if !m.cfg.Watch.Enabled {
		return nil
	}

	m.watchMu.Lock()
	defer m.watchMu.Unlock()
	if m.watch != nil {
		return nil
	}

	w, err := watcher.New(watcher.Config{
		Root:     m.cfg.DocsDir,
		Debounce: m.cfg.Watch.Debounce,
		Filters:  []watcher.Filter{watcher.MarkdownFilter, watcher.NoHiddenFilter},
		Handler:  m.onFileChanges,
		Logger:   logging.WatchLogger(m.provider),
	})
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	m.watch = w
	return nil
}

// Stop halts the file watcher if one is running.
func (m *Module) Stop() error {
	m.watchMu.Lock()
	defer m.watchMu.Unlock()
	if m.watch == nil {
		return nil
	}
	err := m.watch.Stop()
	m.watch = nil
	return err
}

func (m *Module) onFileChanges(events []watcher.ChangeEvent) {
	m.logger.Info("docsite.watch.changes_detected", "count", len(events))
	err := m.handlers.Refresh.Execute(context.Background(), docscmd.RefreshTreeCommand{
		Reason: docscmd.ReasonWatcher,
	})
	if err != nil {
		m.logger.Error("docsite.watch.refresh_failed", "error", err)
	}
}

func (m *Module) refreshFromHTTP(ctx context.Context) error {
	return m.handlers.Refresh.Execute(ctx, docscmd.RefreshTreeCommand{Reason: docscmd.ReasonHTTP})
}

// ensureSearch keeps the index aligned with the tree snapshot. Cheap when
// nothing changed: a build ID comparison.
func (m *Module) ensureSearch(ctx context.Context) error {
	if m.index == nil {
		return nil
	}
	if m.index.BuildID() == m.tree.BuildID() {
		return nil
	}
	return m.Reindex(ctx)
}

func buildProvider(cfg runtimeconfig.LoggingConfig) (interfaces.LoggerProvider, error) {
	// Same normalization as Config.Validate.
	if strings.ToLower(strings.TrimSpace(cfg.Provider)) == "noop" {
		return noopProvider{}, nil
	}
	return gologger.NewProvider(gologger.Config{
		Level:     cfg.Level,
		Format:    cfg.Format,
		AddSource: cfg.AddSource,
		Focus:     cfg.Focus,
	})
}

type noopProvider struct{}

func (noopProvider) GetLogger(string) interfaces.Logger {
	return logging.NoOp()
}
