// Package http exposes the documentation site over HTTP. The router is a
// plain http.Handler built on net/http method patterns so hosts can mount it
// under any prefix with http.StripPrefix.
package http

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-docsite/internal/doctree"
	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/internal/runtimeconfig"
	"github.com/goliatone/go-docsite/internal/search"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// Deps carries everything the router serves from.
type Deps struct {
	Config   runtimeconfig.Config
	Tree     *doctree.Tree
	Renderer interfaces.MarkdownRenderer
	// Search is nil when search is disabled.
	Search *search.Index
	// Refresh performs a full rescan plus reindex; wired to the refresh
	// command handler.
	Refresh func(ctx context.Context) error
	// EnsureSearch brings the index up to date with the current tree
	// snapshot before a query runs. Optional.
	EnsureSearch func(ctx context.Context) error
	Logger       interfaces.Logger
}

// API is the documentation HTTP surface.
type API struct {
	cfg      runtimeconfig.Config
	tree     *doctree.Tree
	renderer interfaces.MarkdownRenderer
	search   *search.Index
	refresh  func(ctx context.Context) error
	ensure   func(ctx context.Context) error
	logger   interfaces.Logger
	pages    *pageRenderer
}

// NewRouter assembles the documentation routes on a fresh ServeMux.
func NewRouter(deps Deps) (http.Handler, error) {
	if deps.Tree == nil {
		return nil, errors.New("docsite http: tree is required")
	}
	if deps.Renderer == nil {
		return nil, errors.New("docsite http: renderer is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	pages, err := newPageRenderer(deps.Config)
	if err != nil {
		return nil, err
	}

	api := &API{
		cfg:      deps.Config,
		tree:     deps.Tree,
		renderer: deps.Renderer,
		search:   deps.Search,
		refresh:  deps.Refresh,
		ensure:   deps.EnsureSearch,
		logger:   logger,
		pages:    pages,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /_nav", api.handleNavigation)
	mux.HandleFunc("GET /_meta/{path...}", api.handleMetadata)
	mux.HandleFunc("GET /_search", api.handleSearch)
	mux.HandleFunc("GET /_refresh", api.handleRefresh)
	mux.HandleFunc("GET /{path...}", api.handleDocument)
	return mux, nil
}

func (api *API) handleNavigation(w http.ResponseWriter, r *http.Request) {
	nav := api.tree.Navigation()
	if nav == nil {
		nav = []interfaces.NavItem{}
	}
	writeJSON(w, http.StatusOK, nav)
}

type documentMeta struct {
	Title       string                  `json:"title"`
	Description string                  `json:"description,omitempty"`
	Tags        []string                `json:"tags,omitempty"`
	TOC         []interfaces.TocEntry   `json:"toc"`
	Breadcrumbs []interfaces.Breadcrumb `json:"breadcrumbs"`
	Prev        *documentRef            `json:"prev"`
	Next        *documentRef            `json:"next"`
}

type documentRef struct {
	Title string `json:"title"`
	Path  string `json:"path"`
}

func (api *API) handleMetadata(w http.ResponseWriter, r *http.Request) {
	path := r.PathValue("path")

	node, err := api.tree.Get(path)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "document not found")
		return
	}

	result, err := api.renderer.Render(node.RawContent)
	if err != nil {
		api.logger.Error("http.metadata.render_failed", "path", path, "error", err)
		writeError(w, http.StatusInternalServerError, "render_failed", "document could not be rendered")
		return
	}

	prev, next := api.tree.Siblings(node.Path)

	meta := documentMeta{
		Title:       node.Metadata.Title,
		Description: node.Metadata.Description,
		Tags:        node.Metadata.Tags,
		TOC:         result.TOC,
		Breadcrumbs: api.tree.Breadcrumbs(node.Path),
		Prev:        toDocumentRef(prev),
		Next:        toDocumentRef(next),
	}
	if meta.TOC == nil {
		meta.TOC = []interfaces.TocEntry{}
	}
	if meta.Breadcrumbs == nil {
		meta.Breadcrumbs = []interfaces.Breadcrumb{}
	}
	writeJSON(w, http.StatusOK, meta)
}

func (api *API) handleSearch(w http.ResponseWriter, r *http.Request) {
	if !api.cfg.EnableSearch || api.search == nil {
		writeError(w, http.StatusNotFound, "search_disabled", "search is not enabled")
		return
	}

	if api.ensure != nil {
		if err := api.ensure(r.Context()); err != nil {
			api.logger.Error("http.search.reindex_failed", "error", err)
			writeError(w, http.StatusInternalServerError, "reindex_failed", "search index could not be refreshed")
			return
		}
	}

	results := api.search.Search(r.URL.Query().Get("q"), api.cfg.Search.Limit)
	if results == nil {
		results = []interfaces.SearchResult{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (api *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if api.refresh == nil {
		writeError(w, http.StatusNotFound, "refresh_disabled", "refresh is not wired")
		return
	}
	if err := api.refresh(r.Context()); err != nil {
		api.logger.Error("http.refresh.failed", "error", err)
		writeError(w, http.StatusInternalServerError, "refresh_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

func (api *API) handleDocument(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(r.PathValue("path"), "/")

	// Non-markdown files under the docs directory are static assets
	// (images, downloads) referenced from documents.
	if path != "" && !strings.HasSuffix(path, ".md") {
		if asset, ok := api.assetPath(path); ok {
			http.ServeFile(w, r, asset)
			return
		}
	}

	node, err := api.tree.Get(strings.TrimSuffix(path, ".md"))
	if err != nil {
		api.logger.Debug("http.document.not_found", "path", path)
		api.pages.renderNotFound(w, basePrefix(r, api.cfg.BasePath))
		return
	}

	result, err := api.renderer.Render(node.RawContent)
	if err != nil {
		api.logger.Error("http.document.render_failed", "path", path, "error", err)
		writeError(w, http.StatusInternalServerError, "render_failed", "document could not be rendered")
		return
	}

	prev, next := api.tree.Siblings(node.Path)

	api.pages.renderDocument(w, documentPage{
		Node:        node,
		HTML:        result.HTML,
		TOC:         result.TOC,
		Nav:         api.tree.Navigation(),
		Breadcrumbs: api.tree.Breadcrumbs(node.Path),
		Prev:        toDocumentRef(prev),
		Next:        toDocumentRef(next),
		CurrentPath: path,
		BasePrefix:  basePrefix(r, api.cfg.BasePath),
	})
}

// assetPath resolves a request path to a file inside the docs directory,
// rejecting traversal outside of it.
func (api *API) assetPath(path string) (string, bool) {
	root := api.tree.DocsDir()
	candidate := filepath.Join(root, filepath.FromSlash(path))

	rel, err := filepath.Rel(root, candidate)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}

	info, err := os.Stat(candidate)
	if err != nil || info.IsDir() {
		return "", false
	}
	return candidate, true
}

func toDocumentRef(node *doctree.Node) *documentRef {
	if node == nil {
		return nil
	}
	return &documentRef{Title: node.Metadata.Title, Path: node.Path}
}
