// Package doctree scans a documentation directory and maintains the
// navigable model the rest of the module serves from: a hierarchy of
// sections and documents, a URL path index, navigation order, breadcrumbs,
// and sibling (previous/next) traversal. Scans produce immutable snapshots
// swapped atomically, so readers never observe a half-built tree.
package doctree

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/internal/markdown"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// ErrNotFound is returned when no document matches the requested path.
var ErrNotFound = errors.New("doctree: document not found")

// ErrDocsDirRequired is returned when the tree is constructed without a
// docs directory.
var ErrDocsDirRequired = errors.New("doctree: docs directory is required")

// Node is a single entry in the documentation tree: either a document backed
// by a markdown file or a synthesized section for a directory.
type Node struct {
	// Path is the URL path of the node relative to the mount point.
	Path string
	// SourcePath is the markdown file behind the node; empty for sections.
	SourcePath string
	Metadata   interfaces.Metadata
	IsSection  bool
	Children   []*Node
	// RawContent is the markdown body with frontmatter already stripped.
	RawContent []byte
	// LastModified is the source file modification time.
	LastModified time.Time
}

// Document reports whether the node is backed by a markdown file.
func (n *Node) Document() bool {
	return n != nil && n.SourcePath != ""
}

// Config captures tree construction options.
type Config struct {
	// DocsDir is the directory holding the markdown tree.
	DocsDir string
	// AutoRefresh re-scans on access when source mtimes changed.
	AutoRefresh bool
	Logger      interfaces.Logger
}

// Tree holds the current documentation snapshot and rebuilds it on demand.
type Tree struct {
	docsDir     string
	autoRefresh bool
	logger      interfaces.Logger

	mu   sync.RWMutex
	snap *snapshot
}

// snapshot is one fully built view of the documentation directory.
type snapshot struct {
	buildID   uuid.UUID
	builtAt   time.Time
	root      *Node
	pathIndex map[string]*Node
	// flat lists visible documents in navigation order, driving sibling
	// traversal and search indexing.
	flat   []*Node
	mtimes map[string]time.Time
}

// New scans the docs directory and returns a ready tree. A missing directory
// yields an empty tree rather than an error so hosts can mount before content
// exists; malformed documents are skipped with a warning.
func New(cfg Config) (*Tree, error) {
	dir := strings.TrimSpace(cfg.DocsDir)
	if dir == "" {
		return nil, ErrDocsDirRequired
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	t := &Tree{
		docsDir:     filepath.Clean(dir),
		autoRefresh: cfg.AutoRefresh,
		logger:      logger,
	}
	t.snap = t.scan()
	return t, nil
}

// DocsDir returns the scanned directory, used by the HTTP layer to serve
// static assets living alongside the markdown sources.
func (t *Tree) DocsDir() string {
	return t.docsDir
}

// BuildID identifies the current snapshot. Consumers such as the search
// index use it to detect that a refresh happened.
func (t *Tree) BuildID() uuid.UUID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snap.buildID
}

// Get retrieves a document or section by its URL path. Directory paths
// resolve to their index document when one exists.
func (t *Tree) Get(path string) (*Node, error) {
	snap := t.current()

	path = strings.Trim(path, "/")
	indexPath := "index"
	if path != "" {
		indexPath = path + "/index"
	}

	if node, ok := snap.pathIndex[indexPath]; ok {
		return node, nil
	}
	if node, ok := snap.pathIndex[path]; ok {
		return node, nil
	}
	return nil, ErrNotFound
}

// Navigation returns the sidebar tree with hidden documents filtered out.
func (t *Tree) Navigation() []interfaces.NavItem {
	snap := t.current()
	if snap.root == nil {
		return nil
	}
	return buildNavItems(snap.root.Children)
}

// Breadcrumbs returns the trail from the docs root to the given path. Path
// segments without a matching node fall back to humanized titles so the
// trail never has gaps.
func (t *Tree) Breadcrumbs(path string) []interfaces.Breadcrumb {
	snap := t.current()

	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}

	parts := strings.Split(path, "/")
	crumbs := make([]interfaces.Breadcrumb, 0, len(parts))
	current := ""
	for _, part := range parts {
		if current == "" {
			current = part
		} else {
			current = current + "/" + part
		}

		title := markdown.HumanizeFilename(part)
		if node, ok := snap.pathIndex[current]; ok {
			title = node.Metadata.Title
		}
		crumbs = append(crumbs, interfaces.Breadcrumb{Title: title, Path: current})
	}
	return crumbs
}

// Siblings returns the previous and next visible documents relative to the
// given path, following flattened navigation order. Either may be nil at the
// edges or when the path is unknown.
func (t *Tree) Siblings(path string) (prev, next *Node) {
	snap := t.current()

	path = strings.Trim(path, "/")
	idx := -1
	for i, node := range snap.flat {
		if node.Path == path {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, nil
	}

	if idx > 0 {
		prev = snap.flat[idx-1]
	}
	if idx < len(snap.flat)-1 {
		next = snap.flat[idx+1]
	}
	return prev, next
}

// Documents returns the visible documents in navigation order, the input for
// search indexing.
func (t *Tree) Documents() []*Node {
	snap := t.current()
	return append([]*Node(nil), snap.flat...)
}

// Refresh rescans the documentation directory and swaps in a new snapshot.
func (t *Tree) Refresh(ctx context.Context) error {
	if ctx != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	snap := t.scan()

	t.mu.Lock()
	t.snap = snap
	t.mu.Unlock()
	return nil
}

// Stale reports whether any scanned file changed, disappeared, or the docs
// directory itself was touched since the current snapshot was built.
func (t *Tree) Stale() bool {
	t.mu.RLock()
	snap := t.snap
	t.mu.RUnlock()

	for path, recorded := range snap.mtimes {
		info, err := os.Stat(path)
		if err != nil {
			return true
		}
		if info.ModTime().After(recorded) {
			return true
		}
	}

	if info, err := os.Stat(t.docsDir); err == nil {
		if info.ModTime().After(snap.builtAt) {
			return true
		}
	}
	return false
}

// current returns the live snapshot, rescanning first when AutoRefresh is on
// and sources changed.
func (t *Tree) current() *snapshot {
	if t.autoRefresh && t.Stale() {
		snap := t.scan()
		t.mu.Lock()
		t.snap = snap
		t.mu.Unlock()
		return snap
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snap
}

func (t *Tree) scan() *snapshot {
	snap := &snapshot{
		buildID:   uuid.New(),
		builtAt:   time.Now(),
		pathIndex: map[string]*Node{},
		mtimes:    map[string]time.Time{},
	}

	logger := logging.WithFields(t.logger, map[string]any{
		"build_id": snap.buildID.String(),
	})

	if _, err := os.Stat(t.docsDir); err != nil {
		logger.Warn("doctree.scan.docs_dir_missing", "dir", t.docsDir, "error", err)
		return snap
	}

	snap.root = t.scanDirectory(snap, logger, t.docsDir, "")
	snap.flat = flatten(snap.root)

	logger.Info("doctree.scan.completed",
		"documents", len(snap.flat),
		"indexed_paths", len(snap.pathIndex),
	)
	return snap
}

// scanDirectory builds the node for one directory: markdown files become
// document children, subdirectories become sections, and an index.md (when
// present) lends the directory its title and order and sorts among the
// children like any sibling.
func (t *Tree) scanDirectory(snap *snapshot, logger interfaces.Logger, dirPath, urlPath string) *Node {
	var children []*Node
	var indexNode *Node

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		logger.Warn("doctree.scan.read_dir_failed", "dir", dirPath, "error", err)
		entries = nil
	}

	for _, entry := range entries {
		name := entry.Name()
		fullPath := filepath.Join(dirPath, name)

		switch {
		case !entry.IsDir() && strings.HasSuffix(name, ".md"):
			node, err := t.parseFile(fullPath, urlPath)
			if err != nil {
				// A malformed document must not take the whole site down.
				logger.Warn("doctree.scan.skipping_document", "file", fullPath, "error", err)
				continue
			}
			if info, err := entry.Info(); err == nil {
				snap.mtimes[fullPath] = info.ModTime()
				node.LastModified = info.ModTime()
			}
			if strings.TrimSuffix(name, ".md") == "index" {
				indexNode = node
			} else {
				children = append(children, node)
				snap.pathIndex[node.Path] = node
			}

		case entry.IsDir() && !strings.HasPrefix(name, ".") && !strings.HasPrefix(name, "_"):
			childURL := name
			if urlPath != "" {
				childURL = urlPath + "/" + name
			}
			child := t.scanDirectory(snap, logger, fullPath, childURL)
			child.IsSection = true
			children = append(children, child)
		}
	}

	// The index joins its siblings before sorting, so an explicit order on
	// it behaves like any other document's.
	if indexNode != nil {
		snap.pathIndex[indexNode.Path] = indexNode
		children = append([]*Node{indexNode}, children...)
	}

	sort.SliceStable(children, func(i, j int) bool {
		if children[i].Metadata.Order != children[j].Metadata.Order {
			return children[i].Metadata.Order < children[j].Metadata.Order
		}
		return strings.ToLower(children[i].Metadata.Title) < strings.ToLower(children[j].Metadata.Title)
	})

	dirTitle := markdown.HumanizeFilename(filepath.Base(dirPath))
	if urlPath == "" {
		dirTitle = markdown.HumanizeFilename("root")
	}
	dirOrder := markdown.DefaultOrder
	if indexNode != nil {
		dirTitle = indexNode.Metadata.Title
		dirOrder = indexNode.Metadata.Order
	}

	dirNode := &Node{
		Path:      urlPath,
		IsSection: true,
		Children:  children,
		Metadata: interfaces.Metadata{
			Title: dirTitle,
			Order: dirOrder,
		},
	}
	if urlPath != "" {
		snap.pathIndex[urlPath] = dirNode
	}
	return dirNode
}

func (t *Tree) parseFile(fullPath, urlPrefix string) (*Node, error) {
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, err
	}

	stem := strings.TrimSuffix(filepath.Base(fullPath), ".md")
	segment := stem
	urlPath := segment
	if urlPrefix != "" {
		urlPath = urlPrefix + "/" + segment
	}

	doc, err := markdown.BuildDocument(fullPath, urlPath, data, time.Time{})
	if err != nil {
		return nil, err
	}

	// A frontmatter slug overrides the filename-derived segment for
	// non-index documents.
	if stem != "index" && doc.Metadata.Slug != "" && slug.IsValid(doc.Metadata.Slug) {
		segment = doc.Metadata.Slug
		urlPath = segment
		if urlPrefix != "" {
			urlPath = urlPrefix + "/" + segment
		}
	}

	return &Node{
		Path:       urlPath,
		SourcePath: fullPath,
		Metadata:   doc.Metadata,
		RawContent: doc.Body,
	}, nil
}

func buildNavItems(nodes []*Node) []interfaces.NavItem {
	var items []interfaces.NavItem
	for _, node := range nodes {
		if node.Metadata.Hidden {
			continue
		}
		path := node.Path
		if path == "" {
			path = "index"
		}
		items = append(items, interfaces.NavItem{
			Title:    node.Metadata.Title,
			Path:     path,
			Children: buildNavItems(node.Children),
		})
	}
	return items
}

// flatten lists visible documents depth-first, matching sidebar order.
func flatten(node *Node) []*Node {
	if node == nil {
		return nil
	}
	var result []*Node
	if node.Document() && !node.Metadata.Hidden {
		result = append(result, node)
	}
	for _, child := range node.Children {
		result = append(result, flatten(child)...)
	}
	return result
}
