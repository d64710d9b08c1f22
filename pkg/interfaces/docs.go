package interfaces

import "time"

// Metadata models the frontmatter extracted from a documentation file. Order
// drives sibling sorting within a directory; Hidden removes the document from
// navigation, sibling traversal, and the search index while keeping it
// addressable by direct URL.
type Metadata struct {
	Title       string         `yaml:"title" json:"title"`
	Slug        string         `yaml:"slug" json:"slug,omitempty"`
	Order       int            `yaml:"order" json:"order"`
	Description string         `yaml:"description" json:"description,omitempty"`
	Tags        []string       `yaml:"tags" json:"tags,omitempty"`
	Hidden      bool           `yaml:"hidden" json:"hidden"`
	Custom      map[string]any `yaml:",inline" json:"custom,omitempty"`
}

// Document represents a markdown file with parsed metadata and raw body. The
// struct is shared between the interfaces package and internal implementations
// so consumers can depend on a stable contract.
type Document struct {
	Path         string
	SourcePath   string
	Metadata     Metadata
	Body         []byte
	LastModified time.Time
	// Checksum stores a digest of the original file content (SHA-256) so
	// refresh workflows can detect changes without re-parsing unchanged files.
	Checksum []byte
}

// TocEntry is a table-of-contents entry extracted from a rendered document's
// headings. Slug matches the id attribute emitted on the heading element.
type TocEntry struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
	Slug  string `json:"slug"`
}

// RenderResult carries the rendered HTML alongside the extracted TOC.
type RenderResult struct {
	HTML []byte
	TOC  []TocEntry
}

// NavItem is a node in the serializable navigation tree.
type NavItem struct {
	Title    string    `json:"title"`
	Path     string    `json:"path"`
	Children []NavItem `json:"children,omitempty"`
}

// Breadcrumb is a single step in the trail from the docs root to a document.
type Breadcrumb struct {
	Title string `json:"title"`
	Path  string `json:"path"`
}

// SearchResult pairs a matched document with a contextual snippet.
type SearchResult struct {
	Path    string  `json:"path"`
	Title   string  `json:"title"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score"`
}
