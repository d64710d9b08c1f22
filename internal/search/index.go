// Package search provides the in-memory full-text index over the document
// set. Matching is deliberately simple term containment with a small scoring
// scheme; the index is rebuilt wholesale whenever the document tree changes.
package search

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/goliatone/go-docsite/internal/doctree"
	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

const (
	titleMatchScore      = 10.0
	exactTitleBonus      = 5.0
	descriptionScore     = 5.0
	maxBodyOccurrences   = 5
	defaultLimit         = 10
	defaultSnippetRadius = 150
)

// Config tunes index behaviour.
type Config struct {
	// Limit caps results per query when the caller does not override it.
	Limit int
	// SnippetRadius is the context kept around the earliest match.
	SnippetRadius int
	Logger        interfaces.Logger
}

type entry struct {
	path        string
	title       string
	description string
	body        string

	titleLower       string
	descriptionLower string
	bodyLower        string
}

// Index is a rebuild-on-change search index keyed by document path. Reads
// and full rebuilds may race freely; readers always see a complete
// generation.
type Index struct {
	limit         int
	snippetRadius int
	logger        interfaces.Logger

	mu      sync.RWMutex
	entries []entry
	buildID uuid.UUID
}

// New constructs an empty index.
func New(cfg Config) *Index {
	limit := cfg.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	radius := cfg.SnippetRadius
	if radius <= 0 {
		radius = defaultSnippetRadius
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Index{
		limit:         limit,
		snippetRadius: radius,
		logger:        logger,
	}
}

// IndexAll replaces the index content with the supplied documents, tagging
// the generation with the originating tree build id.
func (idx *Index) IndexAll(docs []*doctree.Node, buildID uuid.UUID) {
	entries := make([]entry, 0, len(docs))
	for _, doc := range docs {
		if doc == nil || doc.Metadata.Hidden {
			continue
		}
		body := string(doc.RawContent)
		e := entry{
			path:        doc.Path,
			title:       doc.Metadata.Title,
			description: doc.Metadata.Description,
			body:        body,

			titleLower:       strings.ToLower(doc.Metadata.Title),
			descriptionLower: strings.ToLower(doc.Metadata.Description),
			bodyLower:        strings.ToLower(body),
		}
		entries = append(entries, e)
	}

	idx.mu.Lock()
	idx.entries = entries
	idx.buildID = buildID
	idx.mu.Unlock()

	idx.logger.Debug("search.index.rebuilt",
		"documents", len(entries),
		"build_id", buildID.String(),
	)
}

// BuildID returns the tree generation the index was last built from.
func (idx *Index) BuildID() uuid.UUID {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.buildID
}

// Search scores every indexed document against the query terms and returns
// the best matches with contextual snippets. A blank query yields nil.
func (idx *Index) Search(query string, limit int) []interfaces.SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if limit <= 0 {
		limit = idx.limit
	}

	words := strings.Fields(strings.ToLower(query))

	idx.mu.RLock()
	entries := idx.entries
	idx.mu.RUnlock()

	var results []interfaces.SearchResult
	for i := range entries {
		e := &entries[i]

		score := 0.0
		for _, word := range words {
			if strings.Contains(e.titleLower, word) {
				score += titleMatchScore
				if word == e.titleLower {
					score += exactTitleBonus
				}
			}
			if e.descriptionLower != "" && strings.Contains(e.descriptionLower, word) {
				score += descriptionScore
			}
			if occurrences := strings.Count(e.bodyLower, word); occurrences > 0 {
				score += float64(min(occurrences, maxBodyOccurrences))
			}
		}

		if score > 0 {
			results = append(results, interfaces.SearchResult{
				Path:    e.path,
				Title:   e.title,
				Snippet: idx.snippet(e, words),
				Score:   score,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

var whitespacePattern = regexp.MustCompile(`\s+`)

// snippet extracts the body text around the earliest query-word match,
// collapsing whitespace and adding ellipses at cut edges.
func (idx *Index) snippet(e *entry, words []string) string {
	best := len(e.body)
	for _, word := range words {
		if pos := strings.Index(e.bodyLower, word); pos >= 0 && pos < best {
			best = pos
		}
	}
	if best == len(e.body) {
		best = 0
	}

	start := max(0, best-idx.snippetRadius/2)
	end := min(len(e.body), best+idx.snippetRadius)

	// Window edges must land on rune boundaries or the snippet carries
	// invalid UTF-8 into the JSON response.
	for start > 0 && !utf8.RuneStart(e.body[start]) {
		start--
	}
	for end < len(e.body) && !utf8.RuneStart(e.body[end]) {
		end--
	}

	snippet := strings.TrimSpace(whitespacePattern.ReplaceAllString(e.body[start:end], " "))
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(e.body) {
		snippet = snippet + "..."
	}
	return snippet
}
