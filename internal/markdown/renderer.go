package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goliatone/go-slug"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// Renderer implements interfaces.MarkdownRenderer using the goldmark engine.
// The default engine is built once and reused; per-call option overrides get a
// fresh engine so callers can share a single instance without locking.
type Renderer struct {
	defaults interfaces.RenderOptions
	engine   goldmark.Markdown
}

// NewRenderer constructs a renderer with the supplied defaults. Empty
// Extensions select the GFM baseline (tables, strikethrough, linkify,
// tasklist).
func NewRenderer(defaults interfaces.RenderOptions) *Renderer {
	return &Renderer{
		defaults: defaults,
		engine:   newGoldmarkEngine(defaults),
	}
}

// Render satisfies interfaces.MarkdownRenderer by converting markdown into
// HTML plus a table of contents using the renderer's default configuration.
func (r *Renderer) Render(markdown []byte) (*interfaces.RenderResult, error) {
	return r.render(r.engine, markdown)
}

// RenderWithOptions converts markdown using the provided overrides. A new
// engine is assembled per invocation, mirroring how hosts tweak extension
// sets for one-off previews.
func (r *Renderer) RenderWithOptions(markdown []byte, opts interfaces.RenderOptions) (*interfaces.RenderResult, error) {
	return r.render(newGoldmarkEngine(opts), markdown)
}

func (r *Renderer) render(engine goldmark.Markdown, markdown []byte) (*interfaces.RenderResult, error) {
	ctx := parser.NewContext(parser.WithIDs(newSlugIDs()))

	doc := engine.Parser().Parse(text.NewReader(markdown), parser.WithContext(ctx))

	toc, err := collectTOC(doc, markdown)
	if err != nil {
		return nil, fmt.Errorf("markdown toc: %w", err)
	}

	var buf bytes.Buffer
	if err := engine.Renderer().Render(&buf, markdown, doc); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}

	return &interfaces.RenderResult{
		HTML: buf.Bytes(),
		TOC:  toc,
	}, nil
}

// collectTOC walks the parsed AST and records every heading in document
// order. Heading ids were assigned during the parse, so anchors always agree
// with the emitted HTML.
func collectTOC(doc ast.Node, source []byte) ([]interfaces.TocEntry, error) {
	var toc []interfaces.TocEntry

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := node.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		entry := interfaces.TocEntry{
			Text:  string(heading.Text(source)),
			Level: heading.Level,
		}
		if value, ok := heading.AttributeString("id"); ok {
			if id, ok := value.([]byte); ok {
				entry.Slug = string(id)
			}
		}
		toc = append(toc, entry)
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, err
	}
	return toc, nil
}

func newGoldmarkEngine(opts interfaces.RenderOptions) goldmark.Markdown {
	exts := collectExtensions(opts.Extensions)
	exts = append(exts, &siteExtension{markExternalLinks: opts.MarkExternalLinks})

	parserOptions := []parser.Option{
		parser.WithAutoHeadingID(),
	}

	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if opts.Unsafe {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parserOptions...),
		goldmark.WithExtensions(exts...),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}

	return goldmark.New(engineOptions...)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{
			extension.GFM,
			extension.Linkify,
		}
	}

	var extenders []goldmark.Extender
	seen := map[string]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}
		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}

	return extenders
}

// slugIDs backs goldmark's auto heading ids with go-slug so TOC anchors use
// the same normalization rules as document slugs. Duplicate headings get a
// numeric suffix.
type slugIDs struct {
	used map[string]struct{}
}

func newSlugIDs() *slugIDs {
	return &slugIDs{used: map[string]struct{}{}}
}

func (s *slugIDs) Generate(value []byte, kind ast.NodeKind) []byte {
	base, err := slug.Normalize(string(value))
	if err != nil || base == "" {
		base = "heading"
	}

	candidate := base
	for i := 1; ; i++ {
		if _, taken := s.used[candidate]; !taken {
			break
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	s.used[candidate] = struct{}{}
	return []byte(candidate)
}

func (s *slugIDs) Put(value []byte) {
	s.used[string(value)] = struct{}{}
}

// siteExtension swaps in node renderers for fenced code blocks and links so
// pages carry the hooks the embedded front-end expects: language annotations
// for client-side highlighting and external-link attributes.
type siteExtension struct {
	markExternalLinks bool
}

func (e *siteExtension) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&siteNodeRenderer{markExternalLinks: e.markExternalLinks}, 500),
	))
}

type siteNodeRenderer struct {
	markExternalLinks bool
}

func (r *siteNodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
	reg.Register(ast.KindLink, r.renderLink)
	reg.Register(ast.KindAutoLink, r.renderAutoLink)
}

// renderFencedCodeBlock wraps code in a highlight container annotated with
// the fence language, e.g.
//
//	<div class="highlight" data-language="go"><pre><code class="language-go">
//
// so client-side highlighters can resolve the grammar without guessing.
func (r *siteNodeRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.FencedCodeBlock)
	if !entering {
		_, _ = w.WriteString("</code></pre></div>\n")
		return ast.WalkContinue, nil
	}

	language := n.Language(source)

	_, _ = w.WriteString(`<div class="highlight"`)
	if language != nil {
		_, _ = w.WriteString(` data-language="`)
		_, _ = w.Write(util.EscapeHTML(language))
		_ = w.WriteByte('"')
	}
	_, _ = w.WriteString("><pre><code")
	if language != nil {
		_, _ = w.WriteString(` class="language-`)
		_, _ = w.Write(util.EscapeHTML(language))
		_ = w.WriteByte('"')
	}
	_ = w.WriteByte('>')

	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		_, _ = w.Write(util.EscapeHTML(line.Value(source)))
	}
	return ast.WalkContinue, nil
}

func (r *siteNodeRenderer) renderLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Link)
	if !entering {
		_, _ = w.WriteString("</a>")
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString(`<a href="`)
	if !html.IsDangerousURL(n.Destination) {
		_, _ = w.Write(util.EscapeHTML(util.URLEscape(n.Destination, true)))
	}
	_ = w.WriteByte('"')
	if n.Title != nil {
		_, _ = w.WriteString(` title="`)
		_, _ = w.Write(util.EscapeHTML(n.Title))
		_ = w.WriteByte('"')
	}
	if r.markExternalLinks && isExternalURL(n.Destination) {
		_, _ = w.WriteString(` class="external" target="_blank" rel="noopener noreferrer"`)
	}
	_ = w.WriteByte('>')
	return ast.WalkContinue, nil
}

func (r *siteNodeRenderer) renderAutoLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.AutoLink)
	if !entering {
		return ast.WalkContinue, nil
	}

	url := n.URL(source)
	label := n.Label(source)

	_, _ = w.WriteString(`<a href="`)
	if n.AutoLinkType == ast.AutoLinkEmail && !bytes.HasPrefix(bytes.ToLower(url), []byte("mailto:")) {
		_, _ = w.WriteString("mailto:")
	}
	_, _ = w.Write(util.EscapeHTML(util.URLEscape(url, false)))
	_ = w.WriteByte('"')
	if r.markExternalLinks && n.AutoLinkType == ast.AutoLinkURL && isExternalURL(url) {
		_, _ = w.WriteString(` class="external" target="_blank" rel="noopener noreferrer"`)
	}
	_ = w.WriteByte('>')
	_, _ = w.Write(util.EscapeHTML(label))
	_, _ = w.WriteString("</a>")
	return ast.WalkContinue, nil
}

func isExternalURL(destination []byte) bool {
	dest := string(destination)
	return strings.HasPrefix(dest, "http://") ||
		strings.HasPrefix(dest, "https://") ||
		strings.HasPrefix(dest, "//")
}
