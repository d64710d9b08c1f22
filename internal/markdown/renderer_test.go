package markdown

import (
	"strings"
	"testing"

	"github.com/goliatone/go-docsite/pkg/interfaces"
)

func renderHTML(t *testing.T, r *Renderer, source string) (string, []interfaces.TocEntry) {
	t.Helper()
	result, err := r.Render([]byte(source))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(result.HTML), result.TOC
}

func TestRenderBasicMarkdown(t *testing.T) {
	r := NewRenderer(interfaces.RenderOptions{})

	html, _ := renderHTML(t, r, "# Title\n\nSome **bold** text.\n")
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Fatalf("expected bold markup, got %q", html)
	}
	if !strings.Contains(html, `id="title"`) {
		t.Fatalf("expected slugged heading id, got %q", html)
	}
}

func TestRenderAnnotatesFencedCodeBlocks(t *testing.T) {
	r := NewRenderer(interfaces.RenderOptions{})

	html, _ := renderHTML(t, r, "```go\nfmt.Println(\"hi\")\n```\n")
	if !strings.Contains(html, `<div class="highlight" data-language="go">`) {
		t.Fatalf("expected highlight wrapper with language, got %q", html)
	}
	if !strings.Contains(html, `<code class="language-go">`) {
		t.Fatalf("expected language class on code element, got %q", html)
	}
	if !strings.Contains(html, "fmt.Println(&quot;hi&quot;)") {
		t.Fatalf("expected escaped code content, got %q", html)
	}
}

func TestRenderCodeBlockWithoutLanguage(t *testing.T) {
	r := NewRenderer(interfaces.RenderOptions{})

	html, _ := renderHTML(t, r, "```\nplain\n```\n")
	if strings.Contains(html, "data-language") {
		t.Fatalf("expected no language attribute, got %q", html)
	}
	if !strings.Contains(html, "<pre><code>") {
		t.Fatalf("expected bare code element, got %q", html)
	}
}

func TestRenderCollectsTOC(t *testing.T) {
	r := NewRenderer(interfaces.RenderOptions{})

	_, toc := renderHTML(t, r, "# Overview\n\n## Install\n\ntext\n\n## Usage\n\n### Advanced Usage\n")
	if len(toc) != 4 {
		t.Fatalf("expected 4 toc entries, got %d: %+v", len(toc), toc)
	}
	if toc[0].Text != "Overview" || toc[0].Level != 1 {
		t.Fatalf("unexpected first entry %+v", toc[0])
	}
	if toc[3].Slug != "advanced-usage" {
		t.Fatalf("expected slug 'advanced-usage', got %q", toc[3].Slug)
	}
}

func TestRenderDeduplicatesHeadingSlugs(t *testing.T) {
	r := NewRenderer(interfaces.RenderOptions{})

	_, toc := renderHTML(t, r, "## Setup\n\n## Setup\n\n## Setup\n")

	slugs := map[string]bool{}
	for _, entry := range toc {
		if slugs[entry.Slug] {
			t.Fatalf("duplicate slug %q in %+v", entry.Slug, toc)
		}
		slugs[entry.Slug] = true
	}
	if !slugs["setup"] || !slugs["setup-1"] || !slugs["setup-2"] {
		t.Fatalf("expected suffixed slugs, got %+v", toc)
	}
}

func TestRenderMarksExternalLinks(t *testing.T) {
	r := NewRenderer(interfaces.RenderOptions{MarkExternalLinks: true})

	html, _ := renderHTML(t, r, "[local](./other) and [remote](https://example.com)\n")
	if !strings.Contains(html, `class="external"`) {
		t.Fatalf("expected external class, got %q", html)
	}
	if !strings.Contains(html, `rel="noopener noreferrer"`) {
		t.Fatalf("expected rel attributes, got %q", html)
	}
	if strings.Contains(html, `href="./other" class="external"`) {
		t.Fatalf("local link should not be marked external: %q", html)
	}
}

func TestRenderExternalLinksUnmarkedByDefault(t *testing.T) {
	r := NewRenderer(interfaces.RenderOptions{})

	html, _ := renderHTML(t, r, "[remote](https://example.com)\n")
	if strings.Contains(html, `class="external"`) {
		t.Fatalf("expected no external marking, got %q", html)
	}
}

func TestRenderGFMTables(t *testing.T) {
	r := NewRenderer(interfaces.RenderOptions{})

	html, _ := renderHTML(t, r, "| a | b |\n|---|---|\n| 1 | 2 |\n")
	if !strings.Contains(html, "<table>") {
		t.Fatalf("expected a table, got %q", html)
	}
}

func TestRenderWithOptionsHardWraps(t *testing.T) {
	r := NewRenderer(interfaces.RenderOptions{})

	result, err := r.RenderWithOptions([]byte("line one\nline two\n"), interfaces.RenderOptions{HardWraps: true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(result.HTML), "<br") {
		t.Fatalf("expected hard line break, got %q", result.HTML)
	}
}

func TestRenderUnsafeHTMLPassthrough(t *testing.T) {
	r := NewRenderer(interfaces.RenderOptions{Unsafe: true})

	html, _ := renderHTML(t, r, "<div class=\"note\">raw</div>\n")
	if !strings.Contains(html, `<div class="note">`) {
		t.Fatalf("expected raw html preserved, got %q", html)
	}
}
