// Package markdown turns raw documentation sources into structured documents
// and rendered HTML. It owns frontmatter extraction, title derivation, and
// the goldmark pipeline that produces page HTML with heading anchors, a table
// of contents, language-annotated code blocks, and marked external links.
package markdown
