package interfaces

// MarkdownRenderer defines how raw markdown bytes become HTML plus a table of
// contents. Implementations must be safe for concurrent use so a single
// instance can serve every request.
type MarkdownRenderer interface {
	// Render converts markdown into HTML using the renderer's defaults.
	Render(markdown []byte) (*RenderResult, error)
	// RenderWithOptions converts markdown into HTML using the supplied overrides.
	RenderWithOptions(markdown []byte, opts RenderOptions) (*RenderResult, error)
}

// RenderOptions customises markdown rendering behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type RenderOptions struct {
	// Extensions selects goldmark extensions by name (gfm, table, footnote...).
	Extensions []string
	// HardWraps renders newlines as <br> elements.
	HardWraps bool
	// Unsafe allows raw HTML blocks to pass through to the output.
	Unsafe bool
	// MarkExternalLinks decorates absolute links with class/target/rel
	// attributes so templates can style and sandbox them.
	MarkExternalLinks bool
}

// DocumentSource loads documents for tree construction. The concrete
// implementation walks a directory, but tests can substitute fixtures.
type DocumentSource interface {
	Load(path string) (*Document, error)
}
