package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrDocsDirRequired indicates the docs directory was not configured.
var ErrDocsDirRequired = errors.New("docsite config: docs directory is required")

// ErrSearchLimitInvalid ensures the search result cap stays positive.
var ErrSearchLimitInvalid = errors.New("docsite config: search limit must be positive")

// ErrSearchSnippetRadiusInvalid ensures snippet context stays positive.
var ErrSearchSnippetRadiusInvalid = errors.New("docsite config: search snippet radius must be positive")

// ErrWatchDebounceInvalid ensures the watcher debounce window stays positive.
var ErrWatchDebounceInvalid = errors.New("docsite config: watch debounce must be positive")

var ErrLoggingProviderUnknown = errors.New("docsite config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("docsite config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("docsite config: logging format is invalid")

// Config aggregates the runtime options for the documentation module. Fields
// intentionally use simple types so host applications can unmarshal them from
// YAML or wire them programmatically.
type Config struct {
	// DocsDir is the directory holding the markdown document tree.
	DocsDir string `yaml:"docs_dir"`
	// BasePath is the prefix the router is mounted under, used when templates
	// build absolute links. Hosts mounting at the root can leave it empty.
	BasePath string `yaml:"base_path"`

	Title         string       `yaml:"title"`
	Description   string       `yaml:"description"`
	LogoURL       string       `yaml:"logo_url"`
	FaviconURL    string       `yaml:"favicon_url"`
	CopyrightText string       `yaml:"copyright_text"`
	FooterLinks   []FooterLink `yaml:"footer_links"`

	// SyntaxTheme names the client-side highlight style shipped with the
	// embedded assets.
	SyntaxTheme string `yaml:"syntax_theme"`
	// LineNumbers toggles line numbers on highlighted code blocks.
	LineNumbers bool `yaml:"line_numbers"`
	// ExtraCSS and ExtraJS list stylesheet and script URLs injected into
	// every rendered page.
	ExtraCSS []string `yaml:"extra_css"`
	ExtraJS  []string `yaml:"extra_js"`

	// AutoRefresh re-scans the document tree on access when source files
	// changed (mtime based). Intended for development; the fsnotify watcher
	// is the push-based alternative.
	AutoRefresh bool `yaml:"auto_refresh"`
	// EnableSearch controls the /_search endpoint and index maintenance.
	EnableSearch bool `yaml:"enable_search"`

	Markdown MarkdownConfig `yaml:"markdown"`
	Search   SearchConfig   `yaml:"search"`
	Watch    WatchConfig    `yaml:"watch"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// FooterLink is a labelled URL rendered in the page footer.
type FooterLink struct {
	Text string `yaml:"text" json:"text"`
	URL  string `yaml:"url" json:"url"`
}

// MarkdownConfig tunes the goldmark rendering pipeline.
type MarkdownConfig struct {
	// Extensions selects goldmark extensions by name. Empty means the GFM
	// defaults.
	Extensions []string `yaml:"extensions"`
	HardWraps  bool     `yaml:"hard_wraps"`
	// Unsafe lets raw HTML blocks pass through to the rendered output.
	Unsafe bool `yaml:"unsafe"`
	// MarkExternalLinks decorates absolute links with class/target/rel.
	MarkExternalLinks bool `yaml:"mark_external_links"`
}

// SearchConfig tunes the in-memory search index.
type SearchConfig struct {
	// Limit caps the number of results returned per query.
	Limit int `yaml:"limit"`
	// SnippetRadius is the number of context characters kept around the
	// earliest match when building result snippets.
	SnippetRadius int `yaml:"snippet_radius"`
}

// WatchConfig controls the fsnotify-based reload watcher.
type WatchConfig struct {
	Enabled bool `yaml:"enabled"`
	// Debounce groups rapid change bursts into a single rebuild.
	Debounce time.Duration `yaml:"debounce"`
}

// UnmarshalYAML accepts debounce as a duration string ("300ms"). An absent
// value keeps whatever the struct already carries, typically the default.
func (w *WatchConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Enabled  *bool  `yaml:"enabled"`
		Debounce string `yaml:"debounce"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Enabled != nil {
		w.Enabled = *raw.Enabled
	}
	if raw.Debounce != "" {
		d, err := time.ParseDuration(raw.Debounce)
		if err != nil {
			return fmt.Errorf("docsite config: parse watch debounce: %w", err)
		}
		w.Debounce = d
	}
	return nil
}

// LoggingConfig selects and tunes the logging provider.
type LoggingConfig struct {
	// Provider picks the adapter: "gologger" or "noop".
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// DefaultConfig returns the canonical defaults: search enabled, external link
// marking on, GFM extensions, ten results with 150 characters of snippet
// context.
func DefaultConfig() Config {
	return Config{
		Title:        "Documentation",
		SyntaxTheme:  "default",
		EnableSearch: true,
		Markdown: MarkdownConfig{
			MarkExternalLinks: true,
		},
		Search: SearchConfig{
			Limit:         10,
			SnippetRadius: 150,
		},
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.DocsDir) == "" {
		return ErrDocsDirRequired
	}
	if cfg.Search.Limit <= 0 {
		return fmt.Errorf("%w: %d", ErrSearchLimitInvalid, cfg.Search.Limit)
	}
	if cfg.Search.SnippetRadius <= 0 {
		return fmt.Errorf("%w: %d", ErrSearchSnippetRadiusInvalid, cfg.Search.SnippetRadius)
	}
	if cfg.Watch.Enabled && cfg.Watch.Debounce <= 0 {
		return fmt.Errorf("%w: %s", ErrWatchDebounceInvalid, cfg.Watch.Debounce)
	}

	provider := strings.ToLower(strings.TrimSpace(cfg.Logging.Provider))
	if provider != "" && !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "gologger", "noop":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
