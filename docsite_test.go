package docsite

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func moduleFixture(t *testing.T, mutate func(*Config)) *Module {
	t.Helper()

	root := t.TempDir()
	write := func(rel, content string) {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", rel, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	write("index.md", "---\ntitle: Home\norder: 1\n---\n# Home\n\nWelcome.\n")
	write("guides/index.md", "---\ntitle: Guides\n---\nOverview.\n")
	write("guides/install.md", "---\ntitle: Install\n---\nRun the installer binary.\n")

	cfg := DefaultConfig()
	cfg.DocsDir = root
	cfg.Logging.Provider = "noop"
	if mutate != nil {
		mutate(&cfg)
	}

	module, err := New(cfg)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	return module
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected validation failure for empty config")
	}
}

func TestModuleServesMountedRouter(t *testing.T) {
	module := moduleFixture(t, nil)

	mux := http.NewServeMux()
	mux.Handle("/docs/", http.StripPrefix("/docs", module.Router()))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/guides/install", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Run the installer binary.") {
		t.Fatal("expected rendered document behind the mount")
	}
}

func TestModuleSearchEndpoint(t *testing.T) {
	module := moduleFixture(t, nil)

	rec := httptest.NewRecorder()
	module.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/_search?q=installer", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var results []SearchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) != 1 || results[0].Path != "guides/install" {
		t.Fatalf("unexpected results %+v", results)
	}
}

func TestModuleRefreshRebuildsTreeAndIndex(t *testing.T) {
	module := moduleFixture(t, nil)

	// Prime the search index.
	rec := httptest.NewRecorder()
	module.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/_search?q=installer", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("prime search: %d", rec.Code)
	}

	newDoc := filepath.Join(module.Tree().DocsDir(), "glossary.md")
	if err := os.WriteFile(newDoc, []byte("---\ntitle: Glossary\n---\nA troposphere of terms.\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := module.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	rec = httptest.NewRecorder()
	module.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/_search?q=troposphere", nil))
	var results []SearchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) != 1 || results[0].Path != "glossary" {
		t.Fatalf("expected refreshed index to find new doc, got %+v", results)
	}
}

func TestModuleReindexDisabledSearch(t *testing.T) {
	module := moduleFixture(t, func(cfg *Config) {
		cfg.EnableSearch = false
	})

	if err := module.Reindex(context.Background()); err == nil {
		t.Fatal("expected error when search is disabled")
	}
}

func TestModuleWatcherTriggersRefresh(t *testing.T) {
	module := moduleFixture(t, func(cfg *Config) {
		cfg.Watch.Enabled = true
		cfg.Watch.Debounce = 50 * time.Millisecond
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := module.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer module.Stop()

	before := module.Tree().BuildID()

	target := filepath.Join(module.Tree().DocsDir(), "news.md")
	if err := os.WriteFile(target, []byte("---\ntitle: News\n---\nFresh.\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if module.Tree().BuildID() != before {
			if _, err := module.Tree().Get("news"); err == nil {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("watcher did not trigger a refresh in time")
}

func TestBuildProviderNormalizesName(t *testing.T) {
	for _, name := range []string{"noop", "Noop", " NOOP "} {
		provider, err := buildProvider(LoggingConfig{Provider: name})
		if err != nil {
			t.Fatalf("provider %q: %v", name, err)
		}
		if _, ok := provider.(noopProvider); !ok {
			t.Fatalf("provider %q: expected the noop provider, got %T", name, provider)
		}
	}

	provider, err := buildProvider(LoggingConfig{Provider: "gologger"})
	if err != nil {
		t.Fatalf("gologger provider: %v", err)
	}
	if _, ok := provider.(noopProvider); ok {
		t.Fatal("gologger should not resolve to the noop provider")
	}
}

func TestModuleWatcherIgnoresNonMarkdownFiles(t *testing.T) {
	module := moduleFixture(t, func(cfg *Config) {
		cfg.Watch.Enabled = true
		cfg.Watch.Debounce = 50 * time.Millisecond
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := module.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer module.Stop()

	before := module.Tree().BuildID()

	asset := filepath.Join(module.Tree().DocsDir(), "diagram.png")
	if err := os.WriteFile(asset, []byte("not markdown"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Long enough for a debounced flush to have fired if the event passed
	// the filters.
	time.Sleep(500 * time.Millisecond)
	if module.Tree().BuildID() != before {
		t.Fatal("non-markdown change should not trigger a rescan")
	}
}

func TestModuleStartWithoutWatchIsNoop(t *testing.T) {
	module := moduleFixture(t, nil)

	if err := module.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := module.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
}
