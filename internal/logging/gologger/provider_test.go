package gologger

import (
	"testing"
)

func TestNewProviderFormats(t *testing.T) {
	for _, format := range []string{"", "json", "console", "pretty"} {
		provider, err := NewProvider(Config{Level: "debug", Format: format})
		if err != nil {
			t.Fatalf("format %q: %v", format, err)
		}
		logger := provider.GetLogger("docsite.test")
		if logger == nil {
			t.Fatalf("format %q: expected a logger", format)
		}
	}
}

func TestProviderScopesLoggers(t *testing.T) {
	provider, err := NewProvider(Config{Level: "error"})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	a := provider.GetLogger("docsite.tree")
	b := provider.GetLogger("docsite.search")
	if a == nil || b == nil {
		t.Fatal("expected scoped loggers")
	}
	// Calls must not panic on the adapter.
	a.Debug("scan", "dir", "/tmp")
	b.Error("index", "error", "none")
}
