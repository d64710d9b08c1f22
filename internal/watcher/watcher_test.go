package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startWatcher(t *testing.T, root string, filters []Filter) chan []ChangeEvent {
	t.Helper()

	events := make(chan []ChangeEvent, 8)
	w, err := New(Config{
		Root:     root,
		Debounce: 50 * time.Millisecond,
		Filters:  filters,
		Handler: func(batch []ChangeEvent) {
			events <- batch
		},
	})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		t.Fatalf("start watcher: %v", err)
	}
	t.Cleanup(func() {
		cancel()
		_ = w.Stop()
	})
	return events
}

func waitForBatch(t *testing.T, events chan []ChangeEvent) []ChangeEvent {
	t.Helper()
	select {
	case batch := <-events:
		return batch
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change events")
		return nil
	}
}

func TestWatcherReportsCreatedFiles(t *testing.T) {
	root := t.TempDir()
	events := startWatcher(t, root, nil)

	target := filepath.Join(root, "page.md")
	if err := os.WriteFile(target, []byte("# Page\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	batch := waitForBatch(t, events)
	found := false
	for _, ev := range batch {
		if ev.Path == target {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected event for %s, got %+v", target, batch)
	}
}

func TestWatcherDebouncesBursts(t *testing.T) {
	root := t.TempDir()
	events := startWatcher(t, root, nil)

	target := filepath.Join(root, "page.md")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(target, []byte("# Page\n"), 0o644); err != nil {
			t.Fatalf("write file: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	batch := waitForBatch(t, events)
	count := 0
	for _, ev := range batch {
		if ev.Path == target {
			count++
		}
	}
	// Rapid writes to the same path collapse into one pending event.
	if count != 1 {
		t.Fatalf("expected a single collapsed event, got %d in %+v", count, batch)
	}
}

func TestWatcherAppliesFilters(t *testing.T) {
	root := t.TempDir()
	events := startWatcher(t, root, []Filter{MarkdownFilter})

	ignored := filepath.Join(root, "notes.txt")
	if err := os.WriteFile(ignored, []byte("ignored"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	kept := filepath.Join(root, "doc.md")
	if err := os.WriteFile(kept, []byte("# Doc\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	batch := waitForBatch(t, events)
	for _, ev := range batch {
		if ev.Path == ignored {
			t.Fatalf("filtered path leaked: %+v", batch)
		}
	}
}

func TestWatcherPicksUpNewDirectories(t *testing.T) {
	root := t.TempDir()
	events := startWatcher(t, root, []Filter{MarkdownFilter})

	sub := filepath.Join(root, "guides")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	// Give the watcher a beat to register the new directory.
	time.Sleep(100 * time.Millisecond)

	target := filepath.Join(sub, "intro.md")
	if err := os.WriteFile(target, []byte("# Intro\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case batch := <-events:
			for _, ev := range batch {
				if ev.Path == target {
					return
				}
			}
		case <-deadline:
			t.Fatal("timed out waiting for event in new directory")
		}
	}
}

func TestNewRejectsMissingRootOrHandler(t *testing.T) {
	if _, err := New(Config{Handler: func([]ChangeEvent) {}}); err == nil {
		t.Fatal("expected error for missing root")
	}
	if _, err := New(Config{Root: t.TempDir()}); err == nil {
		t.Fatal("expected error for missing handler")
	}
}

func TestFilters(t *testing.T) {
	if !MarkdownFilter("/docs/a.md") || MarkdownFilter("/docs/a.png") {
		t.Fatal("markdown filter misclassified paths")
	}
	if NoHiddenFilter("/docs/.git/config") || NoHiddenFilter("/docs/_drafts/a.md") {
		t.Fatal("hidden filter should reject dot and underscore segments")
	}
	if !NoHiddenFilter("/docs/guides/a.md") {
		t.Fatal("hidden filter rejected a normal path")
	}
}
